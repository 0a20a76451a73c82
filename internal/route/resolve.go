package route

import (
	"net/url"
	"strings"
)

// Tier names a URL shape in the routing table
type Tier string

const (
	TierEmpty        Tier = "empty"
	TierAdmin        Tier = "admin"
	TierLNB          Tier = "lnb"
	TierGNB          Tier = "gnb"
	TierLegacyModule Tier = "legacy-module"
	TierLegacyFlat   Tier = "legacy-flat"
	TierDefault      Tier = "default"
)

// ReservedSegments can never be a tenant id in the first position
var ReservedSegments = []string{
	string(ModuleDesigner), string(ModuleModeler), string(ModuleViewer), string(ModuleAdmin),
	"database", "screen", "lnb", projectSegment,
}

// projectSegment marks the legacy project/:id path; it is never a project id
const projectSegment = "project"

// IsReserved reports whether seg may not be used as a tenant id
func IsReserved(seg string) bool {
	for _, r := range ReservedSegments {
		if r == seg {
			return true
		}
	}
	return false
}

// admin page segment -> type; "database" is a legacy alias of "db"
var adminByPage = map[string]ScreenType{
	"db":           TypeAdminDB,
	"database":     TypeAdminDB,
	"fields":       TypeAdminFields,
	"tables":       TypeAdminTables,
	"variables":    TypeAdminVariables,
	"functions":    TypeAdminFunctions,
	"lnbconfig":    TypeAdminLNBConfig,
	"screenconfig": TypeAdminScreenConfig,
}

// canonical page segment for each admin type
var adminPages = map[ScreenType]string{
	TypeAdminDB:           "db",
	TypeAdminFields:       "fields",
	TypeAdminTables:       "tables",
	TypeAdminVariables:    "variables",
	TypeAdminFunctions:    "functions",
	TypeAdminLNBConfig:    "lnbconfig",
	TypeAdminScreenConfig: "screenconfig",
}

var designerGNBPages = map[string]ScreenType{
	"projects":  TypeProjects,
	"screens":   TypeScreens,
	"tables":    TypeTables,
	"functions": TypeFunctions,
	"sync":      TypeSync,
	"settings":  TypeSettings,
}

var projectPages = map[string]ScreenType{
	"dashboard":        TypeDashboard,
	"screens":          TypeScreens,
	"illustration":     TypeIllustration,
	"project-settings": TypeProjectSettings,
	"no-screen":        TypeNoScreen,
}

var legacyPages = map[string]ScreenRoute{
	"projects":         {Type: TypeProjects, Module: ModuleDesigner},
	"dashboard":        {Type: TypeDashboard, Module: ModuleDesigner},
	"screens":          {Type: TypeScreens, Module: ModuleDesigner},
	"tables":           {Type: TypeTables, Module: ModuleDesigner},
	"databases":        {Type: TypeAdminDB, Module: ModuleAdmin},
	"sync":             {Type: TypeSync, Module: ModuleDesigner},
	"functions":        {Type: TypeFunctions, Module: ModuleDesigner},
	"settings":         {Type: TypeSettings, Module: ModuleDesigner},
	"illustration":     {Type: TypeIllustration, Module: ModuleDesigner},
	"project-settings": {Type: TypeProjectSettings, Module: ModuleDesigner},
	"modeler":          {Type: TypeModeler, Module: ModuleModeler},
	"viewer":           {Type: TypeViewer, Module: ModuleViewer},
}

// DefaultRoute is what every unmatched path resolves to
var DefaultRoute = ScreenRoute{Type: TypeProjects, Module: ModuleDesigner}

// rule is one tier of the routing table
type rule struct {
	tier    Tier
	pattern pattern
	resolve func(c captures) ScreenRoute
}

// rules are evaluated in order; the first match wins
var rules = []rule{
	{
		tier:    TierEmpty,
		pattern: pattern{exact: true},
		resolve: func(captures) ScreenRoute { return DefaultRoute },
	},
	{
		tier:    TierAdmin,
		pattern: pattern{segments: []matcher{lit("admin"), capture("page").opt()}},
		resolve: resolveAdmin,
	},
	{
		tier: TierLNB,
		pattern: pattern{segments: []matcher{
			capture("tenant").except(ReservedSegments...),
			capture("module"),
			capture("project").except(projectSegment),
			capture("page"),
			capture("id").opt(),
		}},
		resolve: resolveLNB,
	},
	{
		tier: TierGNB,
		pattern: pattern{segments: []matcher{
			capture("tenant").except(ReservedSegments...),
			capture("module"),
			capture("page").opt(),
		}},
		resolve: resolveGNB,
	},
	{
		tier: TierLegacyModule,
		pattern: pattern{segments: []matcher{
			capture("prefix").in("designer", "database"),
			capture("page"),
		}},
		resolve: resolveLegacyModule,
	},
	{
		tier:    TierLegacyFlat,
		pattern: pattern{segments: []matcher{capture("page"), capture("id").opt()}},
		resolve: resolveLegacyFlat,
	},
}

// Resolve maps a URL path to a ScreenRoute. It never fails: malformed or
// unknown paths fall back to the nearest default.
func Resolve(path string) ScreenRoute {
	r, _ := Explain(path)
	return r
}

// Explain resolves path and reports which tier produced the route
func Explain(path string) (ScreenRoute, Tier) {
	segs := Segments(path)
	for _, rl := range rules {
		if c, ok := rl.pattern.match(segs); ok {
			return rl.resolve(c), rl.tier
		}
	}
	return DefaultRoute, TierDefault
}

// Tiers returns the routing table's tiers in priority order
func Tiers() []Tier {
	tiers := make([]Tier, len(rules))
	for i, rl := range rules {
		tiers[i] = rl.tier
	}
	return tiers
}

// Segments splits a path on "/" and drops empty segments.
// Query strings and fragments are ignored. Segments are path-unescaped;
// a malformed escape is kept as is.
func Segments(path string) []string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}

	var segs []string
	for _, s := range strings.Split(path, "/") {
		if s == "" {
			continue
		}
		if u, err := url.PathUnescape(s); err == nil {
			s = u
		}
		segs = append(segs, s)
	}
	return segs
}

func resolveAdmin(c captures) ScreenRoute {
	t, ok := adminByPage[c["page"]]
	if !ok {
		t = TypeAdminDB
	}
	return ScreenRoute{Type: t, Module: ModuleAdmin}
}

func resolveGNB(c captures) ScreenRoute {
	r := ScreenRoute{TenantID: c["tenant"]}

	switch Module(c["module"]) {
	case ModuleDesigner:
		r.Module = ModuleDesigner
		r.Type = TypeProjects
		if t, ok := designerGNBPages[c["page"]]; ok {
			r.Type = t
		}
	case ModuleModeler:
		r.Module = ModuleModeler
		r.Type = TypeModeler
	case ModuleViewer:
		r.Module = ModuleViewer
		r.Type = TypeViewer
	default:
		r.Module = ModuleDesigner
		r.Type = TypeProjects
	}
	return r
}

func resolveLNB(c captures) ScreenRoute {
	r := ScreenRoute{
		TenantID:  c["tenant"],
		ProjectID: c["project"],
	}

	switch m := Module(c["module"]); m {
	case ModuleDesigner, ModuleModeler, ModuleViewer:
		r.Module = m
	default:
		r.Module = ModuleDesigner
		r.Type = TypeDashboard
		return r
	}

	page, id := c["page"], c["id"]
	switch page {
	case "lnb":
		if id == "" {
			r.Type = TypeScreens
			break
		}
		r.Type = TypeLNBMenu
		r.MenuID = id
	case "screen":
		if id == "" {
			r.Type = TypeScreens
			break
		}
		r.Type = TypeUserScreen
		r.ScreenID = id
	default:
		r.Type = TypeDashboard
		if t, ok := projectPages[page]; ok {
			r.Type = t
		}
	}
	return r
}

func resolveLegacyModule(c captures) ScreenRoute {
	if c["prefix"] == "database" {
		t, ok := adminByPage[c["page"]]
		if !ok {
			t = TypeAdminDB
		}
		return ScreenRoute{Type: t, Module: ModuleAdmin}
	}

	t, ok := designerGNBPages[c["page"]]
	if !ok {
		t = TypeProjects
	}
	return ScreenRoute{Type: t, Module: ModuleDesigner}
}

func resolveLegacyFlat(c captures) ScreenRoute {
	page, id := c["page"], c["id"]

	switch page {
	case "screen":
		if id == "" {
			return ScreenRoute{Type: TypeScreens, Module: ModuleDesigner}
		}
		return ScreenRoute{Type: TypeUserScreen, Module: ModuleDesigner, ScreenID: id}
	case "lnb":
		if id == "" {
			return ScreenRoute{Type: TypeScreens, Module: ModuleDesigner}
		}
		return ScreenRoute{Type: TypeLNBMenu, Module: ModuleDesigner, MenuID: id}
	case "project":
		if id == "" {
			return DefaultRoute
		}
		return ScreenRoute{Type: TypeDashboard, Module: ModuleDesigner, ProjectID: id}
	}

	if r, ok := legacyPages[page]; ok {
		return r
	}
	return DefaultRoute
}
