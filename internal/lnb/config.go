package lnb

import (
	"time"

	"github.com/n0roo/navkit/internal/route"
)

// ItemType is the author-declared role of a menu node.
// Rendering never consults it; see Classify.
type ItemType string

const (
	TypeIndependent ItemType = "independent"
	TypeParent      ItemType = "parent"
	TypeChild       ItemType = "child"
)

// SystemScreenType selects a built-in screen instead of a user-defined one
type SystemScreenType string

const (
	SystemDashboard       SystemScreenType = "dashboard"
	SystemProjectSettings SystemScreenType = "project-settings"
	SystemSectionLibrary  SystemScreenType = "section-library"
	SystemUserProfile     SystemScreenType = "user-profile"
	SystemSettings        SystemScreenType = "system-settings"

	SystemAdminDB           SystemScreenType = "admin-db"
	SystemAdminFields       SystemScreenType = "admin-fields"
	SystemAdminTables       SystemScreenType = "admin-tables"
	SystemAdminVariables    SystemScreenType = "admin-variables"
	SystemAdminFunctions    SystemScreenType = "admin-functions"
	SystemAdminLNBConfig    SystemScreenType = "admin-lnbconfig"
	SystemAdminScreenConfig SystemScreenType = "admin-screenconfig"
)

// RouteType maps a system screen to its route type.
// section-library and user-profile have no dedicated route and return "".
func (s SystemScreenType) RouteType() route.ScreenType {
	switch s {
	case SystemDashboard:
		return route.TypeDashboard
	case SystemProjectSettings:
		return route.TypeProjectSettings
	case SystemSettings:
		return route.TypeSettings
	case SystemAdminDB, SystemAdminFields, SystemAdminTables, SystemAdminVariables,
		SystemAdminFunctions, SystemAdminLNBConfig, SystemAdminScreenConfig:
		return route.ScreenType(s)
	}
	return ""
}

// Config is a single LNB menu node
type Config struct {
	ID               string           `json:"id" yaml:"id"`
	Name             string           `json:"name" yaml:"name"`
	DisplayName      string           `json:"displayName" yaml:"display_name"`
	Icon             string           `json:"icon,omitempty" yaml:"icon,omitempty"`
	Order            int              `json:"order" yaml:"order"`
	IsActive         bool             `json:"isActive" yaml:"is_active"`
	ParentID         string           `json:"parentId,omitempty" yaml:"parent_id,omitempty"`
	Type             ItemType         `json:"type,omitempty" yaml:"type,omitempty"`
	ScreenID         string           `json:"screenId,omitempty" yaml:"screen_id,omitempty"`
	SystemScreenType SystemScreenType `json:"systemScreenType,omitempty" yaml:"system_screen_type,omitempty"`
	Children         []Config         `json:"children,omitempty" yaml:"children,omitempty"`
	CreatedAt        time.Time        `json:"createdAt,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt        time.Time        `json:"updatedAt,omitempty" yaml:"updated_at,omitempty"`
}

// Label returns the display name, or the machine name when none is set
func (c Config) Label() string {
	if c.DisplayName != "" {
		return c.DisplayName
	}
	if c.Name != "" {
		return c.Name
	}
	return c.ID
}

// Flatten returns nodes and their descendants as a flat list with ParentID set
func Flatten(nodes []Config) []Config {
	var out []Config
	var walk func(list []Config, parentID string)
	walk = func(list []Config, parentID string) {
		for _, n := range list {
			children := n.Children
			n.Children = nil
			if parentID != "" {
				n.ParentID = parentID
			}
			out = append(out, n)
			walk(children, n.ID)
		}
	}
	walk(nodes, "")
	return out
}

// Nest attaches flat nodes to their ParentID. Nodes whose parent is not in
// the input stay at the top level. Existing Children are kept.
func Nest(nodes []Config) []Config {
	present := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		if n.ID != "" {
			present[n.ID] = true
		}
	}

	childrenOf := make(map[string][]Config)
	var roots []Config
	for _, n := range nodes {
		if n.ParentID != "" && n.ParentID != n.ID && present[n.ParentID] {
			childrenOf[n.ParentID] = append(childrenOf[n.ParentID], n)
			continue
		}
		roots = append(roots, n)
	}

	visited := make(map[string]bool)
	var build func(n Config) Config
	build = func(n Config) Config {
		visited[n.ID] = true
		kids := append([]Config(nil), n.Children...)
		for _, c := range childrenOf[n.ID] {
			if visited[c.ID] {
				continue
			}
			kids = append(kids, build(c))
		}
		n.Children = kids
		return n
	}

	out := make([]Config, 0, len(roots))
	for _, r := range roots {
		out = append(out, build(r))
	}

	// parent cycles leave nodes unreachable from any root
	for _, n := range nodes {
		if n.ID != "" && !visited[n.ID] {
			n.ParentID = ""
			out = append(out, build(n))
		}
	}

	return out
}
