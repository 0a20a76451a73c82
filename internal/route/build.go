package route

import (
	"net/url"
	"strings"
)

// FallbackTenantID is used when neither the route nor the context names a tenant
const FallbackTenantID = "default"

// SkipReason explains why a navigation request produced no path
type SkipReason string

const (
	SkipMissingScreenID SkipReason = "missing-screen-id"
	SkipMissingMenuID   SkipReason = "missing-menu-id"
	SkipReservedTenant  SkipReason = "reserved-tenant"
	SkipReservedProject SkipReason = "reserved-project"
)

// NavigationResult is either Navigated(path) or Skipped(reason)
type NavigationResult struct {
	Navigated bool       `json:"navigated"`
	Path      string     `json:"path,omitempty"`
	Reason    SkipReason `json:"reason,omitempty"`
}

func navigated(path string) NavigationResult {
	return NavigationResult{Navigated: true, Path: path}
}

func skipped(reason SkipReason) NavigationResult {
	return NavigationResult{Reason: reason}
}

// TenantContext supplies the currently active tenant
type TenantContext interface {
	CurrentTenantID() string
}

// StaticTenant is a TenantContext with a fixed tenant id
type StaticTenant string

// CurrentTenantID implements TenantContext
func (s StaticTenant) CurrentTenantID() string {
	return string(s)
}

// Navigator pushes a path onto the navigation history
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to Navigator
type NavigatorFunc func(path string)

// Navigate implements Navigator
func (f NavigatorFunc) Navigate(path string) {
	f(path)
}

// Build constructs the canonical path for r. tenantID is the ambient
// tenant used when r carries none; FallbackTenantID is used when both are empty.
// Ids are path-escaped. A tenant or project id that would be read back as a
// reserved segment is skipped.
func Build(r ScreenRoute, tenantID string) NavigationResult {
	if r.TenantID != "" {
		tenantID = r.TenantID
	}
	if tenantID == "" {
		tenantID = FallbackTenantID
	}

	if r.Module == ModuleAdmin {
		page, ok := adminPages[r.Type]
		if !ok {
			page = adminPages[TypeAdminDB]
		}
		return navigated("/admin/" + page)
	}

	if IsReserved(tenantID) {
		return skipped(SkipReservedTenant)
	}

	module := r.Module.OrDefault()
	buildURL := func(suffix string, isLNB bool) NavigationResult {
		parts := []string{"", url.PathEscape(tenantID), string(module)}
		if isLNB && r.ProjectID != "" {
			// LNB 패턴은 세 번째 세그먼트가 "project"이면 매칭하지 않음
			if r.ProjectID == projectSegment {
				return skipped(SkipReservedProject)
			}
			parts = append(parts, url.PathEscape(r.ProjectID))
		}
		return navigated(strings.Join(parts, "/") + suffix)
	}

	switch r.Type {
	case TypeProjects, TypeTables, TypeFunctions, TypeSync, TypeSettings:
		return buildURL("/"+string(r.Type), false)

	case TypeModeler:
		return navigated("/" + url.PathEscape(tenantID) + "/" + string(ModuleModeler))
	case TypeViewer:
		return navigated("/" + url.PathEscape(tenantID) + "/" + string(ModuleViewer))

	case TypeUserScreen:
		if r.ScreenID == "" {
			return skipped(SkipMissingScreenID)
		}
		return buildURL("/screen/"+url.PathEscape(r.ScreenID), true)
	case TypeLNBMenu:
		if r.MenuID == "" {
			return skipped(SkipMissingMenuID)
		}
		return buildURL("/lnb/"+url.PathEscape(r.MenuID), true)

	case TypeDashboard, TypeIllustration, TypeProjectSettings, TypeNoScreen:
		return buildURL("/"+string(r.Type), true)

	case TypeScreens:
		// designer lists screens module-wide; other modules scope them to a project
		return buildURL("/screens", module != ModuleDesigner)

	default:
		return buildURL("/projects", false)
	}
}

// Router builds paths against an ambient tenant and hands them to a Navigator
type Router struct {
	tenants  TenantContext
	nav      Navigator
	fallback string
}

// NewRouter creates a new router. tenants and nav may be nil.
func NewRouter(tenants TenantContext, nav Navigator) *Router {
	return &Router{
		tenants:  tenants,
		nav:      nav,
		fallback: FallbackTenantID,
	}
}

// WithFallbackTenant overrides the literal fallback tenant id
func (r *Router) WithFallbackTenant(id string) *Router {
	if id != "" {
		r.fallback = id
	}
	return r
}

// TenantID returns the tenant a route without one would be built for
func (r *Router) TenantID() string {
	if r.tenants != nil {
		if id := r.tenants.CurrentTenantID(); id != "" {
			return id
		}
	}
	return r.fallback
}

// Build returns the path for to without navigating
func (r *Router) Build(to ScreenRoute) NavigationResult {
	return Build(to, r.TenantID())
}

// Navigate builds the path for to and pushes it to the navigator.
// Skipped results never reach the navigator.
func (r *Router) Navigate(to ScreenRoute) NavigationResult {
	res := r.Build(to)
	if res.Navigated && r.nav != nil {
		r.nav.Navigate(res.Path)
	}
	return res
}

// Resolve is a convenience wrapper around the package-level Resolve
func (r *Router) Resolve(path string) ScreenRoute {
	return Resolve(path)
}
