package lnb

import "github.com/n0roo/navkit/internal/route"

// RouteFor converts a clicked node into the route it opens.
// Tenant, module and project come from base.
func RouteFor(n Config, base route.ScreenRoute) route.ScreenRoute {
	r := route.ScreenRoute{
		Module:    base.Module,
		TenantID:  base.TenantID,
		ProjectID: base.ProjectID,
	}

	if t := n.SystemScreenType.RouteType(); t != "" {
		r.Type = t
		if t.IsAdmin() {
			return route.ScreenRoute{Type: t, Module: route.ModuleAdmin}
		}
		return r
	}

	if n.ScreenID != "" {
		r.Type = route.TypeUserScreen
		r.ScreenID = n.ScreenID
		return r
	}

	r.Type = route.TypeLNBMenu
	r.MenuID = n.ID
	return r
}

// ActiveID returns the id of the rendered node that the current route
// highlights, or "" when none does. Children are checked before their parent.
func ActiveID(m RenderModel, current route.ScreenRoute) string {
	var match func(n Config) bool
	switch current.Type {
	case route.TypeLNBMenu:
		if current.MenuID == "" {
			return ""
		}
		match = func(n Config) bool { return n.ID == current.MenuID }
	case route.TypeUserScreen:
		if current.ScreenID == "" {
			return ""
		}
		match = func(n Config) bool { return n.ScreenID == current.ScreenID }
	default:
		match = func(n Config) bool {
			return n.SystemScreenType != "" && n.SystemScreenType.RouteType() == current.Type
		}
	}

	for _, e := range m.Entries {
		for _, c := range e.Children {
			if match(c) {
				return c.ID
			}
		}
		if match(e.Node) {
			return e.Node.ID
		}
	}
	return ""
}

// ParentOf returns the id of the entry that contains child id, or ""
func ParentOf(m RenderModel, id string) string {
	for _, e := range m.Entries {
		for _, c := range e.Children {
			if c.ID == id {
				return e.Node.ID
			}
		}
	}
	return ""
}
