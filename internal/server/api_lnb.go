package server

import (
	"net/http"
	"strings"

	"github.com/n0roo/navkit/internal/lnb"
	"github.com/n0roo/navkit/internal/route"
)

// LNBResponse is the rendered menu of one tenant/module
type LNBResponse struct {
	TenantID       string             `json:"tenantId"`
	Module         route.Module       `json:"module"`
	Origin         lnb.Origin         `json:"origin"`
	Model          lnb.RenderModel    `json:"model"`
	Expanded       []string           `json:"expanded"`
	ActiveID       string             `json:"activeId,omitempty"`
	ActiveParentID string             `json:"activeParentId,omitempty"`
	Route          *route.ScreenRoute `json:"route,omitempty"`
}

// CreateLNBRequest is the body of POST /api/v2/lnb/configs
type CreateLNBRequest struct {
	TenantID string       `json:"tenantId"`
	Module   route.Module `json:"module"`
	lnb.Config
}

// PatchLNBRequest updates only the fields that are present
type PatchLNBRequest struct {
	Name             *string               `json:"name"`
	DisplayName      *string               `json:"displayName"`
	Icon             *string               `json:"icon"`
	Order            *int                  `json:"order"`
	IsActive         *bool                 `json:"isActive"`
	Type             *lnb.ItemType         `json:"type"`
	ScreenID         *string               `json:"screenId"`
	SystemScreenType *lnb.SystemScreenType `json:"systemScreenType"`
}

// ImportLNBRequest replaces the menu of one tenant/module
type ImportLNBRequest struct {
	TenantID string       `json:"tenantId"`
	Module   route.Module `json:"module"`
	Nodes    []lnb.Config `json:"nodes"`
}

func (p PatchLNBRequest) apply(c lnb.Config) lnb.Config {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.DisplayName != nil {
		c.DisplayName = *p.DisplayName
	}
	if p.Icon != nil {
		c.Icon = *p.Icon
	}
	if p.Order != nil {
		c.Order = *p.Order
	}
	if p.IsActive != nil {
		c.IsActive = *p.IsActive
	}
	if p.Type != nil {
		c.Type = *p.Type
	}
	if p.ScreenID != nil {
		c.ScreenID = *p.ScreenID
	}
	if p.SystemScreenType != nil {
		c.SystemScreenType = *p.SystemScreenType
	}
	return c
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// menuModule validates a module that owns an LNB. Empty means designer.
func menuModule(m route.Module) (route.Module, bool) {
	m = m.OrDefault()
	return m, m.Valid() && m != route.ModuleAdmin
}

// scope reads ?tenant= and ?module= with the router's tenant as fallback
func (s *Server) scope(r *http.Request) (string, route.Module, bool) {
	q := r.URL.Query()
	module, ok := menuModule(route.Module(q.Get("module")))
	return firstNonEmpty(q.Get("tenant"), s.router().TenantID()), module, ok
}

func (s *Server) invalidate(tenantID string, module route.Module, action, nodeID string, count int) {
	s.cache.Invalidate(tenantID, module)
	s.publisher.PublishLNBChanged(tenantID, module, action, nodeID, count)
}

// handleLNB renders the menu. With ?path= the tenant, module and active
// entry come from the resolved route unless given explicitly.
// ?toggle=a,b collapses or expands entries after the initial expansion.
func (s *Server) handleLNB(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var current *route.ScreenRoute
	if q.Has("path") {
		resolved, tier := route.Explain(q.Get("path"))
		s.metrics.RouteResolves.WithLabelValues(string(tier)).Inc()
		current = &resolved
	}

	var routeTenant, routeModule string
	if current != nil {
		routeTenant, routeModule = current.TenantID, string(current.Module)
	}

	tenantID := firstNonEmpty(q.Get("tenant"), routeTenant, s.router().TenantID())
	module, ok := menuModule(route.Module(firstNonEmpty(q.Get("module"), routeModule)))
	if !ok {
		s.errorResponse(w, http.StatusBadRequest, "LNB가 없는 모듈입니다: "+string(module))
		return
	}

	snap, err := s.menu(tenantID, module)
	if err != nil {
		s.storeError(w, r, err)
		return
	}

	model := lnb.Render(snap.nodes)
	expansion := lnb.NewExpansion()
	expansion.Load(model)
	if toggle := q.Get("toggle"); toggle != "" {
		for _, id := range strings.Split(toggle, ",") {
			if id = strings.TrimSpace(id); id != "" {
				expansion.Toggle(id)
			}
		}
	}

	resp := LNBResponse{
		TenantID: tenantID,
		Module:   module,
		Origin:   snap.origin,
		Model:    model,
		Expanded: expansion.Expanded(),
		Route:    current,
	}
	if current != nil {
		resp.ActiveID = lnb.ActiveID(model, *current)
		resp.ActiveParentID = lnb.ParentOf(model, resp.ActiveID)
	}

	s.jsonResponse(w, resp)
}

// handleLNBValidate reports structural warnings of the effective menu
func (s *Server) handleLNBValidate(w http.ResponseWriter, r *http.Request) {
	tenantID, module, ok := s.scope(r)
	if !ok {
		s.errorResponse(w, http.StatusBadRequest, "LNB가 없는 모듈입니다: "+string(module))
		return
	}

	snap, err := s.menu(tenantID, module)
	if err != nil {
		s.storeError(w, r, err)
		return
	}

	issues := lnb.Validate(snap.nodes)
	if issues == nil {
		issues = []lnb.Issue{}
	}
	s.jsonResponse(w, map[string]interface{}{
		"tenantId": tenantID,
		"module":   module,
		"origin":   snap.origin,
		"issues":   issues,
		"count":    len(issues),
	})
}

// handleLNBConfigs lists stored nodes. ?tree=true nests children.
func (s *Server) handleLNBConfigs(w http.ResponseWriter, r *http.Request) {
	tenantID, module, ok := s.scope(r)
	if !ok {
		s.errorResponse(w, http.StatusBadRequest, "LNB가 없는 모듈입니다: "+string(module))
		return
	}

	var (
		configs []lnb.Config
		err     error
	)
	if r.URL.Query().Get("tree") == "true" {
		configs, err = s.menus.Tree(tenantID, module)
	} else {
		configs, err = s.menus.List(tenantID, module)
	}
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	if configs == nil {
		configs = []lnb.Config{}
	}

	s.jsonResponse(w, map[string]interface{}{
		"tenantId": tenantID,
		"module":   module,
		"configs":  configs,
		"total":    len(configs),
	})
}

func (s *Server) handleLNBCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateLNBRequest
	if err := decodeJSON(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	module, ok := menuModule(req.Module)
	if !ok {
		s.errorResponse(w, http.StatusBadRequest, "LNB가 없는 모듈입니다: "+string(module))
		return
	}
	if req.Name == "" {
		s.errorResponse(w, http.StatusBadRequest, "name required")
		return
	}
	tenantID := firstNonEmpty(req.TenantID, s.router().TenantID())

	created, err := s.menus.Create(tenantID, module, req.Config)
	if err != nil {
		s.storeError(w, r, err)
		return
	}

	s.invalidate(tenantID, module, "create", created.ID, 1)
	s.jsonStatus(w, http.StatusCreated, created)
}

// configScope reads the node scope of /configs/{id}. Ids are unique only
// within a tenant/module.
func (s *Server) configScope(w http.ResponseWriter, r *http.Request) (string, route.Module, bool) {
	tenantID, module, ok := s.scope(r)
	if !ok {
		s.errorResponse(w, http.StatusBadRequest, "LNB가 없는 모듈입니다: "+string(module))
	}
	return tenantID, module, ok
}

func (s *Server) handleLNBGet(w http.ResponseWriter, r *http.Request) {
	tenantID, module, ok := s.configScope(w, r)
	if !ok {
		return
	}

	c, err := s.menus.Get(tenantID, module, r.PathValue("id"))
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	s.jsonResponse(w, c)
}

func (s *Server) handleLNBPatch(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	tenantID, module, ok := s.configScope(w, r)
	if !ok {
		return
	}

	var req PatchLNBRequest
	if err := decodeJSON(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	existing, err := s.menus.Get(tenantID, module, id)
	if err != nil {
		s.storeError(w, r, err)
		return
	}

	updated, err := s.menus.Update(tenantID, module, id, req.apply(*existing))
	if err != nil {
		s.storeError(w, r, err)
		return
	}

	s.invalidate(tenantID, module, "update", id, 1)
	s.jsonResponse(w, updated)
}

func (s *Server) handleLNBDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	tenantID, module, ok := s.configScope(w, r)
	if !ok {
		return
	}

	if err := s.menus.Delete(tenantID, module, id); err != nil {
		s.storeError(w, r, err)
		return
	}

	s.invalidate(tenantID, module, "delete", id, 0)
	s.jsonResponse(w, map[string]string{"status": "deleted", "id": id})
}

func (s *Server) handleLNBImport(w http.ResponseWriter, r *http.Request) {
	var req ImportLNBRequest
	if err := decodeJSON(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	module, ok := menuModule(req.Module)
	if !ok {
		s.errorResponse(w, http.StatusBadRequest, "LNB가 없는 모듈입니다: "+string(module))
		return
	}
	tenantID := firstNonEmpty(req.TenantID, s.router().TenantID())

	n, err := s.menus.Import(tenantID, module, req.Nodes)
	if err != nil {
		s.storeError(w, r, err)
		return
	}

	s.invalidate(tenantID, module, "import", "", n)
	s.jsonResponse(w, map[string]interface{}{
		"tenantId": tenantID,
		"module":   module,
		"imported": n,
		"issues":   lnb.Validate(req.Nodes),
	})
}

func (s *Server) handleLNBSeed(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TenantID string `json:"tenantId"`
	}
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			s.errorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	tenantID := firstNonEmpty(req.TenantID, s.router().TenantID())

	seeded, err := s.menus.Seed(tenantID)
	if err != nil {
		s.storeError(w, r, err)
		return
	}

	for module, n := range seeded {
		s.invalidate(tenantID, module, "seed", "", n)
	}
	s.jsonResponse(w, map[string]interface{}{
		"tenantId": tenantID,
		"seeded":   seeded,
	})
}
