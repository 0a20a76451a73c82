package server

import (
	"net/http"
	"strings"

	"github.com/n0roo/navkit/internal/tenant"
)

// CreateTenantRequest is the body of POST /api/v2/tenants
type CreateTenantRequest struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Seed        bool   `json:"seed,omitempty"` // 기본 메뉴로 초기화
}

func (s *Server) handleTenants(w http.ResponseWriter, r *http.Request) {
	tenants, err := s.tenants.List()
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	if tenants == nil {
		tenants = []tenant.Tenant{}
	}

	s.jsonResponse(w, map[string]interface{}{
		"tenants": tenants,
		"total":   len(tenants),
	})
}

func (s *Server) handleTenantCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateTenantRequest
	if err := decodeJSON(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.ID != "" {
		if err := tenant.ValidateID(req.ID); err != nil {
			s.errorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if key := firstNonEmpty(req.ID, req.Name); key != "" {
		if _, err := s.tenants.Get(key); err == nil {
			s.errorResponse(w, http.StatusConflict, "이미 존재하는 테넌트입니다: "+key)
			return
		}
	}

	t, err := s.tenants.Create(req.ID, req.Name, req.Description)
	if err != nil {
		s.storeError(w, r, err)
		return
	}

	if req.Seed {
		seeded, err := s.menus.Seed(t.ID)
		if err != nil {
			s.storeError(w, r, err)
			return
		}
		for module, n := range seeded {
			s.invalidate(t.ID, module, "seed", "", n)
		}
	}

	s.publisher.PublishTenantChanged(t.ID, "create")
	s.jsonStatus(w, http.StatusCreated, t)
}

// handleTenantCurrent returns the current tenant and the tenant paths are
// built for, which is the fallback when none is current
func (s *Server) handleTenantCurrent(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"effective": s.router().TenantID(),
		"fallback":  s.config.FallbackTenant,
	}
	if t, err := s.tenants.Current(); err == nil {
		resp["tenant"] = t
	}
	s.jsonResponse(w, resp)
}

func (s *Server) handleTenantUse(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.ID) == "" {
		s.errorResponse(w, http.StatusBadRequest, "id required")
		return
	}

	t, err := s.tenants.Use(req.ID)
	if err != nil {
		s.storeError(w, r, err)
		return
	}

	s.publisher.PublishTenantChanged(t.ID, "use")
	s.jsonResponse(w, t)
}

func (s *Server) handleTenantDelete(w http.ResponseWriter, r *http.Request) {
	t, err := s.tenants.Get(r.PathValue("id"))
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	if err := s.tenants.Delete(t.ID); err != nil {
		s.storeError(w, r, err)
		return
	}

	s.cache.InvalidateTenant(t.ID)
	s.publisher.PublishTenantChanged(t.ID, "delete")
	s.jsonResponse(w, map[string]string{"status": "deleted", "id": t.ID})
}
