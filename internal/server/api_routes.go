package server

import (
	"net/http"

	"github.com/n0roo/navkit/internal/route"
)

// ResolveResponse is the result of GET /api/v2/routes/resolve
type ResolveResponse struct {
	Path     string            `json:"path"`
	Segments []string          `json:"segments"`
	Route    route.ScreenRoute `json:"route"`
	Tier     route.Tier        `json:"tier"`
}

// BuildResponse is the result of POST /api/v2/routes/build
type BuildResponse struct {
	route.NavigationResult
	TenantID string             `json:"tenantId"`
	Resolved *route.ScreenRoute `json:"resolved,omitempty"`
}

// router builds paths with the current tenant, then the configured fallback
func (s *Server) router() *route.Router {
	return route.NewRouter(s.tenants, nil).WithFallbackTenant(s.config.FallbackTenant)
}

// handleResolve resolves ?path= into a ScreenRoute
func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")

	resolved, tier := route.Explain(path)
	s.metrics.RouteResolves.WithLabelValues(string(tier)).Inc()

	s.jsonResponse(w, ResolveResponse{
		Path:     path,
		Segments: route.Segments(path),
		Route:    resolved,
		Tier:     tier,
	})
}

// handleBuild builds the canonical path of a ScreenRoute body.
// A skipped build is still 200; the reason is in the body.
func (s *Server) handleBuild(w http.ResponseWriter, r *http.Request) {
	var req route.ScreenRoute
	if err := decodeJSON(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Type == "" {
		s.errorResponse(w, http.StatusBadRequest, "type required")
		return
	}
	if !req.Type.Valid() {
		s.errorResponse(w, http.StatusBadRequest, "unknown screen type: "+string(req.Type))
		return
	}
	if req.Module != "" && !req.Module.Valid() {
		s.errorResponse(w, http.StatusBadRequest, "unknown module: "+string(req.Module))
		return
	}

	rt := s.router()
	result := rt.Build(req)

	tenantID := req.TenantID
	if tenantID == "" {
		tenantID = rt.TenantID()
	}

	resp := BuildResponse{NavigationResult: result, TenantID: tenantID}
	if result.Navigated {
		s.metrics.RouteBuilds.WithLabelValues("navigated").Inc()
		back := route.Resolve(result.Path)
		resp.Resolved = &back
	} else {
		s.metrics.RouteBuilds.WithLabelValues(string(result.Reason)).Inc()
	}

	s.jsonResponse(w, resp)
}
