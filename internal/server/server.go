package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/n0roo/navkit/internal/db"
	"github.com/n0roo/navkit/internal/lnb"
	"github.com/n0roo/navkit/internal/logger"
	"github.com/n0roo/navkit/internal/route"
	"github.com/n0roo/navkit/internal/server/events"
	"github.com/n0roo/navkit/internal/tenant"
	"github.com/n0roo/navkit/internal/watcher"
)

// Version is reported by /api/status
var Version = "dev"

// Config holds server configuration
type Config struct {
	Port           int
	FallbackTenant string
	MenuFile       string // 비어 있으면 내장 기본 메뉴
	WatchMenu      bool
}

// Server represents the navigation API server
type Server struct {
	config    Config
	db        db.Database
	menus     *lnb.Service
	tenants   *tenant.Service
	provider  *lnb.Provider
	cache     *menuCache
	hub       *events.SSEServer
	publisher *events.Publisher
	metrics   *Metrics
	started   time.Time

	handlerOnce sync.Once
	handler     http.Handler
	srv         *http.Server
}

// NewServer creates a new server on top of an initialized database
func NewServer(config Config, database db.Database) *Server {
	if config.FallbackTenant == "" {
		config.FallbackTenant = route.FallbackTenantID
	}

	menus := lnb.NewService(database)
	var static *lnb.FileSource
	if config.MenuFile != "" {
		static = lnb.NewFileSource(config.MenuFile)
	}

	hub := events.NewSSEServer()
	return &Server{
		config:    config,
		db:        database,
		menus:     menus,
		tenants:   tenant.NewService(database),
		provider:  lnb.NewProvider(menus, static),
		cache:     newMenuCache(),
		hub:       hub,
		publisher: events.NewPublisher(hub),
		metrics:   NewMetrics(),
		started:   time.Now(),
	}
}

// Handler returns the full HTTP handler. It is built once.
func (s *Server) Handler() http.Handler {
	s.handlerOnce.Do(func() {
		mux := http.NewServeMux()

		mux.HandleFunc("GET /api/status", s.withCORS(s.handleStatus))

		// Routing
		mux.HandleFunc("GET /api/v2/routes/resolve", s.withCORS(s.handleResolve))
		mux.HandleFunc("POST /api/v2/routes/build", s.withCORS(s.handleBuild))

		// LNB
		mux.HandleFunc("GET /api/v2/lnb", s.withCORS(s.handleLNB))
		mux.HandleFunc("GET /api/v2/lnb/validate", s.withCORS(s.handleLNBValidate))
		mux.HandleFunc("GET /api/v2/lnb/configs", s.withCORS(s.handleLNBConfigs))
		mux.HandleFunc("POST /api/v2/lnb/configs", s.withCORS(s.handleLNBCreate))
		mux.HandleFunc("POST /api/v2/lnb/import", s.withCORS(s.handleLNBImport))
		mux.HandleFunc("POST /api/v2/lnb/seed", s.withCORS(s.handleLNBSeed))
		mux.HandleFunc("GET /api/v2/lnb/configs/{id}", s.withCORS(s.handleLNBGet))
		mux.HandleFunc("PATCH /api/v2/lnb/configs/{id}", s.withCORS(s.handleLNBPatch))
		mux.HandleFunc("DELETE /api/v2/lnb/configs/{id}", s.withCORS(s.handleLNBDelete))

		// Tenants
		mux.HandleFunc("GET /api/v2/tenants", s.withCORS(s.handleTenants))
		mux.HandleFunc("POST /api/v2/tenants", s.withCORS(s.handleTenantCreate))
		mux.HandleFunc("GET /api/v2/tenants/current", s.withCORS(s.handleTenantCurrent))
		mux.HandleFunc("POST /api/v2/tenants/current", s.withCORS(s.handleTenantUse))
		mux.HandleFunc("DELETE /api/v2/tenants/{id}", s.withCORS(s.handleTenantDelete))

		// SSE
		mux.Handle("GET /api/v2/events", s.hub)
		mux.HandleFunc("GET /api/v2/events/status", s.withCORS(s.handleEventsStatus))

		mux.Handle("GET /metrics", s.metrics.Handler())

		s.handler = s.corsMiddleware(logger.Middleware(s.metrics.Middleware(mux)))
	})
	return s.handler
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	log := logger.GetLogger()

	s.hub.Start()
	defer s.hub.Stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if s.config.WatchMenu && s.config.MenuFile != "" {
		w := watcher.New(s.config.MenuFile, 0, s.reloadMenu)
		go func() {
			if err := w.Run(ctx); err != nil {
				log.Warn("메뉴 파일 감시 실패", zap.String("path", w.Path()), zap.Error(err))
			}
		}()
	}

	s.srv = &http.Server{
		Addr:        fmt.Sprintf(":%d", s.config.Port),
		Handler:     s.Handler(),
		ReadTimeout: 10 * time.Second,
		// SSE 스트림은 WriteTimeout 없이 유지
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("navkit API 서버 시작",
			zap.String("addr", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			zap.String("events", "/api/v2/events"),
			zap.String("metrics", "/metrics"),
		)
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Info("navkit API 서버 종료 중")
		s.hub.Stop()
		return s.Stop()
	}
}

// Stop gracefully stops the server
func (s *Server) Stop() error {
	if s.srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}

// reloadMenu drops every cached snapshot after the static menu file changed
func (s *Server) reloadMenu() {
	s.cache.Clear()
	s.metrics.MenuReloads.Inc()

	path := s.provider.StaticPath()
	menu, err := lnb.NewFileSource(path).Load()
	var modules []route.Module
	if err == nil {
		modules = menu.ModuleNames()
		if issues := validateMenuFile(menu); len(issues) > 0 {
			logger.GetLogger().Warn("메뉴 파일 경고", zap.String("path", path), zap.Int("issues", len(issues)))
		}
	} else {
		logger.GetLogger().Warn("메뉴 파일 다시 읽기 실패", zap.String("path", path), zap.Error(err))
	}

	s.publisher.PublishMenuReloaded(path, modules, err)
}

func validateMenuFile(menu *lnb.MenuFile) []lnb.Issue {
	var issues []lnb.Issue
	for _, m := range menu.ModuleNames() {
		issues = append(issues, lnb.Validate(menu.Menu(m))...)
	}
	return issues
}

// corsMiddleware wraps a handler with CORS headers for all requests
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With, X-Request-ID")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withCORS handles OPTIONS for handlers registered without the middleware
func (s *Server) withCORS(handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		handler(w, r)
	}
}

// JSON response helper
func (s *Server) jsonResponse(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

// jsonStatus writes data with a non-200 status
func (s *Server) jsonStatus(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Error response helper
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// storeError maps a service error to 404, 400 or 500
func (s *Server) storeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, lnb.ErrNotFound), errors.Is(err, tenant.ErrNotFound):
		s.errorResponse(w, http.StatusNotFound, err.Error())
		return
	case errors.Is(err, lnb.ErrInvalid), errors.Is(err, tenant.ErrInvalid):
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	logger.FromContext(r.Context()).Error("저장소 오류", zap.Error(err))
	s.errorResponse(w, http.StatusInternalServerError, err.Error())
}

func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("요청 본문 파싱 실패: %w", err)
	}
	return nil
}

// handleStatus returns overall status
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"version":         Version,
		"timestamp":       time.Now().Format(time.RFC3339),
		"uptime_secs":     int64(time.Since(s.started).Seconds()),
		"db_path":         s.db.Path(),
		"fallback_tenant": s.config.FallbackTenant,
		"menu_file":       s.config.MenuFile,
		"menu_watch":      s.config.WatchMenu,
		"sse_clients":     s.hub.ClientCount(),
		"cached_menus":    s.cache.Len(),
	}

	if v, err := s.db.GetVersion(); err == nil {
		status["schema_version"] = v
	}
	if t, err := s.tenants.Current(); err == nil {
		status["current_tenant"] = t.ID
	}

	s.jsonResponse(w, status)
}

func (s *Server) handleEventsStatus(w http.ResponseWriter, r *http.Request) {
	state := "stopped"
	if s.hub.Running() {
		state = "running"
	}
	s.jsonResponse(w, map[string]interface{}{
		"connected_clients": s.hub.ClientCount(),
		"status":            state,
	})
}
