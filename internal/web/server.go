// Package web provides the JSON HTTP API for tables, imports and logins.
package web

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JonMunkholm/tablekeeper/internal/auth"
	"github.com/JonMunkholm/tablekeeper/internal/config"
	"github.com/JonMunkholm/tablekeeper/internal/core"
	"github.com/JonMunkholm/tablekeeper/internal/web/middleware"
)

// SheetSource opens Google Sheets by ID. It is nil when Sheets import is
// not configured.
type SheetSource interface {
	Source(sheetID string) core.GridSource
}

// Server is the HTTP server for the table API.
type Server struct {
	tables   *core.Service
	auth     *auth.Service
	sheets   SheetSource
	cfg      *config.Config
	router   *chi.Mux
	server   *http.Server
	registry *prometheus.Registry
	stop     context.CancelFunc
}

// NewServer wires middleware and routes. sheets may be nil.
func NewServer(tables *core.Service, authn *auth.Service, sheets SheetSource, cfg *config.Config) *Server {
	ctx, stop := context.WithCancel(context.Background())

	s := &Server{
		tables:   tables,
		auth:     authn,
		sheets:   sheets,
		cfg:      cfg,
		router:   chi.NewRouter(),
		registry: prometheus.NewRegistry(),
		stop:     stop,
	}
	s.registerCollectors()
	s.setupMiddleware()
	s.setupRoutes(ctx)
	return s
}

// registerCollectors exposes process, Go runtime and import limiter state.
func (s *Server) registerCollectors() {
	s.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "tablekeeper",
			Name:      "imports_active",
			Help:      "Imports currently holding a slot.",
		}, func() float64 { return float64(s.tables.ImportLimiterStatus().Active) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "tablekeeper",
			Name:      "imports_available",
			Help:      "Free import slots.",
		}, func() float64 { return float64(s.tables.ImportLimiterStatus().Available) }),
	)
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(middleware.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.NewMetrics(s.registry).Handler)
	s.router.Use(chimw.Recoverer)
	s.router.Use(chimw.Timeout(s.cfg.Server.RequestTimeout))
	s.router.Use(s.securityHeaders)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.Security.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "HX-Request"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
}

// setupRoutes configures all HTTP routes. ctx bounds the rate limiter
// cleanup goroutines.
func (s *Server) setupRoutes(ctx context.Context) {
	s.router.Get("/healthz", s.handleHealth)
	s.router.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	requireUser := middleware.RequireUser(s.auth, s.cfg.Auth.CookieName, respondErrorStatus)

	s.router.Route("/api", func(r chi.Router) {
		if s.cfg.Rate.Enabled {
			r.Use(newRateLimiter(ctx, s.cfg.Rate.RequestsPerMinute, time.Minute).middleware)
		}

		r.Route("/auth", func(r chi.Router) {
			if s.cfg.Rate.Enabled {
				r.Use(newRateLimiter(ctx, s.cfg.Rate.AuthLimit, time.Minute).middleware)
			}
			r.Post("/register", s.handleRegister)
			r.Post("/login", s.handleLogin)
			r.Post("/logout", s.handleLogout)
			r.With(requireUser).Get("/me", s.handleMe)
		})

		r.Route("/tables", func(r chi.Router) {
			r.Use(requireUser)

			r.Post("/create", s.handleCreateTable)
			r.Get("/user-tables", s.handleListTables)
			r.Delete("/delete/{tableID}", s.handleDeleteTable)
			r.Post("/fetch-google-sheet-data", s.handleImportSheet)
			r.Post("/import-file", s.handleImportFile)

			r.Route("/table/{tableID}", func(r chi.Router) {
				r.Get("/", s.handleGetTable)
				r.Put("/", s.handleReplaceTable)
				r.Get("/history", s.handleTableHistory)
				r.Post("/columns", s.handleAddColumn)
				r.Delete("/columns/{index}", s.handleDeleteColumn)
				r.Post("/rows", s.handleAddRow)
				r.Delete("/rows/{index}", s.handleDeleteRow)
				r.Put("/cells", s.handleUpdateCell)
			})
		})
	})
}

// Start begins listening for HTTP requests on the configured address.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server and its background goroutines.
func (s *Server) Shutdown(ctx context.Context) error {
	s.stop()
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds security headers to all responses.
func (s *Server) securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		if s.cfg.Security.EnableCSP {
			h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"imports": s.tables.ImportLimiterStatus(),
	})
}
