// Package adapthttp implements the HTTP adapter for the application.
package adapthttp

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/rs/zerolog"

	"healthmetrics/internal/app"
)

// Config carries the services and settings the Server is built from.
type Config struct {
	Health  *app.HealthService
	History *app.HistoryService
	Trends  *app.TrendsService
	Auth    *app.AuthService
	Events  *app.Broker
	OIDC    OIDCConfig
	WebDir  string
	Logger  zerolog.Logger
	// SecureCookies marks session cookies Secure. Enable behind TLS.
	SecureCookies bool
	// TrustForwardAuth honours the Remote-User header. Only enable behind a
	// reverse proxy that strips it from client requests.
	TrustForwardAuth bool
	// AuthRequestsPerMinute limits login, logout and setup per client IP.
	// Zero selects 10.
	AuthRequestsPerMinute int
}

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	health        *app.HealthService
	history       *app.HistoryService
	trends        *app.TrendsService
	authSvc       *app.AuthService
	events        *app.Broker
	oidcConfig    OIDCConfig
	webDir        string
	log           zerolog.Logger
	secureCookies bool
	trustForward  bool
	authLimit     int
	disableAuth   bool
}

// New creates a Server wired to the given application services.
func New(cfg Config) *Server {
	limit := cfg.AuthRequestsPerMinute
	if limit <= 0 {
		limit = 10
	}
	return &Server{
		health:        cfg.Health,
		history:       cfg.History,
		trends:        cfg.Trends,
		authSvc:       cfg.Auth,
		events:        cfg.Events,
		oidcConfig:    cfg.OIDC,
		webDir:        cfg.WebDir,
		log:           cfg.Logger,
		secureCookies: cfg.SecureCookies,
		trustForward:  cfg.TrustForwardAuth,
		authLimit:     limit,
	}
}

// WithoutAuth disables authentication on the API. Used by tests.
func (s *Server) WithoutAuth() *Server {
	s.disableAuth = true
	return s
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(requestLogger(s.log))
	r.Use(recovery(s.log))
	r.Use(chimiddleware.RealIP)
	r.Use(withNoCache)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		})
		r.Get("/config", s.handleConfig)

		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(httprate.Limit(
					s.authLimit,
					time.Minute,
					httprate.WithKeyFuncs(httprate.KeyByRealIP),
					httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
						w.Header().Set("Retry-After", "60")
						writeJSON(w, http.StatusTooManyRequests, map[string]any{"error": "too many requests"})
					}),
				))
				r.Post("/login", s.handleLogin)
				r.Post("/logout", s.handleLogout)
				r.Post("/setup", s.handleSetupUser)
			})
			r.Get("/sso/login", s.handleSSOLogin)
			r.Get("/sso/callback", s.handleSSOCallback)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Get("/me", s.handleMe)
			r.Get("/reference", s.handleReference)
			r.Post("/metrics/evaluate", s.handleEvaluate)

			r.Route("/records", func(r chi.Router) {
				r.Get("/", s.handleListRecords)
				r.Post("/", s.handleSaveRecord)
				r.Delete("/", s.handleClearRecords)
				r.Get("/count", s.handleCountRecords)
				r.Get("/stream", s.handleRecordStream)
				r.Get("/{id}", s.handleGetRecord)
				r.Delete("/{id}", s.handleDeleteRecord)
			})

			r.Get("/trends/daily", s.handleTrendsDaily)
		})
	})

	r.Handle("/*", spaFromDisk(s.webDir))

	return r
}
