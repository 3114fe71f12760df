package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/mediconnect/mediconnect/internal/metrics"
	"github.com/mediconnect/mediconnect/internal/middleware"
	"github.com/mediconnect/mediconnect/internal/service"
)

// RouterConfig collects what the router needs.
type RouterConfig struct {
	Logger    *slog.Logger
	Accounts  *service.AccountService
	Sessions  *service.SessionService
	Providers *service.ProviderService
	Search    *service.SearchService
	Health    *HealthHandler
	Metrics   metrics.Snapshotter

	Cookie             CookieConfig
	CORS               middleware.CORSConfig
	IsDevelopment      bool
	MaxRequestBodySize int64

	// AdminWritesRequireAuth guards hospital and doctor mutations behind
	// an admin session. Reads and search stay public.
	AdminWritesRequireAuth bool
}

// NewRouter configures the chi router with all routes and middleware.
func NewRouter(cfg RouterConfig) *chi.Mux {
	h := New()
	accounts := NewAccountHandler(cfg.Accounts, cfg.Sessions, cfg.Cookie, cfg.Logger)
	hospitals := NewHospitalHandler(cfg.Providers, cfg.Logger)
	doctors := NewDoctorHandler(cfg.Providers, cfg.Logger)
	search := NewSearchHandler(cfg.Search, cfg.Logger)

	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recoverer(cfg.Logger))
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: cfg.IsDevelopment}))
	r.Use(middleware.CORS(cfg.CORS))
	if cfg.MaxRequestBodySize > 0 {
		r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))
	}
	r.Use(middleware.Session(middleware.SessionConfig{
		Logger:     cfg.Logger,
		Resolver:   cfg.Sessions,
		CookieName: cfg.Cookie.Name,
	}))

	r.Get("/", h.Home)
	if cfg.Health != nil {
		r.Get("/healthz", cfg.Health.Healthz)
		r.Get("/readyz", cfg.Health.Readyz)
	}
	r.Get("/metrics", NewMetricsHandler(cfg.Metrics).Metrics)

	r.Post("/register", accounts.Register)
	r.Post("/login", accounts.Login)
	r.Post("/logout", accounts.Logout)
	r.With(middleware.RequireAuth).Get("/me", accounts.Me)

	writeGuard := func(next http.Handler) http.Handler { return next }
	if cfg.AdminWritesRequireAuth {
		writeGuard = middleware.RequireAdmin
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/hospitals", func(r chi.Router) {
			r.Get("/", hospitals.List)
			r.With(writeGuard).Post("/", hospitals.Create)
			r.With(writeGuard).Delete("/{id:[0-9]+}", hospitals.Delete)
		})

		r.Route("/doctors", func(r chi.Router) {
			r.Get("/", doctors.List)
			r.With(writeGuard).Post("/", doctors.Create)
			r.With(writeGuard).Delete("/{id:[0-9]+}", doctors.Delete)
		})

		r.Get("/search", search.Search)
	})

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}
