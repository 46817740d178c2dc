package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/xavierca1/lead-manager/internal/infra/http/middleware"
)

const maxBodyBytes = 10 << 20

type RouterConfig struct {
	Leads         *LeadHandler
	Health        *HealthHandler
	Authenticator *middleware.Authenticator
	Limiter       middleware.Limiter
	ClientURL     string
	Logger        *zap.Logger
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(chimw.RequestSize(maxBodyBytes))
	r.Use(securityHeaders)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.ClientURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition", "X-Export-Rows", "X-Export-Truncated"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.NotFound(NotFound)
	r.MethodNotAllowed(MethodNotAllowed)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", cfg.Health.Handle)

		r.Group(func(r chi.Router) {
			if cfg.Limiter != nil {
				r.Use(middleware.RateLimit(cfg.Limiter, cfg.Logger))
			}
			r.Use(cfg.Authenticator.Authenticate)

			r.Route("/leads", func(r chi.Router) {
				r.Get("/analytics", cfg.Leads.Analytics)
				r.Get("/export", cfg.Leads.Export)
				r.Get("/", cfg.Leads.List)
				r.Post("/", cfg.Leads.Create)
				r.Get("/{id}", cfg.Leads.Get)
				r.Put("/{id}", cfg.Leads.Update)
				r.Patch("/{id}", cfg.Leads.Update)
				r.Delete("/{id}", cfg.Leads.Delete)
			})
		})
	})

	return r
}

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "SAMEORIGIN")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Strict-Transport-Security", "max-age=15552000; includeSubDomains")
		h.Set("Content-Security-Policy", "default-src 'self'")
		next.ServeHTTP(w, r)
	})
}
