/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Logger:     Request logging
  3. Recoverer:  Panic recovery (500 instead of crash)
  4. CORS:       Cross-origin requests for the mobile/web frontends

ROUTE GROUPS:
  /api/health           Liveness
  /api/periods          Period enumeration
  /api/plans            Plan catalog
  /api/clients/*        Roster and membership detail
  /api/alerts/*         Dashboard expiration alerts
  /api/lifecycle/*      Stateless engine access

SECURITY NOTE:
  No authentication middleware. Put the service behind the gateway that
  injects and checks auth headers.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// DefaultAllowedOrigins is used when RouterOptions.AllowedOrigins is empty.
var DefaultAllowedOrigins = []string{"http://localhost:5173", "http://localhost:8080"}

// RouterOptions tunes NewRouter.
type RouterOptions struct {
	AllowedOrigins []string
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts RouterOptions) *chi.Mux {
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = DefaultAllowedOrigins
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)
		r.Get("/periods", h.ListPeriods)
		r.Get("/plans", h.ListPlans)

		// Client routes
		r.Route("/clients", func(r chi.Router) {
			r.Get("/", h.ListClients)
			r.Post("/", h.CreateClient)
			r.Get("/{id}", h.GetClient)
			r.Delete("/{id}", h.DeleteClient)
			r.Post("/{id}/renew", h.RenewClient)
			r.Get("/{id}/renewals", h.ListRenewals)
		})

		// Dashboard alert routes
		r.Route("/alerts", func(r chi.Router) {
			r.Get("/expiring", h.ListExpiring)
			r.Get("/summary", h.GetSummary)
			r.Get("/runs", h.ListAlertRuns)
		})

		r.Route("/lifecycle", func(r chi.Router) {
			r.Post("/compute", h.ComputeLifecycle)
		})
	})

	return r
}
