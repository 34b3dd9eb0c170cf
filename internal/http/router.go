package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robertarktes/flight-seat-reservations/internal/idempotency"
	"github.com/robertarktes/flight-seat-reservations/internal/observability"
	"github.com/robertarktes/flight-seat-reservations/internal/rateLimit"
)

func SetupRouter(h *Handlers, logger observability.Logger, rl *rateLimit.RateLimiter, ratePerMinute int, idemp *idempotency.Idempotency) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware)
	r.Use(LoggerMiddleware(logger))
	r.Use(TracingMiddleware)
	r.Use(MetricsMiddleware)

	r.Get("/v1/healthz", h.Healthz)
	r.Get("/v1/readyz", h.Readyz)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Group(func(r chi.Router) {
		r.Use(RateLimitMiddleware(rl, ratePerMinute))

		r.With(IdempotencyMiddleware(idemp)).Post("/v1/reservations", h.CreateReservation)
		r.Get("/v1/seating-chart", h.SeatingChart)
		r.Get("/v1/cost-matrix", h.CostMatrix)

		r.Route("/v1/admin", func(r chi.Router) {
			r.Post("/login", h.Login)

			r.Group(func(r chi.Router) {
				r.Use(AdminAuthMiddleware(h.auth))
				r.Post("/logout", h.Logout)
				r.Get("/dashboard", h.Dashboard)
				r.Get("/reservations", h.Roster)
				r.Delete("/reservations/{id}", h.CancelReservation)
			})
		})
	})

	return r
}
