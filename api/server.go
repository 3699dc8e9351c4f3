/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/payslips/*       Payslip generation and lifecycle
  /api/employees/*      Stored payslips per employee
  /api/tax/*            Progressive tax calculation
  /api/holidays/*       Observed holidays and holiday pay
  /api/minimum-wage/*   Single check and batch audit
  /api/compliance/*     Break and hours evaluation
  /api/admin/*          Rule pack reload

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Payslip routes
		r.Route("/payslips", func(r chi.Router) {
			r.Post("/", h.GeneratePayslip)
			r.Post("/batch", h.GenerateBatch)
			r.Get("/{id}", h.GetPayslip)
			r.Put("/{id}/status", h.UpdatePayslipStatus)
		})

		// Employee routes
		r.Route("/employees", func(r chi.Router) {
			r.Get("/{id}/payslips", h.ListPayslips)
		})

		// Tax routes
		r.Route("/tax", func(r chi.Router) {
			r.Post("/calculate", h.CalculateTax)
		})

		// Holiday routes
		r.Route("/holidays", func(r chi.Router) {
			r.Get("/", h.ListHolidays)
			r.Post("/pay", h.HolidayPay)
		})

		// Minimum wage routes
		r.Route("/minimum-wage", func(r chi.Router) {
			r.Post("/check", h.CheckMinimumWage)
			r.Post("/audit", h.AuditMinimumWage)
		})

		// Compliance routes
		r.Route("/compliance", func(r chi.Router) {
			r.Post("/breaks", h.CheckBreaks)
			r.Post("/hours", h.CheckHours)
		})

		// Admin routes
		r.Route("/admin", func(r chi.Router) {
			r.Post("/rules", h.ReloadRules)
		})
	})

	// Health check
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return r
}
