package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter wires every handler onto a chi mux.
func NewRouter(h *Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		// Expenses
		r.Post("/expenses", h.CreateExpense)
		r.Get("/expenses", h.ListExpenses)
		r.Get("/expenses/summary", h.Summary)
		r.Delete("/expenses/{id}", h.DeleteExpense)

		// Alerts
		r.Get("/alerts", h.ListAlerts)
		r.Post("/alerts/{id}/read", h.MarkAlertRead)
		r.Delete("/alerts", h.ClearAlerts)

		// Resources
		r.Get("/resources", h.ListResources)
		r.Get("/resources/{id}/availability", h.Availability)

		// Bookings
		r.Post("/bookings", h.CreateBooking)
		r.Get("/bookings", h.ListBookings)
		r.Put("/bookings/{id}/status", h.UpdateBookingStatus)
		r.Delete("/bookings/{id}", h.DeleteBooking)
	})

	return r
}
