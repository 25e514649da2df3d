package wire

import (
	"ticket-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireShowtime(r chi.Router, showtimeHandler *adaptor.ShowtimeHandler) {
	// ==================== PUBLIC ROUTES ====================
	r.Get("/api/theatres/{id}/shows", showtimeHandler.ListTheatreShows)
	r.Get("/api/timings/{id}/availability", showtimeHandler.GetTimingAvailability)

	// ==================== ADMIN ROUTES ====================
	// Journal audit view
	r.Get("/api/admin/timings/{id}/ledger", showtimeHandler.GetTimingLedger)
}
