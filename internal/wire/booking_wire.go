package wire

import (
	"ticket-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireBooking(r chi.Router, bookingHandler *adaptor.BookingHandler) {
	// ==================== PUBLIC ROUTES ====================
	r.Route("/api/reservations", func(r chi.Router) {
		r.Post("/", bookingHandler.CreateReservation)          // POST /api/reservations
		r.Get("/{id}", bookingHandler.GetReservation)          // GET /api/reservations/{id}
		r.Put("/{id}/confirm", bookingHandler.ConfirmReservation)
		r.Put("/{id}/cancel", bookingHandler.CancelReservation)
	})

	// ==================== ADMIN ROUTES ====================
	r.Get("/api/admin/reservations", bookingHandler.ListReservations)
}
