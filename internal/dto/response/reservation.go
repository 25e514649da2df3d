package response

import (
	"time"

	"ticket-booking/internal/data/entity"
)

type ReservationResponse struct {
	ID         string                   `json:"id"`
	Code       string                   `json:"code"`
	TimingID   int64                    `json:"timing_id"`
	Seats      int                      `json:"seats"`
	Status     entity.ReservationStatus `json:"status"`
	HeldAt     time.Time                `json:"held_at"`
	ExpiresAt  time.Time                `json:"expires_at"`
	ResolvedAt *time.Time               `json:"resolved_at,omitempty"`
	CreatedAt  time.Time                `json:"created_at"`
}

// Helper converters

func ReservationToResponse(reservation *entity.Reservation) *ReservationResponse {
	return &ReservationResponse{
		ID:         reservation.ID.String(),
		Code:       reservation.Code,
		TimingID:   reservation.TimingID,
		Seats:      reservation.Seats,
		Status:     reservation.Status,
		HeldAt:     reservation.HeldAt,
		ExpiresAt:  reservation.ExpiresAt,
		ResolvedAt: reservation.ResolvedAt,
		CreatedAt:  reservation.CreatedAt,
	}
}
