package entity

import (
	"time"
)

type ReservationStatus string

const (
	ReservationStatusHeld      ReservationStatus = "held"
	ReservationStatusConfirmed ReservationStatus = "confirmed"
	ReservationStatusReleased  ReservationStatus = "released"
	ReservationStatusExpired   ReservationStatus = "expired"
)

// Terminal reports whether the status is one a reservation can never
// leave. Held is the only non-terminal state.
func (s ReservationStatus) Terminal() bool {
	return s != ReservationStatusHeld
}

type Reservation struct {
	Base
	Code       string            `db:"code"` // RSV-XXXXXXXX, customer-facing
	TimingID   int64             `db:"timing_id"`
	Seats      int               `db:"seats"`
	Status     ReservationStatus `db:"status"`
	HeldAt     time.Time         `db:"held_at"`
	ExpiresAt  time.Time         `db:"expires_at"`
	ResolvedAt *time.Time        `db:"resolved_at"`
}
