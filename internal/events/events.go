package events

import (
	"context"
	"time"
)

// Event types published over the reservation lifecycle.
const (
	TypeHeld      = "reservation.held"
	TypeConfirmed = "reservation.confirmed"
	TypeReleased  = "reservation.released"
	TypeExpired   = "reservation.expired"
)

type Event struct {
	Type          string    `json:"type"`
	ReservationID string    `json:"reservation_id"`
	Code          string    `json:"code"`
	TimingID      int64     `json:"timing_id"`
	Seats         int       `json:"seats"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Publisher emits reservation lifecycle events. Publish failures must
// never interrupt the booking flow; callers log and move on.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close()
}

// NoopPublisher is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }

func (NoopPublisher) Close() {}
