package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ticket-booking/internal/clock"
	"ticket-booking/internal/data/entity"
	"ticket-booking/internal/data/repository"
	"ticket-booking/internal/dto/request"
	"ticket-booking/internal/dto/response"
	"ticket-booking/internal/events"
	"ticket-booking/internal/ledger"
	"ticket-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingService interface {
	// Public endpoints
	Request(ctx context.Context, req *request.CreateReservationRequest) (*response.ReservationResponse, error)
	Confirm(ctx context.Context, reservationID string) (*response.ReservationResponse, error)
	Cancel(ctx context.Context, reservationID string) (*response.ReservationResponse, error)
	Get(ctx context.Context, reservationID string) (*response.ReservationResponse, error)

	// Admin endpoints
	List(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReservationResponse], error)

	// Maintenance
	Restore(ctx context.Context) error
	ExpireOverdue(ctx context.Context) int
}

// heldReservation is one tracked reservation. Its mutex is the single
// writer gate on the status field: every transition out of held happens
// under it after re-checking the state, so the seat release fires
// exactly once no matter how confirm, cancel and expiry race.
type heldReservation struct {
	mu    sync.Mutex
	res   entity.Reservation
	timer *time.Timer
}

type bookingService struct {
	repo   *repository.Repository
	ledger *ledger.Ledger
	events events.Publisher
	clock  clock.Clock
	log    *zap.Logger

	holdTTL  time.Duration
	maxSeats int

	mu           sync.RWMutex
	reservations map[uuid.UUID]*heldReservation
}

func NewBookingService(repo *repository.Repository, ldg *ledger.Ledger, publisher events.Publisher, clk clock.Clock, config *utils.Config, log *zap.Logger) BookingService {
	return &bookingService{
		repo:         repo,
		ledger:       ldg,
		events:       publisher,
		clock:        clk,
		log:          log.With(zap.String("service", "booking")),
		holdTTL:      time.Duration(config.Booking.HoldTTLMinutes) * time.Minute,
		maxSeats:     config.Booking.MaxSeatsPerRequest,
		reservations: make(map[uuid.UUID]*heldReservation),
	}
}

// Request validates the booking, takes the seats from the ledger and
// creates a time-boxed hold. The hold expires on its own unless
// confirmed or cancelled first.
func (s *bookingService) Request(ctx context.Context, req *request.CreateReservationRequest) (*response.ReservationResponse, error) {
	// Validate request
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Reservation request validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}
	if req.Seats > s.maxSeats {
		return nil, fmt.Errorf("%w: seats %d exceeds limit %d per request", ErrValidation, req.Seats, s.maxSeats)
	}

	balance, err := s.ledger.Reserve(req.TimingID, req.Seats)
	if err != nil {
		s.log.Warn("Reservation rejected by ledger",
			zap.Error(err),
			zap.Int64("timing_id", req.TimingID),
			zap.Int("seats", req.Seats),
		)
		return nil, err
	}

	now := s.clock.Now()
	reservation := entity.Reservation{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Code:      utils.GenerateReservationCode(),
		TimingID:  req.TimingID,
		Seats:     req.Seats,
		Status:    entity.ReservationStatusHeld,
		HeldAt:    now,
		ExpiresAt: now.Add(s.holdTTL),
	}

	hr := &heldReservation{res: reservation}
	hr.timer = time.AfterFunc(s.holdTTL, func() { s.expire(hr) })

	s.mu.Lock()
	s.reservations[reservation.ID] = hr
	s.mu.Unlock()

	// The ledger is authoritative; the row is history and restart state.
	if err := s.repo.Reservation.Create(ctx, &reservation); err != nil {
		s.log.Error("Failed to persist reservation",
			zap.Error(err),
			zap.String("reservation_id", reservation.ID.String()),
		)
	}

	s.publish(events.TypeHeld, &reservation)

	s.log.Info("Reservation held",
		zap.String("reservation_id", reservation.ID.String()),
		zap.String("code", reservation.Code),
		zap.Int64("timing_id", reservation.TimingID),
		zap.Int("seats", reservation.Seats),
		zap.Int("balance", balance),
		zap.Time("expires_at", reservation.ExpiresAt),
	)

	return response.ReservationToResponse(&reservation), nil
}

// Confirm makes a held reservation final; the seats stay deducted. A
// hold found past its deadline is expired on the spot and the confirm
// rejected.
func (s *bookingService) Confirm(ctx context.Context, reservationID string) (*response.ReservationResponse, error) {
	id, err := uuid.Parse(reservationID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid reservation ID format %s", ErrValidation, reservationID)
	}

	hr := s.lookup(id)
	if hr == nil {
		return nil, fmt.Errorf("%w: reservation %s", ErrNotFound, reservationID)
	}

	hr.mu.Lock()
	defer hr.mu.Unlock()

	switch hr.res.Status {
	case entity.ReservationStatusHeld:
		// fall through to the deadline check
	case entity.ReservationStatusExpired:
		return nil, fmt.Errorf("%w: reservation %s", ErrHoldExpired, reservationID)
	default:
		return nil, fmt.Errorf("%w: reservation %s already %s", ErrNotFound, reservationID, hr.res.Status)
	}

	now := s.clock.Now()
	if now.After(hr.res.ExpiresAt) {
		// The timer lost the race to this confirm; do its job here.
		if err := s.resolveLocked(hr, entity.ReservationStatusExpired, true); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: reservation %s", ErrHoldExpired, reservationID)
	}

	if err := s.resolveLocked(hr, entity.ReservationStatusConfirmed, false); err != nil {
		return nil, err
	}

	s.log.Info("Reservation confirmed",
		zap.String("reservation_id", reservationID),
		zap.String("code", hr.res.Code),
		zap.Int64("timing_id", hr.res.TimingID),
		zap.Int("seats", hr.res.Seats),
	)

	return response.ReservationToResponse(&hr.res), nil
}

// Cancel releases a held reservation's seats back to the ledger. Only a
// held reservation can be cancelled.
func (s *bookingService) Cancel(ctx context.Context, reservationID string) (*response.ReservationResponse, error) {
	id, err := uuid.Parse(reservationID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid reservation ID format %s", ErrValidation, reservationID)
	}

	hr := s.lookup(id)
	if hr == nil {
		stored, err := s.repo.Reservation.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if stored == nil {
			return nil, fmt.Errorf("%w: reservation %s", ErrNotFound, reservationID)
		}
		// Known from history but no longer tracked, so it is terminal.
		return nil, fmt.Errorf("%w: reservation %s is %s", ErrInvalidState, reservationID, stored.Status)
	}

	hr.mu.Lock()
	defer hr.mu.Unlock()

	if hr.res.Status != entity.ReservationStatusHeld {
		return nil, fmt.Errorf("%w: reservation %s is %s", ErrInvalidState, reservationID, hr.res.Status)
	}

	if err := s.resolveLocked(hr, entity.ReservationStatusReleased, true); err != nil {
		return nil, err
	}

	s.log.Info("Reservation cancelled",
		zap.String("reservation_id", reservationID),
		zap.String("code", hr.res.Code),
		zap.Int64("timing_id", hr.res.TimingID),
		zap.Int("seats", hr.res.Seats),
	)

	return response.ReservationToResponse(&hr.res), nil
}

// Get returns a reservation by id, falling back to the stored history
// for reservations from before the last restart.
func (s *bookingService) Get(ctx context.Context, reservationID string) (*response.ReservationResponse, error) {
	id, err := uuid.Parse(reservationID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid reservation ID format %s", ErrValidation, reservationID)
	}

	if hr := s.lookup(id); hr != nil {
		hr.mu.Lock()
		defer hr.mu.Unlock()
		return response.ReservationToResponse(&hr.res), nil
	}

	stored, err := s.repo.Reservation.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, fmt.Errorf("%w: reservation %s", ErrNotFound, reservationID)
	}
	return response.ReservationToResponse(stored), nil
}

// List pages through the stored reservation history, newest first.
func (s *bookingService) List(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReservationResponse], error) {
	reservations, err := s.repo.Reservation.List(ctx, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to list reservations", zap.Error(err))
		return nil, fmt.Errorf("list reservations: %w", err)
	}

	total, err := s.repo.Reservation.Count(ctx)
	if err != nil {
		s.log.Error("Failed to count reservations", zap.Error(err))
		return nil, fmt.Errorf("count reservations: %w", err)
	}

	items := make([]response.ReservationResponse, len(reservations))
	for i := range reservations {
		items[i] = *response.ReservationToResponse(&reservations[i])
	}

	return response.NewPaginatedResponse(items, req.Page, req.PerPage, total), nil
}

// Restore reloads held reservations from storage after a restart and
// re-arms their hold timers. Holds already past their deadline are
// expired immediately, returning their seats.
func (s *bookingService) Restore(ctx context.Context) error {
	held, err := s.repo.Reservation.ListHeld(ctx)
	if err != nil {
		return fmt.Errorf("restore held reservations: %w", err)
	}

	now := s.clock.Now()
	rearmed, lapsed := 0, 0
	for i := range held {
		hr := &heldReservation{res: held[i]}

		s.mu.Lock()
		s.reservations[hr.res.ID] = hr
		s.mu.Unlock()

		remaining := hr.res.ExpiresAt.Sub(now)
		if remaining <= 0 {
			s.expire(hr)
			lapsed++
			continue
		}
		hr.timer = time.AfterFunc(remaining, func() { s.expire(hr) })
		rearmed++
	}

	if rearmed > 0 || lapsed > 0 {
		s.log.Info("Held reservations restored",
			zap.Int("rearmed", rearmed),
			zap.Int("lapsed", lapsed),
		)
	}
	return nil
}

// ExpireOverdue sweeps for holds past their deadline and expires them.
// It backstops the per-reservation timers: a timer whose release failed
// leaves its reservation held, and the sweep retries it. Resolved
// reservations are dropped from the tracking table once they have been
// terminal for a hold-TTL; lookups then fall back to storage.
func (s *bookingService) ExpireOverdue(ctx context.Context) int {
	now := s.clock.Now()

	s.mu.RLock()
	tracked := make([]*heldReservation, 0, len(s.reservations))
	for _, hr := range s.reservations {
		tracked = append(tracked, hr)
	}
	s.mu.RUnlock()

	expired := 0
	var evict []uuid.UUID
	for _, hr := range tracked {
		hr.mu.Lock()
		switch {
		case hr.res.Status == entity.ReservationStatusHeld && now.After(hr.res.ExpiresAt):
			if err := s.resolveLocked(hr, entity.ReservationStatusExpired, true); err == nil {
				expired++
			}
		case hr.res.Status.Terminal() && hr.res.ResolvedAt != nil && now.Sub(*hr.res.ResolvedAt) > s.holdTTL:
			evict = append(evict, hr.res.ID)
		}
		hr.mu.Unlock()
	}

	if len(evict) > 0 {
		s.mu.Lock()
		for _, id := range evict {
			delete(s.reservations, id)
		}
		s.mu.Unlock()
	}

	if expired > 0 {
		s.log.Info("Overdue holds expired", zap.Int("count", expired))
	}
	return expired
}

// ==================== INTERNAL TRANSITIONS ====================

// expire is the hold timer's callback. The status re-check under the
// mutex makes a late firing against an already resolved reservation a
// no-op.
func (s *bookingService) expire(hr *heldReservation) {
	hr.mu.Lock()
	defer hr.mu.Unlock()

	if hr.res.Status != entity.ReservationStatusHeld {
		return
	}

	if err := s.resolveLocked(hr, entity.ReservationStatusExpired, true); err != nil {
		// Still held; the sweep retries the release later.
		return
	}

	s.log.Info("Hold expired",
		zap.String("reservation_id", hr.res.ID.String()),
		zap.String("code", hr.res.Code),
		zap.Int64("timing_id", hr.res.TimingID),
		zap.Int("seats", hr.res.Seats),
	)
}

// resolveLocked drives a held reservation to a terminal status. Caller
// holds hr.mu and has verified the current status is held. When release
// is set the seats go back to the ledger first; a failed release leaves
// the reservation held so a retry can finish the job.
func (s *bookingService) resolveLocked(hr *heldReservation, status entity.ReservationStatus, release bool) error {
	if release {
		if _, err := s.ledger.Release(hr.res.TimingID, hr.res.Seats); err != nil {
			s.log.Error("Failed to release seats",
				zap.Error(err),
				zap.String("reservation_id", hr.res.ID.String()),
				zap.Int64("timing_id", hr.res.TimingID),
				zap.Int("seats", hr.res.Seats),
			)
			return fmt.Errorf("release seats for reservation %s: %w", hr.res.ID.String(), err)
		}
	}

	if hr.timer != nil {
		hr.timer.Stop()
	}

	now := s.clock.Now()
	hr.res.Status = status
	hr.res.ResolvedAt = &now
	hr.res.UpdatedAt = now

	// Advisory persistence, same as on create.
	if err := s.repo.Reservation.UpdateStatus(context.Background(), hr.res.ID, status, hr.res.ResolvedAt, now); err != nil {
		s.log.Error("Failed to persist reservation status",
			zap.Error(err),
			zap.String("reservation_id", hr.res.ID.String()),
			zap.String("status", string(status)),
		)
	}

	switch status {
	case entity.ReservationStatusConfirmed:
		s.publish(events.TypeConfirmed, &hr.res)
	case entity.ReservationStatusReleased:
		s.publish(events.TypeReleased, &hr.res)
	case entity.ReservationStatusExpired:
		s.publish(events.TypeExpired, &hr.res)
	}

	return nil
}

func (s *bookingService) lookup(id uuid.UUID) *heldReservation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reservations[id]
}

func (s *bookingService) publish(eventType string, reservation *entity.Reservation) {
	event := events.Event{
		Type:          eventType,
		ReservationID: reservation.ID.String(),
		Code:          reservation.Code,
		TimingID:      reservation.TimingID,
		Seats:         reservation.Seats,
		OccurredAt:    s.clock.Now(),
	}
	if err := s.events.Publish(context.Background(), event); err != nil {
		s.log.Warn("Failed to publish reservation event",
			zap.String("type", eventType),
			zap.String("reservation_id", reservation.ID.String()),
			zap.Error(err),
		)
	}
}
