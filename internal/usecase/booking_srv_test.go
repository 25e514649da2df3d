package usecase

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"ticket-booking/internal/data/entity"
	"ticket-booking/internal/data/repository"
	"ticket-booking/internal/dto/request"
	"ticket-booking/internal/events"
	"ticket-booking/internal/ledger"
	"ticket-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type bookingFixture struct {
	svc    BookingService
	ledger *ledger.Ledger
	sink   *ledger.MemorySink
	repo   *MockReservationRepository
	pub    *MockPublisher
	clock  *stepClock
}

func newBookingFixture() *bookingFixture {
	sink := &ledger.MemorySink{}
	clk := newStepClock(time.Date(2023, 4, 25, 10, 0, 0, 0, time.UTC))
	ldg := ledger.New(sink, clk, zap.NewNop())

	reservations := new(MockReservationRepository)
	reservations.On("Create", mock.Anything, mock.Anything).Return(nil)
	reservations.On("UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	pub := new(MockPublisher)
	pub.On("Publish", mock.Anything, mock.Anything).Return(nil)

	config := &utils.Config{
		Booking: utils.BookingConfig{HoldTTLMinutes: 10, MaxSeatsPerRequest: 50},
	}

	svc := NewBookingService(
		&repository.Repository{Reservation: reservations},
		ldg, pub, clk, config, zap.NewNop(),
	)

	return &bookingFixture{svc: svc, ledger: ldg, sink: sink, repo: reservations, pub: pub, clock: clk}
}

func TestBookingService_RequestAndConfirm(t *testing.T) {
	fx := newBookingFixture()
	require.NoError(t, fx.ledger.Register(7, 45, 45))

	resp, err := fx.svc.Request(context.Background(), &request.CreateReservationRequest{TimingID: 7, Seats: 30})
	require.NoError(t, err)
	assert.Equal(t, entity.ReservationStatusHeld, resp.Status)
	assert.True(t, strings.HasPrefix(resp.Code, "RSV-"))
	assert.Equal(t, fx.clock.Now().Add(10*time.Minute), resp.ExpiresAt)

	available, err := fx.ledger.Available(7)
	require.NoError(t, err)
	assert.Equal(t, 15, available)

	confirmed, err := fx.svc.Confirm(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ReservationStatusConfirmed, confirmed.Status)
	require.NotNil(t, confirmed.ResolvedAt)

	// Confirmed seats stay deducted.
	available, err = fx.ledger.Available(7)
	require.NoError(t, err)
	assert.Equal(t, 15, available)

	fx.repo.AssertCalled(t, "UpdateStatus",
		mock.Anything, uuid.MustParse(resp.ID), entity.ReservationStatusConfirmed, mock.Anything, mock.Anything)
}

func TestBookingService_CancelRestoresSeats(t *testing.T) {
	fx := newBookingFixture()
	require.NoError(t, fx.ledger.Register(7, 45, 45))

	resp, err := fx.svc.Request(context.Background(), &request.CreateReservationRequest{TimingID: 7, Seats: 30})
	require.NoError(t, err)

	cancelled, err := fx.svc.Cancel(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ReservationStatusReleased, cancelled.Status)

	available, err := fx.ledger.Available(7)
	require.NoError(t, err)
	assert.Equal(t, 45, available)

	entries := fx.sink.ForTiming(7)
	require.Len(t, entries, 2)
	assert.Equal(t, -30, entries[0].Delta)
	assert.Equal(t, 30, entries[1].Delta)
}

func TestBookingService_ConcurrentRequests_ExactlyOneWins(t *testing.T) {
	fx := newBookingFixture()
	require.NoError(t, fx.ledger.Register(2, 45, 45))

	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := fx.svc.Request(context.Background(), &request.CreateReservationRequest{TimingID: 2, Seats: 30})
			results <- err
		}()
	}

	var failures, successes int
	for i := 0; i < 2; i++ {
		if err := <-results; err != nil {
			assert.ErrorIs(t, err, ledger.ErrInsufficientSeats)
			failures++
		} else {
			successes++
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, failures)

	available, err := fx.ledger.Available(2)
	require.NoError(t, err)
	assert.Equal(t, 15, available)
}

func TestBookingService_RequestValidation_NoLedgerMutation(t *testing.T) {
	fx := newBookingFixture()
	require.NoError(t, fx.ledger.Register(7, 45, 45))

	cases := []request.CreateReservationRequest{
		{TimingID: 7, Seats: 0},
		{TimingID: 7, Seats: -3},
		{TimingID: 0, Seats: 2},
		{TimingID: 7, Seats: 51}, // over the per-request limit
	}
	for _, req := range cases {
		_, err := fx.svc.Request(context.Background(), &req)
		assert.ErrorIs(t, err, ErrValidation)
	}

	available, err := fx.ledger.Available(7)
	require.NoError(t, err)
	assert.Equal(t, 45, available)
	assert.Empty(t, fx.sink.Entries())
}

func TestBookingService_RequestUnknownTiming(t *testing.T) {
	fx := newBookingFixture()

	_, err := fx.svc.Request(context.Background(), &request.CreateReservationRequest{TimingID: 99, Seats: 2})
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestBookingService_ConfirmAfterExpiry(t *testing.T) {
	fx := newBookingFixture()
	require.NoError(t, fx.ledger.Register(7, 45, 45))

	resp, err := fx.svc.Request(context.Background(), &request.CreateReservationRequest{TimingID: 7, Seats: 30})
	require.NoError(t, err)

	fx.clock.Advance(11 * time.Minute)

	_, err = fx.svc.Confirm(context.Background(), resp.ID)
	assert.ErrorIs(t, err, ErrHoldExpired)

	got, err := fx.svc.Get(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ReservationStatusExpired, got.Status)

	available, err := fx.ledger.Available(7)
	require.NoError(t, err)
	assert.Equal(t, 45, available)

	// A second confirm must not release again.
	_, err = fx.svc.Confirm(context.Background(), resp.ID)
	assert.ErrorIs(t, err, ErrHoldExpired)

	available, err = fx.ledger.Available(7)
	require.NoError(t, err)
	assert.Equal(t, 45, available)
	assert.Len(t, fx.sink.ForTiming(7), 2) // one reserve, one release
}

func TestBookingService_ExpiryRacesLateCancel_ReleasesOnce(t *testing.T) {
	fx := newBookingFixture()
	require.NoError(t, fx.ledger.Register(7, 45, 45))

	resp, err := fx.svc.Request(context.Background(), &request.CreateReservationRequest{TimingID: 7, Seats: 30})
	require.NoError(t, err)

	bs := fx.svc.(*bookingService)
	hr := bs.lookup(uuid.MustParse(resp.ID))
	require.NotNil(t, hr)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		bs.expire(hr)
	}()
	go func() {
		defer wg.Done()
		// Loses or wins the race; either way seats come back once.
		fx.svc.Cancel(context.Background(), resp.ID)
	}()
	wg.Wait()

	available, err := fx.ledger.Available(7)
	require.NoError(t, err)
	assert.Equal(t, 45, available)

	releases := 0
	for _, entry := range fx.sink.ForTiming(7) {
		if entry.Delta > 0 {
			releases++
		}
	}
	assert.Equal(t, 1, releases)

	got, err := fx.svc.Get(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.True(t, got.Status.Terminal())
}

func TestBookingService_SweepExpiresOverdueHolds(t *testing.T) {
	fx := newBookingFixture()
	require.NoError(t, fx.ledger.Register(1, 45, 45))
	require.NoError(t, fx.ledger.Register(2, 30, 30))

	first, err := fx.svc.Request(context.Background(), &request.CreateReservationRequest{TimingID: 1, Seats: 5})
	require.NoError(t, err)
	second, err := fx.svc.Request(context.Background(), &request.CreateReservationRequest{TimingID: 2, Seats: 3})
	require.NoError(t, err)

	fx.clock.Advance(11 * time.Minute)

	assert.Equal(t, 2, fx.svc.ExpireOverdue(context.Background()))
	assert.Equal(t, 0, fx.svc.ExpireOverdue(context.Background()))

	for _, id := range []string{first.ID, second.ID} {
		got, err := fx.svc.Get(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, entity.ReservationStatusExpired, got.Status)
	}

	available, err := fx.ledger.Available(1)
	require.NoError(t, err)
	assert.Equal(t, 45, available)
	available, err = fx.ledger.Available(2)
	require.NoError(t, err)
	assert.Equal(t, 30, available)
}

func TestBookingService_CancelRejectsTerminal(t *testing.T) {
	fx := newBookingFixture()
	require.NoError(t, fx.ledger.Register(7, 45, 45))

	resp, err := fx.svc.Request(context.Background(), &request.CreateReservationRequest{TimingID: 7, Seats: 2})
	require.NoError(t, err)
	_, err = fx.svc.Confirm(context.Background(), resp.ID)
	require.NoError(t, err)

	_, err = fx.svc.Cancel(context.Background(), resp.ID)
	assert.ErrorIs(t, err, ErrInvalidState)

	// Confirmed seats must stay deducted.
	available, err := fx.ledger.Available(7)
	require.NoError(t, err)
	assert.Equal(t, 43, available)
}

func TestBookingService_CancelUnknownReservation(t *testing.T) {
	fx := newBookingFixture()
	fx.repo.On("FindByID", mock.Anything, mock.Anything).Return(nil, nil)

	_, err := fx.svc.Cancel(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBookingService_GetFallsBackToStorage(t *testing.T) {
	fx := newBookingFixture()

	stored := &entity.Reservation{
		Base:      entity.Base{ID: uuid.New(), CreatedAt: fx.clock.Now(), UpdatedAt: fx.clock.Now()},
		Code:      "RSV-20230425-100000-0001",
		TimingID:  7,
		Seats:     4,
		Status:    entity.ReservationStatusConfirmed,
		HeldAt:    fx.clock.Now(),
		ExpiresAt: fx.clock.Now().Add(10 * time.Minute),
	}
	fx.repo.On("FindByID", mock.Anything, stored.ID).Return(stored, nil)

	got, err := fx.svc.Get(context.Background(), stored.ID.String())
	require.NoError(t, err)
	assert.Equal(t, stored.Code, got.Code)
	assert.Equal(t, entity.ReservationStatusConfirmed, got.Status)

	fx.repo.On("FindByID", mock.Anything, mock.Anything).Return(nil, nil)
	_, err = fx.svc.Get(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBookingService_RestoreRearmsHolds(t *testing.T) {
	fx := newBookingFixture()
	// Stored balances already carry the holds' deductions.
	require.NoError(t, fx.ledger.Register(1, 15, 45))
	require.NoError(t, fx.ledger.Register(2, 20, 50))

	now := fx.clock.Now()
	overdue := entity.Reservation{
		Base:      entity.Base{ID: uuid.New(), CreatedAt: now.Add(-20 * time.Minute), UpdatedAt: now.Add(-20 * time.Minute)},
		Code:      "RSV-20230425-094000-0001",
		TimingID:  1,
		Seats:     30,
		Status:    entity.ReservationStatusHeld,
		HeldAt:    now.Add(-20 * time.Minute),
		ExpiresAt: now.Add(-10 * time.Minute),
	}
	live := entity.Reservation{
		Base:      entity.Base{ID: uuid.New(), CreatedAt: now.Add(-5 * time.Minute), UpdatedAt: now.Add(-5 * time.Minute)},
		Code:      "RSV-20230425-095500-0002",
		TimingID:  2,
		Seats:     30,
		Status:    entity.ReservationStatusHeld,
		HeldAt:    now.Add(-5 * time.Minute),
		ExpiresAt: now.Add(5 * time.Minute),
	}
	fx.repo.On("ListHeld", mock.Anything).Return([]entity.Reservation{overdue, live}, nil)

	require.NoError(t, fx.svc.Restore(context.Background()))

	// The lapsed hold returned its seats, the live one kept them.
	available, err := fx.ledger.Available(1)
	require.NoError(t, err)
	assert.Equal(t, 45, available)
	available, err = fx.ledger.Available(2)
	require.NoError(t, err)
	assert.Equal(t, 20, available)

	got, err := fx.svc.Get(context.Background(), live.ID.String())
	require.NoError(t, err)
	assert.Equal(t, entity.ReservationStatusHeld, got.Status)
}

func TestBookingService_ListPagesHistory(t *testing.T) {
	fx := newBookingFixture()

	rows := []entity.Reservation{
		{
			Base:     entity.Base{ID: uuid.New(), CreatedAt: fx.clock.Now()},
			Code:     "RSV-20230425-100000-0007",
			TimingID: 7,
			Seats:    2,
			Status:   entity.ReservationStatusConfirmed,
		},
	}
	fx.repo.On("List", mock.Anything, 10, 0).Return(rows, nil)
	fx.repo.On("Count", mock.Anything).Return(int64(23), nil)

	resp, err := fx.svc.List(context.Background(), &request.PaginatedRequest{Page: 1, PerPage: 10})
	require.NoError(t, err)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "RSV-20230425-100000-0007", resp.Data[0].Code)
	assert.Equal(t, int64(23), resp.Pagination.Total)
	assert.Equal(t, 3, resp.Pagination.TotalPages)
}

func TestBookingService_PublishesLifecycleEvents(t *testing.T) {
	fx := newBookingFixture()
	require.NoError(t, fx.ledger.Register(7, 45, 45))

	resp, err := fx.svc.Request(context.Background(), &request.CreateReservationRequest{TimingID: 7, Seats: 2})
	require.NoError(t, err)
	_, err = fx.svc.Confirm(context.Background(), resp.ID)
	require.NoError(t, err)

	var types []string
	for _, call := range fx.pub.Calls {
		if call.Method == "Publish" {
			types = append(types, call.Arguments.Get(1).(events.Event).Type)
		}
	}
	assert.Equal(t, []string{events.TypeHeld, events.TypeConfirmed}, types)
}
