package usecase

import (
	"context"
	"sync"
	"time"

	"ticket-booking/internal/data/entity"
	"ticket-booking/internal/data/repository"
	"ticket-booking/internal/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// Mock repositories

type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) ImportSnapshot(ctx context.Context, catalog *entity.Catalog) error {
	args := m.Called(ctx, catalog)
	return args.Error(0)
}

func (m *MockCatalogRepository) ListCities(ctx context.Context) ([]entity.City, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.City), args.Error(1)
}

func (m *MockCatalogRepository) ListLanguages(ctx context.Context) ([]entity.Language, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Language), args.Error(1)
}

func (m *MockCatalogRepository) ListFormats(ctx context.Context) ([]entity.Format, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Format), args.Error(1)
}

func (m *MockCatalogRepository) ListMovies(ctx context.Context) ([]entity.Movie, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Movie), args.Error(1)
}

func (m *MockCatalogRepository) ListTheatres(ctx context.Context) ([]entity.Theatre, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Theatre), args.Error(1)
}

func (m *MockCatalogRepository) ListScreens(ctx context.Context) ([]entity.Screen, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Screen), args.Error(1)
}

func (m *MockCatalogRepository) ListShows(ctx context.Context) ([]entity.Show, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Show), args.Error(1)
}

func (m *MockCatalogRepository) ListTimings(ctx context.Context) ([]entity.ShowTiming, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.ShowTiming), args.Error(1)
}

func (m *MockCatalogRepository) FindMovieByID(ctx context.Context, id int64) (*entity.Movie, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Movie), args.Error(1)
}

func (m *MockCatalogRepository) FindTheatreByID(ctx context.Context, id int64) (*entity.Theatre, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Theatre), args.Error(1)
}

func (m *MockCatalogRepository) FindScreenByID(ctx context.Context, id int64) (*entity.Screen, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Screen), args.Error(1)
}

func (m *MockCatalogRepository) CityExists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockCatalogRepository) LanguageExists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockCatalogRepository) FormatExists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type MockShowRepository struct {
	mock.Mock
}

func (m *MockShowRepository) CreateWithTimings(ctx context.Context, show *entity.Show, timings []*entity.ShowTiming) error {
	args := m.Called(ctx, show, timings)
	return args.Error(0)
}

func (m *MockShowRepository) ListByScreen(ctx context.Context, screenID int64) ([]entity.Show, error) {
	args := m.Called(ctx, screenID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Show), args.Error(1)
}

func (m *MockShowRepository) ListTimingsByShow(ctx context.Context, showID int64) ([]entity.ShowTiming, error) {
	args := m.Called(ctx, showID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.ShowTiming), args.Error(1)
}

type MockTimingRepository struct {
	mock.Mock
}

func (m *MockTimingRepository) ListShowings(ctx context.Context, theatreID int64) ([]repository.ShowingRow, error) {
	args := m.Called(ctx, theatreID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.ShowingRow), args.Error(1)
}

func (m *MockTimingRepository) ListForLedger(ctx context.Context) ([]repository.TimingSeed, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.TimingSeed), args.Error(1)
}

type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) Record(ctx context.Context, entry entity.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerRepository) ListByTiming(ctx context.Context, timingID int64, limit, offset int) ([]entity.LedgerEntry, error) {
	args := m.Called(ctx, timingID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) CountByTiming(ctx context.Context, timingID int64) (int64, error) {
	args := m.Called(ctx, timingID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerRepository) LatestByTiming(ctx context.Context) ([]entity.LedgerEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.LedgerEntry), args.Error(1)
}

type MockReservationRepository struct {
	mock.Mock
}

func (m *MockReservationRepository) Create(ctx context.Context, reservation *entity.Reservation) error {
	args := m.Called(ctx, reservation)
	return args.Error(0)
}

func (m *MockReservationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.ReservationStatus, resolvedAt *time.Time, updatedAt time.Time) error {
	args := m.Called(ctx, id, status, resolvedAt, updatedAt)
	return args.Error(0)
}

func (m *MockReservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Reservation), args.Error(1)
}

func (m *MockReservationRepository) ListHeld(ctx context.Context) ([]entity.Reservation, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Reservation), args.Error(1)
}

func (m *MockReservationRepository) List(ctx context.Context, limit, offset int) ([]entity.Reservation, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Reservation), args.Error(1)
}

func (m *MockReservationRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event events.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockPublisher) Close() {
	m.Called()
}

// stepClock is a settable clock for deadline tests.

type stepClock struct {
	mu sync.Mutex
	t  time.Time
}

func newStepClock(t time.Time) *stepClock { return &stepClock{t: t} }

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *stepClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}
