package usecase

import (
	"context"
	"testing"
	"time"

	"ticket-booking/internal/clock"
	"ticket-booking/internal/data/entity"
	"ticket-booking/internal/data/repository"
	"ticket-booking/internal/dto/request"
	"ticket-booking/internal/ledger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type catalogFixture struct {
	svc         CatalogService
	ledger      *ledger.Ledger
	catalogRepo *MockCatalogRepository
	showRepo    *MockShowRepository
	ledgerRepo  *MockLedgerRepository
}

func newCatalogFixture() *catalogFixture {
	catalogRepo := new(MockCatalogRepository)
	showRepo := new(MockShowRepository)
	ledgerRepo := new(MockLedgerRepository)
	ldg := ledger.New(&ledger.MemorySink{}, clock.Real(), zap.NewNop())

	repo := &repository.Repository{
		Catalog: catalogRepo,
		Show:    showRepo,
		Ledger:  ledgerRepo,
	}
	return &catalogFixture{
		svc:         NewCatalogService(repo, ldg, zap.NewNop()),
		ledger:      ldg,
		catalogRepo: catalogRepo,
		showRepo:    showRepo,
		ledgerRepo:  ledgerRepo,
	}
}

// validSnapshot is internally consistent: every reference resolves
// inside the payload itself.
func validSnapshot() *request.CatalogImportRequest {
	return &request.CatalogImportRequest{
		Cities:    []request.CityPayload{{ID: 1, Name: "Hyderabad", State: "Telangana", Country: "India"}},
		Languages: []request.LanguagePayload{{ID: 1, Name: "Telugu"}},
		Formats:   []request.FormatPayload{{ID: 1, Name: "2D"}},
		Movies: []request.MoviePayload{{
			ID: 1, Title: "Dasara", LanguageID: 1, DurationMin: 158,
			Genre: "Action", ReleaseDate: "2023-03-30", Rating: 8.2,
		}},
		Theatres: []request.TheatrePayload{{
			ID: 1, Name: "PVR Nexus", Address: "Road No 1, Banjara Hills", CityID: 1, Contact: "040-23554777",
		}},
		Screens: []request.ScreenPayload{{ID: 1, TheatreID: 1, Name: "Screen 1", TotalSeats: 50, FormatID: 1}},
		Shows: []request.ShowPayload{{
			ID: 1, MovieID: 1, ScreenID: 1, LanguageID: 1, FormatID: 1,
			RunStart: "2023-04-20", RunEnd: "2023-04-30", Price: "250.00",
			Timings: []request.TimingPayload{
				{ID: 1, StartTime: "10:00:00", AvailableSeats: 45},
				{ID: 2, StartTime: "19:00:00", AvailableSeats: 50},
			},
		}},
	}
}

func TestCatalogService_Import_RegistersTimings(t *testing.T) {
	fx := newCatalogFixture()
	fx.catalogRepo.On("ImportSnapshot", mock.Anything, mock.Anything).Return(nil)
	fx.showRepo.On("ListByScreen", mock.Anything, int64(1)).Return([]entity.Show{}, nil)
	// Timing 1 already has journaled mutations from a previous run.
	fx.ledgerRepo.On("LatestByTiming", mock.Anything).Return([]entity.LedgerEntry{{TimingID: 1, Seq: 12}}, nil)

	resp, err := fx.svc.Import(context.Background(), validSnapshot())
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Cities)
	assert.Equal(t, 1, resp.Movies)
	assert.Equal(t, 1, resp.Shows)
	assert.Equal(t, 2, resp.Timings)

	available, err := fx.ledger.Available(1)
	require.NoError(t, err)
	assert.Equal(t, 45, available)
	available, err = fx.ledger.Available(2)
	require.NoError(t, err)
	assert.Equal(t, 50, available)

	// Journal numbering picks up where the stored journal left off.
	state, err := fx.ledger.State(1)
	require.NoError(t, err)
	assert.Equal(t, int64(12), state.Seq)
	assert.Equal(t, 50, state.Capacity)
}

func TestCatalogService_Import_RejectsUnknownReference(t *testing.T) {
	fx := newCatalogFixture()
	fx.catalogRepo.On("LanguageExists", mock.Anything, int64(99)).Return(false, nil)

	snapshot := validSnapshot()
	snapshot.Movies[0].LanguageID = 99

	_, err := fx.svc.Import(context.Background(), snapshot)
	assert.ErrorIs(t, err, ErrValidation)
	fx.catalogRepo.AssertNotCalled(t, "ImportSnapshot", mock.Anything, mock.Anything)
}

func TestCatalogService_Import_RejectsInvertedRunRange(t *testing.T) {
	fx := newCatalogFixture()

	snapshot := validSnapshot()
	snapshot.Shows[0].RunStart = "2023-04-30"
	snapshot.Shows[0].RunEnd = "2023-04-20"

	_, err := fx.svc.Import(context.Background(), snapshot)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCatalogService_Import_RejectsDuplicateIDs(t *testing.T) {
	fx := newCatalogFixture()

	snapshot := validSnapshot()
	snapshot.Cities = append(snapshot.Cities, request.CityPayload{
		ID: 1, Name: "Warangal", State: "Telangana", Country: "India",
	})

	_, err := fx.svc.Import(context.Background(), snapshot)
	assert.ErrorIs(t, err, ErrValidation)
	assert.ErrorContains(t, err, "duplicate")
}

func TestCatalogService_Import_RejectsOverCapacityTiming(t *testing.T) {
	fx := newCatalogFixture()

	snapshot := validSnapshot()
	snapshot.Shows[0].Timings[1].AvailableSeats = 51 // screen seats 50

	_, err := fx.svc.Import(context.Background(), snapshot)
	assert.ErrorIs(t, err, ErrValidation)
	fx.catalogRepo.AssertNotCalled(t, "ImportSnapshot", mock.Anything, mock.Anything)
}

func TestCatalogService_Import_RejectsNonPositiveSeats(t *testing.T) {
	fx := newCatalogFixture()

	snapshot := validSnapshot()
	snapshot.Screens[0].TotalSeats = 0

	_, err := fx.svc.Import(context.Background(), snapshot)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCatalogService_Import_RejectsShowWithoutTimings(t *testing.T) {
	fx := newCatalogFixture()

	snapshot := validSnapshot()
	snapshot.Shows[0].Timings = nil

	_, err := fx.svc.Import(context.Background(), snapshot)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCatalogService_Import_RejectsScreenDoubleBooking(t *testing.T) {
	fx := newCatalogFixture()

	// Second show on the same screen, overlapping run, same evening slot.
	snapshot := validSnapshot()
	snapshot.Shows = append(snapshot.Shows, request.ShowPayload{
		ID: 2, MovieID: 1, ScreenID: 1, LanguageID: 1, FormatID: 1,
		RunStart: "2023-04-25", RunEnd: "2023-05-05", Price: "300.00",
		Timings: []request.TimingPayload{
			{ID: 3, StartTime: "19:00:00", AvailableSeats: 50},
		},
	})

	_, err := fx.svc.Import(context.Background(), snapshot)
	assert.ErrorIs(t, err, ErrScreenConflict)
	fx.catalogRepo.AssertNotCalled(t, "ImportSnapshot", mock.Anything, mock.Anything)
}

func TestCatalogService_ScheduleShow_DefaultsAndRegisters(t *testing.T) {
	fx := newCatalogFixture()

	movie := &entity.Movie{ID: 3, Title: "Dasara", LanguageID: 1, DurationMin: 158}
	screen := &entity.Screen{ID: 2, TheatreID: 1, Name: "Screen 2", TotalSeats: 60, FormatID: 1}
	fx.catalogRepo.On("FindMovieByID", mock.Anything, int64(3)).Return(movie, nil)
	fx.catalogRepo.On("FindScreenByID", mock.Anything, int64(2)).Return(screen, nil)
	fx.catalogRepo.On("LanguageExists", mock.Anything, int64(1)).Return(true, nil)
	fx.catalogRepo.On("FormatExists", mock.Anything, int64(1)).Return(true, nil)
	fx.showRepo.On("ListByScreen", mock.Anything, int64(2)).Return([]entity.Show{}, nil)
	fx.showRepo.On("CreateWithTimings", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			show := args.Get(1).(*entity.Show)
			show.ID = 7
			for i, timing := range args.Get(2).([]*entity.ShowTiming) {
				timing.ID = int64(100 + i)
				timing.ShowID = show.ID
			}
		}).
		Return(nil)

	limited := 40
	resp, err := fx.svc.ScheduleShow(context.Background(), &request.ScheduleShowRequest{
		MovieID: 3, ScreenID: 2, LanguageID: 1, FormatID: 1,
		RunStart: "2023-05-01", RunEnd: "2023-05-10", Price: "180.50",
		Timings: []request.ScheduleTimingRequest{
			{StartTime: "10:00:00"},
			{StartTime: "19:00:00", AvailableSeats: &limited},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(7), resp.ID)
	assert.Equal(t, "180.50", resp.Price)
	require.Len(t, resp.Timings, 2)
	assert.Equal(t, 60, resp.Timings[0].AvailableSeats) // defaulted to capacity
	assert.Equal(t, 40, resp.Timings[1].AvailableSeats)

	available, err := fx.ledger.Available(100)
	require.NoError(t, err)
	assert.Equal(t, 60, available)
	available, err = fx.ledger.Available(101)
	require.NoError(t, err)
	assert.Equal(t, 40, available)

	state, err := fx.ledger.State(101)
	require.NoError(t, err)
	assert.Equal(t, 60, state.Capacity)
}

func TestCatalogService_ScheduleShow_RejectsOverlap(t *testing.T) {
	fx := newCatalogFixture()

	movie := &entity.Movie{ID: 3, Title: "Dasara", LanguageID: 1, DurationMin: 158}
	screen := &entity.Screen{ID: 2, TheatreID: 1, Name: "Screen 2", TotalSeats: 60, FormatID: 1}
	stored := entity.Show{
		ID: 11, MovieID: 3, ScreenID: 2, LanguageID: 1, FormatID: 1,
		RunStart: time.Date(2023, 5, 5, 0, 0, 0, 0, time.UTC),
		RunEnd:   time.Date(2023, 5, 15, 0, 0, 0, 0, time.UTC),
	}
	evening, err := entity.ParseTimeOfDay("19:00:00")
	require.NoError(t, err)

	fx.catalogRepo.On("FindMovieByID", mock.Anything, int64(3)).Return(movie, nil)
	fx.catalogRepo.On("FindScreenByID", mock.Anything, int64(2)).Return(screen, nil)
	fx.catalogRepo.On("LanguageExists", mock.Anything, int64(1)).Return(true, nil)
	fx.catalogRepo.On("FormatExists", mock.Anything, int64(1)).Return(true, nil)
	fx.showRepo.On("ListByScreen", mock.Anything, int64(2)).Return([]entity.Show{stored}, nil)
	fx.showRepo.On("ListTimingsByShow", mock.Anything, int64(11)).
		Return([]entity.ShowTiming{{ID: 55, ShowID: 11, StartTime: evening, AvailableSeats: 60}}, nil)

	// 20:30 lands inside the stored show's 19:00 + 158min window.
	_, err = fx.svc.ScheduleShow(context.Background(), &request.ScheduleShowRequest{
		MovieID: 3, ScreenID: 2, LanguageID: 1, FormatID: 1,
		RunStart: "2023-05-01", RunEnd: "2023-05-10", Price: "180.50",
		Timings:  []request.ScheduleTimingRequest{{StartTime: "20:30:00"}},
	})
	assert.ErrorIs(t, err, ErrScreenConflict)
	fx.showRepo.AssertNotCalled(t, "CreateWithTimings", mock.Anything, mock.Anything, mock.Anything)
}

func TestCatalogService_ScheduleShow_AllowsDisjointSlots(t *testing.T) {
	fx := newCatalogFixture()

	movie := &entity.Movie{ID: 3, Title: "Dasara", LanguageID: 1, DurationMin: 158}
	screen := &entity.Screen{ID: 2, TheatreID: 1, Name: "Screen 2", TotalSeats: 60, FormatID: 1}
	stored := entity.Show{
		ID: 11, MovieID: 3, ScreenID: 2, LanguageID: 1, FormatID: 1,
		RunStart: time.Date(2023, 5, 5, 0, 0, 0, 0, time.UTC),
		RunEnd:   time.Date(2023, 5, 15, 0, 0, 0, 0, time.UTC),
	}
	morning, err := entity.ParseTimeOfDay("10:00:00")
	require.NoError(t, err)

	fx.catalogRepo.On("FindMovieByID", mock.Anything, int64(3)).Return(movie, nil)
	fx.catalogRepo.On("FindScreenByID", mock.Anything, int64(2)).Return(screen, nil)
	fx.catalogRepo.On("LanguageExists", mock.Anything, int64(1)).Return(true, nil)
	fx.catalogRepo.On("FormatExists", mock.Anything, int64(1)).Return(true, nil)
	fx.showRepo.On("ListByScreen", mock.Anything, int64(2)).Return([]entity.Show{stored}, nil)
	fx.showRepo.On("ListTimingsByShow", mock.Anything, int64(11)).
		Return([]entity.ShowTiming{{ID: 55, ShowID: 11, StartTime: morning, AvailableSeats: 60}}, nil)
	fx.showRepo.On("CreateWithTimings", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			args.Get(1).(*entity.Show).ID = 12
			args.Get(2).([]*entity.ShowTiming)[0].ID = 200
		}).
		Return(nil)

	// 10:00 + 158min ends 12:38; a 14:00 slot shares the screen cleanly.
	resp, err := fx.svc.ScheduleShow(context.Background(), &request.ScheduleShowRequest{
		MovieID: 3, ScreenID: 2, LanguageID: 1, FormatID: 1,
		RunStart: "2023-05-01", RunEnd: "2023-05-10", Price: "180.50",
		Timings:  []request.ScheduleTimingRequest{{StartTime: "14:00:00"}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(12), resp.ID)
}

func TestCatalogService_ScheduleShow_UnknownMovie(t *testing.T) {
	fx := newCatalogFixture()
	fx.catalogRepo.On("FindMovieByID", mock.Anything, int64(99)).Return(nil, nil)

	_, err := fx.svc.ScheduleShow(context.Background(), &request.ScheduleShowRequest{
		MovieID: 99, ScreenID: 2, LanguageID: 1, FormatID: 1,
		RunStart: "2023-05-01", RunEnd: "2023-05-10", Price: "180.50",
		Timings:  []request.ScheduleTimingRequest{{StartTime: "10:00:00"}},
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalogService_Export_OverlaysLiveBalances(t *testing.T) {
	fx := newCatalogFixture()
	require.NoError(t, fx.ledger.Register(1, 45, 50))
	_, err := fx.ledger.Reserve(1, 30)
	require.NoError(t, err)

	morning, err := entity.ParseTimeOfDay("10:00:00")
	require.NoError(t, err)

	fx.catalogRepo.On("ListCities", mock.Anything).Return([]entity.City{{ID: 1, Name: "Hyderabad", State: "Telangana", Country: "India"}}, nil)
	fx.catalogRepo.On("ListLanguages", mock.Anything).Return([]entity.Language{{ID: 1, Name: "Telugu"}}, nil)
	fx.catalogRepo.On("ListFormats", mock.Anything).Return([]entity.Format{{ID: 1, Name: "2D"}}, nil)
	fx.catalogRepo.On("ListMovies", mock.Anything).Return([]entity.Movie{{ID: 1, Title: "Dasara", LanguageID: 1, DurationMin: 158}}, nil)
	fx.catalogRepo.On("ListTheatres", mock.Anything).Return([]entity.Theatre{{ID: 1, Name: "PVR Nexus", CityID: 1}}, nil)
	fx.catalogRepo.On("ListScreens", mock.Anything).Return([]entity.Screen{{ID: 1, TheatreID: 1, Name: "Screen 1", TotalSeats: 50, FormatID: 1}}, nil)
	fx.catalogRepo.On("ListShows", mock.Anything).Return([]entity.Show{{
		ID: 1, MovieID: 1, ScreenID: 1, LanguageID: 1, FormatID: 1,
		RunStart:   time.Date(2023, 4, 20, 0, 0, 0, 0, time.UTC),
		RunEnd:     time.Date(2023, 4, 30, 0, 0, 0, 0, time.UTC),
		PriceCents: 25000,
	}}, nil)
	fx.catalogRepo.On("ListTimings", mock.Anything).
		Return([]entity.ShowTiming{{ID: 1, ShowID: 1, StartTime: morning, AvailableSeats: 45}}, nil)

	resp, err := fx.svc.Export(context.Background())
	require.NoError(t, err)

	require.Len(t, resp.Shows, 1)
	require.Len(t, resp.Shows[0].Timings, 1)
	// The stored counter says 45; the ledger knows 30 are held.
	assert.Equal(t, 15, resp.Shows[0].Timings[0].AvailableSeats)
	assert.Equal(t, "250.00", resp.Shows[0].Price)
	assert.Len(t, resp.Cities, 1)
}
