package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"ticket-booking/internal/data/repository"
	"ticket-booking/internal/dto/request"
	"ticket-booking/internal/dto/response"
	"ticket-booking/internal/ledger"
	"ticket-booking/pkg/cache"
	"ticket-booking/pkg/utils"

	"go.uber.org/zap"
)

// Consistency levels for availability reads. Strong reads go through the
// ledger on every request; cached reads may serve a snapshot up to the
// cache TTL old.
const (
	ConsistencyStrong = "strong"
	ConsistencyCached = "cached"
)

type ShowtimeService interface {
	ListShows(ctx context.Context, theatreID int64, date time.Time, consistency string) (*response.TheatreShowsResponse, error)
	TimingAvailability(ctx context.Context, timingID int64) (*response.TimingAvailabilityResponse, error)
	TimingJournal(ctx context.Context, timingID int64, req *request.PaginatedRequest) (*response.PaginatedResponse[response.LedgerEntryResponse], error)
}

type showtimeService struct {
	repo               *repository.Repository
	ledger             *ledger.Ledger
	cache              cache.Cache
	cacheTTL           time.Duration
	defaultConsistency string
	log                *zap.Logger
}

func NewShowtimeService(repo *repository.Repository, ldg *ledger.Ledger, c cache.Cache, config *utils.Config, log *zap.Logger) ShowtimeService {
	return &showtimeService{
		repo:               repo,
		ledger:             ldg,
		cache:              c,
		cacheTTL:           time.Duration(config.Cache.TTLSeconds) * time.Second,
		defaultConsistency: config.Query.DefaultConsistency,
		log:                log.With(zap.String("service", "showtime")),
	}
}

// ListShows returns every timing bookable at the theatre on the given
// date, ordered by movie title then start time.
func (s *showtimeService) ListShows(ctx context.Context, theatreID int64, date time.Time, consistency string) (*response.TheatreShowsResponse, error) {
	if consistency == "" {
		consistency = s.defaultConsistency
	}
	if consistency != ConsistencyStrong && consistency != ConsistencyCached {
		return nil, fmt.Errorf("%w: unknown consistency %q", ErrValidation, consistency)
	}

	if consistency == ConsistencyCached {
		key := listingCacheKey(theatreID, date)
		if data, ok := s.cache.Get(ctx, key); ok {
			var cached response.TheatreShowsResponse
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, nil
			}
			s.cache.Delete(ctx, key)
		}
	}

	listing, err := s.buildListing(ctx, theatreID, date, consistency)
	if err != nil {
		return nil, err
	}

	if consistency == ConsistencyCached {
		if data, err := json.Marshal(listing); err == nil {
			s.cache.Set(ctx, listingCacheKey(theatreID, date), data, s.cacheTTL)
		}
	}

	return listing, nil
}

// TimingAvailability reads one timing's counter straight from the
// ledger, frozen flag included.
func (s *showtimeService) TimingAvailability(ctx context.Context, timingID int64) (*response.TimingAvailabilityResponse, error) {
	state, err := s.ledger.State(timingID)
	if err != nil {
		return nil, err
	}

	return &response.TimingAvailabilityResponse{
		TimingID:       timingID,
		AvailableSeats: state.Available,
		Capacity:       state.Capacity,
		Frozen:         state.Frozen,
	}, nil
}

// TimingJournal pages through a timing's persisted ledger entries,
// newest first. This is the audit view: the journal is the authority on
// how a balance got where it is.
func (s *showtimeService) TimingJournal(ctx context.Context, timingID int64, req *request.PaginatedRequest) (*response.PaginatedResponse[response.LedgerEntryResponse], error) {
	entries, err := s.repo.Ledger.ListByTiming(ctx, timingID, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to list ledger entries", zap.Error(err), zap.Int64("timing_id", timingID))
		return nil, fmt.Errorf("list ledger entries for timing %d: %w", timingID, err)
	}
	total, err := s.repo.Ledger.CountByTiming(ctx, timingID)
	if err != nil {
		return nil, fmt.Errorf("count ledger entries for timing %d: %w", timingID, err)
	}

	items := make([]response.LedgerEntryResponse, 0, len(entries))
	for i := range entries {
		items = append(items, response.LedgerEntryToResponse(&entries[i]))
	}
	return response.NewPaginatedResponse(items, req.Page, req.PerPage, total), nil
}

func (s *showtimeService) buildListing(ctx context.Context, theatreID int64, date time.Time, consistency string) (*response.TheatreShowsResponse, error) {
	theatre, err := s.repo.Catalog.FindTheatreByID(ctx, theatreID)
	if err != nil {
		return nil, err
	}
	if theatre == nil {
		return nil, fmt.Errorf("%w: theatre %d", ErrNotFound, theatreID)
	}

	rows, err := s.repo.Timing.ListShowings(ctx, theatreID)
	if err != nil {
		s.log.Error("Failed to list showings", zap.Error(err), zap.Int64("theatre_id", theatreID))
		return nil, fmt.Errorf("list showings for theatre %d: %w", theatreID, err)
	}

	shows := make([]response.ShowtimeResponse, 0, len(rows))
	for _, row := range rows {
		// Only shows whose run range contains the date.
		if date.Before(row.RunStart) || date.After(row.RunEnd) {
			continue
		}

		available := row.AvailableSeats
		if balance, err := s.ledger.Available(row.TimingID); err == nil {
			available = balance
		}

		shows = append(shows, response.ShowtimeResponse{
			TimingID:       row.TimingID,
			ShowID:         row.ShowID,
			MovieID:        row.MovieID,
			MovieTitle:     row.MovieTitle,
			Language:       row.LanguageName,
			Format:         row.FormatName,
			ScreenID:       row.ScreenID,
			ScreenName:     row.ScreenName,
			Date:           utils.FormatDate(date),
			StartTime:      row.StartTime.String(),
			Price:          utils.FormatPrice(row.PriceCents),
			AvailableSeats: available,
		})
	}

	// The query pre-orders, but ordering is part of the contract here,
	// not an accident of the SQL.
	sort.SliceStable(shows, func(i, j int) bool {
		if shows[i].MovieTitle != shows[j].MovieTitle {
			return shows[i].MovieTitle < shows[j].MovieTitle
		}
		return shows[i].StartTime < shows[j].StartTime
	})

	s.log.Info("Shows listed",
		zap.Int64("theatre_id", theatreID),
		zap.String("date", utils.FormatDate(date)),
		zap.String("consistency", consistency),
		zap.Int("count", len(shows)),
	)

	return &response.TheatreShowsResponse{
		TheatreID:   theatreID,
		TheatreName: theatre.Name,
		Date:        utils.FormatDate(date),
		Consistency: consistency,
		Shows:       shows,
	}, nil
}

func listingCacheKey(theatreID int64, date time.Time) string {
	return fmt.Sprintf("shows:%d:%s", theatreID, utils.FormatDate(date))
}
