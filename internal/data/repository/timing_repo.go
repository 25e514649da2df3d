package repository

import (
	"context"
	"fmt"
	"time"

	"ticket-booking/internal/data/entity"
	"ticket-booking/pkg/database"

	"github.com/jackc/pgx/v5/pgtype"
	"go.uber.org/zap"
)

// ShowingRow is one joined row of the theatre listing: a timing with its
// show, movie and screen context. Date-window filtering happens in the
// service layer, which also overrides AvailableSeats from the ledger.
type ShowingRow struct {
	TimingID       int64
	StartTime      entity.TimeOfDay
	AvailableSeats int
	ShowID         int64
	RunStart       time.Time
	RunEnd         time.Time
	PriceCents     int64
	MovieID        int64
	MovieTitle     string
	DurationMin    int
	LanguageName   string
	FormatName     string
	ScreenID       int64
	ScreenName     string
}

// TimingSeed carries what the ledger needs to register one timing: the
// stored balance and the owning screen's capacity.
type TimingSeed struct {
	TimingID       int64
	AvailableSeats int
	Capacity       int
}

type TimingRepository interface {
	ListShowings(ctx context.Context, theatreID int64) ([]ShowingRow, error)
	ListForLedger(ctx context.Context) ([]TimingSeed, error)
}

type timingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTimingRepository(db database.PgxIface, log *zap.Logger) TimingRepository {
	return &timingRepository{
		db:  db,
		log: log.With(zap.String("repository", "timing")),
	}
}

func (r *timingRepository) ListShowings(ctx context.Context, theatreID int64) ([]ShowingRow, error) {
	query := `
		SELECT st.id, st.start_time, st.available_seats,
		       s.id, s.run_start, s.run_end, s.price_cents,
		       m.id, m.title, m.duration_min,
		       l.name, f.name,
		       scr.id, scr.name
		FROM show_timings st
		JOIN shows s ON st.show_id = s.id
		JOIN movies m ON s.movie_id = m.id
		JOIN languages l ON s.language_id = l.id
		JOIN formats f ON s.format_id = f.id
		JOIN screens scr ON s.screen_id = scr.id
		WHERE scr.theatre_id = $1
		ORDER BY m.title, st.start_time
	`

	rows, err := r.db.Query(ctx, query, theatreID)
	if err != nil {
		r.log.Error("Failed to list showings", zap.Error(err), zap.Int64("theatre_id", theatreID))
		return nil, fmt.Errorf("list showings for theatre %d: %w", theatreID, err)
	}
	defer rows.Close()

	var showings []ShowingRow
	for rows.Next() {
		var row ShowingRow
		var startTime pgtype.Time
		if err := rows.Scan(
			&row.TimingID,
			&startTime,
			&row.AvailableSeats,
			&row.ShowID,
			&row.RunStart,
			&row.RunEnd,
			&row.PriceCents,
			&row.MovieID,
			&row.MovieTitle,
			&row.DurationMin,
			&row.LanguageName,
			&row.FormatName,
			&row.ScreenID,
			&row.ScreenName,
		); err != nil {
			return nil, fmt.Errorf("scan showing row: %w", err)
		}
		row.StartTime = entity.TimeOfDayFromMicroseconds(startTime.Microseconds)
		showings = append(showings, row)
	}

	return showings, rows.Err()
}

func (r *timingRepository) ListForLedger(ctx context.Context) ([]TimingSeed, error) {
	query := `
		SELECT st.id, st.available_seats, scr.total_seats
		FROM show_timings st
		JOIN shows s ON st.show_id = s.id
		JOIN screens scr ON s.screen_id = scr.id
		ORDER BY st.id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to list timings for ledger", zap.Error(err))
		return nil, fmt.Errorf("list timings for ledger: %w", err)
	}
	defer rows.Close()

	var seeds []TimingSeed
	for rows.Next() {
		var seed TimingSeed
		if err := rows.Scan(&seed.TimingID, &seed.AvailableSeats, &seed.Capacity); err != nil {
			return nil, fmt.Errorf("scan timing seed row: %w", err)
		}
		seeds = append(seeds, seed)
	}

	return seeds, rows.Err()
}
