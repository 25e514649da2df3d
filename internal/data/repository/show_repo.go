package repository

import (
	"context"
	"fmt"

	"ticket-booking/internal/data/entity"
	"ticket-booking/pkg/database"

	"github.com/jackc/pgx/v5/pgtype"
	"go.uber.org/zap"
)

type ShowRepository interface {
	CreateWithTimings(ctx context.Context, show *entity.Show, timings []*entity.ShowTiming) error
	ListByScreen(ctx context.Context, screenID int64) ([]entity.Show, error)
	ListTimingsByShow(ctx context.Context, showID int64) ([]entity.ShowTiming, error)
}

type showRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewShowRepository(db database.PgxIface, log *zap.Logger) ShowRepository {
	return &showRepository{
		db:  db,
		log: log.With(zap.String("repository", "show")),
	}
}

// CreateWithTimings inserts a show and its timings in one transaction,
// filling in the generated ids.
func (r *showRepository) CreateWithTimings(ctx context.Context, show *entity.Show, timings []*entity.ShowTiming) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.log.Error("Failed to begin show transaction", zap.Error(err))
		return fmt.Errorf("begin create show: %w", err)
	}
	defer tx.Rollback(ctx)

	showQuery := `
		INSERT INTO shows (movie_id, screen_id, language_id, format_id, run_start, run_end, price_cents)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err = tx.QueryRow(ctx, showQuery,
		show.MovieID,
		show.ScreenID,
		show.LanguageID,
		show.FormatID,
		show.RunStart,
		show.RunEnd,
		show.PriceCents,
	).Scan(&show.ID)
	if err != nil {
		r.log.Error("Failed to create show",
			zap.Error(err),
			zap.Int64("movie_id", show.MovieID),
			zap.Int64("screen_id", show.ScreenID),
		)
		return fmt.Errorf("create show for movie %d screen %d: %w", show.MovieID, show.ScreenID, err)
	}

	timingQuery := `
		INSERT INTO show_timings (show_id, start_time, available_seats)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	for _, timing := range timings {
		timing.ShowID = show.ID
		startTime := pgtype.Time{Microseconds: timing.StartTime.Microseconds(), Valid: true}
		if err := tx.QueryRow(ctx, timingQuery, timing.ShowID, startTime, timing.AvailableSeats).Scan(&timing.ID); err != nil {
			r.log.Error("Failed to create show timing",
				zap.Error(err),
				zap.Int64("show_id", show.ID),
				zap.String("start_time", timing.StartTime.String()),
			)
			return fmt.Errorf("create timing %s for show %d: %w", timing.StartTime, show.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		r.log.Error("Failed to commit show transaction", zap.Error(err))
		return fmt.Errorf("commit create show: %w", err)
	}

	return nil
}

func (r *showRepository) ListByScreen(ctx context.Context, screenID int64) ([]entity.Show, error) {
	query := `
		SELECT id, movie_id, screen_id, language_id, format_id, run_start, run_end, price_cents
		FROM shows
		WHERE screen_id = $1
		ORDER BY run_start
	`

	rows, err := r.db.Query(ctx, query, screenID)
	if err != nil {
		r.log.Error("Failed to list shows by screen", zap.Error(err), zap.Int64("screen_id", screenID))
		return nil, fmt.Errorf("list shows by screen %d: %w", screenID, err)
	}
	defer rows.Close()

	var shows []entity.Show
	for rows.Next() {
		var show entity.Show
		if err := rows.Scan(
			&show.ID,
			&show.MovieID,
			&show.ScreenID,
			&show.LanguageID,
			&show.FormatID,
			&show.RunStart,
			&show.RunEnd,
			&show.PriceCents,
		); err != nil {
			return nil, fmt.Errorf("scan show row: %w", err)
		}
		shows = append(shows, show)
	}

	return shows, rows.Err()
}

func (r *showRepository) ListTimingsByShow(ctx context.Context, showID int64) ([]entity.ShowTiming, error) {
	query := `
		SELECT id, show_id, start_time, available_seats
		FROM show_timings
		WHERE show_id = $1
		ORDER BY start_time
	`

	rows, err := r.db.Query(ctx, query, showID)
	if err != nil {
		r.log.Error("Failed to list timings by show", zap.Error(err), zap.Int64("show_id", showID))
		return nil, fmt.Errorf("list timings by show %d: %w", showID, err)
	}
	defer rows.Close()

	var timings []entity.ShowTiming
	for rows.Next() {
		var timing entity.ShowTiming
		var startTime pgtype.Time
		if err := rows.Scan(&timing.ID, &timing.ShowID, &startTime, &timing.AvailableSeats); err != nil {
			return nil, fmt.Errorf("scan timing row: %w", err)
		}
		timing.StartTime = entity.TimeOfDayFromMicroseconds(startTime.Microseconds)
		timings = append(timings, timing)
	}

	return timings, rows.Err()
}
