package repository

import (
	"context"
	"fmt"

	"ticket-booking/internal/data/entity"
	"ticket-booking/pkg/database"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"go.uber.org/zap"
)

// CatalogRepository is the persistence side of the catalog store: bulk
// snapshot import in one transaction, full listings for export, and the
// point lookups scheduling needs for referential checks.
type CatalogRepository interface {
	ImportSnapshot(ctx context.Context, catalog *entity.Catalog) error
	ListCities(ctx context.Context) ([]entity.City, error)
	ListLanguages(ctx context.Context) ([]entity.Language, error)
	ListFormats(ctx context.Context) ([]entity.Format, error)
	ListMovies(ctx context.Context) ([]entity.Movie, error)
	ListTheatres(ctx context.Context) ([]entity.Theatre, error)
	ListScreens(ctx context.Context) ([]entity.Screen, error)
	ListShows(ctx context.Context) ([]entity.Show, error)
	ListTimings(ctx context.Context) ([]entity.ShowTiming, error)
	FindMovieByID(ctx context.Context, id int64) (*entity.Movie, error)
	FindTheatreByID(ctx context.Context, id int64) (*entity.Theatre, error)
	FindScreenByID(ctx context.Context, id int64) (*entity.Screen, error)
	CityExists(ctx context.Context, id int64) (bool, error)
	LanguageExists(ctx context.Context, id int64) (bool, error)
	FormatExists(ctx context.Context, id int64) (bool, error)
}

type catalogRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewCatalogRepository(db database.PgxIface, log *zap.Logger) CatalogRepository {
	return &catalogRepository{
		db:  db,
		log: log.With(zap.String("repository", "catalog")),
	}
}

// ImportSnapshot upserts every row of the snapshot in one transaction.
// Rows absent from the snapshot are left untouched.
func (r *catalogRepository) ImportSnapshot(ctx context.Context, catalog *entity.Catalog) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.log.Error("Failed to begin import transaction", zap.Error(err))
		return fmt.Errorf("begin catalog import: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, city := range catalog.Cities {
		query := `
			INSERT INTO cities (id, name, state, country)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO UPDATE SET name = $2, state = $3, country = $4
		`
		if _, err := tx.Exec(ctx, query, city.ID, city.Name, city.State, city.Country); err != nil {
			return fmt.Errorf("import city %d: %w", city.ID, err)
		}
	}

	for _, language := range catalog.Languages {
		query := `
			INSERT INTO languages (id, name)
			VALUES ($1, $2)
			ON CONFLICT (id) DO UPDATE SET name = $2
		`
		if _, err := tx.Exec(ctx, query, language.ID, language.Name); err != nil {
			return fmt.Errorf("import language %d: %w", language.ID, err)
		}
	}

	for _, format := range catalog.Formats {
		query := `
			INSERT INTO formats (id, name)
			VALUES ($1, $2)
			ON CONFLICT (id) DO UPDATE SET name = $2
		`
		if _, err := tx.Exec(ctx, query, format.ID, format.Name); err != nil {
			return fmt.Errorf("import format %d: %w", format.ID, err)
		}
	}

	for _, movie := range catalog.Movies {
		query := `
			INSERT INTO movies (id, title, language_id, duration_min, genre, release_date, rating)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (id) DO UPDATE
			SET title = $2, language_id = $3, duration_min = $4, genre = $5, release_date = $6, rating = $7
		`
		if _, err := tx.Exec(ctx, query,
			movie.ID,
			movie.Title,
			movie.LanguageID,
			movie.DurationMin,
			movie.Genre,
			movie.ReleaseDate,
			movie.Rating,
		); err != nil {
			return fmt.Errorf("import movie %d: %w", movie.ID, err)
		}
	}

	for _, theatre := range catalog.Theatres {
		query := `
			INSERT INTO theatres (id, name, address, city_id, contact)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id) DO UPDATE SET name = $2, address = $3, city_id = $4, contact = $5
		`
		if _, err := tx.Exec(ctx, query,
			theatre.ID,
			theatre.Name,
			theatre.Address,
			theatre.CityID,
			theatre.Contact,
		); err != nil {
			return fmt.Errorf("import theatre %d: %w", theatre.ID, err)
		}
	}

	for _, screen := range catalog.Screens {
		query := `
			INSERT INTO screens (id, theatre_id, name, total_seats, format_id)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id) DO UPDATE SET theatre_id = $2, name = $3, total_seats = $4, format_id = $5
		`
		if _, err := tx.Exec(ctx, query,
			screen.ID,
			screen.TheatreID,
			screen.Name,
			screen.TotalSeats,
			screen.FormatID,
		); err != nil {
			return fmt.Errorf("import screen %d: %w", screen.ID, err)
		}
	}

	for _, show := range catalog.Shows {
		query := `
			INSERT INTO shows (id, movie_id, screen_id, language_id, format_id, run_start, run_end, price_cents)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (id) DO UPDATE
			SET movie_id = $2, screen_id = $3, language_id = $4, format_id = $5, run_start = $6, run_end = $7, price_cents = $8
		`
		if _, err := tx.Exec(ctx, query,
			show.ID,
			show.MovieID,
			show.ScreenID,
			show.LanguageID,
			show.FormatID,
			show.RunStart,
			show.RunEnd,
			show.PriceCents,
		); err != nil {
			return fmt.Errorf("import show %d: %w", show.ID, err)
		}
	}

	for _, timing := range catalog.Timings {
		query := `
			INSERT INTO show_timings (id, show_id, start_time, available_seats)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO UPDATE SET show_id = $2, start_time = $3, available_seats = $4
		`
		startTime := pgtype.Time{Microseconds: timing.StartTime.Microseconds(), Valid: true}
		if _, err := tx.Exec(ctx, query,
			timing.ID,
			timing.ShowID,
			startTime,
			timing.AvailableSeats,
		); err != nil {
			return fmt.Errorf("import timing %d: %w", timing.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		r.log.Error("Failed to commit import transaction", zap.Error(err))
		return fmt.Errorf("commit catalog import: %w", err)
	}

	return nil
}

func (r *catalogRepository) ListCities(ctx context.Context) ([]entity.City, error) {
	query := `SELECT id, name, state, country FROM cities ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to list cities", zap.Error(err))
		return nil, fmt.Errorf("list cities: %w", err)
	}
	defer rows.Close()

	var cities []entity.City
	for rows.Next() {
		var city entity.City
		if err := rows.Scan(&city.ID, &city.Name, &city.State, &city.Country); err != nil {
			return nil, fmt.Errorf("scan city row: %w", err)
		}
		cities = append(cities, city)
	}

	return cities, rows.Err()
}

func (r *catalogRepository) ListLanguages(ctx context.Context) ([]entity.Language, error) {
	query := `SELECT id, name FROM languages ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to list languages", zap.Error(err))
		return nil, fmt.Errorf("list languages: %w", err)
	}
	defer rows.Close()

	var languages []entity.Language
	for rows.Next() {
		var language entity.Language
		if err := rows.Scan(&language.ID, &language.Name); err != nil {
			return nil, fmt.Errorf("scan language row: %w", err)
		}
		languages = append(languages, language)
	}

	return languages, rows.Err()
}

func (r *catalogRepository) ListFormats(ctx context.Context) ([]entity.Format, error) {
	query := `SELECT id, name FROM formats ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to list formats", zap.Error(err))
		return nil, fmt.Errorf("list formats: %w", err)
	}
	defer rows.Close()

	var formats []entity.Format
	for rows.Next() {
		var format entity.Format
		if err := rows.Scan(&format.ID, &format.Name); err != nil {
			return nil, fmt.Errorf("scan format row: %w", err)
		}
		formats = append(formats, format)
	}

	return formats, rows.Err()
}

func (r *catalogRepository) ListMovies(ctx context.Context) ([]entity.Movie, error) {
	query := `
		SELECT id, title, language_id, duration_min, genre, release_date, rating
		FROM movies
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to list movies", zap.Error(err))
		return nil, fmt.Errorf("list movies: %w", err)
	}
	defer rows.Close()

	var movies []entity.Movie
	for rows.Next() {
		var movie entity.Movie
		if err := rows.Scan(
			&movie.ID,
			&movie.Title,
			&movie.LanguageID,
			&movie.DurationMin,
			&movie.Genre,
			&movie.ReleaseDate,
			&movie.Rating,
		); err != nil {
			return nil, fmt.Errorf("scan movie row: %w", err)
		}
		movies = append(movies, movie)
	}

	return movies, rows.Err()
}

func (r *catalogRepository) ListTheatres(ctx context.Context) ([]entity.Theatre, error) {
	query := `SELECT id, name, address, city_id, contact FROM theatres ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to list theatres", zap.Error(err))
		return nil, fmt.Errorf("list theatres: %w", err)
	}
	defer rows.Close()

	var theatres []entity.Theatre
	for rows.Next() {
		var theatre entity.Theatre
		if err := rows.Scan(
			&theatre.ID,
			&theatre.Name,
			&theatre.Address,
			&theatre.CityID,
			&theatre.Contact,
		); err != nil {
			return nil, fmt.Errorf("scan theatre row: %w", err)
		}
		theatres = append(theatres, theatre)
	}

	return theatres, rows.Err()
}

func (r *catalogRepository) ListScreens(ctx context.Context) ([]entity.Screen, error) {
	query := `SELECT id, theatre_id, name, total_seats, format_id FROM screens ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to list screens", zap.Error(err))
		return nil, fmt.Errorf("list screens: %w", err)
	}
	defer rows.Close()

	var screens []entity.Screen
	for rows.Next() {
		var screen entity.Screen
		if err := rows.Scan(
			&screen.ID,
			&screen.TheatreID,
			&screen.Name,
			&screen.TotalSeats,
			&screen.FormatID,
		); err != nil {
			return nil, fmt.Errorf("scan screen row: %w", err)
		}
		screens = append(screens, screen)
	}

	return screens, rows.Err()
}

func (r *catalogRepository) ListShows(ctx context.Context) ([]entity.Show, error) {
	query := `
		SELECT id, movie_id, screen_id, language_id, format_id, run_start, run_end, price_cents
		FROM shows
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to list shows", zap.Error(err))
		return nil, fmt.Errorf("list shows: %w", err)
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

func (r *catalogRepository) ListTimings(ctx context.Context) ([]entity.ShowTiming, error) {
	query := `SELECT id, show_id, start_time, available_seats FROM show_timings ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to list timings", zap.Error(err))
		return nil, fmt.Errorf("list timings: %w", err)
	}
	defer rows.Close()

	var timings []entity.ShowTiming
	for rows.Next() {
		var timing entity.ShowTiming
		var startTime pgtype.Time
		if err := rows.Scan(
			&timing.ID,
			&timing.ShowID,
			&startTime,
			&timing.AvailableSeats,
		); err != nil {
			return nil, fmt.Errorf("scan timing row: %w", err)
		}
		timing.StartTime = entity.TimeOfDayFromMicroseconds(startTime.Microseconds)
		timings = append(timings, timing)
	}

	return timings, rows.Err()
}

func (r *catalogRepository) FindMovieByID(ctx context.Context, id int64) (*entity.Movie, error) {
	query := `
		SELECT id, title, language_id, duration_min, genre, release_date, rating
		FROM movies
		WHERE id = $1
	`

	var movie entity.Movie
	err := r.db.QueryRow(ctx, query, id).Scan(
		&movie.ID,
		&movie.Title,
		&movie.LanguageID,
		&movie.DurationMin,
		&movie.Genre,
		&movie.ReleaseDate,
		&movie.Rating,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find movie by ID", zap.Error(err), zap.Int64("movie_id", id))
		return nil, fmt.Errorf("find movie by ID %d: %w", id, err)
	}

	return &movie, nil
}

func (r *catalogRepository) FindTheatreByID(ctx context.Context, id int64) (*entity.Theatre, error) {
	query := `SELECT id, name, address, city_id, contact FROM theatres WHERE id = $1`

	var theatre entity.Theatre
	err := r.db.QueryRow(ctx, query, id).Scan(
		&theatre.ID,
		&theatre.Name,
		&theatre.Address,
		&theatre.CityID,
		&theatre.Contact,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find theatre by ID", zap.Error(err), zap.Int64("theatre_id", id))
		return nil, fmt.Errorf("find theatre by ID %d: %w", id, err)
	}

	return &theatre, nil
}

func (r *catalogRepository) FindScreenByID(ctx context.Context, id int64) (*entity.Screen, error) {
	query := `SELECT id, theatre_id, name, total_seats, format_id FROM screens WHERE id = $1`

	var screen entity.Screen
	err := r.db.QueryRow(ctx, query, id).Scan(
		&screen.ID,
		&screen.TheatreID,
		&screen.Name,
		&screen.TotalSeats,
		&screen.FormatID,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find screen by ID", zap.Error(err), zap.Int64("screen_id", id))
		return nil, fmt.Errorf("find screen by ID %d: %w", id, err)
	}

	return &screen, nil
}

func (r *catalogRepository) CityExists(ctx context.Context, id int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM cities WHERE id = $1)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		r.log.Error("Failed to check city", zap.Error(err), zap.Int64("city_id", id))
		return false, fmt.Errorf("check city %d: %w", id, err)
	}
	return exists, nil
}

func (r *catalogRepository) LanguageExists(ctx context.Context, id int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM languages WHERE id = $1)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		r.log.Error("Failed to check language", zap.Error(err), zap.Int64("language_id", id))
		return false, fmt.Errorf("check language %d: %w", id, err)
	}
	return exists, nil
}

func (r *catalogRepository) FormatExists(ctx context.Context, id int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM formats WHERE id = $1)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		r.log.Error("Failed to check format", zap.Error(err), zap.Int64("format_id", id))
		return false, fmt.Errorf("check format %d: %w", id, err)
	}
	return exists, nil
}
