package entity

import (
	"time"
)

// Show is a run of a movie on one screen over a date range. Individual
// start times live in ShowTiming rows.
type Show struct {
	ID         int64     `db:"id"`
	MovieID    int64     `db:"movie_id"`
	ScreenID   int64     `db:"screen_id"`
	LanguageID int64     `db:"language_id"`
	FormatID   int64     `db:"format_id"`
	RunStart   time.Time `db:"run_start"`
	RunEnd     time.Time `db:"run_end"`
	PriceCents int64     `db:"price_cents"`
}
