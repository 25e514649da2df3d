package entity

import (
	"time"
)

type Movie struct {
	ID          int64     `db:"id"`
	Title       string    `db:"title"`
	LanguageID  int64     `db:"language_id"`
	DurationMin int       `db:"duration_min"`
	Genre       string    `db:"genre"`
	ReleaseDate time.Time `db:"release_date"`
	Rating      float64   `db:"rating"`
}
