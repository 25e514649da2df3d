package entity

type Screen struct {
	ID         int64  `db:"id"`
	TheatreID  int64  `db:"theatre_id"`
	Name       string `db:"name"` // Screen 1, Screen 2, etc.
	TotalSeats int    `db:"total_seats"`
	FormatID   int64  `db:"format_id"`
}
