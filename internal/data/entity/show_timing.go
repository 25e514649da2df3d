package entity

type ShowTiming struct {
	ID             int64     `db:"id"`
	ShowID         int64     `db:"show_id"`
	StartTime      TimeOfDay `db:"start_time"`
	AvailableSeats int       `db:"available_seats"`
}
