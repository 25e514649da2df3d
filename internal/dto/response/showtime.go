package response

// ShowtimeResponse is one bookable timing in a theatre listing.
type ShowtimeResponse struct {
	TimingID       int64  `json:"timing_id"`
	ShowID         int64  `json:"show_id"`
	MovieID        int64  `json:"movie_id"`
	MovieTitle     string `json:"movie_title"`
	Language       string `json:"language"`
	Format         string `json:"format"`
	ScreenID       int64  `json:"screen_id"`
	ScreenName     string `json:"screen_name"`
	Date           string `json:"date"`
	StartTime      string `json:"start_time"`
	Price          string `json:"price"`
	AvailableSeats int    `json:"available_seats"`
}

type TheatreShowsResponse struct {
	TheatreID   int64              `json:"theatre_id"`
	TheatreName string             `json:"theatre_name"`
	Date        string             `json:"date"`
	Consistency string             `json:"consistency"`
	Shows       []ShowtimeResponse `json:"shows"`
}

type TimingAvailabilityResponse struct {
	TimingID       int64 `json:"timing_id"`
	AvailableSeats int   `json:"available_seats"`
	Capacity       int   `json:"capacity"`
	Frozen         bool  `json:"frozen"`
}
