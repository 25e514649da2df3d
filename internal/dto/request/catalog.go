package request

// CatalogImportRequest is the bulk snapshot payload. Ids are external:
// the importer owns them, re-imports upsert by id. Dates are YYYY-MM-DD,
// times of day are HH:MM:SS, prices are decimal strings like "250.00".
type CatalogImportRequest struct {
	Cities    []CityPayload     `json:"cities" validate:"omitempty,dive"`
	Languages []LanguagePayload `json:"languages" validate:"omitempty,dive"`
	Formats   []FormatPayload   `json:"formats" validate:"omitempty,dive"`
	Movies    []MoviePayload    `json:"movies" validate:"omitempty,dive"`
	Theatres  []TheatrePayload  `json:"theatres" validate:"omitempty,dive"`
	Screens   []ScreenPayload   `json:"screens" validate:"omitempty,dive"`
	Shows     []ShowPayload     `json:"shows" validate:"omitempty,dive"`
}

type CityPayload struct {
	ID      int64  `json:"id" validate:"required,gt=0"`
	Name    string `json:"name" validate:"required,min=1,max=100"`
	State   string `json:"state" validate:"required,min=1,max=100"`
	Country string `json:"country" validate:"required,min=1,max=100"`
}

type LanguagePayload struct {
	ID   int64  `json:"id" validate:"required,gt=0"`
	Name string `json:"name" validate:"required,min=1,max=50"`
}

type FormatPayload struct {
	ID   int64  `json:"id" validate:"required,gt=0"`
	Name string `json:"name" validate:"required,min=1,max=50"`
}

type MoviePayload struct {
	ID          int64   `json:"id" validate:"required,gt=0"`
	Title       string  `json:"title" validate:"required,min=1,max=200"`
	LanguageID  int64   `json:"language_id" validate:"required,gt=0"`
	DurationMin int     `json:"duration_min" validate:"required,min=1,max=999"`
	Genre       string  `json:"genre" validate:"required,min=1,max=100"`
	ReleaseDate string  `json:"release_date" validate:"required,datetime=2006-01-02"`
	Rating      float64 `json:"rating" validate:"gte=0,lte=10"`
}

type TheatrePayload struct {
	ID      int64  `json:"id" validate:"required,gt=0"`
	Name    string `json:"name" validate:"required,min=1,max=200"`
	Address string `json:"address" validate:"required"`
	CityID  int64  `json:"city_id" validate:"required,gt=0"`
	Contact string `json:"contact" validate:"omitempty,max=50"`
}

type ScreenPayload struct {
	ID         int64  `json:"id" validate:"required,gt=0"`
	TheatreID  int64  `json:"theatre_id" validate:"required,gt=0"`
	Name       string `json:"name" validate:"required,min=1,max=100"`
	TotalSeats int    `json:"total_seats" validate:"required,gt=0"`
	FormatID   int64  `json:"format_id" validate:"required,gt=0"`
}

type ShowPayload struct {
	ID         int64           `json:"id" validate:"required,gt=0"`
	MovieID    int64           `json:"movie_id" validate:"required,gt=0"`
	ScreenID   int64           `json:"screen_id" validate:"required,gt=0"`
	LanguageID int64           `json:"language_id" validate:"required,gt=0"`
	FormatID   int64           `json:"format_id" validate:"required,gt=0"`
	RunStart   string          `json:"run_start" validate:"required,datetime=2006-01-02"`
	RunEnd     string          `json:"run_end" validate:"required,datetime=2006-01-02"`
	Price      string          `json:"price" validate:"required"`
	Timings    []TimingPayload `json:"timings" validate:"required,min=1,dive"`
}

type TimingPayload struct {
	ID             int64  `json:"id" validate:"required,gt=0"`
	StartTime      string `json:"start_time" validate:"required,datetime=15:04:05"`
	AvailableSeats int    `json:"available_seats" validate:"gte=0"`
}

// ScheduleShowRequest creates one show and its timings. Unlike import,
// ids are generated by the server.
type ScheduleShowRequest struct {
	MovieID    int64                   `json:"movie_id" validate:"required,gt=0"`
	ScreenID   int64                   `json:"screen_id" validate:"required,gt=0"`
	LanguageID int64                   `json:"language_id" validate:"required,gt=0"`
	FormatID   int64                   `json:"format_id" validate:"required,gt=0"`
	RunStart   string                  `json:"run_start" validate:"required,datetime=2006-01-02"`
	RunEnd     string                  `json:"run_end" validate:"required,datetime=2006-01-02"`
	Price      string                  `json:"price" validate:"required"`
	Timings    []ScheduleTimingRequest `json:"timings" validate:"required,min=1,dive"`
}

type ScheduleTimingRequest struct {
	StartTime string `json:"start_time" validate:"required,datetime=15:04:05"`
	// AvailableSeats defaults to the screen's capacity when omitted
	AvailableSeats *int `json:"available_seats,omitempty" validate:"omitempty,gte=0"`
}
