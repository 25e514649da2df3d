package response

import (
	"ticket-booking/internal/data/entity"
	"ticket-booking/pkg/utils"
)

type CityResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	State   string `json:"state"`
	Country string `json:"country"`
}

type LanguageResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type FormatResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type MovieResponse struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	LanguageID  int64   `json:"language_id"`
	DurationMin int     `json:"duration_min"`
	Genre       string  `json:"genre"`
	ReleaseDate string  `json:"release_date"`
	Rating      float64 `json:"rating"`
}

type TheatreResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	CityID  int64  `json:"city_id"`
	Contact string `json:"contact"`
}

type ScreenResponse struct {
	ID         int64  `json:"id"`
	TheatreID  int64  `json:"theatre_id"`
	Name       string `json:"name"`
	TotalSeats int    `json:"total_seats"`
	FormatID   int64  `json:"format_id"`
}

type TimingResponse struct {
	ID             int64  `json:"id"`
	StartTime      string `json:"start_time"`
	AvailableSeats int    `json:"available_seats"`
}

type ShowResponse struct {
	ID         int64            `json:"id"`
	MovieID    int64            `json:"movie_id"`
	ScreenID   int64            `json:"screen_id"`
	LanguageID int64            `json:"language_id"`
	FormatID   int64            `json:"format_id"`
	RunStart   string           `json:"run_start"`
	RunEnd     string           `json:"run_end"`
	Price      string           `json:"price"`
	Timings    []TimingResponse `json:"timings"`
}

// CatalogImportResponse reports how many rows of each kind a snapshot
// import touched.
type CatalogImportResponse struct {
	Cities    int `json:"cities"`
	Languages int `json:"languages"`
	Formats   int `json:"formats"`
	Movies    int `json:"movies"`
	Theatres  int `json:"theatres"`
	Screens   int `json:"screens"`
	Shows     int `json:"shows"`
	Timings   int `json:"timings"`
}

// CatalogExportResponse mirrors the import payload so an export can be
// fed back into import unchanged.
type CatalogExportResponse struct {
	Cities    []CityResponse     `json:"cities"`
	Languages []LanguageResponse `json:"languages"`
	Formats   []FormatResponse   `json:"formats"`
	Movies    []MovieResponse    `json:"movies"`
	Theatres  []TheatreResponse  `json:"theatres"`
	Screens   []ScreenResponse   `json:"screens"`
	Shows     []ShowResponse     `json:"shows"`
}

// Helper converters

func MovieToResponse(movie *entity.Movie) MovieResponse {
	return MovieResponse{
		ID:          movie.ID,
		Title:       movie.Title,
		LanguageID:  movie.LanguageID,
		DurationMin: movie.DurationMin,
		Genre:       movie.Genre,
		ReleaseDate: utils.FormatDate(movie.ReleaseDate),
		Rating:      movie.Rating,
	}
}

func TimingToResponse(timing *entity.ShowTiming) TimingResponse {
	return TimingResponse{
		ID:             timing.ID,
		StartTime:      timing.StartTime.String(),
		AvailableSeats: timing.AvailableSeats,
	}
}

func ShowToResponse(show *entity.Show, timings []entity.ShowTiming) ShowResponse {
	resp := ShowResponse{
		ID:         show.ID,
		MovieID:    show.MovieID,
		ScreenID:   show.ScreenID,
		LanguageID: show.LanguageID,
		FormatID:   show.FormatID,
		RunStart:   utils.FormatDate(show.RunStart),
		RunEnd:     utils.FormatDate(show.RunEnd),
		Price:      utils.FormatPrice(show.PriceCents),
		Timings:    make([]TimingResponse, 0, len(timings)),
	}
	for i := range timings {
		resp.Timings = append(resp.Timings, TimingToResponse(&timings[i]))
	}
	return resp
}

// CatalogToExport renders the full catalog, grouping timings under their
// shows.
func CatalogToExport(catalog *entity.Catalog) *CatalogExportResponse {
	export := &CatalogExportResponse{
		Cities:    make([]CityResponse, 0, len(catalog.Cities)),
		Languages: make([]LanguageResponse, 0, len(catalog.Languages)),
		Formats:   make([]FormatResponse, 0, len(catalog.Formats)),
		Movies:    make([]MovieResponse, 0, len(catalog.Movies)),
		Theatres:  make([]TheatreResponse, 0, len(catalog.Theatres)),
		Screens:   make([]ScreenResponse, 0, len(catalog.Screens)),
		Shows:     make([]ShowResponse, 0, len(catalog.Shows)),
	}

	for _, city := range catalog.Cities {
		export.Cities = append(export.Cities, CityResponse(city))
	}
	for _, language := range catalog.Languages {
		export.Languages = append(export.Languages, LanguageResponse(language))
	}
	for _, format := range catalog.Formats {
		export.Formats = append(export.Formats, FormatResponse(format))
	}
	for i := range catalog.Movies {
		export.Movies = append(export.Movies, MovieToResponse(&catalog.Movies[i]))
	}
	for _, theatre := range catalog.Theatres {
		export.Theatres = append(export.Theatres, TheatreResponse(theatre))
	}
	for _, screen := range catalog.Screens {
		export.Screens = append(export.Screens, ScreenResponse(screen))
	}

	timingsByShow := make(map[int64][]entity.ShowTiming)
	for _, timing := range catalog.Timings {
		timingsByShow[timing.ShowID] = append(timingsByShow[timing.ShowID], timing)
	}
	for i := range catalog.Shows {
		show := &catalog.Shows[i]
		export.Shows = append(export.Shows, ShowToResponse(show, timingsByShow[show.ID]))
	}

	return export
}
