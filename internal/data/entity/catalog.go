package entity

// Catalog is the full catalog content moved by bulk import and export.
type Catalog struct {
	Cities    []City
	Languages []Language
	Formats   []Format
	Movies    []Movie
	Theatres  []Theatre
	Screens   []Screen
	Shows     []Show
	Timings   []ShowTiming
}
