package usecase

import (
	"context"
	"fmt"
	"time"

	"ticket-booking/internal/data/entity"
	"ticket-booking/internal/data/repository"
	"ticket-booking/internal/dto/request"
	"ticket-booking/internal/dto/response"
	"ticket-booking/internal/ledger"
	"ticket-booking/pkg/utils"

	"go.uber.org/zap"
)

type CatalogService interface {
	// Admin endpoints
	Import(ctx context.Context, req *request.CatalogImportRequest) (*response.CatalogImportResponse, error)
	Export(ctx context.Context) (*response.CatalogExportResponse, error)
	ScheduleShow(ctx context.Context, req *request.ScheduleShowRequest) (*response.ShowResponse, error)
}

type catalogService struct {
	repo   *repository.Repository
	ledger *ledger.Ledger
	log    *zap.Logger
}

func NewCatalogService(repo *repository.Repository, ldg *ledger.Ledger, log *zap.Logger) CatalogService {
	return &catalogService{
		repo:   repo,
		ledger: ldg,
		log:    log.With(zap.String("service", "catalog")),
	}
}

// Import upserts a bulk snapshot. The snapshot must be internally
// consistent: every referenced id resolves inside the snapshot or in the
// stored catalog, seat counts fit their screens, and no show
// double-books a screen. All rows land in one transaction, then the
// imported timings are registered with the ledger.
func (s *catalogService) Import(ctx context.Context, req *request.CatalogImportRequest) (*response.CatalogImportResponse, error) {
	// Validate request
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Catalog import validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	catalog, err := s.buildSnapshot(req)
	if err != nil {
		return nil, err
	}

	idx := indexSnapshot(catalog)
	caps, err := s.checkSnapshotRefs(ctx, idx, catalog)
	if err != nil {
		return nil, err
	}
	if err := s.checkSnapshotConflicts(ctx, idx, catalog); err != nil {
		return nil, err
	}

	if err := s.repo.Catalog.ImportSnapshot(ctx, catalog); err != nil {
		s.log.Error("Failed to import catalog snapshot", zap.Error(err))
		return nil, fmt.Errorf("import catalog: %w", err)
	}

	if err := s.registerTimings(ctx, catalog.Timings, caps); err != nil {
		return nil, err
	}

	s.log.Info("Catalog snapshot imported",
		zap.Int("cities", len(catalog.Cities)),
		zap.Int("languages", len(catalog.Languages)),
		zap.Int("formats", len(catalog.Formats)),
		zap.Int("movies", len(catalog.Movies)),
		zap.Int("theatres", len(catalog.Theatres)),
		zap.Int("screens", len(catalog.Screens)),
		zap.Int("shows", len(catalog.Shows)),
		zap.Int("timings", len(catalog.Timings)),
	)

	return &response.CatalogImportResponse{
		Cities:    len(catalog.Cities),
		Languages: len(catalog.Languages),
		Formats:   len(catalog.Formats),
		Movies:    len(catalog.Movies),
		Theatres:  len(catalog.Theatres),
		Screens:   len(catalog.Screens),
		Shows:     len(catalog.Shows),
		Timings:   len(catalog.Timings),
	}, nil
}

// Export returns the full stored catalog. Timing balances are read
// through the ledger so the snapshot reflects seats held right now, not
// the possibly lagging persisted counters.
func (s *catalogService) Export(ctx context.Context) (*response.CatalogExportResponse, error) {
	catalog := &entity.Catalog{}
	var err error

	if catalog.Cities, err = s.repo.Catalog.ListCities(ctx); err != nil {
		return nil, fmt.Errorf("export cities: %w", err)
	}
	if catalog.Languages, err = s.repo.Catalog.ListLanguages(ctx); err != nil {
		return nil, fmt.Errorf("export languages: %w", err)
	}
	if catalog.Formats, err = s.repo.Catalog.ListFormats(ctx); err != nil {
		return nil, fmt.Errorf("export formats: %w", err)
	}
	if catalog.Movies, err = s.repo.Catalog.ListMovies(ctx); err != nil {
		return nil, fmt.Errorf("export movies: %w", err)
	}
	if catalog.Theatres, err = s.repo.Catalog.ListTheatres(ctx); err != nil {
		return nil, fmt.Errorf("export theatres: %w", err)
	}
	if catalog.Screens, err = s.repo.Catalog.ListScreens(ctx); err != nil {
		return nil, fmt.Errorf("export screens: %w", err)
	}
	if catalog.Shows, err = s.repo.Catalog.ListShows(ctx); err != nil {
		return nil, fmt.Errorf("export shows: %w", err)
	}
	if catalog.Timings, err = s.repo.Catalog.ListTimings(ctx); err != nil {
		return nil, fmt.Errorf("export timings: %w", err)
	}

	for i := range catalog.Timings {
		if available, err := s.ledger.Available(catalog.Timings[i].ID); err == nil {
			catalog.Timings[i].AvailableSeats = available
		}
	}

	s.log.Info("Catalog exported",
		zap.Int("shows", len(catalog.Shows)),
		zap.Int("timings", len(catalog.Timings)),
	)

	return response.CatalogToExport(catalog), nil
}

// ScheduleShow creates one show together with its timings. Ids come
// from the database; each timing defaults to the screen's full capacity
// unless the request says otherwise.
func (s *catalogService) ScheduleShow(ctx context.Context, req *request.ScheduleShowRequest) (*response.ShowResponse, error) {
	// Validate request
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Schedule show validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	runStart, err := utils.ParseDate(req.RunStart)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid run_start %q", ErrValidation, req.RunStart)
	}
	runEnd, err := utils.ParseDate(req.RunEnd)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid run_end %q", ErrValidation, req.RunEnd)
	}
	if runStart.After(runEnd) {
		return nil, fmt.Errorf("%w: run_start %s after run_end %s", ErrValidation, req.RunStart, req.RunEnd)
	}

	priceCents, err := utils.ParsePrice(req.Price)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid price %q", ErrValidation, req.Price)
	}
	if priceCents < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", ErrValidation)
	}

	// Resolve references against the stored catalog
	movie, err := s.repo.Catalog.FindMovieByID(ctx, req.MovieID)
	if err != nil {
		return nil, err
	}
	if movie == nil {
		return nil, fmt.Errorf("%w: movie %d", ErrNotFound, req.MovieID)
	}

	screen, err := s.repo.Catalog.FindScreenByID(ctx, req.ScreenID)
	if err != nil {
		return nil, err
	}
	if screen == nil {
		return nil, fmt.Errorf("%w: screen %d", ErrNotFound, req.ScreenID)
	}

	if exists, err := s.repo.Catalog.LanguageExists(ctx, req.LanguageID); err != nil {
		return nil, err
	} else if !exists {
		return nil, fmt.Errorf("%w: language %d", ErrNotFound, req.LanguageID)
	}
	if exists, err := s.repo.Catalog.FormatExists(ctx, req.FormatID); err != nil {
		return nil, err
	} else if !exists {
		return nil, fmt.Errorf("%w: format %d", ErrNotFound, req.FormatID)
	}

	timings := make([]*entity.ShowTiming, 0, len(req.Timings))
	seen := make(map[entity.TimeOfDay]bool, len(req.Timings))
	for _, tr := range req.Timings {
		start, err := entity.ParseTimeOfDay(tr.StartTime)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid start_time %q", ErrValidation, tr.StartTime)
		}
		if seen[start] {
			return nil, fmt.Errorf("%w: duplicate timing %s", ErrValidation, start)
		}
		seen[start] = true

		available := screen.TotalSeats
		if tr.AvailableSeats != nil {
			available = *tr.AvailableSeats
		}
		if available > screen.TotalSeats {
			return nil, fmt.Errorf("%w: available_seats %d exceeds screen capacity %d",
				ErrValidation, available, screen.TotalSeats)
		}

		timings = append(timings, &entity.ShowTiming{StartTime: start, AvailableSeats: available})
	}

	candidate := screenEngagement{
		runStart: runStart,
		runEnd:   runEnd,
		windows:  timingWindows(timings, movie.DurationMin),
	}
	if err := s.checkScreenConflict(ctx, req.ScreenID, candidate, nil, nil); err != nil {
		return nil, err
	}

	show := &entity.Show{
		MovieID:    req.MovieID,
		ScreenID:   req.ScreenID,
		LanguageID: req.LanguageID,
		FormatID:   req.FormatID,
		RunStart:   runStart,
		RunEnd:     runEnd,
		PriceCents: priceCents,
	}

	if err := s.repo.Show.CreateWithTimings(ctx, show, timings); err != nil {
		s.log.Error("Failed to schedule show",
			zap.Error(err),
			zap.Int64("movie_id", req.MovieID),
			zap.Int64("screen_id", req.ScreenID),
		)
		return nil, fmt.Errorf("schedule show: %w", err)
	}

	created := make([]entity.ShowTiming, 0, len(timings))
	for _, timing := range timings {
		if err := s.ledger.Register(timing.ID, timing.AvailableSeats, screen.TotalSeats); err != nil {
			return nil, fmt.Errorf("register timing %d: %w", timing.ID, err)
		}
		created = append(created, *timing)
	}

	s.log.Info("Show scheduled",
		zap.Int64("show_id", show.ID),
		zap.Int64("movie_id", show.MovieID),
		zap.Int64("screen_id", show.ScreenID),
		zap.Int("timings", len(created)),
	)

	resp := response.ShowToResponse(show, created)
	return &resp, nil
}

// ==================== SNAPSHOT VALIDATION ====================

// snapshotIndex gives the validation passes id-keyed access to the
// snapshot, with stored-catalog fallbacks memoized as they resolve.
type snapshotIndex struct {
	cities    map[int64]bool
	languages map[int64]bool
	formats   map[int64]bool
	theatres  map[int64]bool
	movies    map[int64]*entity.Movie
	screens   map[int64]*entity.Screen
	shows     map[int64]*entity.Show
}

func indexSnapshot(catalog *entity.Catalog) *snapshotIndex {
	idx := &snapshotIndex{
		cities:    make(map[int64]bool, len(catalog.Cities)),
		languages: make(map[int64]bool, len(catalog.Languages)),
		formats:   make(map[int64]bool, len(catalog.Formats)),
		theatres:  make(map[int64]bool, len(catalog.Theatres)),
		movies:    make(map[int64]*entity.Movie, len(catalog.Movies)),
		screens:   make(map[int64]*entity.Screen, len(catalog.Screens)),
		shows:     make(map[int64]*entity.Show, len(catalog.Shows)),
	}
	for _, city := range catalog.Cities {
		idx.cities[city.ID] = true
	}
	for _, language := range catalog.Languages {
		idx.languages[language.ID] = true
	}
	for _, format := range catalog.Formats {
		idx.formats[format.ID] = true
	}
	for _, theatre := range catalog.Theatres {
		idx.theatres[theatre.ID] = true
	}
	for i := range catalog.Movies {
		idx.movies[catalog.Movies[i].ID] = &catalog.Movies[i]
	}
	for i := range catalog.Screens {
		idx.screens[catalog.Screens[i].ID] = &catalog.Screens[i]
	}
	for i := range catalog.Shows {
		idx.shows[catalog.Shows[i].ID] = &catalog.Shows[i]
	}
	return idx
}

// buildSnapshot parses the wire payload into entities, rejecting
// duplicate ids, inverted run ranges and malformed prices or times.
func (s *catalogService) buildSnapshot(req *request.CatalogImportRequest) (*entity.Catalog, error) {
	catalog := &entity.Catalog{}

	seenIDs := make(map[string]bool)
	dup := func(kind string, id int64) error {
		key := fmt.Sprintf("%s/%d", kind, id)
		if seenIDs[key] {
			return fmt.Errorf("%w: duplicate %s id %d", ErrValidation, kind, id)
		}
		seenIDs[key] = true
		return nil
	}

	for _, p := range req.Cities {
		if err := dup("city", p.ID); err != nil {
			return nil, err
		}
		catalog.Cities = append(catalog.Cities, entity.City(p))
	}
	for _, p := range req.Languages {
		if err := dup("language", p.ID); err != nil {
			return nil, err
		}
		catalog.Languages = append(catalog.Languages, entity.Language(p))
	}
	for _, p := range req.Formats {
		if err := dup("format", p.ID); err != nil {
			return nil, err
		}
		catalog.Formats = append(catalog.Formats, entity.Format(p))
	}

	for _, p := range req.Movies {
		if err := dup("movie", p.ID); err != nil {
			return nil, err
		}
		released, err := utils.ParseDate(p.ReleaseDate)
		if err != nil {
			return nil, fmt.Errorf("%w: movie %d: invalid release_date %q", ErrValidation, p.ID, p.ReleaseDate)
		}
		catalog.Movies = append(catalog.Movies, entity.Movie{
			ID:          p.ID,
			Title:       p.Title,
			LanguageID:  p.LanguageID,
			DurationMin: p.DurationMin,
			Genre:       p.Genre,
			ReleaseDate: released,
			Rating:      p.Rating,
		})
	}

	for _, p := range req.Theatres {
		if err := dup("theatre", p.ID); err != nil {
			return nil, err
		}
		catalog.Theatres = append(catalog.Theatres, entity.Theatre(p))
	}
	for _, p := range req.Screens {
		if err := dup("screen", p.ID); err != nil {
			return nil, err
		}
		catalog.Screens = append(catalog.Screens, entity.Screen(p))
	}

	for _, p := range req.Shows {
		if err := dup("show", p.ID); err != nil {
			return nil, err
		}
		runStart, err := utils.ParseDate(p.RunStart)
		if err != nil {
			return nil, fmt.Errorf("%w: show %d: invalid run_start %q", ErrValidation, p.ID, p.RunStart)
		}
		runEnd, err := utils.ParseDate(p.RunEnd)
		if err != nil {
			return nil, fmt.Errorf("%w: show %d: invalid run_end %q", ErrValidation, p.ID, p.RunEnd)
		}
		if runStart.After(runEnd) {
			return nil, fmt.Errorf("%w: show %d: run_start %s after run_end %s", ErrValidation, p.ID, p.RunStart, p.RunEnd)
		}
		priceCents, err := utils.ParsePrice(p.Price)
		if err != nil {
			return nil, fmt.Errorf("%w: show %d: invalid price %q", ErrValidation, p.ID, p.Price)
		}
		if priceCents < 0 {
			return nil, fmt.Errorf("%w: show %d: price must not be negative", ErrValidation, p.ID)
		}
		catalog.Shows = append(catalog.Shows, entity.Show{
			ID:         p.ID,
			MovieID:    p.MovieID,
			ScreenID:   p.ScreenID,
			LanguageID: p.LanguageID,
			FormatID:   p.FormatID,
			RunStart:   runStart,
			RunEnd:     runEnd,
			PriceCents: priceCents,
		})

		for _, tp := range p.Timings {
			if err := dup("timing", tp.ID); err != nil {
				return nil, err
			}
			start, err := entity.ParseTimeOfDay(tp.StartTime)
			if err != nil {
				return nil, fmt.Errorf("%w: timing %d: invalid start_time %q", ErrValidation, tp.ID, tp.StartTime)
			}
			catalog.Timings = append(catalog.Timings, entity.ShowTiming{
				ID:             tp.ID,
				ShowID:         p.ID,
				StartTime:      start,
				AvailableSeats: tp.AvailableSeats,
			})
		}
	}

	return catalog, nil
}

// checkSnapshotRefs verifies every cross-entity reference and each
// timing's fit within its screen. Returns the capacity per timing id for
// ledger registration.
func (s *catalogService) checkSnapshotRefs(ctx context.Context, idx *snapshotIndex, catalog *entity.Catalog) (map[int64]int, error) {
	for i := range catalog.Movies {
		movie := &catalog.Movies[i]
		if ok, err := s.languageKnown(ctx, idx, movie.LanguageID); err != nil {
			return nil, err
		} else if !ok {
			return nil, fmt.Errorf("%w: movie %d references unknown language %d", ErrValidation, movie.ID, movie.LanguageID)
		}
	}

	for i := range catalog.Theatres {
		theatre := &catalog.Theatres[i]
		if ok, err := s.cityKnown(ctx, idx, theatre.CityID); err != nil {
			return nil, err
		} else if !ok {
			return nil, fmt.Errorf("%w: theatre %d references unknown city %d", ErrValidation, theatre.ID, theatre.CityID)
		}
	}

	for i := range catalog.Screens {
		screen := &catalog.Screens[i]
		if ok, err := s.theatreKnown(ctx, idx, screen.TheatreID); err != nil {
			return nil, err
		} else if !ok {
			return nil, fmt.Errorf("%w: screen %d references unknown theatre %d", ErrValidation, screen.ID, screen.TheatreID)
		}
		if ok, err := s.formatKnown(ctx, idx, screen.FormatID); err != nil {
			return nil, err
		} else if !ok {
			return nil, fmt.Errorf("%w: screen %d references unknown format %d", ErrValidation, screen.ID, screen.FormatID)
		}
	}

	for i := range catalog.Shows {
		show := &catalog.Shows[i]
		if movie, err := s.resolveMovie(ctx, idx, show.MovieID); err != nil {
			return nil, err
		} else if movie == nil {
			return nil, fmt.Errorf("%w: show %d references unknown movie %d", ErrValidation, show.ID, show.MovieID)
		}
		if screen, err := s.resolveScreen(ctx, idx, show.ScreenID); err != nil {
			return nil, err
		} else if screen == nil {
			return nil, fmt.Errorf("%w: show %d references unknown screen %d", ErrValidation, show.ID, show.ScreenID)
		}
		if ok, err := s.languageKnown(ctx, idx, show.LanguageID); err != nil {
			return nil, err
		} else if !ok {
			return nil, fmt.Errorf("%w: show %d references unknown language %d", ErrValidation, show.ID, show.LanguageID)
		}
		if ok, err := s.formatKnown(ctx, idx, show.FormatID); err != nil {
			return nil, err
		} else if !ok {
			return nil, fmt.Errorf("%w: show %d references unknown format %d", ErrValidation, show.ID, show.FormatID)
		}
	}

	caps := make(map[int64]int, len(catalog.Timings))
	for i := range catalog.Timings {
		timing := &catalog.Timings[i]
		show := idx.shows[timing.ShowID]
		screen, err := s.resolveScreen(ctx, idx, show.ScreenID)
		if err != nil {
			return nil, err
		}
		if timing.AvailableSeats > screen.TotalSeats {
			return nil, fmt.Errorf("%w: timing %d: available_seats %d exceeds screen capacity %d",
				ErrValidation, timing.ID, timing.AvailableSeats, screen.TotalSeats)
		}
		caps[timing.ID] = screen.TotalSeats
	}

	return caps, nil
}

// checkSnapshotConflicts rejects any snapshot show that double-books a
// screen, either against another snapshot show or against a stored show
// the snapshot does not replace.
func (s *catalogService) checkSnapshotConflicts(ctx context.Context, idx *snapshotIndex, catalog *entity.Catalog) error {
	timingsByShow := make(map[int64][]*entity.ShowTiming)
	for i := range catalog.Timings {
		timing := &catalog.Timings[i]
		timingsByShow[timing.ShowID] = append(timingsByShow[timing.ShowID], timing)
	}

	byScreen := make(map[int64][]screenEngagement)
	for i := range catalog.Shows {
		show := &catalog.Shows[i]
		movie, err := s.resolveMovie(ctx, idx, show.MovieID)
		if err != nil {
			return err
		}
		byScreen[show.ScreenID] = append(byScreen[show.ScreenID], screenEngagement{
			showID:   show.ID,
			runStart: show.RunStart,
			runEnd:   show.RunEnd,
			windows:  timingWindows(timingsByShow[show.ID], movie.DurationMin),
		})
	}

	for screenID, engagements := range byScreen {
		for i := 0; i < len(engagements); i++ {
			for j := i + 1; j < len(engagements); j++ {
				if engagements[i].conflictsWith(engagements[j]) {
					return fmt.Errorf("%w: shows %d and %d double-book screen %d",
						ErrScreenConflict, engagements[i].showID, engagements[j].showID, screenID)
				}
			}
		}
		for _, engagement := range engagements {
			if err := s.checkScreenConflict(ctx, screenID, engagement, idx.shows, idx); err != nil {
				return err
			}
		}
	}

	return nil
}

// checkScreenConflict tests one engagement against the shows already
// stored for the screen. Shows in replaced (being re-imported by id) are
// skipped; their snapshot versions were checked pairwise already.
func (s *catalogService) checkScreenConflict(ctx context.Context, screenID int64, candidate screenEngagement, replaced map[int64]*entity.Show, idx *snapshotIndex) error {
	stored, err := s.repo.Show.ListByScreen(ctx, screenID)
	if err != nil {
		return err
	}

	for i := range stored {
		other := &stored[i]
		if other.ID == candidate.showID {
			continue
		}
		if _, ok := replaced[other.ID]; ok {
			continue
		}
		// Cheap date-range rejection before loading timings.
		if candidate.runStart.After(other.RunEnd) || other.RunStart.After(candidate.runEnd) {
			continue
		}

		var movie *entity.Movie
		if idx != nil {
			movie, err = s.resolveMovie(ctx, idx, other.MovieID)
		} else {
			movie, err = s.repo.Catalog.FindMovieByID(ctx, other.MovieID)
		}
		if err != nil {
			return err
		}
		if movie == nil {
			continue
		}

		timings, err := s.repo.Show.ListTimingsByShow(ctx, other.ID)
		if err != nil {
			return err
		}
		pointers := make([]*entity.ShowTiming, len(timings))
		for j := range timings {
			pointers[j] = &timings[j]
		}

		engagement := screenEngagement{
			showID:   other.ID,
			runStart: other.RunStart,
			runEnd:   other.RunEnd,
			windows:  timingWindows(pointers, movie.DurationMin),
		}
		if candidate.conflictsWith(engagement) {
			return fmt.Errorf("%w: show %d already books screen %d in that slot",
				ErrScreenConflict, other.ID, screenID)
		}
	}

	return nil
}

func (s *catalogService) registerTimings(ctx context.Context, timings []entity.ShowTiming, caps map[int64]int) error {
	latest := make(map[int64]int64)
	entries, err := s.repo.Ledger.LatestByTiming(ctx)
	if err != nil {
		return fmt.Errorf("load journal positions: %w", err)
	}
	for _, entry := range entries {
		latest[entry.TimingID] = entry.Seq
	}

	for i := range timings {
		timing := &timings[i]
		if err := s.ledger.Restore(timing.ID, timing.AvailableSeats, caps[timing.ID], latest[timing.ID]); err != nil {
			return fmt.Errorf("register timing %d: %w", timing.ID, err)
		}
	}
	return nil
}

// ==================== REFERENCE RESOLUTION ====================

// Lookups prefer the snapshot; misses fall through to the stored catalog
// and memoize, so re-referenced ids cost one query at most.

func (s *catalogService) cityKnown(ctx context.Context, idx *snapshotIndex, id int64) (bool, error) {
	if idx.cities[id] {
		return true, nil
	}
	exists, err := s.repo.Catalog.CityExists(ctx, id)
	if err != nil {
		return false, err
	}
	if exists {
		idx.cities[id] = true
	}
	return exists, nil
}

func (s *catalogService) languageKnown(ctx context.Context, idx *snapshotIndex, id int64) (bool, error) {
	if idx.languages[id] {
		return true, nil
	}
	exists, err := s.repo.Catalog.LanguageExists(ctx, id)
	if err != nil {
		return false, err
	}
	if exists {
		idx.languages[id] = true
	}
	return exists, nil
}

func (s *catalogService) formatKnown(ctx context.Context, idx *snapshotIndex, id int64) (bool, error) {
	if idx.formats[id] {
		return true, nil
	}
	exists, err := s.repo.Catalog.FormatExists(ctx, id)
	if err != nil {
		return false, err
	}
	if exists {
		idx.formats[id] = true
	}
	return exists, nil
}

func (s *catalogService) theatreKnown(ctx context.Context, idx *snapshotIndex, id int64) (bool, error) {
	if idx.theatres[id] {
		return true, nil
	}
	theatre, err := s.repo.Catalog.FindTheatreByID(ctx, id)
	if err != nil {
		return false, err
	}
	if theatre != nil {
		idx.theatres[id] = true
	}
	return theatre != nil, nil
}

func (s *catalogService) resolveMovie(ctx context.Context, idx *snapshotIndex, id int64) (*entity.Movie, error) {
	if movie, ok := idx.movies[id]; ok {
		return movie, nil
	}
	movie, err := s.repo.Catalog.FindMovieByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if movie != nil {
		idx.movies[id] = movie
	}
	return movie, nil
}

func (s *catalogService) resolveScreen(ctx context.Context, idx *snapshotIndex, id int64) (*entity.Screen, error) {
	if screen, ok := idx.screens[id]; ok {
		return screen, nil
	}
	screen, err := s.repo.Catalog.FindScreenByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if screen != nil {
		idx.screens[id] = screen
	}
	return screen, nil
}

// ==================== SCREEN OCCUPANCY ====================

// screenEngagement is one show's claim on a screen: the run-date range
// plus the time windows its screenings occupy on each day of the run.
type screenEngagement struct {
	showID   int64
	runStart time.Time
	runEnd   time.Time
	windows  []timingWindow
}

type timingWindow struct {
	start entity.TimeOfDay
	end   entity.TimeOfDay
}

// conflictsWith reports whether the two engagements would put the screen
// in use twice at once: overlapping run-date ranges and at least one
// pair of clashing daily windows.
func (e screenEngagement) conflictsWith(other screenEngagement) bool {
	if e.runStart.After(other.runEnd) || other.runStart.After(e.runEnd) {
		return false
	}
	for _, w := range e.windows {
		for _, o := range other.windows {
			if w.start < o.end && o.start < w.end {
				return true
			}
		}
	}
	return false
}

// timingWindows converts timings into occupied windows, each spanning
// the movie's running time from its start.
func timingWindows(timings []*entity.ShowTiming, durationMin int) []timingWindow {
	windows := make([]timingWindow, 0, len(timings))
	for _, timing := range timings {
		windows = append(windows, timingWindow{
			start: timing.StartTime,
			end:   timing.StartTime.Add(time.Duration(durationMin) * time.Minute),
		})
	}
	return windows
}
