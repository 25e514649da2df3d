// main.go
package main

import (
	"context"
	"log"

	"ticket-booking/cmd"
	"ticket-booking/internal/clock"
	"ticket-booking/internal/data/repository"
	"ticket-booking/internal/events"
	"ticket-booking/internal/jobs"
	"ticket-booking/internal/ledger"
	"ticket-booking/internal/wire"
	"ticket-booking/pkg/cache"
	"ticket-booking/pkg/database"
	"ticket-booking/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	logger.Info("Database connected successfully")

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// Journal first, then the in-memory ledger it records for. Stored
	// timings are re-registered so balances and journal numbering carry
	// across the restart.
	journal := ledger.NewJournal(repos.Ledger, logger)
	ldg := ledger.New(journal, clock.Real(), logger)
	if err := restoreLedger(context.Background(), repos, ldg); err != nil {
		logger.Fatal("Failed to restore ledger", zap.Error(err))
	}

	// Lifecycle event publisher and listing cache; both degrade to
	// no-ops when unconfigured.
	publisher := events.InitPublisher(config.Events, logger)
	listingCache := cache.InitCache(config.Cache, logger)

	// Wire all dependencies
	app := wire.Wiring(repos, ldg, listingCache, publisher, clock.Real(), config, logger)

	// Re-arm hold timers persisted before the last shutdown
	if err := app.Service.Booking.Restore(context.Background()); err != nil {
		logger.Fatal("Failed to restore held reservations", zap.Error(err))
	}

	// Background maintenance: hold sweep and ledger audit
	runner, err := jobs.NewRunner(app.Service.Booking, ldg, repos.Ledger, config, logger)
	if err != nil {
		logger.Fatal("Failed to build maintenance jobs", zap.Error(err))
	}
	if err := runner.Start(); err != nil {
		logger.Fatal("Failed to start maintenance jobs", zap.Error(err))
	}

	cmd.APIServer(app.Router, config.App.Port, logger,
		runner.Stop,
		journal.Close,
		publisher.Close,
		db.Close,
	)
}

// restoreLedger seeds the in-memory ledger from the stored catalog: one
// cell per timing, balance from the persisted counter, journal sequence
// from the last recorded entry.
func restoreLedger(ctx context.Context, repos *repository.Repository, ldg *ledger.Ledger) error {
	seeds, err := repos.Timing.ListForLedger(ctx)
	if err != nil {
		return err
	}
	entries, err := repos.Ledger.LatestByTiming(ctx)
	if err != nil {
		return err
	}
	latest := make(map[int64]int64, len(entries))
	for _, entry := range entries {
		latest[entry.TimingID] = entry.Seq
	}

	for _, seed := range seeds {
		if err := ldg.Restore(seed.TimingID, seed.AvailableSeats, seed.Capacity, latest[seed.TimingID]); err != nil {
			return err
		}
	}
	return nil
}
