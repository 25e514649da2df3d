package jobs

import (
	"context"
	"time"

	"ticket-booking/internal/data/entity"
	"ticket-booking/internal/data/repository"
	"ticket-booking/internal/ledger"
	"ticket-booking/internal/usecase"
	"ticket-booking/pkg/utils"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

// Runner owns the background maintenance jobs: the hold sweep that
// expires overdue reservations and the ledger audit that cross-checks
// in-memory balances against the persisted journal.
type Runner struct {
	scheduler  gocron.Scheduler
	booking    usecase.BookingService
	ledger     *ledger.Ledger
	ledgerRepo repository.LedgerRepository
	log        *zap.Logger

	sweepInterval time.Duration
	auditInterval time.Duration
}

func NewRunner(
	booking usecase.BookingService,
	ldg *ledger.Ledger,
	ledgerRepo repository.LedgerRepository,
	config *utils.Config,
	log *zap.Logger,
) (*Runner, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	return &Runner{
		scheduler:     scheduler,
		booking:       booking,
		ledger:        ldg,
		ledgerRepo:    ledgerRepo,
		log:           log.With(zap.String("component", "jobs")),
		sweepInterval: time.Duration(config.Jobs.SweepIntervalSeconds) * time.Second,
		auditInterval: time.Duration(config.Jobs.AuditIntervalMinutes) * time.Minute,
	}, nil
}

func (r *Runner) Start() error {
	if _, err := r.scheduler.NewJob(
		gocron.DurationJob(r.sweepInterval),
		gocron.NewTask(r.sweepHolds),
	); err != nil {
		return err
	}
	if _, err := r.scheduler.NewJob(
		gocron.DurationJob(r.auditInterval),
		gocron.NewTask(r.auditLedger),
	); err != nil {
		return err
	}

	r.scheduler.Start()
	r.log.Info("Maintenance jobs started",
		zap.Duration("sweep_interval", r.sweepInterval),
		zap.Duration("audit_interval", r.auditInterval),
	)
	return nil
}

// Stop shuts the scheduler down, waiting for running jobs to finish.
func (r *Runner) Stop() {
	if err := r.scheduler.Shutdown(); err != nil {
		r.log.Error("Failed to stop maintenance jobs", zap.Error(err))
	}
}

// sweepHolds is the backstop for the per-reservation timers: any hold
// whose deadline passed without its timer firing is expired here.
func (r *Runner) sweepHolds() {
	if expired := r.booking.ExpireOverdue(context.Background()); expired > 0 {
		r.log.Info("Hold sweep expired reservations", zap.Int("count", expired))
	}
}

// auditLedger compares every in-memory balance with the journal's last
// persisted entry. A timing whose journal has caught up (same seq) but
// disagrees on the balance is frozen, as is any balance outside
// [0, capacity] and any journal ahead of memory. A lagging journal is
// not a fault; the next run sees it again.
func (r *Runner) auditLedger() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	entries, err := r.ledgerRepo.LatestByTiming(ctx)
	if err != nil {
		r.log.Error("Failed to load journal positions for audit", zap.Error(err))
		return
	}
	persisted := make(map[int64]entity.LedgerEntry, len(entries))
	for _, entry := range entries {
		persisted[entry.TimingID] = entry
	}

	frozen := 0
	for timingID, state := range r.ledger.Snapshot() {
		if state.Frozen {
			continue
		}
		if state.Available < 0 || state.Available > state.Capacity {
			r.freeze(timingID, "balance out of range", state, nil)
			frozen++
			continue
		}

		entry, ok := persisted[timingID]
		if !ok {
			// Nothing journaled yet for a fresh registration.
			continue
		}
		switch {
		case entry.Seq < state.Seq:
			// Journal still catching up.
		case entry.Seq == state.Seq:
			if entry.Balance != state.Available {
				r.freeze(timingID, "journal balance mismatch", state, &entry)
				frozen++
			}
		default:
			// Journal ahead of memory: mutations this process never saw.
			r.freeze(timingID, "journal ahead of memory", state, &entry)
			frozen++
		}
	}

	if frozen > 0 {
		r.log.Error("Ledger audit froze timings", zap.Int("count", frozen))
	}
}

func (r *Runner) freeze(timingID int64, reason string, state ledger.CellState, entry *entity.LedgerEntry) {
	fields := []zap.Field{
		zap.Int64("timing_id", timingID),
		zap.String("reason", reason),
		zap.Int("available", state.Available),
		zap.Int("capacity", state.Capacity),
		zap.Int64("seq", state.Seq),
	}
	if entry != nil {
		fields = append(fields,
			zap.Int("journal_balance", entry.Balance),
			zap.Int64("journal_seq", entry.Seq),
		)
	}
	r.log.Error("Ledger audit failed for timing", fields...)

	if err := r.ledger.Freeze(timingID); err != nil {
		r.log.Error("Failed to freeze timing", zap.Int64("timing_id", timingID), zap.Error(err))
	}
}
