package ledger

import (
	"context"

	"ticket-booking/internal/data/entity"

	"go.uber.org/zap"
)

// Recorder persists one journal entry: insert the row and move the
// timing's stored balance forward.
type Recorder interface {
	Record(ctx context.Context, entry entity.LedgerEntry) error
}

// Journal is the durable Sink. Entries flow through a buffered channel
// to a single writer goroutine, so appenders only pay a channel send and
// database latency stays out of the booking path. Entries can arrive out
// of order when two timings mutate at once; per-timing Seq keeps the
// stored balance correct regardless.
type Journal struct {
	entries chan entity.LedgerEntry
	done    chan struct{}
	repo    Recorder
	log     *zap.Logger
}

const defaultJournalBuffer = 1024

func NewJournal(repo Recorder, log *zap.Logger) *Journal {
	j := &Journal{
		entries: make(chan entity.LedgerEntry, defaultJournalBuffer),
		done:    make(chan struct{}),
		repo:    repo,
		log:     log.With(zap.String("component", "journal")),
	}
	go j.run()
	return j
}

// Append enqueues an entry. Blocks only when the buffer is full, which
// applies backpressure instead of dropping audit history.
func (j *Journal) Append(entry entity.LedgerEntry) {
	j.entries <- entry
}

func (j *Journal) run() {
	defer close(j.done)

	ctx := context.Background()
	for entry := range j.entries {
		if err := j.repo.Record(ctx, entry); err != nil {
			j.log.Error("journal write failed",
				zap.Int64("timing_id", entry.TimingID),
				zap.Int64("seq", entry.Seq),
				zap.Int("delta", entry.Delta),
				zap.Error(err))
		}
	}
}

// Close stops accepting entries and waits for the writer to drain the
// buffer. Call only after all appenders have stopped.
func (j *Journal) Close() {
	close(j.entries)
	<-j.done
}
