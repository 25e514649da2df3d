package ledger

import (
	"fmt"
	"sync"

	"ticket-booking/internal/clock"
	"ticket-booking/internal/data/entity"

	"go.uber.org/zap"
)

// Sink receives one journal entry for every successful mutation. Appends
// happen after the per-timing lock is released, so a slow sink never
// stalls concurrent bookings on other timings.
type Sink interface {
	Append(entry entity.LedgerEntry)
}

// Ledger is the authoritative seat-availability state: one guarded
// counter per show timing. Counters move only through Reserve and
// Release, each a single atomic check-and-apply under that timing's own
// lock. The outer map lock is never held during a counter mutation.
type Ledger struct {
	mu    sync.RWMutex
	cells map[int64]*cell
	sink  Sink
	clock clock.Clock
	log   *zap.Logger
}

type cell struct {
	mu        sync.Mutex
	available int
	capacity  int
	frozen    bool
	seq       int64
}

// CellState is a point-in-time view of one timing's counter. Seq is the
// journal sequence of the last applied mutation.
type CellState struct {
	Available int
	Capacity  int
	Frozen    bool
	Seq       int64
}

func New(sink Sink, clk clock.Clock, log *zap.Logger) *Ledger {
	return &Ledger{
		cells: make(map[int64]*cell),
		sink:  sink,
		clock: clk,
		log:   log.With(zap.String("component", "ledger")),
	}
}

// Register installs the counter for a freshly created timing; its
// journal numbering starts at 1.
func (l *Ledger) Register(timingID int64, available, capacity int) error {
	return l.Restore(timingID, available, capacity, 0)
}

// Restore installs the counter for a timing whose journal already holds
// entries up to seq, so later entries keep the numbering gapless and
// monotonic. It replaces any existing cell; a re-import is the
// operator's remediation path for a frozen timing, so replacement also
// clears the frozen flag.
func (l *Ledger) Restore(timingID int64, available, capacity int, seq int64) error {
	if capacity <= 0 {
		return fmt.Errorf("register timing %d: capacity must be positive, got %d", timingID, capacity)
	}
	if available < 0 || available > capacity {
		return fmt.Errorf("register timing %d: available %d out of range [0, %d]", timingID, available, capacity)
	}

	l.mu.Lock()
	if old, ok := l.cells[timingID]; ok {
		// Entries may still be in flight from the previous cell; never
		// step the numbering backwards.
		old.mu.Lock()
		if old.seq > seq {
			seq = old.seq
		}
		old.mu.Unlock()
	}
	l.cells[timingID] = &cell{available: available, capacity: capacity, seq: seq}
	l.mu.Unlock()
	return nil
}

// Reserve takes count seats from a timing. It either fully succeeds and
// returns the new balance, or fails leaving the counter untouched.
func (l *Ledger) Reserve(timingID int64, count int) (int, error) {
	if count <= 0 {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidCount, count)
	}
	c, err := l.cell(timingID)
	if err != nil {
		return 0, err
	}

	c.mu.Lock()
	if c.frozen {
		c.mu.Unlock()
		return 0, ErrFrozen
	}
	if c.available < count {
		available := c.available
		c.mu.Unlock()
		return 0, fmt.Errorf("%w: requested %d, available %d", ErrInsufficientSeats, count, available)
	}
	c.available -= count
	entry := l.entryLocked(c, timingID, -count)
	c.mu.Unlock()

	l.append(entry)
	return entry.Balance, nil
}

// Release returns count seats to a timing. A release that would push the
// balance above capacity is a double release or an unbalanced mutation:
// the timing is frozen and the counter left as it was.
func (l *Ledger) Release(timingID int64, count int) (int, error) {
	if count <= 0 {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidCount, count)
	}
	c, err := l.cell(timingID)
	if err != nil {
		return 0, err
	}

	c.mu.Lock()
	if c.frozen {
		c.mu.Unlock()
		return 0, ErrFrozen
	}
	if c.available+count > c.capacity {
		c.frozen = true
		available, capacity := c.available, c.capacity
		c.mu.Unlock()
		l.log.Error("release exceeds capacity, timing frozen",
			zap.Int64("timing_id", timingID),
			zap.Int("available", available),
			zap.Int("count", count),
			zap.Int("capacity", capacity))
		return 0, fmt.Errorf("%w: release of %d on balance %d exceeds capacity %d",
			ErrCorrupted, count, available, capacity)
	}
	c.available += count
	entry := l.entryLocked(c, timingID, count)
	c.mu.Unlock()

	l.append(entry)
	return entry.Balance, nil
}

// Available returns the current balance for a timing.
func (l *Ledger) Available(timingID int64) (int, error) {
	state, err := l.State(timingID)
	if err != nil {
		return 0, err
	}
	return state.Available, nil
}

// State returns the full counter view for a timing, frozen flag included.
func (l *Ledger) State(timingID int64) (CellState, error) {
	c, err := l.cell(timingID)
	if err != nil {
		return CellState{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return CellState{Available: c.available, Capacity: c.capacity, Frozen: c.frozen, Seq: c.seq}, nil
}

// Freeze marks a timing as corrupted so every later mutation fails with
// ErrFrozen. Used by the audit job when persisted and in-memory balances
// disagree.
func (l *Ledger) Freeze(timingID int64) error {
	c, err := l.cell(timingID)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.frozen = true
	c.mu.Unlock()

	l.log.Error("timing frozen", zap.Int64("timing_id", timingID))
	return nil
}

// Snapshot returns the state of every registered timing.
func (l *Ledger) Snapshot() map[int64]CellState {
	l.mu.RLock()
	ids := make([]int64, 0, len(l.cells))
	for id := range l.cells {
		ids = append(ids, id)
	}
	l.mu.RUnlock()

	snapshot := make(map[int64]CellState, len(ids))
	for _, id := range ids {
		if state, err := l.State(id); err == nil {
			snapshot[id] = state
		}
	}
	return snapshot
}

func (l *Ledger) cell(timingID int64) (*cell, error) {
	l.mu.RLock()
	c, ok := l.cells[timingID]
	l.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: timing %d", ErrNotFound, timingID)
	}
	return c, nil
}

// entryLocked builds the journal entry for a mutation that just applied.
// Caller holds the cell lock; only counters and the clock are touched.
func (l *Ledger) entryLocked(c *cell, timingID int64, delta int) entity.LedgerEntry {
	c.seq++
	return entity.LedgerEntry{
		TimingID:   timingID,
		Seq:        c.seq,
		Delta:      delta,
		Balance:    c.available,
		RecordedAt: l.clock.Now(),
	}
}

func (l *Ledger) append(entry entity.LedgerEntry) {
	if l.sink == nil {
		return
	}
	l.sink.Append(entry)
}
