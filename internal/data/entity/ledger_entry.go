package entity

import (
	"time"
)

// LedgerEntry is one immutable journal row for a seat-count mutation.
// Delta is negative for reservations, positive for releases; Balance is
// the timing's available seats after the mutation; Seq orders entries
// per timing (assigned by the in-memory ledger, gapless from 1).
type LedgerEntry struct {
	ID         int64     `db:"id"`
	TimingID   int64     `db:"timing_id"`
	Seq        int64     `db:"seq"`
	Delta      int       `db:"delta"`
	Balance    int       `db:"balance"`
	RecordedAt time.Time `db:"recorded_at"`
}
