package ledger

import (
	"sync"

	"ticket-booking/internal/data/entity"
)

// MemorySink buffers journal entries in memory. Tests use it to assert
// on journal output without a database.
type MemorySink struct {
	mu      sync.Mutex
	entries []entity.LedgerEntry
}

func (s *MemorySink) Append(entry entity.LedgerEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
}

// Entries returns a copy of everything appended so far.
func (s *MemorySink) Entries() []entity.LedgerEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.LedgerEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// ForTiming returns the entries recorded for one timing, in append order.
func (s *MemorySink) ForTiming(timingID int64) []entity.LedgerEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.LedgerEntry
	for _, e := range s.entries {
		if e.TimingID == timingID {
			out = append(out, e)
		}
	}
	return out
}
