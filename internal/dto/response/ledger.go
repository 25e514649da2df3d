package response

import (
	"time"

	"ticket-booking/internal/data/entity"
)

type LedgerEntryResponse struct {
	ID         int64     `json:"id"`
	TimingID   int64     `json:"timing_id"`
	Seq        int64     `json:"seq"`
	Delta      int       `json:"delta"`
	Balance    int       `json:"balance"`
	RecordedAt time.Time `json:"recorded_at"`
}

func LedgerEntryToResponse(entry *entity.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		ID:         entry.ID,
		TimingID:   entry.TimingID,
		Seq:        entry.Seq,
		Delta:      entry.Delta,
		Balance:    entry.Balance,
		RecordedAt: entry.RecordedAt,
	}
}
