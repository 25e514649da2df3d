package repository

import (
	"context"
	"fmt"

	"ticket-booking/internal/data/entity"
	"ticket-booking/pkg/database"

	"go.uber.org/zap"
)

type LedgerRepository interface {
	Record(ctx context.Context, entry entity.LedgerEntry) error
	ListByTiming(ctx context.Context, timingID int64, limit, offset int) ([]entity.LedgerEntry, error)
	CountByTiming(ctx context.Context, timingID int64) (int64, error)
	LatestByTiming(ctx context.Context) ([]entity.LedgerEntry, error)
}

type ledgerRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewLedgerRepository(db database.PgxIface, log *zap.Logger) LedgerRepository {
	return &ledgerRepository{
		db:  db,
		log: log.With(zap.String("repository", "ledger")),
	}
}

// Record appends one journal row and moves the timing's stored balance
// forward in the same transaction. Entries can arrive out of order, so
// the balance update is guarded: it only applies when no later entry for
// the timing has landed yet.
func (r *ledgerRepository) Record(ctx context.Context, entry entity.LedgerEntry) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.log.Error("Failed to begin ledger transaction", zap.Error(err))
		return fmt.Errorf("begin ledger record: %w", err)
	}
	defer tx.Rollback(ctx)

	insertQuery := `
		INSERT INTO ledger_entries (timing_id, seq, delta, balance, recorded_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := tx.Exec(ctx, insertQuery,
		entry.TimingID,
		entry.Seq,
		entry.Delta,
		entry.Balance,
		entry.RecordedAt,
	); err != nil {
		r.log.Error("Failed to insert ledger entry",
			zap.Error(err),
			zap.Int64("timing_id", entry.TimingID),
			zap.Int64("seq", entry.Seq),
		)
		return fmt.Errorf("insert ledger entry timing %d seq %d: %w", entry.TimingID, entry.Seq, err)
	}

	updateQuery := `
		UPDATE show_timings
		SET available_seats = $2
		WHERE id = $1
		  AND NOT EXISTS (
		      SELECT 1 FROM ledger_entries WHERE timing_id = $1 AND seq > $3
		  )
	`
	if _, err := tx.Exec(ctx, updateQuery, entry.TimingID, entry.Balance, entry.Seq); err != nil {
		r.log.Error("Failed to update timing balance",
			zap.Error(err),
			zap.Int64("timing_id", entry.TimingID),
			zap.Int("balance", entry.Balance),
		)
		return fmt.Errorf("update balance for timing %d: %w", entry.TimingID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		r.log.Error("Failed to commit ledger transaction", zap.Error(err))
		return fmt.Errorf("commit ledger record: %w", err)
	}

	return nil
}

func (r *ledgerRepository) ListByTiming(ctx context.Context, timingID int64, limit, offset int) ([]entity.LedgerEntry, error) {
	query := `
		SELECT id, timing_id, seq, delta, balance, recorded_at
		FROM ledger_entries
		WHERE timing_id = $1
		ORDER BY seq DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, timingID, limit, offset)
	if err != nil {
		r.log.Error("Failed to list ledger entries", zap.Error(err), zap.Int64("timing_id", timingID))
		return nil, fmt.Errorf("list ledger entries for timing %d: %w", timingID, err)
	}
	defer rows.Close()

	var entries []entity.LedgerEntry
	for rows.Next() {
		var entry entity.LedgerEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.TimingID,
			&entry.Seq,
			&entry.Delta,
			&entry.Balance,
			&entry.RecordedAt,
		); err != nil {
			return nil, fmt.Errorf("scan ledger entry row: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func (r *ledgerRepository) CountByTiming(ctx context.Context, timingID int64) (int64, error) {
	query := `SELECT COUNT(*) FROM ledger_entries WHERE timing_id = $1`

	var count int64
	if err := r.db.QueryRow(ctx, query, timingID).Scan(&count); err != nil {
		r.log.Error("Failed to count ledger entries", zap.Error(err), zap.Int64("timing_id", timingID))
		return 0, fmt.Errorf("count ledger entries for timing %d: %w", timingID, err)
	}
	return count, nil
}

// LatestByTiming returns the newest journal entry for every timing that
// has one. The audit job compares these against the in-memory ledger.
func (r *ledgerRepository) LatestByTiming(ctx context.Context) ([]entity.LedgerEntry, error) {
	query := `
		SELECT DISTINCT ON (timing_id) id, timing_id, seq, delta, balance, recorded_at
		FROM ledger_entries
		ORDER BY timing_id, seq DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to list latest ledger entries", zap.Error(err))
		return nil, fmt.Errorf("list latest ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []entity.LedgerEntry
	for rows.Next() {
		var entry entity.LedgerEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.TimingID,
			&entry.Seq,
			&entry.Delta,
			&entry.Balance,
			&entry.RecordedAt,
		); err != nil {
			return nil, fmt.Errorf("scan ledger entry row: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
