package repository

import (
	"context"
	"fmt"
	"time"

	"ticket-booking/internal/data/entity"
	"ticket-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// ReservationRepository keeps the durable reservation history. The
// coordinator's in-memory table is authoritative while the process
// lives; these rows serve audit views and restarts.
type ReservationRepository interface {
	Create(ctx context.Context, reservation *entity.Reservation) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.ReservationStatus, resolvedAt *time.Time, updatedAt time.Time) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Reservation, error)
	ListHeld(ctx context.Context) ([]entity.Reservation, error)
	List(ctx context.Context, limit, offset int) ([]entity.Reservation, error)
	Count(ctx context.Context) (int64, error)
}

type reservationRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewReservationRepository(db database.PgxIface, log *zap.Logger) ReservationRepository {
	return &reservationRepository{
		db:  db,
		log: log.With(zap.String("repository", "reservation")),
	}
}

func (r *reservationRepository) Create(ctx context.Context, reservation *entity.Reservation) error {
	query := `
		INSERT INTO reservations (id, code, timing_id, seats, status, held_at, expires_at, resolved_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		reservation.ID,
		reservation.Code,
		reservation.TimingID,
		reservation.Seats,
		reservation.Status,
		reservation.HeldAt,
		reservation.ExpiresAt,
		reservation.ResolvedAt,
		reservation.CreatedAt,
		reservation.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create reservation",
			zap.Error(err),
			zap.String("reservation_id", reservation.ID.String()),
			zap.Int64("timing_id", reservation.TimingID),
		)
		return fmt.Errorf("create reservation %s: %w", reservation.ID.String(), err)
	}

	return nil
}

func (r *reservationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.ReservationStatus, resolvedAt *time.Time, updatedAt time.Time) error {
	query := `
		UPDATE reservations
		SET status = $2, resolved_at = $3, updated_at = $4
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query, id, status, resolvedAt, updatedAt)
	if err != nil {
		r.log.Error("Failed to update reservation status",
			zap.Error(err),
			zap.String("reservation_id", id.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update reservation %s to %s: %w", id.String(), status, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("reservation %s not found", id.String())
	}

	return nil
}

func (r *reservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Reservation, error) {
	query := `
		SELECT id, code, timing_id, seats, status, held_at, expires_at, resolved_at, created_at, updated_at
		FROM reservations
		WHERE id = $1
	`

	var reservation entity.Reservation
	err := r.db.QueryRow(ctx, query, id).Scan(
		&reservation.ID,
		&reservation.Code,
		&reservation.TimingID,
		&reservation.Seats,
		&reservation.Status,
		&reservation.HeldAt,
		&reservation.ExpiresAt,
		&reservation.ResolvedAt,
		&reservation.CreatedAt,
		&reservation.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find reservation by ID",
			zap.Error(err),
			zap.String("reservation_id", id.String()),
		)
		return nil, fmt.Errorf("find reservation by ID %s: %w", id.String(), err)
	}

	return &reservation, nil
}

// ListHeld returns every reservation still in the held state. The
// coordinator rebuilds its hold timers from these on startup.
func (r *reservationRepository) ListHeld(ctx context.Context) ([]entity.Reservation, error) {
	query := `
		SELECT id, code, timing_id, seats, status, held_at, expires_at, resolved_at, created_at, updated_at
		FROM reservations
		WHERE status = $1
		ORDER BY held_at
	`

	rows, err := r.db.Query(ctx, query, entity.ReservationStatusHeld)
	if err != nil {
		r.log.Error("Failed to list held reservations", zap.Error(err))
		return nil, fmt.Errorf("list held reservations: %w", err)
	}
	defer rows.Close()

	var reservations []entity.Reservation
	for rows.Next() {
		var reservation entity.Reservation
		if err := rows.Scan(
			&reservation.ID,
			&reservation.Code,
			&reservation.TimingID,
			&reservation.Seats,
			&reservation.Status,
			&reservation.HeldAt,
			&reservation.ExpiresAt,
			&reservation.ResolvedAt,
			&reservation.CreatedAt,
			&reservation.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan reservation row: %w", err)
		}
		reservations = append(reservations, reservation)
	}

	return reservations, rows.Err()
}

func (r *reservationRepository) List(ctx context.Context, limit, offset int) ([]entity.Reservation, error) {
	query := `
		SELECT id, code, timing_id, seats, status, held_at, expires_at, resolved_at, created_at, updated_at
		FROM reservations
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to list reservations", zap.Error(err))
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	defer rows.Close()

	var reservations []entity.Reservation
	for rows.Next() {
		var reservation entity.Reservation
		if err := rows.Scan(
			&reservation.ID,
			&reservation.Code,
			&reservation.TimingID,
			&reservation.Seats,
			&reservation.Status,
			&reservation.HeldAt,
			&reservation.ExpiresAt,
			&reservation.ResolvedAt,
			&reservation.CreatedAt,
			&reservation.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan reservation row: %w", err)
		}
		reservations = append(reservations, reservation)
	}

	return reservations, rows.Err()
}

func (r *reservationRepository) Count(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM reservations`

	var count int64
	if err := r.db.QueryRow(ctx, query).Scan(&count); err != nil {
		r.log.Error("Failed to count reservations", zap.Error(err))
		return 0, fmt.Errorf("count reservations: %w", err)
	}
	return count, nil
}
