package repository

import (
	"ticket-booking/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Catalog     CatalogRepository
	Show        ShowRepository
	Timing      TimingRepository
	Ledger      LedgerRepository
	Reservation ReservationRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Catalog:     NewCatalogRepository(db, log),
		Show:        NewShowRepository(db, log),
		Timing:      NewTimingRepository(db, log),
		Ledger:      NewLedgerRepository(db, log),
		Reservation: NewReservationRepository(db, log),
	}
}
