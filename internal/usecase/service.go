package usecase

import (
	"ticket-booking/internal/clock"
	"ticket-booking/internal/data/repository"
	"ticket-booking/internal/events"
	"ticket-booking/internal/ledger"
	"ticket-booking/pkg/cache"
	"ticket-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Catalog  CatalogService
	Showtime ShowtimeService
	Booking  BookingService
}

func NewService(repo *repository.Repository, ldg *ledger.Ledger, c cache.Cache, publisher events.Publisher, clk clock.Clock, config *utils.Config, log *zap.Logger) *Service {
	return &Service{
		Catalog:  NewCatalogService(repo, ldg, log),
		Showtime: NewShowtimeService(repo, ldg, c, config, log),
		Booking:  NewBookingService(repo, ldg, publisher, clk, config, log),
	}
}
