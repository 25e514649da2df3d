package adaptor

import (
	"errors"
	"net/http"

	"ticket-booking/internal/ledger"
	"ticket-booking/internal/usecase"
	"ticket-booking/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Catalog  *CatalogHandler
	Showtime *ShowtimeHandler
	Booking  *BookingHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Catalog:  NewCatalogHandler(service.Catalog, log),
		Showtime: NewShowtimeHandler(service.Showtime, log),
		Booking:  NewBookingHandler(service.Booking, log),
	}
}

// handleServiceError maps service errors onto HTTP statuses. Sentinels
// travel wrapped through the service layer, so matching is errors.Is
// all the way down.
func handleServiceError(log *zap.Logger, w http.ResponseWriter, err error, operation string) {
	switch {
	case errors.Is(err, usecase.ErrValidation), errors.Is(err, ledger.ErrInvalidCount):
		log.Warn(operation+" rejected", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrNotFound), errors.Is(err, ledger.ErrNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, ledger.ErrInsufficientSeats),
		errors.Is(err, usecase.ErrInvalidState),
		errors.Is(err, usecase.ErrScreenConflict):
		log.Warn(operation+" conflicted", zap.Error(err))
		utils.ResponseConflict(w, err.Error())

	case errors.Is(err, usecase.ErrHoldExpired):
		log.Warn(operation+" failed - hold expired", zap.Error(err))
		utils.ResponseGone(w, err.Error())

	default:
		// ledger.ErrFrozen and ledger.ErrCorrupted land here: a frozen
		// timing is an operator problem, not a client one.
		log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
