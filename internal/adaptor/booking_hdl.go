package adaptor

import (
	"encoding/json"
	"net/http"

	"ticket-booking/internal/dto/request"
	"ticket-booking/internal/usecase"
	"ticket-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// CreateReservation handles POST /api/reservations
func (h *BookingHandler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	var req request.CreateReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	reservation, err := h.service.Request(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "create reservation")
		return
	}

	utils.ResponseCreated(w, "Seats held", reservation)
}

// ConfirmReservation handles PUT /api/reservations/{id}/confirm
func (h *BookingHandler) ConfirmReservation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		utils.ResponseBadRequest(w, "Reservation ID is required", nil)
		return
	}

	reservation, err := h.service.Confirm(r.Context(), id)
	if err != nil {
		handleServiceError(h.log, w, err, "confirm reservation")
		return
	}

	utils.ResponseSuccess(w, "Reservation confirmed", reservation)
}

// CancelReservation handles PUT /api/reservations/{id}/cancel
func (h *BookingHandler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		utils.ResponseBadRequest(w, "Reservation ID is required", nil)
		return
	}

	reservation, err := h.service.Cancel(r.Context(), id)
	if err != nil {
		handleServiceError(h.log, w, err, "cancel reservation")
		return
	}

	utils.ResponseSuccess(w, "Reservation cancelled", reservation)
}

// GetReservation handles GET /api/reservations/{id}
func (h *BookingHandler) GetReservation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		utils.ResponseBadRequest(w, "Reservation ID is required", nil)
		return
	}

	reservation, err := h.service.Get(r.Context(), id)
	if err != nil {
		handleServiceError(h.log, w, err, "get reservation")
		return
	}

	utils.ResponseSuccess(w, "Reservation retrieved", reservation)
}

// ListReservations handles GET /api/admin/reservations
func (h *BookingHandler) ListReservations(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	reservations, err := h.service.List(r.Context(), req)
	if err != nil {
		handleServiceError(h.log, w, err, "list reservations")
		return
	}

	utils.ResponseSuccess(w, "Reservations retrieved", reservations)
}
