package adaptor

import (
	"net/http"

	"ticket-booking/internal/dto/request"
	"ticket-booking/internal/usecase"
	"ticket-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ShowtimeHandler struct {
	service usecase.ShowtimeService
	log     *zap.Logger
}

func NewShowtimeHandler(service usecase.ShowtimeService, log *zap.Logger) *ShowtimeHandler {
	return &ShowtimeHandler{
		service: service,
		log:     log.With(zap.String("handler", "showtime")),
	}
}

// ListTheatreShows handles GET /api/theatres/{id}/shows?date=YYYY-MM-DD&consistency=strong|cached
func (h *ShowtimeHandler) ListTheatreShows(w http.ResponseWriter, r *http.Request) {
	theatreID, err := utils.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid theatre ID", nil)
		return
	}

	query := r.URL.Query()
	rawDate := query.Get("date")
	if rawDate == "" {
		utils.ResponseBadRequest(w, "date query parameter is required", nil)
		return
	}
	date, err := utils.ParseDate(rawDate)
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid date, expected YYYY-MM-DD", nil)
		return
	}

	shows, err := h.service.ListShows(r.Context(), theatreID, date, query.Get("consistency"))
	if err != nil {
		handleServiceError(h.log, w, err, "list shows")
		return
	}

	utils.ResponseSuccess(w, "Shows retrieved", shows)
}

// GetTimingAvailability handles GET /api/timings/{id}/availability
func (h *ShowtimeHandler) GetTimingAvailability(w http.ResponseWriter, r *http.Request) {
	timingID, err := utils.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid timing ID", nil)
		return
	}

	availability, err := h.service.TimingAvailability(r.Context(), timingID)
	if err != nil {
		handleServiceError(h.log, w, err, "get timing availability")
		return
	}

	utils.ResponseSuccess(w, "Availability retrieved", availability)
}

// GetTimingLedger handles GET /api/admin/timings/{id}/ledger
func (h *ShowtimeHandler) GetTimingLedger(w http.ResponseWriter, r *http.Request) {
	timingID, err := utils.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid timing ID", nil)
		return
	}

	query := r.URL.Query()
	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	entries, err := h.service.TimingJournal(r.Context(), timingID, req)
	if err != nil {
		handleServiceError(h.log, w, err, "get timing ledger")
		return
	}

	utils.ResponseSuccess(w, "Ledger entries retrieved", entries)
}
