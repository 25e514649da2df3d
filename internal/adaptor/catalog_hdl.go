package adaptor

import (
	"encoding/json"
	"net/http"

	"ticket-booking/internal/dto/request"
	"ticket-booking/internal/usecase"
	"ticket-booking/pkg/utils"

	"go.uber.org/zap"
)

type CatalogHandler struct {
	service usecase.CatalogService
	log     *zap.Logger
}

func NewCatalogHandler(service usecase.CatalogService, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		log:     log.With(zap.String("handler", "catalog")),
	}
}

// ImportCatalog handles POST /api/admin/catalog/import
func (h *CatalogHandler) ImportCatalog(w http.ResponseWriter, r *http.Request) {
	var req request.CatalogImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	// Imports upsert by id, so 200 rather than 201.
	counts, err := h.service.Import(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "import catalog")
		return
	}

	utils.ResponseSuccess(w, "Catalog imported", counts)
}

// ExportCatalog handles GET /api/admin/catalog/export
func (h *CatalogHandler) ExportCatalog(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.service.Export(r.Context())
	if err != nil {
		handleServiceError(h.log, w, err, "export catalog")
		return
	}

	utils.ResponseSuccess(w, "Catalog exported", catalog)
}

// ScheduleShow handles POST /api/admin/shows
func (h *CatalogHandler) ScheduleShow(w http.ResponseWriter, r *http.Request) {
	var req request.ScheduleShowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	show, err := h.service.ScheduleShow(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "schedule show")
		return
	}

	utils.ResponseCreated(w, "Show scheduled", show)
}
