package wire

import (
	"ticket-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireCatalog(r chi.Router, catalogHandler *adaptor.CatalogHandler) {
	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/catalog", func(r chi.Router) {
		r.Post("/import", catalogHandler.ImportCatalog) // POST /api/admin/catalog/import
		r.Get("/export", catalogHandler.ExportCatalog)  // GET /api/admin/catalog/export
	})

	r.Post("/api/admin/shows", catalogHandler.ScheduleShow)
}
