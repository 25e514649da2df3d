package wire

import (
	"net/http"

	"ticket-booking/internal/adaptor"
	"ticket-booking/internal/clock"
	"ticket-booking/internal/data/repository"
	"ticket-booking/internal/events"
	"ticket-booking/internal/ledger"
	"ticket-booking/internal/usecase"
	"ticket-booking/pkg/cache"
	"ticket-booking/pkg/middleware"
	"ticket-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App bundles the wired router with the service layer so the server
// command can drive startup work (hold restore, scheduled jobs) against
// the same instances the handlers use.
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

func Wiring(
	repo *repository.Repository,
	ldg *ledger.Ledger,
	c cache.Cache,
	publisher events.Publisher,
	clk clock.Clock,
	config *utils.Config,
	logger *zap.Logger,
) *App {
	service := usecase.NewService(repo, ldg, c, publisher, clk, config, logger)
	handler := adaptor.NewHandler(service, logger)

	return &App{
		Router:  setupRouter(handler, logger),
		Service: service,
	}
}

func setupRouter(handler *adaptor.Handler, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	wireCatalog(r, handler.Catalog)
	wireShowtime(r, handler.Showtime)
	wireBooking(r, handler.Booking)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
