package wire

import (
	"net/http"

	"ticketbooth/internal/adaptor"
	"ticketbooth/internal/data/repository"
	"ticketbooth/internal/metrics"
	"ticketbooth/internal/payment"
	"ticketbooth/internal/usecase"
	"ticketbooth/pkg/cache"
	"ticketbooth/pkg/middleware"
	"ticketbooth/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// App holds the wired application.
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring assembles services, handlers and routes.
func Wiring(repo *repository.Repository, gateway payment.Gateway, c *cache.Cache, config *utils.Config, logger *zap.Logger) *App {
	service := usecase.NewService(repo, gateway, c, config, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, repo, config, logger)

	return &App{
		Router:  router,
		Service: service,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	metrics.Register()

	// Apply global middleware
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())
	r.Use(middleware.RateLimit(config.RateLimit, logger))

	// Apply routes
	wireAuth(r, handler.Auth, repo, logger)
	wireShow(r, handler.Show)
	wireBooking(r, handler.Booking, repo, logger)
	wireAdmin(r, handler.Admin, repo, logger)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Prometheus scrape endpoint
	r.Handle("/metrics", promhttp.Handler())

	return r
}
