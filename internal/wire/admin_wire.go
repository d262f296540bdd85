package wire

import (
	"ticketbooth/internal/adaptor"
	"ticketbooth/internal/data/repository"
	"ticketbooth/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAdmin(
	r chi.Router,
	adminHandler *adaptor.AdminHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))
		r.Use(middleware.Admin(log))

		// GET /api/admin/bookings/{code} - Inspect any booking with its transactions
		r.Get("/bookings/{code}", adminHandler.GetBookingByCode)

		// POST /api/admin/reclaim - Run the expiry sweep now
		r.Post("/reclaim", adminHandler.TriggerReclaim)
	})
}
