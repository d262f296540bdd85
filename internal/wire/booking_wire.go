package wire

import (
	"ticketbooth/internal/adaptor"
	"ticketbooth/internal/data/repository"
	"ticketbooth/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))

		// POST /api/bookings - Lock seats, charge, confirm
		r.Post("/api/bookings", bookingHandler.CreateBooking)

		// GET /api/user/bookings - View booking history
		r.Get("/api/user/bookings", bookingHandler.GetUserBookings)
	})
}
