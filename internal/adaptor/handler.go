package adaptor

import (
	"ticketbooth/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Auth    *AuthHandler
	Show    *ShowHandler
	Booking *BookingHandler
	Admin   *AdminHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(service.Auth, log),
		Show:    NewShowHandler(service.Show, log),
		Booking: NewBookingHandler(service.Booking, log),
		Admin:   NewAdminHandler(service.Booking, service.Reclaim, log),
	}
}
