package usecase

import (
	"time"

	"ticketbooth/internal/data/repository"
	"ticketbooth/internal/payment"
	"ticketbooth/pkg/cache"
	"ticketbooth/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth    AuthService
	Show    ShowService
	Booking BookingService
	Reclaim ReclaimService
}

func NewService(repo *repository.Repository, gateway payment.Gateway, c *cache.Cache, config *utils.Config, log *zap.Logger) *Service {
	return &Service{
		Auth:    NewAuthService(repo, time.Duration(config.Session.ExpiryHours)*time.Hour, log),
		Show:    NewShowService(repo, c, log),
		Booking: NewBookingService(repo, gateway, config.Booking.HoldTTL(), log),
		Reclaim: NewReclaimService(repo, log),
	}
}
