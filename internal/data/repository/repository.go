package repository

import (
	"context"

	"ticketbooth/pkg/database"

	"go.uber.org/zap"
)

// TxManager opens one atomic unit of work. Everything written through the
// Querier handed to fn commits together or not at all.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(q database.Querier) error) error
}

type Repository struct {
	Tx          TxManager
	User        UserRepository
	Session     SessionRepository
	Show        ShowRepository
	ShowSeat    ShowSeatRepository
	Reservation ReservationRepository
	Booking     BookingRepository
	Transaction TransactionRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Tx:          db,
		User:        NewUserRepository(db, log),
		Session:     NewSessionRepository(db, log),
		Show:        NewShowRepository(db, log),
		ShowSeat:    NewShowSeatRepository(db, log),
		Reservation: NewReservationRepository(db, log),
		Booking:     NewBookingRepository(db, log),
		Transaction: NewTransactionRepository(db, log),
	}
}
