package entity

import (
	"time"

	"github.com/google/uuid"
)

// SeatReservation is a time-bound hold on a ShowSeat while the buyer pays.
// Rows are deactivated on confirmation, failure or reclamation and never
// re-activated; inactive rows accumulate as history.
type SeatReservation struct {
	ID         uuid.UUID `db:"id"`
	UserID     uuid.UUID `db:"user_id"`
	ShowSeatID uuid.UUID `db:"show_seat_id"`
	ReservedAt time.Time `db:"reserved_at"`
	ExpiresAt  time.Time `db:"expires_at"`
	IsActive   bool      `db:"is_active"`
}
