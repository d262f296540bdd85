package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusFailed    BookingStatus = "failed"
)

// Booking records one purchase attempt. Pending is the only non-terminal
// state; confirmed, cancelled and failed absorb.
type Booking struct {
	ID          uuid.UUID     `db:"id"`
	UserID      uuid.UUID     `db:"user_id"`
	ShowID      uuid.UUID     `db:"show_id"`
	BookingCode string        `db:"booking_code"`
	TotalAmount float64       `db:"total_amount"`
	Status      BookingStatus `db:"status"`
	CreatedAt   time.Time     `db:"created_at"`
	ConfirmedAt *time.Time    `db:"confirmed_at"`
}
