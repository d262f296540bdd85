package entity

import (
	"time"

	"github.com/google/uuid"
)

type SeatStatus string

const (
	SeatStatusAvailable SeatStatus = "available"
	SeatStatusReserved  SeatStatus = "reserved"
	SeatStatusBooked    SeatStatus = "booked"
	SeatStatusBlocked   SeatStatus = "blocked"
)

// ShowSeat is one sellable seat within one show. Price is fixed when the
// show is provisioned. Status never changes except through a conditional
// update that matches both the expected status and the expected version.
type ShowSeat struct {
	ID        uuid.UUID  `db:"id"`
	ShowID    uuid.UUID  `db:"show_id"`
	SeatID    uuid.UUID  `db:"seat_id"`
	Price     float64    `db:"price"`
	Status    SeatStatus `db:"status"`
	Version   int64      `db:"version"`
	UpdatedAt time.Time  `db:"updated_at"`

	// SeatLabel is joined from the physical seat row for display, e.g. "A1".
	SeatLabel string `db:"-"`
}
