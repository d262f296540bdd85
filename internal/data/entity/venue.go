package entity

import "github.com/google/uuid"

// Venue is the physical building; Screen is one auditorium inside it.
type Venue struct {
	Base
	Name    string `db:"name"`
	City    string `db:"city"`
	Address string `db:"address"`
	Pincode string `db:"pincode"`
}

type Screen struct {
	Base
	VenueID uuid.UUID `db:"venue_id"`
	Name    string    `db:"name"`
}

// Seat is a physical seat in a screen, independent of any show.
type Seat struct {
	Base
	ScreenID uuid.UUID `db:"screen_id"`
	SeatRow  string    `db:"seat_row"`
	Number   int       `db:"number"`
	SeatType string    `db:"seat_type"`
}
