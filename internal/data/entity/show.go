package entity

import (
	"time"

	"github.com/google/uuid"
)

// Show is one scheduled performance of an event on a screen.
type Show struct {
	Base
	EventID      uuid.UUID `db:"event_id"`
	ScreenID     uuid.UUID `db:"screen_id"`
	VenueID      uuid.UUID `db:"venue_id"`
	ShowDatetime time.Time `db:"show_datetime"`
	EndDatetime  time.Time `db:"end_datetime"`
	IsActive     bool      `db:"is_active"`

	// Joined for display.
	EventTitle string `db:"-"`
	VenueName  string `db:"-"`
	ScreenName string `db:"-"`
}
