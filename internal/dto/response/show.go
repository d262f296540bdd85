package response

import (
	"time"

	"ticketbooth/internal/data/entity"
)

type ShowResponse struct {
	ID           string    `json:"id"`
	EventTitle   string    `json:"event_title"`
	VenueName    string    `json:"venue_name"`
	ScreenName   string    `json:"screen_name"`
	ShowDatetime time.Time `json:"show_datetime"`
	EndDatetime  time.Time `json:"end_datetime"`
}

type SeatMapEntry struct {
	ID        string  `json:"id"`
	SeatLabel string  `json:"seat_label"`
	Price     float64 `json:"price"`
	// Availability follows seat status alone; reserved and booked seats
	// both read as unavailable to the buyer.
	IsAvailable bool `json:"is_available"`
}

type SeatMapResponse struct {
	ShowID string         `json:"show_id"`
	Seats  []SeatMapEntry `json:"seats"`
}

func ShowToResponse(show *entity.Show) ShowResponse {
	return ShowResponse{
		ID:           show.ID.String(),
		EventTitle:   show.EventTitle,
		VenueName:    show.VenueName,
		ScreenName:   show.ScreenName,
		ShowDatetime: show.ShowDatetime,
		EndDatetime:  show.EndDatetime,
	}
}

func SeatToMapEntry(seat *entity.ShowSeat) SeatMapEntry {
	return SeatMapEntry{
		ID:          seat.ID.String(),
		SeatLabel:   seat.SeatLabel,
		Price:       seat.Price,
		IsAvailable: seat.Status == entity.SeatStatusAvailable,
	}
}
