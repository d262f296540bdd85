package response

import (
	"time"

	"ticketbooth/internal/data/entity"
)

type BookingResponse struct {
	ID          string     `json:"id"`
	BookingCode string     `json:"booking_code"`
	UserID      string     `json:"user_id"`
	ShowID      string     `json:"show_id"`
	EventTitle  string     `json:"event_title,omitempty"`
	VenueName   string     `json:"venue_name,omitempty"`
	SeatLabels  []string   `json:"seat_labels"`
	TotalAmount float64    `json:"total_amount"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
}

type TransactionResponse struct {
	ID                   string    `json:"id"`
	BookingID            string    `json:"booking_id"`
	Amount               float64   `json:"amount"`
	PaymentMethod        string    `json:"payment_method"`
	GatewayTransactionID string    `json:"gateway_transaction_id"`
	Status               string    `json:"status"`
	CreatedAt            time.Time `json:"created_at"`
}

type BookingDetailResponse struct {
	BookingResponse
	Transactions []TransactionResponse `json:"transactions"`
}

type ReclaimResponse struct {
	SeatsReleased int `json:"seats_released"`
}

func TransactionToResponse(txn *entity.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:                   txn.ID.String(),
		BookingID:            txn.BookingID.String(),
		Amount:               txn.Amount,
		PaymentMethod:        string(txn.PaymentMethod),
		GatewayTransactionID: txn.GatewayTransactionID,
		Status:               string(txn.Status),
		CreatedAt:            txn.CreatedAt,
	}
}

func BookingToResponse(booking *entity.Booking, seatLabels []string) BookingResponse {
	return BookingResponse{
		ID:          booking.ID.String(),
		BookingCode: booking.BookingCode,
		UserID:      booking.UserID.String(),
		ShowID:      booking.ShowID.String(),
		SeatLabels:  seatLabels,
		TotalAmount: booking.TotalAmount,
		Status:      string(booking.Status),
		CreatedAt:   booking.CreatedAt,
		ConfirmedAt: booking.ConfirmedAt,
	}
}
