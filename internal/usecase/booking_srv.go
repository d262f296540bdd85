package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ticketbooth/internal/data/entity"
	"ticketbooth/internal/data/repository"
	"ticketbooth/internal/dto/request"
	"ticketbooth/internal/dto/response"
	"ticketbooth/internal/metrics"
	"ticketbooth/internal/payment"
	"ticketbooth/pkg/database"
	"ticketbooth/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BookingService orchestrates the purchase protocol: lock seats, take
// payment, confirm or roll back. Each phase is one atomic unit of work;
// the payment call runs between them with no transaction open, so a slow
// gateway never blocks other buyers.
type BookingService interface {
	ProcessBookingRequest(ctx context.Context, userID string, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	GetUserBookings(ctx context.Context, userID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)

	// Admin
	GetBookingByCode(ctx context.Context, code string) (*response.BookingDetailResponse, error)
}

type bookingService struct {
	repo    *repository.Repository
	gateway payment.Gateway
	holdTTL time.Duration
	log     *zap.Logger
	now     func() time.Time
}

func NewBookingService(repo *repository.Repository, gateway payment.Gateway, holdTTL time.Duration, log *zap.Logger) BookingService {
	return &bookingService{
		repo:    repo,
		gateway: gateway,
		holdTTL: holdTTL,
		log:     log.With(zap.String("service", "booking")),
		now:     time.Now,
	}
}

func (s *bookingService) ProcessBookingRequest(ctx context.Context, userID string, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	// Validate request
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Booking request validation failed", zap.Any("errors", errs))
		metrics.IncBooking("validation")
		return nil, &ValidationError{Message: "validation failed: " + utils.FormatValidationErrors(errs), Fields: errs}
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, &ValidationError{Message: fmt.Sprintf("invalid user ID format %s", userID)}
	}

	showID, err := uuid.Parse(req.ShowID)
	if err != nil {
		return nil, &ValidationError{Message: fmt.Sprintf("invalid show ID format %s", req.ShowID)}
	}

	seatIDs, err := parseSeatIDs(req.SeatIDs)
	if err != nil {
		metrics.IncBooking("validation")
		return nil, err
	}

	show, err := s.repo.Show.FindByID(ctx, showID)
	if err != nil {
		return nil, fmt.Errorf("find show: %w", err)
	}
	if show == nil || !show.IsActive {
		return nil, &ValidationError{Message: fmt.Sprintf("show %s not found", req.ShowID)}
	}

	// Phase 1: lock seats, create holds and the pending booking in one
	// atomic unit. A single contested seat aborts and rolls back every
	// seat flipped earlier in the same unit.
	booking, seats, holdIDs, err := s.reserveSeats(ctx, userUUID, showID, seatIDs)
	if err != nil {
		var unavailable *SeatUnavailableError
		if errors.As(err, &unavailable) {
			s.log.Warn("Seat conflict during lock phase",
				zap.String("show_id", req.ShowID),
				zap.String("seat", unavailable.SeatLabel),
			)
			metrics.IncBooking("conflict")
			return nil, err
		}
		var invalid *ValidationError
		if errors.As(err, &invalid) {
			metrics.IncBooking("validation")
			return nil, err
		}
		return nil, fmt.Errorf("reserve seats: %w", err)
	}

	s.log.Info("Seats reserved",
		zap.String("booking_id", booking.ID.String()),
		zap.String("booking_code", booking.BookingCode),
		zap.Int("seat_count", len(seats)),
		zap.Float64("total_amount", booking.TotalAmount),
	)

	// Phase 2: payment, outside any inventory lock. Seats stay reserved
	// for the TTL window; if we crash here the reclaimer restores them.
	start := time.Now()
	gatewayTxnID, payErr := s.gateway.Charge(ctx, booking.TotalAmount, booking.BookingCode)
	metrics.ObservePayment(time.Since(start).Seconds())

	method := entity.PaymentMethod(req.PaymentMethod)

	if payErr != nil {
		if errors.Is(payErr, payment.ErrDeclined) {
			if failErr := s.failBooking(ctx, booking, seats, holdIDs, method); failErr != nil {
				metrics.IncBooking("inconsistent")
				return nil, s.escalate(booking, "rollback", failErr)
			}
			metrics.IncBooking("declined")
			return nil, &PaymentDeclinedError{BookingCode: booking.BookingCode}
		}
		// Unknown outcome: the charge may or may not have gone through.
		// Leave the seats reserved (the TTL bounds the damage) and
		// escalate instead of guessing.
		metrics.IncBooking("inconsistent")
		return nil, s.escalate(booking, "payment", payErr)
	}

	// Phase 3: confirm in one atomic unit.
	if err := s.confirmBooking(ctx, booking, seats, holdIDs, method, gatewayTxnID); err != nil {
		metrics.IncBooking("inconsistent")
		return nil, s.escalate(booking, "confirm", err)
	}

	s.log.Info("Booking confirmed",
		zap.String("booking_id", booking.ID.String()),
		zap.String("booking_code", booking.BookingCode),
		zap.String("gateway_txn_id", gatewayTxnID),
	)
	metrics.IncBooking("confirmed")

	resp := response.BookingToResponse(booking, seatLabels(seats))
	resp.EventTitle = show.EventTitle
	resp.VenueName = show.VenueName
	return &resp, nil
}

// reserveSeats is the atomic lock phase. It prices the booking from the
// seats' stored prices, snapshotted at hold time. The returned hold IDs
// identify exactly the reservations this booking created; the finalize
// paths deactivate those and only those, so a late outcome can never
// touch a hold some other buyer placed after ours lapsed.
func (s *bookingService) reserveSeats(ctx context.Context, userID, showID uuid.UUID, seatIDs []uuid.UUID) (*entity.Booking, []*entity.ShowSeat, []uuid.UUID, error) {
	var booking *entity.Booking
	var seats []*entity.ShowSeat
	var holdIDs []uuid.UUID

	err := s.repo.Tx.WithinTx(ctx, func(q database.Querier) error {
		found, err := s.repo.ShowSeat.FindForShow(ctx, q, showID, seatIDs)
		if err != nil {
			return err
		}
		if len(found) != len(seatIDs) {
			return &ValidationError{Message: "one or more seats do not belong to the requested show"}
		}

		totalAmount := 0.0
		for _, seat := range found {
			ok, err := s.repo.ShowSeat.TryTransition(ctx, q, seat.ID, entity.SeatStatusAvailable, seat.Version, entity.SeatStatusReserved)
			if err != nil {
				return err
			}
			if !ok {
				// Returning an error rolls back every seat already
				// flipped in this unit.
				return &SeatUnavailableError{SeatLabel: seat.SeatLabel}
			}
			totalAmount += seat.Price
		}

		now := s.now()
		expiresAt := now.Add(s.holdTTL)

		holds := make([]*entity.SeatReservation, len(found))
		ids := make([]uuid.UUID, len(found))
		for i, seat := range found {
			holds[i] = &entity.SeatReservation{
				ID:         uuid.New(),
				UserID:     userID,
				ShowSeatID: seat.ID,
				ReservedAt: now,
				ExpiresAt:  expiresAt,
				IsActive:   true,
			}
			ids[i] = holds[i].ID
		}
		if err := s.repo.Reservation.CreateBatch(ctx, q, holds); err != nil {
			return err
		}

		booking = &entity.Booking{
			ID:          uuid.New(),
			UserID:      userID,
			ShowID:      showID,
			BookingCode: utils.GenerateBookingCode(),
			TotalAmount: totalAmount,
			Status:      entity.BookingStatusPending,
			CreatedAt:   now,
		}
		if err := s.repo.Booking.Create(ctx, q, booking); err != nil {
			return err
		}
		if err := s.repo.Booking.AddSeats(ctx, q, booking.ID, seatIDsOf(found)); err != nil {
			return err
		}

		seats = found
		holdIDs = ids
		return nil
	})

	if err != nil {
		return nil, nil, nil, err
	}
	return booking, seats, holdIDs, nil
}

// confirmBooking finalizes after payment success: booking confirmed,
// seats booked, success transaction appended, this booking's holds
// deactivated.
func (s *bookingService) confirmBooking(ctx context.Context, booking *entity.Booking, seats []*entity.ShowSeat, holdIDs []uuid.UUID, method entity.PaymentMethod, gatewayTxnID string) error {
	return s.repo.Tx.WithinTx(ctx, func(q database.Querier) error {
		now := s.now()

		ok, err := s.repo.Booking.UpdateStatus(ctx, q, booking.ID, entity.BookingStatusConfirmed, &now)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("booking %s is no longer pending", booking.BookingCode)
		}

		ids := seatIDsOf(seats)
		if err := s.repo.ShowSeat.MarkBooked(ctx, q, ids); err != nil {
			return err
		}

		txn := &entity.Transaction{
			BaseSimple:           entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
			BookingID:            booking.ID,
			Amount:               booking.TotalAmount,
			PaymentMethod:        method,
			GatewayTransactionID: gatewayTxnID,
			Status:               entity.TransactionStatusSuccess,
		}
		if err := s.repo.Transaction.Create(ctx, q, txn); err != nil {
			return err
		}

		if err := s.repo.Reservation.Deactivate(ctx, q, holdIDs); err != nil {
			return err
		}

		booking.Status = entity.BookingStatusConfirmed
		booking.ConfirmedAt = &now
		return nil
	})
}

// failBooking rolls back after a recognized decline: booking failed,
// seats conditionally released (a seat the reclaimer already touched is
// skipped, never overwritten), failed transaction appended, this
// booking's holds deactivated. Deactivation goes by the hold IDs from
// the lock phase, never by seat, so a hold another buyer placed on the
// same seats in the meantime survives.
func (s *bookingService) failBooking(ctx context.Context, booking *entity.Booking, seats []*entity.ShowSeat, holdIDs []uuid.UUID, method entity.PaymentMethod) error {
	return s.repo.Tx.WithinTx(ctx, func(q database.Querier) error {
		now := s.now()

		if _, err := s.repo.Booking.UpdateStatus(ctx, q, booking.ID, entity.BookingStatusFailed, nil); err != nil {
			return err
		}

		ids := seatIDsOf(seats)
		if _, err := s.repo.ShowSeat.ReleaseIfStatus(ctx, q, ids, entity.SeatStatusReserved); err != nil {
			return err
		}

		txn := &entity.Transaction{
			BaseSimple:           entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
			BookingID:            booking.ID,
			Amount:               booking.TotalAmount,
			PaymentMethod:        method,
			GatewayTransactionID: utils.GenerateFailureTxnID(),
			Status:               entity.TransactionStatusFailed,
		}
		if err := s.repo.Transaction.Create(ctx, q, txn); err != nil {
			return err
		}

		if err := s.repo.Reservation.Deactivate(ctx, q, holdIDs); err != nil {
			return err
		}

		booking.Status = entity.BookingStatusFailed
		return nil
	})
}

// escalate logs an inconsistency for operator reconciliation and returns
// the typed error. Never swallowed, never retried.
func (s *bookingService) escalate(booking *entity.Booking, stage string, err error) error {
	inc := &InconsistencyError{
		BookingID:   booking.ID,
		BookingCode: booking.BookingCode,
		Stage:       stage,
		Err:         err,
	}
	s.log.Error("Booking inconsistency, manual reconciliation required",
		zap.String("booking_id", booking.ID.String()),
		zap.String("booking_code", booking.BookingCode),
		zap.String("stage", stage),
		zap.Error(err),
	)
	return inc
}

func (s *bookingService) GetUserBookings(ctx context.Context, userID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, &ValidationError{Message: fmt.Sprintf("invalid user ID format %s", userID)}
	}

	bookings, err := s.repo.Booking.FindByUserID(ctx, userUUID, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to get user bookings", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("get user bookings: %w", err)
	}

	total, err := s.repo.Booking.CountByUserID(ctx, userUUID)
	if err != nil {
		s.log.Error("Failed to count user bookings", zap.Error(err))
		return nil, fmt.Errorf("count user bookings: %w", err)
	}

	bookingResponses := make([]response.BookingResponse, len(bookings))
	for i, booking := range bookings {
		labels, err := s.repo.Booking.FindSeatLabels(ctx, booking.ID)
		if err != nil {
			s.log.Error("Failed to get booking seat labels", zap.Error(err), zap.String("booking_id", booking.ID.String()))
			return nil, fmt.Errorf("get booking seat labels: %w", err)
		}
		bookingResponses[i] = response.BookingToResponse(booking, labels)
	}

	return response.NewPaginatedResponse(bookingResponses, req.Page, req.PerPage, total), nil
}

func (s *bookingService) GetBookingByCode(ctx context.Context, code string) (*response.BookingDetailResponse, error) {
	booking, err := s.repo.Booking.FindByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("find booking: %w", err)
	}
	if booking == nil {
		return nil, &ValidationError{Message: fmt.Sprintf("booking %s not found", code)}
	}

	labels, err := s.repo.Booking.FindSeatLabels(ctx, booking.ID)
	if err != nil {
		return nil, fmt.Errorf("find booking seats: %w", err)
	}

	txns, err := s.repo.Transaction.FindByBookingID(ctx, booking.ID)
	if err != nil {
		return nil, fmt.Errorf("find booking transactions: %w", err)
	}

	txnResponses := make([]response.TransactionResponse, len(txns))
	for i, txn := range txns {
		txnResponses[i] = response.TransactionToResponse(txn)
	}

	return &response.BookingDetailResponse{
		BookingResponse: response.BookingToResponse(booking, labels),
		Transactions:    txnResponses,
	}, nil
}

// ==================== HELPERS ====================

func parseSeatIDs(raw []string) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]bool, len(raw))
	seatIDs := make([]uuid.UUID, len(raw))
	for i, idStr := range raw {
		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, &ValidationError{Message: fmt.Sprintf("invalid seat ID format %s", idStr)}
		}
		if seen[id] {
			return nil, &ValidationError{Message: fmt.Sprintf("duplicate seat ID %s", idStr)}
		}
		seen[id] = true
		seatIDs[i] = id
	}
	return seatIDs, nil
}

func seatIDsOf(seats []*entity.ShowSeat) []uuid.UUID {
	ids := make([]uuid.UUID, len(seats))
	for i, seat := range seats {
		ids[i] = seat.ID
	}
	return ids
}

func seatLabels(seats []*entity.ShowSeat) []string {
	labels := make([]string, len(seats))
	for i, seat := range seats {
		labels[i] = seat.SeatLabel
	}
	return labels
}
