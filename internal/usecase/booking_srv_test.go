package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"ticketbooth/internal/data/entity"
	"ticketbooth/internal/dto/request"
	"ticketbooth/internal/payment"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func successGateway() *stubGateway {
	return &stubGateway{
		charge: func(ctx context.Context, amount float64, bookingCode string) (string, error) {
			return "TXN_4A9C02D1E7BB", nil
		},
	}
}

func newBookingService(st *memStore, gateway payment.Gateway) BookingService {
	return NewBookingService(newMemRepository(st), gateway, 10*time.Minute, zap.NewNop())
}

func TestProcessBookingRequest_ConfirmsBooking(t *testing.T) {
	st := newMemStore()
	show, seats := seedShow(st, 3, 250)
	svc := newBookingService(st, successGateway())
	userID := uuid.New().String()

	resp, err := svc.ProcessBookingRequest(context.Background(), userID, &request.CreateBookingRequest{
		ShowID:        show.ID.String(),
		SeatIDs:       seatIDStrings(seats),
		PaymentMethod: "upi",
	})
	require.NoError(t, err)
	require.NotNil(t, resp)

	assert.Equal(t, string(entity.BookingStatusConfirmed), resp.Status)
	assert.Equal(t, 750.0, resp.TotalAmount)
	assert.Len(t, resp.BookingCode, 8)
	assert.Equal(t, []string{"A1", "A2", "A3"}, resp.SeatLabels)
	assert.NotNil(t, resp.ConfirmedAt)

	// Seats are booked and every mutation bumped the version.
	for _, seat := range seats {
		stored := st.seats[seat.ID]
		assert.Equal(t, entity.SeatStatusBooked, stored.Status)
		assert.Equal(t, int64(3), stored.Version)
	}

	// Holds were consumed.
	for _, res := range st.reservations {
		assert.False(t, res.IsActive)
	}

	// One success transaction with the gateway reference.
	require.Len(t, st.transactions, 1)
	assert.Equal(t, entity.TransactionStatusSuccess, st.transactions[0].Status)
	assert.Equal(t, "TXN_4A9C02D1E7BB", st.transactions[0].GatewayTransactionID)
	assert.Equal(t, 750.0, st.transactions[0].Amount)
}

func TestProcessBookingRequest_SeatConflictRollsBackEverything(t *testing.T) {
	st := newMemStore()
	show, seats := seedShow(st, 3, 100)

	// Someone else already holds the last seat.
	st.seats[seats[2].ID].Status = entity.SeatStatusReserved
	st.seats[seats[2].ID].Version = 5

	svc := newBookingService(st, successGateway())

	_, err := svc.ProcessBookingRequest(context.Background(), uuid.New().String(), &request.CreateBookingRequest{
		ShowID:        show.ID.String(),
		SeatIDs:       seatIDStrings(seats),
		PaymentMethod: "card",
	})

	var unavailable *SeatUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, "A3", unavailable.SeatLabel)

	// The first two seats were flipped and must be back to their
	// pre-request state, version included.
	for _, seat := range seats[:2] {
		stored := st.seats[seat.ID]
		assert.Equal(t, entity.SeatStatusAvailable, stored.Status)
		assert.Equal(t, int64(1), stored.Version)
	}

	// Nothing from the losing attempt persists.
	assert.Empty(t, st.bookings)
	assert.Empty(t, st.reservations)
	assert.Empty(t, st.transactions)
}

func TestProcessBookingRequest_ConcurrentSingleWinner(t *testing.T) {
	st := newMemStore()
	show, seats := seedShow(st, 1, 180)
	svc := newBookingService(st, successGateway())

	const buyers = 8
	results := make(chan error, buyers)

	var wg sync.WaitGroup
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.ProcessBookingRequest(context.Background(), uuid.New().String(), &request.CreateBookingRequest{
				ShowID:        show.ID.String(),
				SeatIDs:       seatIDStrings(seats),
				PaymentMethod: "wallet",
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var confirmed, conflicts int
	for err := range results {
		if err == nil {
			confirmed++
			continue
		}
		var unavailable *SeatUnavailableError
		require.ErrorAs(t, err, &unavailable)
		conflicts++
	}

	assert.Equal(t, 1, confirmed)
	assert.Equal(t, buyers-1, conflicts)
	assert.Equal(t, entity.SeatStatusBooked, st.seats[seats[0].ID].Status)
	assert.Len(t, st.bookings, 1)
	assert.Len(t, st.transactions, 1)
}

func TestProcessBookingRequest_PaymentDeclined(t *testing.T) {
	st := newMemStore()
	show, seats := seedShow(st, 2, 300)
	svc := newBookingService(st, &stubGateway{
		charge: func(ctx context.Context, amount float64, bookingCode string) (string, error) {
			return "", payment.ErrDeclined
		},
	})

	_, err := svc.ProcessBookingRequest(context.Background(), uuid.New().String(), &request.CreateBookingRequest{
		ShowID:        show.ID.String(),
		SeatIDs:       seatIDStrings(seats),
		PaymentMethod: "netbanking",
	})

	var declined *PaymentDeclinedError
	require.ErrorAs(t, err, &declined)

	// Seats go straight back to the pool without waiting for expiry.
	for _, seat := range seats {
		assert.Equal(t, entity.SeatStatusAvailable, st.seats[seat.ID].Status)
	}
	for _, res := range st.reservations {
		assert.False(t, res.IsActive)
	}

	// The failed attempt stays on record.
	require.Len(t, st.bookings, 1)
	for _, booking := range st.bookings {
		assert.Equal(t, entity.BookingStatusFailed, booking.Status)
		assert.Nil(t, booking.ConfirmedAt)
	}
	require.Len(t, st.transactions, 1)
	assert.Equal(t, entity.TransactionStatusFailed, st.transactions[0].Status)
	assert.True(t, strings.HasPrefix(st.transactions[0].GatewayTransactionID, "FAIL_"))
}

func TestProcessBookingRequest_LateDeclineSparesSuccessorHold(t *testing.T) {
	st := newMemStore()
	show, seats := seedShow(st, 1, 220)

	// The gateway stalls until the test says otherwise, then declines.
	entered := make(chan struct{})
	outcome := make(chan struct{})
	gateway := &stubGateway{
		charge: func(ctx context.Context, amount float64, bookingCode string) (string, error) {
			close(entered)
			<-outcome
			return "", payment.ErrDeclined
		},
	}

	// A negative TTL makes the hold lapse the moment it is written, so
	// the reclaimer can sweep it while the charge is still in flight.
	svc := NewBookingService(newMemRepository(st), gateway, -time.Minute, zap.NewNop())

	done := make(chan error, 1)
	go func() {
		_, err := svc.ProcessBookingRequest(context.Background(), uuid.New().String(), &request.CreateBookingRequest{
			ShowID:        show.ID.String(),
			SeatIDs:       seatIDStrings(seats),
			PaymentMethod: "card",
		})
		done <- err
	}()
	<-entered

	// The hold expires mid-payment and the reclaimer frees the seat.
	released, err := NewReclaimService(newMemRepository(st), zap.NewNop()).ReleaseExpiredSeats(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, released)

	// Another buyer grabs the freed seat before the decline lands.
	st.mu.Lock()
	rival := holdSeat(st, st.seats[seats[0].ID], time.Now().Add(10*time.Minute))
	st.mu.Unlock()

	close(outcome)
	var declined *PaymentDeclinedError
	require.ErrorAs(t, <-done, &declined)

	// The late decline retires only its own holds. The rival's hold must
	// still be live even though it sits on the same seat.
	assert.True(t, st.reservations[rival.ID].IsActive)

	for _, booking := range st.bookings {
		assert.Equal(t, entity.BookingStatusFailed, booking.Status)
	}

	// The seat release half still runs, so the seat is back in the pool.
	assert.Equal(t, entity.SeatStatusAvailable, st.seats[seats[0].ID].Status)
}

func TestProcessBookingRequest_UnknownGatewayErrorEscalates(t *testing.T) {
	st := newMemStore()
	show, seats := seedShow(st, 1, 120)
	svc := newBookingService(st, &stubGateway{
		charge: func(ctx context.Context, amount float64, bookingCode string) (string, error) {
			return "", errors.New("gateway timeout")
		},
	})

	_, err := svc.ProcessBookingRequest(context.Background(), uuid.New().String(), &request.CreateBookingRequest{
		ShowID:        show.ID.String(),
		SeatIDs:       seatIDStrings(seats),
		PaymentMethod: "upi",
	})

	var inconsistent *InconsistencyError
	require.ErrorAs(t, err, &inconsistent)
	assert.Equal(t, "payment", inconsistent.Stage)

	// No automatic rollback: the charge outcome is unknown, so the seat
	// stays held until the TTL lapses or an operator resolves it.
	assert.Equal(t, entity.SeatStatusReserved, st.seats[seats[0].ID].Status)
	for _, res := range st.reservations {
		assert.True(t, res.IsActive)
	}
	for _, booking := range st.bookings {
		assert.Equal(t, entity.BookingStatusPending, booking.Status)
	}
	assert.Empty(t, st.transactions)
}

func TestProcessBookingRequest_RejectsBadInput(t *testing.T) {
	st := newMemStore()
	show, seats := seedShow(st, 2, 100)
	svc := newBookingService(st, successGateway())
	userID := uuid.New().String()

	cases := []struct {
		name string
		req  *request.CreateBookingRequest
	}{
		{
			name: "no seats",
			req: &request.CreateBookingRequest{
				ShowID:        show.ID.String(),
				PaymentMethod: "upi",
			},
		},
		{
			name: "bad payment method",
			req: &request.CreateBookingRequest{
				ShowID:        show.ID.String(),
				SeatIDs:       seatIDStrings(seats),
				PaymentMethod: "cheque",
			},
		},
		{
			name: "duplicate seats",
			req: &request.CreateBookingRequest{
				ShowID:        show.ID.String(),
				SeatIDs:       []string{seats[0].ID.String(), seats[0].ID.String()},
				PaymentMethod: "upi",
			},
		},
		{
			name: "unknown show",
			req: &request.CreateBookingRequest{
				ShowID:        uuid.New().String(),
				SeatIDs:       seatIDStrings(seats),
				PaymentMethod: "upi",
			},
		},
		{
			name: "seat from another show",
			req: &request.CreateBookingRequest{
				ShowID:        show.ID.String(),
				SeatIDs:       []string{uuid.New().String()},
				PaymentMethod: "upi",
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.ProcessBookingRequest(context.Background(), userID, tc.req)

			var invalid *ValidationError
			require.ErrorAs(t, err, &invalid)
		})
	}

	// No request got far enough to mutate anything.
	for _, seat := range seats {
		assert.Equal(t, entity.SeatStatusAvailable, st.seats[seat.ID].Status)
		assert.Equal(t, int64(1), st.seats[seat.ID].Version)
	}
	assert.Empty(t, st.bookings)
}

func TestGetUserBookings_PaginatesNewestFirst(t *testing.T) {
	st := newMemStore()
	show, seats := seedShow(st, 1, 90)
	svc := newBookingService(st, successGateway())
	userID := uuid.New()

	base := time.Now()
	for i := 0; i < 3; i++ {
		booking := &entity.Booking{
			ID:          uuid.New(),
			UserID:      userID,
			ShowID:      show.ID,
			BookingCode: uuid.NewString()[:8],
			TotalAmount: 90,
			Status:      entity.BookingStatusConfirmed,
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}
		st.bookings[booking.ID] = booking
		st.bookingSeats[booking.ID] = []uuid.UUID{seats[0].ID}
	}

	page, err := svc.GetUserBookings(context.Background(), userID.String(), &request.PaginatedRequest{Page: 1, PerPage: 2})
	require.NoError(t, err)

	assert.Equal(t, int64(3), page.Pagination.Total)
	assert.Equal(t, 2, page.Pagination.TotalPages)
	require.Len(t, page.Data, 2)
	assert.True(t, page.Data[0].CreatedAt.After(page.Data[1].CreatedAt))
}

// labelFailBookingRepo fails seat label lookups while behaving normally
// otherwise.
type labelFailBookingRepo struct {
	*memBookingRepo
	err error
}

func (r *labelFailBookingRepo) FindSeatLabels(ctx context.Context, bookingID uuid.UUID) ([]string, error) {
	return nil, r.err
}

func TestGetUserBookings_SurfacesSeatLabelError(t *testing.T) {
	st := newMemStore()
	show, seats := seedShow(st, 1, 90)
	userID := uuid.New()

	booking := &entity.Booking{
		ID:          uuid.New(),
		UserID:      userID,
		ShowID:      show.ID,
		BookingCode: "AB12CD34",
		TotalAmount: 90,
		Status:      entity.BookingStatusConfirmed,
		CreatedAt:   time.Now(),
	}
	st.bookings[booking.ID] = booking
	st.bookingSeats[booking.ID] = []uuid.UUID{seats[0].ID}

	repo := newMemRepository(st)
	labelErr := errors.New("labels query failed")
	repo.Booking = &labelFailBookingRepo{memBookingRepo: &memBookingRepo{st: st}, err: labelErr}

	svc := NewBookingService(repo, successGateway(), 10*time.Minute, zap.NewNop())

	_, err := svc.GetUserBookings(context.Background(), userID.String(), &request.PaginatedRequest{Page: 1, PerPage: 10})
	require.ErrorIs(t, err, labelErr)
}

func TestGetBookingByCode_IncludesTransactions(t *testing.T) {
	st := newMemStore()
	show, seats := seedShow(st, 2, 200)
	svc := newBookingService(st, successGateway())

	resp, err := svc.ProcessBookingRequest(context.Background(), uuid.New().String(), &request.CreateBookingRequest{
		ShowID:        show.ID.String(),
		SeatIDs:       seatIDStrings(seats),
		PaymentMethod: "card",
	})
	require.NoError(t, err)

	detail, err := svc.GetBookingByCode(context.Background(), resp.BookingCode)
	require.NoError(t, err)

	assert.Equal(t, resp.BookingCode, detail.BookingCode)
	assert.Equal(t, []string{"A1", "A2"}, detail.SeatLabels)
	require.Len(t, detail.Transactions, 1)
	assert.Equal(t, string(entity.TransactionStatusSuccess), detail.Transactions[0].Status)

	_, err = svc.GetBookingByCode(context.Background(), "NOPE1234")
	var invalid *ValidationError
	require.ErrorAs(t, err, &invalid)
}
