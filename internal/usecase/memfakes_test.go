package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"ticketbooth/internal/data/entity"
	"ticketbooth/internal/data/repository"
	"ticketbooth/pkg/database"

	"github.com/google/uuid"
)

// memStore backs the fake repositories with plain maps. The fake
// TxManager serializes units of work on the store mutex and restores a
// snapshot when fn fails, mirroring commit/rollback closely enough to
// exercise the orchestrator's atomicity expectations.
type memStore struct {
	mu           sync.Mutex
	shows        map[uuid.UUID]*entity.Show
	seats        map[uuid.UUID]*entity.ShowSeat
	reservations map[uuid.UUID]*entity.SeatReservation
	bookings     map[uuid.UUID]*entity.Booking
	bookingSeats map[uuid.UUID][]uuid.UUID
	transactions []*entity.Transaction
}

func newMemStore() *memStore {
	return &memStore{
		shows:        make(map[uuid.UUID]*entity.Show),
		seats:        make(map[uuid.UUID]*entity.ShowSeat),
		reservations: make(map[uuid.UUID]*entity.SeatReservation),
		bookings:     make(map[uuid.UUID]*entity.Booking),
		bookingSeats: make(map[uuid.UUID][]uuid.UUID),
	}
}

type storeSnap struct {
	seats        map[uuid.UUID]entity.ShowSeat
	reservations map[uuid.UUID]entity.SeatReservation
	bookings     map[uuid.UUID]entity.Booking
	bookingSeats map[uuid.UUID][]uuid.UUID
	transactions []*entity.Transaction
}

func (s *memStore) snapshot() storeSnap {
	snap := storeSnap{
		seats:        make(map[uuid.UUID]entity.ShowSeat, len(s.seats)),
		reservations: make(map[uuid.UUID]entity.SeatReservation, len(s.reservations)),
		bookings:     make(map[uuid.UUID]entity.Booking, len(s.bookings)),
		bookingSeats: make(map[uuid.UUID][]uuid.UUID, len(s.bookingSeats)),
		transactions: append([]*entity.Transaction(nil), s.transactions...),
	}
	for id, seat := range s.seats {
		snap.seats[id] = *seat
	}
	for id, res := range s.reservations {
		snap.reservations[id] = *res
	}
	for id, b := range s.bookings {
		snap.bookings[id] = *b
	}
	for id, ids := range s.bookingSeats {
		snap.bookingSeats[id] = append([]uuid.UUID(nil), ids...)
	}
	return snap
}

func (s *memStore) restore(snap storeSnap) {
	s.seats = make(map[uuid.UUID]*entity.ShowSeat, len(snap.seats))
	for id, seat := range snap.seats {
		copied := seat
		s.seats[id] = &copied
	}
	s.reservations = make(map[uuid.UUID]*entity.SeatReservation, len(snap.reservations))
	for id, res := range snap.reservations {
		copied := res
		s.reservations[id] = &copied
	}
	s.bookings = make(map[uuid.UUID]*entity.Booking, len(snap.bookings))
	for id, b := range snap.bookings {
		copied := b
		s.bookings[id] = &copied
	}
	s.bookingSeats = snap.bookingSeats
	s.transactions = snap.transactions
}

// memTx holds the store mutex for the whole unit of work. Repository
// methods that take a Querier run lock-free because they only ever run
// inside WithinTx; the rest lock for themselves.
type memTx struct {
	st *memStore
}

func (t *memTx) WithinTx(ctx context.Context, fn func(q database.Querier) error) error {
	t.st.mu.Lock()
	defer t.st.mu.Unlock()

	snap := t.st.snapshot()
	if err := fn(nil); err != nil {
		t.st.restore(snap)
		return err
	}
	return nil
}

// ==================== SHOW SEATS ====================

type memSeatRepo struct {
	st *memStore
}

func (r *memSeatRepo) FindForShow(ctx context.Context, q database.Querier, showID uuid.UUID, seatIDs []uuid.UUID) ([]*entity.ShowSeat, error) {
	var out []*entity.ShowSeat
	for _, id := range seatIDs {
		seat, ok := r.st.seats[id]
		if !ok || seat.ShowID != showID {
			continue
		}
		copied := *seat
		out = append(out, &copied)
	}
	return out, nil
}

func (r *memSeatRepo) FindByShowID(ctx context.Context, showID uuid.UUID) ([]*entity.ShowSeat, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	var out []*entity.ShowSeat
	for _, seat := range r.st.seats {
		if seat.ShowID == showID {
			copied := *seat
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SeatLabel < out[j].SeatLabel })
	return out, nil
}

func (r *memSeatRepo) TryTransition(ctx context.Context, q database.Querier, seatID uuid.UUID, expected entity.SeatStatus, expectedVersion int64, next entity.SeatStatus) (bool, error) {
	seat, ok := r.st.seats[seatID]
	if !ok || seat.Status != expected || seat.Version != expectedVersion {
		return false, nil
	}
	seat.Status = next
	seat.Version++
	seat.UpdatedAt = time.Now()
	return true, nil
}

func (r *memSeatRepo) ReleaseIfStatus(ctx context.Context, q database.Querier, seatIDs []uuid.UUID, expected entity.SeatStatus) (int64, error) {
	var released int64
	for _, id := range seatIDs {
		seat, ok := r.st.seats[id]
		if !ok || seat.Status != expected {
			continue
		}
		seat.Status = entity.SeatStatusAvailable
		seat.Version++
		released++
	}
	return released, nil
}

func (r *memSeatRepo) MarkBooked(ctx context.Context, q database.Querier, seatIDs []uuid.UUID) error {
	for _, id := range seatIDs {
		seat, ok := r.st.seats[id]
		if !ok {
			return fmt.Errorf("seat %s not found", id)
		}
		seat.Status = entity.SeatStatusBooked
		seat.Version++
	}
	return nil
}

// ==================== RESERVATIONS ====================

type memReservationRepo struct {
	st *memStore
}

func (r *memReservationRepo) CreateBatch(ctx context.Context, q database.Querier, reservations []*entity.SeatReservation) error {
	for _, res := range reservations {
		copied := *res
		r.st.reservations[res.ID] = &copied
	}
	return nil
}

func (r *memReservationRepo) FindExpiredActive(ctx context.Context, q database.Querier, now time.Time) ([]*entity.SeatReservation, error) {
	var out []*entity.SeatReservation
	for _, res := range r.st.reservations {
		if res.IsActive && res.ExpiresAt.Before(now) {
			copied := *res
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *memReservationRepo) Deactivate(ctx context.Context, q database.Querier, ids []uuid.UUID) error {
	for _, id := range ids {
		if res, ok := r.st.reservations[id]; ok {
			res.IsActive = false
		}
	}
	return nil
}

// ==================== BOOKINGS ====================

type memBookingRepo struct {
	st *memStore
}

func (r *memBookingRepo) Create(ctx context.Context, q database.Querier, booking *entity.Booking) error {
	copied := *booking
	r.st.bookings[booking.ID] = &copied
	return nil
}

func (r *memBookingRepo) AddSeats(ctx context.Context, q database.Querier, bookingID uuid.UUID, seatIDs []uuid.UUID) error {
	r.st.bookingSeats[bookingID] = append([]uuid.UUID(nil), seatIDs...)
	return nil
}

func (r *memBookingRepo) UpdateStatus(ctx context.Context, q database.Querier, bookingID uuid.UUID, status entity.BookingStatus, confirmedAt *time.Time) (bool, error) {
	booking, ok := r.st.bookings[bookingID]
	if !ok || booking.Status != entity.BookingStatusPending {
		return false, nil
	}
	booking.Status = status
	if confirmedAt != nil {
		booking.ConfirmedAt = confirmedAt
	}
	return true, nil
}

func (r *memBookingRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	booking, ok := r.st.bookings[id]
	if !ok {
		return nil, nil
	}
	copied := *booking
	return &copied, nil
}

func (r *memBookingRepo) FindByCode(ctx context.Context, code string) (*entity.Booking, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	for _, booking := range r.st.bookings {
		if booking.BookingCode == code {
			copied := *booking
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *memBookingRepo) FindSeatIDs(ctx context.Context, bookingID uuid.UUID) ([]uuid.UUID, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	return append([]uuid.UUID(nil), r.st.bookingSeats[bookingID]...), nil
}

func (r *memBookingRepo) FindSeatLabels(ctx context.Context, bookingID uuid.UUID) ([]string, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	var labels []string
	for _, seatID := range r.st.bookingSeats[bookingID] {
		if seat, ok := r.st.seats[seatID]; ok {
			labels = append(labels, seat.SeatLabel)
		}
	}
	sort.Strings(labels)
	return labels, nil
}

func (r *memBookingRepo) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	var out []*entity.Booking
	for _, booking := range r.st.bookings {
		if booking.UserID == userID {
			copied := *booking
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *memBookingRepo) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	var count int64
	for _, booking := range r.st.bookings {
		if booking.UserID == userID {
			count++
		}
	}
	return count, nil
}

// ==================== TRANSACTIONS ====================

type memTxnRepo struct {
	st *memStore
}

func (r *memTxnRepo) Create(ctx context.Context, q database.Querier, txn *entity.Transaction) error {
	copied := *txn
	r.st.transactions = append(r.st.transactions, &copied)
	return nil
}

func (r *memTxnRepo) FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.Transaction, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	var out []*entity.Transaction
	for _, txn := range r.st.transactions {
		if txn.BookingID == bookingID {
			copied := *txn
			out = append(out, &copied)
		}
	}
	return out, nil
}

// ==================== SHOWS ====================

type memShowRepo struct {
	st *memStore
}

func (r *memShowRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Show, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	show, ok := r.st.shows[id]
	if !ok {
		return nil, nil
	}
	copied := *show
	return &copied, nil
}

func (r *memShowRepo) ListByVenueAndDate(ctx context.Context, venueID uuid.UUID, date time.Time) ([]*entity.Show, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var out []*entity.Show
	for _, show := range r.st.shows {
		if show.VenueID == venueID && show.IsActive &&
			!show.ShowDatetime.Before(dayStart) && show.ShowDatetime.Before(dayEnd) {
			copied := *show
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ShowDatetime.Before(out[j].ShowDatetime) })
	return out, nil
}

// ==================== WIRING HELPERS ====================

type stubGateway struct {
	charge func(ctx context.Context, amount float64, bookingCode string) (string, error)
}

func (g *stubGateway) Charge(ctx context.Context, amount float64, bookingCode string) (string, error) {
	return g.charge(ctx, amount, bookingCode)
}

func newMemRepository(st *memStore) *repository.Repository {
	return &repository.Repository{
		Tx:          &memTx{st: st},
		Show:        &memShowRepo{st: st},
		ShowSeat:    &memSeatRepo{st: st},
		Reservation: &memReservationRepo{st: st},
		Booking:     &memBookingRepo{st: st},
		Transaction: &memTxnRepo{st: st},
	}
}

// seedShow provisions an active show with n available seats labelled A1..An.
func seedShow(st *memStore, n int, price float64) (*entity.Show, []*entity.ShowSeat) {
	now := time.Now()
	show := &entity.Show{
		Base:         entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		EventID:      uuid.New(),
		ScreenID:     uuid.New(),
		VenueID:      uuid.New(),
		ShowDatetime: now.Add(4 * time.Hour),
		EndDatetime:  now.Add(6 * time.Hour),
		IsActive:     true,
		EventTitle:   "Test Event",
		VenueName:    "Test Venue",
		ScreenName:   "Screen 1",
	}
	st.shows[show.ID] = show

	seats := make([]*entity.ShowSeat, n)
	for i := 0; i < n; i++ {
		seat := &entity.ShowSeat{
			ID:        uuid.New(),
			ShowID:    show.ID,
			SeatID:    uuid.New(),
			Price:     price,
			Status:    entity.SeatStatusAvailable,
			Version:   1,
			UpdatedAt: now,
			SeatLabel: fmt.Sprintf("A%d", i+1),
		}
		st.seats[seat.ID] = seat
		seats[i] = seat
	}
	return show, seats
}

func seatIDStrings(seats []*entity.ShowSeat) []string {
	out := make([]string, len(seats))
	for i, seat := range seats {
		out[i] = seat.ID.String()
	}
	return out
}
