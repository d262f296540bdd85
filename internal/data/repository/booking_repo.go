package repository

import (
	"context"
	"fmt"
	"time"

	"ticketbooth/internal/data/entity"
	"ticketbooth/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BookingRepository interface {
	Create(ctx context.Context, q database.Querier, booking *entity.Booking) error
	AddSeats(ctx context.Context, q database.Querier, bookingID uuid.UUID, seatIDs []uuid.UUID) error

	// UpdateStatus moves a pending booking to a terminal state. Returns
	// false when the booking was not pending anymore; terminal states
	// are never overwritten.
	UpdateStatus(ctx context.Context, q database.Querier, bookingID uuid.UUID, status entity.BookingStatus, confirmedAt *time.Time) (bool, error)

	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByCode(ctx context.Context, code string) (*entity.Booking, error)
	FindSeatIDs(ctx context.Context, bookingID uuid.UUID) ([]uuid.UUID, error)
	FindSeatLabels(ctx context.Context, bookingID uuid.UUID) ([]string, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error)
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

func (r *bookingRepository) Create(ctx context.Context, q database.Querier, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (id, user_id, show_id, booking_code, total_amount, status, created_at, confirmed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := q.Exec(ctx, query,
		booking.ID,
		booking.UserID,
		booking.ShowID,
		booking.BookingCode,
		booking.TotalAmount,
		booking.Status,
		booking.CreatedAt,
		booking.ConfirmedAt,
	)

	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("user_id", booking.UserID.String()),
			zap.String("booking_code", booking.BookingCode),
		)
		return fmt.Errorf("failed to create booking: %w", err)
	}

	return nil
}

func (r *bookingRepository) AddSeats(ctx context.Context, q database.Querier, bookingID uuid.UUID, seatIDs []uuid.UUID) error {
	if len(seatIDs) == 0 {
		return nil
	}

	query := `INSERT INTO booking_show_seats (booking_id, show_seat_id) VALUES `
	args := []interface{}{}

	for i, seatID := range seatIDs {
		if i > 0 {
			query += ", "
		}
		query += fmt.Sprintf("($%d, $%d)", i*2+1, i*2+2)
		args = append(args, bookingID, seatID)
	}

	_, err := q.Exec(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to add booking seats",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
			zap.Int("seat_count", len(seatIDs)),
		)
		return fmt.Errorf("failed to add booking seats: %w", err)
	}

	return nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, q database.Querier, bookingID uuid.UUID, status entity.BookingStatus, confirmedAt *time.Time) (bool, error) {
	query := `
		UPDATE bookings
		SET status = $2, confirmed_at = COALESCE($3, confirmed_at)
		WHERE id = $1 AND status = $4
	`

	result, err := q.Exec(ctx, query, bookingID, status, confirmedAt, entity.BookingStatusPending)
	if err != nil {
		r.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
			zap.String("status", string(status)),
		)
		return false, fmt.Errorf("failed to update booking status: %w", err)
	}

	return result.RowsAffected() == 1, nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `
		SELECT id, user_id, show_id, booking_code, total_amount, status, created_at, confirmed_at
		FROM bookings
		WHERE id = $1
	`

	return r.scanOne(ctx, query, id)
}

func (r *bookingRepository) FindByCode(ctx context.Context, code string) (*entity.Booking, error) {
	query := `
		SELECT id, user_id, show_id, booking_code, total_amount, status, created_at, confirmed_at
		FROM bookings
		WHERE booking_code = $1
	`

	return r.scanOne(ctx, query, code)
}

func (r *bookingRepository) scanOne(ctx context.Context, query string, arg any) (*entity.Booking, error) {
	var booking entity.Booking
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&booking.ID,
		&booking.UserID,
		&booking.ShowID,
		&booking.BookingCode,
		&booking.TotalAmount,
		&booking.Status,
		&booking.CreatedAt,
		&booking.ConfirmedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking", zap.Error(err))
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}

	return &booking, nil
}

func (r *bookingRepository) FindSeatIDs(ctx context.Context, bookingID uuid.UUID) ([]uuid.UUID, error) {
	query := `SELECT show_seat_id FROM booking_show_seats WHERE booking_id = $1`

	rows, err := r.db.Query(ctx, query, bookingID)
	if err != nil {
		r.log.Error("Failed to find booking seats",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("failed to find booking seats: %w", err)
	}
	defer rows.Close()

	var seatIDs []uuid.UUID
	for rows.Next() {
		var seatID uuid.UUID
		if err := rows.Scan(&seatID); err != nil {
			r.log.Error("Failed to scan booking seat row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan booking seat: %w", err)
		}
		seatIDs = append(seatIDs, seatID)
	}

	return seatIDs, nil
}

func (r *bookingRepository) FindSeatLabels(ctx context.Context, bookingID uuid.UUID) ([]string, error) {
	query := `
		SELECT s.seat_row || s.number::text AS seat_label
		FROM booking_show_seats bss
		JOIN show_seats ss ON ss.id = bss.show_seat_id
		JOIN seats s ON s.id = ss.seat_id
		WHERE bss.booking_id = $1
		ORDER BY s.seat_row, s.number
	`

	rows, err := r.db.Query(ctx, query, bookingID)
	if err != nil {
		r.log.Error("Failed to find booking seat labels",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("failed to find booking seat labels: %w", err)
	}
	defer rows.Close()

	var labels []string
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			r.log.Error("Failed to scan seat label row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan seat label: %w", err)
		}
		labels = append(labels, label)
	}

	return labels, nil
}

func (r *bookingRepository) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	query := `
		SELECT id, user_id, show_id, booking_code, total_amount, status, created_at, confirmed_at
		FROM bookings
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find bookings by user",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		var booking entity.Booking
		err := rows.Scan(
			&booking.ID,
			&booking.UserID,
			&booking.ShowID,
			&booking.BookingCode,
			&booking.TotalAmount,
			&booking.Status,
			&booking.CreatedAt,
			&booking.ConfirmedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, &booking)
	}

	return bookings, nil
}

func (r *bookingRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE user_id = $1`

	var count int64
	if err := r.db.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		r.log.Error("Failed to count bookings", zap.Error(err), zap.String("user_id", userID.String()))
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	return count, nil
}
