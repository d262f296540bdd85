package repository

import (
	"context"
	"fmt"
	"time"

	"ticketbooth/internal/data/entity"
	"ticketbooth/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReservationRepository is the time-bound hold ledger. Holds are created in
// the same atomic unit as the seat reservation transitions and deactivated
// on confirmation, failure or reclamation. Deactivation is idempotent.
type ReservationRepository interface {
	CreateBatch(ctx context.Context, q database.Querier, reservations []*entity.SeatReservation) error

	// FindExpiredActive locks the returned rows (FOR UPDATE) so two
	// concurrent reclaimer runs cannot process the same batch twice.
	FindExpiredActive(ctx context.Context, q database.Querier, now time.Time) ([]*entity.SeatReservation, error)

	// Deactivate retires holds by their own IDs. Callers must pass the
	// IDs of holds they created; deactivating by seat would reach holds
	// that belong to someone else's later reservation.
	Deactivate(ctx context.Context, q database.Querier, ids []uuid.UUID) error
}

type reservationRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewReservationRepository(db database.PgxIface, log *zap.Logger) ReservationRepository {
	return &reservationRepository{
		db:  db,
		log: log.With(zap.String("repository", "reservation")),
	}
}

func (r *reservationRepository) CreateBatch(ctx context.Context, q database.Querier, reservations []*entity.SeatReservation) error {
	if len(reservations) == 0 {
		return nil
	}

	// Build batch insert
	query := `INSERT INTO seat_reservations (id, user_id, show_seat_id, reserved_at, expires_at, is_active) VALUES `
	args := []interface{}{}

	for i, res := range reservations {
		if i > 0 {
			query += ", "
		}
		query += fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d)",
			i*6+1, i*6+2, i*6+3, i*6+4, i*6+5, i*6+6)

		args = append(args,
			res.ID,
			res.UserID,
			res.ShowSeatID,
			res.ReservedAt,
			res.ExpiresAt,
			res.IsActive,
		)
	}

	_, err := q.Exec(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to create reservations",
			zap.Error(err),
			zap.Int("count", len(reservations)),
		)
		return fmt.Errorf("failed to create reservations: %w", err)
	}

	return nil
}

func (r *reservationRepository) FindExpiredActive(ctx context.Context, q database.Querier, now time.Time) ([]*entity.SeatReservation, error) {
	query := `
		SELECT id, user_id, show_seat_id, reserved_at, expires_at, is_active
		FROM seat_reservations
		WHERE is_active = true AND expires_at < $1
		FOR UPDATE
	`

	rows, err := q.Query(ctx, query, now)
	if err != nil {
		r.log.Error("Failed to find expired reservations", zap.Error(err))
		return nil, fmt.Errorf("failed to find expired reservations: %w", err)
	}
	defer rows.Close()

	var reservations []*entity.SeatReservation
	for rows.Next() {
		var res entity.SeatReservation
		err := rows.Scan(
			&res.ID,
			&res.UserID,
			&res.ShowSeatID,
			&res.ReservedAt,
			&res.ExpiresAt,
			&res.IsActive,
		)
		if err != nil {
			r.log.Error("Failed to scan reservation row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan reservation: %w", err)
		}
		reservations = append(reservations, &res)
	}

	return reservations, nil
}

func (r *reservationRepository) Deactivate(ctx context.Context, q database.Querier, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	// is_active guard makes a repeat deactivation a no-op.
	query := `UPDATE seat_reservations SET is_active = false WHERE id = ANY($1) AND is_active = true`

	_, err := q.Exec(ctx, query, ids)
	if err != nil {
		r.log.Error("Failed to deactivate reservations",
			zap.Error(err),
			zap.Int("count", len(ids)),
		)
		return fmt.Errorf("failed to deactivate reservations: %w", err)
	}

	return nil
}
