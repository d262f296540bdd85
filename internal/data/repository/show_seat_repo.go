package repository

import (
	"context"
	"fmt"

	"ticketbooth/internal/data/entity"
	"ticketbooth/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ShowSeatRepository is the seat inventory store. TryTransition,
// ReleaseIfStatus and MarkBooked are the only mutations; the first two are
// conditional so concurrent writers serialize per seat on status+version
// without any mutex. Mutating methods take the transaction Querier
// explicitly because they only ever run inside an atomic unit.
type ShowSeatRepository interface {
	FindForShow(ctx context.Context, q database.Querier, showID uuid.UUID, seatIDs []uuid.UUID) ([]*entity.ShowSeat, error)
	FindByShowID(ctx context.Context, showID uuid.UUID) ([]*entity.ShowSeat, error)

	// TryTransition flips a single seat from the expected status to next,
	// incrementing version, iff both status and version still match.
	// Returns false with no writes when the seat lost the race.
	TryTransition(ctx context.Context, q database.Querier, seatID uuid.UUID, expected entity.SeatStatus, expectedVersion int64, next entity.SeatStatus) (bool, error)

	// ReleaseIfStatus reverts to available only the seats still in the
	// expected status; seats in any other status are silently skipped.
	ReleaseIfStatus(ctx context.Context, q database.Querier, seatIDs []uuid.UUID, expected entity.SeatStatus) (int64, error)

	// MarkBooked is unconditional and is valid only on the confirm path,
	// where the caller holds the seats via its prior reservation.
	MarkBooked(ctx context.Context, q database.Querier, seatIDs []uuid.UUID) error
}

type showSeatRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewShowSeatRepository(db database.PgxIface, log *zap.Logger) ShowSeatRepository {
	return &showSeatRepository{
		db:  db,
		log: log.With(zap.String("repository", "show_seat")),
	}
}

func (r *showSeatRepository) FindForShow(ctx context.Context, q database.Querier, showID uuid.UUID, seatIDs []uuid.UUID) ([]*entity.ShowSeat, error) {
	if len(seatIDs) == 0 {
		return []*entity.ShowSeat{}, nil
	}

	query := `
		SELECT ss.id, ss.show_id, ss.seat_id, ss.price, ss.status, ss.version, ss.updated_at,
		       s.seat_row || s.number::text AS seat_label
		FROM show_seats ss
		JOIN seats s ON s.id = ss.seat_id
		WHERE ss.show_id = $1 AND ss.id = ANY($2)
		ORDER BY s.seat_row, s.number
	`

	rows, err := q.Query(ctx, query, showID, seatIDs)
	if err != nil {
		r.log.Error("Failed to find show seats",
			zap.Error(err),
			zap.String("show_id", showID.String()),
			zap.Int("seat_count", len(seatIDs)),
		)
		return nil, fmt.Errorf("failed to find show seats: %w", err)
	}
	defer rows.Close()

	var seats []*entity.ShowSeat
	for rows.Next() {
		var seat entity.ShowSeat
		err := rows.Scan(
			&seat.ID,
			&seat.ShowID,
			&seat.SeatID,
			&seat.Price,
			&seat.Status,
			&seat.Version,
			&seat.UpdatedAt,
			&seat.SeatLabel,
		)
		if err != nil {
			r.log.Error("Failed to scan show seat row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan show seat: %w", err)
		}
		seats = append(seats, &seat)
	}

	return seats, nil
}

func (r *showSeatRepository) FindByShowID(ctx context.Context, showID uuid.UUID) ([]*entity.ShowSeat, error) {
	query := `
		SELECT ss.id, ss.show_id, ss.seat_id, ss.price, ss.status, ss.version, ss.updated_at,
		       s.seat_row || s.number::text AS seat_label
		FROM show_seats ss
		JOIN seats s ON s.id = ss.seat_id
		WHERE ss.show_id = $1
		ORDER BY s.seat_row, s.number
	`

	rows, err := r.db.Query(ctx, query, showID)
	if err != nil {
		r.log.Error("Failed to list show seats",
			zap.Error(err),
			zap.String("show_id", showID.String()),
		)
		return nil, fmt.Errorf("failed to list show seats: %w", err)
	}
	defer rows.Close()

	var seats []*entity.ShowSeat
	for rows.Next() {
		var seat entity.ShowSeat
		err := rows.Scan(
			&seat.ID,
			&seat.ShowID,
			&seat.SeatID,
			&seat.Price,
			&seat.Status,
			&seat.Version,
			&seat.UpdatedAt,
			&seat.SeatLabel,
		)
		if err != nil {
			r.log.Error("Failed to scan show seat row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan show seat: %w", err)
		}
		seats = append(seats, &seat)
	}

	return seats, nil
}

func (r *showSeatRepository) TryTransition(ctx context.Context, q database.Querier, seatID uuid.UUID, expected entity.SeatStatus, expectedVersion int64, next entity.SeatStatus) (bool, error) {
	query := `
		UPDATE show_seats
		SET status = $4, version = version + 1, updated_at = NOW()
		WHERE id = $1 AND status = $2 AND version = $3
	`

	result, err := q.Exec(ctx, query, seatID, expected, expectedVersion, next)
	if err != nil {
		r.log.Error("Failed to transition show seat",
			zap.Error(err),
			zap.String("seat_id", seatID.String()),
			zap.String("from", string(expected)),
			zap.String("to", string(next)),
		)
		return false, fmt.Errorf("failed to transition show seat: %w", err)
	}

	return result.RowsAffected() == 1, nil
}

func (r *showSeatRepository) ReleaseIfStatus(ctx context.Context, q database.Querier, seatIDs []uuid.UUID, expected entity.SeatStatus) (int64, error) {
	if len(seatIDs) == 0 {
		return 0, nil
	}

	query := `
		UPDATE show_seats
		SET status = $3, version = version + 1, updated_at = NOW()
		WHERE id = ANY($1) AND status = $2
	`

	result, err := q.Exec(ctx, query, seatIDs, expected, entity.SeatStatusAvailable)
	if err != nil {
		r.log.Error("Failed to release show seats",
			zap.Error(err),
			zap.Int("seat_count", len(seatIDs)),
			zap.String("expected_status", string(expected)),
		)
		return 0, fmt.Errorf("failed to release show seats: %w", err)
	}

	return result.RowsAffected(), nil
}

func (r *showSeatRepository) MarkBooked(ctx context.Context, q database.Querier, seatIDs []uuid.UUID) error {
	if len(seatIDs) == 0 {
		return nil
	}

	query := `
		UPDATE show_seats
		SET status = $2, version = version + 1, updated_at = NOW()
		WHERE id = ANY($1)
	`

	result, err := q.Exec(ctx, query, seatIDs, entity.SeatStatusBooked)
	if err != nil {
		r.log.Error("Failed to mark show seats booked",
			zap.Error(err),
			zap.Int("seat_count", len(seatIDs)),
		)
		return fmt.Errorf("failed to mark show seats booked: %w", err)
	}

	if result.RowsAffected() != int64(len(seatIDs)) {
		r.log.Error("Booked seat count mismatch",
			zap.Int64("updated", result.RowsAffected()),
			zap.Int("expected", len(seatIDs)),
		)
		return fmt.Errorf("marked %d of %d seats booked", result.RowsAffected(), len(seatIDs))
	}

	return nil
}
