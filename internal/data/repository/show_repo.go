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

type ShowRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Show, error)
	ListByVenueAndDate(ctx context.Context, venueID uuid.UUID, date time.Time) ([]*entity.Show, error)
}

type showRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewShowRepository(db database.PgxIface, log *zap.Logger) ShowRepository {
	return &showRepository{
		db:  db,
		log: log.With(zap.String("repository", "show")),
	}
}

func (r *showRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Show, error) {
	query := `
		SELECT sh.id, sh.event_id, sh.screen_id, sh.venue_id, sh.show_datetime, sh.end_datetime, sh.is_active,
		       sh.created_at, sh.updated_at,
		       e.title, v.name, sc.name
		FROM shows sh
		JOIN events e ON e.id = sh.event_id
		JOIN venues v ON v.id = sh.venue_id
		JOIN screens sc ON sc.id = sh.screen_id
		WHERE sh.id = $1
	`

	var show entity.Show
	err := r.db.QueryRow(ctx, query, id).Scan(
		&show.ID,
		&show.EventID,
		&show.ScreenID,
		&show.VenueID,
		&show.ShowDatetime,
		&show.EndDatetime,
		&show.IsActive,
		&show.CreatedAt,
		&show.UpdatedAt,
		&show.EventTitle,
		&show.VenueName,
		&show.ScreenName,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find show by ID",
			zap.Error(err),
			zap.String("show_id", id.String()),
		)
		return nil, fmt.Errorf("failed to find show: %w", err)
	}

	return &show, nil
}

func (r *showRepository) ListByVenueAndDate(ctx context.Context, venueID uuid.UUID, date time.Time) ([]*entity.Show, error) {
	query := `
		SELECT sh.id, sh.event_id, sh.screen_id, sh.venue_id, sh.show_datetime, sh.end_datetime, sh.is_active,
		       sh.created_at, sh.updated_at,
		       e.title, v.name, sc.name
		FROM shows sh
		JOIN events e ON e.id = sh.event_id
		JOIN venues v ON v.id = sh.venue_id
		JOIN screens sc ON sc.id = sh.screen_id
		WHERE sh.venue_id = $1
		  AND sh.show_datetime >= $2
		  AND sh.show_datetime < $3
		  AND sh.is_active = true
		ORDER BY sh.show_datetime
	`

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	rows, err := r.db.Query(ctx, query, venueID, dayStart, dayEnd)
	if err != nil {
		r.log.Error("Failed to list shows",
			zap.Error(err),
			zap.String("venue_id", venueID.String()),
		)
		return nil, fmt.Errorf("failed to list shows: %w", err)
	}
	defer rows.Close()

	var shows []*entity.Show
	for rows.Next() {
		var show entity.Show
		err := rows.Scan(
			&show.ID,
			&show.EventID,
			&show.ScreenID,
			&show.VenueID,
			&show.ShowDatetime,
			&show.EndDatetime,
			&show.IsActive,
			&show.CreatedAt,
			&show.UpdatedAt,
			&show.EventTitle,
			&show.VenueName,
			&show.ScreenName,
		)
		if err != nil {
			r.log.Error("Failed to scan show row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan show: %w", err)
		}
		shows = append(shows, &show)
	}

	return shows, nil
}
