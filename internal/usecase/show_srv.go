package usecase

import (
	"context"
	"fmt"
	"time"

	"ticketbooth/internal/data/repository"
	"ticketbooth/internal/dto/request"
	"ticketbooth/internal/dto/response"
	"ticketbooth/pkg/cache"
	"ticketbooth/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ShowService interface {
	ListShows(ctx context.Context, req *request.ListShowsRequest) ([]response.ShowResponse, error)
	GetSeatMap(ctx context.Context, showID string) (*response.SeatMapResponse, error)
}

type showService struct {
	repo  *repository.Repository
	cache *cache.Cache
	log   *zap.Logger
	now   func() time.Time
}

func NewShowService(repo *repository.Repository, c *cache.Cache, log *zap.Logger) ShowService {
	return &showService{
		repo:  repo,
		cache: c,
		log:   log.With(zap.String("service", "show")),
		now:   time.Now,
	}
}

// ListShows returns the schedule for a venue on a date, cached in Redis.
// Seat maps are never cached; only the schedule itself, which changes
// rarely compared to seat state.
func (s *showService) ListShows(ctx context.Context, req *request.ListShowsRequest) ([]response.ShowResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, &ValidationError{Message: "validation failed: " + utils.FormatValidationErrors(errs), Fields: errs}
	}

	venueID, err := uuid.Parse(req.VenueID)
	if err != nil {
		return nil, &ValidationError{Message: fmt.Sprintf("invalid venue ID format %s", req.VenueID)}
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, &ValidationError{Message: fmt.Sprintf("invalid date format %s, expected YYYY-MM-DD", req.Date)}
	}

	cacheKey := fmt.Sprintf("shows:venue:%s:date:%s", req.VenueID, req.Date)

	var cached []response.ShowResponse
	if err := s.cache.GetJSON(ctx, cacheKey, &cached); err == nil {
		return cached, nil
	} else if err != cache.ErrMiss {
		s.log.Warn("Show cache read failed", zap.Error(err), zap.String("key", cacheKey))
	}

	shows, err := s.repo.Show.ListByVenueAndDate(ctx, venueID, date)
	if err != nil {
		return nil, fmt.Errorf("list shows: %w", err)
	}

	showResponses := make([]response.ShowResponse, len(shows))
	for i, show := range shows {
		showResponses[i] = response.ShowToResponse(show)
	}

	if err := s.cache.SetJSON(ctx, cacheKey, showResponses, s.cacheTTL(date)); err != nil {
		s.log.Warn("Show cache write failed", zap.Error(err), zap.String("key", cacheKey))
	}

	return showResponses, nil
}

// cacheTTL bounds a schedule entry by the end of its day: an entry for
// today expires at midnight, never later. Past dates are frozen and get
// a long TTL.
func (s *showService) cacheTTL(date time.Time) time.Duration {
	now := s.now()
	dayEnd := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	if dayEnd.Before(now) {
		return 7 * 24 * time.Hour
	}
	ttl := dayEnd.Sub(now)
	if ttl > time.Hour {
		ttl = time.Hour
	}
	if ttl < time.Minute {
		ttl = time.Minute
	}
	return ttl
}

// GetSeatMap returns live seat availability for a show. Deliberately
// uncached: a stale map turns into a wave of seat conflicts on checkout.
func (s *showService) GetSeatMap(ctx context.Context, showID string) (*response.SeatMapResponse, error) {
	id, err := uuid.Parse(showID)
	if err != nil {
		return nil, &ValidationError{Message: fmt.Sprintf("invalid show ID format %s", showID)}
	}

	show, err := s.repo.Show.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find show: %w", err)
	}
	if show == nil {
		return nil, &ValidationError{Message: fmt.Sprintf("show %s not found", showID)}
	}

	seats, err := s.repo.ShowSeat.FindByShowID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find show seats: %w", err)
	}

	entries := make([]response.SeatMapEntry, len(seats))
	for i, seat := range seats {
		entries[i] = response.SeatToMapEntry(seat)
	}

	return &response.SeatMapResponse{
		ShowID: showID,
		Seats:  entries,
	}, nil
}
