package usecase

import (
	"context"
	"fmt"
	"time"

	"ticketbooth/internal/data/entity"
	"ticketbooth/internal/data/repository"
	"ticketbooth/internal/metrics"
	"ticketbooth/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReclaimService returns seats whose holds have lapsed to the available
// pool. It runs periodically from the background worker and on demand
// from the admin endpoint; both paths share the same atomic sweep.
type ReclaimService interface {
	ReleaseExpiredSeats(ctx context.Context) (int, error)
}

type reclaimService struct {
	repo *repository.Repository
	log  *zap.Logger
	now  func() time.Time
}

func NewReclaimService(repo *repository.Repository, log *zap.Logger) ReclaimService {
	return &reclaimService{
		repo: repo,
		log:  log.With(zap.String("service", "reclaim")),
		now:  time.Now,
	}
}

// ReleaseExpiredSeats sweeps in one atomic unit: expired holds are locked
// and deactivated first, then the seats they cover are released only if
// still in the held status. A seat a confirmed booking already moved on
// is left untouched. Returns the number of seats released.
func (s *reclaimService) ReleaseExpiredSeats(ctx context.Context) (int, error) {
	var released int64

	err := s.repo.Tx.WithinTx(ctx, func(q database.Querier) error {
		expired, err := s.repo.Reservation.FindExpiredActive(ctx, q, s.now())
		if err != nil {
			return err
		}
		if len(expired) == 0 {
			return nil
		}

		holdIDs := make([]uuid.UUID, len(expired))
		seatIDs := make([]uuid.UUID, 0, len(expired))
		seen := make(map[uuid.UUID]bool, len(expired))
		for i, res := range expired {
			holdIDs[i] = res.ID
			if !seen[res.ShowSeatID] {
				seen[res.ShowSeatID] = true
				seatIDs = append(seatIDs, res.ShowSeatID)
			}
		}

		// Holds die first so a crash between the two statements leaves
		// seats stuck until an operator intervenes rather than doubly
		// claimable. With the atomic unit both land or neither does.
		if err := s.repo.Reservation.Deactivate(ctx, q, holdIDs); err != nil {
			return err
		}

		released, err = s.repo.ShowSeat.ReleaseIfStatus(ctx, q, seatIDs, entity.SeatStatusReserved)
		if err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		s.log.Error("Reclaim sweep failed", zap.Error(err))
		return 0, fmt.Errorf("release expired seats: %w", err)
	}

	if released > 0 {
		s.log.Info("Released expired seat holds", zap.Int64("seats_released", released))
		metrics.AddSeatsReleased(int(released))
	}
	return int(released), nil
}
