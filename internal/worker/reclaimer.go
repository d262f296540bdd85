package worker

import (
	"context"
	"sync"
	"time"

	"ticketbooth/internal/usecase"

	"go.uber.org/zap"
)

// Reclaimer periodically sweeps expired seat holds back to the available
// pool. Runs in its own goroutine; stop it by cancelling the context
// passed to Start, then Wait for the final sweep to finish.
type Reclaimer struct {
	service  usecase.ReclaimService
	interval time.Duration
	log      *zap.Logger

	// running serializes sweeps within the process. The manual admin
	// trigger shares the service, and the row locks in the sweep handle
	// cross-process overlap.
	running sync.Mutex
	wg      sync.WaitGroup
}

func NewReclaimer(service usecase.ReclaimService, interval time.Duration, log *zap.Logger) *Reclaimer {
	return &Reclaimer{
		service:  service,
		interval: interval,
		log:      log.With(zap.String("worker", "reclaimer")),
	}
}

func (r *Reclaimer) Start(ctx context.Context) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		r.log.Info("Reclaimer started", zap.Duration("interval", r.interval))
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				r.log.Info("Reclaimer stopped")
				return
			case <-ticker.C:
				r.sweep(ctx)
			}
		}
	}()
}

// Wait blocks until the loop goroutine has exited.
func (r *Reclaimer) Wait() {
	r.wg.Wait()
}

func (r *Reclaimer) sweep(ctx context.Context) {
	if !r.running.TryLock() {
		r.log.Debug("Sweep still in progress, skipping tick")
		return
	}
	defer r.running.Unlock()

	released, err := r.service.ReleaseExpiredSeats(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		r.log.Error("Sweep failed", zap.Error(err))
		return
	}
	if released > 0 {
		r.log.Info("Sweep complete", zap.Int("seats_released", released))
	}
}
