package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type countingReclaim struct {
	calls    atomic.Int32
	inFlight atomic.Int32
	maxSeen  atomic.Int32
	delay    time.Duration
}

func (c *countingReclaim) ReleaseExpiredSeats(ctx context.Context) (int, error) {
	cur := c.inFlight.Add(1)
	defer c.inFlight.Add(-1)

	for {
		seen := c.maxSeen.Load()
		if cur <= seen || c.maxSeen.CompareAndSwap(seen, cur) {
			break
		}
	}

	if c.delay > 0 {
		select {
		case <-time.After(c.delay):
		case <-ctx.Done():
		}
	}
	c.calls.Add(1)
	return 0, nil
}

func TestReclaimer_SweepsOnInterval(t *testing.T) {
	svc := &countingReclaim{}
	r := NewReclaimer(svc, 10*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	r.Start(ctx)

	assert.Eventually(t, func() bool {
		return svc.calls.Load() >= 3
	}, time.Second, 5*time.Millisecond)

	cancel()
	r.Wait()
}

func TestReclaimer_SkipsOverlappingSweeps(t *testing.T) {
	// Sweeps take much longer than the tick interval; ticks that land
	// while one is running must be dropped, not queued up.
	svc := &countingReclaim{delay: 30 * time.Millisecond}
	r := NewReclaimer(svc, 5*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	r.Start(ctx)

	assert.Eventually(t, func() bool {
		return svc.calls.Load() >= 2
	}, time.Second, 5*time.Millisecond)

	cancel()
	r.Wait()

	assert.Equal(t, int32(1), svc.maxSeen.Load())
}

func TestReclaimer_StopsOnCancel(t *testing.T) {
	svc := &countingReclaim{}
	r := NewReclaimer(svc, 5*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	r.Start(ctx)

	time.Sleep(20 * time.Millisecond)
	cancel()
	r.Wait()

	after := svc.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, svc.calls.Load())
}
