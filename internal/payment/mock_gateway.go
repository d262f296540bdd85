package payment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MockGateway simulates the external provider: fixed network latency,
// declines on non-positive amounts. Stands in until a real integration
// replaces it behind the same interface.
type MockGateway struct {
	latency time.Duration
	log     *zap.Logger
}

func NewMockGateway(latency time.Duration, log *zap.Logger) *MockGateway {
	return &MockGateway{
		latency: latency,
		log:     log.With(zap.String("gateway", "mock")),
	}
}

func (g *MockGateway) Charge(ctx context.Context, amount float64, bookingCode string) (string, error) {
	select {
	case <-time.After(g.latency):
	case <-ctx.Done():
		return "", ctx.Err()
	}

	if amount <= 0 {
		g.log.Warn("Charge declined",
			zap.Float64("amount", amount),
			zap.String("booking_code", bookingCode),
		)
		return "", ErrDeclined
	}

	txnID := fmt.Sprintf("TXN_%s", strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:12]))

	g.log.Info("Charge captured",
		zap.Float64("amount", amount),
		zap.String("booking_code", bookingCode),
		zap.String("gateway_txn_id", txnID),
	)

	return txnID, nil
}
