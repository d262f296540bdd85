// Package payment defines the boundary to the external payment gateway.
// The gateway is an opaque, synchronous, fallible collaborator: a charge
// either yields a gateway transaction id or a decline. No idempotency-key
// contract is assumed, so callers must not retry a charge.
package payment

import (
	"context"
	"errors"
)

// ErrDeclined is the recognized rejection outcome. Any other error from
// Charge means the outcome is unknown to the caller.
var ErrDeclined = errors.New("payment declined")

type Gateway interface {
	// Charge attempts to capture amount for the given booking code and
	// returns the gateway transaction id on success.
	Charge(ctx context.Context, amount float64, bookingCode string) (string, error)
}
