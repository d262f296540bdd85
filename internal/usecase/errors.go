package usecase

import (
	"fmt"

	"github.com/google/uuid"
)

// The booking protocol surfaces three expected outcomes and one that is
// not. SeatUnavailable and PaymentDeclined are ordinary results callers
// branch on; Validation means no shared state was touched; Inconsistency
// means inventory and booking state may have diverged and an operator has
// to look, so it is never retried automatically.

// SeatUnavailableError reports the contested seat that aborted the lock
// phase. Nothing from the losing attempt persists.
type SeatUnavailableError struct {
	SeatLabel string
}

func (e *SeatUnavailableError) Error() string {
	return fmt.Sprintf("seat %s is no longer available", e.SeatLabel)
}

// PaymentDeclinedError means the gateway rejected the charge. The booking
// is recorded as failed and its seats are released.
type PaymentDeclinedError struct {
	BookingCode string
}

func (e *PaymentDeclinedError) Error() string {
	return fmt.Sprintf("payment declined for booking %s", e.BookingCode)
}

// ValidationError rejects a request before any mutation.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// InconsistencyError wraps an unexpected failure between a successful
// reservation and booking finalization.
type InconsistencyError struct {
	BookingID   uuid.UUID
	BookingCode string
	Stage       string
	Err         error
}

func (e *InconsistencyError) Error() string {
	return fmt.Sprintf("booking %s inconsistent at %s stage: %v", e.BookingCode, e.Stage, e.Err)
}

func (e *InconsistencyError) Unwrap() error {
	return e.Err
}
