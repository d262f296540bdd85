package adaptor

import (
	"errors"
	"net/http"

	"ticketbooth/internal/usecase"
	"ticketbooth/pkg/utils"

	"go.uber.org/zap"
)

// writeServiceError maps typed service errors onto HTTP status codes.
// Seat conflicts are 409, declined payments 402, bad input 400, and an
// inconsistency is a 500 with a generic body; its details stay in the
// logs for reconciliation.
func writeServiceError(w http.ResponseWriter, log *zap.Logger, operation string, err error) {
	var unavailable *usecase.SeatUnavailableError
	if errors.As(err, &unavailable) {
		utils.ResponseConflict(w, unavailable.Error())
		return
	}

	var declined *usecase.PaymentDeclinedError
	if errors.As(err, &declined) {
		utils.ResponsePaymentRequired(w, declined.Error())
		return
	}

	var invalid *usecase.ValidationError
	if errors.As(err, &invalid) {
		utils.ResponseBadRequest(w, invalid.Message, invalid.Fields)
		return
	}

	var inconsistent *usecase.InconsistencyError
	if errors.As(err, &inconsistent) {
		utils.ResponseInternalError(w, "Booking could not be completed, please contact support")
		return
	}

	log.Error("Unhandled service error",
		zap.Error(err),
		zap.String("operation", operation),
	)
	utils.ResponseInternalError(w, "Internal server error")
}
