package utils

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ==================== UUID & TOKEN ====================

func GenerateUUID() uuid.UUID {
	return uuid.New()
}

func ParseUUID(uuidStr string) (uuid.UUID, error) {
	return uuid.Parse(uuidStr)
}

func GenerateSessionToken() uuid.UUID {
	return uuid.New()
}

// ==================== BOOKING CODE ====================

// GenerateBookingCode returns a short human-readable code, e.g. "A1B2C3D4".
func GenerateBookingCode() string {
	hex := strings.ReplaceAll(uuid.New().String(), "-", "")
	return strings.ToUpper(hex[:8])
}

// ==================== GATEWAY TXN IDS ====================

// GenerateFailureTxnID labels the audit row for a declined payment attempt.
// Declined charges have no gateway id, so we mint one for uniqueness.
func GenerateFailureTxnID() string {
	hex := strings.ReplaceAll(uuid.New().String(), "-", "")
	return fmt.Sprintf("FAIL_%s", hex[:8])
}
