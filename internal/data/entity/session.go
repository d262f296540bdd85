package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session is a refresh token grant. A session is live while RevokedAt
// is nil and ExpiresAt is in the future; logout sets RevokedAt.
type Session struct {
	BaseSimple
	UserID    uuid.UUID  `db:"user_id"`
	Token     uuid.UUID  `db:"token"`
	UserAgent *string    `db:"user_agent"`
	IPAddress *string    `db:"ip_address"`
	ExpiresAt time.Time  `db:"expires_at"`
	RevokedAt *time.Time `db:"revoked_at"`
}
