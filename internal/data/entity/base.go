package entity

import (
	"time"

	"github.com/google/uuid"
)

// Base carries the columns shared by soft-deletable tables.
type Base struct {
	ID        uuid.UUID  `db:"id"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

// BaseSimple is for rows that keep no update or delete bookkeeping,
// such as sessions and payment transactions.
type BaseSimple struct {
	ID        uuid.UUID `db:"id"`
	CreatedAt time.Time `db:"created_at"`
}
