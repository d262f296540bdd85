package entity

type Event struct {
	Base
	Title       string `db:"title"`
	EventType   string `db:"event_type"` // movie, concert, play
	Language    string `db:"language"`
	DurationMin int    `db:"duration_min"`
	IsActive    bool   `db:"is_active"`
}
