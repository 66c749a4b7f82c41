package models

import "time"

// CuratedStock is a user-selected symbol tracked on the dashboard. The
// record is owned by the external backend; Position defines display order.
type CuratedStock struct {
	ID        string    `json:"id"`
	Ticker    string    `json:"ticker"`
	Notes     string    `json:"notes,omitempty"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ThesisEntry is a dated free-text note attached to a curated stock.
type ThesisEntry struct {
	ID        string    `json:"id"`
	StockID   string    `json:"stock_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ChangeAction identifies the kind of row change pushed by the backend.
type ChangeAction string

const (
	ChangeCreate ChangeAction = "CREATE"
	ChangeUpdate ChangeAction = "UPDATE"
	ChangeDelete ChangeAction = "DELETE"
)

// ChangeEvent is one row-change notification from the backend's
// subscription channel.
type ChangeEvent struct {
	Table  string       `json:"table"`
	Action ChangeAction `json:"action"`
}
