package models

import "time"

// Event represents a loggable action in the system, e.g. a puzzle solve
// or a featured-puzzle rotation. Recent events feed the dashboard's
// activity list and the live WebSocket stream.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`  // e.g. "puzzle.solved", "puzzle.featured"
	Level     string    `json:"level"` // e.g. "info", "warn"
	Message   string    `json:"message"`
	UserID    *string   `json:"userId,omitempty"`   // Nullable for system events
	PuzzleID  *string   `json:"puzzleId,omitempty"` // Nullable for user-only events
	CreatedAt time.Time `json:"createdAt"`
}
