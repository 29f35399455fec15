package models

import "time"

// Activity represents a loggable action in the community feed.
type Activity struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`  // e.g., "sort.created", "recipe.deleted"
	Level     string    `json:"level"` // e.g., "info", "warn"
	Message   string    `json:"message"`
	SubjectID *string   `json:"subjectId,omitempty"` // Nullable for system-wide entries
	CreatedAt time.Time `json:"createdAt"`
}
