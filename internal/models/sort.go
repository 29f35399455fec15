package models

import "time"

// Sort represents an admin-curated coffee bean origin/variety.
// The title is unique and immutable after creation; UserID records the
// administrator who added it.
type Sort struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Bouquet     string    `json:"bouquet,omitempty"`
	Description string    `json:"description,omitempty"`
	UserID      string    `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
}
