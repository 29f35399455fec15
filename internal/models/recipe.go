package models

import "time"

// Recipe represents a user-authored brew procedure tied to one Sort.
type Recipe struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	UserID string `json:"userId"`
	SortID string `json:"sortId"`

	CoffeeMass float64 `json:"coffeeMass"` // grams
	WaterMass  int     `json:"waterMass"`  // milliliters
	WaterTemp  int     `json:"waterTemp"`  // celsius
	Grinding   float64 `json:"grinding"`

	// Self-rated, 0-10. Nullable: not every author fills these in.
	Acidity *int `json:"acidity,omitempty"`
	TDS     *int `json:"tds,omitempty"`

	Body      string    `json:"body"` // brew steps
	CreatedAt time.Time `json:"createdAt"`
}
