package models

import "time"

// Shuttle is a static route offering. Seats is the remaining bookable
// inventory; Capacity is the seat count at creation and never changes,
// so refunds can be capped at the original size.
type Shuttle struct {
	ID        int64     `json:"id"`
	Route     string    `json:"route"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	Duration  string    `json:"duration"`
	Pickup    string    `json:"pickup"`
	Seats     int       `json:"seats"`
	Capacity  int       `json:"capacity"`
	Price     float64   `json:"price"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ShuttlePatch supports partial updates via field presence.
type ShuttlePatch struct {
	Route    *string
	Date     *string
	Time     *string
	Duration *string
	Pickup   *string
	Seats    *int
	Price    *float64
}
