package models

import "time"

const (
	BookingPending   = "Pending"
	BookingConfirmed = "Confirmed"
	BookingCancelled = "Cancelled"
)

// Booking reserves Seats on a shuttle. SeatsLeft snapshots the shuttle's
// remaining inventory right after the decrement; it is informational and
// never written back to the shuttle.
type Booking struct {
	ID            int64     `json:"id"`
	PassengerName string    `json:"passenger_name"`
	ShuttleID     int64     `json:"shuttle_id"`
	Origin        string    `json:"origin"`
	Destination   string    `json:"destination"`
	DepartureDate string    `json:"departure_date"`
	DepartureTime string    `json:"departure_time"`
	Duration      string    `json:"duration"`
	PickupWindow  int       `json:"pickup_window"`
	Seats         int       `json:"seats"`
	SeatsLeft     int       `json:"seats_left"`
	PricePerSeat  float64   `json:"price_per_seat"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// BookingPatch supports partial updates via field presence. Status moves
// through the transition rules in the booking service, never directly.
type BookingPatch struct {
	PassengerName *string
	Origin        *string
	Destination   *string
	DepartureDate *string
	DepartureTime *string
	Duration      *string
	PickupWindow  *int
	Status        *string
}

// ValidBookingTransition reports whether a status change is allowed.
// Cancelled is terminal.
func ValidBookingTransition(from, to string) bool {
	switch from {
	case BookingPending:
		return to == BookingConfirmed || to == BookingCancelled
	case BookingConfirmed:
		return to == BookingCancelled
	default:
		return false
	}
}
