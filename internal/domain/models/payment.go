package models

import "time"

const (
	PaymentPending   = "Pending"
	PaymentCompleted = "Completed"
	PaymentFailed    = "Failed"
	PaymentRefunded  = "Refunded"
)

// Payment optionally links to a booking. The link is advisory; a payment
// may exist before its booking is known.
type Payment struct {
	ID            int64     `json:"id"`
	PassengerName string    `json:"passenger_name"`
	ShuttleID     int64     `json:"shuttle_id"`
	BookingID     *int64    `json:"booking_id"`
	Amount        float64   `json:"amount"`
	Status        string    `json:"status"`
	PaymentDate   time.Time `json:"payment_date"`
}

// PaymentPatch supports partial updates via field presence.
type PaymentPatch struct {
	Amount *float64
	Status *string
}

// KnownPaymentStatus guards against free-form status strings on update.
func KnownPaymentStatus(s string) bool {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}
