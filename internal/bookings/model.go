package bookings

import "time"

// Booking records one guest stay and its payout.
type Booking struct {
	ID           int64     `json:"id"`
	PropertyID   int64     `json:"property_id"`
	GuestName    string    `json:"guest_name"`
	PayoutAmount float64   `json:"payout_amount"`
	CheckIn      time.Time `json:"check_in"`
	CheckOut     time.Time `json:"check_out"`
	CreatedAt    time.Time `json:"created_at"`
}
