package booking

import "time"

// Booking mirrors the bookings table. It is a plain durable record with no
// lifecycle transitions.
type Booking struct {
	ID                 string
	CustomerID         string
	CustomerName       string
	PickupAddress      string
	DestinationAddress string
	RequestedTime      *time.Time
	Notes              string
	CreatedAt          time.Time
}

// CreateParams contains write parameters for creating bookings.
type CreateParams struct {
	CustomerID         string
	CustomerName       string
	PickupAddress      string
	DestinationAddress string
	RequestedTime      *time.Time
	Notes              string
}
