package trip

import "time"

// Status is the lifecycle state of a trip, persisted as a string.
// SetStatus applies whatever target the caller supplies without validating
// the transition; the COMPLETED end-time binding is the only enforced side
// effect. That looseness is inherited behavior and a known correctness gap.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
)

// Location is a geographic point with a human-readable address.
type Location struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address"`
}

// Trip is a single ride/job instance. CustomerName is a denormalized copy
// taken at creation time.
type Trip struct {
	ID           string
	DriverID     string
	VehicleID    string
	CustomerID   string
	CustomerName string
	Status       Status
	Pickup       Location
	Destination  Location
	StartTime    time.Time
	EndTime      *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateParams contains the fields accepted when requesting a trip.
// Status and start time are not accepted: creation always yields a PENDING
// trip stamped with the creation instant.
type CreateParams struct {
	DriverID     string
	VehicleID    string
	CustomerID   string
	CustomerName string
	Pickup       Location
	Destination  Location
}
