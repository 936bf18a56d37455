package vehicle

import "time"

// Status is the lifecycle state of a fleet asset, persisted as a string.
// The set below covers the states the dashboard aggregates over, but the
// replace path stores whatever value the caller supplies without checking
// membership. That unchecked write is inherited behavior, not a guarantee.
type Status string

const (
	StatusAvailable    Status = "AVAILABLE"
	StatusInUse        Status = "IN_USE"
	StatusNeedsService Status = "NEEDS_SERVICE"
)

// Vehicle is a fleet asset. AssignedDriverID is a weak reference to a user;
// deleting the driver does not cascade.
type Vehicle struct {
	ID               string
	Name             string
	LicensePlate     string
	Type             string
	Model            string
	Status           Status
	Capacity         *int
	FuelType         string
	LastServiceDate  *time.Time
	NextServiceDue   *time.Time
	AssignedDriverID *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// CreateParams contains the fields accepted when registering a vehicle.
type CreateParams struct {
	Name             string
	LicensePlate     string
	Type             string
	Model            string
	Status           Status
	Capacity         *int
	FuelType         string
	LastServiceDate  *time.Time
	NextServiceDue   *time.Time
	AssignedDriverID *string
}

// ReplaceParams enumerates the mutable fields overwritten by Replace.
// Every field is applied unconditionally; there is no partial-update mode.
type ReplaceParams struct {
	Name             string
	LicensePlate     string
	Type             string
	Model            string
	Status           Status
	Capacity         *int
	FuelType         string
	AssignedDriverID *string
}
