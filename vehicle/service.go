package vehicle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"fleetops/auth"
)

// ErrValidation signals a missing or malformed field in a write request.
var ErrValidation = errors.New("vehicle: validation error")

// Service handles vehicle lifecycle business logic. Role-gated operations
// take the actor's verified identity explicitly.
type Service struct {
	repo        Repository
	idGenerator func() string
	now         func() time.Time
}

// NewService creates a new vehicle service.
func NewService(repo Repository) *Service {
	return &Service{
		repo:        repo,
		idGenerator: func() string { return uuid.NewString() },
		now:         time.Now,
	}
}

// WithIDGenerator overrides id generation, for tests.
func (s *Service) WithIDGenerator(gen func() string) *Service {
	s.idGenerator = gen
	return s
}

// WithClock overrides the time source, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Create registers a new fleet asset. Admins and fleet managers only.
// A missing status defaults to AVAILABLE.
func (s *Service) Create(ctx context.Context, actor auth.Identity, params CreateParams) (Vehicle, error) {
	if err := auth.Authorize(actor.Role, auth.OpCreateVehicle); err != nil {
		return Vehicle{}, err
	}
	if params.Name == "" {
		return Vehicle{}, fmt.Errorf("vehicle: name required: %w", ErrValidation)
	}
	if params.LicensePlate == "" {
		return Vehicle{}, fmt.Errorf("vehicle: license plate required: %w", ErrValidation)
	}

	status := params.Status
	if status == "" {
		status = StatusAvailable
	}

	now := s.now().UTC()
	v := Vehicle{
		ID:               s.idGenerator(),
		Name:             params.Name,
		LicensePlate:     params.LicensePlate,
		Type:             params.Type,
		Model:            params.Model,
		Status:           status,
		Capacity:         params.Capacity,
		FuelType:         params.FuelType,
		LastServiceDate:  params.LastServiceDate,
		NextServiceDue:   params.NextServiceDue,
		AssignedDriverID: params.AssignedDriverID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	return s.repo.Create(ctx, v)
}

// Replace overwrites the enumerated mutable field set of an existing vehicle
// from the caller-supplied record, status and driver assignment included.
// The status value is stored as given; transition legality is not checked.
func (s *Service) Replace(ctx context.Context, actor auth.Identity, id string, params ReplaceParams) (Vehicle, error) {
	if err := auth.Authorize(actor.Role, auth.OpUpdateVehicle); err != nil {
		return Vehicle{}, err
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Vehicle{}, err
	}

	existing.Name = params.Name
	existing.LicensePlate = params.LicensePlate
	existing.Type = params.Type
	existing.Model = params.Model
	existing.Status = params.Status
	existing.Capacity = params.Capacity
	existing.FuelType = params.FuelType
	existing.AssignedDriverID = params.AssignedDriverID
	existing.UpdatedAt = s.now().UTC()

	return s.repo.Update(ctx, existing)
}

// Delete removes a vehicle. Admin only.
func (s *Service) Delete(ctx context.Context, actor auth.Identity, id string) error {
	if err := auth.Authorize(actor.Role, auth.OpDeleteVehicle); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// GetByAssignedDriver returns the vehicle currently assigned to the driver.
// Drivers and admins only. When multiple rows carry the same assignment the
// most recently updated one wins; nothing enforces uniqueness at write time.
func (s *Service) GetByAssignedDriver(ctx context.Context, actor auth.Identity, driverID string) (Vehicle, error) {
	if err := auth.Authorize(actor.Role, auth.OpVehicleByDriver); err != nil {
		return Vehicle{}, err
	}
	return s.repo.GetByAssignedDriver(ctx, driverID)
}

// GetByID returns a single vehicle. Open to any caller.
func (s *Service) GetByID(ctx context.Context, id string) (Vehicle, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns the whole fleet. Open to any caller.
func (s *Service) List(ctx context.Context) ([]Vehicle, error) {
	return s.repo.List(ctx)
}
