package trip

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNoActiveTrip signals the driver has no trip in progress or pending.
// It reports absence, not a fault; the HTTP layer maps it to an empty reply.
var ErrNoActiveTrip = errors.New("trip: no active trip")

// Service handles trip lifecycle business logic.
type Service struct {
	repo        Repository
	idGenerator func() string
	now         func() time.Time
}

// NewService creates a new trip service.
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

// Create records a new trip. Status is forced to PENDING and the start time
// is bound exactly once to the creation instant, overriding any caller value.
func (s *Service) Create(ctx context.Context, params CreateParams) (Trip, error) {
	now := s.now().UTC()
	t := Trip{
		ID:           s.idGenerator(),
		DriverID:     params.DriverID,
		VehicleID:    params.VehicleID,
		CustomerID:   params.CustomerID,
		CustomerName: params.CustomerName,
		Status:       StatusPending,
		Pickup:       params.Pickup,
		Destination:  params.Destination,
		StartTime:    now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return s.repo.Create(ctx, t)
}

// SetStatus applies the caller-supplied target status unconditionally.
// Moving to COMPLETED binds the end time to the transition instant; no other
// target touches the timestamps.
func (s *Service) SetStatus(ctx context.Context, id string, status Status) (Trip, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Trip{}, err
	}

	t.Status = status
	if status == StatusCompleted {
		end := s.now().UTC()
		t.EndTime = &end
	}
	t.UpdatedAt = s.now().UTC()

	return s.repo.Update(ctx, t)
}

// ActiveForDriver returns the driver's current trip, preferring one in
// progress over one still pending. Absence is ErrNoActiveTrip.
func (s *Service) ActiveForDriver(ctx context.Context, driverID string) (Trip, error) {
	t, err := s.repo.GetByDriverAndStatus(ctx, driverID, StatusInProgress)
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Trip{}, err
	}

	t, err = s.repo.GetByDriverAndStatus(ctx, driverID, StatusPending)
	if err == nil {
		return t, nil
	}
	if errors.Is(err, ErrNotFound) {
		return Trip{}, ErrNoActiveTrip
	}
	return Trip{}, err
}

// ListForCustomer returns all trips booked by the customer.
func (s *Service) ListForCustomer(ctx context.Context, customerID string) ([]Trip, error) {
	return s.repo.ListByCustomer(ctx, customerID)
}

// GetByID returns a single trip.
func (s *Service) GetByID(ctx context.Context, id string) (Trip, error) {
	return s.repo.GetByID(ctx, id)
}
