package dashboard

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"fleetops/auth"
	"fleetops/vehicle"
)

// VehicleCounter is the slice of the vehicle repository the aggregator reads.
type VehicleCounter interface {
	CountAll(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status vehicle.Status) (int64, error)
}

// UserCounter is the slice of the account repository the aggregator reads.
type UserCounter interface {
	CountByRole(ctx context.Context, role auth.Role) (int64, error)
	CountByRoleAndApproval(ctx context.Context, role auth.Role, status auth.ApprovalStatus) (int64, error)
}

// Stats is a point-in-time snapshot of fleet health. ActiveDrivers equals
// ActiveVehicles: the driver side is not measured independently.
type Stats struct {
	TotalVehicles          int64 `json:"totalVehicles"`
	ActiveVehicles         int64 `json:"activeVehicles"`
	VehiclesNeedingService int64 `json:"vehiclesNeedingService"`
	TotalDrivers           int64 `json:"totalDrivers"`
	ActiveDrivers          int64 `json:"activeDrivers"`
	PendingApprovals       int64 `json:"pendingApprovals"`
}

// Service derives dashboard statistics from current store state.
// Nothing is cached; every call re-queries.
type Service struct {
	vehicles VehicleCounter
	users    UserCounter
}

// NewService creates a new dashboard service.
func NewService(vehicles VehicleCounter, users UserCounter) *Service {
	return &Service{vehicles: vehicles, users: users}
}

// Stats fans the count queries out concurrently and assembles the snapshot.
// The counts are independent reads, so a row changing mid-call can skew
// adjacent counters against each other; the snapshot is best-effort.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	var stats Stats

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.vehicles.CountAll(ctx)
		stats.TotalVehicles = n
		return err
	})
	g.Go(func() error {
		n, err := s.vehicles.CountByStatus(ctx, vehicle.StatusInUse)
		stats.ActiveVehicles = n
		return err
	})
	g.Go(func() error {
		n, err := s.vehicles.CountByStatus(ctx, vehicle.StatusNeedsService)
		stats.VehiclesNeedingService = n
		return err
	})
	g.Go(func() error {
		n, err := s.users.CountByRole(ctx, auth.RoleDriver)
		stats.TotalDrivers = n
		return err
	})
	g.Go(func() error {
		n, err := s.users.CountByRoleAndApproval(ctx, auth.RoleDriver, auth.ApprovalPending)
		stats.PendingApprovals = n
		return err
	})
	if err := g.Wait(); err != nil {
		return Stats{}, fmt.Errorf("dashboard: compute stats: %w", err)
	}

	stats.ActiveDrivers = stats.ActiveVehicles
	return stats, nil
}
