// Package seed installs demo accounts and vehicles for local development.
// Every write is guarded by an existence check, so running it repeatedly
// against the same database is safe.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"fleetops/auth"
	"fleetops/vehicle"
)

type demoUser struct {
	email    string
	password string
	name     string
	phone    string
	license  string
	role     auth.Role
}

var demoUsers = []demoUser{
	{"admin@fleetops.dev", "admin123", "Alex Administrator", "+1 555-0100", "", auth.RoleAdmin},
	{"manager@fleetops.dev", "manager123", "Morgan Fleet", "+1 555-0101", "", auth.RoleFleetManager},
	{"driver@fleetops.dev", "driver123", "Derek Driver", "+1 555-0102", "DL-2024-001", auth.RoleDriver},
	{"customer@fleetops.dev", "customer123", "Casey Customer", "+1 555-0103", "", auth.RoleCustomer},
}

type demoVehicle struct {
	name   string
	plate  string
	vtype  string
	status vehicle.Status
}

var demoVehicles = []demoVehicle{
	{"Swift Dzire #001", "KA-01-AB-1234", "CAR", vehicle.StatusAvailable},
	{"Innova Crysta #002", "KA-01-CD-5678", "VAN", vehicle.StatusInUse},
	{"Ather 450X #003", "KA-01-EF-9012", "BIKE", vehicle.StatusAvailable},
	{"Bajaj RE #004", "KA-01-GH-3456", "AUTO", vehicle.StatusNeedsService},
}

// Run installs the demo data set. The demo driver is created APPROVED so a
// fresh environment has a usable driver account without an admin round-trip.
func Run(ctx context.Context, log *slog.Logger, users auth.Repository, vehicles vehicle.Repository) error {
	count, err := vehicles.CountAll(ctx)
	if err != nil {
		return fmt.Errorf("seed: count vehicles: %w", err)
	}
	if count == 0 {
		now := time.Now().UTC()
		for _, dv := range demoVehicles {
			_, err := vehicles.Create(ctx, vehicle.Vehicle{
				ID:           uuid.NewString(),
				Name:         dv.name,
				LicensePlate: dv.plate,
				Type:         dv.vtype,
				Status:       dv.status,
				CreatedAt:    now,
				UpdatedAt:    now,
			})
			if err != nil {
				return fmt.Errorf("seed: create vehicle %s: %w", dv.name, err)
			}
		}
		log.Info("seeded demo vehicles", "count", len(demoVehicles))
	}

	for _, du := range demoUsers {
		exists, err := users.ExistsByEmail(ctx, du.email)
		if err != nil {
			return fmt.Errorf("seed: check %s: %w", du.email, err)
		}
		if exists {
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(du.password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("seed: hash password: %w", err)
		}

		var license *string
		if du.license != "" {
			l := du.license
			license = &l
		}

		if _, err := users.CreateUser(ctx, auth.CreateUserParams{
			Email:          du.email,
			Name:           du.name,
			Phone:          du.phone,
			LicenseNumber:  license,
			PasswordHash:   string(hash),
			Role:           du.role,
			ApprovalStatus: auth.ApprovalApproved,
		}); err != nil {
			return fmt.Errorf("seed: create user %s: %w", du.email, err)
		}
		log.Info("seeded demo user", "email", du.email, "role", du.role)
	}

	return nil
}
