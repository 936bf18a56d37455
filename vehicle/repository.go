package vehicle

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound signals the requested vehicle does not exist.
var ErrNotFound = errors.New("vehicle: not found")

// Repository handles data access for fleet assets.
type Repository interface {
	Create(ctx context.Context, v Vehicle) (Vehicle, error)
	GetByID(ctx context.Context, id string) (Vehicle, error)
	GetByAssignedDriver(ctx context.Context, driverID string) (Vehicle, error)
	List(ctx context.Context) ([]Vehicle, error)
	Update(ctx context.Context, v Vehicle) (Vehicle, error)
	Delete(ctx context.Context, id string) error
	CountAll(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status Status) (int64, error)
}

const vehicleColumns = `id, name, license_plate, type, model, status, capacity, fuel_type, last_service_date, next_service_due, assigned_driver_id, created_at, updated_at`

// PGRepository implements Repository backed by PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository wires a pgxpool-backed repository implementation.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// Create inserts a new vehicle row.
func (r *PGRepository) Create(ctx context.Context, v Vehicle) (Vehicle, error) {
	insertSQL := `
		INSERT INTO vehicles (id, name, license_plate, type, model, status, capacity, fuel_type, last_service_date, next_service_due, assigned_driver_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + vehicleColumns

	created, err := scanVehicle(r.pool.QueryRow(ctx, insertSQL,
		v.ID, v.Name, v.LicensePlate, v.Type, v.Model, v.Status,
		v.Capacity, v.FuelType, v.LastServiceDate, v.NextServiceDue,
		v.AssignedDriverID, v.CreatedAt, v.UpdatedAt,
	))
	if err != nil {
		return Vehicle{}, fmt.Errorf("vehicle: create: %w", err)
	}
	return created, nil
}

// GetByID fetches a vehicle by its primary key.
func (r *PGRepository) GetByID(ctx context.Context, id string) (Vehicle, error) {
	selectSQL := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = $1`

	v, err := scanVehicle(r.pool.QueryRow(ctx, selectSQL, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Vehicle{}, ErrNotFound
		}
		return Vehicle{}, fmt.Errorf("vehicle: get by id: %w", err)
	}
	return v, nil
}

// GetByAssignedDriver fetches the vehicle assigned to the driver. The schema
// does not force the assignment to be unique, so the most recently updated
// row wins as a deterministic tie-break.
func (r *PGRepository) GetByAssignedDriver(ctx context.Context, driverID string) (Vehicle, error) {
	selectSQL := `
		SELECT ` + vehicleColumns + `
		FROM vehicles
		WHERE assigned_driver_id = $1
		ORDER BY updated_at DESC
		LIMIT 1
	`

	v, err := scanVehicle(r.pool.QueryRow(ctx, selectSQL, driverID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Vehicle{}, ErrNotFound
		}
		return Vehicle{}, fmt.Errorf("vehicle: get by assigned driver: %w", err)
	}
	return v, nil
}

// List returns all vehicles ordered by creation time.
func (r *PGRepository) List(ctx context.Context) ([]Vehicle, error) {
	selectSQL := `SELECT ` + vehicleColumns + ` FROM vehicles ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, selectSQL)
	if err != nil {
		return nil, fmt.Errorf("vehicle: list: %w", err)
	}
	defer rows.Close()

	vehicles := []Vehicle{}
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("vehicle: scan: %w", err)
		}
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("vehicle: iterate: %w", err)
	}

	return vehicles, nil
}

// Update overwrites the mutable columns of an existing row.
// Concurrent updates race with last-write-wins semantics.
func (r *PGRepository) Update(ctx context.Context, v Vehicle) (Vehicle, error) {
	updateSQL := `
		UPDATE vehicles
		SET name = $1, license_plate = $2, type = $3, model = $4, status = $5,
		    capacity = $6, fuel_type = $7, assigned_driver_id = $8, updated_at = $9
		WHERE id = $10
		RETURNING ` + vehicleColumns

	updated, err := scanVehicle(r.pool.QueryRow(ctx, updateSQL,
		v.Name, v.LicensePlate, v.Type, v.Model, v.Status,
		v.Capacity, v.FuelType, v.AssignedDriverID, v.UpdatedAt, v.ID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Vehicle{}, ErrNotFound
		}
		return Vehicle{}, fmt.Errorf("vehicle: update: %w", err)
	}
	return updated, nil
}

// Delete removes a vehicle row.
func (r *PGRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM vehicles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("vehicle: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CountAll counts all vehicles.
func (r *PGRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM vehicles`).Scan(&count); err != nil {
		return 0, fmt.Errorf("vehicle: count all: %w", err)
	}
	return count, nil
}

// CountByStatus counts vehicles in the given status.
func (r *PGRepository) CountByStatus(ctx context.Context, status Status) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM vehicles WHERE status = $1`, status).Scan(&count); err != nil {
		return 0, fmt.Errorf("vehicle: count by status: %w", err)
	}
	return count, nil
}

func scanVehicle(row pgx.Row) (Vehicle, error) {
	var v Vehicle
	err := row.Scan(
		&v.ID,
		&v.Name,
		&v.LicensePlate,
		&v.Type,
		&v.Model,
		&v.Status,
		&v.Capacity,
		&v.FuelType,
		&v.LastServiceDate,
		&v.NextServiceDue,
		&v.AssignedDriverID,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		return Vehicle{}, err
	}
	return v, nil
}
