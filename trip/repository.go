package trip

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound signals the requested trip does not exist.
var ErrNotFound = errors.New("trip: not found")

// Repository handles data access for trips.
type Repository interface {
	Create(ctx context.Context, t Trip) (Trip, error)
	GetByID(ctx context.Context, id string) (Trip, error)
	GetByDriverAndStatus(ctx context.Context, driverID string, status Status) (Trip, error)
	ListByCustomer(ctx context.Context, customerID string) ([]Trip, error)
	Update(ctx context.Context, t Trip) (Trip, error)
}

const tripColumns = `id, driver_id, vehicle_id, customer_id, customer_name, status, pickup_lat, pickup_lng, pickup_address, dest_lat, dest_lng, dest_address, start_time, end_time, created_at, updated_at`

// PGRepository implements Repository backed by PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository wires a pgxpool-backed repository implementation.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// Create inserts a new trip row.
func (r *PGRepository) Create(ctx context.Context, t Trip) (Trip, error) {
	insertSQL := `
		INSERT INTO trips (id, driver_id, vehicle_id, customer_id, customer_name, status,
		                   pickup_lat, pickup_lng, pickup_address, dest_lat, dest_lng, dest_address,
		                   start_time, end_time, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING ` + tripColumns

	created, err := scanTrip(r.pool.QueryRow(ctx, insertSQL,
		t.ID, t.DriverID, t.VehicleID, t.CustomerID, t.CustomerName, t.Status,
		t.Pickup.Lat, t.Pickup.Lng, t.Pickup.Address,
		t.Destination.Lat, t.Destination.Lng, t.Destination.Address,
		t.StartTime, t.EndTime, t.CreatedAt, t.UpdatedAt,
	))
	if err != nil {
		return Trip{}, fmt.Errorf("trip: create: %w", err)
	}
	return created, nil
}

// GetByID fetches a trip by its primary key.
func (r *PGRepository) GetByID(ctx context.Context, id string) (Trip, error) {
	selectSQL := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1`

	t, err := scanTrip(r.pool.QueryRow(ctx, selectSQL, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Trip{}, ErrNotFound
		}
		return Trip{}, fmt.Errorf("trip: get by id: %w", err)
	}
	return t, nil
}

// GetByDriverAndStatus fetches the driver's most recent trip in the status.
func (r *PGRepository) GetByDriverAndStatus(ctx context.Context, driverID string, status Status) (Trip, error) {
	selectSQL := `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE driver_id = $1 AND status = $2
		ORDER BY created_at DESC
		LIMIT 1
	`

	t, err := scanTrip(r.pool.QueryRow(ctx, selectSQL, driverID, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Trip{}, ErrNotFound
		}
		return Trip{}, fmt.Errorf("trip: get by driver and status: %w", err)
	}
	return t, nil
}

// ListByCustomer returns all trips for the customer, newest first.
func (r *PGRepository) ListByCustomer(ctx context.Context, customerID string) ([]Trip, error) {
	selectSQL := `SELECT ` + tripColumns + ` FROM trips WHERE customer_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, selectSQL, customerID)
	if err != nil {
		return nil, fmt.Errorf("trip: list by customer: %w", err)
	}
	defer rows.Close()

	trips := []Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("trip: scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("trip: iterate: %w", err)
	}

	return trips, nil
}

// Update overwrites the status and timestamps of an existing row.
func (r *PGRepository) Update(ctx context.Context, t Trip) (Trip, error) {
	updateSQL := `
		UPDATE trips
		SET status = $1, end_time = $2, updated_at = $3
		WHERE id = $4
		RETURNING ` + tripColumns

	updated, err := scanTrip(r.pool.QueryRow(ctx, updateSQL, t.Status, t.EndTime, t.UpdatedAt, t.ID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Trip{}, ErrNotFound
		}
		return Trip{}, fmt.Errorf("trip: update: %w", err)
	}
	return updated, nil
}

func scanTrip(row pgx.Row) (Trip, error) {
	var t Trip
	err := row.Scan(
		&t.ID,
		&t.DriverID,
		&t.VehicleID,
		&t.CustomerID,
		&t.CustomerName,
		&t.Status,
		&t.Pickup.Lat,
		&t.Pickup.Lng,
		&t.Pickup.Address,
		&t.Destination.Lat,
		&t.Destination.Lng,
		&t.Destination.Address,
		&t.StartTime,
		&t.EndTime,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return Trip{}, err
	}
	return t, nil
}
