package booking

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository handles data access for bookings.
type Repository interface {
	Create(ctx context.Context, b Booking) (Booking, error)
	List(ctx context.Context) ([]Booking, error)
	ListByCustomer(ctx context.Context, customerID string) ([]Booking, error)
}

const bookingColumns = `id, customer_id, customer_name, pickup_address, destination_address, requested_time, notes, created_at`

// PGRepository implements Repository backed by PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

func (r *PGRepository) Create(ctx context.Context, b Booking) (Booking, error) {
	insertSQL := `
		INSERT INTO bookings (id, customer_id, customer_name, pickup_address, destination_address, requested_time, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + bookingColumns

	created, err := scanBooking(r.pool.QueryRow(ctx, insertSQL,
		b.ID, b.CustomerID, b.CustomerName, b.PickupAddress, b.DestinationAddress,
		b.RequestedTime, b.Notes, b.CreatedAt,
	))
	if err != nil {
		return Booking{}, fmt.Errorf("booking: create: %w", err)
	}
	return created, nil
}

func (r *PGRepository) List(ctx context.Context) ([]Booking, error) {
	return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings ORDER BY created_at DESC`)
}

func (r *PGRepository) ListByCustomer(ctx context.Context, customerID string) ([]Booking, error) {
	return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE customer_id = $1 ORDER BY created_at DESC`, customerID)
}

func (r *PGRepository) list(ctx context.Context, query string, args ...any) ([]Booking, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("booking: list: %w", err)
	}
	defer rows.Close()

	bookings := []Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("booking: scan: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("booking: iterate: %w", err)
	}

	return bookings, nil
}

func scanBooking(row pgx.Row) (Booking, error) {
	var b Booking
	err := row.Scan(
		&b.ID,
		&b.CustomerID,
		&b.CustomerName,
		&b.PickupAddress,
		&b.DestinationAddress,
		&b.RequestedTime,
		&b.Notes,
		&b.CreatedAt,
	)
	if err != nil {
		return Booking{}, err
	}
	return b, nil
}
