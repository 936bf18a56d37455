package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrUserNotFound signals that the user does not exist.
	ErrUserNotFound = errors.New("auth: user not found")
	// ErrDuplicateEmail signals that the email is already registered.
	ErrDuplicateEmail = errors.New("auth: email already exists")
)

// Repository handles data access for accounts.
type Repository interface {
	CreateUser(ctx context.Context, params CreateUserParams) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetUserByID(ctx context.Context, userID string) (User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ListUsers(ctx context.Context) ([]User, error)
	UpdateApprovalStatus(ctx context.Context, userID string, status ApprovalStatus) (User, error)
	CountByRole(ctx context.Context, role Role) (int64, error)
	CountByRoleAndApproval(ctx context.Context, role Role, status ApprovalStatus) (int64, error)
}

// CreateUserParams contains write parameters for creating users.
type CreateUserParams struct {
	Email          string
	Name           string
	Phone          string
	LicenseNumber  *string
	PasswordHash   string
	Role           Role
	ApprovalStatus ApprovalStatus
}

const userColumns = `id, email, name, phone, license_number, password_hash, role, approval_status, created_at, updated_at`

// PGRepository implements Repository backed by PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a PostgreSQL-backed account repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// CreateUser inserts a new account with hashed password. The store assigns
// the id; a unique-violation on email maps to ErrDuplicateEmail so the race
// between ExistsByEmail and the insert still surfaces as a duplicate.
func (r *PGRepository) CreateUser(ctx context.Context, params CreateUserParams) (User, error) {
	insertSQL := `
		INSERT INTO users (email, name, phone, license_number, password_hash, role, approval_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + userColumns

	user, err := scanUser(r.pool.QueryRow(ctx, insertSQL,
		params.Email,
		params.Name,
		params.Phone,
		params.LicenseNumber,
		params.PasswordHash,
		params.Role,
		params.ApprovalStatus,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return User{}, ErrDuplicateEmail
		}
		return User{}, fmt.Errorf("auth: create user: %w", err)
	}

	return user, nil
}

// GetUserByEmail retrieves a user by email address.
func (r *PGRepository) GetUserByEmail(ctx context.Context, email string) (User, error) {
	selectSQL := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.pool.QueryRow(ctx, selectSQL, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, fmt.Errorf("auth: get user by email: %w", err)
	}

	return user, nil
}

// GetUserByID retrieves a user by ID.
func (r *PGRepository) GetUserByID(ctx context.Context, userID string) (User, error) {
	selectSQL := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.pool.QueryRow(ctx, selectSQL, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, fmt.Errorf("auth: get user by id: %w", err)
	}

	return user, nil
}

// ExistsByEmail reports whether an account with the email already exists.
func (r *PGRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("auth: exists by email: %w", err)
	}
	return exists, nil
}

// ListUsers returns all accounts ordered by creation time.
func (r *PGRepository) ListUsers(ctx context.Context) ([]User, error) {
	selectSQL := `SELECT ` + userColumns + ` FROM users ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, selectSQL)
	if err != nil {
		return nil, fmt.Errorf("auth: list users: %w", err)
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("auth: scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("auth: iterate users: %w", err)
	}

	return users, nil
}

// UpdateApprovalStatus sets the user's approval status unconditionally.
// Writing the current value again is a no-op that still succeeds.
func (r *PGRepository) UpdateApprovalStatus(ctx context.Context, userID string, status ApprovalStatus) (User, error) {
	updateSQL := `
		UPDATE users
		SET approval_status = $1, updated_at = now()
		WHERE id = $2
		RETURNING ` + userColumns

	user, err := scanUser(r.pool.QueryRow(ctx, updateSQL, status, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, fmt.Errorf("auth: update approval status: %w", err)
	}

	return user, nil
}

// CountByRole counts accounts holding the given role.
func (r *PGRepository) CountByRole(ctx context.Context, role Role) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role = $1`, role).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("auth: count by role: %w", err)
	}
	return count, nil
}

// CountByRoleAndApproval counts accounts holding the role in the given approval state.
func (r *PGRepository) CountByRoleAndApproval(ctx context.Context, role Role, status ApprovalStatus) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role = $1 AND approval_status = $2`, role, status).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("auth: count by role and approval: %w", err)
	}
	return count, nil
}

func scanUser(row pgx.Row) (User, error) {
	var (
		user    User
		license *string
	)
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.Phone,
		&license,
		&user.PasswordHash,
		&user.Role,
		&user.ApprovalStatus,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return User{}, err
	}

	user.LicenseNumber = license
	return user, nil
}
