package auth

import (
	"strings"
	"time"
)

// Role is the closed set of identity categories used for authorization.
type Role string

const (
	RoleAdmin        Role = "ADMIN"
	RoleFleetManager Role = "FLEET_MANAGER"
	RoleDriver       Role = "DRIVER"
	RoleCustomer     Role = "CUSTOMER"
)

// ApprovalStatus gates whether a DRIVER account may be treated as active.
// Non-driver accounts are created APPROVED and never transition.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "PENDING"
	ApprovalApproved ApprovalStatus = "APPROVED"
	ApprovalRejected ApprovalStatus = "REJECTED"
)

// User is the domain representation of an account.
// It mirrors the users table and should not include JSON annotations so it
// can be reused by different presentation layers.
type User struct {
	ID             string
	Email          string
	Name           string
	Phone          string
	LicenseNumber  *string
	PasswordHash   string
	Role           Role
	ApprovalStatus ApprovalStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Identity is a verified caller. Every role-gated operation takes the actor's
// Identity as an explicit argument; there is no ambient security context.
type Identity struct {
	UserID         string
	Email          string
	Name           string
	Role           Role
	ApprovalStatus ApprovalStatus
}

// RegisterRequest contains signup data supplied by callers.
// Role is the raw string as submitted; ParseRole normalizes it.
type RegisterRequest struct {
	Email         string `json:"email"`
	Password      string `json:"password"`
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	LicenseNumber string `json:"license_number"`
	Role          string `json:"role"`
}

// LoginRequest contains user login credentials.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Decision is an admin's verdict on a pending driver.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// ParseRole normalizes a raw role string (case-insensitive, spaces mapped to
// underscores) and matches it strictly against the closed role set.
// Unrecognized values return ErrInvalidRole; there is no guessing of intent.
func ParseRole(raw string) (Role, error) {
	normalized := strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(raw)), " ", "_")
	switch Role(normalized) {
	case RoleAdmin, RoleFleetManager, RoleDriver, RoleCustomer:
		return Role(normalized), nil
	default:
		return "", ErrInvalidRole
	}
}
