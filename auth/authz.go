package auth

import "errors"

// ErrForbidden signals the actor's role is insufficient for the operation.
// It is deliberately distinct from ErrInvalidCredentials and ErrInvalidToken:
// the caller is authenticated, just not allowed.
var ErrForbidden = errors.New("auth: forbidden")

// Operation names a role-gated action.
type Operation string

const (
	OpListUsers       Operation = "list-all-users"
	OpApproveDriver   Operation = "approve-driver"
	OpRejectDriver    Operation = "reject-driver"
	OpCreateVehicle   Operation = "create-vehicle"
	OpUpdateVehicle   Operation = "update-vehicle"
	OpDeleteVehicle   Operation = "delete-vehicle"
	OpVehicleByDriver Operation = "get-vehicle-by-driver"
)

// requiredRoles maps each operation to the roles allowed to perform it.
// Membership in any listed role is sufficient; no operation requires more
// than one role at once.
var requiredRoles = map[Operation][]Role{
	OpListUsers:       {RoleAdmin},
	OpApproveDriver:   {RoleAdmin},
	OpRejectDriver:    {RoleAdmin},
	OpDeleteVehicle:   {RoleAdmin},
	OpCreateVehicle:   {RoleAdmin, RoleFleetManager},
	OpUpdateVehicle:   {RoleAdmin, RoleFleetManager},
	OpVehicleByDriver: {RoleDriver, RoleAdmin},
}

// Authorize returns nil when role may perform op, ErrForbidden otherwise.
// Unknown operations are denied rather than treated as a fault.
func Authorize(role Role, op Operation) error {
	allowed, ok := requiredRoles[op]
	if !ok {
		return ErrForbidden
	}
	for _, r := range allowed {
		if r == role {
			return nil
		}
	}
	return ErrForbidden
}
