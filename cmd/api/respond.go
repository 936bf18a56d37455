package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"fleetops/auth"
	"fleetops/booking"
	"fleetops/trip"
	"fleetops/vehicle"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError maps domain errors onto HTTP statuses. Authentication failures
// (401) and authorization failures (403) stay distinct, and absence (404) is
// never reported as a fault. Anything unrecognized is a 500.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidToken):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid credentials"})
	case errors.Is(err, auth.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "insufficient role"})
	case errors.Is(err, auth.ErrUserNotFound),
		errors.Is(err, vehicle.ErrNotFound),
		errors.Is(err, trip.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, auth.ErrDuplicateEmail),
		errors.Is(err, auth.ErrInvalidRole),
		errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, vehicle.ErrValidation):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		s.log.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

type userResponse struct {
	ID             string  `json:"id"`
	Email          string  `json:"email"`
	Name           string  `json:"name"`
	Phone          string  `json:"phone"`
	LicenseNumber  *string `json:"license_number,omitempty"`
	Role           string  `json:"role"`
	ApprovalStatus string  `json:"approval_status"`
	CreatedAt      string  `json:"created_at"`
}

// toUserResponse builds the outward view of an account.
// The password hash is never echoed back.
func toUserResponse(u auth.User) userResponse {
	return userResponse{
		ID:             u.ID,
		Email:          u.Email,
		Name:           u.Name,
		Phone:          u.Phone,
		LicenseNumber:  u.LicenseNumber,
		Role:           string(u.Role),
		ApprovalStatus: string(u.ApprovalStatus),
		CreatedAt:      u.CreatedAt.Format(time.RFC3339),
	}
}

type signinResponse struct {
	Token     string       `json:"token"`
	ExpiresAt string       `json:"expires_at"`
	User      userResponse `json:"user"`
}

type vehicleResponse struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	LicensePlate     string  `json:"license_plate"`
	Type             string  `json:"type"`
	Model            string  `json:"model"`
	Status           string  `json:"status"`
	Capacity         *int    `json:"capacity,omitempty"`
	FuelType         string  `json:"fuel_type"`
	LastServiceDate  *string `json:"last_service_date,omitempty"`
	NextServiceDue   *string `json:"next_service_due,omitempty"`
	AssignedDriverID *string `json:"assigned_driver_id,omitempty"`
}

func toVehicleResponse(v vehicle.Vehicle) vehicleResponse {
	return vehicleResponse{
		ID:               v.ID,
		Name:             v.Name,
		LicensePlate:     v.LicensePlate,
		Type:             v.Type,
		Model:            v.Model,
		Status:           string(v.Status),
		Capacity:         v.Capacity,
		FuelType:         v.FuelType,
		LastServiceDate:  formatTimePtr(v.LastServiceDate),
		NextServiceDue:   formatTimePtr(v.NextServiceDue),
		AssignedDriverID: v.AssignedDriverID,
	}
}

type tripResponse struct {
	ID           string        `json:"id"`
	DriverID     string        `json:"driver_id"`
	VehicleID    string        `json:"vehicle_id"`
	CustomerID   string        `json:"customer_id"`
	CustomerName string        `json:"customer_name"`
	Status       string        `json:"status"`
	Pickup       trip.Location `json:"pickup"`
	Destination  trip.Location `json:"destination"`
	StartTime    string        `json:"start_time"`
	EndTime      *string       `json:"end_time,omitempty"`
}

func toTripResponse(t trip.Trip) tripResponse {
	return tripResponse{
		ID:           t.ID,
		DriverID:     t.DriverID,
		VehicleID:    t.VehicleID,
		CustomerID:   t.CustomerID,
		CustomerName: t.CustomerName,
		Status:       string(t.Status),
		Pickup:       t.Pickup,
		Destination:  t.Destination,
		StartTime:    t.StartTime.Format(time.RFC3339),
		EndTime:      formatTimePtr(t.EndTime),
	}
}

type bookingResponse struct {
	ID                 string  `json:"id"`
	CustomerID         string  `json:"customer_id"`
	CustomerName       string  `json:"customer_name"`
	PickupAddress      string  `json:"pickup_address"`
	DestinationAddress string  `json:"destination_address"`
	RequestedTime      *string `json:"requested_time,omitempty"`
	Notes              string  `json:"notes"`
	CreatedAt          string  `json:"created_at"`
}

func toBookingResponse(b booking.Booking) bookingResponse {
	return bookingResponse{
		ID:                 b.ID,
		CustomerID:         b.CustomerID,
		CustomerName:       b.CustomerName,
		PickupAddress:      b.PickupAddress,
		DestinationAddress: b.DestinationAddress,
		RequestedTime:      formatTimePtr(b.RequestedTime),
		Notes:              b.Notes,
		CreatedAt:          b.CreatedAt.Format(time.RFC3339),
	}
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
