package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"fleetops/auth"
	"fleetops/booking"
	"fleetops/trip"
	"fleetops/vehicle"
)

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req auth.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	user, err := s.authService.Register(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toUserResponse(*user))
}

func (s *Server) handleSignin(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	result, err := s.authService.Login(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, signinResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt.Format(time.RFC3339),
		User:      toUserResponse(result.User),
	})
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requireIdentity(w, r)
	if !ok {
		return
	}

	users, err := s.authService.ListUsers(r.Context(), actor)
	if err != nil {
		s.writeError(w, err)
		return
	}

	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleApproveDriver(w http.ResponseWriter, r *http.Request) {
	s.handleDecision(w, r, auth.DecisionApprove)
}

func (s *Server) handleRejectDriver(w http.ResponseWriter, r *http.Request) {
	s.handleDecision(w, r, auth.DecisionReject)
}

func (s *Server) handleDecision(w http.ResponseWriter, r *http.Request, decision auth.Decision) {
	actor, ok := s.requireIdentity(w, r)
	if !ok {
		return
	}

	updated, err := s.authService.Decide(r.Context(), actor, chi.URLParam(r, "id"), decision)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(updated))
}

func (s *Server) handleListVehicles(w http.ResponseWriter, r *http.Request) {
	vehicles, err := s.vehicleService.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	out := make([]vehicleResponse, 0, len(vehicles))
	for _, v := range vehicles {
		out = append(out, toVehicleResponse(v))
	}
	writeJSON(w, http.StatusOK, out)
}

type vehicleRequest struct {
	Name             string  `json:"name"`
	LicensePlate     string  `json:"license_plate"`
	Type             string  `json:"type"`
	Model            string  `json:"model"`
	Status           string  `json:"status"`
	Capacity         *int    `json:"capacity"`
	FuelType         string  `json:"fuel_type"`
	AssignedDriverID *string `json:"assigned_driver_id"`
}

func (s *Server) handleCreateVehicle(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requireIdentity(w, r)
	if !ok {
		return
	}

	var req vehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	created, err := s.vehicleService.Create(r.Context(), actor, vehicle.CreateParams{
		Name:             req.Name,
		LicensePlate:     req.LicensePlate,
		Type:             req.Type,
		Model:            req.Model,
		Status:           vehicle.Status(req.Status),
		Capacity:         req.Capacity,
		FuelType:         req.FuelType,
		AssignedDriverID: req.AssignedDriverID,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toVehicleResponse(created))
}

func (s *Server) handleUpdateVehicle(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requireIdentity(w, r)
	if !ok {
		return
	}

	var req vehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	updated, err := s.vehicleService.Replace(r.Context(), actor, chi.URLParam(r, "id"), vehicle.ReplaceParams{
		Name:             req.Name,
		LicensePlate:     req.LicensePlate,
		Type:             req.Type,
		Model:            req.Model,
		Status:           vehicle.Status(req.Status),
		Capacity:         req.Capacity,
		FuelType:         req.FuelType,
		AssignedDriverID: req.AssignedDriverID,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toVehicleResponse(updated))
}

func (s *Server) handleDeleteVehicle(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requireIdentity(w, r)
	if !ok {
		return
	}

	if err := s.vehicleService.Delete(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleVehicleByDriver(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requireIdentity(w, r)
	if !ok {
		return
	}

	v, err := s.vehicleService.GetByAssignedDriver(r.Context(), actor, chi.URLParam(r, "driverId"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toVehicleResponse(v))
}

type tripRequest struct {
	DriverID     string        `json:"driver_id"`
	VehicleID    string        `json:"vehicle_id"`
	CustomerID   string        `json:"customer_id"`
	CustomerName string        `json:"customer_name"`
	Pickup       trip.Location `json:"pickup"`
	Destination  trip.Location `json:"destination"`
}

func (s *Server) handleCreateTrip(w http.ResponseWriter, r *http.Request) {
	var req tripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	created, err := s.tripService.Create(r.Context(), trip.CreateParams{
		DriverID:     req.DriverID,
		VehicleID:    req.VehicleID,
		CustomerID:   req.CustomerID,
		CustomerName: req.CustomerName,
		Pickup:       req.Pickup,
		Destination:  req.Destination,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toTripResponse(created))
}

func (s *Server) handleActiveTrip(w http.ResponseWriter, r *http.Request) {
	t, err := s.tripService.ActiveForDriver(r.Context(), chi.URLParam(r, "driverId"))
	if err != nil {
		// No active trip is an empty reply, not an error.
		if errors.Is(err, trip.ErrNoActiveTrip) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toTripResponse(t))
}

func (s *Server) handleCustomerTrips(w http.ResponseWriter, r *http.Request) {
	trips, err := s.tripService.ListForCustomer(r.Context(), chi.URLParam(r, "customerId"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	out := make([]tripResponse, 0, len(trips))
	for _, t := range trips {
		out = append(out, toTripResponse(t))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleTripStatus(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "status query parameter required"})
		return
	}

	updated, err := s.tripService.SetStatus(r.Context(), chi.URLParam(r, "id"), trip.Status(status))
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toTripResponse(updated))
}

type bookingRequest struct {
	CustomerID         string     `json:"customer_id"`
	CustomerName       string     `json:"customer_name"`
	PickupAddress      string     `json:"pickup_address"`
	DestinationAddress string     `json:"destination_address"`
	RequestedTime      *time.Time `json:"requested_time"`
	Notes              string     `json:"notes"`
}

func (s *Server) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	var req bookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	created, err := s.bookingService.Create(r.Context(), booking.CreateParams{
		CustomerID:         req.CustomerID,
		CustomerName:       req.CustomerName,
		PickupAddress:      req.PickupAddress,
		DestinationAddress: req.DestinationAddress,
		RequestedTime:      req.RequestedTime,
		Notes:              req.Notes,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toBookingResponse(created))
}

func (s *Server) handleListBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := s.bookingService.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	out := make([]bookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, toBookingResponse(b))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCustomerBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := s.bookingService.ListForCustomer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	out := make([]bookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, toBookingResponse(b))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.dashboardService.Stats(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
