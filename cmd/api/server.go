package main

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"fleetops/auth"
	"fleetops/booking"
	"fleetops/dashboard"
	"fleetops/trip"
	"fleetops/vehicle"
)

// The service interfaces are defined here, in the consumer package, so
// handler tests can inject stubs without touching the database.

type AuthService interface {
	Register(ctx context.Context, req auth.RegisterRequest) (*auth.User, error)
	Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResult, error)
	VerifyToken(token string) (auth.Identity, error)
	ListUsers(ctx context.Context, actor auth.Identity) ([]auth.User, error)
	Decide(ctx context.Context, actor auth.Identity, userID string, decision auth.Decision) (auth.User, error)
}

type VehicleService interface {
	Create(ctx context.Context, actor auth.Identity, params vehicle.CreateParams) (vehicle.Vehicle, error)
	Replace(ctx context.Context, actor auth.Identity, id string, params vehicle.ReplaceParams) (vehicle.Vehicle, error)
	Delete(ctx context.Context, actor auth.Identity, id string) error
	GetByAssignedDriver(ctx context.Context, actor auth.Identity, driverID string) (vehicle.Vehicle, error)
	List(ctx context.Context) ([]vehicle.Vehicle, error)
}

type TripService interface {
	Create(ctx context.Context, params trip.CreateParams) (trip.Trip, error)
	SetStatus(ctx context.Context, id string, status trip.Status) (trip.Trip, error)
	ActiveForDriver(ctx context.Context, driverID string) (trip.Trip, error)
	ListForCustomer(ctx context.Context, customerID string) ([]trip.Trip, error)
}

type BookingService interface {
	Create(ctx context.Context, params booking.CreateParams) (booking.Booking, error)
	List(ctx context.Context) ([]booking.Booking, error)
	ListForCustomer(ctx context.Context, customerID string) ([]booking.Booking, error)
}

type DashboardService interface {
	Stats(ctx context.Context) (dashboard.Stats, error)
}

// Server holds the API's dependencies and implements its HTTP handlers.
type Server struct {
	log              *slog.Logger
	authService      AuthService
	vehicleService   VehicleService
	tripService      TripService
	bookingService   BookingService
	dashboardService DashboardService
}

// NewServer constructs the Server with all its dependencies.
func NewServer(log *slog.Logger, authSvc AuthService, vehicleSvc VehicleService, tripSvc TripService, bookingSvc BookingService, dashSvc DashboardService) *Server {
	return &Server{
		log:              log,
		authService:      authSvc,
		vehicleService:   vehicleSvc,
		tripService:      tripSvc,
		bookingService:   bookingSvc,
		dashboardService: dashSvc,
	}
}

// Routes assembles the router. Endpoints without a role requirement are
// deliberately open; per-operation role checks live in the services.
func (s *Server) Routes(corsOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(newSlogLogger(s.log))
	r.Use(cors.New(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}).Handler)
	r.Use(s.withIdentity)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/signup", s.handleSignup)
		r.Post("/auth/signin", s.handleSignin)

		r.Get("/users", s.handleListUsers)
		r.Put("/users/{id}/approve", s.handleApproveDriver)
		r.Put("/users/{id}/reject", s.handleRejectDriver)

		r.Get("/vehicles", s.handleListVehicles)
		r.Post("/vehicles", s.handleCreateVehicle)
		r.Put("/vehicles/{id}", s.handleUpdateVehicle)
		r.Delete("/vehicles/{id}", s.handleDeleteVehicle)
		r.Get("/vehicles/driver/{driverId}", s.handleVehicleByDriver)

		r.Post("/trips", s.handleCreateTrip)
		r.Get("/trips/driver/{driverId}/active", s.handleActiveTrip)
		r.Get("/trips/customer/{customerId}", s.handleCustomerTrips)
		r.Put("/trips/{id}/status", s.handleTripStatus)

		r.Get("/bookings", s.handleListBookings)
		r.Post("/bookings", s.handleCreateBooking)
		r.Get("/bookings/customer/{id}", s.handleCustomerBookings)

		r.Get("/dashboard/stats", s.handleDashboardStats)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
