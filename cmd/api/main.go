// Package main wires the fleetops API server together: config, logging,
// database, migrations, optional demo seed, and the HTTP listener.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fleetops/auth"
	"fleetops/booking"
	"fleetops/config"
	"fleetops/dashboard"
	"fleetops/db"
	"fleetops/seed"
	"fleetops/trip"
	"fleetops/vehicle"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("bootstrap database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := db.Migrate(ctx, cfg.DatabaseURL); err != nil {
		logger.Error("apply migrations", "error", err)
		os.Exit(1)
	}

	userRepo := auth.NewRepository(pool)
	vehicleRepo := vehicle.NewRepository(pool)
	tripRepo := trip.NewRepository(pool)
	bookingRepo := booking.NewRepository(pool)

	if cfg.SeedDemoData {
		if err := seed.Run(ctx, logger, userRepo, vehicleRepo); err != nil {
			logger.Error("seed demo data", "error", err)
			os.Exit(1)
		}
	}

	server := NewServer(
		logger,
		auth.NewService(userRepo, cfg.JWTSecret, cfg.TokenTTL),
		vehicle.NewService(vehicleRepo),
		trip.NewService(tripRepo),
		booking.NewService(bookingRepo),
		dashboard.NewService(vehicleRepo, userRepo),
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      server.Routes(cfg.CORSOrigins),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
