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

	"github.com/joho/godotenv"

	"visit-route-service/internal/adapters/repositories"
	"visit-route-service/internal/api"
	"visit-route-service/internal/config"
	"visit-route-service/internal/platform/db"
)

// main is the application composition root.
// It wires concrete adapters (Postgres) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	ctx := context.Background()
	database, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := repositories.Migrate(database); err != nil {
		logger.Error("migrations failed", "error", err)
		os.Exit(1)
	}

	// Optional demo data for local runs; production feeds users/stores from
	// the surrounding system.
	if cfg.SeedPath != "" {
		if err := repositories.SeedFromJSON(database, cfg.SeedPath); err != nil {
			logger.Error("seeding failed", "error", err)
			os.Exit(1)
		}
		logger.Info("seeded demo data", "path", cfg.SeedPath)
	}

	router := api.NewRouter(
		logger,
		repositories.NewPostgresRouteRepository(database),
		repositories.NewPostgresStoreRepository(database),
		repositories.NewPostgresUserRepository(database),
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
