// Package main is the entry point for the Tally server. It loads
// configuration, picks the storage mode (MariaDB+Redis, or the local
// file store when no backend is configured), wires together all plugins,
// and starts the HTTP server.
package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/finchley/tally/internal/app"
	"github.com/finchley/tally/internal/config"
	"github.com/finchley/tally/internal/database"
	"github.com/finchley/tally/internal/localstore"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	// Configure structured logging based on environment.
	setupLogging(cfg)

	slog.Info("starting Tally",
		slog.String("env", cfg.Env),
		slog.Int("port", cfg.Port),
		slog.String("mode", string(cfg.Mode())),
	)

	// --- Storage backends, per mode ---
	var (
		db    *sql.DB
		rdb   *redis.Client
		store *localstore.Store
	)
	if cfg.Mode() == config.ModeRemote {
		db, err = database.NewMariaDB(cfg.Database)
		if err != nil {
			slog.Error("failed to connect to MariaDB", slog.Any("error", err))
			os.Exit(1)
		}
		defer db.Close()
		slog.Info("connected to MariaDB")

		if err := database.RunMigrations(db, "db/migrations"); err != nil {
			slog.Error("failed to run migrations", slog.Any("error", err))
			os.Exit(1)
		}

		rdb, err = database.NewRedis(cfg.Redis)
		if err != nil {
			slog.Error("failed to connect to Redis", slog.Any("error", err))
			os.Exit(1)
		}
		defer rdb.Close()
		slog.Info("connected to Redis")
	} else {
		store, err = localstore.Open(cfg.Demo.DataPath)
		if err != nil {
			slog.Error("failed to open local store", slog.Any("error", err))
			os.Exit(1)
		}
		slog.Info("running in demo mode",
			slog.String("data_path", cfg.Demo.DataPath))
	}

	// --- Create Application ---
	application := app.New(cfg, db, rdb, store)

	if err := application.RegisterRoutes(); err != nil {
		slog.Error("failed to register routes", slog.Any("error", err))
		os.Exit(1)
	}

	// --- Graceful Shutdown ---
	// Listen for interrupt/term signals to drain connections cleanly.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		slog.Info("shutting down server...")

		// Give in-flight requests 10 seconds to complete.
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := application.Echo.Shutdown(ctx); err != nil {
			slog.Error("server forced shutdown", slog.Any("error", err))
		}
	}()

	// --- Start Server ---
	if err := application.Start(); err != nil {
		// Echo returns http.ErrServerClosed on graceful shutdown, which is expected.
		slog.Info("server stopped", slog.Any("reason", err))
	}
}

// setupLogging configures the global slog logger based on the environment.
// Development uses text format for readability. Production uses JSON for
// structured log aggregation.
func setupLogging(cfg *config.Config) {
	var handler slog.Handler

	if cfg.IsDevelopment() {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}

	slog.SetDefault(slog.New(handler))
}
