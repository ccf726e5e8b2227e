// Package app is the application bootstrap and dependency injection root.
// It builds the plugin graph for whichever storage mode the process runs
// in and configures the Echo instance shared by every handler.
package app

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/finchley/tally/internal/apperror"
	"github.com/finchley/tally/internal/config"
	"github.com/finchley/tally/internal/localstore"
	"github.com/finchley/tally/internal/middleware"
)

// App holds all shared dependencies and the Echo HTTP server instance.
// Created once at startup in main.go.
type App struct {
	Config *config.Config
	Echo   *echo.Echo

	// Remote mode backends. Nil in demo mode.
	DB    *sql.DB
	Redis *redis.Client

	// Demo mode backend. Nil in remote mode.
	Store *localstore.Store
}

// New creates a new App instance and configures the Echo server with
// global middleware and error handling. Exactly one of the backend sets
// should be non-nil, matching cfg.Mode().
func New(cfg *config.Config, db *sql.DB, rdb *redis.Client, store *localstore.Store) *App {
	e := echo.New()

	// Disable Echo's default banner and startup message -- we log our own.
	e.HideBanner = true
	e.HidePort = true

	app := &App{
		Config: cfg,
		Echo:   e,
		DB:     db,
		Redis:  rdb,
		Store:  store,
	}

	app.setupMiddleware()
	e.HTTPErrorHandler = app.errorHandler

	return app
}

// setupMiddleware registers global middleware on the Echo instance.
// Order matters: outermost (recovery) runs first.
func (a *App) setupMiddleware() {
	// Panic recovery -- must be outermost to catch panics from all other middleware.
	a.Echo.Use(middleware.Recovery())

	// Request logging -- method, path, status, latency on every request.
	a.Echo.Use(middleware.RequestLogger())

	// Security headers. The API serves no HTML, so the CSP denies everything.
	a.Echo.Use(middleware.SecurityHeaders())

	// CORS -- the SPA is served from the base URL; cookies must flow.
	a.Echo.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins:   []string{a.Config.BaseURL},
		AllowCredentials: true,
	}))
}

// errorHandler is the custom Echo error handler. It maps domain errors
// (AppError) to JSON responses, logging internal causes server-side and
// keeping them out of the client payload.
func (a *App) errorHandler(err error, c echo.Context) {
	// Don't double-write if response is already committed.
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	errType := "internal_error"
	message := "An unexpected error occurred"

	var appErr *apperror.AppError
	var echoErr *echo.HTTPError
	switch {
	case errors.As(err, &appErr):
		code = appErr.Code
		errType = appErr.Type
		message = appErr.Message

		if appErr.Internal != nil {
			slog.Error("internal error",
				slog.String("type", appErr.Type),
				slog.String("message", appErr.Message),
				slog.Any("internal", appErr.Internal),
				slog.String("path", c.Request().URL.Path),
			)
		}

	case errors.As(err, &echoErr):
		// Echo's built-in errors, e.g. 404 from the router.
		code = echoErr.Code
		errType = "http_error"
		if msg, ok := echoErr.Message.(string); ok {
			message = msg
		} else {
			message = http.StatusText(code)
		}

	default:
		slog.Error("unhandled error",
			slog.Any("error", err),
			slog.String("path", c.Request().URL.Path),
		)
	}

	_ = c.JSON(code, map[string]string{
		"type":    errType,
		"message": message,
	})
}

// Start begins listening for HTTP requests on the configured port.
func (a *App) Start() error {
	addr := fmt.Sprintf(":%d", a.Config.Port)
	slog.Info("starting Tally server",
		slog.String("addr", addr),
		slog.String("env", a.Config.Env),
		slog.String("mode", string(a.Config.Mode())),
	)
	return a.Echo.Start(addr)
}
