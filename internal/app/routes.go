package app

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/finchley/tally/internal/config"
	"github.com/finchley/tally/internal/plugins/admin"
	"github.com/finchley/tally/internal/plugins/auth"
	"github.com/finchley/tally/internal/plugins/emis"
	"github.com/finchley/tally/internal/plugins/expenses"
	"github.com/finchley/tally/internal/plugins/notifications"
	"github.com/finchley/tally/internal/plugins/recurring"
	"github.com/finchley/tally/internal/plugins/reminders"
	"github.com/finchley/tally/internal/plugins/reports"
	"github.com/finchley/tally/internal/plugins/todos"
)

// RegisterRoutes builds every plugin for the active storage mode and
// mounts all routes under /api/v1. This is the single place where the
// plugin graph is assembled; handlers and services never know which
// backend they run on.
func (a *App) RegisterRoutes() error {
	e := a.Echo

	// Health check endpoint for container monitoring.
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status": "ok",
			"mode":   string(a.Config.Mode()),
		})
	})

	// Repositories and the session store differ per mode; everything
	// above them is identical.
	var (
		userRepo      auth.UserRepository
		sessions      auth.SessionStore
		expenseRepo   expenses.Repository
		todoRepo      todos.Repository
		reminderRepo  reminders.Repository
		recurringRepo recurring.Repository
		emiRepo       emis.Repository
		settingsRepo  notifications.Repository
	)
	if a.Config.Mode() == config.ModeRemote {
		userRepo = auth.NewUserRepository(a.DB)
		sessions = auth.NewRedisSessionStore(a.Redis)
		expenseRepo = expenses.NewRepository(a.DB)
		todoRepo = todos.NewRepository(a.DB)
		reminderRepo = reminders.NewRepository(a.DB)
		recurringRepo = recurring.NewRepository(a.DB)
		emiRepo = emis.NewRepository(a.DB)
		settingsRepo = notifications.NewRepository(a.DB)
	} else {
		// Opening the local user repository seeds the demo admin on
		// first run; that write can fail.
		var err error
		userRepo, err = auth.NewLocalUserRepository(a.Store)
		if err != nil {
			return err
		}
		sessions = auth.NewMemorySessionStore()
		expenseRepo = expenses.NewLocalRepository(a.Store)
		todoRepo = todos.NewLocalRepository(a.Store)
		reminderRepo = reminders.NewLocalRepository(a.Store)
		recurringRepo = recurring.NewLocalRepository(a.Store)
		emiRepo = emis.NewLocalRepository(a.Store)
		settingsRepo = notifications.NewLocalRepository(a.Store)
	}

	// Services.
	authService := auth.NewAuthService(userRepo, sessions, a.Config.Auth.SessionTTL)
	expenseService := expenses.NewService(expenseRepo)
	todoService := todos.NewService(todoRepo)
	reminderService := reminders.NewService(reminderRepo)
	recurringService := recurring.NewService(recurringRepo)
	emiService := emis.NewService(emiRepo)
	notificationService := notifications.NewService(settingsRepo, notifications.NewDiscordSender())
	reportService := reports.NewService(
		expenseService, todoService, emiService, recurringService, reminderService)
	adminService := admin.NewService(userRepo)

	// Routes. Everything except auth's public endpoints sits behind a
	// session check.
	api := e.Group("/api/v1")

	secureCookies := !a.Config.IsDevelopment()
	auth.RegisterRoutes(api, auth.NewHandler(authService, a.Config.Auth.SessionTTL, secureCookies), authService)

	authed := api.Group("", auth.RequireAuth(authService))
	expenses.RegisterRoutes(authed, expenses.NewHandler(expenseService))
	todos.RegisterRoutes(authed, todos.NewHandler(todoService))
	reminders.RegisterRoutes(authed, reminders.NewHandler(reminderService))
	recurring.RegisterRoutes(authed, recurring.NewHandler(recurringService))
	emis.RegisterRoutes(authed, emis.NewHandler(emiService))
	notifications.RegisterRoutes(authed, notifications.NewHandler(notificationService))
	reports.RegisterRoutes(authed, reports.NewHandler(reportService))
	admin.RegisterRoutes(authed, admin.NewHandler(adminService))

	return nil
}
