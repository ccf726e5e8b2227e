package auth

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/finchley/tally/internal/middleware"
)

// RegisterRoutes sets up the auth endpoints on the given API group.
// Login, register, and session are public; the rest require a session.
//
// POST endpoints are rate-limited to slow brute-force and credential
// stuffing attacks: 10 attempts per IP per minute for login, 5 for register.
func RegisterRoutes(g *echo.Group, h *Handler, service AuthService) {
	g.POST("/auth/register", h.Register, middleware.RateLimit(5, time.Minute))
	g.POST("/auth/login", h.Login, middleware.RateLimit(10, time.Minute))
	g.GET("/auth/session", h.Session)
	g.POST("/auth/logout", h.Logout)

	// Impersonation needs an authenticated admin; the service re-checks
	// against the session record as well.
	authed := g.Group("", RequireAuth(service))
	authed.POST("/auth/impersonate", h.Impersonate, RequireAdmin())
	authed.POST("/auth/return-to-admin", h.ReturnToAdmin)
}
