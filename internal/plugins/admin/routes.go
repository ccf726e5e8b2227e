package admin

import (
	"github.com/labstack/echo/v4"

	"github.com/finchley/tally/internal/plugins/auth"
)

// RegisterRoutes sets up the admin endpoints. The group must already be
// behind auth.RequireAuth; the admin check is added here.
func RegisterRoutes(g *echo.Group, h *Handler) {
	admin := g.Group("/admin", auth.RequireAdmin())
	admin.GET("/users", h.ListUsers)
	admin.PUT("/users/:id/approval", h.SetApproval)
	admin.PUT("/users/:id/active", h.SetActive)
	admin.PUT("/users/:id/role", h.SetRole)
	admin.GET("/stats", h.Stats)
}
