package reminders

import "github.com/labstack/echo/v4"

// RegisterRoutes sets up the reminder endpoints on an authenticated group.
func RegisterRoutes(g *echo.Group, h *Handler) {
	g.POST("/reminders", h.Create)
	g.GET("/reminders", h.List)
	g.DELETE("/reminders/:id", h.Delete)
}
