package reports

import "github.com/labstack/echo/v4"

// RegisterRoutes sets up the report endpoints on an authenticated group.
func RegisterRoutes(g *echo.Group, h *Handler) {
	g.GET("/reports", h.Summary)
	g.GET("/reports/dashboard", h.Dashboard)
}
