package expenses

import "github.com/labstack/echo/v4"

// RegisterRoutes sets up the expense endpoints on an authenticated group.
func RegisterRoutes(g *echo.Group, h *Handler) {
	g.POST("/expenses", h.Create)
	g.GET("/expenses", h.List)
	g.DELETE("/expenses/:id", h.Delete)
}
