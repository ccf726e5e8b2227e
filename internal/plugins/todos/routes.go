package todos

import "github.com/labstack/echo/v4"

// RegisterRoutes sets up the todo endpoints on an authenticated group.
func RegisterRoutes(g *echo.Group, h *Handler) {
	g.POST("/todos", h.Create)
	g.GET("/todos", h.List)
	g.PUT("/todos/:id", h.Update)
	g.POST("/todos/:id/toggle", h.Toggle)
	g.DELETE("/todos/:id", h.Delete)
}
