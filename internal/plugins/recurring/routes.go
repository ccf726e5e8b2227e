package recurring

import "github.com/labstack/echo/v4"

// RegisterRoutes sets up the recurring-payment endpoints on an
// authenticated group.
func RegisterRoutes(g *echo.Group, h *Handler) {
	g.POST("/recurring", h.Create)
	g.GET("/recurring", h.List)
	g.PUT("/recurring/:id", h.Update)
	g.POST("/recurring/:id/paid", h.MarkPaid)
	g.DELETE("/recurring/:id", h.Delete)
}
