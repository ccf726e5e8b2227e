package emis

import "github.com/labstack/echo/v4"

// RegisterRoutes sets up the EMI endpoints on an authenticated group.
func RegisterRoutes(g *echo.Group, h *Handler) {
	g.POST("/emis", h.Create)
	g.GET("/emis", h.List)
	g.PUT("/emis/:id", h.Update)
	g.POST("/emis/:id/payment", h.RecordPayment)
	g.DELETE("/emis/:id", h.Delete)
}
