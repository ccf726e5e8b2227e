package notifications

import "github.com/labstack/echo/v4"

// RegisterRoutes sets up the notification endpoints on an authenticated
// group.
func RegisterRoutes(g *echo.Group, h *Handler) {
	g.GET("/notifications/settings", h.Get)
	g.PUT("/notifications/settings", h.Save)
	g.POST("/notifications/test", h.SendTest)
}
