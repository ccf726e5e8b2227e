package reports

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/finchley/tally/internal/plugins/auth"
)

// Handler handles HTTP requests for reports.
type Handler struct {
	service Service
}

// NewHandler creates a new report handler.
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Summary returns the spending report (GET /api/v1/reports?range=30days).
// An absent range defaults to the last 30 days.
func (h *Handler) Summary(c echo.Context) error {
	r := Range(c.QueryParam("range"))
	if r == "" {
		r = Range30Days
	}

	summary, err := h.service.Summary(c.Request().Context(), auth.GetUserID(c), r)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summary)
}

// Dashboard returns the at-a-glance stats (GET /api/v1/reports/dashboard).
func (h *Handler) Dashboard(c echo.Context) error {
	stats, err := h.service.Dashboard(c.Request().Context(), auth.GetUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
