package reminders

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/finchley/tally/internal/apperror"
	"github.com/finchley/tally/internal/plugins/auth"
)

// Handler handles HTTP requests for reminders.
type Handler struct {
	service Service
}

// NewHandler creates a new reminder handler.
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Create adds a reminder (POST /api/v1/reminders).
func (h *Handler) Create(c echo.Context) error {
	var req CreateRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	reminder, err := h.service.Create(c.Request().Context(), auth.GetUserID(c), CreateInput{
		Title:        req.Title,
		Description:  req.Description,
		ReminderDate: req.ReminderDate,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, reminder)
}

// List returns the user's reminders, soonest first (GET /api/v1/reminders).
// With ?today=true only reminders falling on the current day are returned.
func (h *Handler) List(c echo.Context) error {
	var (
		reminders []Reminder
		err       error
	)
	if c.QueryParam("today") == "true" {
		reminders, err = h.service.ListToday(c.Request().Context(), auth.GetUserID(c))
	} else {
		reminders, err = h.service.List(c.Request().Context(), auth.GetUserID(c))
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"reminders": reminders})
}

// Delete removes a reminder (DELETE /api/v1/reminders/:id).
func (h *Handler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), auth.GetUserID(c), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "reminder deleted"})
}
