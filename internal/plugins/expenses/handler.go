package expenses

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/finchley/tally/internal/apperror"
	"github.com/finchley/tally/internal/plugins/auth"
)

// Handler handles HTTP requests for expenses.
type Handler struct {
	service Service
}

// NewHandler creates a new expense handler.
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Create records a new expense (POST /api/v1/expenses).
func (h *Handler) Create(c echo.Context) error {
	var req CreateRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	expense, err := h.service.Create(c.Request().Context(), auth.GetUserID(c), CreateInput{
		Amount:      req.Amount,
		Category:    req.Category,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, expense)
}

// List returns the user's expenses, optionally bounded by from/to
// query params in RFC 3339 or YYYY-MM-DD form (GET /api/v1/expenses).
func (h *Handler) List(c echo.Context) error {
	from, err := parseTimeParam(c.QueryParam("from"))
	if err != nil {
		return apperror.NewBadRequest("invalid from parameter")
	}
	to, err := parseTimeParam(c.QueryParam("to"))
	if err != nil {
		return apperror.NewBadRequest("invalid to parameter")
	}

	expenses, err := h.service.ListRange(c.Request().Context(), auth.GetUserID(c), from, to)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"expenses": expenses})
}

// Delete removes one of the user's expenses (DELETE /api/v1/expenses/:id).
func (h *Handler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), auth.GetUserID(c), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "expense deleted"})
}

func parseTimeParam(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
