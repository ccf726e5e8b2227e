package recurring

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/finchley/tally/internal/apperror"
	"github.com/finchley/tally/internal/plugins/auth"
)

// Handler handles HTTP requests for recurring payments.
type Handler struct {
	service Service
}

// NewHandler creates a new recurring-payment handler.
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Create adds a recurring payment (POST /api/v1/recurring).
func (h *Handler) Create(c echo.Context) error {
	var req CreateRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	payment, err := h.service.Create(c.Request().Context(), auth.GetUserID(c), CreateInput{
		Title:       req.Title,
		Amount:      req.Amount,
		Frequency:   Frequency(req.Frequency),
		NextDueDate: req.NextDueDate,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, payment)
}

// List returns the user's recurring payments (GET /api/v1/recurring).
func (h *Handler) List(c echo.Context) error {
	payments, err := h.service.List(c.Request().Context(), auth.GetUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"payments": payments})
}

// Update edits a recurring payment (PUT /api/v1/recurring/:id).
func (h *Handler) Update(c echo.Context) error {
	var req UpdateRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	input := UpdateInput{
		Title:       req.Title,
		Amount:      req.Amount,
		NextDueDate: req.NextDueDate,
	}
	if req.Frequency != nil {
		f := Frequency(*req.Frequency)
		input.Frequency = &f
	}

	payment, err := h.service.Update(c.Request().Context(), auth.GetUserID(c), c.Param("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, payment)
}

// MarkPaid advances the next due date (POST /api/v1/recurring/:id/paid).
func (h *Handler) MarkPaid(c echo.Context) error {
	payment, err := h.service.MarkPaid(c.Request().Context(), auth.GetUserID(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, payment)
}

// Delete removes a recurring payment (DELETE /api/v1/recurring/:id).
func (h *Handler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), auth.GetUserID(c), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "recurring payment deleted"})
}
