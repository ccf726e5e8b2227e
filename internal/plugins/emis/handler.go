package emis

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/finchley/tally/internal/apperror"
	"github.com/finchley/tally/internal/plugins/auth"
)

// Handler handles HTTP requests for EMIs. Responses include the derived
// progress figures alongside the stored record.
type Handler struct {
	service Service
}

// NewHandler creates a new EMI handler.
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Create adds an EMI (POST /api/v1/emis).
func (h *Handler) Create(c echo.Context) error {
	var req CreateRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	emi, err := h.service.Create(c.Request().Context(), auth.GetUserID(c), CreateInput{
		LoanName:       req.LoanName,
		TotalAmount:    req.TotalAmount,
		MonthlyPayment: req.MonthlyPayment,
		PaidAmount:     req.PaidAmount,
		StartDate:      req.StartDate,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, newResponse(*emi))
}

// List returns the user's EMIs (GET /api/v1/emis).
func (h *Handler) List(c echo.Context) error {
	list, err := h.service.List(c.Request().Context(), auth.GetUserID(c))
	if err != nil {
		return err
	}

	out := make([]response, 0, len(list))
	for _, e := range list {
		out = append(out, newResponse(e))
	}
	return c.JSON(http.StatusOK, map[string]any{"emis": out})
}

// Update edits an EMI (PUT /api/v1/emis/:id).
func (h *Handler) Update(c echo.Context) error {
	var req UpdateRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	emi, err := h.service.Update(c.Request().Context(), auth.GetUserID(c), c.Param("id"), UpdateInput{
		LoanName:       req.LoanName,
		TotalAmount:    req.TotalAmount,
		MonthlyPayment: req.MonthlyPayment,
		PaidAmount:     req.PaidAmount,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newResponse(*emi))
}

// RecordPayment adds one monthly payment (POST /api/v1/emis/:id/payment).
func (h *Handler) RecordPayment(c echo.Context) error {
	emi, err := h.service.RecordPayment(c.Request().Context(), auth.GetUserID(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newResponse(*emi))
}

// Delete removes an EMI (DELETE /api/v1/emis/:id).
func (h *Handler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), auth.GetUserID(c), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "emi deleted"})
}
