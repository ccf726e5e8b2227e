package admin

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/finchley/tally/internal/apperror"
	"github.com/finchley/tally/internal/plugins/auth"
)

// Handler handles HTTP requests for the admin panel.
type Handler struct {
	service Service
}

// NewHandler creates a new admin handler.
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// ListUsers returns every account (GET /api/v1/admin/users). Partitioning
// into pending/active/inactive is the client's job.
func (h *Handler) ListUsers(c echo.Context) error {
	users, err := h.service.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"users": users})
}

type flagRequest struct {
	Value bool `json:"value"`
}

// SetApproval approves or unapproves an account
// (PUT /api/v1/admin/users/:id/approval).
func (h *Handler) SetApproval(c echo.Context) error {
	var req flagRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	user, err := h.service.SetApproval(c.Request().Context(), c.Param("id"), req.Value)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// SetActive activates or deactivates an account
// (PUT /api/v1/admin/users/:id/active).
func (h *Handler) SetActive(c echo.Context) error {
	var req flagRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	user, err := h.service.SetActive(c.Request().Context(), auth.GetUserID(c), c.Param("id"), req.Value)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

type roleRequest struct {
	Role string `json:"role"`
}

// SetRole changes an account's role (PUT /api/v1/admin/users/:id/role).
func (h *Handler) SetRole(c echo.Context) error {
	var req roleRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	user, err := h.service.SetRole(c.Request().Context(), auth.GetUserID(c), c.Param("id"), req.Role)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Stats returns user-base counts (GET /api/v1/admin/stats).
func (h *Handler) Stats(c echo.Context) error {
	stats, err := h.service.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
