package todos

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/finchley/tally/internal/apperror"
	"github.com/finchley/tally/internal/plugins/auth"
)

// Handler handles HTTP requests for todos.
type Handler struct {
	service Service
}

// NewHandler creates a new todo handler.
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Create adds a new todo (POST /api/v1/todos).
func (h *Handler) Create(c echo.Context) error {
	var req CreateRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	todo, err := h.service.Create(c.Request().Context(), auth.GetUserID(c), CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    Priority(req.Priority),
		DueDate:     req.DueDate,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, todo)
}

// List returns the user's todos (GET /api/v1/todos).
func (h *Handler) List(c echo.Context) error {
	todos, err := h.service.List(c.Request().Context(), auth.GetUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"todos": todos})
}

// Update edits a todo's fields (PUT /api/v1/todos/:id).
func (h *Handler) Update(c echo.Context) error {
	var req UpdateRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	input := UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Completed:   req.Completed,
	}
	if req.Priority != nil {
		p := Priority(*req.Priority)
		input.Priority = &p
	}

	todo, err := h.service.Update(c.Request().Context(), auth.GetUserID(c), c.Param("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, todo)
}

// Toggle flips a todo's completed flag (POST /api/v1/todos/:id/toggle).
func (h *Handler) Toggle(c echo.Context) error {
	todo, err := h.service.Toggle(c.Request().Context(), auth.GetUserID(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, todo)
}

// Delete removes a todo (DELETE /api/v1/todos/:id).
func (h *Handler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), auth.GetUserID(c), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "todo deleted"})
}
