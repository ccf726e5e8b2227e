package notifications

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/finchley/tally/internal/apperror"
	"github.com/finchley/tally/internal/plugins/auth"
)

// Handler handles HTTP requests for notification settings.
type Handler struct {
	service Service
}

// NewHandler creates a new notifications handler.
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Get returns the user's settings (GET /api/v1/notifications/settings).
func (h *Handler) Get(c echo.Context) error {
	settings, err := h.service.Get(c.Request().Context(), auth.GetUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, settings)
}

// Save upserts the user's settings (PUT /api/v1/notifications/settings).
func (h *Handler) Save(c echo.Context) error {
	var req SaveRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	settings, err := h.service.Save(c.Request().Context(), auth.GetUserID(c), SaveInput{
		DiscordWebhookURL:   req.DiscordWebhookURL,
		Enabled:             req.Enabled,
		MorningBriefingTime: req.MorningBriefingTime,
		EveningSummaryTime:  req.EveningSummaryTime,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, settings)
}

// SendTest fires a test message at the stored webhook
// (POST /api/v1/notifications/test). Delivery is asynchronous, so a 202
// only means the message was dispatched.
func (h *Handler) SendTest(c echo.Context) error {
	if err := h.service.SendTest(c.Request().Context(), auth.GetUserID(c)); err != nil {
		return err
	}
	return c.JSON(http.StatusAccepted, map[string]string{"message": "test notification dispatched"})
}
