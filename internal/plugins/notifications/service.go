package notifications

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/finchley/tally/internal/apperror"
)

// Sender delivers a webhook message. Satisfied by DiscordSender.
type Sender interface {
	Send(ctx context.Context, webhookURL, content, title, description string) error
}

// Service contains the business logic for notification settings.
type Service interface {
	// Get returns the user's settings, falling back to defaults when
	// none have been saved yet.
	Get(ctx context.Context, userID string) (*Settings, error)

	// Save validates and upserts the user's settings.
	Save(ctx context.Context, userID string, input SaveInput) (*Settings, error)

	// SendTest dispatches a test message to the stored webhook URL.
	// Delivery happens in the background; the returned error only
	// covers validation (no webhook configured).
	SendTest(ctx context.Context, userID string) error
}

type service struct {
	repo   Repository
	sender Sender
}

// NewService creates a new notification service.
func NewService(repo Repository, sender Sender) Service {
	return &service{repo: repo, sender: sender}
}

func defaultSettings(userID string) *Settings {
	return &Settings{
		ID:      uuid.NewString(),
		UserID:  userID,
		Enabled: true,
	}
}

func (s *service) Get(ctx context.Context, userID string) (*Settings, error) {
	settings, err := s.repo.Get(ctx, userID)
	if err != nil {
		if apperror.SafeCode(err) == http.StatusNotFound {
			return defaultSettings(userID), nil
		}
		slog.Error("failed to load notification settings",
			slog.String("user_id", userID),
			slog.Any("error", err))
		return nil, apperror.NewInternal(err)
	}
	return settings, nil
}

func (s *service) Save(ctx context.Context, userID string, input SaveInput) (*Settings, error) {
	webhookURL := strings.TrimSpace(input.DiscordWebhookURL)
	if webhookURL != "" && !strings.HasPrefix(webhookURL, "https://") {
		return nil, apperror.NewValidation("discord webhook url must use https")
	}
	morning, err := normalizeClock(input.MorningBriefingTime)
	if err != nil {
		return nil, apperror.NewValidation("morning briefing time must be HH:MM")
	}
	evening, err := normalizeClock(input.EveningSummaryTime)
	if err != nil {
		return nil, apperror.NewValidation("evening summary time must be HH:MM")
	}

	settings := &Settings{
		ID:                  uuid.NewString(),
		UserID:              userID,
		DiscordWebhookURL:   webhookURL,
		Enabled:             input.Enabled,
		MorningBriefingTime: morning,
		EveningSummaryTime:  evening,
	}

	if err := s.repo.Save(ctx, settings); err != nil {
		slog.Error("failed to save notification settings",
			slog.String("user_id", userID),
			slog.Any("error", err))
		return nil, apperror.NewInternal(err)
	}
	return settings, nil
}

func (s *service) SendTest(ctx context.Context, userID string) error {
	settings, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	if settings.DiscordWebhookURL == "" {
		return apperror.NewBadRequest("no discord webhook url configured")
	}

	// Fire and forget: the HTTP round trip happens off the request
	// path, with its own deadline. Failures are only logged.
	go func(webhookURL string) {
		sendCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		err := s.sender.Send(sendCtx, webhookURL,
			"Tally test notification",
			"Test Notification",
			"If you can read this, your webhook is wired up correctly.")
		if err != nil {
			slog.Warn("test notification delivery failed",
				slog.String("user_id", userID),
				slog.Any("error", err))
		}
	}(settings.DiscordWebhookURL)

	return nil
}

// normalizeClock validates an optional HH:MM value.
func normalizeClock(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	t, err := time.Parse("15:04", raw)
	if err != nil {
		return "", err
	}
	return t.Format("15:04"), nil
}
