package notifications

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/finchley/tally/internal/apperror"
)

// Repository defines the data access contract for notification settings.
type Repository interface {
	// Get returns the user's settings. Returns apperror.NotFound when
	// the user has never saved any.
	Get(ctx context.Context, userID string) (*Settings, error)

	// Save inserts or replaces the user's settings row.
	Save(ctx context.Context, s *Settings) error
}

// repository implements Repository with hand-written MariaDB queries.
type repository struct {
	db *sql.DB
}

// NewRepository creates a notification-settings repository backed by the
// given DB pool.
func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Get(ctx context.Context, userID string) (*Settings, error) {
	query := `SELECT id, user_id, discord_webhook_url, notifications_enabled,
	                 morning_briefing_time, evening_summary_time
	          FROM notification_settings WHERE user_id = ?`

	var s Settings
	var webhook, morning, evening sql.NullString
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&s.ID, &s.UserID, &webhook, &s.Enabled, &morning, &evening)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NewNotFound("notification settings not found")
		}
		return nil, fmt.Errorf("finding notification settings: %w", err)
	}
	s.DiscordWebhookURL = webhook.String
	s.MorningBriefingTime = morning.String
	s.EveningSummaryTime = evening.String
	return &s, nil
}

func (r *repository) Save(ctx context.Context, s *Settings) error {
	// One row per user, enforced by the unique key on user_id.
	query := `INSERT INTO notification_settings
	          (id, user_id, discord_webhook_url, notifications_enabled,
	           morning_briefing_time, evening_summary_time)
	          VALUES (?, ?, ?, ?, ?, ?)
	          ON DUPLICATE KEY UPDATE
	          discord_webhook_url = VALUES(discord_webhook_url),
	          notifications_enabled = VALUES(notifications_enabled),
	          morning_briefing_time = VALUES(morning_briefing_time),
	          evening_summary_time = VALUES(evening_summary_time)`

	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.UserID, s.DiscordWebhookURL, s.Enabled, s.MorningBriefingTime, s.EveningSummaryTime)
	if err != nil {
		return fmt.Errorf("saving notification settings: %w", err)
	}
	return nil
}
