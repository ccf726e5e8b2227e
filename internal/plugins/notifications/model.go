// Package notifications stores per-user notification settings and sends
// Discord webhook messages. Each user has at most one settings row.
package notifications

// Settings is a user's notification configuration.
type Settings struct {
	ID                  string `json:"id"`
	UserID              string `json:"user_id"`
	DiscordWebhookURL   string `json:"discord_webhook_url,omitempty"`
	Enabled             bool   `json:"notifications_enabled"`
	MorningBriefingTime string `json:"morning_briefing_time,omitempty"`
	EveningSummaryTime  string `json:"evening_summary_time,omitempty"`
}

// SaveRequest holds the settings form submission.
type SaveRequest struct {
	DiscordWebhookURL   string `json:"discord_webhook_url"`
	Enabled             bool   `json:"notifications_enabled"`
	MorningBriefingTime string `json:"morning_briefing_time"`
	EveningSummaryTime  string `json:"evening_summary_time"`
}

// SaveInput is the validated input for saving settings.
type SaveInput struct {
	DiscordWebhookURL   string
	Enabled             bool
	MorningBriefingTime string
	EveningSummaryTime  string
}
