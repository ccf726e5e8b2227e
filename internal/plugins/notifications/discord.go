package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Discord webhook payload shapes. Only the fields Tally sends are
// modeled; Discord ignores everything it does not recognize anyway.
type discordEmbed struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Color       int           `json:"color"`
	Timestamp   string        `json:"timestamp"`
	Footer      discordFooter `json:"footer"`
}

type discordFooter struct {
	Text string `json:"text"`
}

type discordMessage struct {
	Content string         `json:"content"`
	Embeds  []discordEmbed `json:"embeds"`
}

// embedColor is the accent color of Tally's embeds (a teal).
const embedColor = 0x2dd4bf

// DiscordSender posts webhook messages to Discord. One POST per message,
// no retries; a failed send is the caller's problem to log.
type DiscordSender struct {
	client *http.Client
}

// NewDiscordSender creates a sender with a 10 second request timeout.
func NewDiscordSender() *DiscordSender {
	return &DiscordSender{
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Send posts a single embed message to the webhook URL.
func (d *DiscordSender) Send(ctx context.Context, webhookURL, content, title, description string) error {
	msg := discordMessage{
		Content: content,
		Embeds: []discordEmbed{{
			Title:       title,
			Description: description,
			Color:       embedColor,
			Timestamp:   time.Now().UTC().Format(time.RFC3339),
			Footer:      discordFooter{Text: "Tally"},
		}},
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encoding discord message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building discord request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("posting to discord webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("discord webhook returned status %d", resp.StatusCode)
	}
	return nil
}
