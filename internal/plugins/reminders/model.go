// Package reminders tracks dated one-off reminders. The dashboard asks
// for "today's reminders"; the report plugin counts them.
package reminders

import "time"

// Reminder is a single dated reminder owned by one user.
type Reminder struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	ReminderDate time.Time `json:"reminder_date"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateRequest holds the data submitted by the add-reminder form.
type CreateRequest struct {
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ReminderDate time.Time `json:"reminder_date"`
}

// CreateInput is the validated input for creating a reminder.
type CreateInput struct {
	Title        string
	Description  string
	ReminderDate time.Time
}
