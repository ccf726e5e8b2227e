// Package recurring tracks repeating payments such as rent and
// subscriptions. Marking one paid advances its next due date by one
// frequency interval.
package recurring

import "time"

// Frequency is how often a recurring payment falls due.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
)

// Valid reports whether f is one of the known frequencies.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
		return true
	}
	return false
}

// Next returns the due date one interval after t.
func (f Frequency) Next(t time.Time) time.Time {
	switch f {
	case FrequencyDaily:
		return t.AddDate(0, 0, 1)
	case FrequencyWeekly:
		return t.AddDate(0, 0, 7)
	case FrequencyMonthly:
		return t.AddDate(0, 1, 0)
	case FrequencyYearly:
		return t.AddDate(1, 0, 0)
	}
	return t
}

// Payment is a recurring payment owned by one user.
type Payment struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Amount      float64   `json:"amount"`
	Frequency   Frequency `json:"frequency"`
	NextDueDate time.Time `json:"next_due_date"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateRequest holds the data submitted by the add-payment form.
type CreateRequest struct {
	Title       string    `json:"title"`
	Amount      float64   `json:"amount"`
	Frequency   string    `json:"frequency"`
	NextDueDate time.Time `json:"next_due_date"`
}

// UpdateRequest holds the editable fields; nil fields are left unchanged.
type UpdateRequest struct {
	Title       *string    `json:"title"`
	Amount      *float64   `json:"amount"`
	Frequency   *string    `json:"frequency"`
	NextDueDate *time.Time `json:"next_due_date"`
}

// CreateInput is the validated input for creating a recurring payment.
type CreateInput struct {
	Title       string
	Amount      float64
	Frequency   Frequency
	NextDueDate time.Time
}

// UpdateInput carries a partial update; nil fields are left unchanged.
type UpdateInput struct {
	Title       *string
	Amount      *float64
	Frequency   *Frequency
	NextDueDate *time.Time
}
