// Package expenses tracks per-user expense records: amount, category,
// and an optional free-text description. Reports aggregates over these.
package expenses

import "time"

// Expense is a single spend record owned by one user.
type Expense struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateRequest holds the data submitted by the add-expense form.
type CreateRequest struct {
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
}

// CreateInput is the validated input for recording an expense.
type CreateInput struct {
	Amount      float64
	Category    string
	Description string
}
