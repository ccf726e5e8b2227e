// Package todos tracks per-user task items with a priority level, an
// optional due date, and a completed flag.
package todos

import "time"

// Priority is the urgency level of a todo.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of the known priority levels.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Todo is a single task owned by one user.
type Todo struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Priority    Priority   `json:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"created_at"`
}

// CreateRequest holds the data submitted by the add-todo form.
type CreateRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
}

// UpdateRequest holds the editable fields of a todo. Nil fields are
// left unchanged.
type UpdateRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Priority    *string    `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	Completed   *bool      `json:"completed"`
}

// CreateInput is the validated input for creating a todo.
type CreateInput struct {
	Title       string
	Description string
	Priority    Priority
	DueDate     *time.Time
}

// UpdateInput carries a partial update; nil fields are left unchanged.
type UpdateInput struct {
	Title       *string
	Description *string
	Priority    *Priority
	DueDate     *time.Time
	Completed   *bool
}
