package reminders

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/finchley/tally/internal/apperror"
)

// Repository defines the data access contract for reminders.
type Repository interface {
	Create(ctx context.Context, rem *Reminder) error

	// List returns the user's reminders ordered by reminder date,
	// soonest first.
	List(ctx context.Context, userID string) ([]Reminder, error)

	// ListOn returns the user's reminders whose date falls on the
	// given calendar day (the day of `day` in UTC).
	ListOn(ctx context.Context, userID string, day time.Time) ([]Reminder, error)

	Delete(ctx context.Context, userID, id string) error
}

// repository implements Repository with hand-written MariaDB queries.
type repository struct {
	db *sql.DB
}

// NewRepository creates a reminder repository backed by the given DB pool.
func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const reminderColumns = `id, user_id, title, description, reminder_date, created_at`

func (r *repository) Create(ctx context.Context, rem *Reminder) error {
	query := `INSERT INTO reminders (` + reminderColumns + `)
	          VALUES (?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		rem.ID, rem.UserID, rem.Title, rem.Description, rem.ReminderDate, rem.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting reminder: %w", err)
	}
	return nil
}

func (r *repository) List(ctx context.Context, userID string) ([]Reminder, error) {
	query := `SELECT ` + reminderColumns + ` FROM reminders
	          WHERE user_id = ? ORDER BY reminder_date ASC`
	return r.queryReminders(ctx, query, userID)
}

func (r *repository) ListOn(ctx context.Context, userID string, day time.Time) ([]Reminder, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)

	query := `SELECT ` + reminderColumns + ` FROM reminders
	          WHERE user_id = ? AND reminder_date >= ? AND reminder_date < ?
	          ORDER BY reminder_date ASC`
	return r.queryReminders(ctx, query, userID, start, end)
}

func (r *repository) queryReminders(ctx context.Context, query string, args ...any) ([]Reminder, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing reminders: %w", err)
	}
	defer rows.Close()

	var out []Reminder
	for rows.Next() {
		var rem Reminder
		var desc sql.NullString
		if err := rows.Scan(&rem.ID, &rem.UserID, &rem.Title, &desc, &rem.ReminderDate, &rem.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning reminder row: %w", err)
		}
		rem.Description = desc.String
		out = append(out, rem)
	}
	return out, rows.Err()
}

func (r *repository) Delete(ctx context.Context, userID, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM reminders WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting reminder: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return apperror.NewNotFound("reminder not found")
	}
	return nil
}
