package expenses

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/finchley/tally/internal/apperror"
)

// Repository defines the data access contract for expenses. Records are
// always scoped by owner: a user can never read or delete another user's
// expenses, enforced in the queries themselves.
type Repository interface {
	Create(ctx context.Context, e *Expense) error

	// ListRange returns the user's expenses with created_at in [from, to),
	// newest first. Zero from/to mean unbounded on that side.
	ListRange(ctx context.Context, userID string, from, to time.Time) ([]Expense, error)

	// Delete removes the expense if it belongs to the user.
	// Returns apperror.NotFound otherwise.
	Delete(ctx context.Context, userID, id string) error
}

// repository implements Repository with hand-written MariaDB queries.
type repository struct {
	db *sql.DB
}

// NewRepository creates an expense repository backed by the given DB pool.
func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, e *Expense) error {
	query := `INSERT INTO expenses (id, user_id, amount, category, description, created_at)
	          VALUES (?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		e.ID, e.UserID, e.Amount, e.Category, e.Description, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting expense: %w", err)
	}
	return nil
}

func (r *repository) ListRange(ctx context.Context, userID string, from, to time.Time) ([]Expense, error) {
	query := `SELECT id, user_id, amount, category, description, created_at
	          FROM expenses WHERE user_id = ?`
	args := []any{userID}

	if !from.IsZero() {
		query += ` AND created_at >= ?`
		args = append(args, from)
	}
	if !to.IsZero() {
		query += ` AND created_at < ?`
		args = append(args, to)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}
	defer rows.Close()

	var out []Expense
	for rows.Next() {
		var e Expense
		var desc sql.NullString
		if err := rows.Scan(&e.ID, &e.UserID, &e.Amount, &e.Category, &desc, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning expense row: %w", err)
		}
		e.Description = desc.String
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *repository) Delete(ctx context.Context, userID, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM expenses WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting expense: %w", err)
	}

	n, _ := result.RowsAffected()
	if n == 0 {
		return apperror.NewNotFound("expense not found")
	}
	return nil
}
