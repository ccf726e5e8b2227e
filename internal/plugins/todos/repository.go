package todos

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/finchley/tally/internal/apperror"
)

// Repository defines the data access contract for todos. All reads and
// writes are scoped to the owning user.
type Repository interface {
	Create(ctx context.Context, t *Todo) error

	// FindByID returns the todo if it belongs to the user.
	FindByID(ctx context.Context, userID, id string) (*Todo, error)

	// List returns the user's todos, newest first.
	List(ctx context.Context, userID string) ([]Todo, error)

	// Update overwrites the mutable fields of the todo.
	// Returns apperror.NotFound if the row is missing or owned by
	// someone else.
	Update(ctx context.Context, t *Todo) error

	Delete(ctx context.Context, userID, id string) error

	// CountPending returns how many of the user's todos are incomplete.
	CountPending(ctx context.Context, userID string) (int, error)
}

// repository implements Repository with hand-written MariaDB queries.
type repository struct {
	db *sql.DB
}

// NewRepository creates a todo repository backed by the given DB pool.
func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const todoColumns = `id, user_id, title, description, priority, due_date, completed, created_at`

func (r *repository) Create(ctx context.Context, t *Todo) error {
	query := `INSERT INTO todos (` + todoColumns + `)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		t.ID, t.UserID, t.Title, t.Description, t.Priority, t.DueDate, t.Completed, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting todo: %w", err)
	}
	return nil
}

func (r *repository) FindByID(ctx context.Context, userID, id string) (*Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE id = ? AND user_id = ?`

	t, err := scanTodo(r.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NewNotFound("todo not found")
		}
		return nil, fmt.Errorf("finding todo: %w", err)
	}
	return t, nil
}

func (r *repository) List(ctx context.Context, userID string) ([]Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos
	          WHERE user_id = ? ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing todos: %w", err)
	}
	defer rows.Close()

	var out []Todo
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning todo row: %w", err)
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func (r *repository) Update(ctx context.Context, t *Todo) error {
	query := `UPDATE todos
	          SET title = ?, description = ?, priority = ?, due_date = ?, completed = ?
	          WHERE id = ? AND user_id = ?`

	result, err := r.db.ExecContext(ctx, query,
		t.Title, t.Description, t.Priority, t.DueDate, t.Completed, t.ID, t.UserID)
	if err != nil {
		return fmt.Errorf("updating todo: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		// Could also mean nothing changed; re-check existence so an
		// idempotent update of identical values does not 404.
		if _, err := r.FindByID(ctx, t.UserID, t.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, userID, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM todos WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting todo: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return apperror.NewNotFound("todo not found")
	}
	return nil
}

func (r *repository) CountPending(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM todos WHERE user_id = ? AND completed = FALSE`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting pending todos: %w", err)
	}
	return count, nil
}

// scanTodo reads one todo from a row, mapping nullable columns.
func scanTodo(scanner interface{ Scan(...any) error }) (*Todo, error) {
	var t Todo
	var desc sql.NullString
	var due sql.NullTime
	if err := scanner.Scan(&t.ID, &t.UserID, &t.Title, &desc, &t.Priority, &due, &t.Completed, &t.CreatedAt); err != nil {
		return nil, err
	}
	t.Description = desc.String
	if due.Valid {
		t.DueDate = &due.Time
	}
	return &t, nil
}
