package recurring

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/finchley/tally/internal/apperror"
)

// Repository defines the data access contract for recurring payments.
type Repository interface {
	Create(ctx context.Context, p *Payment) error

	// FindByID returns the payment if it belongs to the user.
	FindByID(ctx context.Context, userID, id string) (*Payment, error)

	// List returns the user's payments ordered by next due date,
	// soonest first.
	List(ctx context.Context, userID string) ([]Payment, error)

	// Update overwrites the mutable fields of the payment.
	Update(ctx context.Context, p *Payment) error

	Delete(ctx context.Context, userID, id string) error
}

// repository implements Repository with hand-written MariaDB queries.
type repository struct {
	db *sql.DB
}

// NewRepository creates a recurring-payment repository backed by the
// given DB pool.
func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const paymentColumns = `id, user_id, title, amount, frequency, next_due_date, created_at`

func (r *repository) Create(ctx context.Context, p *Payment) error {
	query := `INSERT INTO recurring_payments (` + paymentColumns + `)
	          VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.UserID, p.Title, p.Amount, p.Frequency, p.NextDueDate, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting recurring payment: %w", err)
	}
	return nil
}

func (r *repository) FindByID(ctx context.Context, userID, id string) (*Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM recurring_payments
	          WHERE id = ? AND user_id = ?`

	p, err := scanPayment(r.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NewNotFound("recurring payment not found")
		}
		return nil, fmt.Errorf("finding recurring payment: %w", err)
	}
	return p, nil
}

func (r *repository) List(ctx context.Context, userID string) ([]Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM recurring_payments
	          WHERE user_id = ? ORDER BY next_due_date ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing recurring payments: %w", err)
	}
	defer rows.Close()

	var out []Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning recurring payment row: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *repository) Update(ctx context.Context, p *Payment) error {
	query := `UPDATE recurring_payments
	          SET title = ?, amount = ?, frequency = ?, next_due_date = ?
	          WHERE id = ? AND user_id = ?`

	result, err := r.db.ExecContext(ctx, query,
		p.Title, p.Amount, p.Frequency, p.NextDueDate, p.ID, p.UserID)
	if err != nil {
		return fmt.Errorf("updating recurring payment: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		if _, err := r.FindByID(ctx, p.UserID, p.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, userID, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM recurring_payments WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting recurring payment: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return apperror.NewNotFound("recurring payment not found")
	}
	return nil
}

func scanPayment(scanner interface{ Scan(...any) error }) (*Payment, error) {
	var p Payment
	if err := scanner.Scan(&p.ID, &p.UserID, &p.Title, &p.Amount, &p.Frequency, &p.NextDueDate, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}
