package emis

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/finchley/tally/internal/apperror"
)

// Repository defines the data access contract for EMIs.
type Repository interface {
	Create(ctx context.Context, e *EMI) error

	// FindByID returns the EMI if it belongs to the user.
	FindByID(ctx context.Context, userID, id string) (*EMI, error)

	// List returns the user's EMIs, newest first.
	List(ctx context.Context, userID string) ([]EMI, error)

	// Update overwrites the mutable fields of the EMI.
	Update(ctx context.Context, e *EMI) error

	Delete(ctx context.Context, userID, id string) error

	// CountUnsettled returns how many of the user's EMIs still have an
	// outstanding balance.
	CountUnsettled(ctx context.Context, userID string) (int, error)
}

// repository implements Repository with hand-written MariaDB queries.
type repository struct {
	db *sql.DB
}

// NewRepository creates an EMI repository backed by the given DB pool.
func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const emiColumns = `id, user_id, loan_name, total_amount, monthly_payment, paid_amount, start_date, created_at`

func (r *repository) Create(ctx context.Context, e *EMI) error {
	query := `INSERT INTO emis (` + emiColumns + `)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		e.ID, e.UserID, e.LoanName, e.TotalAmount, e.MonthlyPayment, e.PaidAmount, e.StartDate, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting emi: %w", err)
	}
	return nil
}

func (r *repository) FindByID(ctx context.Context, userID, id string) (*EMI, error) {
	query := `SELECT ` + emiColumns + ` FROM emis WHERE id = ? AND user_id = ?`

	e, err := scanEMI(r.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NewNotFound("emi not found")
		}
		return nil, fmt.Errorf("finding emi: %w", err)
	}
	return e, nil
}

func (r *repository) List(ctx context.Context, userID string) ([]EMI, error) {
	query := `SELECT ` + emiColumns + ` FROM emis
	          WHERE user_id = ? ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing emis: %w", err)
	}
	defer rows.Close()

	var out []EMI
	for rows.Next() {
		e, err := scanEMI(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning emi row: %w", err)
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (r *repository) Update(ctx context.Context, e *EMI) error {
	query := `UPDATE emis
	          SET loan_name = ?, total_amount = ?, monthly_payment = ?, paid_amount = ?
	          WHERE id = ? AND user_id = ?`

	result, err := r.db.ExecContext(ctx, query,
		e.LoanName, e.TotalAmount, e.MonthlyPayment, e.PaidAmount, e.ID, e.UserID)
	if err != nil {
		return fmt.Errorf("updating emi: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		if _, err := r.FindByID(ctx, e.UserID, e.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, userID, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM emis WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting emi: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return apperror.NewNotFound("emi not found")
	}
	return nil
}

func (r *repository) CountUnsettled(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM emis WHERE user_id = ? AND paid_amount < total_amount`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting unsettled emis: %w", err)
	}
	return count, nil
}

func scanEMI(scanner interface{ Scan(...any) error }) (*EMI, error) {
	var e EMI
	if err := scanner.Scan(&e.ID, &e.UserID, &e.LoanName, &e.TotalAmount, &e.MonthlyPayment,
		&e.PaidAmount, &e.StartDate, &e.CreatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}
