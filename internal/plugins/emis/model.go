// Package emis tracks loan installments (EMIs). Each record carries the
// loan total, the fixed monthly payment, and how much has been paid so
// far; progress figures are derived, never stored.
package emis

import (
	"math"
	"time"
)

// EMI is a loan installment plan owned by one user.
type EMI struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	LoanName       string    `json:"loan_name"`
	TotalAmount    float64   `json:"total_amount"`
	MonthlyPayment float64   `json:"monthly_payment"`
	PaidAmount     float64   `json:"paid_amount"`
	StartDate      time.Time `json:"start_date"`
	CreatedAt      time.Time `json:"created_at"`
}

// Remaining returns the outstanding balance.
func (e *EMI) Remaining() float64 {
	if r := e.TotalAmount - e.PaidAmount; r > 0 {
		return r
	}
	return 0
}

// Progress returns the paid fraction as a percentage in [0, 100].
func (e *EMI) Progress() float64 {
	if e.TotalAmount <= 0 {
		return 0
	}
	p := e.PaidAmount / e.TotalAmount * 100
	if p > 100 {
		return 100
	}
	return p
}

// MonthsLeft returns how many monthly payments remain, rounded up.
func (e *EMI) MonthsLeft() int {
	if e.MonthlyPayment <= 0 {
		return 0
	}
	return int(math.Ceil(e.Remaining() / e.MonthlyPayment))
}

// Settled reports whether the loan is fully paid off.
func (e *EMI) Settled() bool {
	return e.PaidAmount >= e.TotalAmount
}

// response is the API shape of an EMI: the stored record plus the
// derived progress figures.
type response struct {
	EMI
	Remaining  float64 `json:"remaining"`
	Progress   float64 `json:"progress"`
	MonthsLeft int     `json:"months_left"`
	Settled    bool    `json:"settled"`
}

func newResponse(e EMI) response {
	return response{
		EMI:        e,
		Remaining:  e.Remaining(),
		Progress:   e.Progress(),
		MonthsLeft: e.MonthsLeft(),
		Settled:    e.Settled(),
	}
}

// CreateRequest holds the data submitted by the add-EMI form.
type CreateRequest struct {
	LoanName       string    `json:"loan_name"`
	TotalAmount    float64   `json:"total_amount"`
	MonthlyPayment float64   `json:"monthly_payment"`
	PaidAmount     float64   `json:"paid_amount"`
	StartDate      time.Time `json:"start_date"`
}

// UpdateRequest holds the editable fields; nil fields are left unchanged.
type UpdateRequest struct {
	LoanName       *string  `json:"loan_name"`
	TotalAmount    *float64 `json:"total_amount"`
	MonthlyPayment *float64 `json:"monthly_payment"`
	PaidAmount     *float64 `json:"paid_amount"`
}

// CreateInput is the validated input for creating an EMI.
type CreateInput struct {
	LoanName       string
	TotalAmount    float64
	MonthlyPayment float64
	PaidAmount     float64
	StartDate      time.Time
}

// UpdateInput carries a partial update; nil fields are left unchanged.
type UpdateInput struct {
	LoanName       *string
	TotalAmount    *float64
	MonthlyPayment *float64
	PaidAmount     *float64
}
