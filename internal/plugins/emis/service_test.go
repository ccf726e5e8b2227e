package emis

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finchley/tally/internal/apperror"
	"github.com/finchley/tally/internal/localstore"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	store, err := localstore.Open(filepath.Join(t.TempDir(), "tally.json"))
	require.NoError(t, err)
	return NewService(NewLocalRepository(store))
}

func carLoan(t *testing.T, svc Service, userID string) *EMI {
	t.Helper()
	emi, err := svc.Create(context.Background(), userID, CreateInput{
		LoanName:       "car loan",
		TotalAmount:    10000,
		MonthlyPayment: 3000,
		StartDate:      time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return emi
}

func TestCreateEMIValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input CreateInput
	}{
		{"missing loan name", CreateInput{TotalAmount: 1000, MonthlyPayment: 100}},
		{"zero total", CreateInput{LoanName: "bike", MonthlyPayment: 100}},
		{"zero monthly", CreateInput{LoanName: "bike", TotalAmount: 1000}},
		{"paid exceeds total", CreateInput{LoanName: "bike", TotalAmount: 1000, MonthlyPayment: 100, PaidAmount: 2000}},
		{"negative paid", CreateInput{LoanName: "bike", TotalAmount: 1000, MonthlyPayment: 100, PaidAmount: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, "user-1", tc.input)
			var appErr *apperror.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, "validation_error", appErr.Type)
		})
	}
}

func TestRecordPaymentCapsAtTotal(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	emi := carLoan(t, svc, "user-1")

	// 10000 total at 3000/month: 3000, 6000, 9000, then capped at 10000.
	for _, want := range []float64{3000, 6000, 9000, 10000} {
		paid, err := svc.RecordPayment(ctx, "user-1", emi.ID)
		require.NoError(t, err)
		assert.Equal(t, want, paid.PaidAmount)
	}

	// A settled loan refuses further payments.
	_, err := svc.RecordPayment(ctx, "user-1", emi.ID)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "conflict", appErr.Type)
}

func TestDerivedFigures(t *testing.T) {
	emi := EMI{TotalAmount: 10000, MonthlyPayment: 3000, PaidAmount: 4000}

	assert.Equal(t, 6000.0, emi.Remaining())
	assert.Equal(t, 40.0, emi.Progress())
	assert.Equal(t, 2, emi.MonthsLeft(), "6000 remaining at 3000/month rounds up to 2")
	assert.False(t, emi.Settled())

	emi.PaidAmount = 10000
	assert.Equal(t, 0.0, emi.Remaining())
	assert.Equal(t, 100.0, emi.Progress())
	assert.Equal(t, 0, emi.MonthsLeft())
	assert.True(t, emi.Settled())
}

func TestUpdateRejectsPaidBeyondTotal(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	emi := carLoan(t, svc, "user-1")

	paid := 12000.0
	_, err := svc.Update(ctx, "user-1", emi.ID, UpdateInput{PaidAmount: &paid})
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "validation_error", appErr.Type)

	// Raising the total at the same time makes it valid.
	total := 15000.0
	updated, err := svc.Update(ctx, "user-1", emi.ID, UpdateInput{PaidAmount: &paid, TotalAmount: &total})
	require.NoError(t, err)
	assert.Equal(t, 12000.0, updated.PaidAmount)
	assert.Equal(t, 15000.0, updated.TotalAmount)
}

func TestCountUnsettled(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	settled := carLoan(t, svc, "user-1")
	_ = carLoan(t, svc, "user-1")
	_ = carLoan(t, svc, "someone-else")

	for i := 0; i < 4; i++ {
		_, err := svc.RecordPayment(ctx, "user-1", settled.ID)
		require.NoError(t, err)
	}

	count, err := svc.CountUnsettled(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRecordPaymentOwnerScoped(t *testing.T) {
	svc := newTestService(t)
	emi := carLoan(t, svc, "alice")

	_, err := svc.RecordPayment(context.Background(), "bob", emi.ID)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "not_found", appErr.Type)
}
