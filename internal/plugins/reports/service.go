package reports

import (
	"context"
	"sort"
	"time"

	"github.com/finchley/tally/internal/apperror"
	"github.com/finchley/tally/internal/plugins/expenses"
	"github.com/finchley/tally/internal/plugins/reminders"
)

// The report service consumes narrow slices of the other plugins'
// services; the interfaces are defined here, on the consumer side.

// ExpenseSource lists expenses in a time window.
type ExpenseSource interface {
	ListRange(ctx context.Context, userID string, from, to time.Time) ([]expenses.Expense, error)
}

// TodoCounter counts a user's incomplete todos.
type TodoCounter interface {
	CountPending(ctx context.Context, userID string) (int, error)
}

// EMICounter counts a user's EMIs with an outstanding balance.
type EMICounter interface {
	CountUnsettled(ctx context.Context, userID string) (int, error)
}

// RecurringCounter counts a user's recurring payments.
type RecurringCounter interface {
	CountActive(ctx context.Context, userID string) (int, error)
}

// ReminderSource lists the user's reminders falling today.
type ReminderSource interface {
	ListToday(ctx context.Context, userID string) ([]reminders.Reminder, error)
}

// Service computes spending summaries and dashboard statistics.
type Service interface {
	Summary(ctx context.Context, userID string, r Range) (*Summary, error)
	Dashboard(ctx context.Context, userID string) (*DashboardStats, error)
}

type service struct {
	expenses  ExpenseSource
	todos     TodoCounter
	emis      EMICounter
	recurring RecurringCounter
	reminders ReminderSource
	now       func() time.Time
}

// NewService creates a report service over the given sources.
func NewService(
	expenseSource ExpenseSource,
	todos TodoCounter,
	emis EMICounter,
	recurring RecurringCounter,
	reminderSource ReminderSource,
) Service {
	return &service{
		expenses:  expenseSource,
		todos:     todos,
		emis:      emis,
		recurring: recurring,
		reminders: reminderSource,
		now:       time.Now,
	}
}

func (s *service) Summary(ctx context.Context, userID string, r Range) (*Summary, error) {
	if !r.Valid() {
		return nil, apperror.NewBadRequest("range must be 7days, 30days, 90days, or thisMonth")
	}

	now := s.now().UTC()
	from, to := r.Bounds(now)

	list, err := s.expenses.ListRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Range:          r,
		CategoryTotals: []CategoryTotal{},
		MonthlySeries:  []MonthlyPoint{},
	}

	byCategory := make(map[string]float64)
	byDay := make(map[string]float64)
	byMonth := make(map[string]float64)
	for _, e := range list {
		summary.Total += e.Amount
		byCategory[e.Category] += e.Amount
		byDay[e.CreatedAt.UTC().Format("2006-01-02")] += e.Amount
		byMonth[e.CreatedAt.UTC().Format("2006-01")] += e.Amount
	}

	days := int(to.Sub(from).Hours() / 24)
	if days > 0 {
		summary.AverageDaily = summary.Total / float64(days)
	}

	// Category totals, largest first. Ties break alphabetically so the
	// output is stable.
	for category, total := range byCategory {
		summary.CategoryTotals = append(summary.CategoryTotals, CategoryTotal{Category: category, Total: total})
	}
	sort.Slice(summary.CategoryTotals, func(i, j int) bool {
		a, b := summary.CategoryTotals[i], summary.CategoryTotals[j]
		if a.Total != b.Total {
			return a.Total > b.Total
		}
		return a.Category < b.Category
	})
	if len(summary.CategoryTotals) > 0 {
		summary.HighestCategory = summary.CategoryTotals[0].Category
	}

	// Daily series zero-filled across the whole window.
	summary.DailySeries = make([]DailyPoint, 0, days)
	for day := from; day.Before(to); day = day.AddDate(0, 0, 1) {
		key := day.Format("2006-01-02")
		summary.DailySeries = append(summary.DailySeries, DailyPoint{Date: key, Total: byDay[key]})
	}

	// Monthly series covers each month touched by the window, in order.
	for month := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.UTC); month.Before(to); month = month.AddDate(0, 1, 0) {
		key := month.Format("2006-01")
		summary.MonthlySeries = append(summary.MonthlySeries, MonthlyPoint{Month: key, Total: byMonth[key]})
	}

	return summary, nil
}

func (s *service) Dashboard(ctx context.Context, userID string) (*DashboardStats, error) {
	now := s.now().UTC()
	from, to := Range30Days.Bounds(now)

	list, err := s.expenses.ListRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	var monthlySpend float64
	for _, e := range list {
		monthlySpend += e.Amount
	}

	pendingTodos, err := s.todos.CountPending(ctx, userID)
	if err != nil {
		return nil, err
	}
	activeEMIs, err := s.emis.CountUnsettled(ctx, userID)
	if err != nil {
		return nil, err
	}
	activeRecurring, err := s.recurring.CountActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	todays, err := s.reminders.ListToday(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		MonthlySpend:    monthlySpend,
		PendingTodos:    pendingTodos,
		ActiveEMIs:      activeEMIs,
		ActiveRecurring: activeRecurring,
		TodaysReminders: len(todays),
	}, nil
}
