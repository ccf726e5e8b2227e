// Package reports derives spending summaries and dashboard statistics
// from the other plugins. It owns no storage; everything is computed
// from the expense, todo, reminder, recurring, and EMI services.
package reports

import "time"

// Range selects the reporting window.
type Range string

const (
	Range7Days     Range = "7days"
	Range30Days    Range = "30days"
	Range90Days    Range = "90days"
	RangeThisMonth Range = "thisMonth"
)

// Valid reports whether r is one of the known ranges.
func (r Range) Valid() bool {
	switch r {
	case Range7Days, Range30Days, Range90Days, RangeThisMonth:
		return true
	}
	return false
}

// Bounds returns the [from, to) window for the range, anchored at now.
// For the day-count ranges the window ends at the start of tomorrow so
// today's expenses are included.
func (r Range) Bounds(now time.Time) (time.Time, time.Time) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	tomorrow := today.AddDate(0, 0, 1)

	switch r {
	case Range7Days:
		return tomorrow.AddDate(0, 0, -7), tomorrow
	case Range30Days:
		return tomorrow.AddDate(0, 0, -30), tomorrow
	case Range90Days:
		return tomorrow.AddDate(0, 0, -90), tomorrow
	case RangeThisMonth:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC), tomorrow
	}
	return time.Time{}, time.Time{}
}

// CategoryTotal is the spend in one category over the window.
type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

// DailyPoint is the spend on one calendar day.
type DailyPoint struct {
	Date  string  `json:"date"` // YYYY-MM-DD
	Total float64 `json:"total"`
}

// MonthlyPoint is the spend in one calendar month.
type MonthlyPoint struct {
	Month string  `json:"month"` // YYYY-MM
	Total float64 `json:"total"`
}

// Summary is the spending report for one range.
type Summary struct {
	Range           Range           `json:"range"`
	Total           float64         `json:"total"`
	AverageDaily    float64         `json:"average_daily"`
	CategoryTotals  []CategoryTotal `json:"category_totals"`
	DailySeries     []DailyPoint    `json:"daily_series"`
	MonthlySeries   []MonthlyPoint  `json:"monthly_series"`
	HighestCategory string          `json:"highest_category,omitempty"`
}

// DashboardStats is the at-a-glance panel on the dashboard.
type DashboardStats struct {
	MonthlySpend    float64 `json:"monthly_spend"` // last 30 days
	PendingTodos    int     `json:"pending_todos"`
	ActiveEMIs      int     `json:"active_emis"`
	ActiveRecurring int     `json:"active_recurring"`
	TodaysReminders int     `json:"todays_reminders"`
}
