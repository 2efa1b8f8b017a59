package ports

import (
	"context"
	"time"

	"github.com/spendwise/expense-api/internal/core/domain"
)

// ReportExpense is the lightweight record view embedded in report responses.
type ReportExpense struct {
	ID            string               `json:"id"`
	Title         string               `json:"title"`
	Amount        float64              `json:"amount"`
	Category      domain.Category      `json:"category"`
	Date          time.Time            `json:"date"`
	PaymentMethod domain.PaymentMethod `json:"paymentMethod"`
}

// CategoryBreakdownItem is one group of a grouped aggregate keyed by category.
// Percentage is the group's share of the overall total; when the total is
// zero every percentage is reported as zero.
type CategoryBreakdownItem struct {
	Category   domain.Category `json:"category"`
	Amount     float64         `json:"amount"`
	Count      int             `json:"count"`
	Percentage float64         `json:"percentage"`
}

// PaymentBreakdownItem mirrors CategoryBreakdownItem keyed by payment method.
type PaymentBreakdownItem struct {
	PaymentMethod domain.PaymentMethod `json:"paymentMethod"`
	Amount        float64              `json:"amount"`
	Count         int                  `json:"count"`
	Percentage    float64              `json:"percentage"`
}

// MonthlyReport is the derived view for one calendar month.
type MonthlyReport struct {
	Month             int                     `json:"month"`
	Year              int                     `json:"year"`
	Total             float64                 `json:"total"`
	TotalTransactions int                     `json:"totalTransactions"`
	DailyAverage      float64                 `json:"dailyAverage"`
	DaysInMonth       int                     `json:"daysInMonth"`
	CategoryBreakdown []CategoryBreakdownItem `json:"categoryBreakdown"`
	Expenses          []ReportExpense         `json:"expenses"`
}

// Statistics is the count/sum/mean/max/min block used by category and
// overall reports. Mean and Min are zero for an empty set.
type Statistics struct {
	Count   int     `json:"count"`
	Total   float64 `json:"total"`
	Average float64 `json:"average"`
	Max     float64 `json:"max"`
	Min     float64 `json:"min"`
}

// TrendPoint is a per-calendar-month aggregate. Month is formatted
// "YYYY-MM" so lexicographic order is chronological.
type TrendPoint struct {
	Month   string  `json:"month"`
	Total   float64 `json:"total"`
	Count   int     `json:"count"`
	Average float64 `json:"average"`
}

// CategoryReport is the derived view for a single category.
type CategoryReport struct {
	Category     domain.Category `json:"category"`
	Statistics   Statistics      `json:"statistics"`
	MonthlyTrend []TrendPoint    `json:"monthlyTrend"`
	Expenses     []ReportExpense `json:"expenses"`
}

// OverallStats is the derived view across all of a user's expenses in an
// optional date window. No raw record list is included.
type OverallStats struct {
	Overall           Statistics              `json:"overall"`
	CategoryBreakdown []CategoryBreakdownItem `json:"categoryBreakdown"`
	PaymentBreakdown  []PaymentBreakdownItem  `json:"paymentMethodBreakdown"`
}

// ReportService computes read-only derived views over a user's expenses.
type ReportService interface {
	MonthlyReport(ctx context.Context, userID string, month, year int) (*MonthlyReport, error)
	CategoryReport(ctx context.Context, userID string, category domain.Category, from, to time.Time) (*CategoryReport, error)
	OverallStats(ctx context.Context, userID string, from, to time.Time) (*OverallStats, error)
}
