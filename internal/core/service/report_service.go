package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/spendwise/expense-api/internal/core/domain"
	"github.com/spendwise/expense-api/internal/core/ports"
)

// ReportService computes derived views over a user's expenses. Each report
// is a pure read: the repository fetches the filtered rows and the service
// folds them into group accumulators in memory, so no database-specific
// aggregation DSL is involved.
type ReportService struct {
	repo   ports.ExpenseRepository
	logger zerolog.Logger
}

func NewReportService(repo ports.ExpenseRepository, logger zerolog.Logger) *ReportService {
	return &ReportService{repo: repo, logger: logger}
}

// accumulator folds amounts for one group key.
type accumulator struct {
	sum   float64
	count int
	min   float64
	max   float64
}

func (a *accumulator) add(amount float64) {
	if a.count == 0 || amount < a.min {
		a.min = amount
	}
	if amount > a.max {
		a.max = amount
	}
	a.sum += amount
	a.count++
}

// MonthlyReport aggregates one calendar month: per-category sums, counts and
// percentages, the daily average, and the matching records.
func (s *ReportService) MonthlyReport(ctx context.Context, userID string, month, year int) (*ports.MonthlyReport, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: month must be between 1 and 12", domain.ErrInvalidReportQuery)
	}
	if year < 2000 || year > 2100 {
		return nil, fmt.Errorf("%w: year must be between 2000 and 2100", domain.ErrInvalidReportQuery)
	}

	// First instant of the month through the last instant of its last day.
	// Day 0 of the next month is the last day, which keeps leap years right.
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	lastDay := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, time.Month(month), lastDay.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)
	daysInMonth := lastDay.Day()

	expenses, err := s.repo.FindForReport(ctx, userID, "", from, to)
	if err != nil {
		return nil, fmt.Errorf("monthly report: %w", err)
	}

	groups := make(map[domain.Category]*accumulator)
	var total float64
	for _, e := range expenses {
		acc := groups[e.Category]
		if acc == nil {
			acc = &accumulator{}
			groups[e.Category] = acc
		}
		acc.add(e.Amount)
		total += e.Amount
	}

	report := &ports.MonthlyReport{
		Month:             month,
		Year:              year,
		Total:             round2(total),
		TotalTransactions: len(expenses),
		DailyAverage:      round2(total / float64(daysInMonth)),
		DaysInMonth:       daysInMonth,
		CategoryBreakdown: categoryBreakdown(groups, total),
		Expenses:          reportExpenses(expenses),
	}

	s.logger.Debug().
		Str("user_id", userID).
		Int("month", month).
		Int("year", year).
		Int("transactions", report.TotalTransactions).
		Msg("monthly report computed")

	return report, nil
}

// CategoryReport computes statistics and a per-month trend for a single
// category, optionally bounded by an inclusive date window.
func (s *ReportService) CategoryReport(ctx context.Context, userID string, category domain.Category, from, to time.Time) (*ports.CategoryReport, error) {
	if !category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", domain.ErrInvalidReportQuery, category)
	}

	expenses, err := s.repo.FindForReport(ctx, userID, category, from, to)
	if err != nil {
		return nil, fmt.Errorf("category report: %w", err)
	}

	var acc accumulator
	trend := make(map[string]*accumulator)
	for _, e := range expenses {
		acc.add(e.Amount)
		key := e.Date.UTC().Format("2006-01")
		p := trend[key]
		if p == nil {
			p = &accumulator{}
			trend[key] = p
		}
		p.add(e.Amount)
	}

	points := make([]ports.TrendPoint, 0, len(trend))
	for month, a := range trend {
		points = append(points, ports.TrendPoint{
			Month:   month,
			Total:   round2(a.sum),
			Count:   a.count,
			Average: round2(a.sum / float64(a.count)),
		})
	}
	// "YYYY-MM" sorts chronologically.
	sort.Slice(points, func(i, j int) bool { return points[i].Month < points[j].Month })

	return &ports.CategoryReport{
		Category:     category,
		Statistics:   statistics(acc),
		MonthlyTrend: points,
		Expenses:     reportExpenses(expenses),
	}, nil
}

// OverallStats computes the overall block plus category and payment-method
// breakdowns for an optional inclusive date window.
func (s *ReportService) OverallStats(ctx context.Context, userID string, from, to time.Time) (*ports.OverallStats, error) {
	expenses, err := s.repo.FindForReport(ctx, userID, "", from, to)
	if err != nil {
		return nil, fmt.Errorf("overall stats: %w", err)
	}

	var overall accumulator
	byCategory := make(map[domain.Category]*accumulator)
	byPayment := make(map[domain.PaymentMethod]*accumulator)
	for _, e := range expenses {
		overall.add(e.Amount)

		c := byCategory[e.Category]
		if c == nil {
			c = &accumulator{}
			byCategory[e.Category] = c
		}
		c.add(e.Amount)

		p := byPayment[e.PaymentMethod]
		if p == nil {
			p = &accumulator{}
			byPayment[e.PaymentMethod] = p
		}
		p.add(e.Amount)
	}

	payments := make([]ports.PaymentBreakdownItem, 0, len(byPayment))
	for method, a := range byPayment {
		payments = append(payments, ports.PaymentBreakdownItem{
			PaymentMethod: method,
			Amount:        round2(a.sum),
			Count:         a.count,
			Percentage:    percentage(a.sum, overall.sum),
		})
	}
	sort.Slice(payments, func(i, j int) bool {
		if payments[i].Amount != payments[j].Amount {
			return payments[i].Amount > payments[j].Amount
		}
		return payments[i].PaymentMethod < payments[j].PaymentMethod
	})

	return &ports.OverallStats{
		Overall:           statistics(overall),
		CategoryBreakdown: categoryBreakdown(byCategory, overall.sum),
		PaymentBreakdown:  payments,
	}, nil
}

// categoryBreakdown flattens group accumulators into items sorted by
// descending amount, with category name as a deterministic tie-break.
func categoryBreakdown(groups map[domain.Category]*accumulator, total float64) []ports.CategoryBreakdownItem {
	items := make([]ports.CategoryBreakdownItem, 0, len(groups))
	for category, a := range groups {
		items = append(items, ports.CategoryBreakdownItem{
			Category:   category,
			Amount:     round2(a.sum),
			Count:      a.count,
			Percentage: percentage(a.sum, total),
		})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Amount != items[j].Amount {
			return items[i].Amount > items[j].Amount
		}
		return items[i].Category < items[j].Category
	})
	return items
}

func statistics(a accumulator) ports.Statistics {
	stats := ports.Statistics{
		Count: a.count,
		Total: round2(a.sum),
		Max:   round2(a.max),
		Min:   round2(a.min),
	}
	if a.count > 0 {
		stats.Average = round2(a.sum / float64(a.count))
	}
	return stats
}

func reportExpenses(expenses []*domain.Expense) []ports.ReportExpense {
	out := make([]ports.ReportExpense, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, ports.ReportExpense{
			ID:            e.ID,
			Title:         e.Title,
			Amount:        e.Amount,
			Category:      e.Category,
			Date:          e.Date,
			PaymentMethod: e.PaymentMethod,
		})
	}
	return out
}

// percentage reports part's share of total. A zero total yields 0, never NaN.
func percentage(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	return round2(100 * part / total)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
