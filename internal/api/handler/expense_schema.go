package handler

import (
	"fmt"
	"time"

	"github.com/spendwise/expense-api/internal/core/domain"
	"github.com/spendwise/expense-api/internal/core/ports"
)

type createExpenseRequest struct {
	Title         string  `json:"title"         validate:"required,max=200"`
	Amount        float64 `json:"amount"        validate:"required,gt=0"`
	Category      string  `json:"category"      validate:"required,oneof=Food Transportation Entertainment Healthcare Shopping Bills Education Travel Personal Other"`
	Date          string  `json:"date"`
	Notes         string  `json:"notes"         validate:"omitempty,max=500"`
	PaymentMethod string  `json:"paymentMethod" validate:"omitempty,oneof=Cash 'Credit Card' 'Debit Card' UPI 'Net Banking' Other"`
}

// updateExpenseRequest is a typed patch: nil means "leave untouched", so a
// partial body only changes the fields it names. Owner and timestamps are
// not representable here at all.
type updateExpenseRequest struct {
	Title         *string  `json:"title"         validate:"omitempty,min=1,max=200"`
	Amount        *float64 `json:"amount"        validate:"omitempty,gt=0"`
	Category      *string  `json:"category"      validate:"omitempty,oneof=Food Transportation Entertainment Healthcare Shopping Bills Education Travel Personal Other"`
	Date          *string  `json:"date"`
	Notes         *string  `json:"notes"         validate:"omitempty,max=500"`
	PaymentMethod *string  `json:"paymentMethod" validate:"omitempty,oneof=Cash 'Credit Card' 'Debit Card' UPI 'Net Banking' Other"`
}

type listExpensesRequest struct {
	Category  string `query:"category"  validate:"omitempty,oneof=Food Transportation Entertainment Healthcare Shopping Bills Education Travel Personal Other"`
	StartDate string `query:"startDate"`
	EndDate   string `query:"endDate"`
	SortBy    string `query:"sortBy"    validate:"omitempty,oneof=date amount title category createdAt"`
	Order     string `query:"order"     validate:"omitempty,oneof=asc desc"`
	Page      int    `query:"page"      validate:"omitempty,gte=1"`
	Limit     int    `query:"limit"     validate:"omitempty,gte=1,lte=100"`
}

type listExpensesResponse struct {
	Expenses   []*domain.Expense `json:"expenses"`
	Pagination *ports.PageInfo   `json:"pagination,omitempty"`
	Summary    ports.ListSummary `json:"summary"`
}

// parseDate accepts RFC 3339 or plain YYYY-MM-DD timestamps.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q, expected RFC 3339 or YYYY-MM-DD", s)
}

// parseEndDate widens a plain YYYY-MM-DD upper bound to the last instant of
// that day so the range stays inclusive.
func parseEndDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected RFC 3339 or YYYY-MM-DD", s)
	}
	return t.UTC().Add(24*time.Hour - time.Nanosecond), nil
}

// parseDateRange resolves the optional startDate/endDate query pair.
func parseDateRange(startDate, endDate string) (from, to time.Time, err error) {
	if startDate != "" {
		if from, err = parseDate(startDate); err != nil {
			return
		}
	}
	if endDate != "" {
		if to, err = parseEndDate(endDate); err != nil {
			return
		}
	}
	return
}
