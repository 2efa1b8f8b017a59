package ports

import (
	"context"
	"time"

	"github.com/spendwise/expense-api/internal/core/domain"
)

// CreateExpenseInput carries all data needed to create a new expense.
// Owner is always taken from the verified identity, never from the body.
type CreateExpenseInput struct {
	UserID        string
	Title         string
	Amount        float64
	Category      domain.Category
	Date          time.Time // zero = default to current time
	Notes         string
	PaymentMethod domain.PaymentMethod // empty = defaults to Other
}

// ListExpensesInput carries all parameters for the list endpoint.
type ListExpensesInput struct {
	UserID   string
	Category domain.Category
	DateFrom time.Time
	DateTo   time.Time
	SortBy   string // one of: date, amount, title, category, createdAt
	Order    string // "asc" or "desc" (default desc)
	Page     int    // 1-based; used only when Limit > 0
	Limit    int    // 0 = unpaginated
}

// PageInfo summarises pagination state for a list response.
type PageInfo struct {
	Page       int   `json:"page"`
	TotalPages int   `json:"totalPages"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
}

// ListSummary covers the whole filtered set, not just the returned page.
type ListSummary struct {
	TotalCount  int64   `json:"totalCount"`
	TotalAmount float64 `json:"totalAmount"`
}

// ListExpensesResult is returned by ListExpenses. Pagination is nil when the
// request was unpaginated.
type ListExpensesResult struct {
	Items      []*domain.Expense
	Pagination *PageInfo
	Summary    ListSummary
}

// ExpenseService defines the use-case operations over expense records.
type ExpenseService interface {
	CreateExpense(ctx context.Context, input CreateExpenseInput) (*domain.Expense, error)
	GetExpense(ctx context.Context, id, userID string) (*domain.Expense, error)
	ListExpenses(ctx context.Context, input ListExpensesInput) (*ListExpensesResult, error)
	UpdateExpense(ctx context.Context, id, userID string, patch ExpensePatch) (*domain.Expense, error)
	DeleteExpense(ctx context.Context, id, userID string) (*domain.Expense, error)
}
