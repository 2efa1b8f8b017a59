package ports

import (
	"context"
	"time"

	"github.com/spendwise/expense-api/internal/core/domain"
)

// ExpenseFilter carries the query parameters for listing expenses.
// UserID is always enforced by the service layer (owner scoping).
type ExpenseFilter struct {
	UserID   string
	Category domain.Category // optional: empty = no category filter
	DateFrom time.Time       // optional: date >= DateFrom (inclusive)
	DateTo   time.Time       // optional: date <= DateTo (inclusive)
	SortBy   string          // document field to sort on
	SortAsc  bool            // false = descending (default order is date desc)
	Page     int             // 1-based; only meaningful when Limit > 0
	Limit    int             // 0 = unpaginated, return all matches
}

// ExpensePatch is a typed partial update. Only non-nil fields are applied;
// owner and timestamps are never patchable.
type ExpensePatch struct {
	Title         *string
	Amount        *float64
	Category      *domain.Category
	Date          *time.Time
	Notes         *string
	PaymentMethod *domain.PaymentMethod
}

// IsZero reports whether the patch carries no fields at all.
func (p ExpensePatch) IsZero() bool {
	return p.Title == nil && p.Amount == nil && p.Category == nil &&
		p.Date == nil && p.Notes == nil && p.PaymentMethod == nil
}

// ExpenseRepository defines persistence operations for expense records.
// Every operation is scoped to the owning user: a record that exists but is
// owned by someone else behaves exactly like a missing record.
type ExpenseRepository interface {
	Create(ctx context.Context, e *domain.Expense) (*domain.Expense, error)
	FindByID(ctx context.Context, id, userID string) (*domain.Expense, error)
	// List returns a page of expenses matching filter and the total match count.
	List(ctx context.Context, f ExpenseFilter) ([]*domain.Expense, int64, error)
	// SumAmount returns the total amount across the whole filtered set,
	// ignoring pagination.
	SumAmount(ctx context.Context, f ExpenseFilter) (float64, error)
	// Update applies the patch to the record identified by id+userID and
	// returns the updated document with a refreshed update timestamp.
	Update(ctx context.Context, id, userID string, patch ExpensePatch, now time.Time) (*domain.Expense, error)
	// Delete removes the record identified by id+userID and returns the
	// deleted document.
	Delete(ctx context.Context, id, userID string) (*domain.Expense, error)
	// FindForReport fetches all of a user's expenses matching the optional
	// category and inclusive date bounds, sorted by date descending. The
	// reporting engine folds these rows in memory.
	FindForReport(ctx context.Context, userID string, category domain.Category, from, to time.Time) ([]*domain.Expense, error)
}
