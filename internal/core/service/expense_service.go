package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/spendwise/expense-api/internal/core/domain"
	"github.com/spendwise/expense-api/internal/core/ports"
)

const (
	defaultSortField = "date"
	maxPageSize      = 100
)

// sortFields maps API sort names to document fields. Anything outside this
// allow-list falls back to the default sort.
var sortFields = map[string]string{
	"date":      "date",
	"amount":    "amount",
	"title":     "title",
	"category":  "category",
	"createdAt": "created_at",
}

// ExpenseService implements CRUD over owner-scoped expense records.
type ExpenseService struct {
	repo   ports.ExpenseRepository
	logger zerolog.Logger
}

func NewExpenseService(repo ports.ExpenseRepository, logger zerolog.Logger) *ExpenseService {
	return &ExpenseService{repo: repo, logger: logger}
}

// CreateExpense validates and persists a new expense. The owner is always
// the verified caller; date defaults to now, payment method to Other.
func (s *ExpenseService) CreateExpense(ctx context.Context, input ports.CreateExpenseInput) (*domain.Expense, error) {
	now := time.Now().UTC()

	date := input.Date
	if date.IsZero() {
		date = now
	}
	method := input.PaymentMethod
	if method == "" {
		method = domain.PaymentOther
	}

	expense := &domain.Expense{
		UserID:        input.UserID,
		Title:         input.Title,
		Amount:        input.Amount,
		Category:      input.Category,
		Date:          date,
		Notes:         input.Notes,
		PaymentMethod: method,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := expense.Validate(); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, expense)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", input.UserID).Msg("failed to create expense")
		return nil, err
	}

	s.logger.Info().
		Str("expense_id", created.ID).
		Str("user_id", created.UserID).
		Str("category", string(created.Category)).
		Msg("expense created")

	return created, nil
}

func (s *ExpenseService) GetExpense(ctx context.Context, id, userID string) (*domain.Expense, error) {
	return s.repo.FindByID(ctx, id, userID)
}

// ListExpenses returns the caller's expenses matching the optional category
// and date filters. When Limit is zero the full filtered set is returned
// without a pagination block. The summary always covers the filtered set.
func (s *ExpenseService) ListExpenses(ctx context.Context, input ports.ListExpensesInput) (*ports.ListExpensesResult, error) {
	sortBy, ok := sortFields[input.SortBy]
	if !ok {
		sortBy = defaultSortField
	}

	filter := ports.ExpenseFilter{
		UserID:   input.UserID,
		Category: input.Category,
		DateFrom: input.DateFrom,
		DateTo:   input.DateTo,
		SortBy:   sortBy,
		SortAsc:  input.Order == "asc",
	}

	paginated := input.Limit > 0
	if paginated {
		filter.Limit = input.Limit
		if filter.Limit > maxPageSize {
			filter.Limit = maxPageSize
		}
		filter.Page = input.Page
		if filter.Page < 1 {
			filter.Page = 1
		}
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}

	totalAmount, err := s.repo.SumAmount(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list expenses: sum: %w", err)
	}

	result := &ports.ListExpensesResult{
		Items: items,
		Summary: ports.ListSummary{
			TotalCount:  total,
			TotalAmount: totalAmount,
		},
	}
	if paginated {
		result.Pagination = &ports.PageInfo{
			Page:       filter.Page,
			TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
			TotalCount: total,
			Limit:      filter.Limit,
		}
	}
	return result, nil
}

// UpdateExpense applies a typed partial update to the caller's record.
// Absent fields stay untouched; the patched record is validated before
// persistence so an invalid field never reaches the store.
func (s *ExpenseService) UpdateExpense(ctx context.Context, id, userID string, patch ports.ExpensePatch) (*domain.Expense, error) {
	current, err := s.repo.FindByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	// An empty patch changes nothing; skip the write and keep updatedAt.
	if patch.IsZero() {
		return current, nil
	}

	preview := *current
	if patch.Title != nil {
		preview.Title = *patch.Title
	}
	if patch.Amount != nil {
		preview.Amount = *patch.Amount
	}
	if patch.Category != nil {
		preview.Category = *patch.Category
	}
	if patch.Date != nil {
		preview.Date = *patch.Date
	}
	if patch.Notes != nil {
		preview.Notes = *patch.Notes
	}
	if patch.PaymentMethod != nil {
		preview.PaymentMethod = *patch.PaymentMethod
	}
	if err := preview.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, id, userID, patch, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("expense_id", id).Str("user_id", userID).Msg("expense updated")
	return updated, nil
}

// DeleteExpense removes the caller's record and returns its data so clients
// can show a confirmation. There is no soft delete.
func (s *ExpenseService) DeleteExpense(ctx context.Context, id, userID string) (*domain.Expense, error) {
	deleted, err := s.repo.Delete(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("expense_id", id).Str("user_id", userID).Msg("expense deleted")
	return deleted, nil
}
