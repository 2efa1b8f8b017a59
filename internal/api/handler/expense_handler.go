package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/spendwise/expense-api/internal/api/metrics"
	"github.com/spendwise/expense-api/internal/core/domain"
	"github.com/spendwise/expense-api/internal/core/ports"
)

// ExpenseHandler handles HTTP requests for expense CRUD operations.
type ExpenseHandler struct {
	service ports.ExpenseService
}

func NewExpenseHandler(service ports.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{service: service}
}

// List handles GET /api/expenses.
//
// @Summary      List the caller's expenses
// @Tags         expenses
// @Produce      json
// @Security     BearerAuth
// @Param        category   query     string  false  "Category filter"
// @Param        startDate  query     string  false  "Inclusive lower date bound"
// @Param        endDate    query     string  false  "Inclusive upper date bound"
// @Param        sortBy     query     string  false  "Sort field (default date)"
// @Param        order      query     string  false  "asc or desc (default desc)"
// @Param        page       query     int     false  "1-based page number"
// @Param        limit      query     int     false  "Page size; omit for all records"
// @Success      200        {object}  envelope
// @Failure      400        {object}  envelope
// @Router       /api/expenses [get]
func (h *ExpenseHandler) List(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req listExpensesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	from, to, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.ListExpenses(c.Request().Context(), ports.ListExpensesInput{
		UserID:   userID,
		Category: domain.Category(req.Category),
		DateFrom: from,
		DateTo:   to,
		SortBy:   req.SortBy,
		Order:    req.Order,
		Page:     req.Page,
		Limit:    req.Limit,
	})
	if err != nil {
		return err
	}

	items := result.Items
	if items == nil {
		items = []*domain.Expense{}
	}
	return respond(c, http.StatusOK, "expenses retrieved", listExpensesResponse{
		Expenses:   items,
		Pagination: result.Pagination,
		Summary:    result.Summary,
	})
}

// Get handles GET /api/expenses/:id.
//
// @Summary      Get one expense by id
// @Tags         expenses
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Expense id"
// @Success      200  {object}  envelope
// @Failure      404  {object}  envelope
// @Router       /api/expenses/{id} [get]
func (h *ExpenseHandler) Get(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	expense, err := h.service.GetExpense(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "expense retrieved", expense)
}

// Create handles POST /api/expenses.
//
// @Summary      Create a new expense
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createExpenseRequest  true  "Expense details"
// @Success      201   {object}  envelope
// @Failure      400   {object}  envelope
// @Router       /api/expenses [post]
func (h *ExpenseHandler) Create(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req createExpenseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var date time.Time
	if req.Date != "" {
		if date, err = parseDate(req.Date); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}

	expense, err := h.service.CreateExpense(c.Request().Context(), ports.CreateExpenseInput{
		UserID:        userID,
		Title:         req.Title,
		Amount:        req.Amount,
		Category:      domain.Category(req.Category),
		Date:          date,
		Notes:         req.Notes,
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		return err
	}

	metrics.ExpensesCreatedTotal.WithLabelValues(string(expense.Category)).Inc()
	return respond(c, http.StatusCreated, "expense created", expense)
}

// Update handles PUT /api/expenses/:id.
//
// @Summary      Partially update an expense
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Expense id"
// @Param        body  body      updateExpenseRequest  true  "Fields to change"
// @Success      200   {object}  envelope
// @Failure      400   {object}  envelope
// @Failure      404   {object}  envelope
// @Router       /api/expenses/{id} [put]
func (h *ExpenseHandler) Update(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req updateExpenseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	patch := ports.ExpensePatch{
		Title:  req.Title,
		Amount: req.Amount,
		Notes:  req.Notes,
	}
	if req.Category != nil {
		category := domain.Category(*req.Category)
		patch.Category = &category
	}
	if req.PaymentMethod != nil {
		method := domain.PaymentMethod(*req.PaymentMethod)
		patch.PaymentMethod = &method
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		patch.Date = &date
	}

	expense, err := h.service.UpdateExpense(c.Request().Context(), c.Param("id"), userID, patch)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "expense updated", expense)
}

// Delete handles DELETE /api/expenses/:id. The deleted record is returned so
// clients can show a confirmation.
//
// @Summary      Delete an expense
// @Tags         expenses
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Expense id"
// @Success      200  {object}  envelope
// @Failure      404  {object}  envelope
// @Router       /api/expenses/{id} [delete]
func (h *ExpenseHandler) Delete(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	deleted, err := h.service.DeleteExpense(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return err
	}

	metrics.ExpensesDeletedTotal.Inc()
	return respond(c, http.StatusOK, "expense deleted", deleted)
}
