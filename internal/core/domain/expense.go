package domain

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Category is the closed set of expense categories.
type Category string

const (
	CategoryFood           Category = "Food"
	CategoryTransportation Category = "Transportation"
	CategoryEntertainment  Category = "Entertainment"
	CategoryHealthcare     Category = "Healthcare"
	CategoryShopping       Category = "Shopping"
	CategoryBills          Category = "Bills"
	CategoryEducation      Category = "Education"
	CategoryTravel         Category = "Travel"
	CategoryPersonal       Category = "Personal"
	CategoryOther          Category = "Other"
)

var categories = map[Category]struct{}{
	CategoryFood:           {},
	CategoryTransportation: {},
	CategoryEntertainment:  {},
	CategoryHealthcare:     {},
	CategoryShopping:       {},
	CategoryBills:          {},
	CategoryEducation:      {},
	CategoryTravel:         {},
	CategoryPersonal:       {},
	CategoryOther:          {},
}

// Valid reports whether c is one of the ten known categories.
func (c Category) Valid() bool {
	_, ok := categories[c]
	return ok
}

// PaymentMethod is the closed set of payment methods.
type PaymentMethod string

const (
	PaymentCash       PaymentMethod = "Cash"
	PaymentCreditCard PaymentMethod = "Credit Card"
	PaymentDebitCard  PaymentMethod = "Debit Card"
	PaymentUPI        PaymentMethod = "UPI"
	PaymentNetBanking PaymentMethod = "Net Banking"
	PaymentOther      PaymentMethod = "Other"
)

var paymentMethods = map[PaymentMethod]struct{}{
	PaymentCash:       {},
	PaymentCreditCard: {},
	PaymentDebitCard:  {},
	PaymentUPI:        {},
	PaymentNetBanking: {},
	PaymentOther:      {},
}

// Valid reports whether p is one of the six known payment methods.
func (p PaymentMethod) Valid() bool {
	_, ok := paymentMethods[p]
	return ok
}

const (
	MaxTitleLen = 200
	MaxNotesLen = 500
)

var ErrExpenseNotFound = errors.New("expense not found")
var ErrInvalidExpense = errors.New("invalid expense")
var ErrInvalidReportQuery = errors.New("invalid report query")

// Expense is the core record. Every expense is exclusively scoped to the user
// identified by UserID; no sharing between users exists.
type Expense struct {
	ID            string        `json:"id"`
	UserID        string        `json:"userId"`
	Title         string        `json:"title"`
	Amount        float64       `json:"amount"`
	Category      Category      `json:"category"`
	Date          time.Time     `json:"date"`
	Notes         string        `json:"notes"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// Validate checks the field invariants that must hold before persistence.
func (e *Expense) Validate() error {
	if e.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidExpense)
	}
	if len(e.Title) > MaxTitleLen {
		return fmt.Errorf("%w: title exceeds %d characters", ErrInvalidExpense, MaxTitleLen)
	}
	if e.Amount <= 0 || math.IsInf(e.Amount, 0) || math.IsNaN(e.Amount) {
		return fmt.Errorf("%w: amount must be a positive finite number", ErrInvalidExpense)
	}
	if !e.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidExpense, e.Category)
	}
	if len(e.Notes) > MaxNotesLen {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidExpense, MaxNotesLen)
	}
	if !e.PaymentMethod.Valid() {
		return fmt.Errorf("%w: unknown payment method %q", ErrInvalidExpense, e.PaymentMethod)
	}
	return nil
}
