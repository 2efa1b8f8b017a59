package domain

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"
)

func validExpense() Expense {
	return Expense{
		UserID:        "user-0001",
		Title:         "Groceries",
		Amount:        42.5,
		Category:      CategoryFood,
		Date:          time.Now().UTC(),
		PaymentMethod: PaymentCash,
	}
}

func TestExpense_Validate_Accepts(t *testing.T) {
	e := validExpense()
	if err := e.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Boundary lengths are still valid.
	e.Title = strings.Repeat("t", MaxTitleLen)
	e.Notes = strings.Repeat("n", MaxNotesLen)
	if err := e.Validate(); err != nil {
		t.Errorf("boundary lengths must pass: %v", err)
	}
}

func TestExpense_Validate_Rejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Expense)
	}{
		{"empty title", func(e *Expense) { e.Title = "" }},
		{"overlong title", func(e *Expense) { e.Title = strings.Repeat("t", MaxTitleLen+1) }},
		{"zero amount", func(e *Expense) { e.Amount = 0 }},
		{"negative amount", func(e *Expense) { e.Amount = -1 }},
		{"NaN amount", func(e *Expense) { e.Amount = math.NaN() }},
		{"infinite amount", func(e *Expense) { e.Amount = math.Inf(1) }},
		{"unknown category", func(e *Expense) { e.Category = "Gambling" }},
		{"empty category", func(e *Expense) { e.Category = "" }},
		{"lowercase category", func(e *Expense) { e.Category = "food" }},
		{"overlong notes", func(e *Expense) { e.Notes = strings.Repeat("n", MaxNotesLen+1) }},
		{"unknown payment method", func(e *Expense) { e.PaymentMethod = "Barter" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := validExpense()
			tc.mutate(&e)
			if err := e.Validate(); !errors.Is(err, ErrInvalidExpense) {
				t.Errorf("expected ErrInvalidExpense, got %v", err)
			}
		})
	}
}

func TestCategory_Valid(t *testing.T) {
	all := []Category{
		CategoryFood, CategoryTransportation, CategoryEntertainment,
		CategoryHealthcare, CategoryShopping, CategoryBills,
		CategoryEducation, CategoryTravel, CategoryPersonal, CategoryOther,
	}
	for _, c := range all {
		if !c.Valid() {
			t.Errorf("%q must be valid", c)
		}
	}
	for _, c := range []Category{"", "food", "FOOD", "Grocery"} {
		if c.Valid() {
			t.Errorf("%q must be invalid", c)
		}
	}
}

func TestPaymentMethod_Valid(t *testing.T) {
	all := []PaymentMethod{
		PaymentCash, PaymentCreditCard, PaymentDebitCard,
		PaymentUPI, PaymentNetBanking, PaymentOther,
	}
	for _, p := range all {
		if !p.Valid() {
			t.Errorf("%q must be valid", p)
		}
	}
	for _, p := range []PaymentMethod{"", "cash", "CreditCard", "Cheque"} {
		if p.Valid() {
			t.Errorf("%q must be invalid", p)
		}
	}
}
