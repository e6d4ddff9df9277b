package model

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// Snapshot is one immutable capture of every input used for a single
// evaluation. The zero value is not valid; build one with NewSnapshot.
type Snapshot struct {
	incomes       []IncomeEntry
	expenses      []ExpenseCategory
	horizonMonths int
}

// NewSnapshot validates the inputs and returns a snapshot that owns copies of
// both slices. Negative amounts and horizons below one month are rejected with
// an *InvalidInputError.
func NewSnapshot(incomes []IncomeEntry, expenses []ExpenseCategory, horizonMonths int) (Snapshot, error) {
	for i, in := range incomes {
		if in.Amount.IsNegative() {
			return Snapshot{}, &InvalidInputError{
				Field: fmt.Sprintf("incomes[%d].amount", i),
				Value: in.Amount.String(),
				Err:   ErrInvalidAmount,
			}
		}
	}
	for _, e := range expenses {
		if e.Amount.IsNegative() {
			return Snapshot{}, &InvalidInputError{
				Field: fmt.Sprintf("expenses[%s].amount", e.Name),
				Value: e.Amount.String(),
				Err:   ErrInvalidAmount,
			}
		}
	}
	if horizonMonths < 1 {
		return Snapshot{}, &InvalidInputError{
			Field: "horizon_months",
			Value: strconv.Itoa(horizonMonths),
			Err:   ErrInvalidHorizon,
		}
	}

	return Snapshot{
		incomes:       append([]IncomeEntry(nil), incomes...),
		expenses:      append([]ExpenseCategory(nil), expenses...),
		horizonMonths: horizonMonths,
	}, nil
}

// Incomes returns a copy of the income entries in order.
func (s Snapshot) Incomes() []IncomeEntry {
	return append([]IncomeEntry(nil), s.incomes...)
}

// Expenses returns a copy of the expense entries in catalog order.
func (s Snapshot) Expenses() []ExpenseCategory {
	return append([]ExpenseCategory(nil), s.expenses...)
}

// HorizonMonths returns the projection horizon.
func (s Snapshot) HorizonMonths() int {
	return s.horizonMonths
}

// Expense returns the entry with the given name.
func (s Snapshot) Expense(name string) (ExpenseCategory, bool) {
	for _, e := range s.expenses {
		if e.Name == name {
			return e, true
		}
	}
	return ExpenseCategory{}, false
}

// WithIncomeAmount returns a new snapshot with income i set to amount.
func (s Snapshot) WithIncomeAmount(i int, amount decimal.Decimal) (Snapshot, error) {
	if i < 0 || i >= len(s.incomes) {
		return Snapshot{}, fmt.Errorf("%w: %d", ErrIncomeIndex, i)
	}
	incomes := s.Incomes()
	incomes[i].Amount = amount
	return NewSnapshot(incomes, s.expenses, s.horizonMonths)
}

// WithExpenseActive returns a new snapshot with the named entry toggled.
// The stored amount is kept so re-enabling restores it.
func (s Snapshot) WithExpenseActive(name string, active bool) (Snapshot, error) {
	return s.withExpense(name, func(e *ExpenseCategory) { e.Active = active })
}

// WithExpenseAmount returns a new snapshot with the named entry's amount replaced.
func (s Snapshot) WithExpenseAmount(name string, amount decimal.Decimal) (Snapshot, error) {
	return s.withExpense(name, func(e *ExpenseCategory) { e.Amount = amount })
}

// WithHorizon returns a new snapshot projecting over months.
func (s Snapshot) WithHorizon(months int) (Snapshot, error) {
	return NewSnapshot(s.incomes, s.expenses, months)
}

func (s Snapshot) withExpense(name string, edit func(*ExpenseCategory)) (Snapshot, error) {
	expenses := s.Expenses()
	for i := range expenses {
		if expenses[i].Name == name {
			edit(&expenses[i])
			return NewSnapshot(s.incomes, expenses, s.horizonMonths)
		}
	}
	return Snapshot{}, fmt.Errorf("%w: %q", ErrUnknownExpense, name)
}
