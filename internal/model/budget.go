// Package model defines domain types for cbudget snapshots and results.
package model

import "github.com/shopspring/decimal"

// Group is the catalog section an expense category belongs to.
type Group string

// Catalog groups, in display order.
const (
	GroupCore       Group = "Core"
	GroupLiving     Group = "Living"
	GroupDisposable Group = "Disposable"
	GroupInvestment Group = "Investment & Pension"
	GroupMisc       Group = "Miscellaneous"
)

// Groups lists every group in catalog order.
var Groups = []Group{GroupCore, GroupLiving, GroupDisposable, GroupInvestment, GroupMisc}

// IncomeEntry is one monthly income source (after tax).
type IncomeEntry struct {
	Label  string
	Amount decimal.Decimal
}

// ExpenseCategory is one catalog line item with its current toggle and amount.
type ExpenseCategory struct {
	Name          string
	Group         Group
	DefaultAmount decimal.Decimal
	Active        bool
	Amount        decimal.Decimal
}

// Effective returns the amount this entry contributes to expenditure.
// Inactive entries contribute zero whatever their stored amount.
func (e ExpenseCategory) Effective() decimal.Decimal {
	if !e.Active {
		return decimal.Zero
	}
	return e.Amount
}

// Result holds the totals derived from a single Snapshot.
type Result struct {
	HorizonMonths int `json:"horizon_months"`

	TotalIncome      decimal.Decimal `json:"total_income"`
	TotalExpenditure decimal.Decimal `json:"total_expenditure"`
	NetCashFlow      decimal.Decimal `json:"net_cash_flow"`

	ProjectedIncome      decimal.Decimal `json:"projected_income"`
	ProjectedExpenditure decimal.Decimal `json:"projected_expenditure"`
	ProjectedCashFlow    decimal.Decimal `json:"projected_cash_flow"`
}

// IsDeficit reports whether monthly expenditure exceeds income.
func (r Result) IsDeficit() bool {
	return r.NetCashFlow.IsNegative()
}

// GroupTotal holds the active expenditure for one catalog group.
type GroupTotal struct {
	Group        Group           `json:"group"`
	Categories   int             `json:"categories"`
	Active       int             `json:"active"`
	Total        decimal.Decimal `json:"total"`
	SharePercent float64         `json:"share_percent"`
}

// MonthPoint holds cumulative totals after Month months.
type MonthPoint struct {
	Month       int             `json:"month"`
	Income      decimal.Decimal `json:"income"`
	Expenditure decimal.Decimal `json:"expenditure"`
	CashFlow    decimal.Decimal `json:"cash_flow"`
}
