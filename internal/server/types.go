package server

import (
	"github.com/theirongolddev/cbudget/internal/model"

	"github.com/shopspring/decimal"
)

// IncomeRequest is one income in an evaluate request.
type IncomeRequest struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

// ExpenseRequest adjusts one catalog category. Omitted fields keep the
// catalog default (active, default amount).
type ExpenseRequest struct {
	Name   string           `json:"name"`
	Active *bool            `json:"active,omitempty"`
	Amount *decimal.Decimal `json:"amount,omitempty"`
}

// EvaluateRequest is the body of POST /v1/evaluate.
type EvaluateRequest struct {
	Incomes       []IncomeRequest  `json:"incomes,omitempty"`
	Expenses      []ExpenseRequest `json:"expenses,omitempty"`
	HorizonMonths *int             `json:"horizon_months,omitempty"`
}

// EvaluateResponse is returned by POST /v1/evaluate.
type EvaluateResponse struct {
	Result      model.Result       `json:"result"`
	Deficit     bool               `json:"deficit"`
	SavingsRate float64            `json:"savings_rate"`
	Breakdown   []model.GroupTotal `json:"breakdown"`
	Schedule    []model.MonthPoint `json:"schedule,omitempty"`
}

// CatalogEntry is one row of GET /v1/catalog.
type CatalogEntry struct {
	Name          string          `json:"name"`
	Group         model.Group     `json:"group"`
	DefaultAmount decimal.Decimal `json:"default_amount"`
}

// ErrorResponse is the body of every non-2xx JSON reply.
type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}
