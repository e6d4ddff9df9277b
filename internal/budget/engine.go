// Package budget computes totals, group breakdowns and linear projections
// from a budget snapshot.
package budget

import (
	"github.com/theirongolddev/cbudget/internal/model"

	"github.com/shopspring/decimal"
)

// Evaluate derives monthly totals and their projections from a snapshot.
// Snapshots are validated on construction, so Evaluate cannot fail.
func Evaluate(s model.Snapshot) model.Result {
	var r model.Result
	r.HorizonMonths = s.HorizonMonths()

	r.TotalIncome = decimal.Zero
	for _, in := range s.Incomes() {
		r.TotalIncome = r.TotalIncome.Add(in.Amount)
	}

	r.TotalExpenditure = decimal.Zero
	for _, e := range s.Expenses() {
		if !e.Active {
			continue
		}
		r.TotalExpenditure = r.TotalExpenditure.Add(e.Amount)
	}

	r.NetCashFlow = r.TotalIncome.Sub(r.TotalExpenditure)

	months := decimal.NewFromInt(int64(r.HorizonMonths))
	r.ProjectedIncome = r.TotalIncome.Mul(months)
	r.ProjectedExpenditure = r.TotalExpenditure.Mul(months)
	r.ProjectedCashFlow = r.NetCashFlow.Mul(months)

	return r
}

// Breakdown splits active expenditure by catalog group.
// Groups are returned in catalog order; empty groups are omitted.
func Breakdown(s model.Snapshot) []model.GroupTotal {
	byGroup := make(map[model.Group]*model.GroupTotal)
	var order []model.Group
	total := decimal.Zero

	for _, e := range s.Expenses() {
		gt, ok := byGroup[e.Group]
		if !ok {
			gt = &model.GroupTotal{Group: e.Group, Total: decimal.Zero}
			byGroup[e.Group] = gt
			order = append(order, e.Group)
		}
		gt.Categories++
		if !e.Active {
			continue
		}
		gt.Active++
		gt.Total = gt.Total.Add(e.Amount)
		total = total.Add(e.Amount)
	}

	groups := make([]model.GroupTotal, 0, len(order))
	for _, g := range order {
		gt := byGroup[g]
		if total.IsPositive() {
			gt.SharePercent = gt.Total.Div(total).Mul(decimal.NewFromInt(100)).InexactFloat64()
		}
		groups = append(groups, *gt)
	}
	return groups
}

// MaxScheduleMonths caps the number of points Schedule returns.
const MaxScheduleMonths = 1200

// Schedule returns the cumulative totals at the end of each month of the
// horizon, up to MaxScheduleMonths points. When the horizon fits, the last
// point equals the projected totals from Evaluate.
func Schedule(s model.Snapshot) []model.MonthPoint {
	r := Evaluate(s)

	points := make([]model.MonthPoint, min(r.HorizonMonths, MaxScheduleMonths))
	for i := range points {
		k := decimal.NewFromInt(int64(i + 1))
		points[i] = model.MonthPoint{
			Month:       i + 1,
			Income:      r.TotalIncome.Mul(k),
			Expenditure: r.TotalExpenditure.Mul(k),
			CashFlow:    r.NetCashFlow.Mul(k),
		}
	}
	return points
}

// SavingsRate returns net cash flow as a fraction of income, or zero when
// there is no income.
func SavingsRate(r model.Result) float64 {
	if !r.TotalIncome.IsPositive() {
		return 0
	}
	return r.NetCashFlow.Div(r.TotalIncome).InexactFloat64()
}
