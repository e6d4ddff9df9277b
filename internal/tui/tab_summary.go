package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/cbudget/internal/budget"
	"github.com/theirongolddev/cbudget/internal/cli"
	"github.com/theirongolddev/cbudget/internal/model"
	"github.com/theirongolddev/cbudget/internal/tui/components"
	"github.com/theirongolddev/cbudget/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderSummaryTab(cw int) string {
	t := theme.Active
	r := a.result
	var b strings.Builder

	// Row 1: monthly metric cards
	spentPct := 0.0
	if r.TotalIncome.IsPositive() {
		spentPct = r.TotalExpenditure.Div(r.TotalIncome).InexactFloat64()
	}

	netLabel, netColor := "Net (savings)", t.Green
	if r.IsDeficit() {
		netLabel, netColor = "Net (deficit)", t.Red
	}

	spentDelta := "no income"
	if r.TotalIncome.IsPositive() {
		spentDelta = cli.FormatPercent(spentPct) + " of income"
	}

	metrics := []components.Metric{
		{Label: "Monthly Income", Value: cli.FormatMoney(r.TotalIncome), Delta: fmt.Sprintf("%d sources", len(a.snap.Incomes()))},
		{Label: "Monthly Expenditure", Value: cli.FormatMoney(r.TotalExpenditure), Delta: spentDelta},
		{Label: netLabel, Value: cli.FormatSignedMoney(r.NetCashFlow), Color: netColor},
		{Label: "Savings Rate", Value: cli.FormatPercent(budget.SavingsRate(r)), Color: netColor},
	}
	if a.isCompactLayout() {
		b.WriteString(components.MetricCardRow(metrics[:2], cw))
		b.WriteString("\n")
		b.WriteString(components.MetricCardRow(metrics[2:], cw))
	} else {
		b.WriteString(components.MetricCardRow(metrics, cw))
	}
	b.WriteString("\n")

	// Row 2: where the money goes + projection
	halves := components.LayoutRow(cw, 2)
	if a.isCompactLayout() {
		b.WriteString(components.ContentCard("Spending", a.renderSpendingBody(components.CardInnerWidth(cw), spentPct), cw))
		b.WriteString("\n")
		b.WriteString(components.ContentCard(a.projectionTitle(), a.renderProjectionSummary(components.CardInnerWidth(cw)), cw))
	} else {
		b.WriteString(components.CardRow([]string{
			components.ContentCard("Spending", a.renderSpendingBody(components.CardInnerWidth(halves[0]), spentPct), halves[0]),
			components.ContentCard(a.projectionTitle(), a.renderProjectionSummary(components.CardInnerWidth(halves[1])), halves[1]),
		}))
	}

	return b.String()
}

func (a App) projectionTitle() string {
	return "Projection over " + cli.FormatMonths(a.result.HorizonMonths)
}

// renderSpendingBody shows expenditure against income, then each group's share.
func (a App) renderSpendingBody(innerW int, spentPct float64) string {
	t := theme.Active
	var b strings.Builder

	labelW := 0
	for _, g := range a.breakdown {
		labelW = max(labelW, lipgloss.Width(string(g.Group)))
	}
	labelW = min(labelW, 22)

	amountW := 0
	for _, g := range a.breakdown {
		amountW = max(amountW, lipgloss.Width(cli.FormatMoneyShort(g.Total)))
	}

	spendBarW := max(innerW-labelW-7, 8)
	b.WriteString(components.SpendBar("Spent", spentPct, labelW, spendBarW))
	b.WriteString("\n\n")

	shareBarW := max(innerW-labelW-amountW-9, 6)
	for i, g := range a.breakdown {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(components.ShareBar(truncStr(string(g.Group), labelW), cli.FormatMoneyShort(g.Total),
			g.SharePercent/100, labelW, amountW, shareBarW))
	}

	if activeCount(a.snap) == 0 {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).
			Render("All expenses are off."))
	}
	return b.String()
}

func (a App) renderProjectionSummary(innerW int) string {
	t := theme.Active
	r := a.result

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	flowStyle := lipgloss.NewStyle().Foreground(cashFlowColor(r.ProjectedCashFlow.IsNegative())).Background(t.Surface).Bold(true)
	space := lipgloss.NewStyle().Background(t.Surface)

	rows := []struct {
		label string
		value string
		style lipgloss.Style
	}{
		{"Projected income", cli.FormatMoney(r.ProjectedIncome), valueStyle},
		{"Projected expenditure", cli.FormatMoney(r.ProjectedExpenditure), valueStyle},
		{"Projected cash flow", cli.FormatSignedMoney(r.ProjectedCashFlow), flowStyle},
	}

	var b strings.Builder
	for i, row := range rows {
		if i > 0 {
			b.WriteString("\n")
		}
		gap := max(innerW-lipgloss.Width(row.label)-lipgloss.Width(row.value), 1)
		b.WriteString(labelStyle.Render(row.label))
		b.WriteString(space.Render(strings.Repeat(" ", gap)))
		b.WriteString(row.style.Render(row.value))
	}

	if len(a.schedule) > 1 {
		b.WriteString("\n\n")
		b.WriteString(labelStyle.Render("Cumulative "))
		b.WriteString(components.Sparkline(cashFlowSeries(a.schedule), cashFlowColor(r.IsDeficit())))
	}
	return b.String()
}

func cashFlowColor(negative bool) lipgloss.Color {
	if negative {
		return theme.Active.Red
	}
	return theme.Active.Green
}

func cashFlowSeries(points []model.MonthPoint) []float64 {
	vals := make([]float64, len(points))
	for i, p := range points {
		vals[i] = p.CashFlow.InexactFloat64()
	}
	return vals
}
