package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/cbudget/internal/cli"
	"github.com/theirongolddev/cbudget/internal/tui/components"
	"github.com/theirongolddev/cbudget/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderProjectionTab(cw, h int) string {
	t := theme.Active
	r := a.result
	var b strings.Builder

	// Row 1: projected totals
	flowColor := cashFlowColor(r.ProjectedCashFlow.IsNegative())
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Projected Income", Value: cli.FormatMoney(r.ProjectedIncome), Delta: cli.FormatMoney(r.TotalIncome) + "/month"},
		{Label: "Projected Expenditure", Value: cli.FormatMoney(r.ProjectedExpenditure), Delta: cli.FormatMoney(r.TotalExpenditure) + "/month"},
		{Label: "Projected Cash Flow", Value: cli.FormatSignedMoney(r.ProjectedCashFlow), Delta: cli.FormatSignedMoney(r.NetCashFlow) + "/month", Color: flowColor},
	}, cw))
	b.WriteString("\n")

	// Row 2: cumulative cash flow chart
	labels := make([]string, len(a.schedule))
	for i, p := range a.schedule {
		labels[i] = fmt.Sprintf("M%d", p.Month)
	}
	chartH := max(min(h-16, 10), 4)
	b.WriteString(components.ContentCard(
		"Cumulative cash flow over "+cli.FormatMonths(r.HorizonMonths),
		components.BarChart(cashFlowSeries(a.schedule), labels, flowColor, components.CardInnerWidth(cw), chartH),
		cw,
	))
	b.WriteString("\n")

	// Row 3: month-by-month table (last rows when the horizon is long)
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	row := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	colW := max((components.CardInnerWidth(cw)-8)/3, 12)

	var tb strings.Builder
	tb.WriteString(muted.Render(fmt.Sprintf("%-6s  %*s%*s%*s", "Month", colW, "Income", colW, "Expenditure", colW, "Cash flow")))
	points := a.schedule
	if maxRows := 12; len(points) > maxRows {
		points = points[len(points)-maxRows:]
	}
	for _, p := range points {
		tb.WriteString("\n")
		flow := lipgloss.NewStyle().Foreground(cashFlowColor(p.CashFlow.IsNegative())).Background(t.Surface)
		tb.WriteString(row.Render(fmt.Sprintf("%-6d  %*s%*s", p.Month, colW, cli.FormatMoneyShort(p.Income), colW, cli.FormatMoneyShort(p.Expenditure))))
		tb.WriteString(flow.Render(fmt.Sprintf("%*s", colW, cli.FormatSignedMoney(p.CashFlow))))
	}
	b.WriteString(components.ContentCard("Schedule", tb.String(), cw))

	return b.String()
}
