package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/cbudget/internal/cli"
	"github.com/theirongolddev/cbudget/internal/tui/components"
	"github.com/theirongolddev/cbudget/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderIncomeTab(cw int) string {
	t := theme.Active
	innerW := components.CardInnerWidth(cw)
	incomes := a.snap.Incomes()

	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceHover).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	totalStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)

	amountW := lipgloss.Width(cli.FormatMoney(a.result.TotalIncome))
	for _, in := range incomes {
		amountW = max(amountW, lipgloss.Width(cli.FormatMoney(in.Amount)))
	}
	labelW := max(innerW-amountW-3, 10)

	var b strings.Builder
	for i, in := range incomes {
		style := rowStyle
		marker := "  "
		if i == a.incomeCursor {
			style = selStyle
			marker = "▸ "
		}

		line := fmt.Sprintf("%s%-*s %*s", marker, labelW, truncStr(in.Label, labelW), amountW, cli.FormatMoney(in.Amount))
		if a.editing && i == a.incomeCursor {
			line = fmt.Sprintf("%s%-*s ", marker, labelW, truncStr(in.Label, labelW))
			b.WriteString(style.Render(line) + a.input.View())
		} else {
			b.WriteString(style.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString(dimStyle.Render(strings.Repeat("─", innerW)))
	b.WriteString("\n")
	b.WriteString(totalStyle.Render(fmt.Sprintf("  %-*s %*s", labelW, "Total monthly income", amountW, cli.FormatMoney(a.result.TotalIncome))))

	if a.editErr != "" {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface).Render("✗ " + a.editErr))
	}

	return components.ContentCard("Income (monthly, after tax)", b.String(), cw)
}
