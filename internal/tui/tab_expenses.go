package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/cbudget/internal/cli"
	"github.com/theirongolddev/cbudget/internal/model"
	"github.com/theirongolddev/cbudget/internal/tui/components"
	"github.com/theirongolddev/cbudget/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// inactiveAmount is shown in place of an inactive entry's amount.
const inactiveAmount = "—"

func (a App) renderExpensesTab(cw, h int) string {
	t := theme.Active
	innerW := components.CardInnerWidth(cw)
	expenses := a.snap.Expenses()

	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	offStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	selStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceHover).Bold(true)
	groupStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	subStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	onStyle := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface)
	totalStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)

	amountW := lipgloss.Width(cli.FormatMoney(a.result.TotalExpenditure))
	for _, e := range expenses {
		amountW = max(amountW, lipgloss.Width(cli.FormatMoney(e.Amount)))
	}
	const shareW = 6
	// "▸ [x] " + name + " " + amount + " " + share
	nameW := max(innerW-6-amountW-shareW-2, 12)

	groupTotals := make(map[model.Group]model.GroupTotal, len(a.breakdown))
	for _, g := range a.breakdown {
		groupTotals[g.Group] = g
	}

	var lines []string
	cursorLine := 0
	var group model.Group
	for i, e := range expenses {
		if e.Group != group {
			group = e.Group
			gt := groupTotals[group]
			head := fmt.Sprintf("%-*s", innerW-amountW-shareW-2, fmt.Sprintf("%s (%d/%d on)", group, gt.Active, gt.Categories))
			lines = append(lines, groupStyle.Render(head)+
				subStyle.Render(fmt.Sprintf(" %*s %*s", amountW, cli.FormatMoney(gt.Total), shareW, fmt.Sprintf("%.0f%%", gt.SharePercent))))
		}

		marker := "  "
		if i == a.expenseCursor {
			marker = "▸ "
			cursorLine = len(lines)
		}
		check := "[ ] "
		if e.Active {
			check = "[x] "
		}

		amount := cli.FormatMoney(e.Amount)
		share := ""
		if !e.Active {
			amount = inactiveAmount
		} else if a.result.TotalExpenditure.IsPositive() {
			share = cli.FormatPercent(e.Amount.Div(a.result.TotalExpenditure).InexactFloat64())
		}

		name := fmt.Sprintf("%-*s ", nameW, truncStr(e.Name, nameW))
		switch {
		case i == a.expenseCursor && a.editing:
			lines = append(lines, selStyle.Render(marker+check+name)+a.input.View())
		case i == a.expenseCursor:
			lines = append(lines, selStyle.Render(fmt.Sprintf("%s%s%s%*s %*s", marker, check, name, amountW, amount, shareW, share)))
		case e.Active:
			lines = append(lines, rowStyle.Render(marker)+onStyle.Render(check)+
				rowStyle.Render(fmt.Sprintf("%s%*s %*s", name, amountW, amount, shareW, share)))
		default:
			lines = append(lines, offStyle.Render(fmt.Sprintf("%s%s%s%*s %*s", marker, check, name, amountW, amount, shareW, share)))
		}
	}

	lines = append(lines, offStyle.Render(strings.Repeat("─", innerW)))
	lines = append(lines, totalStyle.Render(fmt.Sprintf("%-*s %*s %*s", 6+nameW, "TOTAL", amountW,
		cli.FormatMoney(a.result.TotalExpenditure), shareW, "")))

	if a.editErr != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface).Render("✗ "+a.editErr))
	}

	// Card border and title take three lines.
	lines = visibleWindow(lines, cursorLine, h-3)

	title := fmt.Sprintf("Expenses (%d of %d on)", activeCount(a.snap), len(expenses))
	return components.ContentCard(title, strings.Join(lines, "\n"), cw)
}

// visibleWindow returns at most height lines of lines, scrolled so that line
// cursor is visible.
func visibleWindow(lines []string, cursor, height int) []string {
	if height <= 0 || len(lines) <= height {
		return lines
	}
	start := 0
	if cursor >= height {
		start = cursor - height + 1
	}
	start = min(start, len(lines)-height)
	return lines[start : start+height]
}
