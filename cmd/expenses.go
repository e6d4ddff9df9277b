package cmd

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/cbudget/internal/budget"
	"github.com/theirongolddev/cbudget/internal/cli"
	"github.com/theirongolddev/cbudget/internal/model"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var expensesCmd = &cobra.Command{
	Use:     "expenses",
	Aliases: []string{"costs"},
	Short:   "Expense categories with group subtotals",
	RunE:    runExpenses,
}

func init() {
	rootCmd.AddCommand(expensesCmd)
}

// expenseRow is one category in `expenses --json`.
type expenseRow struct {
	Name   string          `json:"name"`
	Group  model.Group     `json:"group"`
	Active bool            `json:"active"`
	Amount decimal.Decimal `json:"amount"`
	// Effective is zero for inactive categories.
	Effective decimal.Decimal `json:"effective"`
}

type expensesOutput struct {
	Expenses         []expenseRow       `json:"expenses"`
	Groups           []model.GroupTotal `json:"groups"`
	TotalExpenditure decimal.Decimal    `json:"total_expenditure"`
}

func runExpenses(cmd *cobra.Command, _ []string) error {
	snap, err := currentSnapshot(cmd)
	if err != nil {
		return err
	}

	if flagJSON {
		out := expensesOutput{
			Groups:           budget.Breakdown(snap),
			TotalExpenditure: budget.Evaluate(snap).TotalExpenditure,
		}
		for _, e := range snap.Expenses() {
			out.Expenses = append(out.Expenses, expenseRow{
				Name:      e.Name,
				Group:     e.Group,
				Active:    e.Active,
				Amount:    e.Amount,
				Effective: e.Effective(),
			})
		}
		return writeJSON(cmd.OutOrStdout(), out)
	}

	fmt.Fprint(cmd.OutOrStdout(), renderExpenses(snap))
	return nil
}

func renderExpenses(snap model.Snapshot) string {
	r := budget.Evaluate(snap)
	expenses := snap.Expenses()

	active := 0
	for _, e := range expenses {
		if e.Active {
			active++
		}
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(cli.RenderTitle(fmt.Sprintf("EXPENSES  %d of %d on", active, len(expenses))))
	b.WriteString("\n\n")

	share := func(d decimal.Decimal) string {
		if !r.TotalExpenditure.IsPositive() {
			return ""
		}
		return cli.FormatPercent(d.Div(r.TotalExpenditure).InexactFloat64())
	}

	var rows [][]string
	for _, g := range budget.Breakdown(snap) {
		for _, e := range expenses {
			if e.Group != g.Group {
				continue
			}
			if !e.Active {
				rows = append(rows, []string{" ", e.Name, "—", ""})
				continue
			}
			rows = append(rows, []string{"x", e.Name, cli.FormatMoney(e.Amount), share(e.Amount)})
		}
		if g.Categories > 1 {
			rows = append(rows, []string{"", fmt.Sprintf("%s subtotal (%d/%d)", g.Group, g.Active, g.Categories),
				cli.FormatMoney(g.Total), share(g.Total)})
		}
		rows = append(rows, []string{"---"})
	}
	rows = append(rows, []string{"", "TOTAL", cli.FormatMoney(r.TotalExpenditure), share(r.TotalExpenditure)})

	b.WriteString(cli.RenderTable(cli.Table{
		Headers: []string{"On", "Category", "Amount", "Share"},
		Rows:    rows,
	}))
	return b.String()
}
