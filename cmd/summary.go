package cmd

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/cbudget/internal/budget"
	"github.com/theirongolddev/cbudget/internal/cli"
	"github.com/theirongolddev/cbudget/internal/model"
	"github.com/theirongolddev/cbudget/internal/server"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Monthly totals and projection (default command)",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, _ []string) error {
	snap, err := currentSnapshot(cmd)
	if err != nil {
		return err
	}

	if flagJSON {
		return writeJSON(cmd.OutOrStdout(), server.Evaluation(snap, false))
	}

	fmt.Fprint(cmd.OutOrStdout(), renderSummary(snap))
	return nil
}

func renderSummary(snap model.Snapshot) string {
	r := budget.Evaluate(snap)
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(cli.RenderTitle("MONTHLY BUDGET"))
	b.WriteString("\n\n")

	rows := make([][]string, 0, len(snap.Incomes())+8)
	for _, in := range snap.Incomes() {
		rows = append(rows, []string{in.Label, cli.FormatMoney(in.Amount)})
	}
	rows = append(rows,
		[]string{"---"},
		[]string{"Monthly Income", cli.FormatMoney(r.TotalIncome)},
		[]string{"Monthly Expenditure", cli.FormatMoney(r.TotalExpenditure)},
		[]string{netLabel(r), cli.FormatSignedMoney(r.NetCashFlow)},
		[]string{"Savings Rate", cli.FormatPercent(budget.SavingsRate(r))},
	)

	b.WriteString(cli.RenderTable(cli.Table{
		Headers: []string{"Monthly", "Amount"},
		Rows:    rows,
	}))
	b.WriteString("\n")

	b.WriteString(cli.RenderTable(cli.Table{
		Title:   "Projection over " + cli.FormatMonths(r.HorizonMonths),
		Headers: []string{"Projected", "Amount"},
		Rows: [][]string{
			{"Income", cli.FormatMoney(r.ProjectedIncome)},
			{"Expenditure", cli.FormatMoney(r.ProjectedExpenditure)},
			{"Cash Flow", cli.FormatSignedMoney(r.ProjectedCashFlow)},
		},
	}))

	if r.IsDeficit() {
		b.WriteString("\n  ")
		b.WriteString(cli.RenderCashFlow(r.NetCashFlow))
		b.WriteString(cli.RenderMuted(" a month more going out than coming in."))
		b.WriteString("\n")
	}

	return b.String()
}

func netLabel(r model.Result) string {
	if r.IsDeficit() {
		return "Net Cash Flow (deficit)"
	}
	return "Net Cash Flow (savings)"
}
