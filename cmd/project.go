package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/cbudget/internal/budget"
	"github.com/theirongolddev/cbudget/internal/cli"
	"github.com/theirongolddev/cbudget/internal/model"
	"github.com/theirongolddev/cbudget/internal/server"

	"github.com/spf13/cobra"
)

var projectCmd = &cobra.Command{
	Use:     "project",
	Aliases: []string{"projection"},
	Short:   "Month-by-month cumulative projection",
	RunE:    runProject,
}

func init() {
	rootCmd.AddCommand(projectCmd)
}

func runProject(cmd *cobra.Command, _ []string) error {
	snap, err := currentSnapshot(cmd)
	if err != nil {
		return err
	}

	if flagJSON {
		return writeJSON(cmd.OutOrStdout(), server.Evaluation(snap, true))
	}

	fmt.Fprint(cmd.OutOrStdout(), renderProjection(snap))
	return nil
}

func renderProjection(snap model.Snapshot) string {
	r := budget.Evaluate(snap)
	points := budget.Schedule(snap)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(cli.RenderTitle("PROJECTION  " + cli.FormatMonths(r.HorizonMonths)))
	b.WriteString("\n\n")

	rows := make([][]string, 0, len(points))
	flows := make([]float64, len(points))
	for i, p := range points {
		rows = append(rows, []string{
			strconv.Itoa(p.Month),
			cli.FormatMoney(p.Income),
			cli.FormatMoney(p.Expenditure),
			cli.FormatSignedMoney(p.CashFlow),
		})
		flows[i] = p.CashFlow.InexactFloat64()
	}

	b.WriteString(cli.RenderTable(cli.Table{
		Headers: []string{"Month", "Income", "Expenditure", "Cash Flow"},
		Rows:    rows,
	}))

	if len(points) < r.HorizonMonths {
		b.WriteString("\n  ")
		b.WriteString(cli.RenderMuted(fmt.Sprintf("Showing the first %d of %s.", len(points), cli.FormatMonths(r.HorizonMonths))))
		b.WriteString("\n")
	}

	if len(flows) > 1 {
		b.WriteString("\n  ")
		b.WriteString(cli.RenderMuted("Cumulative cash flow  "))
		b.WriteString(cli.RenderSparkline(flows))
		b.WriteString("  ")
		b.WriteString(cli.RenderCashFlow(r.ProjectedCashFlow))
		b.WriteString("\n")
	}

	return b.String()
}
