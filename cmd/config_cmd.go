package cmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/theirongolddev/cbudget/internal/cli"
	"github.com/theirongolddev/cbudget/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:         "config",
	Short:       "Show current configuration",
	Annotations: map[string]string{annotationLenient: "true"},
	RunE:        runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, _ []string) error {
	if flagJSON {
		return writeJSON(cmd.OutOrStdout(), appConfig)
	}
	printConfig(cmd.OutOrStdout(), appConfig, config.Exists())
	return nil
}

func printConfig(w io.Writer, cfg config.Config, exists bool) {
	fmt.Fprintf(w, "  Config file: %s\n", config.ConfigPath())
	if exists {
		fmt.Fprintln(w, "  Status: loaded")
	} else {
		fmt.Fprintln(w, "  Status: using defaults (no config file)")
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(w, "  Problems: %v\n", err)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "  [General]")
	fmt.Fprintf(w, "    Default months:  %d\n", cfg.General.DefaultMonths)
	fmt.Fprintf(w, "    Currency symbol: %s\n", cfg.General.CurrencySymbol)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "  [Incomes]")
	if len(cfg.Incomes) == 0 {
		fmt.Fprintln(w, "    not configured (using defaults)")
	}
	for _, in := range config.Incomes(cfg) {
		fmt.Fprintf(w, "    %-16s %s\n", in.Label, cli.FormatMoney(in.Amount))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "  [Expenses]")
	if len(cfg.Expenses) == 0 {
		fmt.Fprintln(w, "    no overrides (catalog defaults)")
	}
	names := make([]string, 0, len(cfg.Expenses))
	for name := range cfg.Expenses {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		o := cfg.Expenses[name]
		line := fmt.Sprintf("    %-28s", name)
		if o.Amount != nil {
			line += " amount " + cli.FormatMoney(*o.Amount)
		}
		if o.Active != nil && !*o.Active {
			line += " off"
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "  [Appearance]")
	fmt.Fprintf(w, "    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "  [Server]")
	fmt.Fprintf(w, "    Address: %s\n", cfg.Server.Addr)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "  [Log]")
	fmt.Fprintf(w, "    Level: %s\n", cfg.Log.Level)
	fmt.Fprintf(w, "    JSON: %v\n", cfg.Log.JSON)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "  Run `cbudget setup` to reconfigure.")
}
