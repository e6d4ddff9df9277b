// Package cmd implements the cbudget CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/theirongolddev/cbudget/internal/catalog"
	"github.com/theirongolddev/cbudget/internal/cli"
	"github.com/theirongolddev/cbudget/internal/config"
	"github.com/theirongolddev/cbudget/internal/log"
	"github.com/theirongolddev/cbudget/internal/model"
	"github.com/theirongolddev/cbudget/internal/tui/theme"

	json "github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	flagIncomes []string
	flagMonths  int
	flagOff     []string
	flagSet     []string
	flagJSON    bool
	flagVerbose bool
)

// Loaded once in PersistentPreRunE.
var (
	appConfig config.Config
	appLogger = log.Discard()
)

// annotationLenient marks commands that must still run with an invalid config
// file, so the user can inspect or rewrite it.
const annotationLenient = "lenient-config"

var errInvalidSet = errors.New("expected NAME=AMOUNT")

var rootCmd = &cobra.Command{
	Use:   "cbudget",
	Short: "Personal monthly budget calculator",
	Long: "Combine monthly incomes with a catalog of expense categories to see\n" +
		"income, expenditure and net cash flow, projected over N months.",
	SilenceUsage:      true,
	PersistentPreRunE: loadEnvironment,
	RunE:              runSummary,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringArrayVarP(&flagIncomes, "income", "i", nil, "Monthly income after tax (repeatable; replaces configured incomes)")
	pf.IntVarP(&flagMonths, "months", "n", 0, "Projection horizon in months (default from config)")
	pf.StringArrayVarP(&flagOff, "off", "x", nil, "Turn off an expense category (repeatable; \"all\" turns off every category)")
	pf.StringArrayVar(&flagSet, "set", nil, "Override an expense amount as NAME=AMOUNT (repeatable)")
	pf.BoolVar(&flagJSON, "json", false, "Write JSON instead of tables")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging to stderr")
}

// loadEnvironment loads .env, the config file and environment overrides, then
// applies presentation settings.
func loadEnvironment(cmd *cobra.Command, _ []string) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = log.DefaultConfig().Level
	}
	if flagVerbose {
		level, _ = log.ParseLevel("debug")
	}
	appLogger = log.New(log.Config{Level: level, Component: log.ComponentCLI, JSON: cfg.Log.JSON, Output: os.Stderr})
	log.SetDefault(appLogger)

	cfgLog := appLogger.WithComponent(log.ComponentConfig)
	cfgLog.Debug("config loaded", log.FieldConfigPath, config.ConfigPath(), log.FieldOperation, log.OpLoad)

	if err := cfg.Validate(); err != nil {
		if cmd.Annotations[annotationLenient] == "" {
			return err
		}
		cfgLog.Warn("config has problems", log.FieldError, err)
	}

	appConfig = cfg
	cli.SetCurrency(cfg.General.CurrencySymbol)
	theme.SetActive(cfg.Appearance.Theme)
	return nil
}

// budgetInputs are the flag values that shape a snapshot.
type budgetInputs struct {
	Incomes   []string
	Months    int
	MonthsSet bool
	Off       []string
	Set       []string
}

func flagInputs(cmd *cobra.Command) budgetInputs {
	return budgetInputs{
		Incomes:   flagIncomes,
		Months:    flagMonths,
		MonthsSet: cmd.Flags().Changed("months"),
		Off:       flagOff,
		Set:       flagSet,
	}
}

// currentSnapshot builds the snapshot for this invocation from config and flags.
func currentSnapshot(cmd *cobra.Command) (model.Snapshot, error) {
	snap, err := snapshotFromFlags(appConfig, flagInputs(cmd))
	if err != nil {
		return model.Snapshot{}, err
	}
	appLogger.Debug("snapshot built",
		log.FieldMonths, snap.HorizonMonths(),
		"incomes", len(snap.Incomes()),
	)
	return snap, nil
}

// snapshotFromFlags layers flag overrides on top of the configured incomes,
// expenses and horizon.
func snapshotFromFlags(cfg config.Config, in budgetInputs) (model.Snapshot, error) {
	cat, err := config.Catalog(cfg)
	if err != nil {
		return model.Snapshot{}, err
	}
	expenses, err := config.Expenses(cfg)
	if err != nil {
		return model.Snapshot{}, err
	}

	incomes := config.Incomes(cfg)
	if len(in.Incomes) > 0 {
		incomes = make([]model.IncomeEntry, len(in.Incomes))
		for i, raw := range in.Incomes {
			amount, err := cli.ParseAmount(raw)
			if err != nil {
				return model.Snapshot{}, fmt.Errorf("--income %q: %w", raw, err)
			}
			incomes[i] = model.IncomeEntry{Label: fmt.Sprintf("Income %d", i+1), Amount: amount}
		}
	}

	months := cfg.General.DefaultMonths
	if in.MonthsSet {
		months = in.Months
	}

	for _, name := range in.Off {
		if strings.EqualFold(strings.TrimSpace(name), "all") {
			for i := range expenses {
				expenses[i].Active = false
			}
			continue
		}
		e, err := findExpense(cat, expenses, name)
		if err != nil {
			return model.Snapshot{}, fmt.Errorf("--off: %w", err)
		}
		e.Active = false
	}

	for _, kv := range in.Set {
		name, raw, ok := strings.Cut(kv, "=")
		if !ok {
			return model.Snapshot{}, fmt.Errorf("--set %q: %w", kv, errInvalidSet)
		}
		e, err := findExpense(cat, expenses, name)
		if err != nil {
			return model.Snapshot{}, fmt.Errorf("--set: %w", err)
		}
		amount, err := cli.ParseAmount(raw)
		if err != nil {
			return model.Snapshot{}, fmt.Errorf("--set %q: %w", kv, err)
		}
		e.Amount = amount
	}

	return model.NewSnapshot(incomes, expenses, months)
}

// findExpense resolves a user-typed name against the catalog and returns the
// matching entry in expenses.
func findExpense(cat catalog.Catalog, expenses []model.ExpenseCategory, name string) (*model.ExpenseCategory, error) {
	entry, err := cat.Resolve(name)
	if err != nil {
		return nil, err
	}
	for i := range expenses {
		if expenses[i].Name == entry.Name {
			return &expenses[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q", catalog.ErrUnknownCategory, name)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
