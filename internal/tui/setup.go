package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/theirongolddev/cbudget/internal/catalog"
	"github.com/theirongolddev/cbudget/internal/cli"
	"github.com/theirongolddev/cbudget/internal/config"
	"github.com/theirongolddev/cbudget/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// setupValues holds the first-run wizard answers. Amounts stay as text until
// applySetup so the form can validate them as typed.
type setupValues struct {
	income1  string
	income2  string
	months   int
	currency string
	theme    string
}

var monthOptions = []int{1, 3, 6, 12, 24, 60}

func setupValuesFrom(cfg config.Config) setupValues {
	incomes := config.Incomes(cfg)
	vals := setupValues{
		months:   cfg.General.DefaultMonths,
		currency: cfg.General.CurrencySymbol,
		theme:    cfg.Appearance.Theme,
	}
	if len(incomes) > 0 {
		vals.income1 = cli.FormatAmount(incomes[0].Amount)
	}
	if len(incomes) > 1 {
		vals.income2 = cli.FormatAmount(incomes[1].Amount)
	}
	if vals.months < 1 {
		vals.months = catalog.DefaultMonths
	}
	return vals
}

func validateAmount(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	d, err := cli.ParseAmount(s)
	if err != nil {
		return err
	}
	if d.IsNegative() {
		return errors.New("amount cannot be negative")
	}
	return nil
}

func newSetupForm(vals *setupValues) *huh.Form {
	months := make([]huh.Option[int], 0, len(monthOptions)+1)
	seen := false
	for _, m := range monthOptions {
		months = append(months, huh.NewOption(cli.FormatMonths(m), m))
		seen = seen || m == vals.months
	}
	if !seen {
		months = append(months, huh.NewOption(cli.FormatMonths(vals.months), vals.months))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to cbudget").
				Description("Set your monthly take-home income and a few defaults.\nEverything can be changed later in the config file."),
			huh.NewInput().
				Title("Income 1 (monthly, after tax)").
				Placeholder("2500").
				Value(&vals.income1).
				Validate(validateAmount),
			huh.NewInput().
				Title("Income 2 (monthly, after tax)").
				Description("Leave blank if there is only one income.").
				Placeholder("0").
				Value(&vals.income2).
				Validate(validateAmount),
		),
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Default projection").
				Options(months...).
				Value(&vals.months),
			huh.NewInput().
				Title("Currency symbol").
				Placeholder("£").
				CharLimit(4).
				Value(&vals.currency),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(huh.NewOptions(theme.Names()...)...).
				Value(&vals.theme),
		),
	).WithShowHelp(true)
}

// applySetup copies the wizard answers into cfg.
func applySetup(cfg config.Config, vals setupValues) (config.Config, error) {
	var incomes []config.IncomeConfig
	for i, raw := range []string{vals.income1, vals.income2} {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		amount, err := cli.ParseAmount(raw)
		if err != nil {
			return cfg, fmt.Errorf("income %d: %w", i+1, err)
		}
		incomes = append(incomes, config.IncomeConfig{
			Label:  fmt.Sprintf("Income %d", i+1),
			Amount: amount,
		})
	}
	cfg.Incomes = incomes

	if vals.months >= 1 {
		cfg.General.DefaultMonths = vals.months
	}
	if c := strings.TrimSpace(vals.currency); c != "" {
		cfg.General.CurrencySymbol = c
	}
	if vals.theme != "" {
		cfg.Appearance.Theme = vals.theme
	}

	return cfg, cfg.Validate()
}

// RunSetup runs the setup wizard in the terminal and returns the updated config.
// It returns huh.ErrUserAborted if the user cancels.
func RunSetup(cfg config.Config) (config.Config, error) {
	vals := setupValuesFrom(cfg)
	if err := newSetupForm(&vals).Run(); err != nil {
		return cfg, err
	}
	return applySetup(cfg, vals)
}
