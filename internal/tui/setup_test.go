package tui

import (
	"errors"
	"testing"

	"github.com/theirongolddev/cbudget/internal/config"

	"github.com/shopspring/decimal"
)

func TestApplySetup(t *testing.T) {
	cfg, err := applySetup(config.DefaultConfig(), setupValues{
		income1:  "3,000",
		income2:  " ",
		months:   12,
		currency: "$",
		theme:    "tokyo-night",
	})
	if err != nil {
		t.Fatalf("applySetup: %v", err)
	}
	if len(cfg.Incomes) != 1 || !cfg.Incomes[0].Amount.Equal(decimal.NewFromInt(3000)) || cfg.Incomes[0].Label != "Income 1" {
		t.Fatalf("incomes = %+v, want one income of 3000", cfg.Incomes)
	}
	if cfg.General.DefaultMonths != 12 || cfg.General.CurrencySymbol != "$" || cfg.Appearance.Theme != "tokyo-night" {
		t.Fatalf("general = %+v appearance = %+v", cfg.General, cfg.Appearance)
	}
}

func TestApplySetupRejectsBadValues(t *testing.T) {
	if _, err := applySetup(config.DefaultConfig(), setupValues{income1: "lots", months: 6}); err == nil {
		t.Fatal("non-numeric income accepted")
	}

	_, err := applySetup(config.DefaultConfig(), setupValues{income1: "-10", months: 6})
	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Fatalf("negative income: err = %v, want ErrInvalidConfig", err)
	}
}

func TestSetupValuesFromConfig(t *testing.T) {
	vals := setupValuesFrom(config.DefaultConfig())
	if vals.income1 != "2500" || vals.income2 != "2500" || vals.months != 6 || vals.currency != "£" {
		t.Fatalf("vals = %+v", vals)
	}
}

func TestValidateAmount(t *testing.T) {
	for _, ok := range []string{"", "0", "1,250.50"} {
		if err := validateAmount(ok); err != nil {
			t.Errorf("validateAmount(%q) = %v", ok, err)
		}
	}
	for _, bad := range []string{"x", "-1"} {
		if validateAmount(bad) == nil {
			t.Errorf("validateAmount(%q) accepted", bad)
		}
	}
}
