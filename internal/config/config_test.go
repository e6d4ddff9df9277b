package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/theirongolddev/cbudget/internal/catalog"

	"github.com/shopspring/decimal"
)

func useTempConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	for _, k := range []string{EnvMonths, EnvCurrency, EnvAddr, EnvLogLevel} {
		t.Setenv(k, "")
	}
	return filepath.Join(dir, "cbudget")
}

func writeConfig(t *testing.T, body string) {
	t.Helper()
	if err := os.MkdirAll(ConfigDir(), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(ConfigPath(), []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	useTempConfigDir(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.General.DefaultMonths != 6 {
		t.Fatalf("DefaultMonths = %d, want 6", cfg.General.DefaultMonths)
	}
	if cfg.General.CurrencySymbol != "£" {
		t.Fatalf("CurrencySymbol = %q, want £", cfg.General.CurrencySymbol)
	}
	if Exists() {
		t.Fatal("Exists() = true with no file")
	}
}

func TestConfigPathUsesXDG(t *testing.T) {
	dir := useTempConfigDir(t)
	if got, want := ConfigPath(), filepath.Join(dir, "config.toml"); got != want {
		t.Fatalf("ConfigPath() = %q, want %q", got, want)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	useTempConfigDir(t)

	off := false
	mortgage := decimal.NewFromInt(950)
	cfg := DefaultConfig()
	cfg.General.DefaultMonths = 12
	cfg.Incomes = []IncomeConfig{
		{Label: "Salary", Amount: decimal.RequireFromString("3100.50")},
	}
	cfg.Expenses = map[string]ExpenseOverride{
		"Core - Mortgage":     {Amount: &mortgage},
		"Disposable - Events": {Active: &off},
	}
	cfg.Appearance.Theme = "tokyo-night"

	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !Exists() {
		t.Fatal("Exists() = false after Save")
	}
	info, err := os.Stat(ConfigPath())
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("config perms = %o, want 600", perm)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.General.DefaultMonths != 12 || got.Appearance.Theme != "tokyo-night" {
		t.Fatalf("general/appearance not round-tripped: %+v", got)
	}
	if len(got.Incomes) != 1 || !got.Incomes[0].Amount.Equal(decimal.RequireFromString("3100.5")) {
		t.Fatalf("Incomes = %+v, want one Salary of 3100.50", got.Incomes)
	}
	o := got.Expenses["Core - Mortgage"]
	if o.Amount == nil || !o.Amount.Equal(mortgage) {
		t.Fatalf("mortgage override = %+v, want 950", o)
	}
	if e := got.Expenses["Disposable - Events"]; e.Active == nil || *e.Active {
		t.Fatalf("events override = %+v, want active=false", e)
	}
}

func TestLoadParsesHandWrittenFile(t *testing.T) {
	useTempConfigDir(t)
	writeConfig(t, `
[general]
default_months = 3

[[incomes]]
label = "Alex"
amount = 2000

[[incomes]]
label = "Sam"
amount = "1500.25"

[expenses."Living - Travel"]
amount = "120"
active = true
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	incomes := Incomes(cfg)
	if len(incomes) != 2 || incomes[0].Label != "Alex" || !incomes[1].Amount.Equal(decimal.RequireFromString("1500.25")) {
		t.Fatalf("Incomes = %+v", incomes)
	}
	cat, err := Catalog(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if got := cat.DefaultTotal(); !got.Equal(decimal.NewFromInt(4370)) {
		t.Fatalf("DefaultTotal = %s, want 4370", got)
	}
}

func TestLoadRejectsBadTOML(t *testing.T) {
	useTempConfigDir(t)
	writeConfig(t, "[general\ndefault_months = ")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "parsing config") {
		t.Fatalf("err = %v, want parsing config error", err)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	useTempConfigDir(t)
	writeConfig(t, "[general]\ndefault_months = 3\ncurrency_symbol = \"$\"\n")
	t.Setenv(EnvMonths, "24")
	t.Setenv(EnvCurrency, "€")
	t.Setenv(EnvAddr, ":9999")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.General.DefaultMonths != 24 || cfg.General.CurrencySymbol != "€" || cfg.Server.Addr != ":9999" {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
}

func TestEnvMonthsMustBeNumeric(t *testing.T) {
	useTempConfigDir(t)
	t.Setenv(EnvMonths, "six")

	if _, err := Load(); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestValidateCollectsAllProblems(t *testing.T) {
	neg := decimal.NewFromInt(-5)
	cfg := DefaultConfig()
	cfg.General.DefaultMonths = 0
	cfg.Incomes = []IncomeConfig{{Label: "Salary", Amount: decimal.NewFromInt(-1)}}
	cfg.Expenses = map[string]ExpenseOverride{
		"Boat":          {},
		"Miscellaneous": {Amount: &neg},
	}
	cfg.Appearance.Theme = "neon"
	cfg.Log.Level = "loud"

	err := cfg.Validate()
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("err = %v, want ErrInvalidConfig", err)
	}
	for _, want := range []string{"default_months", "Salary", `"Boat"`, `"Miscellaneous"`, `"neon"`, `"loud"`} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error missing %s:\n%v", want, err)
		}
	}
}

func TestValidateRejectsCaseOnlyDuplicateOverrides(t *testing.T) {
	off := false
	rent := decimal.NewFromInt(900)
	cfg := DefaultConfig()
	cfg.Expenses = map[string]ExpenseOverride{
		"Core - Car": {Active: &off},
		"core - car": {Amount: &rent},
	}

	err := cfg.Validate()
	if !errors.Is(err, ErrInvalidConfig) || !strings.Contains(err.Error(), `"core - car": same category as "Core - Car"`) {
		t.Fatalf("err = %v, want duplicate category problem", err)
	}
	if _, err := Catalog(cfg); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("Catalog err = %v, want ErrInvalidConfig", err)
	}
	if _, err := Expenses(cfg); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("Expenses err = %v, want ErrInvalidConfig", err)
	}
}

func TestLoadLogJSON(t *testing.T) {
	useTempConfigDir(t)
	writeConfig(t, "[log]\nlevel = \"debug\"\njson = true\n")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Log.JSON || cfg.Log.Level != "debug" {
		t.Fatalf("Log = %+v, want debug with json", cfg.Log)
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestIncomesFallBackToDefaults(t *testing.T) {
	incomes := Incomes(DefaultConfig())
	if len(incomes) != 2 {
		t.Fatalf("len = %d, want 2", len(incomes))
	}
	for _, in := range incomes {
		if !in.Amount.Equal(catalog.DefaultIncomeAmount) {
			t.Fatalf("%s = %s, want 2500", in.Label, in.Amount)
		}
	}

	cfg := DefaultConfig()
	cfg.Incomes = []IncomeConfig{{Amount: decimal.NewFromInt(1)}}
	if got := Incomes(cfg)[0].Label; got != "Income 1" {
		t.Fatalf("unlabelled income = %q, want Income 1", got)
	}
}

func TestExpensesApplyToggles(t *testing.T) {
	off := false
	cfg := DefaultConfig()
	cfg.Expenses = map[string]ExpenseOverride{"core - car": {Active: &off}}

	expenses, err := Expenses(cfg)
	if err != nil {
		t.Fatalf("Expenses: %v", err)
	}
	for _, e := range expenses {
		if e.Name == "Core - Car" && e.Active {
			t.Fatal("Core - Car still active")
		}
		if e.Name != "Core - Car" && !e.Active {
			t.Fatalf("%q inactive, want active", e.Name)
		}
	}

	cfg.Expenses = map[string]ExpenseOverride{"Yacht": {Active: &off}}
	if _, err := Expenses(cfg); !errors.Is(err, catalog.ErrUnknownCategory) {
		t.Fatalf("err = %v, want ErrUnknownCategory", err)
	}
}
