// Package config loads and saves the cbudget TOML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/theirongolddev/cbudget/internal/catalog"
	"github.com/theirongolddev/cbudget/internal/model"
	"github.com/theirongolddev/cbudget/internal/tui/theme"

	"github.com/BurntSushi/toml"
	"github.com/shopspring/decimal"
)

// Environment variables that take precedence over the config file.
const (
	EnvMonths   = "CBUDGET_MONTHS"
	EnvCurrency = "CBUDGET_CURRENCY"
	EnvAddr     = "CBUDGET_ADDR"
	EnvLogLevel = "CBUDGET_LOG_LEVEL"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all cbudget configuration.
type Config struct {
	General    GeneralConfig              `toml:"general"`
	Incomes    []IncomeConfig             `toml:"incomes,omitempty"`
	Expenses   map[string]ExpenseOverride `toml:"expenses,omitempty"`
	Appearance AppearanceConfig           `toml:"appearance"`
	Server     ServerConfig               `toml:"server"`
	Log        LogConfig                  `toml:"log"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	DefaultMonths  int    `toml:"default_months"`
	CurrencySymbol string `toml:"currency_symbol"`
}

// IncomeConfig is one configured income source.
type IncomeConfig struct {
	Label  string          `toml:"label"`
	Amount decimal.Decimal `toml:"amount"`
}

// ExpenseOverride replaces the default amount or starting toggle of a category.
type ExpenseOverride struct {
	Amount *decimal.Decimal `toml:"amount,omitempty"`
	Active *bool            `toml:"active,omitempty"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// ServerConfig holds HTTP service settings.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"`
	JSON  bool   `toml:"json,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			DefaultMonths:  catalog.DefaultMonths,
			CurrencySymbol: "£",
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8787",
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "cbudget")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "cbudget")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
// Environment overrides are applied on top of whatever was read.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil && !os.IsNotExist(err) {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err == nil {
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	}

	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ApplyEnv overrides cfg from CBUDGET_* environment variables.
func ApplyEnv(cfg *Config) error {
	if v := os.Getenv(EnvMonths); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a whole number", ErrInvalidConfig, EnvMonths, v)
		}
		cfg.General.DefaultMonths = n
	}
	if v := os.Getenv(EnvCurrency); v != "" {
		cfg.General.CurrencySymbol = v
	}
	if v := os.Getenv(EnvAddr); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
	return nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

// Validate reports every problem in cfg at once.
func (c Config) Validate() error {
	var problems []string

	if c.General.DefaultMonths < 1 {
		problems = append(problems, fmt.Sprintf("default_months %d: must be at least 1", c.General.DefaultMonths))
	}
	for i, in := range c.Incomes {
		if in.Amount.IsNegative() {
			problems = append(problems, fmt.Sprintf("incomes[%d] %q: amount %s is negative", i, in.Label, in.Amount))
		}
	}

	problems = append(problems, duplicateOverrides(c.Expenses)...)
	cat := catalog.Default()
	for name, o := range c.Expenses {
		if _, ok := cat.Lookup(name); !ok {
			problems = append(problems, fmt.Sprintf("expenses %q: unknown category", name))
			continue
		}
		if o.Amount != nil && o.Amount.IsNegative() {
			problems = append(problems, fmt.Sprintf("expenses %q: amount %s is negative", name, o.Amount))
		}
	}

	if c.Appearance.Theme != "" && !knownTheme(c.Appearance.Theme) {
		problems = append(problems, fmt.Sprintf("theme %q: must be one of %s", c.Appearance.Theme, strings.Join(theme.Names(), ", ")))
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		problems = append(problems, fmt.Sprintf("log level %q: must be debug, info, warn or error", c.Log.Level))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w:\n- %s", ErrInvalidConfig, strings.Join(problems, "\n- "))
	}
	return nil
}

// duplicateOverrides reports expense keys that name the same category,
// e.g. "Core - Car" and "core - car".
func duplicateOverrides(overrides map[string]ExpenseOverride) []string {
	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)

	cat := catalog.Default()
	first := make(map[string]string)
	var problems []string
	for _, name := range names {
		e, ok := cat.Lookup(name)
		if !ok {
			continue
		}
		if prev, dup := first[e.Name]; dup {
			problems = append(problems, fmt.Sprintf("expenses %q: same category as %q", name, prev))
			continue
		}
		first[e.Name] = name
	}
	return problems
}

// Catalog returns the built-in catalog with configured default amounts applied.
func Catalog(cfg Config) (catalog.Catalog, error) {
	if dups := duplicateOverrides(cfg.Expenses); len(dups) > 0 {
		return catalog.Catalog{}, fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(dups, "; "))
	}
	overrides := make(map[string]decimal.Decimal)
	for name, o := range cfg.Expenses {
		if o.Amount != nil {
			overrides[name] = *o.Amount
		}
	}
	if len(overrides) == 0 {
		return catalog.Default(), nil
	}
	return catalog.Default().WithDefaults(overrides)
}

// Expenses returns the starting expense entries: catalog defaults with
// configured amounts and toggles applied.
func Expenses(cfg Config) ([]model.ExpenseCategory, error) {
	cat, err := Catalog(cfg)
	if err != nil {
		return nil, err
	}
	expenses := cat.Expenses()
	for name, o := range cfg.Expenses {
		if o.Active == nil {
			continue
		}
		e, err := cat.Resolve(name)
		if err != nil {
			return nil, err
		}
		for i := range expenses {
			if expenses[i].Name == e.Name {
				expenses[i].Active = *o.Active
			}
		}
	}
	return expenses, nil
}

// Incomes returns the configured incomes, or the two default incomes when none
// are configured.
func Incomes(cfg Config) []model.IncomeEntry {
	if len(cfg.Incomes) == 0 {
		return catalog.DefaultIncomes()
	}
	out := make([]model.IncomeEntry, len(cfg.Incomes))
	for i, in := range cfg.Incomes {
		label := in.Label
		if label == "" {
			label = fmt.Sprintf("Income %d", i+1)
		}
		out[i] = model.IncomeEntry{Label: label, Amount: in.Amount}
	}
	return out
}

func knownTheme(name string) bool {
	for _, t := range theme.All {
		if t.Name == name {
			return true
		}
	}
	return false
}
