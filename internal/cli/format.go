// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// Currency is the symbol prefixed to formatted amounts.
var Currency = "£"

// SetCurrency changes the currency symbol. An empty symbol is ignored.
func SetCurrency(symbol string) {
	if symbol = strings.TrimSpace(symbol); symbol != "" {
		Currency = symbol
	}
}

// FormatMoney formats an amount with the currency symbol and thousands separators.
// e.g., 1234.5 -> "£1,234.50", -3550 -> "-£3,550.00"
func FormatMoney(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-" + Currency + formatAbs(d.Neg())
	}
	return Currency + formatAbs(d)
}

// FormatMoneyShort drops the pence when the amount is whole.
// e.g., 4550 -> "£4,550", 37.25 -> "£37.25"
func FormatMoneyShort(d decimal.Decimal) string {
	if !d.Equal(d.Truncate(0)) {
		return FormatMoney(d)
	}
	if d.IsNegative() {
		return "-" + Currency + humanize.BigComma(d.Neg().BigInt())
	}
	return Currency + humanize.BigComma(d.BigInt())
}

// FormatSignedMoney always shows the sign, for cash flow columns.
func FormatSignedMoney(d decimal.Decimal) string {
	if d.IsNegative() {
		return FormatMoney(d)
	}
	return "+" + FormatMoney(d)
}

func formatAbs(d decimal.Decimal) string {
	d = d.Round(2)
	_, frac, _ := strings.Cut(d.StringFixed(2), ".")
	return humanize.BigComma(d.Truncate(0).BigInt()) + "." + frac
}

// FormatAmount formats a plain amount for editing fields: no symbol or separators.
func FormatAmount(d decimal.Decimal) string {
	if d.Equal(d.Truncate(0)) {
		return d.StringFixed(0)
	}
	return d.StringFixed(2)
}

// ParseAmount parses user input such as "1,200", "£50" or "37.5".
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, Currency)
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("not a number: %q", s)
	}
	return d, nil
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// FormatMonths renders a horizon as "1 month" or "N months".
func FormatMonths(n int) string {
	if n == 1 {
		return "1 month"
	}
	return fmt.Sprintf("%d months", n)
}
