package cli

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatMoney(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "£0.00"},
		{"50", "£50.00"},
		{"1234.5", "£1,234.50"},
		{"4550", "£4,550.00"},
		{"-3550", "-£3,550.00"},
		{"1000000.456", "£1,000,000.46"},
		{"999.996", "£1,000.00"},
		{"12345678901234567890.5", "£12,345,678,901,234,567,890.50"},
		{"-98765432109876543210", "-£98,765,432,109,876,543,210.00"},
	}
	for _, tc := range cases {
		if got := FormatMoney(decimal.RequireFromString(tc.in)); got != tc.want {
			t.Fatalf("FormatMoney(%s) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatMoneyShort(t *testing.T) {
	if got := FormatMoneyShort(decimal.NewFromInt(27300)); got != "£27,300" {
		t.Fatalf("FormatMoneyShort(27300) = %q, want £27,300", got)
	}
	if got := FormatMoneyShort(decimal.RequireFromString("37.25")); got != "£37.25" {
		t.Fatalf("FormatMoneyShort(37.25) = %q, want £37.25", got)
	}
	if got := FormatMoneyShort(decimal.NewFromInt(-3550)); got != "-£3,550" {
		t.Fatalf("FormatMoneyShort(-3550) = %q, want -£3,550", got)
	}
	if got := FormatMoneyShort(decimal.RequireFromString("10000000000000000000")); got != "£10,000,000,000,000,000,000" {
		t.Fatalf("FormatMoneyShort(1e19) = %q", got)
	}
}

func TestFormatSignedMoney(t *testing.T) {
	if got := FormatSignedMoney(decimal.NewFromInt(450)); got != "+£450.00" {
		t.Fatalf("got %q, want +£450.00", got)
	}
	if got := FormatSignedMoney(decimal.NewFromInt(-1)); got != "-£1.00" {
		t.Fatalf("got %q, want -£1.00", got)
	}
}

func TestSetCurrency(t *testing.T) {
	old := Currency
	t.Cleanup(func() { Currency = old })

	SetCurrency("€")
	if got := FormatMoney(decimal.NewFromInt(10)); got != "€10.00" {
		t.Fatalf("got %q, want €10.00", got)
	}
	SetCurrency("  ")
	if Currency != "€" {
		t.Fatalf("Currency = %q after blank SetCurrency, want €", Currency)
	}
}

func TestParseAmount(t *testing.T) {
	good := map[string]string{
		"1,200":  "1200",
		"£50":    "50",
		" 37.5 ": "37.5",
		"-4":     "-4",
	}
	for in, want := range good {
		got, err := ParseAmount(in)
		if err != nil {
			t.Fatalf("ParseAmount(%q): %v", in, err)
		}
		if !got.Equal(decimal.RequireFromString(want)) {
			t.Fatalf("ParseAmount(%q) = %s, want %s", in, got, want)
		}
	}
	for _, in := range []string{"", "abc", "12x"} {
		if _, err := ParseAmount(in); err == nil {
			t.Fatalf("ParseAmount(%q) succeeded, want error", in)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	if got := FormatAmount(decimal.NewFromInt(1200)); got != "1200" {
		t.Fatalf("FormatAmount(1200) = %q", got)
	}
	if got := FormatAmount(decimal.RequireFromString("12.5")); got != "12.50" {
		t.Fatalf("FormatAmount(12.5) = %q", got)
	}
}

func TestFormatMonths(t *testing.T) {
	if FormatMonths(1) != "1 month" || FormatMonths(6) != "6 months" {
		t.Fatalf("FormatMonths = %q / %q", FormatMonths(1), FormatMonths(6))
	}
}

func TestRenderSparkline(t *testing.T) {
	got := RenderSparkline([]float64{0, 1, 2, 3, 4, 5, 6, 7})
	if got != "▁▂▃▄▅▆▇█" {
		t.Fatalf("RenderSparkline = %q", got)
	}
	neg := []rune(RenderSparkline([]float64{-3550, -7100, -10650}))
	if len(neg) != 3 || neg[0] != '█' || neg[2] != '▁' {
		t.Fatalf("negative sparkline = %q, want falling from █ to ▁", string(neg))
	}
	if RenderSparkline(nil) != "" {
		t.Fatal("empty series should render empty")
	}
}

func TestRenderTableAlignsMoneyColumns(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"Category", "Amount"},
		Rows: [][]string{
			{"Core - Mortgage", "£1,200.00"},
			{"---"},
			{"TOTAL", "£4,550.00"},
		},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 7 {
		t.Fatalf("got %d lines, want 7:\n%s", len(lines), out)
	}
	width := len([]rune(lines[0]))
	for i, l := range lines {
		if n := len([]rune(l)); n != width {
			t.Fatalf("line %d width %d, want %d:\n%s", i, n, width, out)
		}
	}
}
