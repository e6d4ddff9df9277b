package tui

import (
	"strings"
	"testing"

	"github.com/theirongolddev/cbudget/internal/budget"
	"github.com/theirongolddev/cbudget/internal/catalog"
	"github.com/theirongolddev/cbudget/internal/config"
	"github.com/theirongolddev/cbudget/internal/log"
	"github.com/theirongolddev/cbudget/internal/model"
	"github.com/theirongolddev/cbudget/internal/tui/components"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
)

func newTestApp(t *testing.T) App {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	snap, err := model.NewSnapshot(catalog.DefaultIncomes(), catalog.Default().Expenses(), catalog.DefaultMonths)
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}
	a := NewApp(config.DefaultConfig(), snap, log.Discard())
	if !a.needSetup {
		t.Fatal("needSetup = false without a config file")
	}
	a.needSetup = false
	a.setupForm = nil
	return a
}

func keyMsg(key string) tea.KeyMsg {
	switch key {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

func press(t *testing.T, a App, keys ...string) App {
	t.Helper()
	for _, k := range keys {
		m, _ := a.Update(keyMsg(k))
		var ok bool
		if a, ok = m.(App); !ok {
			t.Fatalf("Update(%q) returned %T", k, m)
		}
	}
	return a
}

// typeAmount opens the editor on the selected row, replaces its text and submits.
func typeAmount(t *testing.T, a App, value string) App {
	t.Helper()
	a = press(t, a, "enter")
	if !a.editing {
		t.Fatal("enter did not open the amount editor")
	}
	a.input.SetValue(value)
	return press(t, a, "enter")
}

func wantTotals(t *testing.T, a App, income, expenditure, net int64) {
	t.Helper()
	r := a.result
	if !r.TotalIncome.Equal(decimal.NewFromInt(income)) ||
		!r.TotalExpenditure.Equal(decimal.NewFromInt(expenditure)) ||
		!r.NetCashFlow.Equal(decimal.NewFromInt(net)) {
		t.Fatalf("totals = %s/%s/%s, want %d/%d/%d",
			r.TotalIncome, r.TotalExpenditure, r.NetCashFlow, income, expenditure, net)
	}
}

func TestNewAppEvaluatesDefaults(t *testing.T) {
	a := newTestApp(t)
	wantTotals(t, a, 5000, 4550, 450)
	if a.result.HorizonMonths != 6 || len(a.schedule) != 6 {
		t.Fatalf("horizon = %d, schedule = %d points, want 6", a.result.HorizonMonths, len(a.schedule))
	}
	if !a.result.ProjectedCashFlow.Equal(decimal.NewFromInt(2700)) {
		t.Fatalf("projected cash flow = %s, want 2700", a.result.ProjectedCashFlow)
	}
}

func TestTabKeysAndArrows(t *testing.T) {
	a := newTestApp(t)
	cases := []struct {
		key  string
		want int
	}{
		{"e", components.TabExpenses},
		{"p", components.TabProjection},
		{"right", components.TabSummary},
		{"left", components.TabProjection},
		{"i", components.TabIncome},
		{"s", components.TabSummary},
	}
	for _, tc := range cases {
		a = press(t, a, tc.key)
		if a.activeTab != tc.want {
			t.Fatalf("after %q activeTab = %d, want %d", tc.key, a.activeTab, tc.want)
		}
	}
}

func TestSpaceTogglesMortgage(t *testing.T) {
	a := press(t, newTestApp(t), "e", " ")
	wantTotals(t, a, 5000, 3350, 1650)

	mortgage, _ := a.snap.Expense("Core - Mortgage")
	if mortgage.Active || !mortgage.Amount.Equal(decimal.NewFromInt(1200)) {
		t.Fatalf("mortgage = %+v, want inactive with amount kept", mortgage)
	}

	a = press(t, a, " ")
	wantTotals(t, a, 5000, 4550, 450)
}

func TestEditExpenseAmount(t *testing.T) {
	a := press(t, newTestApp(t), "e", "j", "j", "j", "j")
	if e, _ := a.selectedExpense(); e.Name != "Living - Groceries" {
		t.Fatalf("selected %q, want Living - Groceries", e.Name)
	}

	a = typeAmount(t, a, "537.25")
	if a.editing {
		t.Fatal("editor still open after a valid amount")
	}
	if want := decimal.RequireFromString("4587.25"); !a.result.TotalExpenditure.Equal(want) {
		t.Fatalf("expenditure = %s, want %s", a.result.TotalExpenditure, want)
	}
}

func TestEditRejectsBadInput(t *testing.T) {
	a := press(t, newTestApp(t), "e")

	for _, bad := range []string{"abc", "-5", ""} {
		a = typeAmount(t, press(t, a, "esc"), bad)
		if !a.editing || a.editErr == "" {
			t.Fatalf("input %q: editing=%v err=%q, want rejection", bad, a.editing, a.editErr)
		}
		wantTotals(t, a, 5000, 4550, 450)
	}

	a = press(t, a, "esc")
	if a.editing || a.editErr != "" {
		t.Fatal("esc should close the editor and clear the error")
	}
}

func TestEditIncomeIntoDeficit(t *testing.T) {
	a := press(t, newTestApp(t), "i")
	a = typeAmount(t, a, "1000")
	a = typeAmount(t, press(t, a, "j"), "0")

	wantTotals(t, a, 1000, 4550, -3550)
	if !a.result.IsDeficit() {
		t.Fatal("IsDeficit = false")
	}
}

func TestHorizonNeverBelowOne(t *testing.T) {
	a := newTestApp(t)
	for range 10 {
		a = press(t, a, "-")
	}
	if a.result.HorizonMonths != 1 {
		t.Fatalf("horizon = %d, want 1", a.result.HorizonMonths)
	}

	a = press(t, a, "+", "+")
	if a.result.HorizonMonths != 3 || !a.result.ProjectedExpenditure.Equal(decimal.NewFromInt(13650)) {
		t.Fatalf("horizon %d projected expenditure %s, want 3 and 13650",
			a.result.HorizonMonths, a.result.ProjectedExpenditure)
	}
}

func TestToggleAll(t *testing.T) {
	a := press(t, newTestApp(t), "a")
	wantTotals(t, a, 5000, 0, 5000)

	a = press(t, a, "a")
	wantTotals(t, a, 5000, 4550, 450)
}

func TestResetRestoresStartingInputs(t *testing.T) {
	a := press(t, newTestApp(t), "e", " ", "+", "a")
	a = press(t, a, "r")

	wantTotals(t, a, 5000, 4550, 450)
	if a.result.HorizonMonths != 6 {
		t.Fatalf("horizon = %d after reset, want 6", a.result.HorizonMonths)
	}
}

func TestViewRendersEveryTab(t *testing.T) {
	a := newTestApp(t)
	m, _ := a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	a = m.(App)

	for _, tab := range []string{"s", "i", "e", "p"} {
		a = press(t, a, tab)
		view := a.View()
		if got := strings.Count(view, "\n") + 1; got != 40 {
			t.Fatalf("tab %q: view has %d lines, want 40", tab, got)
		}
	}
}

func TestLongHorizonScheduleIsCapped(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	snap, err := model.NewSnapshot(catalog.DefaultIncomes(), catalog.Default().Expenses(), 1<<40)
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}
	a := NewApp(config.DefaultConfig(), snap, log.Discard())
	a.needSetup = false
	a.setupForm = nil

	if len(a.schedule) != budget.MaxScheduleMonths {
		t.Fatalf("len(schedule) = %d, want %d", len(a.schedule), budget.MaxScheduleMonths)
	}
	m, _ := a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	a = press(t, m.(App), "p", "+")
	if a.result.HorizonMonths != 1<<40+1 || len(a.schedule) != budget.MaxScheduleMonths {
		t.Fatalf("horizon %d schedule %d", a.result.HorizonMonths, len(a.schedule))
	}
	if !strings.Contains(a.View(), "Cumulative cash flow over 1099511627777 months") {
		t.Fatal("projection tab did not render its chart")
	}
}

func TestViewShowsInactiveDash(t *testing.T) {
	a := newTestApp(t)
	m, _ := a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	a = press(t, m.(App), "e", " ")

	if !strings.Contains(a.View(), inactiveAmount) {
		t.Fatal("inactive expense should render its amount as a dash")
	}
}

func TestViewTooNarrow(t *testing.T) {
	a := newTestApp(t)
	m, _ := a.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	if view := m.(App).View(); !strings.Contains(view, "too narrow") {
		t.Fatalf("view = %q", view)
	}
}

func TestHelpToggle(t *testing.T) {
	a := press(t, newTestApp(t), "?")
	if !a.showHelp {
		t.Fatal("? did not open help")
	}
	a = press(t, a, "e")
	if a.showHelp || a.activeTab != components.TabSummary {
		t.Fatal("a key while help is open should only close help")
	}
}

func TestVisibleWindowKeepsCursorInView(t *testing.T) {
	lines := []string{"0", "1", "2", "3", "4", "5", "6", "7"}

	got := visibleWindow(lines, 6, 3)
	if strings.Join(got, "") != "456" {
		t.Fatalf("window = %v, want [4 5 6]", got)
	}
	if got := visibleWindow(lines, 1, 3); strings.Join(got, "") != "012" {
		t.Fatalf("window = %v, want [0 1 2]", got)
	}
	if got := visibleWindow(lines, 1, 20); len(got) != len(lines) {
		t.Fatalf("window = %v, want all lines", got)
	}
}
