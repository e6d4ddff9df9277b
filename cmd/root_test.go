package cmd

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/theirongolddev/cbudget/internal/budget"
	"github.com/theirongolddev/cbudget/internal/catalog"
	"github.com/theirongolddev/cbudget/internal/config"
	"github.com/theirongolddev/cbudget/internal/model"
	"github.com/theirongolddev/cbudget/internal/server"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

func evaluate(t *testing.T, cfg config.Config, in budgetInputs) model.Result {
	t.Helper()
	snap, err := snapshotFromFlags(cfg, in)
	if err != nil {
		t.Fatalf("snapshotFromFlags(%+v): %v", in, err)
	}
	return budget.Evaluate(snap)
}

func TestSnapshotFromFlagsDefaults(t *testing.T) {
	r := evaluate(t, config.DefaultConfig(), budgetInputs{})
	if !r.TotalIncome.Equal(decimal.NewFromInt(5000)) ||
		!r.TotalExpenditure.Equal(decimal.NewFromInt(4550)) ||
		r.HorizonMonths != 6 {
		t.Fatalf("result = %+v, want 5000/4550 over 6 months", r)
	}
}

func TestSnapshotFromFlagsIncomesReplaceConfig(t *testing.T) {
	r := evaluate(t, config.DefaultConfig(), budgetInputs{Incomes: []string{"1,000", "£0"}})
	if !r.TotalIncome.Equal(decimal.NewFromInt(1000)) || !r.NetCashFlow.Equal(decimal.NewFromInt(-3550)) {
		t.Fatalf("income %s net %s, want 1000 and -3550", r.TotalIncome, r.NetCashFlow)
	}
}

func TestSnapshotFromFlagsMonthsOnlyWhenSet(t *testing.T) {
	if r := evaluate(t, config.DefaultConfig(), budgetInputs{Months: 12}); r.HorizonMonths != 6 {
		t.Fatalf("unset --months changed horizon to %d", r.HorizonMonths)
	}
	if r := evaluate(t, config.DefaultConfig(), budgetInputs{Months: 12, MonthsSet: true}); r.HorizonMonths != 12 {
		t.Fatalf("horizon = %d, want 12", r.HorizonMonths)
	}

	_, err := snapshotFromFlags(config.DefaultConfig(), budgetInputs{Months: 0, MonthsSet: true})
	if !errors.Is(err, model.ErrInvalidHorizon) {
		t.Fatalf("err = %v, want ErrInvalidHorizon", err)
	}
}

func TestSnapshotFromFlagsOff(t *testing.T) {
	r := evaluate(t, config.DefaultConfig(), budgetInputs{Off: []string{"core - mortgage"}})
	if !r.TotalExpenditure.Equal(decimal.NewFromInt(3350)) {
		t.Fatalf("expenditure = %s, want 3350", r.TotalExpenditure)
	}

	r = evaluate(t, config.DefaultConfig(), budgetInputs{Off: []string{"all"}})
	if !r.TotalExpenditure.IsZero() || !r.NetCashFlow.Equal(decimal.NewFromInt(5000)) {
		t.Fatalf("all off: expenditure %s net %s", r.TotalExpenditure, r.NetCashFlow)
	}
}

func TestSnapshotFromFlagsSet(t *testing.T) {
	r := evaluate(t, config.DefaultConfig(), budgetInputs{Set: []string{"Living - Groceries=537.25"}})
	if want := decimal.RequireFromString("4587.25"); !r.TotalExpenditure.Equal(want) {
		t.Fatalf("expenditure = %s, want %s", r.TotalExpenditure, want)
	}

	// An amount set on an inactive category is kept but not counted.
	r = evaluate(t, config.DefaultConfig(), budgetInputs{
		Off: []string{"Miscellaneous"},
		Set: []string{"Miscellaneous=999"},
	})
	if !r.TotalExpenditure.Equal(decimal.NewFromInt(4500)) {
		t.Fatalf("expenditure = %s, want 4500", r.TotalExpenditure)
	}
}

func TestSnapshotFromFlagsErrors(t *testing.T) {
	cases := []struct {
		name string
		in   budgetInputs
		want error
	}{
		{"unknown off", budgetInputs{Off: []string{"Yacht"}}, catalog.ErrUnknownCategory},
		{"unknown set", budgetInputs{Set: []string{"Yacht=10"}}, catalog.ErrUnknownCategory},
		{"set without equals", budgetInputs{Set: []string{"Miscellaneous"}}, errInvalidSet},
		{"negative income", budgetInputs{Incomes: []string{"-1"}}, model.ErrInvalidAmount},
		{"negative set", budgetInputs{Set: []string{"Miscellaneous=-5"}}, model.ErrInvalidAmount},
	}
	for _, tc := range cases {
		_, err := snapshotFromFlags(config.DefaultConfig(), tc.in)
		if !errors.Is(err, tc.want) {
			t.Errorf("%s: err = %v, want %v", tc.name, err, tc.want)
		}
	}

	if _, err := snapshotFromFlags(config.DefaultConfig(), budgetInputs{Incomes: []string{"lots"}}); err == nil {
		t.Error("non-numeric income accepted")
	}
}

func TestSnapshotFromFlagsHonorsConfigOverrides(t *testing.T) {
	cfg := config.DefaultConfig()
	off := false
	rent := decimal.NewFromInt(900)
	cfg.Expenses = map[string]config.ExpenseOverride{
		"Core - Mortgage": {Amount: &rent},
		"Core - Car":      {Active: &off},
	}
	cfg.General.DefaultMonths = 12

	r := evaluate(t, cfg, budgetInputs{})
	// 4550 - 300 (mortgage cut) - 300 (car off)
	if !r.TotalExpenditure.Equal(decimal.NewFromInt(3950)) || r.HorizonMonths != 12 {
		t.Fatalf("result = %+v, want 3950 over 12 months", r)
	}
}

func TestRenderSummary(t *testing.T) {
	snap, err := snapshotFromFlags(config.DefaultConfig(), budgetInputs{})
	if err != nil {
		t.Fatal(err)
	}
	out := renderSummary(snap)
	for _, want := range []string{"£5,000.00", "£4,550.00", "+£450.00", "Net Cash Flow (savings)", "Projection over 6 months", "£27,300.00"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q", want)
		}
	}
}

func TestRenderSummaryDeficit(t *testing.T) {
	snap, err := snapshotFromFlags(config.DefaultConfig(), budgetInputs{Incomes: []string{"1000"}})
	if err != nil {
		t.Fatal(err)
	}
	out := renderSummary(snap)
	if !strings.Contains(out, "Net Cash Flow (deficit)") || !strings.Contains(out, "-£3,550.00") {
		t.Fatalf("deficit summary:\n%s", out)
	}
}

func TestRenderExpenses(t *testing.T) {
	snap, err := snapshotFromFlags(config.DefaultConfig(), budgetInputs{Off: []string{"Core - Mortgage"}})
	if err != nil {
		t.Fatal(err)
	}
	out := renderExpenses(snap)
	for _, want := range []string{"14 of 15 on", "TOTAL", "£3,350.00", "Core subtotal (3/4)", "—"} {
		if !strings.Contains(out, want) {
			t.Errorf("expenses missing %q", want)
		}
	}
}

func TestRenderProjection(t *testing.T) {
	snap, err := snapshotFromFlags(config.DefaultConfig(), budgetInputs{Months: 3, MonthsSet: true})
	if err != nil {
		t.Fatal(err)
	}
	out := renderProjection(snap)
	for _, want := range []string{"PROJECTION  3 months", "£15,000.00", "£13,650.00", "+£1,350.00"} {
		if !strings.Contains(out, want) {
			t.Errorf("projection missing %q", want)
		}
	}
}

func TestRenderProjectionTruncatesLongHorizon(t *testing.T) {
	snap, err := snapshotFromFlags(config.DefaultConfig(), budgetInputs{Months: 1 << 40, MonthsSet: true})
	if err != nil {
		t.Fatal(err)
	}
	out := renderProjection(snap)
	if !strings.Contains(out, "Showing the first 1200 of 1099511627776 months.") {
		t.Fatalf("projection did not note the truncation:\n%s", out[len(out)-400:])
	}
}

func TestFetchStatus(t *testing.T) {
	ts := httptest.NewServer(server.New(server.Config{Months: 3}).Handler())
	defer ts.Close()

	st, err := fetchStatus(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("fetchStatus: %v", err)
	}
	if st.Categories != 15 || st.Months != 3 {
		t.Fatalf("status = %+v, want 15 categories and 3 months", st)
	}

	if _, err := fetchStatus(context.Background(), ts.URL+"/nope"); err == nil {
		t.Fatal("fetchStatus on a bad path succeeded")
	}
}

func TestServeStatusJSONIsOnlyJSON(t *testing.T) {
	ts := httptest.NewServer(server.New(server.Config{Months: 3}).Handler())
	defer ts.Close()
	addr := strings.TrimPrefix(ts.URL, "http://")

	var buf bytes.Buffer
	if err := writeServeStatus(context.Background(), &buf, addr, true); err != nil {
		t.Fatalf("writeServeStatus: %v", err)
	}
	var st server.Status
	if err := json.Unmarshal(buf.Bytes(), &st); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if st.Months != 3 {
		t.Fatalf("default_months = %d, want 3", st.Months)
	}

	buf.Reset()
	if err := writeServeStatus(context.Background(), &buf, addr, false); err != nil {
		t.Fatalf("writeServeStatus: %v", err)
	}
	if !strings.Contains(buf.String(), "Address: "+ts.URL) {
		t.Fatalf("table output missing address:\n%s", buf.String())
	}
}

func TestServeStatusUnreachableFails(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	addr := strings.TrimPrefix(ts.URL, "http://")
	ts.Close()

	var buf bytes.Buffer
	err := writeServeStatus(context.Background(), &buf, addr, true)
	if err == nil {
		t.Fatal("writeServeStatus succeeded against a closed server")
	}
	if buf.Len() != 0 {
		t.Fatalf("wrote %q for an unreachable service", buf.String())
	}
}
