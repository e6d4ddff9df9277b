// Package tui provides the interactive Bubble Tea dashboard for cbudget.
package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/cbudget/internal/budget"
	"github.com/theirongolddev/cbudget/internal/cli"
	"github.com/theirongolddev/cbudget/internal/config"
	"github.com/theirongolddev/cbudget/internal/log"
	"github.com/theirongolddev/cbudget/internal/model"
	"github.com/theirongolddev/cbudget/internal/tui/components"
	"github.com/theirongolddev/cbudget/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// App is the root Bubble Tea model.
type App struct {
	cfg config.Config
	log *log.Logger

	// Inputs. initial is what "r" restores.
	initial model.Snapshot
	snap    model.Snapshot

	// Derived from snap by recompute.
	result    model.Result
	breakdown []model.GroupTotal
	schedule  []model.MonthPoint

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool

	incomeCursor  int
	expenseCursor int

	// Amount editing
	editing bool
	input   textinput.Model
	editErr string

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals setupValues
	needSetup bool
}

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 160

	minContentHeight = 5
)

// NewApp creates a new TUI app model starting from snap.
func NewApp(cfg config.Config, snap model.Snapshot, logger *log.Logger) App {
	if logger == nil {
		logger = log.Discard()
	}

	a := App{
		cfg:       cfg,
		log:       logger.WithComponent(log.ComponentTUI),
		initial:   snap,
		snap:      snap,
		needSetup: !config.Exists(),
	}
	if a.needSetup {
		a.setupVals = setupValuesFrom(cfg)
		a.setupForm = newSetupForm(&a.setupVals)
	}
	a.recompute()
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.EnableMouseCellMotion}
	if a.setupForm != nil {
		cmds = append(cmds, a.setupForm.Init())
	}
	return tea.Batch(cmds...)
}

// Snapshot returns the inputs as currently edited.
func (a App) Snapshot() model.Snapshot {
	return a.snap
}

func (a *App) recompute() {
	a.result = budget.Evaluate(a.snap)
	a.breakdown = budget.Breakdown(a.snap)
	a.schedule = budget.Schedule(a.snap)

	if n := len(a.snap.Incomes()); a.incomeCursor >= n {
		a.incomeCursor = max(0, n-1)
	}
	if n := len(a.snap.Expenses()); a.expenseCursor >= n {
		a.expenseCursor = max(0, n-1)
	}

	a.log.Debug("recomputed",
		log.FieldOperation, log.OpEvaluate,
		log.FieldMonths, a.result.HorizonMonths,
		log.FieldIncome, a.result.TotalIncome.String(),
		log.FieldExpense, a.result.TotalExpenditure.String(),
		log.FieldNet, a.result.NetCashFlow.String(),
	)
}

// apply swaps in a snapshot produced by one of the With* helpers. Errors are
// shown inline and leave the previous inputs untouched.
func (a *App) apply(next model.Snapshot, err error) bool {
	if err != nil {
		a.editErr = err.Error()
		return false
	}
	a.editErr = ""
	a.snap = next
	a.recompute()
	return true
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if a.showHelp || a.editing || (a.needSetup && a.setupForm != nil) {
			return a, nil
		}
		return a.updateMouse(msg)

	case tea.KeyMsg:
		key := msg.String()

		if key == "ctrl+c" {
			return a, tea.Quit
		}

		// First-run setup wizard intercepts all keys
		if a.needSetup && a.setupForm != nil {
			return a.updateSetupForm(msg)
		}

		if a.editing {
			return a.updateEditInput(msg)
		}

		if key == "?" {
			a.showHelp = !a.showHelp
			return a, nil
		}
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}

		return a.updateKey(key)
	}

	// Forward unhandled messages to the setup form (cursor blinks, etc.)
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	if a.editing {
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		return a, cmd
	}

	return a, nil
}

func (a App) updateKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q":
		return a, tea.Quit
	case "left":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		return a, nil
	case "right", "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil
	case "+", "=":
		a.apply(a.snap.WithHorizon(a.snap.HorizonMonths() + 1))
		return a, nil
	case "-", "_":
		if a.snap.HorizonMonths() > 1 {
			a.apply(a.snap.WithHorizon(a.snap.HorizonMonths() - 1))
		}
		return a, nil
	case "r":
		a.snap = a.initial
		a.editErr = ""
		a.recompute()
		return a, nil
	case "a":
		a.toggleAll()
		return a, nil
	}

	if len(key) == 1 {
		if idx := components.TabIdxByKey(rune(key[0])); idx >= 0 {
			a.activeTab = idx
			return a, nil
		}
	}

	switch a.activeTab {
	case components.TabIncome:
		switch key {
		case "j", "down":
			a.incomeCursor = max(min(a.incomeCursor+1, len(a.snap.Incomes())-1), 0)
		case "k", "up":
			a.incomeCursor = max(a.incomeCursor-1, 0)
		case "enter":
			return a.startEdit()
		}
	case components.TabExpenses:
		switch key {
		case "j", "down":
			a.expenseCursor = max(min(a.expenseCursor+1, len(a.snap.Expenses())-1), 0)
		case "k", "up":
			a.expenseCursor = max(a.expenseCursor-1, 0)
		case "g", "home":
			a.expenseCursor = 0
		case "G", "end":
			a.expenseCursor = max(len(a.snap.Expenses())-1, 0)
		case " ", "space":
			if e, ok := a.selectedExpense(); ok {
				a.log.Debug("expense toggled", log.FieldCategory, e.Name, "active", !e.Active)
				a.apply(a.snap.WithExpenseActive(e.Name, !e.Active))
			}
		case "enter":
			return a.startEdit()
		}
	}
	return a, nil
}

// toggleAll deactivates every expense when any is active, otherwise
// reactivates them all.
func (a *App) toggleAll() {
	expenses := a.snap.Expenses()
	anyActive := false
	for _, e := range expenses {
		if e.Active {
			anyActive = true
			break
		}
	}

	next := a.snap
	for _, e := range expenses {
		var err error
		if next, err = next.WithExpenseActive(e.Name, !anyActive); err != nil {
			a.editErr = err.Error()
			return
		}
	}
	a.apply(next, nil)
}

func (a App) selectedExpense() (model.ExpenseCategory, bool) {
	expenses := a.snap.Expenses()
	if a.expenseCursor < 0 || a.expenseCursor >= len(expenses) {
		return model.ExpenseCategory{}, false
	}
	return expenses[a.expenseCursor], true
}

func (a App) selectedIncome() (model.IncomeEntry, bool) {
	incomes := a.snap.Incomes()
	if a.incomeCursor < 0 || a.incomeCursor >= len(incomes) {
		return model.IncomeEntry{}, false
	}
	return incomes[a.incomeCursor], true
}

func newAmountInput() textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 16
	ti.Width = 16
	ti.Prompt = cli.Currency
	return ti
}

func (a App) startEdit() (tea.Model, tea.Cmd) {
	ti := newAmountInput()

	switch a.activeTab {
	case components.TabIncome:
		in, ok := a.selectedIncome()
		if !ok {
			return a, nil
		}
		ti.SetValue(cli.FormatAmount(in.Amount))
	case components.TabExpenses:
		e, ok := a.selectedExpense()
		if !ok {
			return a, nil
		}
		ti.SetValue(cli.FormatAmount(e.Amount))
	default:
		return a, nil
	}

	ti.Placeholder = "0.00"
	ti.CursorEnd()
	ti.Focus()

	a.editing = true
	a.editErr = ""
	a.input = ti
	return a, textinput.Blink
}

func (a App) updateEditInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.editing = false
		a.editErr = ""
		return a, nil
	case "enter":
		if a.commitEdit() {
			a.editing = false
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// commitEdit parses the input and applies it to the selected row. It reports
// whether the edit was accepted; rejected input stays in the field.
func (a *App) commitEdit() bool {
	amount, err := cli.ParseAmount(a.input.Value())
	if err != nil {
		a.editErr = err.Error()
		return false
	}

	switch a.activeTab {
	case components.TabIncome:
		return a.apply(a.snap.WithIncomeAmount(a.incomeCursor, amount))
	case components.TabExpenses:
		e, ok := a.selectedExpense()
		if !ok {
			return true
		}
		return a.apply(a.snap.WithExpenseAmount(e.Name, amount))
	}
	return true
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		cfg, err := applySetup(a.cfg, a.setupVals)
		if err == nil {
			err = config.Save(cfg)
		}
		if err != nil {
			a.log.Warn("setup not saved", log.FieldError, err, log.FieldOperation, log.OpSave)
		} else {
			a.cfg = cfg
			a.reloadFromConfig()
		}
		a.needSetup = false
		a.setupForm = nil
		return a, nil

	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}

	return a, cmd
}

// reloadFromConfig rebuilds the starting inputs after setup changed incomes,
// horizon or presentation settings.
func (a *App) reloadFromConfig() {
	cli.SetCurrency(a.cfg.General.CurrencySymbol)
	theme.SetActive(a.cfg.Appearance.Theme)

	expenses, err := config.Expenses(a.cfg)
	if err != nil {
		a.editErr = err.Error()
		return
	}
	snap, err := model.NewSnapshot(config.Incomes(a.cfg), expenses, a.cfg.General.DefaultMonths)
	if err != nil {
		a.editErr = err.Error()
		return
	}
	a.initial = snap
	a.snap = snap
	a.recompute()
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}

	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}

	// First-run setup wizard
	if a.needSetup && a.setupForm != nil {
		return a.setupForm.View()
	}

	if a.showHelp {
		return a.viewHelp()
	}

	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)

	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  cbudget needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)

	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	sections := []struct {
		title    string
		bindings []struct{ key, desc string }
	}{
		{"Navigation", []struct{ key, desc string }{
			{"s i e p", "Jump to tab"},
			{"← →", "Previous / Next tab"},
			{"j k", "Move selection"},
		}},
		{"Editing", []struct{ key, desc string }{
			{"Space", "Toggle expense on / off"},
			{"Enter", "Edit selected amount"},
			{"Esc", "Cancel edit"},
			{"a", "Toggle all expenses"},
			{"+ -", "Longer / shorter projection"},
			{"r", "Reset to starting values"},
		}},
		{"General", []struct{ key, desc string }{
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, sec := range sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(sec.title))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-8s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	// 1. Header: tab bar + horizon pill
	pillStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	pillAccent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	pill := pillStyle.Render(" projecting ") +
		pillAccent.Render(cli.FormatMonths(a.result.HorizonMonths)) +
		pillStyle.Render(" │ ") +
		pillAccent.Render(fmt.Sprintf("%d/%d", activeCount(a.snap), len(a.snap.Expenses()))) +
		pillStyle.Render(" expenses on ")
	header := components.RenderTabBar(a.activeTab, w) + "\n" +
		lipgloss.NewStyle().Background(t.Surface).Width(w).Render(pill)

	// 2. Status bar
	net := "net " + cli.FormatSignedMoney(a.result.NetCashFlow)
	statusBar := components.RenderStatusBar(w, a.statusHints(), net)

	// 3. Content zone height
	contentH := max(h-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch a.activeTab {
	case components.TabSummary:
		content = a.renderSummaryTab(cw)
	case components.TabIncome:
		content = a.renderIncomeTab(cw)
	case components.TabExpenses:
		content = a.renderExpensesTab(cw, contentH)
	case components.TabProjection:
		content = a.renderProjectionTab(cw, contentH)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)

	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) statusHints() string {
	switch {
	case a.editing:
		return "[Enter] save  [Esc] cancel"
	case a.activeTab == components.TabExpenses:
		return "[j/k] move  [Space] toggle  [Enter] edit  [a] all  [?] help"
	case a.activeTab == components.TabIncome:
		return "[j/k] move  [Enter] edit  [+/-] months  [?] help"
	default:
		return "[+/-] months  [r] reset  [?] help  [q] quit"
	}
}

// ─── Helpers ────────────────────────────────────────────────────

func activeCount(s model.Snapshot) int {
	n := 0
	for _, e := range s.Expenses() {
		if e.Active {
			n++
		}
	}
	return n
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		result.WriteString(lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg)))
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// ─── Mouse Support ──────────────────────────────────────────────

func (a App) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		return a.updateKey("k")
	case tea.MouseButtonWheelDown:
		return a.updateKey("j")
	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			return a, nil
		}
		if msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.activeTab = tab
			}
		}
	}
	return a, nil
}

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes are derived from the same width rules used by RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW

		// Separator is one column between tabs.
		if i < len(components.Tabs)-1 {
			pos++
		}
	}
	return -1
}
