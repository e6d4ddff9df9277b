// Package catalog holds the fixed, ordered list of expense categories and
// their default monthly amounts.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/theirongolddev/cbudget/internal/model"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyName         = errors.New("empty category name")
	ErrDuplicateCategory = errors.New("duplicate category")
	ErrUnknownCategory   = errors.New("unknown category")
	ErrNegativeDefault   = errors.New("negative default amount")
)

// Entry is one catalog row.
type Entry struct {
	Name          string
	Group         model.Group
	DefaultAmount decimal.Decimal
}

// Catalog is an immutable ordered set of uniquely named entries.
type Catalog struct {
	entries []Entry
	index   map[string]int // lower-cased name -> position
}

var defaultEntries = []Entry{
	{"Core - Mortgage", model.GroupCore, decimal.NewFromInt(1200)},
	{"Core - Utilities", model.GroupCore, decimal.NewFromInt(90)},
	{"Core - Council Tax", model.GroupCore, decimal.NewFromInt(200)},
	{"Core - Car", model.GroupCore, decimal.NewFromInt(300)},
	{"Living - Groceries", model.GroupLiving, decimal.NewFromInt(500)},
	{"Living - Travel", model.GroupLiving, decimal.NewFromInt(300)},
	{"Living - Wellbeing", model.GroupLiving, decimal.NewFromInt(200)},
	{"Living - Clothes", model.GroupLiving, decimal.NewFromInt(300)},
	{"Living - Bills", model.GroupLiving, decimal.NewFromInt(50)},
	{"Living - Homeware", model.GroupLiving, decimal.NewFromInt(200)},
	{"Disposable - Eating Out", model.GroupDisposable, decimal.NewFromInt(400)},
	{"Disposable - Drinks and Cafe", model.GroupDisposable, decimal.NewFromInt(60)},
	{"Disposable - Events", model.GroupDisposable, decimal.NewFromInt(100)},
	{"Investment & Pension", model.GroupInvestment, decimal.NewFromInt(600)},
	{"Miscellaneous", model.GroupMisc, decimal.NewFromInt(50)},
}

// DefaultIncomeAmount is the starting value of each default income field.
var DefaultIncomeAmount = decimal.NewFromInt(2500)

// DefaultMonths is the projection horizon used when nothing else is configured.
const DefaultMonths = 6

// Default returns the built-in 15-category catalog.
func Default() Catalog {
	c, err := New(defaultEntries)
	if err != nil {
		panic(fmt.Sprintf("built-in catalog invalid: %v", err))
	}
	return c
}

// New builds a catalog, rejecting empty or duplicate names and negative defaults.
// Entries with no group are assigned one from their name prefix.
func New(entries []Entry) (Catalog, error) {
	c := Catalog{
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			return Catalog{}, ErrEmptyName
		}
		key := normalize(name)
		if _, dup := c.index[key]; dup {
			return Catalog{}, fmt.Errorf("%w: %q", ErrDuplicateCategory, name)
		}
		if e.DefaultAmount.IsNegative() {
			return Catalog{}, fmt.Errorf("%w: %q", ErrNegativeDefault, name)
		}
		e.Name = name
		if e.Group == "" {
			e.Group = GroupOf(name)
		}
		c.index[key] = len(c.entries)
		c.entries = append(c.entries, e)
	}
	return c, nil
}

// Len returns the number of categories.
func (c Catalog) Len() int {
	return len(c.entries)
}

// Entries returns a copy of the catalog rows in order.
func (c Catalog) Entries() []Entry {
	return append([]Entry(nil), c.entries...)
}

// Names returns category names in order.
func (c Catalog) Names() []string {
	names := make([]string, len(c.entries))
	for i, e := range c.entries {
		names[i] = e.Name
	}
	return names
}

// Lookup finds an entry by name, ignoring case and surrounding space.
func (c Catalog) Lookup(name string) (Entry, bool) {
	i, ok := c.index[normalize(name)]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}

// Resolve is Lookup returning ErrUnknownCategory for a missing name.
func (c Catalog) Resolve(name string) (Entry, error) {
	e, ok := c.Lookup(name)
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q", ErrUnknownCategory, name)
	}
	return e, nil
}

// WithDefaults returns a new catalog with some default amounts replaced.
// Keys are matched like Lookup; unknown keys are an error.
func (c Catalog) WithDefaults(overrides map[string]decimal.Decimal) (Catalog, error) {
	entries := c.Entries()
	for name, amt := range overrides {
		i, ok := c.index[normalize(name)]
		if !ok {
			return Catalog{}, fmt.Errorf("%w: %q", ErrUnknownCategory, name)
		}
		entries[i].DefaultAmount = amt
	}
	return New(entries)
}

// Expenses returns every category active at its default amount.
func (c Catalog) Expenses() []model.ExpenseCategory {
	out := make([]model.ExpenseCategory, len(c.entries))
	for i, e := range c.entries {
		out[i] = model.ExpenseCategory{
			Name:          e.Name,
			Group:         e.Group,
			DefaultAmount: e.DefaultAmount,
			Active:        true,
			Amount:        e.DefaultAmount,
		}
	}
	return out
}

// DefaultTotal sums every default amount.
func (c Catalog) DefaultTotal() decimal.Decimal {
	total := decimal.Zero
	for _, e := range c.entries {
		total = total.Add(e.DefaultAmount)
	}
	return total
}

// DefaultIncomes returns the two starting income fields.
func DefaultIncomes() []model.IncomeEntry {
	return []model.IncomeEntry{
		{Label: "Income 1", Amount: DefaultIncomeAmount},
		{Label: "Income 2", Amount: DefaultIncomeAmount},
	}
}

// GroupOf derives a group from a category name prefix.
// e.g., "Living - Travel" -> Living, "Investment & Pension" -> Investment & Pension
func GroupOf(name string) model.Group {
	prefix, _, found := strings.Cut(name, " - ")
	if !found {
		prefix = name
	}
	for _, g := range model.Groups {
		if strings.EqualFold(strings.TrimSpace(prefix), string(g)) {
			return g
		}
	}
	return model.GroupMisc
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
