// Package layout decides which enabled modules are visible when their
// rendered widths exceed the horizontal budget. Widths are measured in
// terminal cells; the algorithm is deterministic and order-dependent,
// favoring modules the user placed earlier.
package layout

import (
	"github.com/mattn/go-runewidth"
)

// Budget derivation defaults: a fraction of the available screen width,
// capped at an absolute maximum.
const (
	DefaultBudgetFraction = 0.45
	DefaultMaxBudget      = 120
)

// itemGap is the cell gap rendered between adjacent modules.
const itemGap = 2

// Item is one enabled module's rendered form.
type Item struct {
	ID     string
	Symbol string
	Text   string
}

// Policy tunes the overflow behavior.
type Policy struct {
	// IconOnlyFallback strips module text (keeping icons) before any
	// module is hidden.
	IconOnlyFallback bool
}

// Result reports which modules are visible and whether text was suppressed.
type Result struct {
	VisibleIDs []string
	IconOnly   bool
	Width      int
}

// Budget derives the horizontal budget from the screen width. The fraction
// and cap are recomputed per layout pass because the screen can change size.
func Budget(screenWidth int, fraction float64, maxBudget int) int {
	if fraction <= 0 || fraction > 1 {
		fraction = DefaultBudgetFraction
	}
	if maxBudget <= 0 {
		maxBudget = DefaultMaxBudget
	}
	b := int(float64(screenWidth) * fraction)
	if b > maxBudget {
		b = maxBudget
	}
	if b < 0 {
		b = 0
	}
	return b
}

// Compute fits the ordered enabled items into the budget:
//  1. everything at full fidelity when it fits;
//  2. icon-only when the fallback policy is set and that fits;
//  3. otherwise hide trailing items (never below one) until the remaining
//     prefix fits. The last remaining item is always visible regardless of
//     its width.
func Compute(items []Item, budget int, pol Policy) Result {
	if len(items) == 0 {
		return Result{}
	}
	if w := totalWidth(items, false); w <= budget {
		return Result{VisibleIDs: ids(items), Width: w}
	}

	iconOnly := false
	if pol.IconOnlyFallback {
		if w := totalWidth(items, true); w <= budget {
			return Result{VisibleIDs: ids(items), IconOnly: true, Width: w}
		}
		iconOnly = true
	}

	visible := items
	for len(visible) > 1 && totalWidth(visible, iconOnly) > budget {
		visible = visible[:len(visible)-1]
	}
	return Result{
		VisibleIDs: ids(visible),
		IconOnly:   iconOnly,
		Width:      totalWidth(visible, iconOnly),
	}
}

// ItemWidth measures one item's rendered width in cells.
func ItemWidth(it Item, iconOnly bool) int {
	w := runewidth.StringWidth(it.Symbol)
	if !iconOnly && it.Text != "" {
		if w > 0 {
			w++ // gap between icon and text
		}
		w += runewidth.StringWidth(it.Text)
	}
	return w
}

func totalWidth(items []Item, iconOnly bool) int {
	w := 0
	for i, it := range items {
		if i > 0 {
			w += itemGap
		}
		w += ItemWidth(it, iconOnly)
	}
	return w
}

func ids(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}
