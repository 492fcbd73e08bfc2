package extraction

import (
	"strings"
)

// lineItemBuilder accumulates the fields of the item being read. The set
// flags distinguish "not seen yet" from a parsed zero.
type lineItemBuilder struct {
	item LineItem

	hasCode, hasName, hasQuantity, hasUnit, hasUnitPrice, hasSubtotal bool
}

func (b *lineItemBuilder) empty() bool {
	return !(b.hasCode || b.hasName || b.hasQuantity || b.hasUnit || b.hasUnitPrice || b.hasSubtotal)
}

// addPrice fills the first unfilled slot of (unit price, subtotal).
// It reports false when both are already set.
func (b *lineItemBuilder) addPrice(raw string) bool {
	switch {
	case !b.hasUnitPrice:
		b.item.UnitPrice = decimalOrZero(raw)
		b.hasUnitPrice = true
	case !b.hasSubtotal:
		b.item.Subtotal = decimalOrZero(raw)
		b.hasSubtotal = true
	default:
		return false
	}
	return true
}

// Tokenizer groups the lines of an items section into line items.
type Tokenizer struct {
	layout  *compiledLayout
	current lineItemBuilder
	items   []LineItem
}

func newTokenizer(layout *compiledLayout) *Tokenizer {
	return &Tokenizer{layout: layout}
}

// Feed classifies one line. Product starts win over quantity lines, which
// win over price lines; anything else is ignored.
func (t *Tokenizer) Feed(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}

	if t.isProductStart(line) {
		t.Close()
		parts := whitespace.Split(line, 2)
		t.current.item.ProductCode = parts[0]
		t.current.hasCode = true
		if len(parts) > 1 {
			t.current.item.Name = strings.TrimSpace(parts[1])
		}
		t.current.hasName = true
		return
	}

	if t.layout.quantityLine != nil {
		if m := t.layout.quantityLine.FindStringSubmatch(line); m != nil {
			t.current.item.Quantity = decimalOrZero(m[1])
			t.current.item.Unit = m[2]
			t.current.hasQuantity = true
			t.current.hasUnit = true
			return
		}
	}

	if m := t.layout.priceLine.FindStringSubmatch(line); m != nil {
		t.current.addPrice(m[1])
		if m[2] != "" {
			t.current.addPrice(m[2])
		}
	}
}

// Close appends the item being read, if any, and starts a fresh one.
func (t *Tokenizer) Close() {
	if t.current.empty() {
		return
	}
	t.items = append(t.items, t.current.item)
	t.current = lineItemBuilder{}
}

// Items returns the completed items in order of appearance.
func (t *Tokenizer) Items() []LineItem {
	return t.items
}

func (t *Tokenizer) isProductStart(line string) bool {
	for _, prefix := range t.layout.codePrefixes {
		if len(line) >= len(prefix) && strings.EqualFold(line[:len(prefix)], prefix) {
			return true
		}
	}
	return t.layout.codePattern != nil && t.layout.codePattern.MatchString(line)
}
