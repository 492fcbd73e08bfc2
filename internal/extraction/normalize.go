package extraction

import (
	"golang.org/x/text/unicode/norm"
)

// Normalizer applies a layout's correction table to raw OCR text.
type Normalizer struct {
	rules []compiledRule
}

// NewNormalizer compiles the correction rules of a layout.
func NewNormalizer(layout Layout) (*Normalizer, error) {
	c, err := layout.compile()
	if err != nil {
		return nil, err
	}
	return &Normalizer{rules: c.rules}, nil
}

// Normalize composes accents to NFC and applies every correction rule once,
// in table order, over the whole text. Each rule sees the output of the
// previous one.
func (n *Normalizer) Normalize(text string) string {
	if text == "" {
		return text
	}
	// OCR engines may emit "e" + U+0301 where the rules expect "é"
	text = norm.NFC.String(text)
	for _, rule := range n.rules {
		text = rule.re.ReplaceAllString(text, rule.replacement)
	}
	return text
}
