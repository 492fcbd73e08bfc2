package extraction

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// CorrectionRule rewrites a systematic OCR misread. Pattern is a regular
// expression matched case-insensitively. Replacement may refer to capture
// groups as ${1}.
type CorrectionRule struct {
	Pattern     string `yaml:"pattern"`
	Replacement string `yaml:"replacement"`
}

// Layout holds the vocabulary used to read one family of invoices.
type Layout struct {
	Corrections []CorrectionRule `yaml:"corrections"`

	// SectionStart and SectionEnd bound the line-items table.
	SectionStart string `yaml:"section_start"`
	SectionEnd   string `yaml:"section_end"`

	// A line opens a new item when it starts with one of ProductCodePrefixes
	// or matches ProductCodePattern. Either may be left empty.
	ProductCodePrefixes []string `yaml:"product_code_prefixes"`
	ProductCodePattern  string   `yaml:"product_code_pattern"`

	UnitWords []string `yaml:"unit_words"`

	PartnerPattern string   `yaml:"partner_pattern"`
	UnknownPartner string   `yaml:"unknown_partner"`
	DateLabel      string   `yaml:"date_label"`
	NumberLabels   []string `yaml:"number_labels"`

	// Century is added to two-digit years.
	Century int `yaml:"century"`
}

// DefaultLayout returns the layout of the supplier invoices the tool was built for.
func DefaultLayout() Layout {
	return Layout{
		Corrections: []CorrectionRule{
			{Pattern: `Refi?rence`, Replacement: "Référence"},
			{Pattern: `Vante`, Replacement: "Vente"},
			{Pattern: `1Oml`, Replacement: "10ml"},
			{Pattern: `(^|[^/\d])10/4?0?1?23\b`, Replacement: "${1}10/10/23"},
			{Pattern: `N'?Bon`, Replacement: "N°Bon"},
			{Pattern: `DétermineA(b[bß]o?t)?`, Replacement: "Détermine Abbot"},
			{Pattern: `BIOLINEH?CV`, Replacement: "BIOLINE HCV"},
			{Pattern: `Sigtagy`, Replacement: "Sigraay"},
			{Pattern: `infoOgmedis\.com`, Replacement: "info@gmedis.com"},
			{Pattern: `10[.,]000[Uu]nités`, Replacement: "10 000 Unités"},
			{Pattern: `Fla?ç?ons`, Replacement: "Flacons"},
		},
		SectionStart:        "Désignation",
		SectionEnd:          "Arretée la présente facture",
		ProductCodePrefixes: []string{"IDAO", "HENZO"},
		UnitWords:           []string{"Flacons", "Unités"},
		PartnerPattern:      `CNTS\s+N'DJAMENA`,
		UnknownPartner:      "Unknown Partner",
		DateLabel:           "Date",
		NumberLabels:        []string{`N°\s*Bon`, `Facture\s*N°`, `Numéro`},
		Century:             2000,
	}
}

// LoadLayout reads a YAML layout file. Keys missing from the file keep
// their DefaultLayout value.
func LoadLayout(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("reading layout: %w", err)
	}
	return ParseLayout(data)
}

// ParseLayout decodes a YAML layout over the defaults and validates it.
func ParseLayout(data []byte) (Layout, error) {
	layout := DefaultLayout()
	if err := yaml.Unmarshal(data, &layout); err != nil {
		return Layout{}, fmt.Errorf("decoding layout: %w", err)
	}
	if _, err := layout.compile(); err != nil {
		return Layout{}, err
	}
	return layout, nil
}

type compiledRule struct {
	re          *regexp.Regexp
	replacement string
}

// compiledLayout is the read-only form of a Layout shared by all invocations.
type compiledLayout struct {
	rules []compiledRule

	sectionStart string
	sectionEnd   string

	codePrefixes []string
	codePattern  *regexp.Regexp
	quantityLine *regexp.Regexp
	priceLine    *regexp.Regexp

	partner        *regexp.Regexp
	unknownPartner string
	labeledDate    *regexp.Regexp
	number         *regexp.Regexp
	century        int
}

var (
	bareDate   = regexp.MustCompile(`\b(\d{2})/(\d{2})/(\d{2})\b`)
	whitespace = regexp.MustCompile(`\s+`)
)

const decimalPattern = `\d+(?:[.,]\d+)?`

func (l Layout) compile() (*compiledLayout, error) {
	c := &compiledLayout{
		sectionStart:   strings.ToLower(l.SectionStart),
		sectionEnd:     strings.ToLower(l.SectionEnd),
		unknownPartner: l.UnknownPartner,
		century:        l.Century,
	}
	if c.sectionStart == "" || c.sectionEnd == "" {
		return nil, fmt.Errorf("layout: section_start and section_end are required")
	}

	for i, rule := range l.Corrections {
		re, err := regexp.Compile("(?i)" + rule.Pattern)
		if err != nil {
			return nil, fmt.Errorf("layout: corrections[%d]: %w", i, err)
		}
		c.rules = append(c.rules, compiledRule{re: re, replacement: rule.Replacement})
	}

	for _, p := range l.ProductCodePrefixes {
		if p = strings.TrimSpace(p); p != "" {
			c.codePrefixes = append(c.codePrefixes, p)
		}
	}
	if l.ProductCodePattern != "" {
		re, err := regexp.Compile(l.ProductCodePattern)
		if err != nil {
			return nil, fmt.Errorf("layout: product_code_pattern: %w", err)
		}
		c.codePattern = re
	}

	units := make([]string, 0, len(l.UnitWords))
	for _, u := range l.UnitWords {
		if u = strings.TrimSpace(u); u != "" {
			units = append(units, regexp.QuoteMeta(u))
		}
	}
	if len(units) > 0 {
		c.quantityLine = regexp.MustCompile(`(?i)^(` + decimalPattern + `)\s+(` + strings.Join(units, "|") + `)(?:\s|$)`)
	}
	c.priceLine = regexp.MustCompile(`^(` + decimalPattern + `)(?:\s+(` + decimalPattern + `))?$`)

	if l.PartnerPattern != "" {
		re, err := regexp.Compile("(?i)" + l.PartnerPattern)
		if err != nil {
			return nil, fmt.Errorf("layout: partner_pattern: %w", err)
		}
		c.partner = re
	}
	if l.DateLabel != "" {
		c.labeledDate = regexp.MustCompile(`(?i)` + regexp.QuoteMeta(l.DateLabel) + `\s*:?\s*(\d{2})/(\d{2})/(\d{2})\b`)
	}
	if len(l.NumberLabels) > 0 {
		re, err := regexp.Compile(`(?is)(?:` + strings.Join(l.NumberLabels, "|") + `)\D{0,40}?(\d+)`)
		if err != nil {
			return nil, fmt.Errorf("layout: number_labels: %w", err)
		}
		c.number = re
	}
	return c, nil
}
