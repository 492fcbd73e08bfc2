package extraction

import (
	"strconv"
	"time"
)

// Header holds the invoice-level fields.
type Header struct {
	PartnerName   string
	InvoiceDate   string
	InvoiceNumber string
}

// HeaderExtractor scans the whole text for partner, date and number.
type HeaderExtractor struct {
	layout *compiledLayout
}

// NewHeaderExtractor compiles the header patterns of a layout.
func NewHeaderExtractor(layout Layout) (*HeaderExtractor, error) {
	c, err := layout.compile()
	if err != nil {
		return nil, err
	}
	return &HeaderExtractor{layout: c}, nil
}

// Extract never fails; a field that cannot be found keeps its default.
func (h *HeaderExtractor) Extract(text string) Header {
	return Header{
		PartnerName:   h.partner(text),
		InvoiceDate:   h.date(text),
		InvoiceNumber: h.number(text),
	}
}

func (h *HeaderExtractor) partner(text string) string {
	if h.layout.partner != nil {
		if found := h.layout.partner.FindString(text); found != "" {
			return found
		}
	}
	return h.layout.unknownPartner
}

// date prefers a labeled DD/MM/YY and falls back to the first bare one.
func (h *HeaderExtractor) date(text string) string {
	var m []string
	if h.layout.labeledDate != nil {
		m = h.layout.labeledDate.FindStringSubmatch(text)
	}
	if m == nil {
		m = bareDate.FindStringSubmatch(text)
	}
	if m == nil {
		return ""
	}
	return formatDate(m[1], m[2], m[3], h.layout.century)
}

func (h *HeaderExtractor) number(text string) string {
	if h.layout.number == nil {
		return ""
	}
	if m := h.layout.number.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

// formatDate returns yyyy-MM-dd, or "" when the parts are not a calendar date.
func formatDate(dd, mm, yy string, century int) string {
	day, err1 := strconv.Atoi(dd)
	month, err2 := strconv.Atoi(mm)
	year, err3 := strconv.Atoi(yy)
	if err1 != nil || err2 != nil || err3 != nil {
		return ""
	}
	year += century
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month || t.Year() != year {
		return ""
	}
	return t.Format("2006-01-02")
}
