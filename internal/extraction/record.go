package extraction

import (
	"github.com/shopspring/decimal"
)

// Status tells the caller whether any text reached the parser.
type Status string

const (
	// StatusExtracted means text was parsed; the record may still be partial.
	StatusExtracted Status = "extracted"
	// StatusNoText means recognition produced no text at all.
	StatusNoText Status = "no_text"
)

// LineItem is one product row of an invoice.
type LineItem struct {
	ProductCode string          `json:"product_code,omitempty"`
	Name        string          `json:"name"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit,omitempty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Barcode     string          `json:"barcode,omitempty"`
}

// Record is the structured form of one invoice.
type Record struct {
	LineItems     []LineItem `json:"line_items"`
	PartnerName   string     `json:"partner_name"`
	InvoiceDate   string     `json:"invoice_date"` // yyyy-MM-dd or empty
	InvoiceNumber string     `json:"invoice_number"`
}

// Result is the outcome of one pipeline invocation.
type Result struct {
	Status Status `json:"status"`
	Record Record `json:"record"`
}

// Assemble merges tokenized items and header fields into a record.
func Assemble(items []LineItem, header Header) Record {
	if items == nil {
		items = []LineItem{}
	}
	return Record{
		LineItems:     items,
		PartnerName:   header.PartnerName,
		InvoiceDate:   header.InvoiceDate,
		InvoiceNumber: header.InvoiceNumber,
	}
}

// Total sums the line subtotals.
func (r Record) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range r.LineItems {
		total = total.Add(item.Subtotal)
	}
	return total
}

// Values returns the record in the shape the invoicing server expects for
// account.move. product_id carries the product name; the sync side resolves
// it to a remote id.
func (r Record) Values() map[string]any {
	lines := make([]map[string]any, 0, len(r.LineItems))
	for _, item := range r.LineItems {
		lines = append(lines, item.Values())
	}
	return map[string]any{
		"invoice_line_ids": lines,
		"partner_id":       r.PartnerName,
		"invoice_date":     r.InvoiceDate,
		"invoice_number":   r.InvoiceNumber,
	}
}

// Values returns the invoice_line_ids entry for the item.
func (i LineItem) Values() map[string]any {
	v := map[string]any{
		"product_id":     i.Name,
		"default_code":   i.ProductCode,
		"name":           i.Name,
		"quantity":       i.Quantity.InexactFloat64(),
		"uom":            i.Unit,
		"price_unit":     i.UnitPrice.InexactFloat64(),
		"price_subtotal": i.Subtotal.InexactFloat64(),
	}
	if i.Barcode != "" {
		v["barcode_scan"] = i.Barcode
	}
	return v
}
