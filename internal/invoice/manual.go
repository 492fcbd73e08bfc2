package invoice

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/zombor/invoice-ocr/internal/extraction"
)

// ManualEntry is an invoice typed in by hand when a scan is unusable
type ManualEntry struct {
	InvoiceNumber string `json:"invoice_number"`
	Customer      string `json:"customer"`
	Product       string `json:"product"`
	ProductCode   string `json:"product_code,omitempty"`
	Quantity      string `json:"quantity"`
	Unit          string `json:"unit,omitempty"`
	Price         string `json:"price"`
	Date          string `json:"date"` // yyyy-MM-dd
	Barcode       string `json:"barcode,omitempty"`
}

// record validates the entry and builds the single-line record it describes
func (m ManualEntry) record() (extraction.Record, error) {
	verr := &ValidationError{}

	required := []struct{ field, value string }{
		{"invoice_number", m.InvoiceNumber},
		{"customer", m.Customer},
		{"product", m.Product},
		{"quantity", m.Quantity},
		{"price", m.Price},
		{"date", m.Date},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			verr.add(r.field, "is required")
		}
	}

	quantity, ok := extraction.ParseDecimal(m.Quantity)
	if !ok && verr.Fields["quantity"] == "" {
		verr.add("quantity", "must be a non-negative number")
	}
	price, ok := extraction.ParseDecimal(m.Price)
	if !ok && verr.Fields["price"] == "" {
		verr.add("price", "must be a non-negative number")
	}

	date := strings.TrimSpace(m.Date)
	if date != "" {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			verr.add("date", "must be formatted yyyy-MM-dd")
		}
	}

	if !verr.empty() {
		return extraction.Record{}, verr
	}

	item := extraction.LineItem{
		ProductCode: strings.TrimSpace(m.ProductCode),
		Name:        strings.TrimSpace(m.Product),
		Quantity:    quantity,
		Unit:        strings.TrimSpace(m.Unit),
		UnitPrice:   price,
		Subtotal:    quantity.Mul(price),
		Barcode:     strings.TrimSpace(m.Barcode),
	}
	return extraction.Assemble([]extraction.LineItem{item}, extraction.Header{
		PartnerName:   strings.TrimSpace(m.Customer),
		InvoiceDate:   date,
		InvoiceNumber: strings.TrimSpace(m.InvoiceNumber),
	}), nil
}

// CreateManual validates and saves a hand-entered invoice. It returns a
// *ValidationError naming every bad field, or ErrDuplicateInvoiceNumber when
// the number is already recorded.
func (s *Service) CreateManual(entry ManualEntry) (*Invoice, error) {
	record, err := entry.record()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.db.FindByNumber(record.InvoiceNumber)
	switch {
	case err == nil:
		return nil, fmt.Errorf("%w: %s (invoice %s)", ErrDuplicateInvoiceNumber, record.InvoiceNumber, existing.ID)
	case !errors.Is(err, ErrNotFound):
		return nil, fmt.Errorf("checking invoice number: %w", err)
	}

	now := s.timeSource.Now()
	invoice := &Invoice{
		ID:        s.idGenerator.Generate(),
		Source:    SourceManual,
		Status:    extraction.StatusExtracted,
		Record:    record,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.db.SaveInvoice(invoice); err != nil {
		return nil, fmt.Errorf("saving invoice to database: %w", err)
	}
	return invoice, nil
}
