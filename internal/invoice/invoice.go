package invoice

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/zombor/invoice-ocr/internal/extraction"
)

// Source records how an invoice entered the system
type Source string

const (
	SourceScan   Source = "scan"
	SourceText   Source = "text"
	SourceManual Source = "manual"
)

var (
	// ErrNotFound is returned when no invoice has the requested ID
	ErrNotFound = errors.New("invoice not found")
	// ErrNoTextExtracted is returned when recognition produced no usable text
	ErrNoTextExtracted = errors.New("no text extracted")
	// ErrDuplicateInvoiceNumber is returned when an invoice number is already recorded
	ErrDuplicateInvoiceNumber = errors.New("invoice number already exists")
)

// Invoice is a processed invoice with the record extracted from it
type Invoice struct {
	ID          string            `json:"id"`
	Filename    string            `json:"filename,omitempty"`
	ContentType string            `json:"content_type,omitempty"`
	Source      Source            `json:"source"`
	Status      extraction.Status `json:"status"`
	RawText     string            `json:"raw_text,omitempty"`
	Record      extraction.Record `json:"record"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// ValidationError lists every field of a request that failed validation
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return "invalid invoice: " + strings.Join(parts, ", ")
}

func (e *ValidationError) add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = message
}

func (e *ValidationError) empty() bool {
	return len(e.Fields) == 0
}
