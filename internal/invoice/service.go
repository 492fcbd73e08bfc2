package invoice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zombor/invoice-ocr/internal/extraction"
	"github.com/zombor/invoice-ocr/internal/scanning"
)

// IDGenerator generates unique IDs for invoices
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

// Extractor turns recognized text into a record
type Extractor interface {
	Process(rawText string) extraction.Result
}

// uuidGenerator generates random UUIDs
type uuidGenerator struct{}

func (g *uuidGenerator) Generate() string {
	return uuid.NewString()
}

// defaultTimeSource provides the current time
type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Service handles invoice operations
type Service struct {
	db          DB
	recognizer  scanning.Recognizer
	extractor   Extractor
	storage     Storage
	idGenerator IDGenerator
	timeSource  TimeSource

	// mu serializes the duplicate-number check with the write that follows it
	mu sync.Mutex
}

// NewService creates a new Service with UUID ids and the wall clock
func NewService(db DB, recognizer scanning.Recognizer, extractor Extractor, storage Storage) *Service {
	return NewServiceWithDeps(db, recognizer, extractor, storage, &uuidGenerator{}, &defaultTimeSource{})
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(db DB, recognizer scanning.Recognizer, extractor Extractor, storage Storage, idGen IDGenerator, timeSrc TimeSource) *Service {
	return &Service{
		db:          db,
		recognizer:  recognizer,
		extractor:   extractor,
		storage:     storage,
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

var (
	unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9\s\-_]`)
	repeatedSpaces      = regexp.MustCompile(`\s+`)
	unsafeExtChars      = regexp.MustCompile(`[^a-z0-9.]`)
)

// sanitizeFilename shortens phone-generated names to something safe to store
func sanitizeFilename(filename string) string {
	filename = filepath.Base(filename)
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)

	base = unsafeFilenameChars.ReplaceAllString(base, "")
	base = strings.TrimSpace(repeatedSpaces.ReplaceAllString(base, " "))
	if len(base) > 50 {
		base = base[:50]
	}
	if base == "" {
		base = "invoice"
	}

	ext = unsafeExtChars.ReplaceAllString(strings.ToLower(ext), "")
	return base + ext
}

// ProcessInvoice stores an uploaded image, recognizes its text and extracts
// a record from it. A recognition failure or an image without text removes
// the stored file and returns ErrNoTextExtracted.
func (s *Service) ProcessInvoice(ctx context.Context, filename string, data []byte, contentType string) (*Invoice, error) {
	id := s.idGenerator.Generate()
	now := s.timeSource.Now()

	savedPath, err := s.storage.Save(fmt.Sprintf("%s_%s", id, sanitizeFilename(filename)), data)
	if err != nil {
		return nil, fmt.Errorf("saving file: %w", err)
	}

	text, err := s.recognizer.RecognizeText(ctx, data, contentType)
	if err != nil {
		s.removeFile(savedPath)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("recognizing text: %w", ctxErr)
		}
		slog.Warn("Failed to recognize invoice text",
			"filename", filename,
			"content_type", contentType,
			"file_size", len(data),
			"error", err,
		)
		if errors.Is(err, scanning.ErrNoText) {
			return nil, ErrNoTextExtracted
		}
		return nil, fmt.Errorf("%w: %w", ErrNoTextExtracted, err)
	}

	result := s.extractor.Process(text)
	if result.Status == extraction.StatusNoText {
		s.removeFile(savedPath)
		return nil, ErrNoTextExtracted
	}

	invoice := &Invoice{
		ID:          id,
		Filename:    savedPath,
		ContentType: contentType,
		Source:      SourceScan,
		Status:      result.Status,
		RawText:     text,
		Record:      result.Record,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.db.SaveInvoice(invoice); err != nil {
		s.removeFile(savedPath)
		return nil, fmt.Errorf("saving invoice to database: %w", err)
	}

	slog.Info("Processed invoice",
		"id", id,
		"filename", filename,
		"items", len(invoice.Record.LineItems),
		"partner", invoice.Record.PartnerName,
	)
	return invoice, nil
}

// ProcessText extracts a record from text recognized elsewhere, for example
// on the capturing device
func (s *Service) ProcessText(rawText string) (*Invoice, error) {
	result := s.extractor.Process(rawText)
	if result.Status == extraction.StatusNoText {
		return nil, ErrNoTextExtracted
	}

	now := s.timeSource.Now()
	invoice := &Invoice{
		ID:        s.idGenerator.Generate(),
		Source:    SourceText,
		Status:    result.Status,
		RawText:   rawText,
		Record:    result.Record,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.db.SaveInvoice(invoice); err != nil {
		return nil, fmt.Errorf("saving invoice to database: %w", err)
	}
	return invoice, nil
}

func (s *Service) removeFile(name string) {
	if err := s.storage.Delete(name); err != nil {
		slog.Warn("Failed to delete file", "filename", name, "error", err)
	}
}

// GetInvoice retrieves an invoice by ID
func (s *Service) GetInvoice(id string) (*Invoice, error) {
	invoice, err := s.db.GetInvoice(id)
	if err != nil {
		return nil, fmt.Errorf("getting invoice: %w", err)
	}
	return invoice, nil
}

// ListInvoices returns all invoices
func (s *Service) ListInvoices() ([]*Invoice, error) {
	invoices, err := s.db.ListInvoices()
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}
	return invoices, nil
}

// InvoiceValues returns the transport values of an invoice for the sync side
func (s *Service) InvoiceValues(id string) (map[string]any, error) {
	invoice, err := s.GetInvoice(id)
	if err != nil {
		return nil, err
	}
	return invoice.Record.Values(), nil
}

// DeleteInvoice removes an invoice and its file
func (s *Service) DeleteInvoice(id string) error {
	invoice, err := s.db.GetInvoice(id)
	if err != nil {
		return fmt.Errorf("getting invoice for deletion: %w", err)
	}

	if invoice.Filename != "" {
		// Log error but continue with database deletion
		s.removeFile(invoice.Filename)
	}

	if err := s.db.DeleteInvoice(id); err != nil {
		return fmt.Errorf("deleting invoice from database: %w", err)
	}
	return nil
}

// GetInvoiceFile retrieves the uploaded image of an invoice
func (s *Service) GetInvoiceFile(id string) ([]byte, string, error) {
	invoice, err := s.db.GetInvoice(id)
	if err != nil {
		return nil, "", fmt.Errorf("getting invoice: %w", err)
	}
	if invoice.Filename == "" {
		return nil, "", fmt.Errorf("%w: invoice %s has no file", ErrNotFound, id)
	}

	data, err := s.storage.Get(invoice.Filename)
	if err != nil {
		return nil, "", fmt.Errorf("getting invoice file: %w", err)
	}
	return data, invoice.ContentType, nil
}
