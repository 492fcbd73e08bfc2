// Package extraction turns OCR text of a supplier invoice into a Record.
//
// The flow is normalize, then header extraction and item segmentation over
// the normalized text, then assembly. Nothing here performs I/O; a Pipeline
// holds only its compiled layout and may be shared between goroutines.
package extraction

import (
	"log/slog"
	"strings"
)

// Pipeline runs the extraction steps with one layout.
type Pipeline struct {
	layout     *compiledLayout
	normalizer *Normalizer
	header     *HeaderExtractor
	logger     *slog.Logger
}

// New compiles a layout into a Pipeline.
func New(layout Layout, logger *slog.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c, err := layout.compile()
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		layout:     c,
		normalizer: &Normalizer{rules: c.rules},
		header:     &HeaderExtractor{layout: c},
		logger:     logger,
	}, nil
}

// Process extracts a record from raw OCR text. Text with nothing but
// whitespace yields StatusNoText and a record holding only defaults.
func (p *Pipeline) Process(rawText string) Result {
	if strings.TrimSpace(rawText) == "" {
		return Result{
			Status: StatusNoText,
			Record: Assemble(nil, Header{PartnerName: p.layout.unknownPartner}),
		}
	}

	text := p.normalizer.Normalize(rawText)
	p.logger.Debug("normalized invoice text", "text", text)

	header := p.header.Extract(text)

	tok := newTokenizer(p.layout)
	seg := newSegmenter(p.layout)
	seg.Walk(strings.Split(text, "\n"), tok)

	record := Assemble(tok.Items(), header)
	p.logger.Debug("extracted invoice",
		"items", len(record.LineItems),
		"section_found", seg.Entered(),
		"partner", record.PartnerName,
		"date", record.InvoiceDate,
		"number", record.InvoiceNumber,
	)
	return Result{Status: StatusExtracted, Record: record}
}

// Normalize exposes the correction pass on its own.
func (p *Pipeline) Normalize(rawText string) string {
	return p.normalizer.Normalize(rawText)
}
