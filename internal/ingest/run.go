package ingest

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/zombor/invoice-ocr/internal/invoice"
)

// Processor is the part of the invoice service ingestion needs
type Processor interface {
	ProcessInvoice(ctx context.Context, filename string, data []byte, contentType string) (*invoice.Invoice, error)
}

// Stats counts what Run did with the files it received
type Stats struct {
	Processed int
	NoText    int
	Failed    int
}

var contentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".pdf":  "application/pdf",
	".heic": "image/heic",
	".heif": "image/heif",
}

// Run processes every path received until paths is closed or ctx is done.
// A file without text is a warning; other failures are logged and counted
// without stopping the loop.
func Run(ctx context.Context, paths <-chan string, processor Processor, logger *slog.Logger) Stats {
	if logger == nil {
		logger = slog.Default()
	}

	var stats Stats
	for {
		select {
		case <-ctx.Done():
			return stats
		case path, ok := <-paths:
			if !ok {
				return stats
			}
			processFile(ctx, path, processor, logger, &stats)
		}
	}
}

func processFile(ctx context.Context, path string, processor Processor, logger *slog.Logger, stats *Stats) {
	data, err := os.ReadFile(path)
	if err != nil {
		stats.Failed++
		logger.Error("reading invoice file", "path", path, "error", err)
		return
	}

	contentType := contentTypes[strings.ToLower(filepath.Ext(path))]
	inv, err := processor.ProcessInvoice(ctx, filepath.Base(path), data, contentType)
	switch {
	case errors.Is(err, invoice.ErrNoTextExtracted):
		stats.NoText++
		logger.Warn("no text extracted from invoice", "path", path)
	case err != nil:
		stats.Failed++
		logger.Error("processing invoice file", "path", path, "error", err)
	default:
		stats.Processed++
		logger.Info("ingested invoice",
			"path", path,
			"id", inv.ID,
			"items", len(inv.Record.LineItems),
		)
	}
}
