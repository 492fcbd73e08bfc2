package scanning

import (
	"context"
	"errors"
)

// ErrNoText is returned when a recognizer ran but found nothing legible.
var ErrNoText = errors.New("no text recognized")

// Recognizer turns an invoice image into raw multi-line text.
type Recognizer interface {
	// RecognizeText reads imageData (JPEG, PNG, GIF, HEIC or PDF) and returns its text
	RecognizeText(ctx context.Context, imageData []byte, contentType string) (string, error)
	// Close releases resources held by the recognizer
	Close() error
}
