// Package tesseract is the offline Recognizer. It links libtesseract through
// cgo, so it lives apart from the HTTP based recognizers.
package tesseract

import (
	"bytes"
	"context"
	"fmt"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"

	"github.com/zombor/invoice-ocr/internal/scanning"
)

// Config holds the local OCR settings
type Config struct {
	// Language is the trained data to load, "fra" for the French invoices
	Language string
	// TessdataPrefix overrides the directory holding the .traineddata files
	TessdataPrefix string
	// MinHeight upscales photos shorter than this many pixels before OCR
	MinHeight int
}

// Tesseract implements scanning.Recognizer with a local libtesseract
type Tesseract struct {
	cfg Config
}

var _ scanning.Recognizer = (*Tesseract)(nil)

// New creates a new Tesseract Recognizer instance
func New(cfg Config) *Tesseract {
	if cfg.Language == "" {
		cfg.Language = "fra"
	}
	if cfg.MinHeight <= 0 {
		cfg.MinHeight = 2000
	}
	return &Tesseract{cfg: cfg}
}

// RecognizeText runs OCR over a preprocessed copy of the image
func (t *Tesseract) RecognizeText(ctx context.Context, imageData []byte, contentType string) (string, error) {
	img, err := scanning.DecodeImage(imageData, contentType)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, scanning.Preprocess(img, t.cfg.MinHeight), imaging.PNG); err != nil {
		return "", fmt.Errorf("encoding preprocessed image: %w", err)
	}

	// libtesseract cannot be interrupted once started
	if err := ctx.Err(); err != nil {
		return "", err
	}

	// A client is not safe for concurrent use
	client := gosseract.NewClient()
	defer client.Close()

	if t.cfg.TessdataPrefix != "" {
		client.SetTessdataPrefix(t.cfg.TessdataPrefix)
	}
	if err := client.SetLanguage(t.cfg.Language); err != nil {
		return "", fmt.Errorf("setting tesseract language: %w", err)
	}
	if err := client.SetPageSegMode(gosseract.PSM_AUTO); err != nil {
		return "", fmt.Errorf("setting page segmentation mode: %w", err)
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", fmt.Errorf("loading image into tesseract: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("running tesseract: %w", err)
	}

	text = scanning.CleanTranscript(text)
	if text == "" {
		return "", scanning.ErrNoText
	}
	return text, nil
}

// Close is a no-op; clients are released after each call
func (t *Tesseract) Close() error {
	return nil
}
