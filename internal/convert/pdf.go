// Package convert renders source documents to plain text for downstream
// field extraction. Layout inference is fully delegated to the PDF library;
// nothing here inspects document structure.
package convert

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ledongthuc/pdf"
)

// Converter is the document-conversion seam the pipeline depends on.
type Converter interface {
	Convert(ctx context.Context, path string) (string, error)
}

// PDFConverter extracts plain text from PDF files.
type PDFConverter struct {
	logger *slog.Logger
}

func NewPDFConverter(logger *slog.Logger) *PDFConverter {
	if logger == nil {
		logger = slog.Default()
	}
	return &PDFConverter{logger: logger}
}

// Convert reads the whole document and returns its plain-text rendering.
// An encrypted, malformed, or image-only PDF surfaces as an error; callers
// skip the file and continue.
func (c *PDFConverter) Convert(ctx context.Context, path string) (string, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return "", err
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	reader, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(reader); err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}

	text := buf.String()
	if len(bytes.TrimSpace(buf.Bytes())) == 0 {
		return "", fmt.Errorf("pdf produced no text (scanned image?): %s", path)
	}

	c.logger.Debug("convert.pdf.ok",
		"path", path,
		"pages", r.NumPage(),
		"chars", len(text),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return text, nil
}
