// Package extract supplies document text for the pipeline. Only
// text-layer PDFs are supported: a document with no extractable text
// (typically a scan) is a distinct, non-retryable condition surfaced as
// common.ErrNoExtractableText, never an empty string.
package extract

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"

	"github.com/ozanyurtsever/labsense/internal/common"
)

// TextExtractionResult is the outcome of one document read.
type TextExtractionResult struct {
	Text     string
	Pages    int
	Duration time.Duration
}

// TextExtractor is the document text source: file -> plain text.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (TextExtractionResult, error)
}

// PDFExtractor reads the embedded text layer of a PDF.
type PDFExtractor struct {
	log *slog.Logger
}

func NewPDFExtractor(logger *slog.Logger) *PDFExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &PDFExtractor{log: logger}
}

func (e *PDFExtractor) Extract(_ context.Context, path string) (TextExtractionResult, error) {
	start := time.Now()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return TextExtractionResult{}, fmt.Errorf("open pdf: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			e.log.Warn("extract.pdf.close_error", "path", path, "error", cerr)
		}
	}()

	plain, err := reader.GetPlainText()
	if err != nil {
		return TextExtractionResult{}, fmt.Errorf("read pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return TextExtractionResult{}, fmt.Errorf("read pdf text: %w", err)
	}

	res := TextExtractionResult{
		Text:     buf.String(),
		Pages:    reader.NumPage(),
		Duration: time.Since(start),
	}
	if strings.TrimSpace(res.Text) == "" {
		e.log.Warn("extract.pdf.no_text", "path", path, "pages", res.Pages)
		return res, common.ErrNoExtractableText
	}

	e.log.Info("extract.pdf.ok",
		"path", path,
		"pages", res.Pages,
		"text_len", len(res.Text),
		"elapsed_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}
