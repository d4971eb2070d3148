package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"

	"backoffice/internal/domain"
)

// PlainTextStrategy reads the document's linear text through the PDF
// library's own plain-text extraction.
type PlainTextStrategy struct{}

// NewPlainTextStrategy creates the primary extraction strategy.
func NewPlainTextStrategy() *PlainTextStrategy {
	return &PlainTextStrategy{}
}

func (s *PlainTextStrategy) Name() domain.ExtractionStrategy {
	return domain.StrategyPrimary
}

func (s *PlainTextStrategy) ExtractText(_ context.Context, data []byte) (text string, pages int, err error) {
	defer recoverPanic("plaintext", &err)

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, fmt.Errorf("open pdf: %w", err)
	}
	rd, err := r.GetPlainText()
	if err != nil {
		return "", 0, fmt.Errorf("plain text: %w", err)
	}
	b, err := io.ReadAll(rd)
	if err != nil {
		return "", 0, fmt.Errorf("reading plain text: %w", err)
	}
	return string(b), r.NumPage(), nil
}
