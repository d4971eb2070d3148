package port

import (
	"context"

	"backoffice/internal/domain"
)

// TextExtractor abstracts PDF text extraction.
type TextExtractor interface {
	Extract(ctx context.Context, data []byte) (*domain.ExtractedText, error)
}
