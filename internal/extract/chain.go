// Package extract turns PDF bytes into linear text, falling back from the
// library's plain-text reader to a geometric reconstruction of text runs.
package extract

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"backoffice/internal/domain"
)

// Strategy extracts text from a PDF buffer. Implementations must not modify
// data.
type Strategy interface {
	Name() domain.ExtractionStrategy
	ExtractText(ctx context.Context, data []byte) (text string, pages int, err error)
}

// Chain tries strategies in order and returns the first non-blank text.
// It implements port.TextExtractor.
type Chain struct {
	strategies []Strategy
	logger     *zap.Logger
}

// NewChain creates a Chain from an ordered list of strategies.
func NewChain(logger *zap.Logger, strategies ...Strategy) *Chain {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Chain{strategies: strategies, logger: logger}
}

// NewDefaultChain builds the primary plain-text strategy followed by the
// layout fallback.
func NewDefaultChain(logger *zap.Logger, repair bool) *Chain {
	return NewChain(logger, NewPlainTextStrategy(), NewLayoutStrategy(repair))
}

func (c *Chain) Extract(ctx context.Context, data []byte) (*domain.ExtractedText, error) {
	if len(data) == 0 {
		return nil, &NoTextError{Err: errors.New("empty pdf payload")}
	}

	var lastErr error
	for _, s := range c.strategies {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text, pages, err := s.ExtractText(ctx, data)
		if err == nil && strings.TrimSpace(text) == "" {
			err = errBlankText
		}
		if err != nil {
			c.logger.Warn("extract.Chain: strategy failed",
				zap.String("strategy", string(s.Name())), zap.Error(err))
			lastErr = err
			continue
		}

		c.logger.Debug("extract.Chain: text extracted",
			zap.String("strategy", string(s.Name())),
			zap.Int("pages", pages), zap.Int("chars", len(text)))
		return &domain.ExtractedText{Text: text, Strategy: s.Name(), Pages: pages}, nil
	}

	if lastErr == nil {
		lastErr = errors.New("no extraction strategies configured")
	}
	return nil, &NoTextError{Err: fmt.Errorf("all strategies failed: %w", lastErr)}
}
