package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice/internal/domain"
)

type stubStrategy struct {
	name  domain.ExtractionStrategy
	text  string
	pages int
	err   error
	calls int
}

func (s *stubStrategy) Name() domain.ExtractionStrategy { return s.name }

func (s *stubStrategy) ExtractText(_ context.Context, _ []byte) (string, int, error) {
	s.calls++
	return s.text, s.pages, s.err
}

var pdfBytes = []byte("%PDF-1.4 test")

func TestChain_PrimarySucceeds(t *testing.T) {
	primary := &stubStrategy{name: domain.StrategyPrimary, text: "FACTURA", pages: 1}
	fallback := &stubStrategy{name: domain.StrategyFallback, text: "other"}

	out, err := NewChain(nil, primary, fallback).Extract(context.Background(), pdfBytes)
	require.NoError(t, err)
	assert.Equal(t, "FACTURA", out.Text)
	assert.Equal(t, domain.StrategyPrimary, out.Strategy)
	assert.Equal(t, 1, out.Pages)
	assert.Zero(t, fallback.calls)
}

func TestChain_FallbackOnError(t *testing.T) {
	primary := &stubStrategy{name: domain.StrategyPrimary, err: errors.New("malformed xref")}
	fallback := &stubStrategy{name: domain.StrategyFallback, text: "TOTAL $1.000", pages: 2}

	out, err := NewChain(nil, primary, fallback).Extract(context.Background(), pdfBytes)
	require.NoError(t, err)
	assert.Equal(t, domain.StrategyFallback, out.Strategy)
	assert.Equal(t, "TOTAL $1.000", out.Text)
}

func TestChain_FallbackOnBlankText(t *testing.T) {
	primary := &stubStrategy{name: domain.StrategyPrimary, text: "  \n\t "}
	fallback := &stubStrategy{name: domain.StrategyFallback, text: "NETO 100"}

	out, err := NewChain(nil, primary, fallback).Extract(context.Background(), pdfBytes)
	require.NoError(t, err)
	assert.Equal(t, domain.StrategyFallback, out.Strategy)
}

func TestChain_AllFail(t *testing.T) {
	primary := &stubStrategy{name: domain.StrategyPrimary, err: errors.New("boom")}
	fallback := &stubStrategy{name: domain.StrategyFallback, text: ""}

	out, err := NewChain(nil, primary, fallback).Extract(context.Background(), pdfBytes)
	assert.Nil(t, out)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTextExtraction)

	var noText *NoTextError
	assert.ErrorAs(t, err, &noText)
	assert.ErrorIs(t, err, errBlankText)
}

func TestChain_EmptyPayload(t *testing.T) {
	primary := &stubStrategy{name: domain.StrategyPrimary, text: "x"}

	_, err := NewChain(nil, primary).Extract(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrTextExtraction)
	assert.Zero(t, primary.calls)
}

func TestChain_NoStrategies(t *testing.T) {
	_, err := NewChain(nil).Extract(context.Background(), pdfBytes)
	assert.ErrorIs(t, err, domain.ErrTextExtraction)
}

func TestChain_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	primary := &stubStrategy{name: domain.StrategyPrimary, text: "x"}

	_, err := NewChain(nil, primary).Extract(ctx, pdfBytes)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, primary.calls)
}

func TestStrategies_RejectGarbage(t *testing.T) {
	garbage := []byte("not a pdf at all")

	_, _, err := NewPlainTextStrategy().ExtractText(context.Background(), garbage)
	assert.Error(t, err)

	_, _, err = NewLayoutStrategy(false).ExtractText(context.Background(), garbage)
	assert.Error(t, err)
}

func TestDefaultChain_GarbageIsExtractionError(t *testing.T) {
	_, err := NewDefaultChain(nil, true).Extract(context.Background(), []byte("%PDF-1.4\ngarbage"))
	assert.ErrorIs(t, err, domain.ErrTextExtraction)
}

func TestLayoutRuns(t *testing.T) {
	runs := []pdf.Text{
		{S: "$178.500", X: 300, Y: 100, W: 40},
		{S: "TOTAL", X: 50, Y: 100.5, W: 30},
		{S: "FACTURA", X: 50, Y: 700, W: 40},
		{S: "N°", X: 95, Y: 700, W: 10},
		{S: "4521", X: 106, Y: 701, W: 20},
		{S: "MONTO NETO", X: 50, Y: 120, W: 60},
		{S: "$150.000", X: 300, Y: 120, W: 40},
	}

	got := layoutRuns(runs, defaultRowTolerance)
	assert.Equal(t, "FACTURA N°4521\nMONTO NETO $150.000\nTOTAL $178.500", got)
}

func TestLayoutRuns_Empty(t *testing.T) {
	assert.Equal(t, "", layoutRuns(nil, defaultRowTolerance))
}

func TestJoinLine_AdjacentGlyphs(t *testing.T) {
	line := []pdf.Text{
		{S: "b", X: 10, W: 5},
		{S: "a", X: 5, W: 5},
		{S: "c", X: 15, W: 5},
	}
	assert.Equal(t, "abc", joinLine(line))
}
