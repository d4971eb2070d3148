package extract

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"backoffice/internal/domain"
)

const (
	defaultRowTolerance = 2.0 // points of Y drift still considered the same line
	minSpaceGap         = 1.0 // points of horizontal gap that become a space
)

// LayoutStrategy rebuilds reading order from positioned text runs: runs are
// ordered top-to-bottom, grouped into lines and read left-to-right.
type LayoutStrategy struct {
	repair       bool
	rowTolerance float64
}

// NewLayoutStrategy creates the fallback strategy. With repair set, the
// buffer is first rewritten by pdfcpu in relaxed mode, which rebuilds broken
// cross-reference tables written by non-standard producers.
func NewLayoutStrategy(repair bool) *LayoutStrategy {
	return &LayoutStrategy{repair: repair, rowTolerance: defaultRowTolerance}
}

func (s *LayoutStrategy) Name() domain.ExtractionStrategy {
	return domain.StrategyFallback
}

func (s *LayoutStrategy) ExtractText(ctx context.Context, data []byte) (text string, pages int, err error) {
	defer recoverPanic("layout", &err)

	buf := data
	if s.repair {
		if fixed, rerr := repairPDF(data); rerr == nil {
			buf = fixed
		}
	}

	r, err := pdf.NewReader(bytes.NewReader(buf), int64(len(buf)))
	if err != nil {
		return "", 0, fmt.Errorf("open pdf: %w", err)
	}

	var out strings.Builder
	pages = r.NumPage()
	for i := 1; i <= pages; i++ {
		if err := ctx.Err(); err != nil {
			return "", 0, err
		}
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		pageText := layoutRuns(p.Content().Text, s.rowTolerance)
		if pageText == "" {
			continue
		}
		if out.Len() > 0 {
			out.WriteString("\n\n")
		}
		out.WriteString(pageText)
	}
	return out.String(), pages, nil
}

// layoutRuns orders runs by descending Y (PDF user space grows upward), groups
// runs within tol of the line's first Y, and joins each line left-to-right.
func layoutRuns(runs []pdf.Text, tol float64) string {
	if len(runs) == 0 {
		return ""
	}
	sorted := make([]pdf.Text, len(runs))
	copy(sorted, runs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y > sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	var lines []string
	start := 0
	for i := 1; i <= len(sorted); i++ {
		if i < len(sorted) && math.Abs(sorted[start].Y-sorted[i].Y) <= tol {
			continue
		}
		if l := joinLine(sorted[start:i]); l != "" {
			lines = append(lines, l)
		}
		start = i
	}
	return strings.Join(lines, "\n")
}

func joinLine(runs []pdf.Text) string {
	line := make([]pdf.Text, len(runs))
	copy(line, runs)
	sort.SliceStable(line, func(i, j int) bool { return line[i].X < line[j].X })

	var b strings.Builder
	for i, t := range line {
		if i > 0 {
			prev := line[i-1]
			gap := t.X - (prev.X + prev.W)
			if gap > minSpaceGap && !strings.HasSuffix(prev.S, " ") && !strings.HasPrefix(t.S, " ") {
				b.WriteByte(' ')
			}
		}
		b.WriteString(t.S)
	}
	return strings.TrimSpace(b.String())
}

func repairPDF(data []byte) (fixed []byte, err error) {
	defer recoverPanic("pdfcpu", &err)

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	var out bytes.Buffer
	if err := api.Optimize(bytes.NewReader(data), &out, conf); err != nil {
		return nil, fmt.Errorf("pdfcpu optimize: %w", err)
	}
	return out.Bytes(), nil
}
