package parser

import (
	"strings"

	"backoffice/internal/domain"
)

const (
	maxDescriptionLines = 2
	// descriptionWindow limits how far below the table header the item text
	// may start.
	descriptionWindow = 8
)

func isTableHeader(folded string) bool {
	return strings.Contains(folded, "descripcion") &&
		(strings.Contains(folded, "codigo") || strings.Contains(folded, "cantidad"))
}

func isTotalsLine(folded string) bool {
	return netAnchor.MatchString(folded) || ivaAnchor.MatchString(folded) ||
		totalAnchor.MatchString(folded) || additionalAnchor.MatchString(folded)
}

// descriptionStep takes the one or two item lines that follow the table
// header, skipping currency and amount lines.
func descriptionStep(lines []string) step {
	header := -1
	for i, l := range lines {
		if isTableHeader(fold(l)) {
			header = i
			break
		}
	}
	if header < 0 {
		return step{}
	}

	var picked []string
	end := min(len(lines), header+1+descriptionWindow)
	for _, l := range lines[header+1 : end] {
		f := fold(l)
		if isTotalsLine(f) {
			break
		}
		if strings.Contains(l, "$") || strings.Contains(f, "monto") || isAmountOnly(l) {
			continue
		}
		picked = append(picked, l)
		if len(picked) == maxDescriptionLines {
			break
		}
	}
	if len(picked) == 0 {
		return step{}
	}
	return setStep(domain.FieldDescription, strings.Join(picked, " "))
}
