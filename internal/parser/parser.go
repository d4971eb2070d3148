// Package parser recovers Chilean electronic-invoice fields from extracted
// PDF text using anchor-relative line patterns.
package parser

import (
	"regexp"

	"backoffice/internal/domain"
	"backoffice/internal/normalize"
)

// mergePolicy decides what happens when a field is produced more than once.
type mergePolicy int

const (
	firstWins mergePolicy = iota
	lastWins
)

// fieldPolicy lists fields that deviate from firstWins. The grand total is
// printed after any partial totals, so the last one is kept.
var fieldPolicy = map[domain.Field]mergePolicy{
	domain.FieldTotalAmount: lastWins,
}

var amountFields = map[domain.Field]bool{
	domain.FieldNetAmount:     true,
	domain.FieldIVAAmount:     true,
	domain.FieldAdditionalTax: true,
	domain.FieldTotalAmount:   true,
}

var proseDateAnywhere = regexp.MustCompile(`(?i)\b\d{1,2}\s+de\s+[a-záéíóú]+\s+(?:del?\s+)?\d{4}\b`)

// Options configures a Parser.
type Options struct {
	// KnownIssuerRUT is the company's own RUT. When the first RUT of a
	// document equals it, the issuer assignment is confirmed.
	KnownIssuerRUT string
}

// Parser extracts invoice fields from raw text. It is stateless between
// calls and safe for concurrent use.
type Parser struct {
	knownIssuer string
}

// New creates a Parser.
func New(opts Options) *Parser {
	return &Parser{knownIssuer: normalize.CanonicalRUT(opts.KnownIssuerRUT)}
}

// Parse folds the line rules over text and then applies the whole-text rules.
// It never fails; fields that match no rule are absent from the result.
func (p *Parser) Parse(text string) domain.ParsedFields {
	fields := domain.ParsedFields{}
	lines := splitLines(text)

	sec := sectionIssuer
	var pending []domain.Field
	for i, line := range lines {
		if clientAnchor.MatchString(line) {
			sec = sectionClient
		}
		lc := lineContext{text: line, folded: fold(line), section: sec}
		if i > 0 {
			lc.prev = lines[i-1]
		}

		if len(pending) > 0 {
			merge(fields, resolvePending(pending, line))
			pending = nil
		}
		for _, rule := range lineRules {
			s := rule(lc)
			merge(fields, s)
			pending = append(pending, s.pending...)
		}
	}

	merge(fields, rutStep(text))
	merge(fields, descriptionStep(lines))
	merge(fields, issueDateFallback(text))
	merge(fields, issuerNameFallback(lines))
	return fields
}

// IssuerConfirmed reports whether the parsed issuer RUT is the configured
// company RUT.
func (p *Parser) IssuerConfirmed(fields domain.ParsedFields) bool {
	rut, ok := fields.Get(domain.FieldIssuerRUT)
	return ok && p.knownIssuer != "" && normalize.CanonicalRUT(rut) == p.knownIssuer
}

func merge(fields domain.ParsedFields, s step) {
	for f, v := range s.set {
		if _, exists := fields.Get(f); exists && fieldPolicy[f] == firstWins {
			continue
		}
		fields.Set(f, v)
	}
}

// resolvePending fills anchors left open on the previous line.
func resolvePending(pending []domain.Field, line string) step {
	s := step{set: map[domain.Field]string{}}
	for _, f := range pending {
		switch {
		case amountFields[f]:
			if isAmountOnly(line) {
				if v := trailingAmount(line); IsReasonableAmount(v) {
					s.set[f] = v
				}
			}
		case f == domain.FieldIssueDate:
			if _, ok := normalize.Date(line); ok {
				s.set[f] = line
			}
		case looksLikeName(line):
			s.set[f] = line
		}
	}
	return s
}

func issueDateFallback(text string) step {
	if d := proseDateAnywhere.FindString(text); d != "" {
		return setStep(domain.FieldIssueDate, d)
	}
	return step{}
}

// issuerNameFallback takes the first name-like line of the header when no
// "Giro:" anchor identified the issuer.
func issuerNameFallback(lines []string) step {
	for _, l := range lines {
		if clientAnchor.MatchString(l) {
			break
		}
		if looksLikeName(l) {
			return setStep(domain.FieldIssuerName, l)
		}
	}
	return step{}
}
