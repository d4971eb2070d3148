package parser

import (
	"regexp"
	"strings"

	"backoffice/internal/domain"
)

// section is the part of the document a line belongs to. Issuer data comes
// first; the "SEÑOR(ES):" anchor opens the client block.
type section int

const (
	sectionIssuer section = iota
	sectionClient
)

// lineContext is the read-only view a rule gets of the current line.
type lineContext struct {
	text    string // original line
	folded  string // lowercased, accent-free line
	prev    string // previous non-empty line, original form
	section section
}

// step is the partial update produced by a rule for one line.
type step struct {
	set map[domain.Field]string
	// pending lists fields whose anchor was found without a value; the
	// value is expected on the next line.
	pending []domain.Field
}

func setStep(f domain.Field, v string) step {
	return step{set: map[domain.Field]string{f: v}}
}

type lineRule func(lc lineContext) step

var (
	clientAnchor   = regexp.MustCompile(`(?i)se[nñ]or(?:\(es\)|es|a)?\s*:\s*(.*)`)
	giroAnchor     = regexp.MustCompile(`(?i)^(.*?)\s*\bgiro\s*:`)
	addressAnchor  = regexp.MustCompile(`(?i)direcci[oó]n\s*:\s*(.+)`)
	cityAnchor     = regexp.MustCompile(`(?i)ciudad\s*:\s*(.+)`)
	emailPattern   = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	invoiceNumber  = regexp.MustCompile(`(?i)^(?:factura(?:\s+electr[oó]nica)?\s*)?(?:n[º°o]|folio)\.?\s*:?\s*(\d{1,12})\s*$`)
	issueDate      = regexp.MustCompile(`(?i)fecha\s+(?:de\s+)?emisi[oó]n\s*:?\s*(.*)`)
	contractNumber = regexp.MustCompile(`(?i)contrato\s*(?:n[º°o]\.?\s*)?:?\s*([a-z0-9][a-z0-9\-/.]*)`)
	paymentMethod  = regexp.MustCompile(`(?i)(?:forma|medio|condici[oó]n)\s+de\s+pago\s*:?\s*(.*)`)
	estadoDePago   = regexp.MustCompile(`(?i)^estado\s+de\s+pago\b.*$`)
	hasDigit       = regexp.MustCompile(`\d`)

	// moneyTail matches a line ending in a currency amount: "$150.000" or
	// "28.500". A bare trailing number such as "Constructora 2000" is not money.
	moneyTail = regexp.MustCompile(`(?:\$\s*\d[\d.,]*|\d{1,3}(?:\.\d{3})+(?:,\d+)?)\s*$`)

	// Amount anchors run against the folded line.
	netAnchor        = regexp.MustCompile(`^(?:monto\s+)?neto\b`)
	ivaAnchor        = regexp.MustCompile(`^(?:monto\s+)?i\.?\s?v\.?\s?a\.?(?:\s|\d|\$|:|\(|$)`)
	ivaPercent       = regexp.MustCompile(`(\d{1,2}(?:[.,]\d{1,2})?)\s*%`)
	additionalAnchor = regexp.MustCompile(`^(?:monto\s+)?imp(?:uesto|\.)?\s+adicional\b`)
	totalAnchor      = regexp.MustCompile(`^(?:monto\s+)?total\b`)
)

// maxEstadoDePagoLen bounds a single-line "Estado de pago" description.
const maxEstadoDePagoLen = 150

// lineRules run on every line in order; their updates are merged using
// fieldPolicy.
var lineRules = []lineRule{
	issuerNameRule,
	addressRule,
	emailRule,
	clientNameRule,
	cityRule,
	invoiceNumberRule,
	issueDateRule,
	contractRule,
	paymentRule,
	estadoDePagoRule,
	netRule,
	ivaRule,
	additionalTaxRule,
	totalRule,
}

func issuerNameRule(lc lineContext) step {
	if lc.section != sectionIssuer {
		return step{}
	}
	m := giroAnchor.FindStringSubmatch(lc.text)
	if m == nil {
		return step{}
	}
	if name := strings.TrimSpace(m[1]); looksLikeName(name) {
		return setStep(domain.FieldIssuerName, name)
	}
	if looksLikeName(lc.prev) {
		return setStep(domain.FieldIssuerName, lc.prev)
	}
	return step{}
}

func addressRule(lc lineContext) step {
	m := addressAnchor.FindStringSubmatch(lc.text)
	if m == nil {
		return step{}
	}
	field := domain.FieldIssuerAddress
	if lc.section == sectionClient {
		field = domain.FieldClientAddress
	}
	return setStep(field, cutTrailingLabel(m[1]))
}

func emailRule(lc lineContext) step {
	if lc.section != sectionIssuer {
		return step{}
	}
	if e := emailPattern.FindString(lc.text); e != "" {
		return setStep(domain.FieldIssuerEmail, e)
	}
	return step{}
}

func clientNameRule(lc lineContext) step {
	m := clientAnchor.FindStringSubmatch(lc.text)
	if m == nil {
		return step{}
	}
	name := cutTrailingLabel(m[1])
	if name == "" {
		return step{pending: []domain.Field{domain.FieldClientName}}
	}
	return setStep(domain.FieldClientName, name)
}

func cityRule(lc lineContext) step {
	if lc.section != sectionClient {
		return step{}
	}
	m := cityAnchor.FindStringSubmatch(lc.text)
	if m == nil {
		return step{}
	}
	return setStep(domain.FieldClientCity, cutTrailingLabel(m[1]))
}

func invoiceNumberRule(lc lineContext) step {
	m := invoiceNumber.FindStringSubmatch(lc.text)
	if m == nil {
		return step{}
	}
	return setStep(domain.FieldInvoiceNumber, m[1])
}

// labelValue returns the text after a "Label:" anchor, or a pending step for
// field when the label stands alone and the value is on the next line.
func labelValue(field domain.Field, raw string) step {
	v := cutTrailingLabel(strings.TrimLeft(raw, ": "))
	if v == "" {
		return step{pending: []domain.Field{field}}
	}
	return setStep(field, v)
}

func issueDateRule(lc lineContext) step {
	m := issueDate.FindStringSubmatch(lc.text)
	if m == nil {
		return step{}
	}
	return labelValue(domain.FieldIssueDate, m[1])
}

func contractRule(lc lineContext) step {
	m := contractNumber.FindStringSubmatch(lc.text)
	if m == nil || !hasDigit.MatchString(m[1]) {
		return step{}
	}
	return setStep(domain.FieldContractNumber, strings.TrimRight(m[1], "."))
}

func paymentRule(lc lineContext) step {
	m := paymentMethod.FindStringSubmatch(lc.text)
	if m == nil {
		return step{}
	}
	return labelValue(domain.FieldPaymentMethod, m[1])
}

func estadoDePagoRule(lc lineContext) step {
	if !estadoDePago.MatchString(lc.text) || runeLen(lc.text) > maxEstadoDePagoLen {
		return step{}
	}
	return setStep(domain.FieldDescription, lc.text)
}

// amountStep captures the trailing amount of an anchor line, or marks the
// field pending when the value sits on the next line.
func amountStep(field domain.Field, line string) step {
	v := trailingAmount(line)
	if v == "" {
		return step{pending: []domain.Field{field}}
	}
	if !IsReasonableAmount(v) {
		return step{}
	}
	return setStep(field, v)
}

func netRule(lc lineContext) step {
	if !netAnchor.MatchString(lc.folded) {
		return step{}
	}
	return amountStep(domain.FieldNetAmount, lc.text)
}

func ivaRule(lc lineContext) step {
	if !ivaAnchor.MatchString(lc.folded) {
		return step{}
	}
	// Drop the rate before looking for the trailing amount so "I.V.A. 19%"
	// alone is read as a pending anchor, not as an amount of 19.
	rest := lc.text
	var pct string
	if loc := ivaPercent.FindStringSubmatchIndex(rest); loc != nil {
		pct = rest[loc[2]:loc[3]]
		rest = rest[loc[1]:]
	}
	s := amountStep(domain.FieldIVAAmount, rest)
	if pct != "" {
		if s.set == nil {
			s.set = map[domain.Field]string{}
		}
		s.set[domain.FieldIVAPercentage] = pct
	}
	return s
}

func additionalTaxRule(lc lineContext) step {
	if !additionalAnchor.MatchString(lc.folded) {
		return step{}
	}
	rest := lc.text
	if loc := ivaPercent.FindStringIndex(rest); loc != nil {
		rest = rest[loc[1]:]
	}
	return amountStep(domain.FieldAdditionalTax, rest)
}

func totalRule(lc lineContext) step {
	if !totalAnchor.MatchString(lc.folded) {
		return step{}
	}
	if strings.Contains(lc.folded, "neto") || strings.Contains(lc.folded, "exento") {
		return step{}
	}
	return amountStep(domain.FieldTotalAmount, lc.text)
}

// looksLikeName reports whether line can plausibly be a company or person
// name rather than a label, identifier or amount.
func looksLikeName(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" || strings.Contains(line, ":") || isAmountOnly(line) || rutPattern.MatchString(line) {
		return false
	}
	f := fold(line)
	if strings.Contains(f, "factura") || strings.Contains(f, "r.u.t") {
		return false
	}
	if isTotalsLine(f) || moneyTail.MatchString(line) {
		return false
	}
	letters := 0
	for _, r := range f {
		if r >= 'a' && r <= 'z' {
			letters++
		}
	}
	return letters >= 3
}
