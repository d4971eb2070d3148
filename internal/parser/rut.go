package parser

import (
	"regexp"

	"backoffice/internal/domain"
)

// rutPattern matches a Chilean RUT with or without thousands dots:
// 77.567.635-3, 7.654.321-K, 76123456-7.
var rutPattern = regexp.MustCompile(`\b(?:\d{1,2}\.\d{3}\.\d{3}|\d{7,8})-[\dkK]\b`)

// rutStep assigns issuer and client RUTs from every match in document order.
// Documents list the issuer first, so the first match is the issuer and the
// second the client, even when both are the same RUT; a lone RUT is the
// issuer's.
func rutStep(text string) step {
	ruts := rutPattern.FindAllString(text, -1)
	switch {
	case len(ruts) == 0:
		return step{}
	case len(ruts) == 1:
		return setStep(domain.FieldIssuerRUT, ruts[0])
	default:
		return step{set: map[domain.Field]string{
			domain.FieldIssuerRUT: ruts[0],
			domain.FieldClientRUT: ruts[1],
		}}
	}
}
