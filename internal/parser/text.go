package parser

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// trailingLabel matches a second "Label:" that shares a line with the value
	// being captured, e.g. "CLIENTE S.A.   GIRO: OBRAS".
	trailingLabel = regexp.MustCompile(`\s+\p{L}[\p{L}.()]{2,}\s*:.*$`)
	amountOnly    = regexp.MustCompile(`^\$?\s*\d[\d.,]*$`)
	lineAmount    = regexp.MustCompile(`\$?\s*(\d[\d.,]*)\s*$`)
)

// fold lowercases s and strips diacritics so anchors match regardless of
// accents ("Emisión" and "EMISION" fold to "emision").
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return strings.ToLower(out)
}

// splitLines returns the trimmed, non-empty lines of text.
func splitLines(text string) []string {
	raw := strings.FieldsFunc(text, func(r rune) bool { return r == '\n' || r == '\r' || r == '\f' })
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.Join(strings.Fields(l), " ")
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

func cutTrailingLabel(v string) string {
	return strings.TrimSpace(trailingLabel.ReplaceAllString(v, ""))
}

func isAmountOnly(line string) bool {
	return amountOnly.MatchString(strings.TrimSpace(line))
}

// trailingAmount returns the amount token at the end of line, if any.
func trailingAmount(line string) string {
	m := lineAmount.FindStringSubmatch(line)
	if m == nil {
		return ""
	}
	return strings.TrimRight(m[1], ".,")
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
