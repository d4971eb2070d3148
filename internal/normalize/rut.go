package normalize

import (
	"strconv"
	"strings"
)

// CanonicalRUT strips dots and spaces and uppercases the check digit so two
// spellings of the same RUT compare equal.
func CanonicalRUT(rut string) string {
	r := strings.NewReplacer(".", "", " ", "")
	return strings.ToUpper(r.Replace(strings.TrimSpace(rut)))
}

// RUTCheckDigit computes the modulo-11 verifier for the numeric body of a RUT.
func RUTCheckDigit(body string) (string, bool) {
	if body == "" {
		return "", false
	}
	sum, factor := 0, 2
	for i := len(body) - 1; i >= 0; i-- {
		d := body[i]
		if d < '0' || d > '9' {
			return "", false
		}
		sum += int(d-'0') * factor
		factor++
		if factor > 7 {
			factor = 2
		}
	}
	switch dv := 11 - sum%11; dv {
	case 11:
		return "0", true
	case 10:
		return "K", true
	default:
		return strconv.Itoa(dv), true
	}
}

// ValidRUT reports whether rut has a body and a matching check digit.
func ValidRUT(rut string) bool {
	body, dv, ok := strings.Cut(CanonicalRUT(rut), "-")
	if !ok || len(body) < 7 || len(body) > 8 {
		return false
	}
	want, ok := RUTCheckDigit(body)
	return ok && want == dv
}
