package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var spanishMonths = map[string]int{
	"enero":      1,
	"febrero":    2,
	"marzo":      3,
	"abril":      4,
	"mayo":       5,
	"junio":      6,
	"julio":      7,
	"agosto":     8,
	"septiembre": 9,
	"setiembre":  9,
	"octubre":    10,
	"noviembre":  11,
	"diciembre":  12,
}

var (
	proseDate   = regexp.MustCompile(`(?i)(\d{1,2})\s+de\s+([a-záéíóú]+)\s+(?:del?\s+)?(\d{4})`)
	numericDate = regexp.MustCompile(`\b(\d{1,2})[-/.](\d{1,2})[-/.](\d{4})\b`)
	isoDate     = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
)

// Date converts "15 de marzo del 2024", "15-03-2024", "15/03/2024" or
// "2024-03-15" into YYYY-MM-DD. Anything else, including impossible calendar
// dates, reports false.
func Date(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}

	if m := proseDate.FindStringSubmatch(s); m != nil {
		month, ok := spanishMonths[strings.ToLower(m[2])]
		if !ok {
			return "", false
		}
		return calendarDate(m[3], month, m[1])
	}
	if m := isoDate.FindStringSubmatch(s); m != nil {
		month, _ := strconv.Atoi(m[2])
		return calendarDate(m[1], month, m[3])
	}
	if m := numericDate.FindStringSubmatch(s); m != nil {
		month, _ := strconv.Atoi(m[2])
		return calendarDate(m[3], month, m[1])
	}
	return "", false
}

func calendarDate(year string, month int, day string) (string, bool) {
	y, err := strconv.Atoi(year)
	if err != nil {
		return "", false
	}
	d, err := strconv.Atoi(day)
	if err != nil {
		return "", false
	}
	iso := fmt.Sprintf("%04d-%02d-%02d", y, month, d)
	if _, err := time.Parse(time.DateOnly, iso); err != nil {
		return "", false
	}
	return iso, true
}
