package extraction

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	fullDatePattern  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	yearMonthPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)
	yearPattern      = regexp.MustCompile(`^\d{4}$`)
)

// NormalizeDate maps YYYY-MM-DD, YYYY-MM and YYYY to a full YYYY-MM-DD date.
// Every other input, including impossible calendar dates, yields nil.
func NormalizeDate(s string) *string {
	s = strings.TrimSpace(s)
	var out string
	switch {
	case fullDatePattern.MatchString(s):
		if _, err := time.Parse(time.DateOnly, s); err != nil {
			return nil
		}
		out = s
	case yearMonthPattern.MatchString(s):
		month, _ := strconv.Atoi(s[5:])
		if month < 1 || month > 12 {
			return nil
		}
		out = s + "-01"
	case yearPattern.MatchString(s):
		out = s + "-01-01"
	default:
		return nil
	}
	return &out
}

// NormalizeDatePtr applies NormalizeDate to an optional value.
func NormalizeDatePtr(s *string) *string {
	if s == nil {
		return nil
	}
	return NormalizeDate(*s)
}
