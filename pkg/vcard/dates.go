package vcard

import (
	"strconv"

	"github.com/kithhq/kith/pkg/fact"
)

// parseCalendarDate accepts YYYY-MM-DD or YYYYMMDD. Year-omitted forms
// (--MMDD) are not dates at all — ok is false and the caller skips the
// property silently, per §4.2.1.
func parseCalendarDate(s string) (d fact.CalendarDate, ok bool) {
	if len(s) >= 2 && s[0] == '-' && s[1] == '-' {
		return fact.CalendarDate{}, false
	}

	var digits string
	switch {
	case len(s) == 10 && s[4] == '-' && s[7] == '-':
		digits = s[0:4] + s[5:7] + s[8:10]
	case len(s) == 8:
		digits = s
	default:
		return fact.CalendarDate{}, false
	}

	year, err := strconv.Atoi(digits[0:4])
	if err != nil {
		return fact.CalendarDate{}, false
	}
	month, err := strconv.Atoi(digits[4:6])
	if err != nil {
		return fact.CalendarDate{}, false
	}
	day, err := strconv.Atoi(digits[6:8])
	if err != nil {
		return fact.CalendarDate{}, false
	}
	return fact.CalendarDate{Year: year, Month: month, Day: day}, true
}

func pad2(n int) string {
	s := strconv.Itoa(n)
	if len(s) < 2 {
		return "0" + s
	}
	return s
}

func pad4(n int) string {
	s := strconv.Itoa(n)
	for len(s) < 4 {
		s = "0" + s
	}
	return s
}
