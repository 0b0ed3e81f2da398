package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	reISOPrefix = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})[T ]`)
	reNumeric   = regexp.MustCompile(`^(\d{1,4})([/.\-])(\d{1,2})([/.\-])(\d{2,4})$`)
	reOrdinal   = regexp.MustCompile(`(?i)(\d{1,2})(st|nd|rd|th)\b`)
	reAbbrevDot = regexp.MustCompile(`([A-Za-z]{3,})\.`)
	reWeekday   = regexp.MustCompile(`(?i)^(mon|tue|tues|wed|thu|thur|thurs|fri|sat|sun)(day|nesday|rsday|urday)?\b,?\s*`)
	reSpaces    = regexp.MustCompile(`\s+`)
)

// textual layouts tried after cleanup (commas removed, single spaces).
var dateLayouts = []string{
	"January 2 2006",
	"Jan 2 2006",
	"2 January 2006",
	"2 Jan 2006",
	"02-Jan-2006",
	"2-Jan-2006",
	"02-Jan-06",
	"2 Jan 06",
	"Jan-02-2006",
	"2006 January 2",
	"2006 Jan 2",
}

// ParseDate converts a human date into canonical form. Numeric dates separated by
// "/" or "-" are month-first unless dayFirst; dotted dates are always day-first.
func ParseDate(s string, dayFirst bool) (Date, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if m := reISOPrefix.FindStringSubmatch(s); m != nil {
		s = m[1]
	}
	if m := reNumeric.FindStringSubmatch(s); m != nil {
		return parseNumeric(m, dayFirst)
	}

	clean := reWeekday.ReplaceAllString(s, "")
	clean = reOrdinal.ReplaceAllString(clean, "$1")
	clean = reAbbrevDot.ReplaceAllString(clean, "$1")
	clean = strings.ReplaceAll(clean, ",", " ")
	clean = strings.ReplaceAll(clean, "/", " ")
	clean = reSpaces.ReplaceAllString(strings.TrimSpace(clean), " ")
	clean = strings.Replace(strings.ToLower(clean), "sept ", "sep ", 1)

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, clean); err == nil {
			return Date(t.Format(dateLayout)), true
		}
	}
	return "", false
}

func parseNumeric(m []string, dayFirst bool) (Date, bool) {
	a, _ := strconv.Atoi(m[1])
	b, _ := strconv.Atoi(m[3])
	c, _ := strconv.Atoi(m[5])
	if m[2] != m[4] {
		return "", false
	}

	var year, month, day int
	switch {
	case len(m[1]) == 4: // 2024-03-10, 2024/03/10
		year, month, day = a, b, c
	case len(m[5]) == 3:
		return "", false
	default:
		year = c
		if len(m[5]) == 2 {
			year += 2000
		}
		switch {
		case m[2] == ".":
			day, month = a, b
		case a > 12 && b <= 12:
			day, month = a, b
		case b > 12 && a <= 12:
			month, day = a, b
		case dayFirst:
			day, month = a, b
		default:
			month, day = a, b
		}
	}
	return makeDate(year, month, day)
}

func makeDate(year, month, day int) (Date, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 || year < 1900 || year > 2200 {
		return "", false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month {
		return "", false // e.g. 31 April
	}
	return Date(t.Format(dateLayout)), true
}

// nightsBetween returns the whole days from in to out.
func nightsBetween(in, out Date) (int, bool) {
	ti, ok1 := in.Time()
	to, ok2 := out.Time()
	if !ok1 || !ok2 {
		return 0, false
	}
	return int(to.Sub(ti).Hours() / 24), true
}
