package normalize

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/voucher-standardizer/constants"
)

var (
	reWhitespace = regexp.MustCompile(`\s+`)
	reInteger    = regexp.MustCompile(`\d+`)
	reBullet     = regexp.MustCompile(`^(?:[•●▪◦‣∙·*\-–—]+\s*|\d{1,2}[.)]\s+)`)
	rePartyCount = regexp.MustCompile(`(?i)(\d+)\s*(adults?|child(?:ren)?|kids?|infants?)`)
)

var wordNumbers = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
}

// isAbsent implements the absence rule: null, blank and placeholder text all mean
// the document did not state the value.
func isAbsent(v *string) bool {
	if v == nil {
		return true
	}
	s := strings.TrimSpace(*v)
	return s == "" || constants.IsPlaceholder(s)
}

// CleanString trims and collapses internal whitespace. Multi-line values are joined
// with ", ".
func CleanString(s string) string {
	lines := strings.Split(s, "\n")
	parts := lines[:0]
	for _, ln := range lines {
		ln = strings.TrimSpace(reWhitespace.ReplaceAllString(ln, " "))
		if ln != "" {
			parts = append(parts, ln)
		}
	}
	return strings.Join(parts, ", ")
}

// ParseList splits a list value on newlines and strips bullet markers and blanks.
func ParseList(s string) []string {
	var out []string
	for _, ln := range strings.Split(s, "\n") {
		ln = strings.TrimSpace(ln)
		ln = reBullet.ReplaceAllString(ln, "")
		ln = strings.TrimSpace(reWhitespace.ReplaceAllString(ln, " "))
		if ln == "" || constants.IsPlaceholder(ln) {
			continue
		}
		out = append(out, ln)
	}
	return out
}

// countUnits label the number that counts a field in text holding several numbers.
var countUnits = map[constants.Field]*regexp.Regexp{
	constants.FieldNumGuests: regexp.MustCompile(`(?i)(\d+)\s*(?:guests?|persons?|people|pax|travell?ers?|occupants?)\b`),
	constants.FieldNumNights: regexp.MustCompile(`(?i)(\d+)\s*nights?\b`),
}

// ParseCount reads a count of f: "2", "2 nights", "two", "2 rooms, 4 guests".
// "2 Adults, 1 Child" sums the party for guests. Several unlabelled numbers are
// ambiguous and fail.
func ParseCount(s string, f constants.Field) (int, bool) {
	if f == constants.FieldNumGuests {
		if ms := rePartyCount.FindAllStringSubmatch(s, -1); len(ms) > 0 {
			total := 0
			for _, m := range ms {
				n, _ := strconv.Atoi(m[1])
				total += n
			}
			return total, total > 0
		}
	}
	if re, ok := countUnits[f]; ok {
		if ms := re.FindAllStringSubmatch(s, -1); len(ms) == 1 {
			n, err := strconv.Atoi(ms[0][1])
			return n, err == nil && n > 0
		}
	}

	switch runs := reInteger.FindAllString(s, -1); len(runs) {
	case 0:
	case 1:
		n, err := strconv.Atoi(runs[0])
		return n, err == nil && n > 0
	default:
		return 0, false
	}
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, false
	}
	n, ok := wordNumbers[strings.ToLower(strings.Trim(fields[0], ".,;:"))]
	return n, ok
}

var (
	yesWords = []string{"yes", "y", "true", "included", "include", "incl", "with breakfast", "breakfast included",
		"bed and breakfast", "bed & breakfast", "b&b", "bb", "half board", "hb", "full board", "fb", "all inclusive", "ai"}
	noWords = []string{"no", "n", "false", "not included", "excluded", "room only", "ro", "without breakfast",
		"no breakfast", "breakfast not included", "accommodation only", "self catering"}
)

// ParseYesNo maps breakfast/meal-plan text onto Yes or No.
func ParseYesNo(s string) (YesNo, bool) {
	l := strings.ToLower(CleanString(s))
	l = strings.Trim(l, ".!")
	for _, w := range noWords {
		if l == w {
			return No, true
		}
	}
	for _, w := range yesWords {
		if l == w {
			return Yes, true
		}
	}
	switch {
	case strings.Contains(l, "not included"), strings.Contains(l, "room only"),
		strings.Contains(l, "without"), strings.HasPrefix(l, "no "):
		return No, true
	case strings.Contains(l, "breakfast"), strings.Contains(l, "included"),
		strings.Contains(l, "board"), strings.Contains(l, "inclusive"):
		return Yes, true
	}
	return "", false
}
