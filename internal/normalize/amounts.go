package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/joseph-ayodele/voucher-standardizer/constants"
)

var (
	reNumberBody = regexp.MustCompile(`\d{1,3}(?: \d{3})+(?:[.,]\d+)?|\d[\d,.']*`)
	reLetterRun  = regexp.MustCompile(`\p{L}+`)
	reCanonical  = regexp.MustCompile(`^\d+(\.\d+)?$`)
)

// currencyHint is what the text of an amount or currency field says about the currency.
type currencyHint struct {
	Code       string
	BareDollar bool // only a plain "$" was seen
}

// detectCurrency looks for an ISO code, then a specific symbol, then a currency
// name, then a bare "$".
func detectCurrency(s string) currencyHint {
	for _, run := range letterRuns(s) {
		up := strings.ToUpper(run)
		if len(run) == 3 && constants.IsISOCurrency(up) {
			return currencyHint{Code: up}
		}
	}
	bare := false
	for _, sym := range constants.CurrencySymbols() {
		if !strings.Contains(s, sym.Symbol) {
			continue
		}
		if sym.Symbol == "$" {
			bare = true
			continue
		}
		return currencyHint{Code: sym.Code}
	}
	lower := strings.ToLower(s)
	for _, run := range letterRuns(lower) {
		if code, ok := constants.CurrencyFromName(run); ok {
			return currencyHint{Code: code}
		}
	}
	if code, ok := constants.CurrencyFromName(strings.TrimSpace(lower)); ok {
		return currencyHint{Code: code}
	}
	if bare {
		return currencyHint{Code: "USD", BareDollar: true}
	}
	return currencyHint{}
}

// ParseCurrency reads a currency field: an ISO code, symbol or name.
func ParseCurrency(s string) (currencyHint, bool) {
	h := detectCurrency(s)
	return h, h.Code != ""
}

// ParseAmount reads a printed amount such as "$1,234.50", "1234.50 USD", "€1.234,50"
// or "(45.00)" into a canonical decimal plus whatever the text says about currency.
// Labelled text like "Total (2 nights): $300.00" yields the number printed next to the
// currency; several numbers with none next to a currency is not an amount.
func ParseAmount(s string) (string, currencyHint, bool) {
	hint := detectCurrency(s)

	nums := numberRuns(s)
	var num span
	switch len(nums) {
	case 0:
		return "", hint, false
	case 1:
		num = nums[0]
	default:
		markers := currencyMarkers(s)
		found := false
		for _, n := range nums {
			if nextToMarker(s, n, markers) {
				num, found = n, true
				break
			}
		}
		if !found {
			return "", hint, false
		}
	}

	body := strings.NewReplacer(" ", "", "'", "").Replace(s[num.start:num.end])
	value, ok := canonicalDecimal(body)
	if !ok {
		return "", hint, false
	}
	if isNegative(s, num) && strings.Trim(value, "0.") != "" {
		value = "-" + value
	}
	return value, hint, true
}

type span struct{ start, end int }

// numberRuns finds the digit runs of s, separators included, trailing punctuation not.
func numberRuns(s string) []span {
	var out []span
	for _, loc := range reNumberBody.FindAllStringIndex(s, -1) {
		body := strings.TrimRight(s[loc[0]:loc[1]], ",.'")
		out = append(out, span{loc[0], loc[0] + len(body)})
	}
	return out
}

// currencyMarkers locates ISO codes, currency names and symbols in s.
func currencyMarkers(s string) []span {
	var out []span
	for _, loc := range reLetterRun.FindAllStringIndex(s, -1) {
		run := s[loc[0]:loc[1]]
		_, named := constants.CurrencyFromName(run)
		if named || (len(run) == 3 && constants.IsISOCurrency(strings.ToUpper(run))) {
			out = append(out, span{loc[0], loc[1]})
		}
	}
	for _, sym := range constants.CurrencySymbols() {
		for off := 0; off < len(s); {
			i := strings.Index(s[off:], sym.Symbol)
			if i < 0 {
				break
			}
			start := off + i
			out = append(out, span{start, start + len(sym.Symbol)})
			off = start + len(sym.Symbol)
		}
	}
	return out
}

// nextToMarker reports whether a marker is separated from num by nothing but spaces
// or a sign.
func nextToMarker(s string, num span, markers []span) bool {
	for _, m := range markers {
		var gap string
		switch {
		case m.end <= num.start:
			gap = s[m.end:num.start]
		case num.end <= m.start:
			gap = s[num.end:m.start]
		default:
			continue
		}
		if strings.TrimFunc(gap, func(r rune) bool { return unicode.IsSpace(r) || r == '-' }) == "" {
			return true
		}
	}
	return false
}

// isNegative accepts "-45", "USD -45", "-$45" and a fully parenthesized "($45.00)".
// A dash set apart by spaces ("Total - $300") or closing a range ("100-150") is not
// a sign.
func isNegative(s string, num span) bool {
	if t := strings.TrimSpace(s); strings.HasPrefix(t, "(") && strings.HasSuffix(t, ")") {
		return true
	}
	if signBefore(s[:num.start]) {
		return true
	}
	for _, m := range currencyMarkers(s) {
		if m.end > num.start || strings.TrimSpace(s[m.end:num.start]) != "" {
			continue
		}
		if signBefore(s[:m.start]) {
			return true
		}
	}
	return false
}

// signBefore reports whether prefix ends in a minus that does not follow a digit.
func signBefore(prefix string) bool {
	rest, ok := strings.CutSuffix(prefix, "-")
	if !ok {
		return false
	}
	return rest == "" || !unicode.IsDigit(rune(rest[len(rest)-1]))
}

// canonicalDecimal resolves thousands/decimal separators: with both "," and "." the
// last one is the decimal point; a single "," followed by exactly three digits, or
// repeated separators, group thousands; a lone "." is a decimal point.
func canonicalDecimal(body string) (string, bool) {
	commas := strings.Count(body, ",")
	dots := strings.Count(body, ".")

	switch {
	case commas > 0 && dots > 0:
		if strings.LastIndex(body, ",") > strings.LastIndex(body, ".") {
			body = strings.ReplaceAll(body, ".", "")
			body = strings.Replace(body, ",", ".", 1)
			if strings.Count(body, ",") > 0 || strings.Count(body, ".") > 1 {
				return "", false
			}
		} else {
			body = strings.ReplaceAll(body, ",", "")
		}
	case commas == 1:
		i := strings.Index(body, ",")
		if len(body)-i-1 == 3 {
			body = strings.ReplaceAll(body, ",", "")
		} else {
			body = strings.Replace(body, ",", ".", 1)
		}
	case commas > 1:
		body = strings.ReplaceAll(body, ",", "")
	case dots > 1:
		body = strings.ReplaceAll(body, ".", "")
	}

	if !reCanonical.MatchString(body) {
		return "", false
	}

	intPart, frac, _ := strings.Cut(body, ".")
	intPart = strings.TrimLeft(intPart, "0")
	if intPart == "" {
		intPart = "0"
	}
	for len(frac) > 2 && strings.HasSuffix(frac, "0") {
		frac = frac[:len(frac)-1]
	}
	for len(frac) < 2 {
		frac += "0"
	}
	return intPart + "." + frac, true
}

func letterRuns(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return !unicode.IsLetter(r) })
}
