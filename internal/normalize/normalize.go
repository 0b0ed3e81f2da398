// Package normalize turns an oracle's raw field map into a canonical voucher record
// plus an ordered list of issues. It never fails and never panics; callers decide
// what to do with the issues.
package normalize

import (
	"fmt"
	"sort"
	"strings"

	"github.com/joseph-ayodele/voucher-standardizer/constants"
	"github.com/joseph-ayodele/voucher-standardizer/internal/llm"
)

// Options is read-only normalization policy.
type Options struct {
	DayFirst bool // numeric slash/dash dates are DD/MM/YYYY
}

type Normalizer struct {
	opts Options
}

func NewNormalizer(opts Options) *Normalizer {
	return &Normalizer{opts: opts}
}

// Normalize runs a Normalizer with default options.
func Normalize(raw llm.RawFieldMap) (Record, []Issue) {
	return NewNormalizer(Options{}).Normalize(raw)
}

type entry struct {
	idx   int
	key   string
	value string
}

type stagedIssue struct {
	idx   int
	issue Issue
}

// coerced carries the currency evidence needed by the cross-field pass.
type coerced struct {
	rateHint    currencyHint
	explicit    currencyHint
	hasRate     bool
	hasExplicit bool
}

// Normalize reconciles keys, applies the absence and duplicate rules, coerces types,
// checks required fields and cross-field consistency. Entries are processed in input
// order; for a repeated field the last present value wins.
func (n *Normalizer) Normalize(raw llm.RawFieldMap) (Record, []Issue) {
	var staged []stagedIssue
	winners := map[constants.Field]entry{}

	for i, f := range raw {
		field, ok := constants.Canonicalize(f.Key)
		if !ok {
			staged = append(staged, stagedIssue{i, Issue{
				Kind:    constants.IssueIgnoredField,
				Key:     f.Key,
				Value:   deref(f.Value),
				Message: "no matching voucher field",
			}})
			continue
		}
		if isAbsent(f.Value) {
			continue
		}
		v := strings.TrimSpace(*f.Value)
		if prev, seen := winners[field]; seen && !sameValue(prev.value, v) {
			staged = append(staged, stagedIssue{i, Issue{
				Kind:    constants.IssueDuplicateField,
				Field:   field,
				Key:     f.Key,
				Value:   prev.value,
				Message: fmt.Sprintf("%q (from %q) replaced by %q", prev.value, prev.key, v),
			}})
		}
		winners[field] = entry{idx: i, key: f.Key, value: v}
	}

	ordered := make([]constants.FieldSpec, 0, len(winners))
	for _, spec := range constants.Fields() {
		if _, ok := winners[spec.Name]; ok {
			ordered = append(ordered, spec)
		}
	}
	sort.SliceStable(ordered, func(a, b int) bool {
		return winners[ordered[a].Name].idx < winners[ordered[b].Name].idx
	})

	var rec Record
	var c coerced
	present := map[constants.Field]bool{}
	for _, spec := range ordered {
		e := winners[spec.Name]
		present[spec.Name] = true
		if msg := n.assign(&rec, &c, spec, e.value); msg != "" {
			staged = append(staged, stagedIssue{e.idx, Issue{
				Kind:    constants.IssueInvalidValue,
				Field:   spec.Name,
				Key:     e.key,
				Value:   e.value,
				Message: msg,
			}})
		}
	}

	sort.SliceStable(staged, func(a, b int) bool { return staged[a].idx < staged[b].idx })
	issues := make([]Issue, 0, len(staged)+4)
	for _, s := range staged {
		issues = append(issues, s.issue)
	}

	for _, f := range constants.RequiredFields() {
		if !present[f] {
			issues = append(issues, Issue{
				Kind:    constants.IssueMissingRequired,
				Field:   f,
				Message: "required field not found",
			})
		}
	}

	issues = append(issues, n.crossCheck(&rec, c)...)
	return rec, issues
}

// assign coerces one value into the record. It returns a non-empty message when the
// value cannot be read as the field's type; the record field then stays absent.
func (n *Normalizer) assign(rec *Record, c *coerced, spec constants.FieldSpec, v string) string {
	switch spec.Type {
	case constants.TypeDate:
		d, ok := ParseDate(v, n.opts.DayFirst)
		if !ok {
			return fmt.Sprintf("unrecognized date %q", v)
		}
		switch spec.Name {
		case constants.FieldCheckInDate:
			rec.CheckInDate = d
		case constants.FieldCheckOutDate:
			rec.CheckOutDate = d
		}

	case constants.TypeAmount:
		value, hint, ok := ParseAmount(v)
		if !ok {
			return fmt.Sprintf("unrecognized amount %q", v)
		}
		rec.Rate = &Amount{Value: value}
		c.rateHint, c.hasRate = hint, true

	case constants.TypeCurrency:
		hint, ok := ParseCurrency(v)
		if !ok {
			return fmt.Sprintf("unrecognized currency %q", v)
		}
		c.explicit, c.hasExplicit = hint, true

	case constants.TypeInteger:
		num, ok := ParseCount(v, spec.Name)
		if !ok {
			return fmt.Sprintf("not a positive count: %q", v)
		}
		switch spec.Name {
		case constants.FieldNumGuests:
			rec.NumGuests = &num
		case constants.FieldNumNights:
			rec.NumNights = &num
		}

	case constants.TypeYesNo:
		yn, ok := ParseYesNo(v)
		if !ok {
			return fmt.Sprintf("expected yes or no, got %q", v)
		}
		rec.BreakfastIncluded = yn

	case constants.TypeList:
		rec.AdditionalInformation = ParseList(v)

	default:
		setString(rec, spec.Name, CleanString(v))
	}
	return ""
}

// crossCheck runs the checks that need more than one field: stay dates, nights and
// currency.
func (n *Normalizer) crossCheck(rec *Record, c coerced) []Issue {
	var issues []Issue

	nights, datesOK := nightsBetween(rec.CheckInDate, rec.CheckOutDate)
	if datesOK && nights < 0 {
		issues = append(issues, Issue{
			Kind:    constants.IssueLogicalInconsistency,
			Field:   constants.FieldCheckOutDate,
			Value:   string(rec.CheckOutDate),
			Message: fmt.Sprintf("check-out %s is before check-in %s", rec.CheckOutDate, rec.CheckInDate),
		})
	}
	if datesOK && nights > 0 {
		switch {
		case rec.NumNights == nil:
			rec.NumNights = &nights
		case *rec.NumNights != nights:
			issues = append(issues, Issue{
				Kind:    constants.IssueLogicalInconsistency,
				Field:   constants.FieldNumNights,
				Value:   fmt.Sprint(*rec.NumNights),
				Message: fmt.Sprintf("%d nights stated but the dates span %d", *rec.NumNights, nights),
			})
		}
	}

	switch {
	case c.hasExplicit:
		code := c.explicit.Code
		rateCode := ""
		if c.hasRate {
			rateCode = c.rateHint.Code
		}
		// a bare "$" in the currency field defers to a specific dollar code on the rate
		if c.explicit.BareDollar && rateCode != "" && !c.rateHint.BareDollar && constants.IsDollarCurrency(rateCode) {
			code = rateCode
		}
		rec.Currency = code
		if rateCode != "" && rateCode != code && !(c.rateHint.BareDollar && constants.IsDollarCurrency(code)) {
			issues = append(issues, Issue{
				Kind:    constants.IssueLogicalInconsistency,
				Field:   constants.FieldCurrency,
				Value:   code,
				Message: fmt.Sprintf("currency %s disagrees with the rate's %s", code, rateCode),
			})
		}
	case c.hasRate && c.rateHint.Code != "":
		rec.Currency = c.rateHint.Code
	case c.hasRate:
		rec.Currency = constants.CurrencyUnknown
		issues = append(issues, Issue{
			Kind:    constants.IssueUnknownCurrency,
			Field:   constants.FieldRateAmount,
			Value:   rec.Rate.Value,
			Message: "currency of the rate could not be determined",
		})
	}
	if rec.Rate != nil {
		rec.Rate.Currency = rec.Currency
	}
	return issues
}

func setString(rec *Record, f constants.Field, v string) {
	switch f {
	case constants.FieldHotelName:
		rec.HotelName = v
	case constants.FieldHotelAddress:
		rec.HotelAddress = v
	case constants.FieldHotelContact:
		rec.HotelContact = v
	case constants.FieldCity:
		rec.City = v
	case constants.FieldCountry:
		rec.Country = v
	case constants.FieldConfirmationNumber:
		rec.ConfirmationNumber = v
	case constants.FieldGuestName:
		rec.GuestName = v
	case constants.FieldGuestNationality:
		rec.GuestNationality = v
	case constants.FieldRoomType:
		rec.RoomType = v
	case constants.FieldBedType:
		rec.BedType = v
	case constants.FieldSpecialRequests:
		rec.SpecialRequests = v
	}
}

func sameValue(a, b string) bool {
	return strings.EqualFold(CleanString(a), CleanString(b))
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
