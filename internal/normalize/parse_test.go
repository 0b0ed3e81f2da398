package normalize

import (
	"reflect"
	"testing"

	"github.com/joseph-ayodele/voucher-standardizer/constants"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in       string
		dayFirst bool
		want     Date
		ok       bool
	}{
		{"2024-03-10", false, "2024-03-10", true},
		{"2024/03/10", true, "2024-03-10", true},
		{"2024-03-10T14:00:00Z", false, "2024-03-10", true},
		{"03/10/2024", false, "2024-03-10", true},
		{"03/10/2024", true, "2024-10-03", true},
		{"03-10-24", false, "2024-03-10", true},
		{"10.03.2024", false, "2024-03-10", true},
		{"13/03/2024", false, "2024-03-13", true},
		{"03/13/2024", true, "2024-03-13", true},
		{"March 10, 2024", false, "2024-03-10", true},
		{"10 March 2024", false, "2024-03-10", true},
		{"Sunday, 10th March 2024", false, "2024-03-10", true},
		{"10-Mar-2024", false, "2024-03-10", true},
		{"Sept. 5, 2024", false, "2024-09-05", true},
		{"31/04/2024", false, "", false},
		{"03/10-2024", false, "", false},
		{"TBC", false, "", false},
		{"", false, "", false},
	}
	for _, tt := range tests {
		got, ok := ParseDate(tt.in, tt.dayFirst)
		if got != tt.want || ok != tt.ok {
			t.Fatalf("ParseDate(%q, %v) = %q, %v; want %q, %v", tt.in, tt.dayFirst, got, ok, tt.want, tt.ok)
		}
	}
}

func TestDateDisplay(t *testing.T) {
	if got := Date("2024-03-10").Display(); got != "10 March 2024" {
		t.Fatalf("Display = %q", got)
	}
	if got := Date("").Display(); got != "" {
		t.Fatalf("zero Display = %q", got)
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in    string
		value string
		code  string
		bare  bool
	}{
		{"$1,234.50", "1234.50", "USD", true},
		{"1234.50 USD", "1234.50", "USD", false},
		{"€1.234,50", "1234.50", "EUR", false},
		{"1 234,50 EUR", "1234.50", "EUR", false},
		{"CHF 1'250", "1250.00", "CHF", false},
		{"CA$ 980", "980.00", "CAD", false},
		{"₹ 5,000", "5000.00", "INR", false},
		{"450 euros", "450.00", "EUR", false},
		{"12,5", "12.50", "", false},
		{"1,234", "1234.00", "", false},
		{"1.234.567", "1234567.00", "", false},
		{"0.125", "0.125", "", false},
		{"1,000.000", "1000.00", "", false},
		{"(45.00)", "-45.00", "", false},
		{"-$45", "-45.00", "USD", true},
		{"USD -45", "-45.00", "USD", false},
		{"($45.00)", "-45.00", "USD", true},
		{"Total (2 nights): $300.00", "300.00", "USD", true},
		{"Total - $300.00", "300.00", "USD", true},
		{"2 nights x USD 150.00", "150.00", "USD", false},
		{"EUR 1.234,50 (approx. USD 1,350.00)", "1234.50", "EUR", false},
		{"2024-03-10: 180 EUR", "180.00", "EUR", false},
	}
	for _, tt := range tests {
		value, hint, ok := ParseAmount(tt.in)
		if !ok || value != tt.value || hint.Code != tt.code || hint.BareDollar != tt.bare {
			t.Fatalf("ParseAmount(%q) = %q %+v %v; want %q %s bare=%v", tt.in, value, hint, ok, tt.value, tt.code, tt.bare)
		}
	}

	for _, in := range []string{"", "free", "see hotel", "2 nights x 150", "Room 12, 2 nights"} {
		if _, _, ok := ParseAmount(in); ok {
			t.Fatalf("ParseAmount(%q) should fail", in)
		}
	}
}

func TestParseCurrency(t *testing.T) {
	tests := map[string]string{
		"USD":            "USD",
		"usd":            "USD",
		"€":              "EUR",
		"Euros":          "EUR",
		"pound sterling": "GBP",
		"US$":            "USD",
	}
	for in, want := range tests {
		h, ok := ParseCurrency(in)
		if !ok || h.Code != want {
			t.Fatalf("ParseCurrency(%q) = %+v, %v; want %s", in, h, ok, want)
		}
	}
	if h, ok := ParseCurrency("$"); !ok || h.Code != "USD" || !h.BareDollar {
		t.Fatalf("bare dollar = %+v, %v", h, ok)
	}
	if _, ok := ParseCurrency("local money"); ok {
		t.Fatalf("nonsense currency should fail")
	}
}

func TestParseCount(t *testing.T) {
	guests, nights := constants.FieldNumGuests, constants.FieldNumNights
	tests := []struct {
		in    string
		field constants.Field
		want  int
		ok    bool
	}{
		{"2", guests, 2, true},
		{"2 nights", nights, 2, true},
		{"two", guests, 2, true},
		{"Two adults", guests, 2, true},
		{"2 Adults, 1 Child", guests, 3, true},
		{"2 rooms, 4 guests", guests, 4, true},
		{"4 pax (2 rooms)", guests, 4, true},
		{"3 nights (10-13 March)", nights, 3, true},
		{"2 rooms, 4 beds", guests, 0, false},
		{"0", guests, 0, false},
		{"several", guests, 0, false},
		{"", nights, 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseCount(tt.in, tt.field)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Fatalf("ParseCount(%q, %s) = %d, %v; want %d, %v", tt.in, tt.field, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseYesNo(t *testing.T) {
	tests := []struct {
		in   string
		want YesNo
		ok   bool
	}{
		{"Yes", Yes, true},
		{"Included.", Yes, true},
		{"Breakfast included", Yes, true},
		{"B&B", Yes, true},
		{"Half Board", Yes, true},
		{"Room Only", No, true},
		{"Not included", No, true},
		{"no breakfast", No, true},
		{"maybe", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseYesNo(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Fatalf("ParseYesNo(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseList(t *testing.T) {
	in := "• Check-in from 3 PM\n\n1. Pets not allowed\n10.30 late check-out on request\n  -  City tax   payable locally\nN/A"
	want := []string{"Check-in from 3 PM", "Pets not allowed", "10.30 late check-out on request", "City tax payable locally"}
	if got := ParseList(in); !reflect.DeepEqual(got, want) {
		t.Fatalf("ParseList = %q, want %q", got, want)
	}
	if got := ParseList("  \n "); got != nil {
		t.Fatalf("blank list = %q", got)
	}
}

func TestCleanString(t *testing.T) {
	if got := CleanString("  12 Rue   de Rivoli \n\n 75001 Paris "); got != "12 Rue de Rivoli, 75001 Paris" {
		t.Fatalf("CleanString = %q", got)
	}
}

func TestIssueBlocking(t *testing.T) {
	tests := []struct {
		issue Issue
		want  bool
	}{
		{Issue{Kind: constants.IssueMissingRequired, Field: constants.FieldGuestName}, true},
		{Issue{Kind: constants.IssueInvalidValue, Field: constants.FieldCheckInDate}, true},
		{Issue{Kind: constants.IssueInvalidValue, Field: constants.FieldNumGuests}, false},
		{Issue{Kind: constants.IssueLogicalInconsistency, Field: constants.FieldCurrency}, true},
		{Issue{Kind: constants.IssueDuplicateField, Field: constants.FieldHotelName}, false},
		{Issue{Kind: constants.IssueIgnoredField, Key: "foo"}, false},
		{Issue{Kind: constants.IssueUnknownCurrency, Field: constants.FieldRateAmount}, false},
	}
	for _, tt := range tests {
		if got := tt.issue.Blocking(); got != tt.want {
			t.Fatalf("%s Blocking = %v, want %v", tt.issue, got, tt.want)
		}
	}
	all := []Issue{tests[4].issue, tests[1].issue, tests[5].issue}
	if got := BlockingIssues(all); len(got) != 1 || got[0].Field != constants.FieldCheckInDate {
		t.Fatalf("BlockingIssues = %v", got)
	}
}
