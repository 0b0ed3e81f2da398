package normalize

import (
	"fmt"
	"time"

	"github.com/joseph-ayodele/voucher-standardizer/constants"
)

// Date is a calendar date in canonical YYYY-MM-DD form. The zero value is absent.
type Date string

const dateLayout = "2006-01-02"

func (d Date) IsZero() bool { return d == "" }

func (d Date) Time() (time.Time, bool) {
	if d == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(dateLayout, string(d))
	return t, err == nil
}

// Display renders the date the way vouchers print it, e.g. "10 March 2024".
func (d Date) Display() string {
	t, ok := d.Time()
	if !ok {
		return ""
	}
	return t.Format("2 January 2006")
}

// Amount is a canonical decimal ("1234.50") with an ISO currency code or
// constants.CurrencyUnknown.
type Amount struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

func (a Amount) String() string {
	if a.Currency == "" {
		return a.Value
	}
	return a.Value + " " + a.Currency
}

// YesNo is the breakfast-included status.
type YesNo string

const (
	Yes          YesNo = "Yes"
	No           YesNo = "No"
	NotSpecified YesNo = "Not specified"
)

// Record is the canonical voucher. Absent strings are "", absent dates are zero,
// absent numbers and amounts are nil.
type Record struct {
	HotelName             string   `json:"hotel_name"`
	HotelAddress          string   `json:"hotel_address"`
	HotelContact          string   `json:"hotel_contact"`
	City                  string   `json:"city"`
	Country               string   `json:"country"`
	ConfirmationNumber    string   `json:"confirmation_number"`
	GuestName             string   `json:"guest_name"`
	GuestNationality      string   `json:"guest_nationality"`
	NumGuests             *int     `json:"num_guests"`
	CheckInDate           Date     `json:"check_in_date"`
	CheckOutDate          Date     `json:"check_out_date"`
	NumNights             *int     `json:"num_nights"`
	RoomType              string   `json:"room_type"`
	BedType               string   `json:"bed_type"`
	BreakfastIncluded     YesNo    `json:"breakfast_included"`
	Rate                  *Amount  `json:"rate_amount"`
	Currency              string   `json:"currency"`
	SpecialRequests       string   `json:"special_requests"`
	AdditionalInformation []string `json:"additional_information"`
}

// Issue is a non-fatal finding. Key and Value echo the raw oracle entry when the
// issue came from one.
type Issue struct {
	Kind    constants.IssueKind `json:"kind"`
	Field   constants.Field     `json:"field,omitempty"`
	Key     string              `json:"key,omitempty"`
	Value   string              `json:"value,omitempty"`
	Message string              `json:"message"`
}

func (i Issue) String() string {
	name := string(i.Field)
	if name == "" {
		name = i.Key
	}
	return fmt.Sprintf("%s %s: %s", i.Kind, name, i.Message)
}

// Blocking reports whether the issue stops generation under the default policy.
// Invalid values only block on required fields.
func (i Issue) Blocking() bool {
	if !i.Kind.Blocking() {
		return false
	}
	if i.Kind == constants.IssueInvalidValue {
		spec, ok := constants.Spec(i.Field)
		return ok && spec.Required
	}
	return true
}

// Blocking reports whether any issue blocks generation.
func Blocking(issues []Issue) bool {
	for _, is := range issues {
		if is.Blocking() {
			return true
		}
	}
	return false
}

// BlockingIssues filters issues down to the blocking ones.
func BlockingIssues(issues []Issue) []Issue {
	var out []Issue
	for _, is := range issues {
		if is.Blocking() {
			out = append(out, is)
		}
	}
	return out
}
