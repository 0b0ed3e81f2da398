package render

import (
	"strconv"
	"strings"

	"github.com/joseph-ayodele/voucher-standardizer/constants"
	"github.com/joseph-ayodele/voucher-standardizer/internal/common"
	"github.com/joseph-ayodele/voucher-standardizer/internal/normalize"
)

// Payload is the flat variable set the voucher template consumes. Its keys are exactly
// PayloadKeys.
type Payload map[string]any

// Display defaults for optional fields.
const (
	DefaultBedType      = "Bed type assigned at check-in"
	DefaultConfirmation = "To be confirmed"
)

// PayloadKeys lists every key BuildPayload sets. All values are strings except
// additional_information, which is a []string.
var PayloadKeys = []string{
	"company_name",
	"company_logo",
	"company_email",
	"company_phone",
	"company_website",
	"company_address",
	"footer_text",
	"hotel_name",
	"hotel_address",
	"hotel_contact",
	"city",
	"country",
	"confirmation_number",
	"guest_name",
	"guest_nationality",
	"num_guests",
	"check_in_date",
	"check_out_date",
	"num_nights",
	"room_type",
	"bed_type",
	"breakfast_included",
	"rate_amount",
	"currency",
	"special_requests",
	"additional_information",
}

// BuildPayload merges a record with branding. It only fails when branding lacks a
// company name or logo.
func BuildPayload(rec normalize.Record, b Branding) (Payload, error) {
	if strings.TrimSpace(b.CompanyName) == "" {
		return nil, common.BrandingConfigError("company name is not configured", nil)
	}
	if b.LogoDataURI == "" {
		return nil, common.BrandingConfigError("logo is not configured", nil)
	}

	breakfast := string(rec.BreakfastIncluded)
	if breakfast == "" {
		breakfast = string(normalize.NotSpecified)
	}

	p := Payload{
		"company_name":    b.CompanyName,
		"company_logo":    b.LogoDataURI,
		"company_email":   b.Email,
		"company_phone":   b.Phone,
		"company_website": b.Website,
		"company_address": b.Address,
		"footer_text":     b.Footer,

		"hotel_name":             rec.HotelName,
		"hotel_address":          rec.HotelAddress,
		"hotel_contact":          rec.HotelContact,
		"city":                   rec.City,
		"country":                rec.Country,
		"confirmation_number":    orDefault(rec.ConfirmationNumber, DefaultConfirmation),
		"guest_name":             rec.GuestName,
		"guest_nationality":      rec.GuestNationality,
		"num_guests":             intText(rec.NumGuests),
		"check_in_date":          rec.CheckInDate.Display(),
		"check_out_date":         rec.CheckOutDate.Display(),
		"num_nights":             intText(rec.NumNights),
		"room_type":              rec.RoomType,
		"bed_type":               orDefault(rec.BedType, DefaultBedType),
		"breakfast_included":     breakfast,
		"rate_amount":            "",
		"currency":               "",
		"special_requests":       rec.SpecialRequests,
		"additional_information": append([]string{}, rec.AdditionalInformation...),
	}

	if rec.Rate != nil {
		p["rate_amount"] = rec.Rate.Value
	}
	if rec.Currency != constants.CurrencyUnknown {
		p["currency"] = rec.Currency
	}
	return p, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func intText(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}
