package constants

import (
	"strings"
	"unicode"
)

// Field is the canonical name of a voucher field.
type Field string

const (
	FieldHotelName             Field = "hotel_name"
	FieldHotelAddress          Field = "hotel_address"
	FieldHotelContact          Field = "hotel_contact"
	FieldCity                  Field = "city"
	FieldCountry               Field = "country"
	FieldConfirmationNumber    Field = "confirmation_number"
	FieldGuestName             Field = "guest_name"
	FieldGuestNationality      Field = "guest_nationality"
	FieldNumGuests             Field = "num_guests"
	FieldCheckInDate           Field = "check_in_date"
	FieldCheckOutDate          Field = "check_out_date"
	FieldNumNights             Field = "num_nights"
	FieldRoomType              Field = "room_type"
	FieldBedType               Field = "bed_type"
	FieldBreakfastIncluded     Field = "breakfast_included"
	FieldRateAmount            Field = "rate_amount"
	FieldCurrency              Field = "currency"
	FieldSpecialRequests       Field = "special_requests"
	FieldAdditionalInformation Field = "additional_information"
)

// FieldType drives type coercion in the normalizer.
type FieldType string

const (
	TypeString   FieldType = "string"
	TypeDate     FieldType = "date"
	TypeAmount   FieldType = "amount"
	TypeCurrency FieldType = "currency"
	TypeInteger  FieldType = "integer"
	TypeYesNo    FieldType = "yes_no"
	TypeList     FieldType = "list"
)

type FieldSpec struct {
	Name     Field
	Type     FieldType
	Required bool
	Label    string // display label (review workbook, CLI)
	Hint     string // extraction instruction handed to the oracle
}

var fieldSpecs = []FieldSpec{
	{FieldHotelName, TypeString, true, "Hotel Name", "name of the hotel or property"},
	{FieldHotelAddress, TypeString, false, "Hotel Address", "street address of the hotel; null if not in the document"},
	{FieldHotelContact, TypeString, false, "Hotel Contact", "hotel phone or email; null if not in the document"},
	{FieldCity, TypeString, false, "City", "city of the hotel"},
	{FieldCountry, TypeString, false, "Country", "country of the hotel"},
	{FieldConfirmationNumber, TypeString, true, "Confirmation Number",
		"only a value explicitly labelled Hotel Confirmation Number, Hotel Conf Number, HCN, Hotel Confirmation, Confirmation Code or Hotel Reference Number; generic booking ids or agency references are NOT confirmation numbers, use null for them"},
	{FieldGuestName, TypeString, true, "Lead Guest Name", "full name of the lead guest"},
	{FieldGuestNationality, TypeString, false, "Guest Nationality", "nationality of the lead guest"},
	{FieldNumGuests, TypeInteger, false, "Number of Guests", "total number of guests as a number"},
	{FieldCheckInDate, TypeDate, true, "Check-in Date", "check-in date as YYYY-MM-DD"},
	{FieldCheckOutDate, TypeDate, true, "Check-out Date", "check-out date as YYYY-MM-DD"},
	{FieldNumNights, TypeInteger, false, "Number of Nights", "number of nights if stated"},
	{FieldRoomType, TypeString, false, "Room Type", "room category or room name"},
	{FieldBedType, TypeString, false, "Bed Type", "bed type if stated"},
	{FieldBreakfastIncluded, TypeYesNo, false, "Breakfast Included", "Yes, No or Not specified"},
	{FieldRateAmount, TypeAmount, false, "Rate", "total rate or amount exactly as printed, including its currency symbol or code"},
	{FieldCurrency, TypeCurrency, false, "Currency", "ISO 4217 currency code of the rate if printed"},
	{FieldSpecialRequests, TypeString, false, "Special Requests", "special requests made by the guest"},
	{FieldAdditionalInformation, TypeList, false, "Additional Information",
		"array of short strings: check-in/check-out policies and times, mandatory fees and deposits, optional services and costs, age restrictions, pet policies, booking conditions and other notes guests should know; exclude agent boilerplate and disclaimers"},
}

// synonyms maps a normalized key (see NormalizeKey) to its canonical field.
var synonyms = map[string]Field{
	"hotelname":         FieldHotelName,
	"hotel":             FieldHotelName,
	"property":          FieldHotelName,
	"propertyname":      FieldHotelName,
	"accommodation":     FieldHotelName,
	"accommodationname": FieldHotelName,
	"establishment":     FieldHotelName,

	"hoteladdress":    FieldHotelAddress,
	"address":         FieldHotelAddress,
	"propertyaddress": FieldHotelAddress,

	"hotelcontact":   FieldHotelContact,
	"hotelphone":     FieldHotelContact,
	"hoteltelephone": FieldHotelContact,
	"hotelemail":     FieldHotelContact,
	"contact":        FieldHotelContact,
	"phone":          FieldHotelContact,
	"telephone":      FieldHotelContact,

	"city":         FieldCity,
	"hotelcity":    FieldCity,
	"country":      FieldCountry,
	"hotelcountry": FieldCountry,

	"confirmationnumber":      FieldConfirmationNumber,
	"confirmation":            FieldConfirmationNumber,
	"confirmationno":          FieldConfirmationNumber,
	"confirmationcode":        FieldConfirmationNumber,
	"confirmationid":          FieldConfirmationNumber,
	"confno":                  FieldConfirmationNumber,
	"confnumber":              FieldConfirmationNumber,
	"hotelconfirmationnumber": FieldConfirmationNumber,
	"hotelconfnumber":         FieldConfirmationNumber,
	"hotelconfirmation":       FieldConfirmationNumber,
	"hotelconfirmationno":     FieldConfirmationNumber,
	"hcn":                     FieldConfirmationNumber,
	"hotelreferencenumber":    FieldConfirmationNumber,
	"hotelreference":          FieldConfirmationNumber,

	"guestname":     FieldGuestName,
	"leadguestname": FieldGuestName,
	"leadguest":     FieldGuestName,
	"guest":         FieldGuestName,
	"guestnames":    FieldGuestName,
	"nameofguest":   FieldGuestName,
	"primaryguest":  FieldGuestName,
	"travellername": FieldGuestName,
	"travelername":  FieldGuestName,
	"leadtraveller": FieldGuestName,
	"leadtraveler":  FieldGuestName,
	"customername":  FieldGuestName,
	"name":          FieldGuestName,

	"guestnationality": FieldGuestNationality,
	"nationality":      FieldGuestNationality,

	"numguests":      FieldNumGuests,
	"numberofguests": FieldNumGuests,
	"noofguests":     FieldNumGuests,
	"guests":         FieldNumGuests,
	"guestcount":     FieldNumGuests,
	"pax":            FieldNumGuests,
	"occupancy":      FieldNumGuests,

	"checkindate": FieldCheckInDate,
	"checkin":     FieldCheckInDate,
	"arrival":     FieldCheckInDate,
	"arrivaldate": FieldCheckInDate,
	"datein":      FieldCheckInDate,

	"checkoutdate":  FieldCheckOutDate,
	"checkout":      FieldCheckOutDate,
	"departure":     FieldCheckOutDate,
	"departuredate": FieldCheckOutDate,
	"dateout":       FieldCheckOutDate,

	"numnights":      FieldNumNights,
	"numberofnights": FieldNumNights,
	"noofnights":     FieldNumNights,
	"nights":         FieldNumNights,
	"lengthofstay":   FieldNumNights,

	"roomtype":        FieldRoomType,
	"room":            FieldRoomType,
	"roomcategory":    FieldRoomType,
	"roomname":        FieldRoomType,
	"roomdescription": FieldRoomType,

	"bedtype": FieldBedType,
	"bed":     FieldBedType,
	"beds":    FieldBedType,
	"bedding": FieldBedType,

	"breakfastincluded": FieldBreakfastIncluded,
	"breakfast":         FieldBreakfastIncluded,
	"mealplan":          FieldBreakfastIncluded,
	"boardbasis":        FieldBreakfastIncluded,
	"board":             FieldBreakfastIncluded,

	"rateamount":  FieldRateAmount,
	"rate":        FieldRateAmount,
	"roomrate":    FieldRateAmount,
	"amount":      FieldRateAmount,
	"totalamount": FieldRateAmount,
	"total":       FieldRateAmount,
	"totalprice":  FieldRateAmount,
	"totalrate":   FieldRateAmount,
	"totalcost":   FieldRateAmount,
	"price":       FieldRateAmount,
	"amountpaid":  FieldRateAmount,

	"currency":     FieldCurrency,
	"currencycode": FieldCurrency,

	"specialrequests": FieldSpecialRequests,
	"specialrequest":  FieldSpecialRequests,
	"guestrequests":   FieldSpecialRequests,

	"additionalinformation": FieldAdditionalInformation,
	"additionalinfo":        FieldAdditionalInformation,
	"importantinformation":  FieldAdditionalInformation,
	"importantnotes":        FieldAdditionalInformation,
	"notes":                 FieldAdditionalInformation,
	"remarks":               FieldAdditionalInformation,
	"policies":              FieldAdditionalInformation,
	"hotelpolicies":         FieldAdditionalInformation,
}

// placeholders are values that mean "not in the document".
var placeholders = map[string]struct{}{
	"null":            {}, "none": {}, "nil": {}, "n/a": {}, "na": {}, "-": {}, "--": {}, "—": {},
	"unknown":         {}, "not specified": {}, "not available": {}, "not provided": {},
	"to be confirmed": {}, "tbc": {}, "tba": {},
}

// Fields returns the canonical field table in canonical order.
func Fields() []FieldSpec {
	out := make([]FieldSpec, len(fieldSpecs))
	copy(out, fieldSpecs)
	return out
}

// Spec looks up a canonical field.
func Spec(f Field) (FieldSpec, bool) {
	for _, s := range fieldSpecs {
		if s.Name == f {
			return s, true
		}
	}
	return FieldSpec{}, false
}

// RequiredFields lists required fields in canonical order.
func RequiredFields() []Field {
	var out []Field
	for _, s := range fieldSpecs {
		if s.Required {
			out = append(out, s.Name)
		}
	}
	return out
}

// NormalizeKey lowercases and drops everything that is not a letter or digit,
// so "Confirmation #", "confirmation_no." and "CONFIRMATION" compare equal.
func NormalizeKey(raw string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(raw) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Canonicalize maps an oracle-chosen key onto a canonical field.
func Canonicalize(raw string) (Field, bool) {
	key := NormalizeKey(raw)
	if key == "" {
		return "", false
	}
	if f, ok := synonyms[key]; ok {
		return f, true
	}
	return "", false
}

// IsPlaceholder reports whether s only says that the value is missing.
func IsPlaceholder(s string) bool {
	_, ok := placeholders[strings.ToLower(strings.TrimSpace(s))]
	return ok
}
