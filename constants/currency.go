package constants

import "strings"

// CurrencyUnknown marks an amount whose currency could not be determined.
const CurrencyUnknown = "UNKNOWN"

var isoCurrencies = map[string]struct{}{
	"AED": {}, "ARS": {}, "AUD": {}, "BDT": {}, "BHD": {}, "BRL": {}, "CAD": {}, "CHF": {},
	"CLP": {}, "CNY": {}, "COP": {}, "CZK": {}, "DKK": {}, "EGP": {}, "EUR": {}, "FJD": {},
	"GBP": {}, "HKD": {}, "HUF": {}, "IDR": {}, "ILS": {}, "INR": {}, "ISK": {}, "JOD": {},
	"JPY": {}, "KES": {}, "KHR": {}, "KRW": {}, "KWD": {}, "LKR": {}, "MAD": {}, "MUR": {},
	"MVR": {}, "MXN": {}, "MYR": {}, "NOK": {}, "NPR": {}, "NZD": {}, "OMR": {}, "PEN": {},
	"PHP": {}, "PKR": {}, "PLN": {}, "QAR": {}, "RON": {}, "SAR": {}, "SEK": {}, "SGD": {},
	"THB": {}, "TRY": {}, "TWD": {}, "TZS": {}, "UAH": {}, "USD": {}, "VND": {}, "ZAR": {},
}

// dollarCurrencies can all be printed with a bare "$".
var dollarCurrencies = map[string]struct{}{
	"USD": {}, "CAD": {}, "AUD": {}, "NZD": {}, "SGD": {}, "HKD": {}, "MXN": {}, "FJD": {},
	"TWD": {}, "ARS": {}, "CLP": {}, "COP": {},
}

// CurrencySymbol pairs a printed symbol with its ISO code. Longer symbols come first
// so "US$" is matched before "$".
type CurrencySymbol struct {
	Symbol string
	Code   string
}

var currencySymbols = []CurrencySymbol{
	{"US$", "USD"},
	{"CA$", "CAD"},
	{"C$", "CAD"},
	{"AU$", "AUD"},
	{"A$", "AUD"},
	{"NZ$", "NZD"},
	{"S$", "SGD"},
	{"HK$", "HKD"},
	{"R$", "BRL"},
	{"€", "EUR"},
	{"£", "GBP"},
	{"¥", "JPY"},
	{"₹", "INR"},
	{"₩", "KRW"},
	{"₱", "PHP"},
	{"฿", "THB"},
	{"₫", "VND"},
	{"₺", "TRY"},
	{"$", "USD"},
}

// currencyNames maps spelled-out names (lowercase) to ISO codes.
var currencyNames = map[string]string{
	"dollar": "USD", "dollars": "USD", "us dollar": "USD", "us dollars": "USD",
	"euro": "EUR", "euros": "EUR",
	"pound": "GBP", "pounds": "GBP", "pound sterling": "GBP", "sterling": "GBP",
	"yen": "JPY", "rupee": "INR", "rupees": "INR", "rs": "INR", "rs.": "INR",
	"dirham": "AED", "dirhams": "AED", "baht": "THB", "ringgit": "MYR", "rm": "MYR",
	"riyal": "SAR", "rand": "ZAR", "yuan": "CNY", "rmb": "CNY",
}

// IsISOCurrency reports whether code is a known ISO 4217 code.
func IsISOCurrency(code string) bool {
	_, ok := isoCurrencies[code]
	return ok
}

// IsDollarCurrency reports whether a bare "$" may denote code.
func IsDollarCurrency(code string) bool {
	_, ok := dollarCurrencies[code]
	return ok
}

// CurrencySymbols returns the symbol table, longest symbols first.
func CurrencySymbols() []CurrencySymbol {
	out := make([]CurrencySymbol, len(currencySymbols))
	copy(out, currencySymbols)
	return out
}

// CurrencyFromName resolves a spelled-out currency name.
func CurrencyFromName(name string) (string, bool) {
	code, ok := currencyNames[strings.ToLower(strings.TrimSpace(name))]
	return code, ok
}
