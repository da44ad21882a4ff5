package scraper

import (
	"regexp"
	"strconv"
	"strings"
)

// Price text arrives in every locale's format: $1,234.56, €1.234,56,
// ₹1,999, "Rs. 2 499". The cleanup below normalizes separators before
// parsing instead of trusting any single locale.
var (
	reNonPriceChars  = regexp.MustCompile(`[^0-9.,]`)
	reThousandGroups = regexp.MustCompile(`^\d{1,3}(,\d{3})+(\.\d+)?$`)
	reDecimalComma   = regexp.MustCompile(`,\d{1,2}$`)
	reISOCode        = regexp.MustCompile(`^[A-Z]{3}$`)
)

// ParsePriceText extracts a numeric amount from a free-form price string.
// Returns nil when no parseable number is present.
func ParsePriceText(text string) *float64 {
	clean := reNonPriceChars.ReplaceAllString(text, "")
	// "Rs. 499" leaves a leading dot behind, so trim stray separators.
	clean = strings.Trim(clean, ".,")
	if clean == "" {
		return nil
	}

	hasComma := strings.Contains(clean, ",")
	hasDot := strings.Contains(clean, ".")

	switch {
	case hasComma && hasDot:
		if strings.LastIndex(clean, ",") > strings.LastIndex(clean, ".") {
			// European: 1.234,56
			clean = strings.ReplaceAll(clean, ".", "")
			clean = strings.ReplaceAll(clean, ",", ".")
		} else {
			// US/UK: 1,234.56
			clean = strings.ReplaceAll(clean, ",", "")
		}
	case hasComma:
		if reThousandGroups.MatchString(clean) {
			// 1,999 or 12,34,567-style grouping without decimals
			clean = strings.ReplaceAll(clean, ",", "")
		} else if reDecimalComma.MatchString(clean) {
			// 123,45
			clean = strings.ReplaceAll(clean, ",", ".")
		} else {
			// Indian grouping (1,23,456) and anything else comma-separated
			clean = strings.ReplaceAll(clean, ",", "")
		}
	}

	value, err := strconv.ParseFloat(clean, 64)
	if err != nil || value <= 0 {
		return nil
	}
	return &value
}

// currencyMarkers maps symbols and keywords found in price text to ISO
// currency codes. Order matters: multi-character markers are checked before
// the bare "$".
var currencyMarkers = []struct {
	marker string
	code   string
}{
	{"₹", "INR"},
	{"rs.", "INR"},
	{"rs ", "INR"},
	{"inr", "INR"},
	{"c$", "CAD"},
	{"ca$", "CAD"},
	{"a$", "AUD"},
	{"au$", "AUD"},
	{"us$", "USD"},
	{"usd", "USD"},
	{"$", "USD"},
	{"€", "EUR"},
	{"eur", "EUR"},
	{"£", "GBP"},
	{"gbp", "GBP"},
	{"¥", "JPY"},
	{"jpy", "JPY"},
	{"yen", "JPY"},
	{"₩", "KRW"},
	{"krw", "KRW"},
	{"aed", "AED"},
	{"د.إ", "AED"},
	{"sgd", "SGD"},
	{"s$", "SGD"},
	{"cny", "CNY"},
	{"rmb", "CNY"},
}

// InferCurrency guesses the ISO currency code from symbols or keywords in
// the raw price text. Defaults to the reference currency when nothing
// matches, since most scraped pages here are Indian storefronts.
func InferCurrency(priceText string) string {
	if code, ok := matchCurrencyMarker(priceText); ok {
		return code
	}
	return "INR"
}

func matchCurrencyMarker(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, m := range currencyMarkers {
		if strings.Contains(lower, m.marker) {
			return m.code, true
		}
	}
	return "", false
}

// NormalizeCurrencyCode maps whatever the extractor returned (a code, a
// symbol, or nothing) onto an ISO code, falling back to symbol inference on
// the price text.
func NormalizeCurrencyCode(extracted, priceText string) string {
	code := strings.ToUpper(strings.TrimSpace(extracted))
	if reISOCode.MatchString(code) {
		return code
	}
	if inferred, ok := matchCurrencyMarker(extracted); ok {
		return inferred
	}
	return InferCurrency(priceText)
}
