package enums

import (
	"fmt"
	"strings"
)

// Currency is an ISO 4217 code accepted for catalog prices and cart lines.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyCRC Currency = "CRC"
	CurrencyEUR Currency = "EUR"
	CurrencyMXN Currency = "MXN"
	CurrencyCAD Currency = "CAD"
	CurrencyGBP Currency = "GBP"
)

// DefaultCurrency is used for display when a cart has no lines.
const DefaultCurrency = CurrencyUSD

var validCurrencies = []Currency{
	CurrencyUSD,
	CurrencyCRC,
	CurrencyEUR,
	CurrencyMXN,
	CurrencyCAD,
	CurrencyGBP,
}

// String implements fmt.Stringer.
func (c Currency) String() string {
	return string(c)
}

// IsValid reports whether the currency is recognized.
func (c Currency) IsValid() bool {
	for _, candidate := range validCurrencies {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCurrency converts a raw string into a Currency. Matching is case-insensitive.
func ParseCurrency(value string) (Currency, error) {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	for _, candidate := range validCurrencies {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid currency %q", value)
}
