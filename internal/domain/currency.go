package domain

import (
	"fmt"
	"strings"
)

// Currency is an ISO 4217 code from the fixed supported set.
type Currency string

const (
	CurrencyEUR Currency = "EUR"
	CurrencyUSD Currency = "USD"
	CurrencyJPY Currency = "JPY"
	CurrencyGBP Currency = "GBP"
)

var supportedCurrencies = []Currency{CurrencyEUR, CurrencyUSD, CurrencyJPY, CurrencyGBP}

// SupportedCurrencies returns the supported set in enumeration order.
func SupportedCurrencies() []Currency {
	out := make([]Currency, len(supportedCurrencies))
	copy(out, supportedCurrencies)
	return out
}

func (c Currency) IsSupported() bool {
	for _, s := range supportedCurrencies {
		if c == s {
			return true
		}
	}
	return false
}

// ParseCurrency normalizes s (trim, upper-case) and checks it against the supported set.
func ParseCurrency(s string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(s)))
	if !c.IsSupported() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedCurrency, s)
	}
	return c, nil
}
