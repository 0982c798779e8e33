package enums

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Currency represents supported monetary denominations for plan prices.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyRUB Currency = "RUB"
)

var validCurrencies = []Currency{
	CurrencyUSD,
	CurrencyEUR,
	CurrencyRUB,
}

var currencySymbols = map[Currency]string{
	CurrencyUSD: "$",
	CurrencyEUR: "€",
	CurrencyRUB: "₽",
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

// Symbol returns the display symbol for the currency.
func (c Currency) Symbol() string {
	return currencySymbols[c]
}

// ParseCurrency converts a raw string into a Currency.
func ParseCurrency(value string) (Currency, error) {
	for _, candidate := range validCurrencies {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid currency %q", value)
}

// AllCurrencies returns the known currencies in declaration order.
func AllCurrencies() []Currency {
	out := make([]Currency, len(validCurrencies))
	copy(out, validCurrencies)
	return out
}

// AmountString renders an amount with the currency symbol, keeping the minus
// sign ahead of the symbol for negative values.
func (c Currency) AmountString(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return fmt.Sprintf("-%s%s", c.Symbol(), amount.Neg().String())
	}
	return fmt.Sprintf("%s%s", c.Symbol(), amount.String())
}
