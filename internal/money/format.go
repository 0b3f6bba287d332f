package money

import (
	"strings"

	gomoney "github.com/Rhymond/go-money"
)

// NormalizeCurrency upper-cases code and falls back to DefaultCurrency
// when go-money does not know it or it is not a two-decimal currency.
func NormalizeCurrency(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))

	cur := gomoney.GetCurrency(code)
	if cur == nil || cur.Fraction != Scale {
		return DefaultCurrency
	}

	return code
}

// Format renders a with the currency symbol, thousands separators and two
// decimals, e.g. "$1,234.50".
func Format(a Amount, currency string) string {
	return gomoney.New(int64(a), NormalizeCurrency(currency)).Display()
}
