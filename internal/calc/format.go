package calc

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
}

// currencyPrefix returns the display prefix for a currency code. Unknown
// codes render as the code followed by a space.
func currencyPrefix(currency string) string {
	code := strings.ToUpper(strings.TrimSpace(currency))
	if code == "" {
		code = "USD"
	}
	if sym, ok := currencySymbols[code]; ok {
		return sym
	}
	return code + " "
}

// FormatCurrency renders amount with thousands separators and two decimals,
// e.g. -$1,234.50. An empty currency means USD.
func FormatCurrency(amount float64, currency string) string {
	minor := decimal.NewFromFloat(amount).Round(2).Shift(2).IntPart()
	f := money.NewFormatter(2, ".", ",", currencyPrefix(currency), "$1")
	return f.Format(minor)
}

// FormatPercentage renders value with two decimals and a sign, e.g. +3.46%.
func FormatPercentage(value float64) string {
	d := decimal.NewFromFloat(value).Round(2)
	s := d.StringFixed(2) + "%"
	if d.Sign() >= 0 {
		return "+" + s
	}
	return s
}
