package utils

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// amountNoise is stripped from printed amounts before parsing: currency
// markers and the (narrow) no-break spaces used as thousands separators.
var amountNoise = strings.NewReplacer(
	"€", "",
	"EUR", "",
	" ", "",
	"\u00a0", "",
	"\u202f", "",
)

// ParseAmount parses an amount printed in French format ("1 234,56 €").
// A comma is the decimal separator; dots are then thousands separators.
// Without a comma, a dot is read as the decimal separator.
func ParseAmount(s string) (decimal.Decimal, error) {
	cleaned := amountNoise.Replace(strings.TrimSpace(s))
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("invalid amount %q: empty", s)
	}

	if strings.Contains(cleaned, ",") {
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return d, nil
}

// FormatAmount renders d with two decimals and a comma separator.
func FormatAmount(d decimal.Decimal) string {
	return strings.Replace(d.StringFixed(2), ".", ",", 1)
}
