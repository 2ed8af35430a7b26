package payload

import (
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// roundAmount rounds a currency amount to two decimal places, ties away
// from zero: 10.005 becomes 10.01 and -10.005 becomes -10.01. Every amount
// is passed through here before it takes part in a sum or comparison.
func roundAmount(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// truncate cuts s to at most max bytes without splitting a UTF-8 sequence.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
