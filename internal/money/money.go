// Package money holds decimal-safe arithmetic and formatting for invoice amounts.
// Amounts are never float64 internally; conversion only happens at display time.
package money

import (
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultTolerance is the largest accepted gap between a supplied and a computed amount.
var DefaultTolerance = decimal.New(1, -2)

// LineTotal returns quantity * unitPrice.
func LineTotal(quantity, unitPrice decimal.Decimal) decimal.Decimal {
	return quantity.Mul(unitPrice)
}

// Sum adds all values. Sum() is zero.
func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// TotalWithTax returns subtotal * (1 + taxRate) rounded to the currency's minor unit.
func TotalWithTax(subtotal, taxRate decimal.Decimal, code string) decimal.Decimal {
	return subtotal.Mul(decimal.NewFromInt(1).Add(taxRate)).Round(Scale(code))
}

// Within reports whether |a-b| <= tolerance.
func Within(a, b, tolerance decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(tolerance)
}

// Scale returns the number of minor-unit digits for an ISO 4217 code (2 when unknown).
func Scale(code string) int32 {
	unit, err := currency.ParseISO(strings.TrimSpace(code))
	if err != nil {
		return 2
	}
	scale, _ := currency.Standard.Rounding(unit)
	return int32(scale)
}

// Format renders an amount in the given currency, e.g. "EUR 1,234.50".
// Unknown currency codes keep the raw code and two digits.
func Format(amount decimal.Decimal, code string) string {
	return FormatIn(language.English, amount, code)
}

// FormatIn is Format with explicit grouping rules for lang. Digits come from the
// decimal itself; the printer only supplies the group and decimal separators.
func FormatIn(lang language.Tag, amount decimal.Decimal, code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	scale := Scale(code)
	p := message.NewPrinter(lang)

	rounded := amount.Round(scale)
	intPart, frac, _ := strings.Cut(rounded.Abs().StringFixed(scale), ".")
	formatted := groupDigits(p, intPart)
	if frac != "" {
		formatted += decimalSeparator(p) + frac
	}
	if rounded.IsNegative() {
		formatted = "-" + formatted
	}
	if code == "" {
		return formatted
	}
	return code + " " + formatted
}

// groupDigits inserts the group separators of p into a string of ASCII digits.
func groupDigits(p *message.Printer, digits string) string {
	n, ok := new(big.Int).SetString(digits, 10)
	if !ok || !n.IsInt64() {
		return digits
	}
	return p.Sprint(number.Decimal(n.Int64()))
}

func decimalSeparator(p *message.Printer) string {
	sep := strings.Trim(p.Sprint(number.Decimal(1.5, number.Scale(1))), "0123456789")
	if sep == "" {
		return "."
	}
	return sep
}

// FormatQuantity renders a quantity as a plain number without currency or padding.
func FormatQuantity(q decimal.Decimal) string {
	return q.String()
}

// Percent renders a fractional rate as a percentage, e.g. 0.2 -> "20%".
func Percent(rate decimal.Decimal) string {
	return rate.Mul(decimal.NewFromInt(100)).String() + "%"
}
