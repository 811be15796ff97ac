package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

var currencyMarks = []string{"₹", "INR", "inr", "Rs.", "rs.", "Rs", "rs", "kg", "KG", "Kg"}

// ParseDecimal reads a number typed by an operator. It accepts common
// formatted strings like:
// - "20,000"
// - "₹ 1,234.50"
// - "INR -20,000"
// - "2.5kg"
// - "1e3"
//
// Only thousands separators and the currency and unit marks are removed; the
// rest must be a plain number. Blank or non-numeric input returns
// ErrorInvalidNumber.
func ParseDecimal(input string) (decimal.Decimal, error) {
	s := strings.ReplaceAll(strings.TrimSpace(input), ",", "")
	for _, mark := range currencyMarks {
		s = strings.ReplaceAll(s, mark, "")
	}
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "-") {
		s = "-" + strings.TrimSpace(strings.TrimPrefix(s, "-"))
	}
	if !strings.ContainsAny(s, "0123456789") {
		return decimal.Zero, ErrorInvalidNumber
	}

	val, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrorInvalidNumber
	}
	return val, nil
}

// IsDecimal reports whether ParseDecimal accepts input.
func IsDecimal(input string) bool {
	_, err := ParseDecimal(input)
	return err == nil
}

// DecimalOrZero is ParseDecimal with failures counted as zero.
func DecimalOrZero(input string) decimal.Decimal {
	d, err := ParseDecimal(input)
	if err != nil {
		return decimal.Zero
	}
	return d
}
