package utils

import (
	"errors"
	"testing"
)

func TestParseDecimal_AcceptsFormattedStrings(t *testing.T) {
	cases := []struct {
		in       string
		expected string
	}{
		{"500", "500"},
		{"20,000", "20000"},
		{"₹ 1,234.50", "1234.5"},
		{"INR -20,000", "-20000"},
		{"  2.5kg ", "2.5"},
		{"Rs. 75", "75"},
		{"1e3", "1000"},
	}
	for _, tc := range cases {
		d, err := ParseDecimal(tc.in)
		if err != nil {
			t.Fatalf("ParseDecimal(%q) error: %v", tc.in, err)
		}
		if d.String() != tc.expected {
			t.Fatalf("ParseDecimal(%q) expected %s, got %s", tc.in, tc.expected, d.String())
		}
	}
}

func TestParseDecimal_RejectsBlankAndNonNumeric(t *testing.T) {
	for _, in := range []string{"", "   ", "abc", ".", "₹", "1.2.3", "abc500", "x1y2", "two kg 5", "5 5"} {
		if _, err := ParseDecimal(in); !errors.Is(err, ErrorInvalidNumber) {
			t.Fatalf("ParseDecimal(%q) expected ErrorInvalidNumber, got %v", in, err)
		}
	}
}

func TestDecimalOrZero(t *testing.T) {
	if got := DecimalOrZero("x"); !got.IsZero() {
		t.Fatalf("expected 0, got %s", got)
	}
	if got := DecimalOrZero("12.5"); got.String() != "12.5" {
		t.Fatalf("expected 12.5, got %s", got)
	}
}

func TestUniqueBy_KeepsFirstOccurrenceInOrder(t *testing.T) {
	type row struct {
		name  string
		value int
	}
	in := []row{{"a", 1}, {"b", 2}, {"a", 3}, {"c", 4}, {"b", 5}}
	got := UniqueBy(in, func(r row) string { return r.name })
	expected := []row{{"a", 1}, {"b", 2}, {"c", 4}}
	if len(got) != len(expected) {
		t.Fatalf("expected %d rows, got %d", len(expected), len(got))
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Fatalf("row %d expected %+v, got %+v", i, expected[i], got[i])
		}
	}
}
