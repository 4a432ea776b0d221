package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses a monetary or percentage figure leniently: surrounding
// whitespace is ignored and anything unparsable, including the empty
// string, resolves to zero. Clerks type into half-filled forms; numeric
// input must never abort an operation.
func ParseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
