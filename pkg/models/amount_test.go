package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"118.00", "118.00"},
		{" 118.00 ", "118.00"},
		{"-5", "-5.00"},
		{"", "0.00"},
		{"abc", "0.00"},
		{"1,5", "0.00"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseAmount(tt.in).StringFixed(2), "input %q", tt.in)
	}
}

func TestDocumentNumber(t *testing.T) {
	h := InvoiceHeader{Series: "F001", Sequence: "00000045"}
	assert.Equal(t, "F001-00000045", h.DocumentNumber())
}
