package session

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facturas/pkg/models"
)

func validSession() *Session {
	s := New()
	s.Header.Series = "E001"
	s.Header.Sequence = "00000045"
	s.Header.SupplierRUC = "20123456789"
	s.Header.TotalAmount = dec("118.00")
	s.Header.TaxableBase = dec("100.00")
	s.Header.TaxAmount = dec("18.00")
	return s
}

func fieldsOf(errs []ValidationError) []string {
	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	return fields
}

func TestValidateAcceptsConsistentSession(t *testing.T) {
	assert.Empty(t, validSession().Validate())
}

func TestValidateDocumentNumber(t *testing.T) {
	tests := []struct {
		name      string
		series    string
		sequence  string
		wantField string
	}{
		{"series too short", "E01", "00000045", "numeroComprobanteParte1"},
		{"series with symbol", "E00#", "00000045", "numeroComprobanteParte1"},
		{"sequence unpadded", "E001", "45", "numeroComprobanteParte2"},
		{"sequence with letters", "E001", "0000004A", "numeroComprobanteParte2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSession()
			s.Header.Series = tt.series
			s.Header.Sequence = tt.sequence

			assert.Contains(t, fieldsOf(s.Validate()), tt.wantField)
		})
	}
}

func TestValidateSkipsDocumentRulesForForeign(t *testing.T) {
	s := validSession()
	s.Header.Nationality = models.NationalityForeign
	s.Header.Series = "INV"
	s.Header.Sequence = "45"
	s.Header.SupplierRUC = "FR-123"
	s.Header.TaxAmount = dec("0.00")
	s.Header.TotalAmount = dec("100.00")

	assert.Empty(t, s.Validate())
}

func TestValidateRUC(t *testing.T) {
	s := validSession()
	s.Header.SupplierRUC = "123"
	assert.Contains(t, fieldsOf(s.Validate()), "ruc")

	// Empty RUC is a missing field, not a malformed one.
	s.Header.SupplierRUC = ""
	assert.NotContains(t, fieldsOf(s.Validate()), "ruc")
}

func TestValidateLicenseDates(t *testing.T) {
	s := validSession()
	s.Header.Account = "6540011000 - LICENCIAS DE SOFTWARE"

	errs := s.Validate()
	require.Len(t, errs, 1)
	assert.Equal(t, "fechaInicioLicencia", errs[0].Field)

	s.Header.LicenseStart = "2025-01-01"
	s.Header.LicenseEnd = "2025-12-31"
	assert.Empty(t, s.Validate())
}

func TestRequiresLicenseDates(t *testing.T) {
	assert.True(t, RequiresLicenseDates("6530011000"))
	assert.True(t, RequiresLicenseDates("6540011000 - LICENCIAS"))
	assert.False(t, RequiresLicenseDates("6060011000"))
	assert.False(t, RequiresLicenseDates(""))
}

func TestValidateDescriptionLength(t *testing.T) {
	s := validSession()
	s.Header.Description = strings.Repeat("x", models.DescriptionMaxLen)
	assert.Empty(t, s.Validate())

	s.Header.Description += "x"
	assert.Contains(t, fieldsOf(s.Validate()), "descripcion")
}

func TestValidateBreakdownAgainstTotal(t *testing.T) {
	s := validSession()
	s.OtherCharges = dec("10.00")
	assert.Contains(t, fieldsOf(s.Validate()), "importe")

	s.Header.TotalAmount = dec("128.00")
	assert.Empty(t, s.Validate())

	// A cent of rounding drift is tolerated.
	s.Header.TotalAmount = dec("128.01")
	assert.Empty(t, s.Validate())

	s.Header.TotalAmount = dec("128.02")
	assert.Contains(t, fieldsOf(s.Validate()), "importe")
}

func TestStripCode(t *testing.T) {
	assert.Equal(t, "6540011000", StripCode("6540011000 - LICENCIAS DE SOFTWARE"))
	assert.Equal(t, "01", StripCode("01"))
	assert.Equal(t, "022", StripCode(" 022 - Otros servicios "))
}
