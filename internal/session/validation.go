package session

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"facturas/pkg/models"
)

// totalTolerance absorbs the rounding drift between the entered breakdown
// and the invoice total.
var totalTolerance = decimal.New(1, -2)

// ValidationError reports one invalid cross-field state found at export or
// save time. Individual edits are always accepted, even transiently
// inconsistent ones; the user may be mid-edit across several fields.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

// licenseAccounts are the accounting accounts whose purchases are
// time-bounded licenses or subscriptions; they require validity dates.
var licenseAccounts = map[string]bool{
	"6530011000": true, // memberships
	"6540011000": true, // software licenses and subscriptions
	"6093515000": true, // CENDOC subscriptions and publications
	"6093516000": true, // CENDOC online databases
}

var (
	seriesPattern   = regexp.MustCompile(`^[A-Za-z0-9]{4}$`)
	sequencePattern = regexp.MustCompile(`^\d{8}$`)
	rucPattern      = regexp.MustCompile(`^\d{11}$`)
)

// RequiresLicenseDates reports whether the given accounting account (code
// or code plus description suffix) demands license validity dates.
func RequiresLicenseDates(account string) bool {
	return licenseAccounts[StripCode(account)]
}

// StripCode keeps only the machine code of a "code - description" value.
// Values without the separator pass through whole.
func StripCode(v string) string {
	if idx := strings.Index(v, " - "); idx >= 0 {
		return strings.TrimSpace(v[:idx])
	}
	return strings.TrimSpace(v)
}

// Validate checks the cross-field rules that gate export and save. It
// returns every violation found, nil when the session is exportable.
func (s *Session) Validate() []ValidationError {
	var errs []ValidationError
	h := &s.Header

	if h.Nationality == models.NationalityDomestic {
		if !seriesPattern.MatchString(h.Series) {
			errs = append(errs, ValidationError{
				Field:   "numeroComprobanteParte1",
				Message: "series must be exactly 4 alphanumeric characters",
			})
		}
		if !sequencePattern.MatchString(h.Sequence) {
			errs = append(errs, ValidationError{
				Field:   "numeroComprobanteParte2",
				Message: "sequence must be 8 digits, zero-padded on the left",
			})
		}
		if h.SupplierRUC != "" && !rucPattern.MatchString(h.SupplierRUC) {
			errs = append(errs, ValidationError{
				Field:   "ruc",
				Message: "supplier RUC must be 11 digits",
			})
		}
	}

	if RequiresLicenseDates(h.Account) {
		if h.LicenseStart == "" || h.LicenseEnd == "" {
			errs = append(errs, ValidationError{
				Field:   "fechaInicioLicencia",
				Message: "license validity dates are required for account " + StripCode(h.Account),
			})
		}
	}

	if len(h.Description) > models.DescriptionMaxLen {
		errs = append(errs, ValidationError{
			Field:   "descripcion",
			Message: fmt.Sprintf("description exceeds %d characters", models.DescriptionMaxLen),
		})
	}

	// Base + IGV + other charges must reproduce the grand total.
	if !h.TotalAmount.IsZero() {
		sum := h.TaxableBase.Add(h.TaxAmount).Add(s.OtherCharges)
		if sum.Sub(h.TotalAmount).Abs().GreaterThan(totalTolerance) {
			errs = append(errs, ValidationError{
				Field: "importe",
				Message: fmt.Sprintf("breakdown %s does not match invoice total %s",
					sum.StringFixed(2), h.TotalAmount.StringFixed(2)),
			})
		}
	}

	return errs
}
