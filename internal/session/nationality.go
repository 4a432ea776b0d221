package session

import (
	"github.com/shopspring/decimal"

	"facturas/pkg/models"
)

// Cross-rules between nationality, currency and the payment-currency
// subtype. A foreign invoice carries no IGV and no detraction; a PEN
// invoice is always domestic. Each setter applies the full cascade so the
// header never holds a contradictory combination.

// SetNationality switches the invoice between domestic and foreign and
// applies the dependent rules.
func (s *Session) SetNationality(n models.Nationality) {
	s.Header.Nationality = n

	if n == models.NationalityForeign {
		// No IGV and no detraction abroad.
		s.SetBaseAndRate(s.Header.TaxableBase, decimal.Zero)
		s.Header.DetractionCode = ""
		s.Header.DetractionPercent = ""
		if s.Header.Currency == models.CurrencyUSD {
			s.Header.PaymentCurrency = models.PaymentDollarsForeign
		}
		return
	}

	// Back to domestic: restore the standard rate only when it was zeroed.
	if s.Header.TaxRate.IsZero() {
		s.SetBaseAndRate(s.Header.TaxableBase, DefaultTaxRate)
	}
	switch s.Header.Currency {
	case models.CurrencyPEN:
		s.Header.PaymentCurrency = models.PaymentSolesDomestic
	case models.CurrencyUSD:
		s.Header.PaymentCurrency = models.PaymentDollarsDomestic
	}
}

// SetCurrency sets the currency code and adjusts the payment subtype. PEN
// forces the invoice domestic.
func (s *Session) SetCurrency(code string) {
	s.Header.Currency = code

	switch code {
	case models.CurrencyPEN:
		s.Header.PaymentCurrency = models.PaymentSolesDomestic
		if s.Header.Nationality == models.NationalityForeign {
			s.SetNationality(models.NationalityDomestic)
		}
	case models.CurrencyUSD:
		if s.Header.Nationality == models.NationalityForeign {
			s.Header.PaymentCurrency = models.PaymentDollarsForeign
		} else {
			s.Header.PaymentCurrency = models.PaymentDollarsDomestic
		}
	}
}

// SetPaymentCurrency selects the payment subtype directly and back-fills
// currency and nationality to match.
func (s *Session) SetPaymentCurrency(subtype string) {
	switch subtype {
	case models.PaymentSolesDomestic:
		s.Header.Currency = models.CurrencyPEN
		s.Header.PaymentCurrency = subtype
		s.SetNationality(models.NationalityDomestic)
	case models.PaymentDollarsDomestic:
		s.Header.Currency = models.CurrencyUSD
		s.Header.PaymentCurrency = subtype
		s.SetNationality(models.NationalityDomestic)
	case models.PaymentDollarsForeign:
		s.Header.Currency = models.CurrencyUSD
		s.Header.PaymentCurrency = subtype
		s.SetNationality(models.NationalityForeign)
	}
}
