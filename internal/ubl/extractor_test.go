package ubl

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facturas/pkg/models"
)

const sampleInvoice = `<?xml version="1.0" encoding="UTF-8"?>
<Invoice xmlns="urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"
    xmlns:cac="urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
    xmlns:cbc="urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"
    xmlns:ext="urn:oasis:names:specification:ubl:schema:xsd:CommonExtensionComponents-2">
  <ext:UBLExtensions>
    <ext:UBLExtension>
      <ext:ExtensionContent>
        <Signature Id="SignatureSP">
          <SignedInfo><Reference URI=""/></SignedInfo>
        </Signature>
      </ext:ExtensionContent>
    </ext:UBLExtension>
  </ext:UBLExtensions>
  <cbc:UBLVersionID>2.1</cbc:UBLVersionID>
  <cbc:ID>F001-45</cbc:ID>
  <cbc:IssueDate>2025-03-14</cbc:IssueDate>
  <cbc:DocumentCurrencyCode>PEN</cbc:DocumentCurrencyCode>
  <cac:Signature>
    <cbc:ID>IDSignSP</cbc:ID>
    <cac:SignatoryParty>
      <cac:PartyIdentification><cbc:ID>20123456789</cbc:ID></cac:PartyIdentification>
    </cac:SignatoryParty>
  </cac:Signature>
  <cac:AccountingSupplierParty>
    <cac:Party>
      <cac:PartyIdentification><cbc:ID schemeID="6">20123456789</cbc:ID></cac:PartyIdentification>
      <cac:PartyLegalEntity>
        <cbc:RegistrationName>SERVICIOS GENERALES SAC</cbc:RegistrationName>
      </cac:PartyLegalEntity>
    </cac:Party>
  </cac:AccountingSupplierParty>
  <cac:AccountingCustomerParty>
    <cac:Party>
      <cac:PartyIdentification><cbc:ID schemeID="6">20999999999</cbc:ID></cac:PartyIdentification>
      <cac:PartyLegalEntity>
        <cbc:RegistrationName>UNIVERSIDAD ESAN</cbc:RegistrationName>
      </cac:PartyLegalEntity>
    </cac:Party>
  </cac:AccountingCustomerParty>
  <cac:PaymentTerms>
    <cbc:ID>Detraccion</cbc:ID>
    <cbc:PaymentMeansID>037</cbc:PaymentMeansID>
    <cbc:PaymentPercent>12</cbc:PaymentPercent>
  </cac:PaymentTerms>
  <cac:TaxTotal>
    <cbc:TaxAmount currencyID="PEN">180.00</cbc:TaxAmount>
    <cac:TaxSubtotal>
      <cbc:TaxableAmount currencyID="PEN">1000.00</cbc:TaxableAmount>
      <cbc:TaxAmount currencyID="PEN">180.00</cbc:TaxAmount>
    </cac:TaxSubtotal>
  </cac:TaxTotal>
  <cac:LegalMonetaryTotal>
    <cbc:LineExtensionAmount currencyID="PEN">1000.00</cbc:LineExtensionAmount>
    <cbc:TaxInclusiveAmount currencyID="PEN">1180.00</cbc:TaxInclusiveAmount>
    <cbc:PayableAmount currencyID="PEN">1180.00</cbc:PayableAmount>
  </cac:LegalMonetaryTotal>
  <cac:InvoiceLine>
    <cbc:ID>1</cbc:ID>
    <cbc:InvoicedQuantity unitCode="NIU">2</cbc:InvoicedQuantity>
    <cac:Price>
      <cbc:PriceAmount currencyID="PEN">250.00</cbc:PriceAmount>
    </cac:Price>
  </cac:InvoiceLine>
  <cac:InvoiceLine>
    <cbc:ID>2</cbc:ID>
    <cbc:InvoicedQuantity unitCode="NIU">1</cbc:InvoicedQuantity>
    <cac:Price>
      <cbc:PriceAmount currencyID="PEN">500.00</cbc:PriceAmount>
    </cac:Price>
  </cac:InvoiceLine>
</Invoice>`

func TestExtractSampleInvoice(t *testing.T) {
	result, err := NewExtractor().Extract(strings.NewReader(sampleInvoice))
	require.NoError(t, err)

	h := result.Header
	assert.Equal(t, "20123456789", h.SupplierRUC)
	assert.Equal(t, "SERVICIOS GENERALES SAC", h.SupplierName)
	assert.Equal(t, models.CurrencyPEN, h.Currency)
	assert.Equal(t, models.NationalityDomestic, h.Nationality)
	assert.Equal(t, models.PaymentSolesDomestic, h.PaymentCurrency)
	assert.Equal(t, "2025-03-14", h.IssueDate)
	assert.Equal(t, "F001", h.Series)
	assert.Equal(t, "00000045", h.Sequence)
	assert.Equal(t, "F001-00000045", h.DocumentNumber())
	assert.Equal(t, "1180.00", h.TotalAmount.StringFixed(2))
	assert.Equal(t, "1000.00", h.TaxableBase.StringFixed(2))
	assert.Equal(t, "180.00", h.TaxAmount.StringFixed(2))
	assert.Equal(t, "12", h.DetractionPercent)

	require.Len(t, result.Items, 2)
	assert.Equal(t, 1, result.Items[0].Position)
	assert.Equal(t, "500.00", result.Items[0].Amount.StringFixed(2))
	assert.Equal(t, "42.37", result.Items[0].Share.StringFixed(2))
	assert.Equal(t, "500.00", result.Items[1].Amount.StringFixed(2))
	assert.Equal(t, models.ProjectNone, result.Items[0].Project)
}

func TestExtractDocumentIDSkipsSignatureIDs(t *testing.T) {
	// The invoice's own ID must win over the identically named elements
	// inside the signature and party blocks, wherever they appear.
	doc, err := Parse(strings.NewReader(sampleInvoice))
	require.NoError(t, err)

	assert.Equal(t, "F001-45", ExtractDocumentID(doc))
}

func TestExtractMissingFieldsDegradeToEmpty(t *testing.T) {
	minimal := `<?xml version="1.0"?><Invoice><ID>F001-1</ID></Invoice>`

	result, err := NewExtractor().Extract(strings.NewReader(minimal))
	require.NoError(t, err)

	h := result.Header
	assert.Equal(t, "F001", h.Series)
	assert.Empty(t, h.SupplierRUC)
	assert.Empty(t, h.Currency)
	assert.True(t, h.TotalAmount.IsZero())
	assert.Empty(t, h.DetractionPercent)
	assert.Empty(t, result.Items)
}

func TestExtractFallsBackToPayableAmount(t *testing.T) {
	xml := `<Invoice><ID>F001-1</ID>
		<LegalMonetaryTotal><PayableAmount>590.00</PayableAmount></LegalMonetaryTotal>
	</Invoice>`

	result, err := NewExtractor().Extract(strings.NewReader(xml))
	require.NoError(t, err)
	assert.Equal(t, "590.00", result.Header.TotalAmount.StringFixed(2))
}

func TestSplitDocumentID(t *testing.T) {
	tests := []struct {
		id       string
		series   string
		sequence string
	}{
		{"F001-45", "F001", "00000045"},
		{"E001-00000045", "E001", "00000045"},
		{"EB01-12345678", "EB01", "12345678"},
		{"F001-4B5", "F001", "00000045"}, // non-digits stripped
		{"SINGUION", "", ""},
		{"", "", ""},
	}

	for _, tt := range tests {
		series, sequence := SplitDocumentID(tt.id)
		assert.Equal(t, tt.series, series, "id %q", tt.id)
		assert.Equal(t, tt.sequence, sequence, "id %q", tt.id)
	}
}

func TestNormalizeCurrency(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"PEN", "PEN"},
		{"SOL", "PEN"},
		{"Soles", "PEN"},
		{"USD", "USD"},
		{"DOLAR", "USD"},
		{"US Dollar", "USD"},
		{"EUR", "EUR"},
		{"eur", "EUR"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeCurrency(tt.raw), "raw %q", tt.raw)
		// Normalization must be idempotent.
		assert.Equal(t, tt.want, NormalizeCurrency(NormalizeCurrency(tt.raw)), "raw %q", tt.raw)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := Parse(strings.NewReader("this is not xml at all <<<"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnparsableDocument)
}

func TestParseToleratesBOMAndComments(t *testing.T) {
	input := "\xEF\xBB\xBF<?xml version=\"1.0\"?><!-- emitted by SUNAT portal --><Invoice><ID>F001-9</ID></Invoice>"

	doc, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, "F001-9", ExtractDocumentID(doc))
}

func TestFindIgnoresNamespacePrefixes(t *testing.T) {
	withPrefix := `<a:Invoice xmlns:a="urn:x" xmlns:b="urn:y"><b:IssueDate>2025-01-02</b:IssueDate></a:Invoice>`

	doc, err := Parse(strings.NewReader(withPrefix))
	require.NoError(t, err)
	assert.Equal(t, "2025-01-02", doc.Root().Value("IssueDate"))
}
