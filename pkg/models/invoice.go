package models

import "github.com/shopspring/decimal"

// Nationality classifies an invoice as issued by a domestic or a foreign
// supplier. Foreign invoices carry no IGV and no detraction.
type Nationality string

const (
	NationalityDomestic Nationality = "nacional"
	NationalityForeign  Nationality = "extranjera"
)

// Payment-currency subtypes. PEN invoices are always domestic; USD invoices
// may be domestic or foreign.
const (
	PaymentSolesDomestic   = "SOLES-NACIONAL"
	PaymentDollarsDomestic = "DOLARES-NACIONAL"
	PaymentDollarsForeign  = "DOLARES-EXTERIOR"
)

// Currency codes after normalization.
const (
	CurrencyPEN = "PEN"
	CurrencyUSD = "USD"
)

// ProjectNone is the sentinel meaning "no project assigned" in the cost
// allocation hierarchy.
const ProjectNone = "00000000000"

// DescriptionMaxLen caps the free-text description carried into the ERP
// distribution rows.
const DescriptionMaxLen = 25

type InvoiceHeader struct {
	// Supplier
	SupplierRUC  string // 11-digit tax ID
	SupplierName string // legal name (RegistrationName)

	// Currency and nationality
	Currency        string      // PEN or USD after normalization
	Nationality     Nationality // domestic or foreign
	PaymentCurrency string      // SOLES-NACIONAL, DOLARES-NACIONAL or DOLARES-EXTERIOR

	// Dates (raw ISO strings as extracted, not reparsed)
	IssueDate string
	DueDate   string

	// Document number: Series-Sequence, sequence zero-padded to 8 digits.
	// Series is exactly 4 alphanumeric characters for domestic invoices.
	Series   string
	Sequence string

	// Amounts
	TotalAmount decimal.Decimal // tax-inclusive grand total
	TaxableBase decimal.Decimal // tax-exclusive base
	TaxAmount   decimal.Decimal // IGV
	TaxRate     decimal.Decimal // IGV percentage, 0 for exempt/foreign

	// Requester metadata
	Requester     string
	RequesterArea string
	Description   string // bounded to DescriptionMaxLen

	// Detraction (domestic invoices only)
	DetractionCode    string
	DetractionPercent string

	// License validity, required only for allow-listed accounts
	LicenseStart string
	LicenseEnd   string

	// Accounting selections; may carry a " - description" suffix until export
	Account     string
	InvoiceType string
}

// DocumentNumber returns the composite Series-Sequence identifier.
func (h *InvoiceHeader) DocumentNumber() string {
	return h.Series + "-" + h.Sequence
}

// LineItem is one cost-allocation row of the invoice. Amount and Share are
// kept mutually consistent against the header's taxable base by the session.
type LineItem struct {
	Position     int             // 1-based ordinal
	Amount       decimal.Decimal // tax-exclusive, 2 dp
	Share        decimal.Decimal // percentage of the taxable base, 2 dp
	BusinessLine string
	CostCenter   string
	Project      string // ProjectNone when unassigned
}

// ChargeAllocation is one row of the proportional split of the other-charges
// total across the current line items. The list is derived state: it is
// rebuilt whole on every recomputation, never patched.
type ChargeAllocation struct {
	Amount       decimal.Decimal
	Share        decimal.Decimal
	BusinessLine string
	CostCenter   string
	Project      string
}

// ExportSnapshot is an immutable projection of the session assembled for one
// export call. Code fields are stripped of their description suffixes.
type ExportSnapshot struct {
	Header       InvoiceHeader
	Items        []LineItem
	Charges      []ChargeAllocation
	OtherCharges decimal.Decimal

	// Export-only derived fields
	TaxExclusiveTotal decimal.Decimal // sum of item amounts
	TaxInclusiveTotal decimal.Decimal // header total
	AccountCode       string          // Account without description suffix
	InvoiceTypeCode   string          // InvoiceType without description suffix
}

// AllRows returns line items followed by charge allocations as one ordered
// export list, the row layout both workbook builders consume.
func (s *ExportSnapshot) AllRows() []ChargeAllocation {
	rows := make([]ChargeAllocation, 0, len(s.Items)+len(s.Charges))
	for _, it := range s.Items {
		rows = append(rows, ChargeAllocation{
			Amount:       it.Amount,
			Share:        it.Share,
			BusinessLine: it.BusinessLine,
			CostCenter:   it.CostCenter,
			Project:      it.Project,
		})
	}
	rows = append(rows, s.Charges...)
	return rows
}
