package ubl

import (
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"facturas/internal/logger"
	"facturas/pkg/models"
)

// Containers whose ID elements name other entities (the digital signature,
// the supplier) rather than the invoice itself.
var idExcludedContainers = []string{
	"Signature",
	"AccountingSupplierParty",
	"DigitalSignatureAttachment",
}

// Extractor turns a parsed UBL document into an initial invoice session
// record. It is stateless; one instance serves any number of documents.
type Extractor struct {
	log zerolog.Logger
}

// NewExtractor creates an Extractor.
func NewExtractor() *Extractor {
	return &Extractor{log: logger.WithComponent("ubl-extractor")}
}

// Result is the flat record produced from one document: the header plus the
// initial line items derived from the invoice lines.
type Result struct {
	Header models.InvoiceHeader
	Items  []models.LineItem
}

// Extract parses and extracts an invoice in one call.
func (x *Extractor) Extract(r io.Reader) (*Result, error) {
	doc, err := Parse(r)
	if err != nil {
		return nil, err
	}
	return x.ExtractDocument(doc), nil
}

// ExtractDocument extracts the invoice record from an already-parsed tree.
// Every missing field degrades to its zero value; this never fails.
func (x *Extractor) ExtractDocument(doc *Document) *Result {
	root := doc.Root()

	series, sequence := SplitDocumentID(ExtractDocumentID(doc))

	// Prefer the tax-inclusive amount; older issuers only fill PayableAmount.
	total := root.Value("TaxInclusiveAmount")
	if total == "" {
		total = root.Value("PayableAmount")
	}

	base := root.Value("TaxableAmount")
	if base == "" {
		base = root.Value("LineExtensionAmount")
	}

	header := models.InvoiceHeader{
		SupplierRUC:       x.supplierRUC(root),
		SupplierName:      root.Value("RegistrationName"),
		Currency:          NormalizeCurrency(root.Value("DocumentCurrencyCode")),
		Nationality:       models.NationalityDomestic,
		IssueDate:         root.Value("IssueDate"),
		DueDate:           root.Value("DueDate"),
		Series:            series,
		Sequence:          sequence,
		TotalAmount:       models.ParseAmount(total),
		TaxableBase:       models.ParseAmount(base),
		TaxAmount:         models.ParseAmount(root.Value("TaxAmount")),
		DetractionPercent: x.detractionPercent(root),
	}

	switch header.Currency {
	case models.CurrencyPEN:
		header.PaymentCurrency = models.PaymentSolesDomestic
	case models.CurrencyUSD:
		// Domestic by default; the clerk flips to foreign when applicable.
		header.PaymentCurrency = models.PaymentDollarsDomestic
	}

	items := x.extractLineItems(root, header.TotalAmount)

	x.log.Info().
		Str("document", header.DocumentNumber()).
		Str("supplier_ruc", header.SupplierRUC).
		Str("currency", header.Currency).
		Str("total", header.TotalAmount.StringFixed(2)).
		Int("line_items", len(items)).
		Msg("Invoice extracted")

	return &Result{Header: header, Items: items}
}

// ExtractDocumentID locates the invoice's own identifier among the many ID
// elements in the document. An ID qualifies only when it is a direct child
// of the root element and none of its ancestors is a signature or
// supplier-party container; those substructures carry IDs naming other
// entities under the same tag name. Returns "" when no ID qualifies.
func ExtractDocumentID(doc *Document) string {
	root := doc.Root()
	for _, el := range root.FindAll("ID") {
		if el.Parent != root {
			continue
		}
		if el.hasAncestor(idExcludedContainers...) {
			continue
		}
		return el.Text()
	}
	return ""
}

// SplitDocumentID splits a raw invoice identifier such as "E001-45" into
// its series and its sequence, the sequence stripped of non-digits and
// left-padded to 8. Both come back empty when the ID has no separator.
func SplitDocumentID(id string) (series, sequence string) {
	idx := strings.Index(id, "-")
	if idx < 0 {
		return "", ""
	}
	series = id[:idx]
	sequence = PadSequence(id[idx+1:])
	return series, sequence
}

// PadSequence strips non-digit characters and left-pads the result to the
// 8-digit sequence format.
func PadSequence(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) >= 8 {
		return digits
	}
	return strings.Repeat("0", 8-len(digits)) + digits
}

// NormalizeCurrency maps free-form currency text onto the fixed PEN/USD
// pair. Unknown codes pass through uppercased, so the function is
// idempotent for already-normalized input.
func NormalizeCurrency(raw string) string {
	if raw == "" {
		return ""
	}
	upper := strings.ToUpper(strings.TrimSpace(raw))
	if strings.Contains(upper, "SOL") || upper == models.CurrencyPEN {
		return models.CurrencyPEN
	}
	if strings.Contains(upper, "DOLAR") || strings.Contains(upper, "DOLLAR") || upper == models.CurrencyUSD {
		return models.CurrencyUSD
	}
	return upper
}

// supplierRUC finds the supplier's tax ID inside the supplier-party block
// only. A global ID search would collide with the customer's and the
// signer's identifiers.
func (x *Extractor) supplierRUC(root *Element) string {
	supplier := root.Find("AccountingSupplierParty")
	if supplier == nil {
		return ""
	}
	return supplier.Value("ID")
}

// detractionPercent scans PaymentTerms blocks for the SUNAT detraction
// entry and returns its percentage, "" when the invoice carries none.
func (x *Extractor) detractionPercent(root *Element) string {
	for _, term := range root.FindAll("PaymentTerms") {
		if term.Value("ID") == "Detraccion" {
			return term.Value("PaymentPercent")
		}
	}
	return ""
}

// extractLineItems builds the initial line items from the InvoiceLine
// elements. Each item's amount is price times quantity and its share is the
// amount as a percentage of the invoice total, both at 2 decimal places.
func (x *Extractor) extractLineItems(root *Element, total decimal.Decimal) []models.LineItem {
	hundred := decimal.NewFromInt(100)

	var items []models.LineItem
	for i, line := range root.FindAll("InvoiceLine") {
		price := line.Value("PriceAmount")
		if price == "" {
			if alt := line.Find("AlternativeConditionPrice"); alt != nil {
				price = alt.Value("PriceAmount")
			}
		}

		quantity := models.ParseAmount(line.Value("InvoicedQuantity"))
		if quantity.IsZero() {
			quantity = decimal.NewFromInt(1)
		}

		amount := models.ParseAmount(price).Mul(quantity).Round(2)

		share := decimal.Zero
		if total.IsPositive() {
			share = amount.Div(total).Mul(hundred).Round(2)
		}

		items = append(items, models.LineItem{
			Position: i + 1,
			Amount:   amount,
			Share:    share,
			Project:  models.ProjectNone,
		})
	}
	return items
}
