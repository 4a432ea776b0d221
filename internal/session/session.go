// Package session owns one invoice intake session: the header, the line
// items and the derived other-charges allocation. Every mutating operation
// leaves the set fully consistent before returning; there is no partial or
// asynchronous state. The amount/share pair of an item is directional per
// call — SetItemAmount derives the share, SetItemShare derives the amount —
// so edits never re-trigger each other.
package session

import (
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"facturas/internal/logger"
	"facturas/pkg/models"
)

// DefaultTaxRate is the standard IGV percentage for domestic invoices.
var DefaultTaxRate = decimal.NewFromInt(18)

var hundred = decimal.NewFromInt(100)

// Session is one invoice intake in progress.
type Session struct {
	Header models.InvoiceHeader
	Items  []*models.LineItem

	// OtherCharges is the ancillary total entered by the clerk; Charges is
	// its proportional split across the items, rebuilt on every change.
	OtherCharges decimal.Decimal
	Charges      []models.ChargeAllocation

	log zerolog.Logger
}

// New creates an empty session with domestic defaults.
func New() *Session {
	return &Session{
		Header: models.InvoiceHeader{
			Nationality: models.NationalityDomestic,
			TaxRate:     DefaultTaxRate,
		},
		log: logger.WithComponent("session"),
	}
}

// FromExtraction creates a session seeded with an extracted header and its
// initial line items.
func FromExtraction(header models.InvoiceHeader, items []models.LineItem) *Session {
	s := New()
	s.Header = header
	if s.Header.TaxRate.IsZero() && header.Nationality == models.NationalityDomestic {
		s.Header.TaxRate = DefaultTaxRate
	}
	for i := range items {
		it := items[i]
		s.Items = append(s.Items, &it)
	}
	s.rebuildCharges()
	return s
}

// Item returns the line item at the given 1-based position, nil if out of
// range.
func (s *Session) Item(position int) *models.LineItem {
	if position < 1 || position > len(s.Items) {
		return nil
	}
	return s.Items[position-1]
}

// SetBaseAndRate sets the taxable base and the IGV percentage, recomputes
// the tax amount and redistributes every item's share against the new base.
func (s *Session) SetBaseAndRate(base, ratePercent decimal.Decimal) {
	s.Header.TaxableBase = base
	s.Header.TaxRate = ratePercent
	s.Header.TaxAmount = base.Mul(ratePercent).Div(hundred).Round(2)
	s.RedistributeShares()
}

// RedistributeShares recomputes share = amount / base * 100 for every item.
// Amounts are the independent variable in this direction and are left
// untouched. With a non-positive base every share is zero.
func (s *Session) RedistributeShares() {
	base := s.Header.TaxableBase
	for _, it := range s.Items {
		if base.IsPositive() {
			it.Share = it.Amount.Div(base).Mul(hundred).Round(2)
		} else {
			it.Share = decimal.Zero
		}
	}
	s.rebuildCharges()
}

// SetItemAmount sets the item's amount and derives its share from the
// current base.
func (s *Session) SetItemAmount(item *models.LineItem, amount decimal.Decimal) {
	item.Amount = amount.Round(2)
	if s.Header.TaxableBase.IsPositive() {
		item.Share = item.Amount.Div(s.Header.TaxableBase).Mul(hundred).Round(2)
	} else {
		item.Share = decimal.Zero
	}
	s.rebuildCharges()
}

// SetItemShare sets the item's share and derives its amount from the
// current base.
func (s *Session) SetItemShare(item *models.LineItem, sharePercent decimal.Decimal) {
	item.Share = sharePercent.Round(2)
	item.Amount = s.Header.TaxableBase.Mul(item.Share).Div(hundred).Round(2)
	s.rebuildCharges()
}

// RecalculateFromTotal back-solves the taxable base from a manually entered
// grand total: base = (total - otherCharges) / (1 + rate/100). A zero rate
// uses divisor 1. Fails without mutating anything when the other charges
// exceed the total; that is operator input error, not a state to clamp.
func (s *Session) RecalculateFromTotal(totalInclusive, otherCharges, ratePercent decimal.Decimal) error {
	divisor := decimal.NewFromInt(1)
	if !ratePercent.IsZero() {
		divisor = divisor.Add(ratePercent.Div(hundred))
	}
	base := totalInclusive.Sub(otherCharges).Div(divisor).Round(2)
	if base.IsNegative() {
		return &ValidationError{
			Field:   "otrosCargos",
			Message: "other charges exceed the invoice total",
		}
	}

	s.Header.TotalAmount = totalInclusive
	s.OtherCharges = otherCharges
	s.SetBaseAndRate(base, ratePercent)

	s.log.Debug().
		Str("total", totalInclusive.StringFixed(2)).
		Str("base", base.StringFixed(2)).
		Str("rate", ratePercent.String()).
		Msg("Base back-solved from invoice total")
	return nil
}

// AddItem appends a line item at the next position. With a non-nil initial
// amount its share is derived from the current base; otherwise both fields
// start at zero pending user input.
func (s *Session) AddItem(initialAmount *decimal.Decimal) *models.LineItem {
	item := &models.LineItem{
		Position: len(s.Items) + 1,
		Project:  models.ProjectNone,
	}
	s.Items = append(s.Items, item)
	if initialAmount != nil {
		s.SetItemAmount(item, *initialAmount)
	} else {
		s.rebuildCharges()
	}
	return item
}

// RemoveItem deletes the item at the given 1-based position and renumbers
// the survivors starting at 1 in list order.
func (s *Session) RemoveItem(position int) {
	if position < 1 || position > len(s.Items) {
		return
	}
	s.Items = append(s.Items[:position-1], s.Items[position:]...)
	for i, it := range s.Items {
		it.Position = i + 1
	}
	s.rebuildCharges()
}

// SetItemCount replaces the whole item list with n items splitting the
// given base evenly. Prior manual edits are intentionally discarded; this
// is the bulk entry path.
func (s *Session) SetItemCount(n int, base decimal.Decimal) {
	s.Items = nil
	if n <= 0 {
		s.rebuildCharges()
		return
	}

	perItem := base.Div(decimal.NewFromInt(int64(n))).Round(2)
	for i := 0; i < n; i++ {
		share := decimal.Zero
		if base.IsPositive() {
			share = perItem.Div(base).Mul(hundred).Round(2)
		}
		s.Items = append(s.Items, &models.LineItem{
			Position: i + 1,
			Amount:   perItem,
			Share:    share,
			Project:  models.ProjectNone,
		})
	}
	s.rebuildCharges()
}

// SetOtherCharges sets the ancillary total and rebuilds its allocation.
func (s *Session) SetOtherCharges(total decimal.Decimal) {
	s.OtherCharges = total
	s.rebuildCharges()
}

// SetItemBusinessLine assigns a business line. Changing it invalidates the
// dependent selections, so cost center and project reset to their defaults.
func (s *Session) SetItemBusinessLine(item *models.LineItem, code string) {
	if item.BusinessLine == code {
		return
	}
	item.BusinessLine = code
	item.CostCenter = ""
	item.Project = models.ProjectNone
	s.rebuildCharges()
}

// SetItemCostCenter assigns a cost center and resets the dependent project.
func (s *Session) SetItemCostCenter(item *models.LineItem, code string) {
	if item.CostCenter == code {
		return
	}
	item.CostCenter = code
	item.Project = models.ProjectNone
	s.rebuildCharges()
}

// SetItemProject assigns a project.
func (s *Session) SetItemProject(item *models.LineItem, code string) {
	if code == "" {
		code = models.ProjectNone
	}
	item.Project = code
	s.rebuildCharges()
}

// ItemTotals returns the sums of the items' amounts and shares.
func (s *Session) ItemTotals() (amount, share decimal.Decimal) {
	for _, it := range s.Items {
		amount = amount.Add(it.Amount)
		share = share.Add(it.Share)
	}
	return amount, share
}

// rebuildCharges discards and rebuilds the other-charges allocation,
// one entry per current item in item order. Merging instead of rebuilding
// would leave stale entries behind after items are added or removed.
func (s *Session) rebuildCharges() {
	s.Charges = nil
	if !s.OtherCharges.IsPositive() {
		return
	}
	for _, it := range s.Items {
		s.Charges = append(s.Charges, models.ChargeAllocation{
			Amount:       s.OtherCharges.Mul(it.Share).Div(hundred).Round(2),
			Share:        it.Share,
			BusinessLine: it.BusinessLine,
			CostCenter:   it.CostCenter,
			Project:      it.Project,
		})
	}
}
