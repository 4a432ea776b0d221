package session

import "facturas/pkg/models"

// Snapshot assembles the immutable export projection of the session: deep
// copies of the header, items and charge allocations plus the export-only
// derived fields. Built fresh on every export call and never stored.
func (s *Session) Snapshot() *models.ExportSnapshot {
	snap := &models.ExportSnapshot{
		Header:            s.Header,
		Charges:           append([]models.ChargeAllocation(nil), s.Charges...),
		OtherCharges:      s.OtherCharges,
		TaxInclusiveTotal: s.Header.TotalAmount,
		AccountCode:       StripCode(s.Header.Account),
		InvoiceTypeCode:   StripCode(s.Header.InvoiceType),
	}

	for _, it := range s.Items {
		snap.Items = append(snap.Items, *it)
		snap.TaxExclusiveTotal = snap.TaxExclusiveTotal.Add(it.Amount)
	}

	return snap
}
