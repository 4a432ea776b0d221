package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"facturas/pkg/models"
)

const (
	erpSheet    = "MACRO ORACLE"
	erpFirstRow = 9

	operatingUnit = "UNIVERSIDAD ESAN BU"
	erpOperator   = "EYARASCA"
	invoiceClass  = "Estándar"
	rateType      = "TC Venta"
	erpCountry    = "Peru"
)

// ERPFileName returns the file name of the ERP import workbook.
func ERPFileName(snap *models.ExportSnapshot) string {
	return fmt.Sprintf("Formato_ERP_%s.xlsx", snap.Header.DocumentNumber())
}

// ERPWorkbook renders the accounting-system import sheet: one row per
// allocation (line items followed by other-charge rows), each repeating
// the invoice header columns and carrying its own amount, distribution
// combination and additional-information string. oracleNumber is the
// supplier's registry number in the accounting system; empty when the
// supplier is not registered yet.
func (e *Exporter) ERPWorkbook(snap *models.ExportSnapshot, oracleNumber string, now time.Time) (*excelize.File, error) {
	const op = "Exporter.ERPWorkbook"

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", erpSheet); err != nil {
		return nil, fmt.Errorf("%s: failed to name sheet: %w", op, err)
	}

	h := snap.Header
	issueDate := FormatDate(h.IssueDate)
	today := FormatToday(now)
	description := strings.TrimSpace(h.SupplierName + " " + h.Description)
	infoAdicional := additionalInfo(h.DetractionCode)

	set := func(col string, row int, v interface{}) {
		f.SetCellValue(erpSheet, cell(col, row), v)
	}

	for i, item := range snap.AllRows() {
		row := erpFirstRow + i

		set("E", row, "1")
		set("F", row, operatingUnit)
		set("G", row, erpOperator)
		set("H", row, h.DocumentNumber())
		set("I", row, h.Currency)
		set("J", row, h.TotalAmount.InexactFloat64())
		set("K", row, issueDate)
		set("L", row, h.SupplierName)
		set("M", row, h.SupplierRUC)
		set("N", row, oracleNumber)
		set("P", row, invoiceClass)
		set("Q", row, description)

		set("W", row, today)
		set("X", row, today)

		set("AG", row, rateType)
		set("AH", row, issueDate)

		set("BW", row, erpCountry)
		set("BX", row, infoAdicional)

		set("CA", row, i+1)
		set("CB", row, "Ítem")
		set("CC", row, item.Amount.InexactFloat64())
		set("CG", row, description)
		set("CS", row, distribution(snap.AccountCode, item))
	}

	e.log.Debug().
		Str("document", h.DocumentNumber()).
		Int("rows", len(snap.Items)+len(snap.Charges)).
		Msg("ERP workbook built")

	return f, nil
}

// distribution builds the segment string the accounting system expects,
// with a dot standing in for any unselected segment.
func distribution(accountCode string, item models.ChargeAllocation) string {
	return fmt.Sprintf("E1.%s.%s.%s.%s.U00.00.00",
		orDot(accountCode),
		orDot(item.BusinessLine),
		orDot(item.CostCenter),
		orDot(item.Project),
	)
}

// additionalInfo builds the fixed-position additional-information
// string; the only variable segment is the three-digit detraction code.
// The code may still carry a " - description" suffix from selection.
func additionalInfo(detractionCode string) string {
	code := strings.TrimSpace(strings.SplitN(detractionCode, " - ", 2)[0])
	for len(code) < 3 {
		code = "0" + code
	}
	return fmt.Sprintf("...01....5.01.%s.......", code)
}

func orDot(s string) string {
	if s == "" {
		return "."
	}
	return s
}
