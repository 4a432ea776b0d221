// Package export renders an invoice session snapshot into the three
// deliverables of a payment request: a summary workbook, an ERP import
// workbook and a ZIP bundle that also carries the JSON backup.
package export

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"facturas/internal/logger"
	"facturas/pkg/models"
)

const summarySheet = "Sheet1"

// Exporter builds workbooks from export snapshots.
type Exporter struct {
	log zerolog.Logger
}

func NewExporter() *Exporter {
	return &Exporter{log: logger.WithComponent("export")}
}

// SummaryFileName returns the file name of the summary workbook.
func SummaryFileName(snap *models.ExportSnapshot) string {
	return fmt.Sprintf("Resumen-Factura-%s.xlsx", snap.Header.DocumentNumber())
}

// SummaryWorkbook renders the human-readable request summary: header
// fields, requester details, the allocation table with totals, and the
// with/without-tax amounts.
func (e *Exporter) SummaryWorkbook(snap *models.ExportSnapshot) (*excelize.File, error) {
	const op = "Exporter.SummaryWorkbook"

	f := excelize.NewFile()

	widths := map[string]float64{"A": 25, "B": 40, "C": 15, "D": 25, "E": 25, "F": 25}
	for col, w := range widths {
		if err := f.SetColWidth(summarySheet, col, col, w); err != nil {
			return nil, fmt.Errorf("%s: failed to set column width: %w", op, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create style: %w", op, err)
	}
	right, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "right"},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create style: %w", op, err)
	}
	boldRight, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "right"},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create style: %w", op, err)
	}

	setBold := func(cell string, v interface{}) {
		f.SetCellValue(summarySheet, cell, v)
		f.SetCellStyle(summarySheet, cell, cell, bold)
	}
	setRight := func(cell string, v interface{}) {
		f.SetCellValue(summarySheet, cell, v)
		f.SetCellStyle(summarySheet, cell, cell, right)
	}

	h := snap.Header
	row := 2

	setBold(cell("A", row), fmt.Sprintf("Información de la Factura %s", h.DocumentNumber()))
	row += 2

	basicInfo := []struct {
		label string
		value interface{}
	}{
		{"RUC:", h.SupplierRUC},
		{"Razón Social:", h.SupplierName},
		{"Moneda:", h.Currency},
		{"Fecha Emisión:", h.IssueDate},
		{"N° Comprobante:", h.DocumentNumber()},
		{"Importe Total (Con IGV):", h.TotalAmount.StringFixed(2)},
		{"Cuenta Contable:", snap.AccountCode},
		{"Tipo de Factura:", snap.InvoiceTypeCode},
	}
	for _, info := range basicInfo {
		setBold(cell("A", row), info.label)
		setRight(cell("B", row), info.value)
		row++
	}
	row += 2

	setBold(cell("A", row), "Información Adicional")
	row += 2

	additionalInfo := []struct {
		label string
		value string
	}{
		{"Solicitante:", h.Requester},
		{"Área Solicitante:", h.RequesterArea},
		{"Código de Detracción:", h.DetractionCode},
		{"Porcentaje Detracción:", h.DetractionPercent},
		{"Fecha Inicio Licencia:", orNotApplicable(h.LicenseStart)},
		{"Fecha Fin Licencia:", orNotApplicable(h.LicenseEnd)},
		{"Porcentaje IGV:", h.TaxRate.String() + "%"},
	}
	for _, info := range additionalInfo {
		setBold(cell("A", row), info.label)
		setRight(cell("B", row), info.value)
		row++
	}
	row += 2

	setBold(cell("A", row), "Detalle de Items")
	row += 2

	headers := []string{"N°", "Base Imponible", "Porcentaje (%)", "Línea de Negocio", "Centro de Costo", "Proyecto"}
	for i, header := range headers {
		setBold(cell(string(rune('A'+i)), row), header)
	}
	row++

	sumAmount := decimal.Zero
	sumShare := decimal.Zero
	for i, item := range snap.Items {
		f.SetCellValue(summarySheet, cell("A", row), i+1)
		setRight(cell("B", row), item.Amount.InexactFloat64())
		setRight(cell("C", row), item.Share.InexactFloat64())
		f.SetCellValue(summarySheet, cell("D", row), item.BusinessLine)
		f.SetCellValue(summarySheet, cell("E", row), item.CostCenter)
		f.SetCellValue(summarySheet, cell("F", row), item.Project)
		row++

		sumAmount = sumAmount.Add(item.Amount)
		sumShare = sumShare.Add(item.Share)
	}

	row++
	setBold(cell("A", row), "Total:")
	f.SetCellValue(summarySheet, cell("B", row), sumAmount.StringFixed(2))
	f.SetCellStyle(summarySheet, cell("B", row), cell("B", row), boldRight)
	f.SetCellValue(summarySheet, cell("C", row), sumShare.StringFixed(2)+"%")
	f.SetCellStyle(summarySheet, cell("C", row), cell("C", row), boldRight)
	row += 2

	setBold(cell("A", row), "Importe SIN IGV (-18%):")
	setRight(cell("B", row), snap.TaxExclusiveTotal.StringFixed(2))
	row++
	setBold(cell("A", row), "Importe CON IGV:")
	setRight(cell("B", row), snap.TaxInclusiveTotal.StringFixed(2))

	if snap.OtherCharges.IsPositive() {
		row++
		setBold(cell("A", row), "Otros Cargos:")
		setRight(cell("B", row), snap.OtherCharges.StringFixed(2))
	}

	e.log.Debug().
		Str("document", h.DocumentNumber()).
		Int("items", len(snap.Items)).
		Msg("Summary workbook built")

	return f, nil
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

func orNotApplicable(s string) string {
	if s == "" {
		return "No aplica"
	}
	return s
}
