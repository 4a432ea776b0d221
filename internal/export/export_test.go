package export

import (
	"archive/zip"
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facturas/pkg/models"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func testSnapshot() *models.ExportSnapshot {
	return &models.ExportSnapshot{
		Header: models.InvoiceHeader{
			SupplierRUC:    "20123456789",
			SupplierName:   "SERVICIOS GENERALES SAC",
			Currency:       models.CurrencyPEN,
			Nationality:    models.NationalityDomestic,
			IssueDate:      "2025-03-14",
			Series:         "F001",
			Sequence:       "00012345",
			TotalAmount:    dec("118.00"),
			TaxableBase:    dec("100.00"),
			TaxAmount:      dec("18.00"),
			TaxRate:        dec("18"),
			Description:    "Mantenimiento",
			DetractionCode: "22",
		},
		Items: []models.LineItem{
			{Position: 1, Amount: dec("60.00"), Share: dec("60.00"), BusinessLine: "10", CostCenter: "110100", Project: models.ProjectNone},
			{Position: 2, Amount: dec("40.00"), Share: dec("40.00"), BusinessLine: "20", CostCenter: "220300", Project: "P0001"},
		},
		TaxExclusiveTotal: dec("100.00"),
		TaxInclusiveTotal: dec("118.00"),
		AccountCode:       "6060011000",
		InvoiceTypeCode:   "01",
	}
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "14/03/2025", FormatDate("2025-03-14"))
	assert.Equal(t, "05/01/2025", FormatDate("2025-01-05"))
	// Non-ISO input passes through.
	assert.Equal(t, "14/03/2025", FormatDate("14/03/2025"))
	assert.Equal(t, "", FormatDate(""))
}

func TestFormatDateSpanish(t *testing.T) {
	tests := []struct {
		iso  string
		want string
	}{
		{"2025-01-05", "5 ENE"},
		{"2025-03-14", "14 MAR"},
		{"2025-12-31", "31 DIC"},
		{"garbage", "garbage"},
		{"2025-13-01", "2025-13-01"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDateSpanish(tt.iso), "iso %q", tt.iso)
	}
}

func TestFileNames(t *testing.T) {
	snap := testSnapshot()
	now := time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC)

	assert.Equal(t, "Resumen-Factura-F001-00012345.xlsx", SummaryFileName(snap))
	assert.Equal(t, "Formato_ERP_F001-00012345.xlsx", ERPFileName(snap))
	assert.Equal(t, "Archivos_F001-00012345_2025-03-14T10-30-00-000Z.zip", BundleFileName(snap, now))
}

func TestAdditionalInfo(t *testing.T) {
	assert.Equal(t, "...01....5.01.022.......", additionalInfo("22"))
	assert.Equal(t, "...01....5.01.037.......", additionalInfo("037 - Demás servicios"))
	assert.Equal(t, "...01....5.01.000.......", additionalInfo(""))
}

func TestDistribution(t *testing.T) {
	item := models.ChargeAllocation{BusinessLine: "10", CostCenter: "110100", Project: "P0001"}
	assert.Equal(t, "E1.6060011000.10.110100.P0001.U00.00.00", distribution("6060011000", item))

	// Unselected segments become dots, never empty.
	empty := models.ChargeAllocation{}
	assert.Equal(t, "E1.........U00.00.00", distribution("", empty))
}

func TestSummaryWorkbook(t *testing.T) {
	snap := testSnapshot()
	snap.OtherCharges = dec("5.00")
	snap.Charges = []models.ChargeAllocation{
		{Amount: dec("3.00"), Share: dec("60.00"), BusinessLine: "10", CostCenter: "110100", Project: models.ProjectNone},
		{Amount: dec("2.00"), Share: dec("40.00"), BusinessLine: "20", CostCenter: "220300", Project: "P0001"},
	}

	wb, err := NewExporter().SummaryWorkbook(snap)
	require.NoError(t, err)
	defer wb.Close()

	title, err := wb.GetCellValue(summarySheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "Información de la Factura F001-00012345", title)

	ruc, err := wb.GetCellValue(summarySheet, "B4")
	require.NoError(t, err)
	assert.Equal(t, "20123456789", ruc)
}

func TestERPWorkbookRows(t *testing.T) {
	snap := testSnapshot()
	snap.Charges = []models.ChargeAllocation{
		{Amount: dec("5.00"), Share: dec("100.00"), BusinessLine: "10", CostCenter: "110100", Project: models.ProjectNone},
	}
	now := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)

	wb, err := NewExporter().ERPWorkbook(snap, "9876", now)
	require.NoError(t, err)
	defer wb.Close()

	get := func(ref string) string {
		v, err := wb.GetCellValue(erpSheet, ref)
		require.NoError(t, err)
		return v
	}

	// First allocation row repeats the invoice header.
	assert.Equal(t, operatingUnit, get("F9"))
	assert.Equal(t, "F001-00012345", get("H9"))
	assert.Equal(t, "PEN", get("I9"))
	assert.Equal(t, "14/03/2025", get("K9"))
	assert.Equal(t, "20123456789", get("M9"))
	assert.Equal(t, "9876", get("N9"))
	assert.Equal(t, "SERVICIOS GENERALES SAC Mantenimiento", get("Q9"))
	assert.Equal(t, "20/03/2025", get("W9"))
	assert.Equal(t, "...01....5.01.022.......", get("BX9"))
	assert.Equal(t, "E1.6060011000.10.110100.00000000000.U00.00.00", get("CS9"))

	// Items then charge rows, 1-based line numbers.
	assert.Equal(t, "1", get("CA9"))
	assert.Equal(t, "2", get("CA10"))
	assert.Equal(t, "3", get("CA11"))
	assert.Equal(t, "5", get("CC11"))
}

func TestBundleContainsAllDeliverables(t *testing.T) {
	snap := testSnapshot()
	now := time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC)
	backup := []byte(`{"basic":{}}`)

	var buf bytes.Buffer
	err := NewExporter().Bundle(&buf, snap, backup, "", now)
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.ElementsMatch(t, []string{
		"F001-00012345_2025-03-14T10-30-00-000Z.json",
		"Resumen-Factura-F001-00012345.xlsx",
		"Formato_ERP_F001-00012345.xlsx",
	}, names)
}
