package export

import (
	"archive/zip"
	"fmt"
	"io"
	"strings"
	"time"

	"facturas/pkg/models"
)

// BundleTimestamp renders the timestamp embedded in bundle file names,
// an ISO instant with the characters invalid in file names replaced.
func BundleTimestamp(now time.Time) string {
	iso := now.UTC().Format("2006-01-02T15:04:05.000Z")
	return strings.NewReplacer(":", "-", ".", "-").Replace(iso)
}

// BundleFileName returns the name of the ZIP produced by Bundle.
func BundleFileName(snap *models.ExportSnapshot, now time.Time) string {
	return fmt.Sprintf("Archivos_%s_%s.zip", snap.Header.DocumentNumber(), BundleTimestamp(now))
}

// Bundle writes a ZIP containing the JSON backup, the summary workbook
// and the ERP workbook for one invoice.
func (e *Exporter) Bundle(w io.Writer, snap *models.ExportSnapshot, backup []byte, oracleNumber string, now time.Time) error {
	const op = "Exporter.Bundle"

	doc := snap.Header.DocumentNumber()
	zw := zip.NewWriter(w)

	entry, err := zw.Create(fmt.Sprintf("%s_%s.json", doc, BundleTimestamp(now)))
	if err != nil {
		return fmt.Errorf("%s: failed to create backup entry: %w", op, err)
	}
	if _, err := entry.Write(backup); err != nil {
		return fmt.Errorf("%s: failed to write backup entry: %w", op, err)
	}

	summary, err := e.SummaryWorkbook(snap)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	entry, err = zw.Create(SummaryFileName(snap))
	if err != nil {
		return fmt.Errorf("%s: failed to create summary entry: %w", op, err)
	}
	if _, err := summary.WriteTo(entry); err != nil {
		return fmt.Errorf("%s: failed to write summary workbook: %w", op, err)
	}

	erp, err := e.ERPWorkbook(snap, oracleNumber, now)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	entry, err = zw.Create(ERPFileName(snap))
	if err != nil {
		return fmt.Errorf("%s: failed to create ERP entry: %w", op, err)
	}
	if _, err := erp.WriteTo(entry); err != nil {
		return fmt.Errorf("%s: failed to write ERP workbook: %w", op, err)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("%s: failed to finalize archive: %w", op, err)
	}

	e.log.Info().
		Str("document", doc).
		Msg("Export bundle written")

	return nil
}
