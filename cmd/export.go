package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"facturas/internal/config"
	"facturas/internal/export"
	"facturas/internal/logger"
	"facturas/internal/refdata"
	"facturas/internal/session"
)

var (
	exportFormat string
	exportDir    string
	exportForce  bool
)

var exportCmd = &cobra.Command{
	Use:   "export [backup-json]",
	Short: "Build the payment request deliverables from a session backup",
	Long: `Load a session backup JSON, validate it and render the requested
deliverable: the summary workbook, the ERP import workbook, or the ZIP
bundle carrying both plus the backup itself.

The supplier's registry number for the ERP sheet is looked up in the
reference data when a source is configured; otherwise the column is
left empty.`,
	Example: `  # Full bundle into the current directory
  facturas export Backup_F001-00012345.json

  # Only the ERP workbook, into a target directory
  facturas export Backup_F001-00012345.json --format erp --dir ./out

  # Export despite validation issues
  facturas export Backup_F001-00012345.json --force`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	const op = "runExport"

	log := logger.WithComponent("export")
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("%s: failed to read %s: %w", op, args[0], err)
	}

	sess, err := session.LoadBackup(data)
	if err != nil {
		return fmt.Errorf("%s: failed to load session backup: %w", op, err)
	}

	if issues := sess.Validate(); len(issues) > 0 {
		msgs := make([]string, 0, len(issues))
		for _, issue := range issues {
			msgs = append(msgs, issue.Error())
		}
		if !exportForce {
			return fmt.Errorf("%s: session is not exportable: %s", op, strings.Join(msgs, "; "))
		}
		log.Warn().
			Strs("issues", msgs).
			Msg("Exporting despite validation issues")
	}

	snap := sess.Snapshot()
	now := time.Now()

	dir := exportDir
	if dir == "" {
		if cfg, err := config.Load(); err == nil {
			dir = cfg.ExportDir
		} else {
			dir = "."
		}
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%s: failed to create output directory: %w", op, err)
	}

	oracleNumber := lookupOracleNumber(ctx, snap.Header.SupplierRUC)
	exporter := export.NewExporter()

	var outPath string
	switch exportFormat {
	case "summary":
		wb, err := exporter.SummaryWorkbook(snap)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		outPath = filepath.Join(dir, export.SummaryFileName(snap))
		if err := wb.SaveAs(outPath); err != nil {
			return fmt.Errorf("%s: failed to save %s: %w", op, outPath, err)
		}

	case "erp":
		wb, err := exporter.ERPWorkbook(snap, oracleNumber, now)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		outPath = filepath.Join(dir, export.ERPFileName(snap))
		if err := wb.SaveAs(outPath); err != nil {
			return fmt.Errorf("%s: failed to save %s: %w", op, outPath, err)
		}

	case "bundle":
		outPath = filepath.Join(dir, export.BundleFileName(snap, now))
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("%s: failed to create %s: %w", op, outPath, err)
		}
		defer f.Close()
		backup, err := sess.MarshalBackup()
		if err != nil {
			return fmt.Errorf("%s: failed to serialize session: %w", op, err)
		}
		if err := exporter.Bundle(f, snap, backup, oracleNumber, now); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

	default:
		return fmt.Errorf("%s: unknown format %q (want summary, erp or bundle)", op, exportFormat)
	}

	log.Info().
		Str("document", snap.Header.DocumentNumber()).
		Str("format", exportFormat).
		Str("output", outPath).
		Msg("Export complete")
	fmt.Printf("Wrote %s\n", outPath)

	return nil
}

// lookupOracleNumber resolves the supplier's accounting-system number
// from the reference data. Any failure degrades to an empty number.
func lookupOracleNumber(ctx context.Context, ruc string) string {
	log := logger.WithComponent("export")

	catalog, err := loadCatalog(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Reference data unavailable, supplier number left empty")
		return ""
	}
	return catalog.SupplierOracleNumber(ruc)
}

// loadCatalog builds the reference data catalog from whichever source
// the configuration names.
func loadCatalog(ctx context.Context) (*refdata.Catalog, error) {
	const op = "loadCatalog"

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var source refdata.Source
	switch {
	case cfg.RefdataSheetURL != "":
		source, err = refdata.NewSheetsSource(ctx, cfg.RefdataSheetURL)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	case cfg.RefdataWorkbook != "":
		source = refdata.NewWorkbookSource(cfg.RefdataWorkbook)
	}

	catalog := refdata.NewCatalog(source, logger.WithComponent("refdata"))
	if err := catalog.Load(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return catalog, nil
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "bundle", "Deliverable to build: summary, erp or bundle")
	exportCmd.Flags().StringVarP(&exportDir, "dir", "d", "", "Output directory (default: EXPORT_DIR or current directory)")
	exportCmd.Flags().BoolVar(&exportForce, "force", false, "Export even when validation reports issues")
	rootCmd.AddCommand(exportCmd)
}
