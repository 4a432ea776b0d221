package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"facturas/internal/logger"
	"facturas/internal/session"
	"facturas/internal/ubl"
)

var extractOutput string

var extractCmd = &cobra.Command{
	Use:   "extract [xml-file]",
	Short: "Extract invoice data from a SUNAT UBL XML document",
	Long: `Parse a UBL electronic invoice and extract its header fields and
line items: supplier RUC and name, document number, issue date,
currency, totals, tax breakdown and detraction percentage.

The extractor tolerates the namespace and structural variations seen
across issuers; fields that cannot be found are left empty rather than
aborting. The result is written as a session backup JSON that the
export command and the form accept.`,
	Example: `  # Extract to stdout
  facturas extract 20100038146-01-F001-00012345.xml

  # Save the session backup next to the source file
  facturas extract factura.xml -o Backup_F001-00012345.json`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	const op = "runExtract"

	log := logger.WithComponent("extract")
	path := args[0]

	log.Info().Str("file", path).Msg("Extracting invoice data")

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%s: failed to open %s: %w", op, path, err)
	}
	defer f.Close()

	result, err := ubl.NewExtractor().Extract(f)
	if err != nil {
		return fmt.Errorf("%s: extraction failed: %w", op, err)
	}

	sess := session.FromExtraction(result.Header, result.Items)
	data, err := sess.MarshalBackup()
	if err != nil {
		return fmt.Errorf("%s: failed to serialize session: %w", op, err)
	}

	if extractOutput == "" {
		fmt.Println(string(data))
		return nil
	}

	if err := os.WriteFile(extractOutput, data, 0644); err != nil {
		return fmt.Errorf("%s: failed to write %s: %w", op, extractOutput, err)
	}

	log.Info().
		Str("output", extractOutput).
		Str("document", result.Header.DocumentNumber()).
		Msg("Session backup written")
	fmt.Printf("Extracted %s -> %s\n", filepath.Base(path), extractOutput)

	if warnings := sess.Validate(); len(warnings) > 0 {
		msgs := make([]string, 0, len(warnings))
		for _, w := range warnings {
			msgs = append(msgs, w.Error())
		}
		log.Warn().
			Strs("issues", msgs).
			Msg("Extracted session has validation issues")
		fmt.Printf("Validation issues: %s\n", strings.Join(msgs, "; "))
	}

	return nil
}

func init() {
	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "", "Output file for the session backup JSON (default: stdout)")
	rootCmd.AddCommand(extractCmd)
}
