package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"facturas/internal/logger"
	"facturas/internal/refdata"
)

var refdataCmd = &cobra.Command{
	Use:   "refdata [table]",
	Short: "List reference data tables and their entries",
	Long: `Inspect the configured reference data source. Without arguments the
command prints the cost-center hierarchy; with a table name it lists
that table's entries.

Tables: ` + refdata.TableDetractionPercents + `, ` + refdata.TableDetractionCodes + `, ` +
		refdata.TableAccounts + `, ` + refdata.TableInvoiceTypes + `, ` + refdata.TableSuppliers + `.`,
	Example: `  # Show the business line / cost center / project tree
  facturas refdata

  # List the chart-of-accounts entries
  facturas refdata CContables`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRefdata,
}

func runRefdata(cmd *cobra.Command, args []string) error {
	const op = "runRefdata"

	log := logger.WithComponent("refdata")
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	catalog, err := loadCatalog(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if len(args) == 1 {
		opts := catalog.Options(args[0])
		if len(opts) == 0 {
			log.Warn().Str("table", args[0]).Msg("Table is empty or unknown")
		}
		for _, opt := range opts {
			fmt.Printf("%s\t%s\n", opt.Value, opt.Label)
		}
		return nil
	}

	h := catalog.Hierarchy()
	for _, line := range h.BusinessLines() {
		fmt.Println(line)
		for _, cc := range h.CostCenters(line) {
			fmt.Printf("  %s  %s\n", cc, h.CostCenterDescription(cc))
			for _, project := range h.Projects(cc) {
				fmt.Printf("    %s  %s\n", project, h.ProjectDescription(project))
			}
		}
	}

	return nil
}

func init() {
	rootCmd.AddCommand(refdataCmd)
}
