package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"facturas/internal/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "facturas",
	Short: "Facturas CLI - UBL invoice intake for payment requests",
	Long: `Facturas CLI reads Peruvian UBL electronic invoices, keeps their
amounts, cost allocations and tax figures consistent, and produces the
workbooks and backups a payment request needs.

This application is built with Go and Cobra, making it easy to extend
with additional subcommands as needed.`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.WithComponent("root")
		log.Info().
			Str("version", version).
			Msg("Facturas CLI executed")

		fmt.Println("Welcome to Facturas CLI!")
		fmt.Println("Use --help to see available commands and options.")
	},
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print version information")
}
