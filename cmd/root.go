// =============================================================================
// Sales Calculator - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command
// takes the catalogue and sales files and runs the computation.
//
// COBRA CLI STRUCTURE:
//   rootCmd (computesales <catalogue.json> <sales.json>)
//   └── versionCmd (computesales version)
//
// EXIT CODES:
//   0 - report produced (item-level errors and warnings do not change this)
//   1 - runtime failure: unreadable document, document not a list, bad
//       configuration, report could not be written
//   2 - usage error: wrong number of arguments or unknown flags
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ginjaninja78/computesales/internal/config"
	"github.com/ginjaninja78/computesales/internal/logging"
	"github.com/ginjaninja78/computesales/internal/pipeline"
	"github.com/spf13/cobra"
)

// Exit codes returned by Run.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// usageError marks errors caused by how the command was invoked.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// =============================================================================
// COMMAND OPTIONS
// =============================================================================

// options holds the values of the command-line flags.
type options struct {
	// cfgFile holds the path to the configuration file.
	cfgFile string

	// verbose enables debug logging.
	verbose bool

	// output overrides results_file from the configuration.
	output string

	// xlsx overrides workbook_file from the configuration.
	xlsx string

	// quiet suppresses the report on stdout.
	quiet bool
}

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// NewRootCmd builds the command tree. Each call returns an independent tree,
// so tests can run commands side by side.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "computesales <catalogue.json> <sales.json>",
		Short: "Compute total sales cost from a price catalogue and a sales record",
		Long: `computesales joins a product price catalogue with a list of sales records
and reports the total cost.

Malformed records are skipped and listed in the report:
  - Errors   : rows that could not be read (bad product, bad or negative quantity)
  - Warnings : rows for products that are not in the catalogue

The report is printed and written to SalesResults.txt (see --output). Its
header carries a Run ID that identifies the run; the same ID fills the {run}
placeholder in output paths and the workbook's Summary sheet.

Example Usage:
  computesales priceCatalogue.json salesRecord.json
  computesales -o out/results.txt --xlsx out/results.xlsx catalogue.json sales.json`,

		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return &usageError{fmt.Errorf("expected 2 arguments (catalogue, sales), got %d", len(args))}
			}
			return nil
		},

		SilenceUsage:  true,
		SilenceErrors: true,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompute(cmd, opts, args[0], args[1])
		},
	}

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err}
	})

	// ==========================================================================
	// PERSISTENT FLAGS
	// ==========================================================================

	rootCmd.PersistentFlags().StringVar(
		&opts.cfgFile,
		"config",
		config.DefaultPath,
		"Path to the configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&opts.verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)

	// ==========================================================================
	// LOCAL FLAGS
	// ==========================================================================

	rootCmd.Flags().StringVarP(
		&opts.output,
		"output",
		"o",
		"",
		"Results file (overrides results_file, default SalesResults.txt)",
	)

	rootCmd.Flags().StringVar(
		&opts.xlsx,
		"xlsx",
		"",
		"Also write the report as an XLSX workbook to this path",
	)

	rootCmd.Flags().BoolVarP(
		&opts.quiet,
		"quiet",
		"q",
		false,
		"Do not print the report to stdout",
	)

	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the CLI with the process arguments and exits.
// This is called by main.main().
func Execute() {
	os.Exit(Run(os.Args[1:], os.Stdout, os.Stderr))
}

// Run executes the CLI with the given arguments and returns the exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	rootCmd := NewRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.Execute()
	if err == nil {
		return ExitOK
	}

	fmt.Fprintf(stderr, "Error: %v\n", err)

	var uerr *usageError
	if errors.As(err, &uerr) {
		fmt.Fprintf(stderr, "Usage: %s\n", rootCmd.UseLine())
		return ExitUsage
	}
	return ExitFailure
}

// =============================================================================
// COMPUTE
// =============================================================================

// runCompute loads the configuration, applies flag overrides and runs the
// pipeline.
func runCompute(cmd *cobra.Command, opts *options, cataloguePath, salesPath string) error {
	cfg, err := config.LoadConfig(opts.cfgFile, cmd.Flags().Changed("config"))
	if err != nil {
		return err
	}

	if opts.output != "" {
		cfg.ResultsFile = opts.output
	}
	if opts.xlsx != "" {
		cfg.WorkbookFile = opts.xlsx
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.NewWithWriter(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat, opts.verbose)
	if err != nil {
		return err
	}
	defer logger.Sync()

	outcome, err := pipeline.New(cfg, logger).Run(cataloguePath, salesPath)
	if err != nil {
		return err
	}

	if !opts.quiet {
		if _, err := outcome.Report.WriteTo(cmd.OutOrStdout()); err != nil {
			return fmt.Errorf("failed to print report: %w", err)
		}
	}

	return nil
}
