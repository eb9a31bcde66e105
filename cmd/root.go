// =============================================================================
// EDITHOR - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Every other command
// is attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (edithor)
//   ├── processCmd      (edithor process)
//   ├── correctionsCmd  (edithor corrections list|add|update|delete|import|export)
//   ├── settingsCmd     (edithor settings show|set-template|set-output)
//   ├── cleanCmd        (edithor clean)
//   └── versionCmd      (edithor version)
//
// The root command owns the global flags (--config, --verbose). Commands
// that need configuration or logging call loadEnv.
//
// Progress lines meant for the user go to stdout; structured logs go to
// stderr.
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/edithor/internal/config"
	"github.com/ginjaninja78/edithor/internal/logging"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
var cfgFile string

// verbose forces debug logging.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

var rootCmd = &cobra.Command{
	Use:   "edithor",
	Short: "EDITHOR - Convert PDF purchase orders to EDI spreadsheets",
	Long: `EDITHOR reads purchase-order PDFs, splits them into individual orders and
writes one spreadsheet per order from the EDI template.

Product identifiers (EAN) that are misprinted in the PDFs can be fixed with
the correction table, which is applied to every line item.

Example Usage:
  edithor process                       # Process every PDF in the input directory
  edithor process commande.pdf --zip    # Process one file and bundle the result
  edithor corrections add 123 3760001   # Correct a product identifier
  edithor settings set-output ~/EDI     # Change the output directory`,

	SilenceUsage:  true,
	SilenceErrors: true,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// SHARED SETUP
// =============================================================================

// env is what a command needs to run: the effective configuration and a
// logger built from it.
type env struct {
	cfg    *config.MainConfig
	logger logging.Logger
}

// loadEnv loads the configuration named by --config and builds the logger.
func loadEnv() (*env, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	logger, err := logging.New(level, cfg.LogFormat)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return &env{cfg: cfg, logger: logger}, nil
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		config.DefaultConfigFile,
		"Path to the configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)
}
