// =============================================================================
// EDITHOR - Process Command
// =============================================================================
//
// This file defines the 'process' command, which converts purchase-order PDFs
// into one spreadsheet per order.
//
// COMMAND USAGE:
//   edithor process [file.pdf ...] [flags]
//
// FLAGS:
//   --dry-run   : Parse and report without writing any file
//   --zip       : Bundle the spreadsheets of this run into one zip archive
//   --template  : Override the template path for this run
//   --output    : Override the output directory for this run
//
// PROCESSING PIPELINE:
//   1. Load configuration and the correction table
//   2. Collect the PDFs (arguments, or every PDF in the input directory)
//   3. For each PDF, in order: extract, parse, write one file per order
//   4. Optionally bundle the produced files
//   5. Print and write the summary
//
// A failing PDF is reported and the remaining PDFs are still processed.
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/edithor/internal/converter"
	"github.com/ginjaninja78/edithor/internal/corrections"
	"github.com/ginjaninja78/edithor/internal/logging"
	"github.com/ginjaninja78/edithor/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	dryRun           bool
	zipOutput        bool
	templateOverride string
	outputOverride   string
)

// =============================================================================
// PROCESS COMMAND DEFINITION
// =============================================================================

var processCmd = &cobra.Command{
	Use:   "process [file.pdf ...]",
	Short: "Convert purchase-order PDFs to spreadsheets",
	Long: `The process command reads each PDF, splits it into orders and writes one
spreadsheet per order, named <client>_<order number>.xlsx, into the output
directory.

Without arguments every PDF in the configured input directory is processed.
Documents are processed one after another; an error in one document does not
stop the others. Orders without line items are skipped.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}
		defer e.logger.Sync()

		if templateOverride != "" {
			e.cfg.TemplatePath = templateOverride
		}
		if outputOverride != "" {
			e.cfg.OutputDir = outputOverride
		}
		if cmd.Flags().Changed("zip") {
			e.cfg.ZipOutput = zipOutput
		}

		return runProcess(cmd.OutOrStdout(), e, args)
	},
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Parse and report without writing any file")
	processCmd.Flags().BoolVar(&zipOutput, "zip", false, "Bundle the spreadsheets of this run into one zip archive")
	processCmd.Flags().StringVar(&templateOverride, "template", "", "Template path for this run")
	processCmd.Flags().StringVar(&outputOverride, "output", "", "Output directory for this run")
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

func runProcess(out io.Writer, e *env, inputFiles []string) error {
	startTime := time.Now()
	cfg := e.cfg

	fm := utils.NewFileManager(cfg.InputDir, cfg.OutputDir)
	if err := fm.EnsureDirectories(); err != nil {
		return err
	}

	// =========================================================================
	// STEP 1: LOAD CORRECTIONS
	// =========================================================================

	table, err := corrections.Load(cfg.CorrectionsFile)
	if err != nil {
		e.logger.Warn("correction table could not be reset", logging.Err(err))
	}
	e.logger.Debug("loaded corrections", logging.F("entries", table.Len()))

	// =========================================================================
	// STEP 2: COLLECT INPUT FILES
	// =========================================================================

	if len(inputFiles) == 0 {
		inputFiles, err = fm.DiscoverInputFiles(".pdf")
		if err != nil {
			return err
		}
	}
	if len(inputFiles) == 0 {
		fmt.Fprintf(out, "No PDF files found in %s\n", cfg.InputDir)
		return nil
	}

	fmt.Fprintln(out, "=== EDITHOR ===")
	fmt.Fprintf(out, "Processing %d file(s)...\n", len(inputFiles))

	// =========================================================================
	// STEP 3: PROCESS FILES
	// =========================================================================

	conv := converter.New(converter.Options{
		TemplatePath:  cfg.TemplatePath,
		OutputDir:     cfg.OutputDir,
		UnitOfMeasure: cfg.UnitOfMeasure,
		DryRun:        dryRun,
	}, table, e.logger)

	summary := utils.ProcessingSummary{
		RunID:       uuid.New().String(),
		StartTime:   startTime,
		TotalFiles:  len(inputFiles),
		TotalAmount: decimal.Zero,
	}
	var produced []string

	for _, file := range inputFiles {
		result := conv.Run(file)
		name := filepath.Base(file)

		// Spreadsheets written before a failure stay on disk and are reported.
		summary.TotalOrders += result.Stats.OrdersWritten
		produced = append(produced, result.OutputFiles...)

		if !result.Success {
			summary.FailedFiles++
			summary.FailedFilesList = append(summary.FailedFilesList, utils.FailedFileInfo{
				InputFile:    file,
				ErrorMessage: result.Error.Error(),
				OutputFiles:  result.OutputFiles,
			})
			e.logger.Error("document failed", logging.F("file", file),
				logging.F("written", len(result.OutputFiles)), logging.Err(result.Error))
			fmt.Fprintf(out, "  ✗ %s: %v\n", name, result.Error)
			continue
		}

		summary.SuccessfulFiles++
		summary.SkippedOrders += result.Skipped
		summary.TotalLineItems += result.Stats.LineItems
		summary.TotalAmount = summary.TotalAmount.Add(result.TotalAmount)
		summary.ProcessedFiles = append(summary.ProcessedFiles, utils.ProcessedFileInfo{
			InputFile:   file,
			OutputFiles: result.OutputFiles,
			Orders:      result.Stats.OrdersWritten,
			Skipped:     result.Skipped,
			LineItems:   result.Stats.LineItems,
			ProcessTime: result.Stats.ProcessingTime,
		})

		if dryRun {
			fmt.Fprintf(out, "  ✓ %s: %d order(s) found\n", name, result.Stats.OrdersParsed)
		} else {
			fmt.Fprintf(out, "  ✓ %s -> %d file(s)\n", name, len(result.OutputFiles))
		}
	}

	// =========================================================================
	// STEP 4: BUNDLE
	// =========================================================================

	if cfg.ZipOutput && !dryRun && len(produced) > 0 {
		bundle, err := fm.BundleOutputs(produced, "commandes_"+startTime.Format("20060102_150405"))
		if err != nil {
			e.logger.Error("bundle failed", logging.Err(err))
		} else {
			summary.BundlePath = bundle
		}
	}

	// =========================================================================
	// STEP 5: SUMMARY
	// =========================================================================

	summary.EndTime = time.Now()

	fmt.Fprintln(out, "\n=== Processing Complete ===")
	fmt.Fprintf(out, "Documents:       %d\n", summary.TotalFiles)
	fmt.Fprintf(out, "Successful:      %d\n", summary.SuccessfulFiles)
	fmt.Fprintf(out, "Errors:          %d\n", summary.FailedFiles)
	fmt.Fprintf(out, "Orders written:  %d\n", summary.TotalOrders)
	fmt.Fprintf(out, "Orders skipped:  %d\n", summary.SkippedOrders)
	fmt.Fprintf(out, "Total HT:        %s\n", utils.FormatAmount(summary.TotalAmount))
	if summary.BundlePath != "" {
		fmt.Fprintf(out, "Bundle:          %s\n", summary.BundlePath)
	}
	fmt.Fprintf(out, "Time elapsed:    %s\n", summary.EndTime.Sub(startTime))

	if dryRun {
		return nil
	}

	summaryPath, err := utils.WriteSummaryLog(summary, cfg.OutputDir)
	if err != nil {
		e.logger.Warn("summary log not written", logging.Err(err))
		return nil
	}
	e.logger.Debug("wrote summary", logging.F("output", summaryPath))
	return nil
}
