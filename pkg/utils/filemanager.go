// =============================================================================
// EDITHOR - File Manager Utility
// =============================================================================
//
// This module provides the file handling around a processing run:
//   - PDF discovery in the input directory
//   - Output directory maintenance (creation, cleaning)
//   - Zip bundling of the spreadsheets produced by a run
//   - Summary log generation
//   - Output file naming
//
// Failed documents never remove or overwrite files produced for other
// documents; only `clean` deletes output files.
//
// =============================================================================

package utils

import (
	"archive/zip"
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles file operations for a processing run.
type FileManager struct {
	// InputDir is scanned for PDFs when no files are given explicitly.
	InputDir string

	// OutputDir receives the spreadsheets, the zip bundle and the summary.
	OutputDir string
}

// NewFileManager creates a new FileManager with the specified directories.
func NewFileManager(inputDir, outputDir string) *FileManager {
	return &FileManager{
		InputDir:  inputDir,
		OutputDir: outputDir,
	}
}

// EnsureDirectories creates the input and output directories if needed.
func (fm *FileManager) EnsureDirectories() error {
	for _, dir := range []string{fm.InputDir, fm.OutputDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// =============================================================================
// FILE DISCOVERY
// =============================================================================

// DiscoverInputFiles returns the regular files in the input directory whose
// extension matches ext (case-insensitive, ".pdf" when empty), sorted by
// name so documents are processed in a stable order.
func (fm *FileManager) DiscoverInputFiles(ext string) ([]string, error) {
	if ext == "" {
		ext = ".pdf"
	}

	entries, err := os.ReadDir(fm.InputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan input directory: %w", err)
	}

	var result []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ext) {
			result = append(result, filepath.Join(fm.InputDir, entry.Name()))
		}
	}
	sort.Strings(result)
	return result, nil
}

// =============================================================================
// OUTPUT MAINTENANCE
// =============================================================================

// CleanOutputDir deletes the regular files directly inside the output
// directory. Subdirectories are left alone. It returns the number of files
// removed.
func (fm *FileManager) CleanOutputDir() (int, error) {
	entries, err := os.ReadDir(fm.OutputDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read output directory: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if err := os.Remove(filepath.Join(fm.OutputDir, entry.Name())); err != nil {
			return removed, fmt.Errorf("failed to remove %s: %w", entry.Name(), err)
		}
		removed++
	}
	return removed, nil
}

// BundleOutputs writes files into a zip archive named name inside the output
// directory and returns its path. Entries are stored under their base name.
func (fm *FileManager) BundleOutputs(files []string, name string) (string, error) {
	if len(files) == 0 {
		return "", nil
	}
	if !strings.HasSuffix(strings.ToLower(name), ".zip") {
		name += ".zip"
	}
	bundlePath := filepath.Join(fm.OutputDir, name)

	out, err := os.Create(bundlePath)
	if err != nil {
		return "", fmt.Errorf("failed to create bundle: %w", err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	for _, file := range files {
		if err := addToZip(zw, file); err != nil {
			zw.Close()
			return "", err
		}
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize bundle: %w", err)
	}
	return bundlePath, nil
}

func addToZip(zw *zip.Writer, path string) error {
	src, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer src.Close()

	w, err := zw.Create(filepath.Base(path))
	if err != nil {
		return fmt.Errorf("failed to add %s to bundle: %w", path, err)
	}
	if _, err := io.Copy(w, src); err != nil {
		return fmt.Errorf("failed to add %s to bundle: %w", path, err)
	}
	return nil
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// OrderFileName derives the output base name of an order.
//
// The client name and the order number are trimmed and joined with "_",
// every remaining space becomes "_" (runs are not collapsed), and leading
// or trailing underscores are trimmed. When nothing
// is left a "commande_<uuid>" name is returned so files never collide.
//
// EXAMPLE:
//   client: "SUPER U", number: "4500012"  ->  "SUPER_U_4500012"
func OrderFileName(client, number string) string {
	name := strings.TrimSpace(client) + "_" + strings.TrimSpace(number)
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.Trim(name, "_")
	if name == "" {
		return "commande_" + uuid.New().String()
	}
	return name
}

// =============================================================================
// PROCESSING SUMMARY
// =============================================================================

// ProcessingSummary contains summary information about a processing run.
type ProcessingSummary struct {
	RunID           string
	StartTime       time.Time
	EndTime         time.Time
	TotalFiles      int
	SuccessfulFiles int
	FailedFiles     int
	TotalOrders     int
	SkippedOrders   int
	TotalLineItems  int
	TotalAmount     decimal.Decimal
	BundlePath      string
	ProcessedFiles  []ProcessedFileInfo
	FailedFilesList []FailedFileInfo
}

// ProcessedFileInfo contains information about a successfully processed file.
type ProcessedFileInfo struct {
	InputFile   string
	OutputFiles []string
	Orders      int // written
	Skipped     int
	LineItems   int
	ProcessTime time.Duration
}

// FailedFileInfo contains information about a failed file. OutputFiles lists
// the spreadsheets written for the file before it failed; they are kept.
type FailedFileInfo struct {
	InputFile    string
	ErrorMessage string
	OutputFiles  []string
}

// WriteSummaryLog writes a processing summary to a text file in outputDir and
// returns its path.
func WriteSummaryLog(summary ProcessingSummary, outputDir string) (string, error) {
	timestamp := summary.StartTime.Format("20060102_150405")
	summaryPath := filepath.Join(outputDir, fmt.Sprintf("summary_%s.txt", timestamp))

	file, err := os.Create(summaryPath)
	if err != nil {
		return "", fmt.Errorf("failed to create summary file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	WriteSummary(writer, summary)

	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush summary file: %w", err)
	}
	return summaryPath, nil
}

// WriteSummary renders summary as text.
func WriteSummary(w io.Writer, summary ProcessingSummary) {
	duration := summary.EndTime.Sub(summary.StartTime)
	fmt.Fprintf(w, "EDITHOR - Processing Summary\n"+
		"================================================================================\n\n"+
		"Run Information:\n"+
		"  Run ID:         %s\n"+
		"  Start Time:     %s\n"+
		"  End Time:       %s\n"+
		"  Duration:       %s\n\n"+
		"Statistics:\n"+
		"  Documents:          %d\n"+
		"  Successful:         %d\n"+
		"  Failed:             %d\n"+
		"  Orders written:     %d\n"+
		"  Orders skipped:     %d\n"+
		"  Line items:         %d\n"+
		"  Total HT:           %s\n\n",
		summary.RunID,
		summary.StartTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Format("2006-01-02 15:04:05"),
		duration.String(),
		summary.TotalFiles,
		summary.SuccessfulFiles,
		summary.FailedFiles,
		summary.TotalOrders,
		summary.SkippedOrders,
		summary.TotalLineItems,
		FormatAmount(summary.TotalAmount))

	if summary.BundlePath != "" {
		fmt.Fprintf(w, "Bundle: %s\n\n", summary.BundlePath)
	}

	if len(summary.ProcessedFiles) > 0 {
		fmt.Fprint(w, "Successful Files:\n")
		fmt.Fprint(w, "--------------------------------------------------------------------------------\n")
		for _, pf := range summary.ProcessedFiles {
			fmt.Fprintf(w, "  Input:        %s\n", pf.InputFile)
			for _, out := range pf.OutputFiles {
				fmt.Fprintf(w, "  Output:       %s\n", out)
			}
			fmt.Fprintf(w, "  Orders written: %d\n", pf.Orders)
			fmt.Fprintf(w, "  Orders skipped: %d\n", pf.Skipped)
			fmt.Fprintf(w, "  Line items:   %d\n", pf.LineItems)
			fmt.Fprintf(w, "  Process Time: %s\n\n", pf.ProcessTime.String())
		}
	}

	if len(summary.FailedFilesList) > 0 {
		fmt.Fprint(w, "Failed Files:\n")
		fmt.Fprint(w, "--------------------------------------------------------------------------------\n")
		for _, ff := range summary.FailedFilesList {
			fmt.Fprintf(w, "  File:   %s\n", ff.InputFile)
			for _, out := range ff.OutputFiles {
				fmt.Fprintf(w, "  Output: %s\n", out)
			}
			fmt.Fprintf(w, "  Error:  %s\n\n", ff.ErrorMessage)
		}
	}

	fmt.Fprint(w, "================================================================================\n"+
		"End of Summary\n")
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
