// =============================================================================
// EDITHOR - Corrections Command
// =============================================================================
//
// Manage the product identifier correction table. Every change is written to
// the store immediately.
//
// COMMAND USAGE:
//   edithor corrections list
//   edithor corrections add OLD NEW
//   edithor corrections update OLD NEW [--from ORIGINAL]
//   edithor corrections delete OLD
//   edithor corrections export FILE.csv
//   edithor corrections import FILE.csv
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/edithor/internal/corrections"
	"github.com/ginjaninja78/edithor/internal/logging"
)

var updateFrom string

var correctionsCmd = &cobra.Command{
	Use:     "corrections",
	Aliases: []string{"ean"},
	Short:   "Manage the product identifier correction table",
}

// withTable loads the correction table, runs fn and persists the table when
// fn reports a change.
func withTable(fn func(t *corrections.Table, e *env) (changed bool, err error)) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.logger.Sync()

	table, err := corrections.Load(e.cfg.CorrectionsFile)
	if err != nil {
		e.logger.Warn("correction table could not be reset", logging.Err(err))
	}

	changed, err := fn(table, e)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	if err := table.Persist(); err != nil {
		return err
	}
	e.logger.Debug("saved corrections", logging.F("file", table.Path()), logging.F("entries", table.Len()))
	return nil
}

var correctionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all corrections",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		return withTable(func(t *corrections.Table, _ *env) (bool, error) {
			entries := t.Entries()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No corrections.")
				return false, nil
			}
			for _, entry := range entries {
				fmt.Fprintf(out, "%s  ->  %s\n", entry.Old, entry.New)
			}
			return false, nil
		})
	},
}

var correctionsAddCmd = &cobra.Command{
	Use:   "add OLD NEW",
	Short: "Add a correction (digits only)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTable(func(t *corrections.Table, _ *env) (bool, error) {
			if err := t.Add(args[0], args[1]); err != nil {
				return false, err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s  ->  %s\n", args[0], args[1])
			return true, nil
		})
	},
}

var correctionsUpdateCmd = &cobra.Command{
	Use:   "update OLD NEW",
	Short: "Replace a correction",
	Long: `Replace the correction keyed by --from (OLD when not given) with OLD -> NEW.
Use --from to rename the raw identifier of an existing correction.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		original := updateFrom
		if original == "" {
			original = args[0]
		}
		return withTable(func(t *corrections.Table, _ *env) (bool, error) {
			if err := t.Update(original, args[0], args[1]); err != nil {
				return false, err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s  ->  %s\n", args[0], args[1])
			return true, nil
		})
	},
}

var correctionsDeleteCmd = &cobra.Command{
	Use:   "delete OLD",
	Short: "Delete a correction",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTable(func(t *corrections.Table, _ *env) (bool, error) {
			if err := t.Delete(args[0]); err != nil {
				return false, err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ deleted %s\n", args[0])
			return true, nil
		})
	},
}

var correctionsExportCmd = &cobra.Command{
	Use:   "export FILE.csv",
	Short: "Export the corrections as CSV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTable(func(t *corrections.Table, _ *env) (bool, error) {
			f, err := os.Create(args[0])
			if err != nil {
				return false, fmt.Errorf("failed to create %s: %w", args[0], err)
			}
			defer f.Close()

			if err := t.ExportCSV(f); err != nil {
				return false, err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ exported %d correction(s) to %s\n", t.Len(), args[0])
			return false, nil
		})
	},
}

var correctionsImportCmd = &cobra.Command{
	Use:   "import FILE.csv",
	Short: "Merge corrections from a CSV file",
	Long: `Merge corrections from a CSV file with the header "ancien_ean,nouvel_ean".
Every row is checked before anything is applied.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTable(func(t *corrections.Table, _ *env) (bool, error) {
			f, err := os.Open(args[0])
			if err != nil {
				return false, fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			defer f.Close()

			n, err := t.ImportCSV(f)
			if err != nil {
				return false, err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ imported %d correction(s)\n", n)
			return n > 0, nil
		})
	},
}

func init() {
	rootCmd.AddCommand(correctionsCmd)

	correctionsUpdateCmd.Flags().StringVar(&updateFrom, "from", "", "Raw identifier of the correction to replace")

	correctionsCmd.AddCommand(
		correctionsListCmd,
		correctionsAddCmd,
		correctionsUpdateCmd,
		correctionsDeleteCmd,
		correctionsExportCmd,
		correctionsImportCmd,
	)
}
