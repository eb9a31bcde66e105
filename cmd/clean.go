// =============================================================================
// EDITHOR - Clean Command
// =============================================================================
//
// COMMAND USAGE:
//   edithor clean
//
// Deletes the files (not the subdirectories) in the output directory.
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/edithor/internal/logging"
	"github.com/ginjaninja78/edithor/pkg/utils"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Delete the files in the output directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}
		defer e.logger.Sync()

		fm := utils.NewFileManager("", e.cfg.OutputDir)
		removed, err := fm.CleanOutputDir()
		if err != nil {
			return err
		}

		e.logger.Info("cleaned output directory", logging.F("output", e.cfg.OutputDir), logging.F("files", removed))
		fmt.Fprintf(cmd.OutOrStdout(), "✓ removed %d file(s) from %s\n", removed, e.cfg.OutputDir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}
