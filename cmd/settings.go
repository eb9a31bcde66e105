// =============================================================================
// EDITHOR - Settings Command
// =============================================================================
//
// COMMAND USAGE:
//   edithor settings show
//   edithor settings set-template PATH
//   edithor settings set-output DIR
//
// Changes are written back to the configuration file.
//
// =============================================================================

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/edithor/internal/config"
	"github.com/ginjaninja78/edithor/internal/xlsxwriter"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change the template and output directory",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Config file:      %s\n", cfgFile)
		fmt.Fprintf(out, "Template:         %s\n", e.cfg.TemplatePath)
		fmt.Fprintf(out, "Output directory: %s\n", e.cfg.OutputDir)
		fmt.Fprintf(out, "Input directory:  %s\n", e.cfg.InputDir)
		fmt.Fprintf(out, "Corrections:      %s\n", e.cfg.CorrectionsFile)
		fmt.Fprintf(out, "Unit of measure:  %s\n", e.cfg.UnitOfMeasure)
		fmt.Fprintf(out, "Zip output:       %t\n", e.cfg.ZipOutput)
		fmt.Fprintf(out, "Log level:        %s (%s)\n", e.cfg.LogLevel, e.cfg.LogFormat)
		return nil
	},
}

var settingsTemplateCmd = &cobra.Command{
	Use:   "set-template PATH",
	Short: "Change the spreadsheet template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}
		if err := xlsxwriter.New(path, "").CheckTemplate(); err != nil {
			return err
		}
		return updateSettings(cmd, func(c *config.MainConfig) { c.TemplatePath = path },
			"Template set to %s\n", path)
	},
}

var settingsOutputCmd = &cobra.Command{
	Use:   "set-output DIR",
	Short: "Change the output directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}
		return updateSettings(cmd, func(c *config.MainConfig) { c.OutputDir = dir },
			"Output directory set to %s\n", dir)
	},
}

// updateSettings applies set to the loaded configuration, validates it and
// saves it back to the config file.
func updateSettings(cmd *cobra.Command, set func(*config.MainConfig), format string, a ...any) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}

	set(e.cfg)
	if err := e.cfg.Validate(); err != nil {
		return err
	}
	if err := e.cfg.Save(cfgFile); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ "+format, a...)
	return nil
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsShowCmd, settingsTemplateCmd, settingsOutputCmd)
}
