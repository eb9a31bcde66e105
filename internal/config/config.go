// =============================================================================
// EDITHOR - Configuration Module
// =============================================================================
//
// This module loads, validates and saves the application configuration.
//
// SOURCES (later wins):
//   1. Built-in defaults
//   2. The YAML config file (config.yaml unless --config says otherwise)
//   3. Environment variables prefixed with EDITHOR_ (EDITHOR_OUTPUT_DIR, ...)
//
// A missing config file is created with the effective values on first run,
// so the settings commands always have a file to write back to.
//
// =============================================================================

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "EDITHOR"

// DefaultConfigFile is used when no --config flag is given.
const DefaultConfigFile = "config.yaml"

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the application configuration.
type MainConfig struct {
	// =========================================================================
	// FILE SETTINGS
	// =========================================================================

	// TemplatePath is the spreadsheet template copied for every order.
	// Default: "EDI.xlsx"
	TemplatePath string `yaml:"template_path" mapstructure:"template_path"`

	// OutputDir receives one .xlsx file per order.
	// Default: "~/Documents/Commande EXCEL EDITHOR"
	OutputDir string `yaml:"output_dir" mapstructure:"output_dir"`

	// InputDir is scanned for PDFs when `process` is run without arguments.
	// Default: "./input"
	InputDir string `yaml:"input_dir" mapstructure:"input_dir"`

	// CorrectionsFile is the JSON store of the identifier correction table.
	// Default: "corrections_ean.json"
	CorrectionsFile string `yaml:"corrections_file" mapstructure:"corrections_file"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	LogLevel string `yaml:"log_level" mapstructure:"log_level"`

	// LogFormat selects the log encoder: "console" or "json".
	LogFormat string `yaml:"log_format" mapstructure:"log_format"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// ZipOutput bundles the files produced by a run into one zip archive.
	ZipOutput bool `yaml:"zip_output" mapstructure:"zip_output"`

	// UnitOfMeasure is written in the unit column of every line item row.
	// Default: "PCE"
	UnitOfMeasure string `yaml:"unit_of_measure" mapstructure:"unit_of_measure"`
}

// Default returns the configuration used when nothing else is set.
func Default() *MainConfig {
	return &MainConfig{
		TemplatePath:    "EDI.xlsx",
		OutputDir:       defaultOutputDir(),
		InputDir:        "./input",
		CorrectionsFile: "corrections_ean.json",
		LogLevel:        "info",
		LogFormat:       "console",
		ZipOutput:       false,
		UnitOfMeasure:   "PCE",
	}
}

func defaultOutputDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./output"
	}
	return filepath.Join(home, "Documents", "Commande EXCEL EDITHOR")
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("template_path", d.TemplatePath)
	v.SetDefault("output_dir", d.OutputDir)
	v.SetDefault("input_dir", d.InputDir)
	v.SetDefault("corrections_file", d.CorrectionsFile)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)
	v.SetDefault("zip_output", d.ZipOutput)
	v.SetDefault("unit_of_measure", d.UnitOfMeasure)
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Load reads the configuration at configPath (DefaultConfigFile when empty),
// applies environment overrides and validates the result. When the file does
// not exist it is written with the effective values.
func Load(configPath string) (*MainConfig, error) {
	if configPath == "" {
		configPath = DefaultConfigFile
	}

	v := viper.New()
	setDefaults(v)

	exists := true
	if _, err := os.Stat(configPath); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to stat config file: %w", err)
		}
		exists = false
	}

	if exists {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg MainConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if !exists {
		if err := cfg.Save(configPath); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Save writes the configuration to path as YAML.
func (c *MainConfig) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"console": true,
	"json":    true,
}

// Validate checks the configuration and creates the output directory if it
// does not exist yet.
func (c *MainConfig) Validate() error {
	if c.TemplatePath == "" {
		return fmt.Errorf("template_path must not be empty")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir must not be empty")
	}
	if c.CorrectionsFile == "" {
		return fmt.Errorf("corrections_file must not be empty")
	}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	if !validLogFormats[strings.ToLower(c.LogFormat)] {
		return fmt.Errorf("unknown log_format %q", c.LogFormat)
	}

	if err := os.MkdirAll(c.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", c.OutputDir, err)
	}
	return nil
}
