// =============================================================================
// Sales Calculator - Configuration Module
// =============================================================================
//
// This module is responsible for loading the application configuration.
// Everything has a default, so the configuration file is optional when the
// default path is used.
//
// CONFIGURATION FILE (computesales.yaml):
//   results_file:  SalesResults.txt
//   workbook_file: ""
//   log_level:     info
//   log_format:    console
//
// PRECEDENCE:
//   command-line flags > configuration file > built-in defaults
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the configuration file looked up when --config is not given.
const DefaultPath = "computesales.yaml"

// DefaultResultsFile is where the text report goes unless configured otherwise.
const DefaultResultsFile = "SalesResults.txt"

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the application configuration.
type Config struct {
	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// ResultsFile is the path of the text report.
	// Placeholders:
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	//   {date}      - Current date (YYYYMMDD)
	//   {time}      - Current time (HHMMSS)
	//   {run}       - The run ID
	// Default: "SalesResults.txt"
	ResultsFile string `yaml:"results_file"`

	// WorkbookFile is the path of an optional XLSX copy of the report.
	// Supports the same placeholders as ResultsFile.
	// Empty disables the export.
	WorkbookFile string `yaml:"workbook_file"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// LogFormat selects the log encoder.
	// Valid values: "console", "json"
	// Default: "console"
	LogFormat string `yaml:"log_format"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// =============================================================================
// CONFIGURATION LOADING
// =============================================================================

// LoadConfig loads the configuration from a YAML file.
//
// PARAMETERS:
//   - path: The path to the configuration file.
//   - required: Whether a missing file is an error. When false, a missing
//     file yields the defaults.
//
// RETURNS:
//   - A pointer to the Config struct.
//   - An error if the file cannot be read, parsed or validated.
func LoadConfig(path string, required bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.ResultsFile) == "" {
		cfg.ResultsFile = DefaultResultsFile
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "console"
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
}

// Validate checks the configuration for unsupported values.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unsupported log_level %q", c.LogLevel)
	}

	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("unsupported log_format %q", c.LogFormat)
	}

	if c.WorkbookFile != "" && c.WorkbookFile == c.ResultsFile {
		return errors.New("workbook_file must differ from results_file")
	}

	return nil
}
