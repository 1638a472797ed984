package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "computesales.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_MissingOptionalFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "none.yaml"), false)
	require.NoError(t, err)

	assert.Equal(t, DefaultResultsFile, cfg.ResultsFile)
	assert.Empty(t, cfg.WorkbookFile)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
}

func TestLoadConfig_MissingRequiredFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "none.yaml"), true)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadConfig_ReadsValues(t *testing.T) {
	path := writeConfig(t, `
results_file: out/results_{date}.txt
workbook_file: out/results.xlsx
log_level: DEBUG
log_format: json
`)

	cfg, err := LoadConfig(path, true)
	require.NoError(t, err)

	assert.Equal(t, "out/results_{date}.txt", cfg.ResultsFile)
	assert.Equal(t, "out/results.xlsx", cfg.WorkbookFile)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoadConfig_PartialFileGetsDefaults(t *testing.T) {
	path := writeConfig(t, "log_level: warn\n")

	cfg, err := LoadConfig(path, true)
	require.NoError(t, err)

	assert.Equal(t, DefaultResultsFile, cfg.ResultsFile)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		message string
	}{
		{name: "Bad YAML", content: "results_file: [", message: "failed to parse config file"},
		{name: "Bad level", content: "log_level: loud", message: `unsupported log_level "loud"`},
		{name: "Bad format", content: "log_format: xml", message: `unsupported log_format "xml"`},
		{
			name:    "Workbook clobbers results",
			content: "results_file: same.txt\nworkbook_file: same.txt",
			message: "workbook_file must differ from results_file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content), true)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}
