// =============================================================================
// Sales Calculator - File Manager Utility
// =============================================================================
//
// This module provides the file utilities used when writing run outputs:
//   - Output path resolution (placeholders in configured file names)
//   - Directory management
//   - Atomic file writes
//
// WRITE STRATEGY:
//   - Outputs are written to a temporary file in the target directory and
//     renamed into place, so a failed run never leaves a half-written report
//   - Parent directories are created on demand
//
// =============================================================================

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// ResolveOutputPath expands placeholders in a configured output path.
//
// PARAMETERS:
//   - format: The path format.
//             Placeholders:
//               {timestamp} - Timestamp (YYYYMMDD_HHMMSS)
//               {date}      - Date (YYYYMMDD)
//               {time}      - Time (HHMMSS)
//               {run}       - The run ID
//   - now: The time used for the date placeholders.
//   - runID: The value substituted for {run}.
//
// EXAMPLE:
//   format: "reports/sales_{date}_{run}.txt"
//   output: "reports/sales_20240115_a1b2c3d4-e5f6-7890-abcd-ef1234567890.txt"
func ResolveOutputPath(format string, now time.Time, runID string) string {
	replacer := strings.NewReplacer(
		"{timestamp}", now.Format("20060102_150405"),
		"{date}", now.Format("20060102"),
		"{time}", now.Format("150405"),
		"{run}", runID,
	)
	return replacer.Replace(format)
}

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureParentDir creates the directory that will contain path.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// FileExists reports whether path can be stat'ed. Any stat error, not only
// a missing file, counts as absent.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// =============================================================================
// FILE WRITING
// =============================================================================

// WriteFileAtomic writes data to path through a temporary file in the same
// directory, then renames it over the destination.
func WriteFileAtomic(path string, data []byte) error {
	if err := EnsureParentDir(path); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()

	// Remove the temporary file unless the rename succeeds.
	committed := false
	defer func() {
		if !committed {
			os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", path, err)
	}

	committed = true
	return nil
}
