// =============================================================================
// Sales Calculator - Main Entry Point
// =============================================================================
//
// This is the main entry point for the computesales CLI application.
// It delegates command execution to the cmd package.
//
// USAGE:
//   computesales <catalogue.json> <sales.json>  - Compute the sales total
//   computesales version                        - Display the application version
//
// The report matches the classic SalesResults.txt layout plus a "Run ID"
// header line identifying the run.
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Core business logic (not for external import)
//   - pkg/           : Shared utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/computesales/cmd"
)

// main is the entry point of the application.
func main() {
	cmd.Execute()
}
