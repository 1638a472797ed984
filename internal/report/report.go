// =============================================================================
// Sales Calculator - Report Writer
// =============================================================================
//
// This module turns an aggregation result into the human-readable report and
// writes it to disk.
//
// REPORT LAYOUT:
//   === Sales Computation Results ===
//   Run ID:    <uuid>
//   Catalogue: <path>
//   Sales:     <path>
//
//   TOTAL COST: 1,234.50
//
//   Errors (skipped):
//   - <message>            (or "- None")
//
//   Warnings (skipped):
//   - <message>            (or "- None")
//
//   Elapsed time (s): 0.000123
//   ===============================
//
// OUTPUTS:
//   - Text (Text / WriteFile)
//   - XLSX workbook with Summary, Errors and Warnings sheets (WriteWorkbook)
//
// =============================================================================

package report

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/ginjaninja78/computesales/internal/types"
	"github.com/ginjaninja78/computesales/pkg/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// REPORT STRUCTURE
// =============================================================================

// Report is everything needed to render the results of one run.
type Report struct {
	// RunID identifies the run. It also fills the {run} output placeholder.
	RunID string

	// CataloguePath is the catalogue file as given on the command line.
	CataloguePath string

	// SalesPath is the sales file as given on the command line.
	SalesPath string

	// Products is the number of valid catalogue entries.
	Products int

	// Result is the aggregation outcome.
	Result types.Result

	// Elapsed is the wall time spent loading and aggregating.
	Elapsed time.Duration
}

// New creates a report with a fresh run ID.
func New(cataloguePath, salesPath string) *Report {
	return &Report{
		RunID:         uuid.New().String(),
		CataloguePath: cataloguePath,
		SalesPath:     salesPath,
	}
}

// =============================================================================
// TEXT RENDERING
// =============================================================================

// FormatTotal renders a total with two decimals and thousands separators.
// Formatting stays on the decimal, so totals beyond the float64 or int64
// range keep every digit.
func FormatTotal(total decimal.Decimal) string {
	rounded := total.Round(2)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Abs()
	}

	fixed := rounded.StringFixed(2)
	fraction := fixed[strings.IndexByte(fixed, '.')+1:]
	return sign + humanize.BigComma(rounded.Truncate(0).BigInt()) + "." + fraction
}

// WriteTo renders the text report to w.
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	bw := bufio.NewWriter(cw)

	fmt.Fprintln(bw, "=== Sales Computation Results ===")
	fmt.Fprintf(bw, "Run ID:    %s\n", r.RunID)
	fmt.Fprintf(bw, "Catalogue: %s\n", r.CataloguePath)
	fmt.Fprintf(bw, "Sales:     %s\n", r.SalesPath)
	fmt.Fprintln(bw)
	fmt.Fprintf(bw, "TOTAL COST: %s\n", FormatTotal(r.Result.Total))
	fmt.Fprintln(bw)
	writeSection(bw, "Errors (skipped):", r.Result.Errors)
	fmt.Fprintln(bw)
	writeSection(bw, "Warnings (skipped):", r.Result.Warnings)
	fmt.Fprintln(bw)
	fmt.Fprintf(bw, "Elapsed time (s): %.6f\n", r.Elapsed.Seconds())
	fmt.Fprintln(bw, "===============================")

	err := bw.Flush()
	return cw.n, err
}

// Text returns the rendered text report.
func (r *Report) Text() string {
	var buf bytes.Buffer
	r.WriteTo(&buf)
	return buf.String()
}

// WriteFile writes the text report to path.
func (r *Report) WriteFile(path string) error {
	if err := utils.WriteFileAtomic(path, []byte(r.Text())); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// writeSection writes a heading followed by one bullet per line, or a single
// "- None" bullet when lines is empty.
func writeSection(w io.Writer, heading string, lines []string) {
	fmt.Fprintln(w, heading)
	if len(lines) == 0 {
		fmt.Fprintln(w, "- None")
		return
	}
	for _, line := range lines {
		fmt.Fprintf(w, "- %s\n", line)
	}
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
