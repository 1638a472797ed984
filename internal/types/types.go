// =============================================================================
// Sales Calculator - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - catalogue
//   - sales
//   - report
//   - logging
//
// =============================================================================

package types

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrSchema is returned when a document's top-level value is not a list.
// It is fatal for the component that reads the document.
var ErrSchema = errors.New("document is not a list")

// =============================================================================
// DIAGNOSTICS
// =============================================================================

// Severity classifies a diagnostic.
type Severity string

const (
	// SeverityError marks a rejected, malformed record.
	SeverityError Severity = "error"

	// SeverityWarning marks a well-formed record that could not be used,
	// e.g. a sale for a product missing from the catalogue.
	SeverityWarning Severity = "warning"
)

// Source names the document a diagnostic was raised for.
type Source string

const (
	SourceCatalogue Source = "catalogue"
	SourceSales     Source = "sales"
)

// Diagnostic is a single skipped-record report.
type Diagnostic struct {
	// Severity is either error or warning.
	Severity Severity

	// Source is the document the record belongs to.
	Source Source

	// Position is the zero-based index of the record in its document.
	// It is -1 for document-level diagnostics.
	Position int

	// Message is the human-readable description.
	Message string

	// Err is the classified error behind the diagnostic, if any.
	Err error
}

// String renders the diagnostic as "[<severity>] <source>: <message>".
func (d Diagnostic) String() string {
	return fmt.Sprintf("[%s] %s: %s", strings.ToUpper(string(d.Severity)), d.Source, d.Message)
}

// Sink receives diagnostics in the order they are produced.
type Sink interface {
	Report(d Diagnostic)
}

// SinkFunc adapts a plain function to the Sink interface.
type SinkFunc func(d Diagnostic)

// Report calls f(d).
func (f SinkFunc) Report(d Diagnostic) { f(d) }

// Discard is a Sink that drops everything.
var Discard Sink = SinkFunc(func(Diagnostic) {})

// Collector is a Sink that keeps every diagnostic in memory.
type Collector struct {
	Diagnostics []Diagnostic
}

// Report appends d.
func (c *Collector) Report(d Diagnostic) {
	c.Diagnostics = append(c.Diagnostics, d)
}

// Messages returns the messages of the given severity in arrival order.
func (c *Collector) Messages(severity Severity) []string {
	var out []string
	for _, d := range c.Diagnostics {
		if d.Severity == severity {
			out = append(out, d.Message)
		}
	}
	return out
}

// Tee fans every diagnostic out to all non-nil sinks.
func Tee(sinks ...Sink) Sink {
	return SinkFunc(func(d Diagnostic) {
		for _, s := range sinks {
			if s != nil {
				s.Report(d)
			}
		}
	})
}

// =============================================================================
// AGGREGATION RESULT
// =============================================================================

// Result is the outcome of aggregating a sales document against a price index.
// It is built fresh for every run and not modified after it is returned.
type Result struct {
	// Total is the sum of price * quantity over every accepted row.
	Total decimal.Decimal

	// Errors holds one message per rejected row, in input order.
	Errors []string

	// Warnings holds one message per row whose product had no price,
	// in input order.
	Warnings []string

	// RowsRead is the number of rows in the sales document.
	RowsRead int

	// RowsCounted is the number of rows that contributed to Total.
	RowsCounted int
}
