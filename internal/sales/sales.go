// =============================================================================
// Sales Calculator - Sales Aggregator
// =============================================================================
//
// This module reconciles a decoded sales document against a price index and
// accumulates the total cost of every valid sale.
//
// EXPECTED DOCUMENT:
//   [
//     {"Product": "Pen",  "Quantity": 4},
//     {"Product": "Book", "Quantity": 1}
//   ]
//
// DECISION SEQUENCE (per row, first match wins):
//   1. Row is not an object                 -> error
//   2. Product missing, not a string, blank -> error
//   3. Quantity missing or not a number     -> error
//   4. Quantity below zero                  -> error
//   5. Product absent from the price index  -> warning
//   6. Otherwise                            -> total += price * quantity
//
// ERROR HANDLING:
//   - A document that is not a list is fatal: the result carries a zero total
//     and that single error, and the call returns an error.
//   - Everything else is row-level: the row is skipped, a message is appended
//     to Errors or Warnings, and aggregation continues.
//
// =============================================================================

package sales

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ginjaninja78/computesales/internal/numeric"
	"github.com/ginjaninja78/computesales/internal/types"
	"github.com/shopspring/decimal"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrInvalidRow marks a row that is not a JSON object.
	ErrInvalidRow = errors.New("row is not an object")

	// ErrInvalidProduct marks a missing, non-string or blank Product.
	ErrInvalidProduct = errors.New("missing or invalid Product")

	// ErrInvalidQuantity marks a Quantity that is not a finite number.
	ErrInvalidQuantity = errors.New("invalid Quantity")

	// ErrNegativeQuantity marks a Quantity below zero.
	ErrNegativeQuantity = errors.New("negative quantity")

	// ErrUnknownProduct marks a well-formed row whose product has no price.
	ErrUnknownProduct = errors.New("product not found")
)

// RowError describes why a single sales row was skipped.
type RowError struct {
	// Position is the zero-based index of the row in the sales document.
	Position int

	// Product is the row's product name when it could be read.
	Product string

	// Quantity is the parsed quantity, set for negative quantities only.
	Quantity *decimal.Decimal

	// Err is one of the Err* sentinels above.
	Err error
}

// Error implements the error interface.
//
// The message format is part of the report output:
//   row is not an object
//   missing or invalid Product
//   invalid Quantity for 'Pen'
//   negative quantity for 'Pen' (-1)
//   product not found: 'Pen'
func (e *RowError) Error() string {
	switch {
	case errors.Is(e.Err, ErrUnknownProduct):
		return fmt.Sprintf("%s: '%s'", e.Err, e.Product)
	case e.Quantity != nil:
		return fmt.Sprintf("%s for '%s' (%s)", e.Err, e.Product, e.Quantity.String())
	case e.Product != "":
		return fmt.Sprintf("%s for '%s'", e.Err, e.Product)
	default:
		return e.Err.Error()
	}
}

// Unwrap returns the sentinel so callers can use errors.Is.
func (e *RowError) Unwrap() error {
	return e.Err
}

// Severity reports whether the row was rejected or merely unmatched.
func (e *RowError) Severity() types.Severity {
	if errors.Is(e.Err, ErrUnknownProduct) {
		return types.SeverityWarning
	}
	return types.SeverityError
}

// =============================================================================
// PRICE LOOKUP
// =============================================================================

// PriceLookup resolves a product name to its price.
// *catalogue.PriceIndex satisfies this interface.
type PriceLookup interface {
	Lookup(product string) (decimal.Decimal, bool)
}

// Row is a validated sales record.
type Row struct {
	Product  string
	Quantity decimal.Decimal
}

// =============================================================================
// AGGREGATOR
// =============================================================================

// Aggregator totals sales rows and reports skipped rows to a sink.
type Aggregator struct {
	sink types.Sink
}

// NewAggregator creates an Aggregator. A nil sink discards diagnostics.
func NewAggregator(sink types.Sink) *Aggregator {
	if sink == nil {
		sink = types.Discard
	}
	return &Aggregator{sink: sink}
}

// Aggregate is a convenience wrapper around NewAggregator(sink).Aggregate.
func Aggregate(prices PriceLookup, doc any, sink types.Sink) (types.Result, error) {
	return NewAggregator(sink).Aggregate(prices, doc)
}

// Aggregate walks the sales document in order and returns the total cost
// together with the messages for every skipped row.
//
// RETURNS:
//   - The aggregation result. Always populated, even on error.
//   - An error wrapping types.ErrSchema when doc is not a list.
func (a *Aggregator) Aggregate(prices PriceLookup, doc any) (types.Result, error) {
	result := types.Result{
		Total:    decimal.Zero,
		Errors:   []string{},
		Warnings: []string{},
	}

	rows, ok := doc.([]any)
	if !ok {
		const msg = "sales document is not a list"
		err := fmt.Errorf("%s: %w", msg, types.ErrSchema)
		result.Errors = append(result.Errors, msg)
		a.sink.Report(types.Diagnostic{
			Severity: types.SeverityError,
			Source:   types.SourceSales,
			Position: -1,
			Message:  msg,
			Err:      err,
		})
		return result, err
	}

	result.RowsRead = len(rows)

	for i, raw := range rows {
		row, err := parseRow(i, raw)
		if err == nil {
			price, found := prices.Lookup(row.Product)
			if found {
				result.Total = result.Total.Add(price.Mul(row.Quantity))
				result.RowsCounted++
				continue
			}
			err = &RowError{Position: i, Product: row.Product, Err: ErrUnknownProduct}
		}

		a.skip(&result, err)
	}

	return result, nil
}

// skip records a skipped row in the result and forwards it to the sink.
func (a *Aggregator) skip(result *types.Result, err *RowError) {
	msg := err.Error()
	severity := err.Severity()

	if severity == types.SeverityWarning {
		result.Warnings = append(result.Warnings, msg)
	} else {
		result.Errors = append(result.Errors, msg)
	}

	a.sink.Report(types.Diagnostic{
		Severity: severity,
		Source:   types.SourceSales,
		Position: err.Position,
		Message:  msg,
		Err:      err,
	})
}

// parseRow validates a single sales row. It covers rules 1 to 4 of the
// decision sequence; the price lookup happens in Aggregate.
func parseRow(pos int, raw any) (Row, *RowError) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return Row{}, &RowError{Position: pos, Err: ErrInvalidRow}
	}

	product, ok := obj["Product"].(string)
	if !ok || strings.TrimSpace(product) == "" {
		return Row{}, &RowError{Position: pos, Err: ErrInvalidProduct}
	}

	rawQty, present := obj["Quantity"]
	if !present {
		return Row{}, &RowError{Position: pos, Product: product, Err: ErrInvalidQuantity}
	}
	qty, err := numeric.ToDecimal(rawQty)
	if err != nil {
		return Row{}, &RowError{Position: pos, Product: product, Err: ErrInvalidQuantity}
	}

	if qty.IsNegative() {
		return Row{}, &RowError{Position: pos, Product: product, Quantity: &qty, Err: ErrNegativeQuantity}
	}

	return Row{Product: product, Quantity: qty}, nil
}
