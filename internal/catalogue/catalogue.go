// =============================================================================
// Sales Calculator - Catalogue Indexer
// =============================================================================
//
// This module turns a decoded product catalogue into a PriceIndex, a mapping
// from product title to a validated, non-negative price.
//
// EXPECTED DOCUMENT:
//   [
//     {"title": "Pen",  "price": 1.5},
//     {"title": "Book", "price": 12}
//   ]
//
// VALIDATION STRATEGY:
//   Validation is performed at two levels:
//   1. Document-level: the top-level value must be a list. Anything else is
//      fatal and yields an empty index.
//   2. Item-level: each item is checked in order (object, title, price,
//      sign). The first failing check rejects the item; a diagnostic is sent
//      to the sink and indexing moves on to the next item.
//
// DUPLICATES:
//   A later item with the same title overwrites the earlier price.
//
// =============================================================================

package catalogue

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ginjaninja78/computesales/internal/numeric"
	"github.com/ginjaninja78/computesales/internal/types"
	"github.com/shopspring/decimal"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrInvalidItem marks an item that is not a JSON object.
	ErrInvalidItem = errors.New("not an object")

	// ErrInvalidTitle marks a missing, non-string or blank title.
	ErrInvalidTitle = errors.New("missing or invalid title")

	// ErrInvalidPrice marks a price that is not a finite number.
	ErrInvalidPrice = errors.New("invalid price")

	// ErrNegativePrice marks a price below zero.
	ErrNegativePrice = errors.New("negative price")
)

// ItemError describes why a single catalogue item was rejected.
type ItemError struct {
	// Position is the zero-based index of the item in the catalogue.
	Position int

	// Title is the item's title when it could be read.
	Title string

	// Value is the offending raw value, rendered for display.
	Value string

	// Err is one of the Err* sentinels above.
	Err error
}

// Error implements the error interface.
func (e *ItemError) Error() string {
	msg := fmt.Sprintf("item %d: %s", e.Position, e.Err)
	if e.Title != "" {
		msg = fmt.Sprintf("%s for '%s'", msg, e.Title)
	}
	if e.Value != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Value)
	}
	return msg
}

// Unwrap returns the sentinel so callers can use errors.Is.
func (e *ItemError) Unwrap() error {
	return e.Err
}

// =============================================================================
// PRICE INDEX
// =============================================================================

// PriceIndex maps product titles to prices. Every key present has passed
// validation. The index is read-only once BuildPriceIndex returns it.
type PriceIndex struct {
	prices map[string]decimal.Decimal
}

// NewPriceIndex builds an index from an already validated map.
// Entries with an empty title or a negative price are dropped.
func NewPriceIndex(prices map[string]decimal.Decimal) *PriceIndex {
	idx := &PriceIndex{prices: make(map[string]decimal.Decimal, len(prices))}
	for title, price := range prices {
		if strings.TrimSpace(title) == "" || price.IsNegative() {
			continue
		}
		idx.prices[title] = price
	}
	return idx
}

// Lookup returns the price for a product title.
func (p *PriceIndex) Lookup(title string) (decimal.Decimal, bool) {
	if p == nil {
		return decimal.Zero, false
	}
	price, ok := p.prices[title]
	return price, ok
}

// Len returns the number of indexed products.
func (p *PriceIndex) Len() int {
	if p == nil {
		return 0
	}
	return len(p.prices)
}

// Titles returns the indexed titles in sorted order.
func (p *PriceIndex) Titles() []string {
	if p == nil {
		return nil
	}
	titles := make([]string, 0, len(p.prices))
	for title := range p.prices {
		titles = append(titles, title)
	}
	sort.Strings(titles)
	return titles
}

// Prices returns a copy of the underlying mapping.
func (p *PriceIndex) Prices() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, p.Len())
	if p == nil {
		return out
	}
	for title, price := range p.prices {
		out[title] = price
	}
	return out
}

// =============================================================================
// INDEXER
// =============================================================================

// Indexer builds price indexes and reports rejected items to a sink.
type Indexer struct {
	sink types.Sink
}

// NewIndexer creates an Indexer. A nil sink discards diagnostics.
func NewIndexer(sink types.Sink) *Indexer {
	if sink == nil {
		sink = types.Discard
	}
	return &Indexer{sink: sink}
}

// BuildPriceIndex is a convenience wrapper around NewIndexer(sink).Build(doc).
func BuildPriceIndex(doc any, sink types.Sink) (*PriceIndex, error) {
	return NewIndexer(sink).Build(doc)
}

// Build validates every catalogue item and returns the resulting index.
//
// RETURNS:
//   - The index of valid items. Never nil.
//   - An error wrapping types.ErrSchema when doc is not a list. The index is
//     empty in that case.
func (ix *Indexer) Build(doc any) (*PriceIndex, error) {
	idx := &PriceIndex{prices: make(map[string]decimal.Decimal)}

	items, ok := doc.([]any)
	if !ok {
		err := fmt.Errorf("catalogue is not a list: %w", types.ErrSchema)
		ix.sink.Report(types.Diagnostic{
			Severity: types.SeverityError,
			Source:   types.SourceCatalogue,
			Position: -1,
			Message:  "catalogue is not a list",
			Err:      err,
		})
		return idx, err
	}

	for i, item := range items {
		title, price, err := parseItem(i, item)
		if err != nil {
			ix.sink.Report(types.Diagnostic{
				Severity: types.SeverityError,
				Source:   types.SourceCatalogue,
				Position: i,
				Message:  err.Error(),
				Err:      err,
			})
			continue
		}
		idx.prices[title] = price
	}

	return idx, nil
}

// parseItem validates a single catalogue entry.
func parseItem(pos int, item any) (string, decimal.Decimal, error) {
	obj, ok := item.(map[string]any)
	if !ok {
		return "", decimal.Zero, &ItemError{Position: pos, Err: ErrInvalidItem}
	}

	title, ok := obj["title"].(string)
	if !ok || strings.TrimSpace(title) == "" {
		return "", decimal.Zero, &ItemError{Position: pos, Err: ErrInvalidTitle}
	}

	rawPrice, present := obj["price"]
	price, err := numeric.ToDecimal(rawPrice)
	if !present || err != nil {
		return "", decimal.Zero, &ItemError{
			Position: pos,
			Title:    title,
			Value:    display(rawPrice, present),
			Err:      ErrInvalidPrice,
		}
	}

	if price.IsNegative() {
		return "", decimal.Zero, &ItemError{
			Position: pos,
			Title:    title,
			Value:    price.String(),
			Err:      ErrNegativePrice,
		}
	}

	return title, price, nil
}

// display renders a raw JSON value for a diagnostic.
func display(v any, present bool) string {
	if !present {
		return "missing"
	}
	if v == nil {
		return "null"
	}
	return fmt.Sprintf("%v", v)
}
