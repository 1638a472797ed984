package sales

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/ginjaninja78/computesales/internal/catalogue"
	"github.com/ginjaninja78/computesales/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, raw string) any {
	t.Helper()
	var doc any
	decoder := json.NewDecoder(strings.NewReader(raw))
	decoder.UseNumber()
	require.NoError(t, decoder.Decode(&doc))
	return doc
}

func penIndex() *catalogue.PriceIndex {
	return catalogue.NewPriceIndex(map[string]decimal.Decimal{
		"Pen":  decimal.RequireFromString("1.5"),
		"Book": decimal.RequireFromString("12.25"),
	})
}

func TestAggregate_SumsMatchingRows(t *testing.T) {
	doc := decode(t, `[
		{"Product": "Pen", "Quantity": 4},
		{"Product": "Book", "Quantity": 2},
		{"Product": "Pen", "Quantity": 0.5}
	]`)

	result, err := Aggregate(penIndex(), doc, nil)
	require.NoError(t, err)

	assert.Equal(t, "31.25", result.Total.StringFixed(2))
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, 3, result.RowsRead)
	assert.Equal(t, 3, result.RowsCounted)
}

func TestAggregate_RowRules(t *testing.T) {
	tests := []struct {
		name     string
		row      string
		errors   []string
		warnings []string
	}{
		{
			name:   "Row is not an object",
			row:    `["Pen", 4]`,
			errors: []string{"row is not an object"},
		},
		{
			name:   "Product missing",
			row:    `{"Quantity": 4}`,
			errors: []string{"missing or invalid Product"},
		},
		{
			name:   "Product not a string",
			row:    `{"Product": 7, "Quantity": 4}`,
			errors: []string{"missing or invalid Product"},
		},
		{
			name:   "Product blank",
			row:    `{"Product": "  ", "Quantity": 4}`,
			errors: []string{"missing or invalid Product"},
		},
		{
			name:   "Quantity missing",
			row:    `{"Product": "Pen"}`,
			errors: []string{"invalid Quantity for 'Pen'"},
		},
		{
			name:   "Quantity null",
			row:    `{"Product": "Pen", "Quantity": null}`,
			errors: []string{"invalid Quantity for 'Pen'"},
		},
		{
			name:   "Quantity not numeric",
			row:    `{"Product": "Pen", "Quantity": "many"}`,
			errors: []string{"invalid Quantity for 'Pen'"},
		},
		{
			name:   "Quantity boolean",
			row:    `{"Product": "Pen", "Quantity": false}`,
			errors: []string{"invalid Quantity for 'Pen'"},
		},
		{
			name:   "Quantity beyond float range",
			row:    `{"Product": "Pen", "Quantity": 1e400}`,
			errors: []string{"invalid Quantity for 'Pen'"},
		},
		{
			name:   "Quantity negative",
			row:    `{"Product": "Pen", "Quantity": -1}`,
			errors: []string{"negative quantity for 'Pen' (-1)"},
		},
		{
			name:   "Negative quantity beats unknown product",
			row:    `{"Product": "Ghost", "Quantity": -2.5}`,
			errors: []string{"negative quantity for 'Ghost' (-2.5)"},
		},
		{
			name:     "Unknown product",
			row:      `{"Product": "Book ", "Quantity": 1}`,
			warnings: []string{"product not found: 'Book '"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := decode(t, `[`+tt.row+`]`)

			var sink types.Collector
			result, err := Aggregate(penIndex(), doc, &sink)
			require.NoError(t, err)

			assert.True(t, result.Total.IsZero(), "total %s", result.Total)
			assert.Equal(t, 0, result.RowsCounted)
			assert.ElementsMatch(t, tt.errors, result.Errors)
			assert.ElementsMatch(t, tt.warnings, result.Warnings)

			require.Len(t, sink.Diagnostics, 1)
			assert.Equal(t, 0, sink.Diagnostics[0].Position)
			assert.Equal(t, types.SourceSales, sink.Diagnostics[0].Source)
		})
	}
}

func TestAggregate_NumericStringQuantity(t *testing.T) {
	doc := decode(t, `[{"Product": "Pen", "Quantity": "2"}]`)

	result, err := Aggregate(penIndex(), doc, nil)
	require.NoError(t, err)
	assert.Equal(t, "3.00", result.Total.StringFixed(2))
}

func TestAggregate_PartitionsDiagnosticsInInputOrder(t *testing.T) {
	doc := decode(t, `[
		{"Product": "Ghost", "Quantity": 1},
		42,
		{"Product": "Pen", "Quantity": 2},
		{"Product": "Phantom", "Quantity": 3},
		{"Product": "Pen", "Quantity": -4}
	]`)

	var sink types.Collector
	result, err := Aggregate(penIndex(), doc, &sink)
	require.NoError(t, err)

	assert.Equal(t, "3.00", result.Total.StringFixed(2))
	assert.Equal(t, []string{
		"row is not an object",
		"negative quantity for 'Pen' (-4)",
	}, result.Errors)
	assert.Equal(t, []string{
		"product not found: 'Ghost'",
		"product not found: 'Phantom'",
	}, result.Warnings)

	positions := make([]int, 0, len(sink.Diagnostics))
	for _, d := range sink.Diagnostics {
		positions = append(positions, d.Position)
	}
	assert.Equal(t, []int{0, 1, 3, 4}, positions)
	assert.Equal(t, []string{"product not found: 'Ghost'", "product not found: 'Phantom'"},
		sink.Messages(types.SeverityWarning))
}

func TestAggregate_ClassifiesRowErrors(t *testing.T) {
	doc := decode(t, `[{"Product": "Pen", "Quantity": -1}, {"Product": "Ghost", "Quantity": 1}]`)

	var sink types.Collector
	_, err := Aggregate(penIndex(), doc, &sink)
	require.NoError(t, err)
	require.Len(t, sink.Diagnostics, 2)

	assert.ErrorIs(t, sink.Diagnostics[0].Err, ErrNegativeQuantity)
	assert.Equal(t, types.SeverityError, sink.Diagnostics[0].Severity)

	assert.ErrorIs(t, sink.Diagnostics[1].Err, ErrUnknownProduct)
	assert.Equal(t, types.SeverityWarning, sink.Diagnostics[1].Severity)

	var rowErr *RowError
	require.ErrorAs(t, sink.Diagnostics[1].Err, &rowErr)
	assert.Equal(t, "Ghost", rowErr.Product)
}

func TestAggregate_NotAList(t *testing.T) {
	var sink types.Collector
	result, err := Aggregate(penIndex(), decode(t, `{"Product":"Pen","Quantity":1}`), &sink)

	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrSchema)
	assert.True(t, result.Total.IsZero())
	assert.Equal(t, []string{"sales document is not a list"}, result.Errors)
	assert.Empty(t, result.Warnings)
	require.Len(t, sink.Diagnostics, 1)
	assert.Equal(t, -1, sink.Diagnostics[0].Position)
}

func TestAggregate_EmptyList(t *testing.T) {
	result, err := Aggregate(penIndex(), decode(t, `[]`), nil)
	require.NoError(t, err)
	assert.Equal(t, "0.00", result.Total.StringFixed(2))
	assert.Equal(t, 0, result.RowsRead)
}

func TestAggregate_IsRepeatable(t *testing.T) {
	doc := decode(t, `[
		{"Product": "Pen", "Quantity": 0.1},
		{"Product": "Pen", "Quantity": 0.2},
		{"Product": "Ghost", "Quantity": 1},
		{"Product": "Book", "Quantity": -3},
		{"Product": "Book", "Quantity": 3}
	]`)
	idx := penIndex()

	first, err := Aggregate(idx, doc, nil)
	require.NoError(t, err)
	second, err := Aggregate(idx, doc, nil)
	require.NoError(t, err)

	assert.True(t, first.Total.Equal(second.Total))
	assert.Equal(t, first.Total.String(), second.Total.String())
	assert.Equal(t, first.Errors, second.Errors)
	assert.Equal(t, first.Warnings, second.Warnings)
	assert.Equal(t, 2, idx.Len())
}

func TestAggregate_AcceptsAnyPriceLookup(t *testing.T) {
	lookup := lookupFunc(func(product string) (decimal.Decimal, bool) {
		return decimal.NewFromInt(2), product == "Any"
	})

	result, err := Aggregate(lookup, decode(t, `[{"Product":"Any","Quantity":5}]`), nil)
	require.NoError(t, err)
	assert.Equal(t, "10", result.Total.String())
}

type lookupFunc func(string) (decimal.Decimal, bool)

func (f lookupFunc) Lookup(product string) (decimal.Decimal, bool) { return f(product) }
