// =============================================================================
// Sales Calculator - Numeric Conversion
// =============================================================================
//
// Documents are decoded into untyped values, so prices and quantities arrive
// as whatever the JSON decoder produced. This package turns such a value into
// a finite decimal or reports why it cannot.
//
// ACCEPTED INPUTS:
//   - json.Number           : the decoder runs with UseNumber
//   - float32 / float64     : must be finite
//   - signed integer kinds
//   - string                : a decimal literal, surrounding space ignored
//   - decimal.Decimal
//
// Values beyond the float64 range (e.g. 1e400) are rejected even though a
// decimal could hold them.
//
// Booleans, null, objects and arrays are rejected. There is no silent coercion:
// a value either converts exactly or the caller gets an error.
//
// =============================================================================

package numeric

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrNotNumeric is returned for values that cannot be read as a finite number.
var ErrNotNumeric = errors.New("not a finite number")

// maxIntegerDigits is the number of integer digits in math.MaxFloat64.
const maxIntegerDigits = 309

// ToDecimal converts a decoded JSON value to a decimal.
func ToDecimal(v any) (decimal.Decimal, error) {
	switch n := v.(type) {
	case decimal.Decimal:
		return finite(n)
	case json.Number:
		return fromString(n.String())
	case float64:
		return fromFloat(n)
	case float32:
		return fromFloat(float64(n))
	case int:
		return decimal.NewFromInt(int64(n)), nil
	case int64:
		return decimal.NewFromInt(n), nil
	case int32:
		return decimal.NewFromInt32(n), nil
	case string:
		return fromString(n)
	case nil:
		return decimal.Zero, fmt.Errorf("%w: missing value", ErrNotNumeric)
	default:
		return decimal.Zero, fmt.Errorf("%w: unsupported type %T", ErrNotNumeric, v)
	}
}

func fromFloat(f float64) (decimal.Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrNotNumeric, f)
	}
	return decimal.NewFromFloat(f), nil
}

func fromString(s string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return decimal.Zero, fmt.Errorf("%w: empty string", ErrNotNumeric)
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrNotNumeric, s)
	}
	return finite(d)
}

// finite rejects decimals whose magnitude is beyond the float64 range, such
// as "1e400". The digit count is checked first so huge exponents are refused
// without expanding them.
func finite(d decimal.Decimal) (decimal.Decimal, error) {
	intDigits := d.NumDigits() + int(d.Exponent())
	if intDigits < maxIntegerDigits {
		return d, nil
	}
	if intDigits > maxIntegerDigits || math.IsInf(d.InexactFloat64(), 0) {
		return decimal.Zero, fmt.Errorf("%w: out of float64 range", ErrNotNumeric)
	}
	return d, nil
}
