// =============================================================================
// Sales Calculator - JSON Document Loader
// =============================================================================
//
// This module reads a JSON file from disk and decodes it into an untyped
// value for the catalogue and sales components.
//
// DECODING RULES:
//   - Numbers are kept as json.Number so prices and quantities reach the
//     decimal conversion without a float64 round trip.
//   - The file must hold exactly one JSON value; trailing data is an error.
//   - No shape checks happen here. Whether the value is a list is decided by
//     the component that consumes it.
//
// =============================================================================

package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// LoadError reports a document that could not be read or decoded.
type LoadError struct {
	// Path is the file that failed to load.
	Path string

	// Err is the underlying I/O or decoding error.
	Err error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	return fmt.Sprintf("cannot load JSON from %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *LoadError) Unwrap() error {
	return e.Err
}

// Load reads and decodes the JSON file at path.
func Load(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	doc, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	return doc, nil
}

// Decode reads a single JSON value from r.
func Decode(r io.Reader) (any, error) {
	decoder := json.NewDecoder(r)
	decoder.UseNumber()

	var doc any
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty document")
		}
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	var extra any
	if err := decoder.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, errors.New("invalid JSON: unexpected data after top-level value")
	}

	return doc, nil
}
