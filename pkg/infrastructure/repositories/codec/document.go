// Package codec converts domain values into generic documents for the
// document store backends.
package codec

import (
	"encoding/json"
	"fmt"
)

// ToDocument converts a JSON-encodable value into a generic document.
// Decimals become strings and times become RFC 3339 strings.
func ToDocument(data any) (map[string]any, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("document must encode to an object: %w", err)
	}
	return doc, nil
}

// FromDocument decodes a generic document into out
func FromDocument(doc any, out any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}
	return nil
}
