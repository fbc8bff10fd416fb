// Package localize replaces localization references embedded in upstream
// records with display text from a language dictionary.
package localize

import (
	"github.com/kapu/efdata-api-go/internal/domain"
)

const (
	referenceIDKey   = "id"
	referenceTextKey = "text"
)

// Reference is a node pointing at a dictionary entry. Text is the raw text
// the upstream embedded and is never shown.
type Reference struct {
	ID   string
	Text any
}

// DecodeReference succeeds only for an object with exactly the keys "id" and
// "text". Anything else is ordinary data.
func DecodeReference(node any) (Reference, bool) {
	m, ok := node.(map[string]any)
	if !ok || len(m) != 2 {
		return Reference{}, false
	}
	rawID, hasID := m[referenceIDKey]
	text, hasText := m[referenceTextKey]
	if !hasID || !hasText {
		return Reference{}, false
	}
	id, _ := domain.KeyString(rawID)
	return Reference{ID: id, Text: text}, true
}

// Resolve returns a copy of node with every reference replaced by its
// dictionary text ("" when the id is unknown). The input is not modified.
// Cyclic input is not supported.
func Resolve(node any, dict domain.Dictionary) any {
	switch v := node.(type) {
	case nil:
		return nil
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = Resolve(item, dict)
		}
		return out
	case map[string]any:
		if ref, ok := DecodeReference(v); ok {
			return dict.Lookup(ref.ID)
		}
		out := make(map[string]any, len(v))
		for key, value := range v {
			out[key] = Resolve(value, dict)
		}
		return out
	default:
		return v
	}
}

// Text resolves node and returns it when the result is a string, "" otherwise.
func Text(node any, dict domain.Dictionary) string {
	s, _ := Resolve(node, dict).(string)
	return s
}
