package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Table is one upstream file decoded into id -> record. Records are generic
// JSON values (map[string]any, []any, string, float64, bool, nil). Iteration
// follows the order entries appear in the upstream document.
type Table struct {
	keys    []string
	records map[string]any
}

// DecodeTable parses a whole-table document. The top level must be an object
// or an array; array entries are keyed by their decimal index.
func DecodeTable(body []byte) (*Table, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("table body is not valid JSON")
	}

	root := gjson.ParseBytes(body)
	isArray := root.IsArray()
	if !root.IsObject() && !isArray {
		return nil, fmt.Errorf("table body must be an object or array, got %s", root.Type)
	}

	t := &Table{records: make(map[string]any)}
	index := 0
	root.ForEach(func(key, value gjson.Result) bool {
		id := key.String()
		if isArray {
			id = strconv.Itoa(index)
			index++
		}
		// Duplicate keys keep their first position and last value.
		if _, exists := t.records[id]; !exists {
			t.keys = append(t.keys, id)
		}
		t.records[id] = value.Value()
		return true
	})

	return t, nil
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.keys)
}

// Keys returns the ids in document order. Callers must not modify the slice.
func (t *Table) Keys() []string {
	if t == nil {
		return nil
	}
	return t.keys
}

func (t *Table) Get(id string) (any, bool) {
	if t == nil {
		return nil, false
	}
	v, ok := t.records[id]
	return v, ok
}

// Record returns the entry for id when it exists and is a JSON object.
func (t *Table) Record(id string) (map[string]any, bool) {
	v, ok := t.Get(id)
	if !ok {
		return nil, false
	}
	m, ok := v.(map[string]any)
	return m, ok
}

func (t *Table) Each(fn func(id string, record any)) {
	if t == nil {
		return
	}
	for _, id := range t.keys {
		fn(id, t.records[id])
	}
}

// KeysWithPrefix returns, in document order, every id starting with any of
// the given prefixes.
func (t *Table) KeysWithPrefix(prefixes ...string) []string {
	matched := make([]string, 0)
	if t == nil {
		return matched
	}
	for _, id := range t.keys {
		for _, prefix := range prefixes {
			if strings.HasPrefix(id, prefix) {
				matched = append(matched, id)
				break
			}
		}
	}
	return matched
}

// Field reads a key from a record when the record is a JSON object.
func Field(record any, name string) any {
	m, ok := record.(map[string]any)
	if !ok {
		return nil
	}
	return m[name]
}

// KeyString converts a scalar used as a join key into the string form table
// ids take. Numbers use their shortest decimal form.
func KeyString(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(val), true
	default:
		return "", false
	}
}

// StringList converts a JSON array of scalars into join keys, skipping
// entries that are not scalars.
func StringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if key, ok := KeyString(item); ok {
			out = append(out, key)
		}
	}
	return out
}
