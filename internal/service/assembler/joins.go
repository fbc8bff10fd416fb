package assembler

import (
	"github.com/kapu/efdata-api-go/internal/domain"
	"github.com/kapu/efdata-api-go/internal/service/localize"
)

// byID resolves the record stored under id, or nil when there is none.
func byID(t *domain.Table, id string, dict domain.Dictionary) any {
	record, ok := t.Get(id)
	if !ok {
		return nil
	}
	return localize.Resolve(record, dict)
}

// byField resolves the record whose id is the value of a foreign key field.
func byField(t *domain.Table, key any, dict domain.Dictionary) any {
	id, ok := domain.KeyString(key)
	if !ok {
		return nil
	}
	return byID(t, id, dict)
}

// byPrefix resolves every record whose id starts with one of prefixes.
func byPrefix(t *domain.Table, dict domain.Dictionary, prefixes ...string) map[string]any {
	out := make(map[string]any)
	for _, id := range t.KeysWithPrefix(prefixes...) {
		out[id] = byID(t, id, dict)
	}
	return out
}

// byIDs resolves the listed ids into an id-keyed map, skipping ids that are
// not in the table.
func byIDs(t *domain.Table, ids []string, dict domain.Dictionary) map[string]any {
	out := make(map[string]any, len(ids))
	for _, id := range ids {
		if record, ok := t.Get(id); ok {
			out[id] = localize.Resolve(record, dict)
		}
	}
	return out
}

// inOrder resolves the listed ids into a slice. Ids missing from the table
// keep their position as nil.
func inOrder(t *domain.Table, ids []string, dict domain.Dictionary) []any {
	out := make([]any, 0, len(ids))
	for _, id := range ids {
		out = append(out, byID(t, id, dict))
	}
	return out
}

// where resolves, in table order, every record whose field equals value.
func where(t *domain.Table, field, value string, dict domain.Dictionary) []any {
	out := make([]any, 0)
	t.Each(func(_ string, record any) {
		if key, ok := domain.KeyString(domain.Field(record, field)); ok && key == value {
			out = append(out, localize.Resolve(record, dict))
		}
	})
	return out
}

// stringField reads a scalar field as a string key.
func stringField(record any, field string) string {
	s, _ := domain.KeyString(domain.Field(record, field))
	return s
}
