package domain

// Dictionary maps a localization reference id to display text for one
// language.
type Dictionary map[string]string

// NewDictionary keeps the string-valued entries of a text table.
func NewDictionary(t *Table) Dictionary {
	dict := make(Dictionary, t.Len())
	t.Each(func(id string, record any) {
		if text, ok := record.(string); ok {
			dict[id] = text
		}
	})
	return dict
}

// Lookup returns the text for id, or "" when the id is unknown.
func (d Dictionary) Lookup(id string) string {
	return d[id]
}
