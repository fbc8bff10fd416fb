package domain

// ListTags mark a list entry with the language, kind and data version it
// was built for.
type ListTags struct {
	Lang    Language `json:"lang"`
	Kind    Kind     `json:"kind"`
	Version string   `json:"version"`
}

// DetailSummary heads every detail payload.
type DetailSummary struct {
	Slug    string   `json:"slug"`
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Lang    Language `json:"lang"`
	Type    string   `json:"type"`
	Version string   `json:"version"`
}
