package assembler

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kapu/efdata-api-go/internal/domain"
	"github.com/kapu/efdata-api-go/pkg/errors"
)

// fakeFetcher serves tables from JSON fixtures and counts every fetch.
type fakeFetcher struct {
	mu      sync.Mutex
	tables  map[string]string
	dicts   map[domain.Language]domain.Dictionary
	fetches map[string]int
}

func newFakeFetcher(tables map[string]string, dicts map[domain.Language]domain.Dictionary) *fakeFetcher {
	return &fakeFetcher{tables: tables, dicts: dicts, fetches: make(map[string]int)}
}

func (f *fakeFetcher) FetchTable(_ context.Context, name string) (*domain.Table, error) {
	f.mu.Lock()
	f.fetches[name]++
	body, ok := f.tables[name]
	f.mu.Unlock()

	if !ok {
		return nil, errors.NewUpstreamError("table not available", name, nil)
	}
	return domain.DecodeTable([]byte(body))
}

func (f *fakeFetcher) FetchDictionary(_ context.Context, lang domain.Language) (domain.Dictionary, error) {
	if !lang.Supported() {
		return nil, errors.NewUnsupportedLanguageError(lang.String())
	}

	f.mu.Lock()
	f.fetches[lang.DictionaryTable()]++
	dict, ok := f.dicts[lang]
	f.mu.Unlock()

	if !ok {
		return nil, errors.NewUpstreamError("dictionary not available", lang.DictionaryTable(), nil)
	}
	return dict, nil
}

func (f *fakeFetcher) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches[name]
}

// assertJSON compares the JSON encoding of got with want, ignoring layout.
func assertJSON(t *testing.T, got any, want string) {
	t.Helper()

	raw, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	var gotTree, wantTree any
	if err := json.Unmarshal(raw, &gotTree); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if err := json.Unmarshal([]byte(want), &wantTree); err != nil {
		t.Fatalf("unmarshal expectation: %v", err)
	}
	if diff := cmp.Diff(wantTree, gotTree); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
}
