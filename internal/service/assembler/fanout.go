package assembler

import (
	"context"
	"sync"

	"github.com/sourcegraph/conc/pool"

	"github.com/kapu/efdata-api-go/internal/domain"
)

// bundle holds the tables and dictionaries fetched for one assembly.
type bundle struct {
	tables map[string]*domain.Table
	dicts  map[domain.Language]domain.Dictionary
}

func (b *bundle) table(name string) *domain.Table {
	return b.tables[name]
}

func (b *bundle) dict(lang domain.Language) domain.Dictionary {
	return b.dicts[lang]
}

// fetchAll fetches every named table and every language dictionary
// concurrently. The first failure cancels the remaining fetches and is
// returned.
func (a *Assembler) fetchAll(ctx context.Context, langs []domain.Language, names ...string) (*bundle, error) {
	b := &bundle{
		tables: make(map[string]*domain.Table, len(names)),
		dicts:  make(map[domain.Language]domain.Dictionary, len(langs)),
	}

	var mu sync.Mutex
	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()

	for _, name := range names {
		p.Go(func(ctx context.Context) error {
			t, err := a.fetcher.FetchTable(ctx, name)
			if err != nil {
				return err
			}
			mu.Lock()
			b.tables[name] = t
			mu.Unlock()
			return nil
		})
	}

	seen := make(map[domain.Language]bool, len(langs))
	for _, lang := range langs {
		if seen[lang] {
			continue
		}
		seen[lang] = true
		p.Go(func(ctx context.Context) error {
			dict, err := a.fetcher.FetchDictionary(ctx, lang)
			if err != nil {
				return err
			}
			mu.Lock()
			b.dicts[lang] = dict
			mu.Unlock()
			return nil
		})
	}

	if err := p.Wait(); err != nil {
		return nil, err
	}
	return b, nil
}
