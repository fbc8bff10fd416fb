package assembler

import (
	"context"

	"github.com/kapu/efdata-api-go/internal/domain"
	"github.com/kapu/efdata-api-go/internal/service/localize"
)

// LoreSummary is also the list entry of documents.
type LoreSummary struct {
	Slug string `json:"slug"`
	ID   string `json:"id"`
	Name string `json:"name"`
	domain.ListTags
}

type LoreDetail struct {
	Summary          domain.DetailSummary `json:"summary"`
	RichContentTable any                  `json:"richContentTable"`
}

func (a *Assembler) loreList(ctx context.Context, lang domain.Language) (any, error) {
	b, err := a.fetchAll(ctx, []domain.Language{lang}, tableRichContent)
	if err != nil {
		return nil, err
	}
	dict := b.dict(lang)

	tags := a.listTags(domain.KindLore, lang)
	lore := make([]LoreSummary, 0, b.table(tableRichContent).Len())
	b.table(tableRichContent).Each(func(key string, content any) {
		lore = append(lore, LoreSummary{
			Slug:     key,
			ID:       key,
			Name:     localize.Text(domain.Field(content, "title"), dict),
			ListTags: tags,
		})
	})
	return lore, nil
}

func (a *Assembler) loreDetail(ctx context.Context, lang domain.Language, id, slug string) (any, error) {
	contents, err := a.fetcher.FetchTable(ctx, tableRichContent)
	if err != nil {
		return nil, err
	}
	content, ok := contents.Get(id)
	if !ok {
		return nil, notFound(domain.KindLore, slug)
	}

	b, err := a.fetchAll(ctx, []domain.Language{lang})
	if err != nil {
		return nil, err
	}
	dict := b.dict(lang)

	return LoreDetail{
		Summary:          a.summary(domain.KindLore, lang, slug, id, localize.Text(domain.Field(content, "title"), dict)),
		RichContentTable: localize.Resolve(content, dict),
	}, nil
}
