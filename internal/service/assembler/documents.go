package assembler

import (
	"context"

	"github.com/kapu/efdata-api-go/internal/domain"
	"github.com/kapu/efdata-api-go/internal/service/localize"
)

type DocumentDetail struct {
	Summary          domain.DetailSummary `json:"summary"`
	PrtsDocument     any                  `json:"prtsDocument"`
	RichContentTable any                  `json:"richContentTable"`
}

func (a *Assembler) documentList(ctx context.Context, lang domain.Language) (any, error) {
	b, err := a.fetchAll(ctx, []domain.Language{lang}, tablePrtsDocument)
	if err != nil {
		return nil, err
	}
	dict := b.dict(lang)

	tags := a.listTags(domain.KindDocuments, lang)
	documents := make([]LoreSummary, 0, b.table(tablePrtsDocument).Len())
	b.table(tablePrtsDocument).Each(func(key string, document any) {
		documents = append(documents, LoreSummary{
			Slug:     key,
			ID:       key,
			Name:     localize.Text(domain.Field(document, "name"), dict),
			ListTags: tags,
		})
	})
	return documents, nil
}

// A document's display name is the title of the rich content it points at.
func (a *Assembler) documentDetail(ctx context.Context, lang domain.Language, id, slug string) (any, error) {
	documents, err := a.fetcher.FetchTable(ctx, tablePrtsDocument)
	if err != nil {
		return nil, err
	}
	document, ok := documents.Get(id)
	if !ok {
		return nil, notFound(domain.KindDocuments, slug)
	}

	b, err := a.fetchAll(ctx, []domain.Language{lang}, tableRichContent)
	if err != nil {
		return nil, err
	}
	dict := b.dict(lang)

	content, ok := b.table(tableRichContent).Get(stringField(document, "contentId"))
	if !ok {
		return nil, notFound(domain.KindDocuments, slug)
	}

	return DocumentDetail{
		Summary:          a.summary(domain.KindDocuments, lang, slug, id, localize.Text(domain.Field(content, "title"), dict)),
		PrtsDocument:     localize.Resolve(document, dict),
		RichContentTable: localize.Resolve(content, dict),
	}, nil
}
