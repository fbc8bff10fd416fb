package assembler

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/kapu/efdata-api-go/internal/domain"
	"github.com/kapu/efdata-api-go/internal/service/localize"
)

// First pages of multi-page tutorials carry a page counter in their title.
const firstPageTitleSuffix = " (1)"

type TutorialSummary struct {
	Slug string `json:"slug"`
	ID   string `json:"id"`
	Name string `json:"name"`
	domain.ListTags
	Order any `json:"order,omitempty"`
}

type TutorialDetail struct {
	Summary                      domain.DetailSummary `json:"summary"`
	WikiTutorialPageByEntryTable any                  `json:"WikiTutorialPageByEntryTable"`
	WikiTutorialPageTable        map[string]any       `json:"wikiTutorialPageTable"`
}

// tutorialName is the display name of a tutorial: its first page title
// without the page counter.
func tutorialName(firstPage map[string]any, dict domain.Dictionary) string {
	return strings.TrimSuffix(localize.Text(firstPage["title"], dict), firstPageTitleSuffix)
}

func firstPage(entry any, pages *domain.Table) (map[string]any, bool) {
	pageIDs := domain.StringList(domain.Field(entry, "pageIds"))
	if len(pageIDs) == 0 {
		return nil, false
	}
	return pages.Record(pageIDs[0])
}

func (a *Assembler) tutorialList(ctx context.Context, lang domain.Language) (any, error) {
	b, err := a.fetchAll(ctx, []domain.Language{lang}, tableWikiTutorialPageByEntry, tableWikiTutorialPage)
	if err != nil {
		return nil, err
	}
	dict := b.dict(lang)
	pages := b.table(tableWikiTutorialPage)

	tags := a.listTags(domain.KindTutorials, lang)
	tutorials := make([]TutorialSummary, 0, b.table(tableWikiTutorialPageByEntry).Len())
	b.table(tableWikiTutorialPageByEntry).Each(func(key string, entry any) {
		page, ok := firstPage(entry, pages)
		if !ok {
			a.logger.Warn("Tutorial has no first page, skipping", zap.String("key", key))
			return
		}
		tutorials = append(tutorials, TutorialSummary{
			Slug:     key,
			ID:       key,
			Name:     tutorialName(page, dict),
			ListTags: tags,
			Order:    page["order"],
		})
	})
	return tutorials, nil
}

func (a *Assembler) tutorialDetail(ctx context.Context, lang domain.Language, id, slug string) (any, error) {
	entries, err := a.fetcher.FetchTable(ctx, tableWikiTutorialPageByEntry)
	if err != nil {
		return nil, err
	}
	entry, ok := entries.Get(id)
	if !ok {
		return nil, notFound(domain.KindTutorials, slug)
	}

	b, err := a.fetchAll(ctx, []domain.Language{lang}, tableWikiTutorialPage)
	if err != nil {
		return nil, err
	}
	dict := b.dict(lang)
	pages := b.table(tableWikiTutorialPage)

	page, ok := firstPage(entry, pages)
	if !ok {
		return nil, notFound(domain.KindTutorials, slug)
	}

	return TutorialDetail{
		Summary:                      a.summary(domain.KindTutorials, lang, slug, id, tutorialName(page, dict)),
		WikiTutorialPageByEntryTable: localize.Resolve(entry, dict),
		WikiTutorialPageTable:        byIDs(pages, domain.StringList(domain.Field(entry, "pageIds")), dict),
	}, nil
}
