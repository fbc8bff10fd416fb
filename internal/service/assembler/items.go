package assembler

import (
	"context"

	"github.com/kapu/efdata-api-go/internal/domain"
	"github.com/kapu/efdata-api-go/internal/service/localize"
)

type ItemSummary struct {
	Slug string `json:"slug"`
	ID   string `json:"id"`
	Name string `json:"name"`
	domain.ListTags
	IconID   any     `json:"iconId,omitempty"`
	Rarity   any     `json:"rarity,omitempty"`
	Type     any     `json:"type,omitempty"`
	TypeName *string `json:"typeName"`
}

type ItemDetail struct {
	Summary                     domain.DetailSummary `json:"summary"`
	ItemTable                   any                  `json:"itemTable"`
	ItemTypeTable               any                  `json:"itemTypeTable"`
	InFactoryMachineCraftTable  []any                `json:"inFactoryMachineCraftTable"`
	OutFactoryMachineCraftTable []any                `json:"outFactoryMachineCraftTable"`
}

func (a *Assembler) itemList(ctx context.Context, lang domain.Language) (any, error) {
	b, err := a.fetchAll(ctx, []domain.Language{lang}, tableItem, tableItemType)
	if err != nil {
		return nil, err
	}
	dict := b.dict(lang)
	types := b.table(tableItemType)

	tags := a.listTags(domain.KindItems, lang)
	items := make([]ItemSummary, 0, b.table(tableItem).Len())
	b.table(tableItem).Each(func(_ string, item any) {
		id := stringField(item, "id")
		summary := ItemSummary{
			Slug:     id,
			ID:       id,
			Name:     localize.Text(domain.Field(item, "name"), dict),
			ListTags: tags,
			IconID:   domain.Field(item, "iconId"),
			Rarity:   domain.Field(item, "rarity"),
			Type:     domain.Field(item, "type"),
		}
		if itemType, ok := types.Record(stringField(item, "type")); ok {
			typeName := localize.Text(itemType["name"], dict)
			summary.TypeName = &typeName
		}
		items = append(items, summary)
	})
	return items, nil
}

func (a *Assembler) itemDetail(ctx context.Context, lang domain.Language, id, slug string) (any, error) {
	itemTable, err := a.fetcher.FetchTable(ctx, tableItem)
	if err != nil {
		return nil, err
	}
	item, ok := itemTable.Record(id)
	if !ok {
		return nil, notFound(domain.KindItems, slug)
	}

	b, err := a.fetchAll(ctx, []domain.Language{lang},
		tableItemType,
		tableFactoryCrafterIncome,
		tableFactoryCrafterOutcome,
		tableFactoryMachineCraft,
	)
	if err != nil {
		return nil, err
	}
	dict := b.dict(lang)
	crafts := b.table(tableFactoryMachineCraft)

	return ItemDetail{
		Summary:                     a.summary(domain.KindItems, lang, slug, stringField(item, "id"), localize.Text(item["name"], dict)),
		ItemTable:                   localize.Resolve(item, dict),
		ItemTypeTable:               byField(b.table(tableItemType), item["type"], dict),
		InFactoryMachineCraftTable:  inOrder(crafts, craftIDs(b.table(tableFactoryCrafterIncome), id), dict),
		OutFactoryMachineCraftTable: inOrder(crafts, craftIDs(b.table(tableFactoryCrafterOutcome), id), dict),
	}, nil
}

// craftIDs reads the recipe ids an item takes part in from a crafter table.
func craftIDs(t *domain.Table, itemID string) []string {
	record, ok := t.Get(itemID)
	if !ok {
		return nil
	}
	return domain.StringList(domain.Field(record, "list"))
}
