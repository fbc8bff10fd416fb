package assembler

import (
	"context"

	"github.com/kapu/efdata-api-go/internal/domain"
	"github.com/kapu/efdata-api-go/internal/service/localize"
)

type FacilitySummary struct {
	Slug string `json:"slug"`
	ID   string `json:"id"`
	Name string `json:"name"`
	domain.ListTags
	Icon         any `json:"icon"`
	QuickBarType any `json:"quickBarType,omitempty"`
	Type         any `json:"type,omitempty"`
	Rarity       any `json:"rarity"`
}

type FacilityDetail struct {
	Summary                  domain.DetailSummary `json:"summary"`
	FactoryBuildingTable     any                  `json:"factoryBuildingTable"`
	FactoryMachineCraftTable []any                `json:"factoryMachineCraftTable"`
}

// Icon and rarity come from the item a facility is built from, through the
// building -> item reverse table.
func (a *Assembler) facilityList(ctx context.Context, lang domain.Language) (any, error) {
	b, err := a.fetchAll(ctx, []domain.Language{lang}, tableFactoryBuilding, tableFactoryBuildingItemRev, tableItem)
	if err != nil {
		return nil, err
	}
	dict := b.dict(lang)
	reverse, items := b.table(tableFactoryBuildingItemRev), b.table(tableItem)

	tags := a.listTags(domain.KindFacilities, lang)
	facilities := make([]FacilitySummary, 0, b.table(tableFactoryBuilding).Len())
	b.table(tableFactoryBuilding).Each(func(_ string, building any) {
		id := stringField(building, "id")
		summary := FacilitySummary{
			Slug:         id,
			ID:           id,
			Name:         localize.Text(domain.Field(building, "name"), dict),
			ListTags:     tags,
			QuickBarType: domain.Field(building, "quickBarType"),
			Type:         domain.Field(building, "type"),
		}
		if link, ok := reverse.Get(id); ok {
			if item, ok := items.Record(stringField(link, "itemId")); ok {
				summary.Icon = item["iconId"]
				summary.Rarity = item["rarity"]
			}
		}
		facilities = append(facilities, summary)
	})
	return facilities, nil
}

func (a *Assembler) facilityDetail(ctx context.Context, lang domain.Language, id, slug string) (any, error) {
	buildings, err := a.fetcher.FetchTable(ctx, tableFactoryBuilding)
	if err != nil {
		return nil, err
	}
	building, ok := buildings.Record(id)
	if !ok {
		return nil, notFound(domain.KindFacilities, slug)
	}

	b, err := a.fetchAll(ctx, []domain.Language{lang}, tableFactoryMachineCraft)
	if err != nil {
		return nil, err
	}
	dict := b.dict(lang)
	facilityID := stringField(building, "id")

	return FacilityDetail{
		Summary:                  a.summary(domain.KindFacilities, lang, slug, facilityID, localize.Text(building["name"], dict)),
		FactoryBuildingTable:     localize.Resolve(building, dict),
		FactoryMachineCraftTable: where(b.table(tableFactoryMachineCraft), "machineId", facilityID, dict),
	}, nil
}
