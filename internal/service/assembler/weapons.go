package assembler

import (
	"context"

	"go.uber.org/zap"

	"github.com/kapu/efdata-api-go/internal/domain"
	"github.com/kapu/efdata-api-go/internal/service/localize"
	"github.com/kapu/efdata-api-go/internal/util"
)

type WeaponSummary struct {
	Slug string `json:"slug"`
	ID   string `json:"id"`
	Name string `json:"name"`
	domain.ListTags
	Rarity     any `json:"rarity,omitempty"`
	IconID     any `json:"iconId,omitempty"`
	WeaponType any `json:"weaponType,omitempty"`
}

type WeaponDetail struct {
	Summary          domain.DetailSummary `json:"summary"`
	WeaponBasicTable any                  `json:"weaponBasicTable"`
	ItemTable        any                  `json:"itemTable"`
}

// Weapon slugs always come from the English name so every language shares
// one slug space.
func (a *Assembler) weaponList(ctx context.Context, lang domain.Language) (any, error) {
	b, err := a.fetchAll(ctx, []domain.Language{domain.LanguageEnglish, lang}, tableWeaponBasic, tableItem)
	if err != nil {
		return nil, err
	}
	en, dict := b.dict(domain.LanguageEnglish), b.dict(lang)
	items := b.table(tableItem)

	tags := a.listTags(domain.KindWeapons, lang)
	weapons := make([]WeaponSummary, 0, b.table(tableWeaponBasic).Len())
	b.table(tableWeaponBasic).Each(func(key string, weapon any) {
		weaponID := stringField(weapon, "weaponId")
		item, ok := items.Record(weaponID)
		if !ok {
			a.logger.Warn("Weapon has no item record, skipping",
				zap.String("key", key),
				zap.String("weapon_id", weaponID),
			)
			return
		}
		weapons = append(weapons, WeaponSummary{
			Slug:       util.Slugify(localize.Text(domain.Field(weapon, "engName"), en)),
			ID:         weaponID,
			Name:       localize.Text(item["name"], dict),
			ListTags:   tags,
			Rarity:     item["rarity"],
			IconID:     item["iconId"],
			WeaponType: domain.Field(weapon, "weaponType"),
		})
	})
	return weapons, nil
}

// weaponSlugIndex maps name-derived slugs to weapon ids.
func (a *Assembler) weaponSlugIndex(ctx context.Context) (map[string]string, error) {
	b, err := a.fetchAll(ctx, []domain.Language{domain.LanguageEnglish}, tableWeaponBasic)
	if err != nil {
		return nil, err
	}
	en := b.dict(domain.LanguageEnglish)

	index := make(map[string]string, b.table(tableWeaponBasic).Len())
	b.table(tableWeaponBasic).Each(func(_ string, weapon any) {
		slug := util.Slugify(localize.Text(domain.Field(weapon, "engName"), en))
		if _, taken := index[slug]; slug != "" && !taken {
			index[slug] = stringField(weapon, "weaponId")
		}
	})
	return index, nil
}

func (a *Assembler) weaponDetail(ctx context.Context, lang domain.Language, weaponID, slug string) (any, error) {
	weapons, err := a.fetcher.FetchTable(ctx, tableWeaponBasic)
	if err != nil {
		return nil, err
	}
	weapon, ok := weapons.Record(weaponID)
	if !ok {
		return nil, notFound(domain.KindWeapons, slug)
	}

	b, err := a.fetchAll(ctx, []domain.Language{lang}, tableItem)
	if err != nil {
		return nil, err
	}
	dict := b.dict(lang)

	item, ok := b.table(tableItem).Record(weaponID)
	if !ok {
		return nil, notFound(domain.KindWeapons, slug)
	}

	return WeaponDetail{
		Summary:          a.summary(domain.KindWeapons, lang, slug, stringField(weapon, "weaponId"), localize.Text(item["name"], dict)),
		WeaponBasicTable: localize.Resolve(weapon, dict),
		ItemTable:        localize.Resolve(item, dict),
	}, nil
}
