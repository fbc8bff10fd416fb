package assembler

import (
	"context"

	"github.com/kapu/efdata-api-go/internal/domain"
	"github.com/kapu/efdata-api-go/internal/service/localize"
)

type EnemySummary struct {
	Slug string `json:"slug"`
	ID   string `json:"id"`
	Name string `json:"name"`
	domain.ListTags
	DisplayType any `json:"displayType,omitempty"`
}

type EnemyDetail struct {
	Summary                       domain.DetailSummary `json:"summary"`
	EnemyTemplateDisplayInfoTable any                  `json:"enemyTemplateDisplayInfoTable"`
	EnemyAttributeTemplateTable   any                  `json:"enemyAttributeTemplateTable"`
	EnemyAbilityDescTable         map[string]any       `json:"enemyAbilityDescTable"`
}

func (a *Assembler) enemyList(ctx context.Context, lang domain.Language) (any, error) {
	b, err := a.fetchAll(ctx, []domain.Language{lang}, tableEnemyTemplateDisplayInfo)
	if err != nil {
		return nil, err
	}
	dict := b.dict(lang)

	tags := a.listTags(domain.KindEnemies, lang)
	enemies := make([]EnemySummary, 0, b.table(tableEnemyTemplateDisplayInfo).Len())
	b.table(tableEnemyTemplateDisplayInfo).Each(func(_ string, enemy any) {
		templateID := stringField(enemy, "templateId")
		enemies = append(enemies, EnemySummary{
			Slug:        templateID,
			ID:          templateID,
			Name:        localize.Text(domain.Field(enemy, "name"), dict),
			ListTags:    tags,
			DisplayType: domain.Field(enemy, "displayType"),
		})
	})
	return enemies, nil
}

func (a *Assembler) enemyDetail(ctx context.Context, lang domain.Language, id, slug string) (any, error) {
	displays, err := a.fetcher.FetchTable(ctx, tableEnemyTemplateDisplayInfo)
	if err != nil {
		return nil, err
	}
	enemy, ok := displays.Record(id)
	if !ok {
		return nil, notFound(domain.KindEnemies, slug)
	}

	b, err := a.fetchAll(ctx, []domain.Language{lang}, tableEnemyAttributeTemplate, tableEnemyAbilityDesc)
	if err != nil {
		return nil, err
	}
	dict := b.dict(lang)

	stats, ok := b.table(tableEnemyAttributeTemplate).Get(id)
	if !ok {
		return nil, notFound(domain.KindEnemies, slug)
	}

	return EnemyDetail{
		Summary:                       a.summary(domain.KindEnemies, lang, slug, stringField(enemy, "templateId"), localize.Text(enemy["name"], dict)),
		EnemyTemplateDisplayInfoTable: localize.Resolve(enemy, dict),
		EnemyAttributeTemplateTable:   localize.Resolve(stats, dict),
		EnemyAbilityDescTable:         byIDs(b.table(tableEnemyAbilityDesc), domain.StringList(enemy["abilityDescIds"]), dict),
	}, nil
}
