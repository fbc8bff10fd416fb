package assembler

import (
	"context"

	"github.com/kapu/efdata-api-go/internal/domain"
	"github.com/kapu/efdata-api-go/internal/service/localize"
	"github.com/kapu/efdata-api-go/internal/util"
)

// The male endministrator is an alternate form of chr_0003_endminf and is
// listed once, under the female id.
const alternateEndministratorID = "chr_0002_endminm"

// Potential talents of some operators are published under a second id.
var operatorPotentialAliases = map[string][]string{
	"chr_0003_endminf": {alternateEndministratorID},
}

type OperatorSummary struct {
	Slug string `json:"slug"`
	ID   string `json:"id"`
	Name string `json:"name"`
	domain.ListTags
	Rarity     any `json:"rarity,omitempty"`
	CharTypeID any `json:"charTypeId,omitempty"`
	Profession any `json:"profession,omitempty"`
	WeaponType any `json:"weaponType,omitempty"`
}

type OperatorDetail struct {
	Summary                    domain.DetailSummary `json:"summary"`
	CharacterTable             any                  `json:"characterTable"`
	CharGrowthTable            any                  `json:"charGrowthTable"`
	ItemTable                  any                  `json:"itemTable"`
	CharacterPotentialTable    any                  `json:"characterPotentialTable"`
	PotentialTalentEffectTable map[string]any       `json:"potentialTalentEffectTable"`
	CharTagDesTable            any                  `json:"charTagDesTable"`
	CharTypeTable              any                  `json:"charTypeTable"`
	CharProfessionTable        any                  `json:"charProfessionTable"`
	SkillPatchTable            map[string]any       `json:"skillPatchTable"`
	SpaceshipCharSkillTable    any                  `json:"spaceshipCharSkillTable"`
	SpaceshipSkillTable        map[string]any       `json:"spaceshipSkillTable"`
}

func (a *Assembler) operatorList(ctx context.Context, lang domain.Language) (any, error) {
	b, err := a.fetchAll(ctx, []domain.Language{domain.LanguageEnglish, lang}, tableCharacter)
	if err != nil {
		return nil, err
	}
	en, dict := b.dict(domain.LanguageEnglish), b.dict(lang)

	tags := a.listTags(domain.KindOperators, lang)
	operators := make([]OperatorSummary, 0, b.table(tableCharacter).Len())
	b.table(tableCharacter).Each(func(_ string, char any) {
		charID := stringField(char, "charId")
		if charID == alternateEndministratorID {
			return
		}
		name := domain.Field(char, "name")
		operators = append(operators, OperatorSummary{
			Slug:       util.Slugify(localize.Text(name, en)),
			ID:         charID,
			Name:       localize.Text(name, dict),
			ListTags:   tags,
			Rarity:     domain.Field(char, "rarity"),
			CharTypeID: domain.Field(char, "charTypeId"),
			Profession: domain.Field(char, "profession"),
			WeaponType: domain.Field(char, "weaponType"),
		})
	})
	return operators, nil
}

// operatorSlugIndex maps name-derived slugs to character ids.
func (a *Assembler) operatorSlugIndex(ctx context.Context) (map[string]string, error) {
	b, err := a.fetchAll(ctx, []domain.Language{domain.LanguageEnglish}, tableCharacter)
	if err != nil {
		return nil, err
	}
	en := b.dict(domain.LanguageEnglish)

	index := make(map[string]string, b.table(tableCharacter).Len())
	b.table(tableCharacter).Each(func(_ string, char any) {
		charID := stringField(char, "charId")
		if charID == alternateEndministratorID {
			return
		}
		slug := util.Slugify(localize.Text(domain.Field(char, "name"), en))
		if _, taken := index[slug]; slug != "" && !taken {
			index[slug] = charID
		}
	})
	return index, nil
}

func (a *Assembler) operatorDetail(ctx context.Context, lang domain.Language, charID, slug string) (any, error) {
	chars, err := a.fetcher.FetchTable(ctx, tableCharacter)
	if err != nil {
		return nil, err
	}
	char, ok := chars.Record(charID)
	if !ok {
		return nil, notFound(domain.KindOperators, slug)
	}

	b, err := a.fetchAll(ctx, []domain.Language{lang},
		tableCharGrowth,
		tableItem,
		tableCharacterPotential,
		tablePotentialTalentEffect,
		tableCharacterTagDes,
		tableCharType,
		tableCharProfession,
		tableSpaceshipCharSkill,
		tableSpaceshipSkill,
		tableSkillPatch,
	)
	if err != nil {
		return nil, err
	}
	dict := b.dict(lang)

	prefixes := append([]string{charID}, operatorPotentialAliases[charID]...)

	shipSkills := make(map[string]any)
	if rawShipSkills, ok := b.table(tableSpaceshipCharSkill).Record(charID); ok {
		skillList, _ := rawShipSkills["skillList"].([]any)
		for _, skill := range skillList {
			skillID, ok := domain.KeyString(domain.Field(skill, "skillId"))
			if !ok {
				continue
			}
			if resolved := byID(b.table(tableSpaceshipSkill), skillID, dict); resolved != nil {
				shipSkills[skillID] = resolved
			}
		}
	}

	return OperatorDetail{
		Summary:                    a.summary(domain.KindOperators, lang, slug, charID, localize.Text(char["name"], dict)),
		CharacterTable:             localize.Resolve(char, dict),
		CharGrowthTable:            byID(b.table(tableCharGrowth), charID, dict),
		ItemTable:                  byID(b.table(tableItem), charID, dict),
		CharacterPotentialTable:    byID(b.table(tableCharacterPotential), charID, dict),
		PotentialTalentEffectTable: byPrefix(b.table(tablePotentialTalentEffect), dict, prefixes...),
		CharTagDesTable:            byID(b.table(tableCharacterTagDes), charID, dict),
		CharTypeTable:              byField(b.table(tableCharType), char["charTypeId"], dict),
		CharProfessionTable:        byField(b.table(tableCharProfession), char["profession"], dict),
		SkillPatchTable:            byPrefix(b.table(tableSkillPatch), dict, charID),
		SpaceshipCharSkillTable:    byID(b.table(tableSpaceshipCharSkill), charID, dict),
		SpaceshipSkillTable:        shipSkills,
	}, nil
}
