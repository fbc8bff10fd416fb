package assembler

// Upstream table files.
const (
	tableCharacter                = "CharacterTable.json"
	tableCharGrowth               = "CharGrowthTable.json"
	tableCharacterPotential       = "CharacterPotentialTable.json"
	tablePotentialTalentEffect    = "PotentialTalentEffectTable.json"
	tableCharacterTagDes          = "CharacterTagDesTable.json"
	tableCharType                 = "CharTypeTable.json"
	tableCharProfession           = "CharProfessionTable.json"
	tableSpaceshipCharSkill       = "SpaceshipCharSkillTable.json"
	tableSpaceshipSkill           = "SpaceshipSkillTable.json"
	tableSkillPatch               = "SkillPatchTable.json"
	tableItem                     = "ItemTable.json"
	tableItemType                 = "ItemTypeTable.json"
	tableWeaponBasic              = "WeaponBasicTable.json"
	tableEnemyTemplateDisplayInfo = "EnemyTemplateDisplayInfoTable.json"
	tableEnemyAttributeTemplate   = "EnemyAttributeTemplateTable.json"
	tableEnemyAbilityDesc         = "EnemyAbilityDescTable.json"
	tableRichContent              = "RichContentTable.json"
	tablePrtsDocument             = "PrtsDocument.json"
	tableWikiTutorialPageByEntry  = "WikiTutorialPageByEntryTable.json"
	tableWikiTutorialPage         = "WikiTutorialPageTable.json"
	tableFactoryBuilding          = "FactoryBuildingTable.json"
	tableFactoryBuildingItemRev   = "FactoryBuildingItemReverseTable.json"
	tableFactoryMachineCraft      = "FactoryMachineCraftTable.json"
	tableFactoryCrafterIncome     = "FactoryItemAsMachineCrafterIncomeTable.json"
	tableFactoryCrafterOutcome    = "FactoryItemAsMachineCrafterOutcomeTable.json"
)
