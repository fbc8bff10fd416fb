package domain

// Kind is the URL path segment naming an entity collection.
type Kind string

const (
	KindOperators  Kind = "operators"
	KindWeapons    Kind = "weapons"
	KindEnemies    Kind = "enemies"
	KindItems      Kind = "items"
	KindLore       Kind = "lore"
	KindDocuments  Kind = "documents"
	KindTutorials  Kind = "tutorials"
	KindFacilities Kind = "facilities"
)

var Kinds = []Kind{
	KindOperators,
	KindWeapons,
	KindEnemies,
	KindItems,
	KindLore,
	KindDocuments,
	KindTutorials,
	KindFacilities,
}

var entityTypes = map[Kind]string{
	KindOperators:  "operator",
	KindWeapons:    "weapon",
	KindEnemies:    "enemy",
	KindItems:      "item",
	KindLore:       "lore",
	KindDocuments:  "document",
	KindTutorials:  "tutorial",
	KindFacilities: "facility",
}

func ParseKind(s string) (Kind, bool) {
	kind := Kind(s)
	_, ok := entityTypes[kind]
	return kind, ok
}

// EntityType is the singular name reported in a detail summary's "type".
func (k Kind) EntityType() string {
	return entityTypes[k]
}

func (k Kind) String() string {
	return string(k)
}
