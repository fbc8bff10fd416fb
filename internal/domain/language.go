package domain

import (
	"strings"

	"golang.org/x/text/language"

	"github.com/kapu/efdata-api-go/pkg/errors"
)

// Language is one of the closed set of codes the upstream publishes a
// localization dictionary for. The codes are the upstream's, not BCP 47.
type Language string

const (
	LanguageEnglish            Language = "en"
	LanguageSimplifiedChinese  Language = "cn"
	LanguageJapanese           Language = "jp"
	LanguageKorean             Language = "kr"
	LanguageTraditionalChinese Language = "tc"
)

var SupportedLanguages = []Language{
	LanguageEnglish,
	LanguageSimplifiedChinese,
	LanguageJapanese,
	LanguageKorean,
	LanguageTraditionalChinese,
}

var languageTags = map[Language]language.Tag{
	LanguageEnglish:            language.English,
	LanguageSimplifiedChinese:  language.SimplifiedChinese,
	LanguageJapanese:           language.Japanese,
	LanguageKorean:             language.Korean,
	LanguageTraditionalChinese: language.TraditionalChinese,
}

// ParseLanguage accepts only the exact codes in SupportedLanguages.
func ParseLanguage(code string) (Language, error) {
	lang := Language(code)
	if _, ok := languageTags[lang]; !ok {
		return "", errors.NewUnsupportedLanguageError(code)
	}
	return lang, nil
}

func (l Language) Supported() bool {
	_, ok := languageTags[l]
	return ok
}

// DictionaryTable returns the upstream file holding this language's text table.
func (l Language) DictionaryTable() string {
	return "I18nTextTable_" + strings.ToUpper(string(l)) + ".json"
}

// Tag is the BCP 47 tag used for Content-Language.
func (l Language) Tag() language.Tag {
	if tag, ok := languageTags[l]; ok {
		return tag
	}
	return language.Und
}

func (l Language) String() string {
	return string(l)
}
