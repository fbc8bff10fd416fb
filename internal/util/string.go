package util

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize performs basic string normalization (lowercase + trim)
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

var stripMarks = runes.Remove(runes.In(unicode.Mn))

// symbolWords spells out symbols that carry meaning in a name. Words are
// inserted without surrounding spaces ("R&D" -> "randd").
var symbolWords = strings.NewReplacer(
	"&", "and",
	"$", "dollar",
	"%", "percent",
	"<", "less",
	">", "greater",
	"|", "or",
	"¢", "cent",
	"£", "pound",
	"¤", "currency",
	"¥", "yen",
	"€", "euro",
	"©", "c",
	"®", "r",
	"∞", "infinity",
	"♥", "love",
)

// Slugify converts a display name into a lowercase URL slug: symbols such as
// "&" are spelled out, accents are folded, letters and digits kept,
// whitespace and hyphen runs become a single "-", and every other character
// is dropped ("Pathfinder's Beacon" -> "pathfinders-beacon",
// "Rock & Roll" -> "rock-and-roll").
func Slugify(name string) string {
	spelled := symbolWords.Replace(name)
	folded, _, err := transform.String(transform.Chain(norm.NFKD, stripMarks, norm.NFC), spelled)
	if err != nil {
		folded = spelled
	}
	folded = Normalize(folded)

	var builder strings.Builder
	pendingDash := false
	for _, r := range folded {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if pendingDash && builder.Len() > 0 {
				builder.WriteByte('-')
			}
			pendingDash = false
			builder.WriteRune(r)
		case unicode.IsSpace(r) || r == '-':
			pendingDash = true
		}
	}
	return builder.String()
}
