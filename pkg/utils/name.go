package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultNameToken is the fallback stem when a display name normalizes to
// nothing usable (digits only, symbols only, empty).
const DefaultNameToken = "diak"

// foldDiacritics decomposes characters and strips combining marks, so
// "Kovács" becomes "Kovacs". Covers every Latin-script accent, including the
// Hungarian double acute.
var foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeName lowercases a display name, removes diacritics and every
// non-letter character, and splits it into tokens. The result may be empty;
// callers fall back to DefaultNameToken.
func NormalizeName(name string) []string {
	folded, _, err := transform.String(foldDiacritics, name)
	if err != nil {
		folded = name
	}
	folded = strings.ToLower(folded)

	var b strings.Builder
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || r == ' ' {
			b.WriteRune(r)
		}
	}
	return strings.Fields(b.String())
}
