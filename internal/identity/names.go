package identity

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldDiacritics strips combining marks so "José" and "Jose" compare equal.
var foldDiacritics = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// NormalizeName lowercases a player name, folds diacritics, and strips
// punctuation, producing the comparison form used by every matching strategy.
func NormalizeName(name string) string {
	folded, _, err := transform.String(foldDiacritics, name)
	if err != nil {
		folded = name
	}

	var b strings.Builder
	b.Grow(len(folded))
	lastSpace := true
	for _, r := range strings.ToLower(folded) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		case unicode.IsSpace(r) && !lastSpace:
			b.WriteRune(' ')
			lastSpace = true
		}
	}
	return strings.TrimSpace(b.String())
}

var suffixTokens = []string{"jr", "sr", "ii", "iii", "iv", "v"}

// nameVariations generates the alternate spellings tried by the variation
// strategy: suffix added or removed, and middle names elided. The original
// normalized name is not included.
func nameVariations(normalized string) []string {
	var variations []string
	seen := map[string]bool{normalized: true}
	add := func(v string) {
		if v != "" && !seen[v] {
			seen[v] = true
			variations = append(variations, v)
		}
	}

	parts := strings.Fields(normalized)
	if len(parts) == 0 {
		return nil
	}

	// Suffix removed.
	last := parts[len(parts)-1]
	for _, suffix := range suffixTokens {
		if last == suffix && len(parts) > 1 {
			add(strings.Join(parts[:len(parts)-1], " "))
		}
	}

	// Suffix added.
	add(normalized + " jr")
	add(normalized + " sr")

	// Middle names elided.
	if len(parts) >= 3 {
		add(parts[0] + " " + parts[len(parts)-1])
	}

	return variations
}
