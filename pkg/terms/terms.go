// Package terms expands a primary title plus alternate/localized titles
// into the ordered, deduplicated search-term set fed to the query
// builder. The primary title is always first; acronym variants derived
// from the titles are appended last.
package terms

import (
	"strings"

	"streamarchive/pkg/normalize"
)

const (
	maxAcronymsPerTitle = 3
	minAcronymLen       = 2
	maxAcronymLen       = 12
)

// stopWords are ignored when deriving acronyms so "The Lord of the Rings"
// yields "lr"-style initials from significant words only.
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "of": {}, "and": {}, "or": {},
	"in": {}, "on": {}, "at": {}, "to": {}, "for": {},
	"la": {}, "le": {}, "el": {}, "de": {}, "der": {}, "die": {}, "das": {},
}

// Expand builds the search-term list from the primary title and any
// alternate titles. Terms are deduplicated by normalized form with
// insertion order preserved.
func Expand(primary string, alternates []string) []string {
	var out []string
	seen := make(map[string]struct{})

	add := func(t string) {
		t = strings.TrimSpace(t)
		if t == "" {
			return
		}
		key := normalize.String(t)
		if key == "" {
			return
		}
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}

	add(primary)
	for _, alt := range alternates {
		add(alt)
	}

	// Acronyms come after all real titles so they never displace one in
	// query priority.
	for _, title := range append([]string{primary}, alternates...) {
		for _, ac := range Acronyms(title) {
			add(ac)
		}
	}

	return out
}

// Acronyms derives up to three acronym variants from a title: initials of
// all significant words, those initials with vowels removed, and initials
// of capitalized words in the raw title. Titles with fewer than two
// significant words produce nothing, avoiding single-letter noise.
func Acronyms(title string) []string {
	words := normalize.Tokens(title)
	var significant []string
	for _, w := range words {
		if _, stop := stopWords[w]; !stop {
			significant = append(significant, w)
		}
	}
	if len(significant) < 2 {
		return nil
	}

	var variants []string
	addVariant := func(s string) {
		if len(s) < minAcronymLen || len(s) > maxAcronymLen {
			return
		}
		for _, v := range variants {
			if v == s {
				return
			}
		}
		if len(variants) < maxAcronymsPerTitle {
			variants = append(variants, s)
		}
	}

	full := initials(significant)
	addVariant(full)
	addVariant(stripVowels(full))
	addVariant(initials(capitalizedWords(title)))

	return variants
}

func initials(words []string) string {
	var b strings.Builder
	for _, w := range words {
		// Only ASCII initials make sensible acronyms
		if len(w) > 0 && ((w[0] >= 'a' && w[0] <= 'z') || (w[0] >= '0' && w[0] <= '9')) {
			b.WriteByte(w[0])
		}
	}
	return b.String()
}

func stripVowels(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case 'a', 'e', 'i', 'o', 'u':
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// capitalizedWords returns the normalized forms of raw-title words that
// begin with an uppercase letter, excluding stop-words.
func capitalizedWords(title string) []string {
	var out []string
	for _, w := range strings.Fields(title) {
		r := []rune(w)
		if len(r) == 0 || !(r[0] >= 'A' && r[0] <= 'Z') {
			continue
		}
		n := normalize.String(w)
		if n == "" {
			continue
		}
		if _, stop := stopWords[n]; stop {
			continue
		}
		out = append(out, n)
	}
	if len(out) < 2 {
		return nil
	}
	return out
}
