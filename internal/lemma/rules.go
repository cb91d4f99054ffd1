package lemma

import (
	"context"
	"unicode/utf8"
)

// Rules is a rough offline lemmatizer for German, used when no lemmatization
// service is configured. It strips common inflection suffixes and is wrong
// often enough that resolving against the catalog should prefer the remote
// service whenever one is available.
type Rules struct{}

// NewRules creates the rule-based lemmatizer
func NewRules() Rules {
	return Rules{}
}

// replacement pairs tried before plain suffix stripping, longest first
var suffixReplacements = []struct {
	suffix string
	repl   string
}{
	{"ungen", "ung"},
	{"heiten", "heit"},
	{"keiten", "keit"},
	{"innen", "in"},
}

// suffixes stripped outright, longest first
var strippedSuffixes = []string{"ern", "en", "er", "es", "em", "e", "n", "s"}

// minStem is the minimum rune count left after stripping
const minStem = 3

// Lemmatize applies the suffix rules to German words; other languages pass
// through normalized
func (Rules) Lemmatize(_ context.Context, language, word string) (string, error) {
	w := Normalize(word)
	if language != "de" {
		return w, nil
	}

	for _, r := range suffixReplacements {
		if rest, ok := trimSuffix(w, r.suffix); ok {
			return rest + r.repl, nil
		}
	}
	for _, s := range strippedSuffixes {
		if rest, ok := trimSuffix(w, s); ok {
			return rest, nil
		}
	}
	return w, nil
}

// trimSuffix removes the suffix when present and the remaining stem is long
// enough to still look like a word
func trimSuffix(w, suffix string) (string, bool) {
	if len(w) <= len(suffix) || w[len(w)-len(suffix):] != suffix {
		return "", false
	}
	rest := w[:len(w)-len(suffix)]
	if utf8.RuneCountInString(rest) < minStem {
		return "", false
	}
	return rest, true
}
