// Package lemma maps inflected surface forms to dictionary base forms. The
// real lemmatization runs in an external NLP service; this package provides
// the client for it, an offline rule fallback and a bounded cache.
package lemma

import (
	"context"
	"strings"
)

// Lemmatizer produces the dictionary base form of a word
type Lemmatizer interface {
	Lemmatize(ctx context.Context, language, word string) (string, error)
}

// Func adapts a plain function to the Lemmatizer interface
type Func func(ctx context.Context, language, word string) (string, error)

// Lemmatize calls the wrapped function
func (f Func) Lemmatize(ctx context.Context, language, word string) (string, error) {
	return f(ctx, language, word)
}

// Normalize lowercases and trims a surface form. Input may contain non-ASCII
// letters (umlauts and the like); strings.ToLower handles those correctly.
func Normalize(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

// Identity returns the normalized word as its own lemma. Used as the degraded
// path when no lemmatizer is reachable.
func Identity() Lemmatizer {
	return Func(func(_ context.Context, _, word string) (string, error) {
		return Normalize(word), nil
	})
}
