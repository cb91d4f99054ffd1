package progress

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/example/wortschatz/internal/database"
	"github.com/example/wortschatz/internal/lemma"
	"github.com/example/wortschatz/pkg/models"
)

// Validation errors, rejected before any storage work begins
var (
	ErrEmptyWord       = errors.New("word must not be empty")
	ErrInvalidLanguage = errors.New("language must be a two-letter lowercase ISO code")
	ErrInvalidLevel    = errors.New("invalid CEFR level")
	ErrInvalidConcept  = errors.New("concept identifier must be a canonical UUID")
)

// MsgNotInCatalog is the message returned for out-of-vocabulary words
const MsgNotInCatalog = "Word not in vocabulary database"

// Resolver turns a raw surface word plus language code into a normalized
// lemma and the matching catalog entry. An out-of-vocabulary word is an
// expected outcome, returned as Found=false and queued for curation.
type Resolver struct {
	vocab      *database.VocabularyRepository
	unknown    *database.UnknownWordRepository
	lemmatizer lemma.Lemmatizer
	log        *zap.Logger
}

// NewResolver creates a resolver with its dependencies injected
func NewResolver(vocab *database.VocabularyRepository, unknown *database.UnknownWordRepository, lemmatizer lemma.Lemmatizer, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{
		vocab:      vocab,
		unknown:    unknown,
		lemmatizer: lemmatizer,
		log:        log,
	}
}

// Resolve looks the word up in the catalog by its lemma
func (r *Resolver) Resolve(ctx context.Context, word, language string) (*models.ResolveResult, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return nil, ErrEmptyWord
	}
	if !ValidLanguage(language) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLanguage, language)
	}

	normalized := lemma.Normalize(word)
	lem, err := r.lemmatizer.Lemmatize(ctx, language, normalized)
	if err != nil || lem == "" {
		// Degraded path: treat the word as its own lemma rather than failing
		// the whole request.
		r.log.Warn("lemmatizer unavailable, falling back to surface form",
			zap.String("word", normalized),
			zap.String("language", language),
			zap.Error(err))
		lem = normalized
	}

	entry, err := r.vocab.GetByLemmaAndLanguage(ctx, lem, language)
	if errors.Is(err, database.ErrNotFound) {
		if r.unknown != nil {
			if recErr := r.unknown.RecordMiss(ctx, word, lem, language); recErr != nil {
				r.log.Warn("failed to queue unknown word for curation",
					zap.String("lemma", lem),
					zap.Error(recErr))
			}
		}
		return &models.ResolveResult{
			Found:   false,
			Word:    word,
			Lemma:   lem,
			Message: MsgNotInCatalog,
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve %q (%s): %w", word, language, err)
	}

	return &models.ResolveResult{
		Found:   true,
		Word:    word,
		Lemma:   entry.Lemma,
		Level:   entry.Level,
		EntryID: entry.ID,
	}, nil
}

// ValidLanguage reports whether s is a two-letter lowercase ISO language code
func ValidLanguage(s string) bool {
	if len(s) != 2 {
		return false
	}
	for _, c := range s {
		if c < 'a' || c > 'z' {
			return false
		}
	}
	return true
}
