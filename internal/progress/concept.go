package progress

import (
	"github.com/google/uuid"

	"github.com/example/wortschatz/internal/lemma"
	"github.com/example/wortschatz/pkg/models"
)

// Fixed namespaces for deterministic identifier derivation. These must never
// change: clients echo identifiers back across sessions and process restarts,
// and the same input has to keep producing the same UUID.
var (
	conceptNamespace = uuid.MustParse("7b7fbfc3-2a06-4b6c-9d4e-3f1a8d2c5e90")
	entryNamespace   = uuid.MustParse("c54e9d1a-8a2f-4f7e-b1d3-6e0c4a9b7f21")
)

// ConceptID derives the identifier for a concept that is not (or not yet)
// cataloged, from its normalized word or lemma and its difficulty level.
// The result is a canonical UUID, never a human-readable composite key.
func ConceptID(wordOrLemma string, level models.Level) uuid.UUID {
	name := lemma.Normalize(wordOrLemma) + ":" + string(level)
	return uuid.NewSHA1(conceptNamespace, []byte(name))
}

// EntryID derives the catalog identifier for a (language, lemma) pair, making
// repeated catalog imports land on the same row IDs.
func EntryID(lemmaForm, language string) uuid.UUID {
	name := language + ":" + lemma.Normalize(lemmaForm)
	return uuid.NewSHA1(entryNamespace, []byte(name))
}
