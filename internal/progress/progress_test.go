package progress

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/example/wortschatz/internal/database"
	"github.com/example/wortschatz/internal/lemma"
	"github.com/example/wortschatz/pkg/models"
)

// testEnv wires the subsystem against an in-memory database
type testEnv struct {
	db       *sqlx.DB
	vocab    *database.VocabularyRepository
	progress *database.ProgressRepository
	unknown  *database.UnknownWordRepository
	resolver *Resolver
	ledger   *Ledger
	stats    *StatsService
}

// testLemmatizer resolves a few German inflections; everything else is its
// own lemma
var testLemmatizer = lemma.Func(func(_ context.Context, _, word string) (string, error) {
	forms := map[string]string{
		"hunde":  "hund",
		"läuft":  "laufen",
		"häuser": "haus",
	}
	w := lemma.Normalize(word)
	if l, ok := forms[w]; ok {
		return l, nil
	}
	return w, nil
})

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	vocab := database.NewVocabularyRepository(db)
	progressRepo := database.NewProgressRepository(db)
	unknown := database.NewUnknownWordRepository(db)
	statsRepo := database.NewStatisticsRepository(db)

	resolver := NewResolver(vocab, unknown, testLemmatizer, zap.NewNop())
	return &testEnv{
		db:       db,
		vocab:    vocab,
		progress: progressRepo,
		unknown:  unknown,
		resolver: resolver,
		ledger:   NewLedger(db, vocab, progressRepo, resolver, zap.NewNop()),
		stats:    NewStatsService(statsRepo, zap.NewNop()),
	}
}

// seedEntry catalogs one word and returns its entry
func (e *testEnv) seedEntry(t *testing.T, lemmaForm, language string, level models.Level) *models.VocabularyEntry {
	t.Helper()
	entry := &models.VocabularyEntry{
		ID:       EntryID(lemmaForm, language).String(),
		Lemma:    lemmaForm,
		Language: language,
		Level:    level,
	}
	require.NoError(t, e.vocab.Create(context.Background(), entry))
	return entry
}
