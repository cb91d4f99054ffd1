package progress

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/example/wortschatz/internal/lemma"
	"github.com/example/wortschatz/pkg/models"
)

func TestResolveFindsCatalogEntry(t *testing.T) {
	env := newTestEnv(t)
	entry := env.seedEntry(t, "hallo", "de", models.LevelA1)

	res, err := env.resolver.Resolve(context.Background(), "Hallo", "de")
	require.NoError(t, err)

	assert.True(t, res.Found)
	assert.Equal(t, "hallo", res.Lemma)
	assert.Equal(t, models.LevelA1, res.Level)
	assert.Equal(t, entry.ID, res.EntryID)
	assert.Empty(t, res.Message)
}

func TestResolveLemmatizesInflectedForm(t *testing.T) {
	env := newTestEnv(t)
	env.seedEntry(t, "hund", "de", models.LevelA1)

	res, err := env.resolver.Resolve(context.Background(), "Hunde", "de")
	require.NoError(t, err)

	assert.True(t, res.Found)
	assert.Equal(t, "hund", res.Lemma)
}

func TestResolveOutOfVocabulary(t *testing.T) {
	env := newTestEnv(t)
	env.seedEntry(t, "hallo", "de", models.LevelA1)

	res, err := env.resolver.Resolve(context.Background(), "xyz", "de")
	require.NoError(t, err, "out-of-vocabulary is not an error")

	assert.False(t, res.Found)
	assert.Equal(t, "xyz", res.Lemma)
	assert.Equal(t, MsgNotInCatalog, res.Message)

	// The miss lands in the curation queue
	misses, err := env.unknown.MostRequested(context.Background(), "de", 10)
	require.NoError(t, err)
	require.Len(t, misses, 1)
	assert.Equal(t, "xyz", misses[0].Lemma)
	assert.Equal(t, 1, misses[0].MissCount)

	// A second miss bumps the counter instead of adding a row
	_, err = env.resolver.Resolve(context.Background(), "xyz", "de")
	require.NoError(t, err)
	misses, err = env.unknown.MostRequested(context.Background(), "de", 10)
	require.NoError(t, err)
	require.Len(t, misses, 1)
	assert.Equal(t, 2, misses[0].MissCount)
}

func TestResolveFallsBackWhenLemmatizerFails(t *testing.T) {
	env := newTestEnv(t)
	env.seedEntry(t, "hallo", "de", models.LevelA1)

	failing := lemma.Func(func(_ context.Context, _, _ string) (string, error) {
		return "", errors.New("service unreachable")
	})
	resolver := NewResolver(env.vocab, env.unknown, failing, zap.NewNop())

	// The raw word doubles as its own lemma on the degraded path
	res, err := resolver.Resolve(context.Background(), "Hallo", "de")
	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.Equal(t, "hallo", res.Lemma)
}

func TestResolveValidation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.resolver.Resolve(context.Background(), "   ", "de")
	assert.ErrorIs(t, err, ErrEmptyWord)

	for _, code := range []string{"", "d", "deu", "DE", "d1"} {
		_, err := env.resolver.Resolve(context.Background(), "hallo", code)
		assert.ErrorIs(t, err, ErrInvalidLanguage, "language %q", code)
	}
}

func TestResolveUmlautsSurvive(t *testing.T) {
	env := newTestEnv(t)
	env.seedEntry(t, "glücklich", "de", models.LevelB1)

	res, err := env.resolver.Resolve(context.Background(), "GLÜCKLICH", "de")
	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.Equal(t, "glücklich", res.Lemma)
}
