package database

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/wortschatz/pkg/models"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := Connect(Config{Driver: DriverSQLite, DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func testEntry(lemma string, level models.Level) *models.VocabularyEntry {
	return &models.VocabularyEntry{
		ID:       uuid.NewString(),
		Lemma:    lemma,
		Language: "de",
		Level:    level,
	}
}

func TestVocabularyLookup(t *testing.T) {
	db := newTestDB(t)
	repo := NewVocabularyRepository(db)
	ctx := context.Background()

	entry := testEntry("hund", models.LevelA1)
	entry.Translation = "dog"
	require.NoError(t, repo.Create(ctx, entry))

	byLemma, err := repo.GetByLemmaAndLanguage(ctx, "hund", "de")
	require.NoError(t, err)
	assert.Equal(t, entry.ID, byLemma.ID)
	assert.Equal(t, "dog", byLemma.Translation)

	byID, err := repo.GetByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "hund", byID.Lemma)

	_, err = repo.GetByLemmaAndLanguage(ctx, "katze", "de")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.GetByLemmaAndLanguage(ctx, "hund", "en")
	assert.ErrorIs(t, err, ErrNotFound, "lookups are scoped to one language")
}

func TestVocabularyLemmaLanguageUnique(t *testing.T) {
	db := newTestDB(t)
	repo := NewVocabularyRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testEntry("hund", models.LevelA1)))
	err := repo.Create(ctx, testEntry("hund", models.LevelB2))
	assert.ErrorIs(t, err, ErrConflict, "one row per (lemma, language)")
}

func TestVocabularyUpsertPreservesLevel(t *testing.T) {
	db := newTestDB(t)
	repo := NewVocabularyRepository(db)
	ctx := context.Background()

	original := testEntry("hund", models.LevelA1)
	created, err := repo.Upsert(ctx, original)
	require.NoError(t, err)
	assert.True(t, created)

	// Re-import claims the word moved to B2 and brings a translation
	reimport := testEntry("hund", models.LevelB2)
	reimport.Translation = "dog"
	created, err = repo.Upsert(ctx, reimport)
	require.NoError(t, err)
	assert.False(t, created)

	stored, err := repo.GetByLemmaAndLanguage(ctx, "hund", "de")
	require.NoError(t, err)
	assert.Equal(t, models.LevelA1, stored.Level, "the level is immutable once set")
	assert.Equal(t, "dog", stored.Translation, "metadata refreshes")
	assert.Equal(t, original.ID, stored.ID)

	// The caller's struct reflects the canonical identity
	assert.Equal(t, original.ID, reimport.ID)
	assert.Equal(t, models.LevelA1, reimport.Level)
}

func TestVocabularyGetByLevel(t *testing.T) {
	db := newTestDB(t)
	repo := NewVocabularyRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testEntry("zebra", models.LevelA1)))
	require.NoError(t, repo.Create(ctx, testEntry("affe", models.LevelA1)))
	require.NoError(t, repo.Create(ctx, testEntry("molekül", models.LevelC1)))

	entries, err := repo.GetByLevel(ctx, "de", models.LevelA1)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "affe", entries[0].Lemma, "ordered by lemma")

	empty, err := repo.GetByLevel(ctx, "de", models.LevelB1)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestVocabularyEnsureExists(t *testing.T) {
	db := newTestDB(t)
	repo := NewVocabularyRepository(db)
	ctx := context.Background()

	entry := testEntry("fernweh", models.LevelC2)
	require.NoError(t, repo.EnsureExists(ctx, nil, entry))

	// Idempotent under the same identifier
	require.NoError(t, repo.EnsureExists(ctx, nil, entry))

	// And a no-op when the lemma is already cataloged under another ID
	dup := testEntry("fernweh", models.LevelA1)
	require.NoError(t, repo.EnsureExists(ctx, nil, dup))

	stored, err := repo.GetByLemmaAndLanguage(ctx, "fernweh", "de")
	require.NoError(t, err)
	assert.Equal(t, entry.ID, stored.ID)
	assert.Equal(t, models.LevelC2, stored.Level)
}

func TestProgressMarkEncounterTransitions(t *testing.T) {
	db := newTestDB(t)
	vocab := NewVocabularyRepository(db)
	repo := NewProgressRepository(db)
	ctx := context.Background()

	entry := testEntry("hund", models.LevelA1)
	require.NoError(t, vocab.Create(ctx, entry))

	// unseen -> known starts at confidence 1
	require.NoError(t, repo.MarkEncounter(ctx, nil, 1, entry.ID, true))
	record, err := repo.GetByUserAndEntry(ctx, nil, 1, entry.ID)
	require.NoError(t, err)
	assert.True(t, record.IsKnown)
	assert.Equal(t, 1, record.Confidence)
	assert.Equal(t, 1, record.ReviewCount)

	// known -> known steps the confidence up
	require.NoError(t, repo.MarkEncounter(ctx, nil, 1, entry.ID, true))
	record, err = repo.GetByUserAndEntry(ctx, nil, 1, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, record.Confidence)
	assert.Equal(t, 2, record.ReviewCount)

	// known -> unknown steps it down
	require.NoError(t, repo.MarkEncounter(ctx, nil, 1, entry.ID, false))
	record, err = repo.GetByUserAndEntry(ctx, nil, 1, entry.ID)
	require.NoError(t, err)
	assert.False(t, record.IsKnown)
	assert.Equal(t, 1, record.Confidence)
	assert.Equal(t, 3, record.ReviewCount)
}

func TestProgressUniquePerUserAndEntry(t *testing.T) {
	db := newTestDB(t)
	vocab := NewVocabularyRepository(db)
	repo := NewProgressRepository(db)
	ctx := context.Background()

	entry := testEntry("hund", models.LevelA1)
	require.NoError(t, vocab.Create(ctx, entry))

	require.NoError(t, repo.MarkEncounter(ctx, nil, 1, entry.ID, true))
	require.NoError(t, repo.MarkEncounter(ctx, nil, 1, entry.ID, true))
	require.NoError(t, repo.MarkEncounter(ctx, nil, 2, entry.ID, true))

	var count int
	require.NoError(t, db.Get(&count, "SELECT COUNT(*) FROM user_progress"))
	assert.Equal(t, 2, count, "one row per (user, entry)")
}

func TestProgressDistinctUsers(t *testing.T) {
	db := newTestDB(t)
	vocab := NewVocabularyRepository(db)
	repo := NewProgressRepository(db)
	ctx := context.Background()

	entry := testEntry("hund", models.LevelA1)
	require.NoError(t, vocab.Create(ctx, entry))
	require.NoError(t, repo.MarkEncounter(ctx, nil, 7, entry.ID, true))
	require.NoError(t, repo.MarkEncounter(ctx, nil, 3, entry.ID, false))
	require.NoError(t, repo.MarkEncounter(ctx, nil, 7, entry.ID, true))

	users, err := repo.DistinctUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 7}, users)
}

func TestStatisticsLevelCounts(t *testing.T) {
	db := newTestDB(t)
	vocab := NewVocabularyRepository(db)
	progressRepo := NewProgressRepository(db)
	statsRepo := NewStatisticsRepository(db)
	ctx := context.Background()

	a1 := testEntry("hund", models.LevelA1)
	a1b := testEntry("katze", models.LevelA1)
	b1 := testEntry("erfahrung", models.LevelB1)
	for _, e := range []*models.VocabularyEntry{a1, a1b, b1} {
		require.NoError(t, vocab.Create(ctx, e))
	}
	require.NoError(t, progressRepo.MarkEncounter(ctx, nil, 1, a1.ID, true))
	require.NoError(t, progressRepo.MarkEncounter(ctx, nil, 1, a1b.ID, false))

	counts, err := statsRepo.LevelCounts(ctx, 1, "de")
	require.NoError(t, err)

	assert.Equal(t, models.LevelStats{Total: 2, Known: 1}, counts[models.LevelA1])
	assert.Equal(t, models.LevelStats{Total: 1, Known: 0}, counts[models.LevelB1])
	_, ok := counts[models.LevelC2]
	assert.False(t, ok, "levels without catalog words produce no row")
}

func TestUnknownWordMissCounter(t *testing.T) {
	db := newTestDB(t)
	repo := NewUnknownWordRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.RecordMiss(ctx, "Xyzzy", "xyzzy", "de"))
	require.NoError(t, repo.RecordMiss(ctx, "XYZZY", "xyzzy", "de"))
	require.NoError(t, repo.RecordMiss(ctx, "Plugh", "plugh", "de"))

	words, err := repo.MostRequested(ctx, "de", 10)
	require.NoError(t, err)
	require.Len(t, words, 2)
	assert.Equal(t, "xyzzy", words[0].Lemma, "most requested first")
	assert.Equal(t, 2, words[0].MissCount)
	assert.Equal(t, "Xyzzy", words[0].Word, "the first seen surface form is kept")
}
