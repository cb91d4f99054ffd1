package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/example/wortschatz/pkg/models"
)

// VocabularyRepository handles database operations for the word catalog.
// The catalog is read-mostly: it is written by the importer and by the
// ledger when a synthesized concept is first marked, and read everywhere.
type VocabularyRepository struct {
	db *sqlx.DB
}

// NewVocabularyRepository creates a new repository instance
func NewVocabularyRepository(db *sqlx.DB) *VocabularyRepository {
	return &VocabularyRepository{db: db}
}

// GetByID returns the catalog entry with the given identifier
func (r *VocabularyRepository) GetByID(ctx context.Context, id string) (*models.VocabularyEntry, error) {
	var entry models.VocabularyEntry
	err := r.db.GetContext(ctx, &entry, "SELECT * FROM vocabulary_entries WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vocabulary entry by ID: %v", err)
	}
	return &entry, nil
}

// GetByLemmaAndLanguage returns the catalog entry for a normalized lemma
func (r *VocabularyRepository) GetByLemmaAndLanguage(ctx context.Context, lemma, language string) (*models.VocabularyEntry, error) {
	var entry models.VocabularyEntry
	err := r.db.GetContext(ctx, &entry,
		"SELECT * FROM vocabulary_entries WHERE lemma = $1 AND language = $2", lemma, language)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vocabulary entry by lemma: %v", err)
	}
	return &entry, nil
}

// GetByLevel returns all catalog entries for a language and level
func (r *VocabularyRepository) GetByLevel(ctx context.Context, language string, level models.Level) ([]models.VocabularyEntry, error) {
	var entries []models.VocabularyEntry
	err := r.db.SelectContext(ctx, &entries,
		"SELECT * FROM vocabulary_entries WHERE language = $1 AND level = $2 ORDER BY lemma", language, level)
	if err != nil {
		return nil, fmt.Errorf("failed to get vocabulary entries by level: %v", err)
	}
	return entries, nil
}

// CountByLanguage returns the number of catalog entries for a language
func (r *VocabularyRepository) CountByLanguage(ctx context.Context, language string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM vocabulary_entries WHERE language = $1", language)
	if err != nil {
		return 0, fmt.Errorf("failed to count vocabulary entries: %v", err)
	}
	return count, nil
}

// Create inserts a new catalog entry
func (r *VocabularyRepository) Create(ctx context.Context, entry *models.VocabularyEntry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO vocabulary_entries (id, lemma, language, level, part_of_speech, gender, translation)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		entry.ID,
		entry.Lemma,
		entry.Language,
		entry.Level,
		entry.PartOfSpeech,
		entry.Gender,
		entry.Translation,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: entry %q (%s) already cataloged", ErrConflict, entry.Lemma, entry.Language)
	}
	if err != nil {
		return fmt.Errorf("failed to create vocabulary entry: %v", err)
	}
	return nil
}

// isUniqueViolation matches the unique-constraint error text of both drivers
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}

// Upsert inserts the entry or refreshes its metadata if the (lemma, language)
// pair already exists. The stored level is never changed: re-importing a
// catalog must not silently move a word to another level. Returns true when a
// new row was created.
func (r *VocabularyRepository) Upsert(ctx context.Context, entry *models.VocabularyEntry) (bool, error) {
	existing, err := r.GetByLemmaAndLanguage(ctx, entry.Lemma, entry.Language)
	if errors.Is(err, ErrNotFound) {
		if err := r.Create(ctx, entry); err != nil {
			return false, err
		}
		return true, nil
	}
	if err != nil {
		return false, err
	}

	nowExpr := "CURRENT_TIMESTAMP"
	if r.db.DriverName() == DriverPostgres {
		nowExpr = "NOW()"
	}
	_, err = r.db.ExecContext(ctx, fmt.Sprintf(`
		UPDATE vocabulary_entries SET
			part_of_speech = $1,
			gender = $2,
			translation = $3,
			updated_at = %s
		WHERE id = $4
	`, nowExpr),
		entry.PartOfSpeech,
		entry.Gender,
		entry.Translation,
		existing.ID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update vocabulary entry: %v", err)
	}

	// Hand the caller the canonical identity, including the immutable level
	entry.ID = existing.ID
	entry.Level = existing.Level
	return false, nil
}

// EnsureExists inserts the entry unless a row with the same identifier or
// (lemma, language) pair is already cataloged. Used when a concept synthesized
// from live text is marked for the first time.
func (r *VocabularyRepository) EnsureExists(ctx context.Context, ex sqlx.ExtContext, entry *models.VocabularyEntry) error {
	if ex == nil {
		ex = r.db
	}
	_, err := ex.ExecContext(ctx, `
		INSERT INTO vocabulary_entries (id, lemma, language, level, part_of_speech, gender, translation)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT DO NOTHING
	`,
		entry.ID,
		entry.Lemma,
		entry.Language,
		entry.Level,
		entry.PartOfSpeech,
		entry.Gender,
		entry.Translation,
	)
	if err != nil {
		return fmt.Errorf("failed to ensure vocabulary entry: %v", err)
	}
	return nil
}
