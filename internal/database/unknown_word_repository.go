package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/example/wortschatz/pkg/models"
)

// UnknownWordRepository handles the curation queue of words that users looked
// up but the catalog does not know yet
type UnknownWordRepository struct {
	db *sqlx.DB
}

// NewUnknownWordRepository creates a new repository instance
func NewUnknownWordRepository(db *sqlx.DB) *UnknownWordRepository {
	return &UnknownWordRepository{db: db}
}

// RecordMiss registers one failed lookup, creating the row on first miss and
// bumping the miss counter afterwards
func (r *UnknownWordRepository) RecordMiss(ctx context.Context, word, lemma, language string) error {
	nowExpr := "CURRENT_TIMESTAMP"
	if r.db.DriverName() == DriverPostgres {
		nowExpr = "NOW()"
	}
	query := fmt.Sprintf(`
		INSERT INTO unknown_words (word, lemma, language)
		VALUES ($1, $2, $3)
		ON CONFLICT (lemma, language) DO UPDATE SET
			miss_count = unknown_words.miss_count + 1,
			last_seen = %s
	`, nowExpr)

	if _, err := r.db.ExecContext(ctx, query, word, lemma, language); err != nil {
		return fmt.Errorf("failed to record unknown word %q: %v", lemma, err)
	}
	return nil
}

// MostRequested returns the unknown words for a language ordered by how often
// they were looked up, for catalog curation
func (r *UnknownWordRepository) MostRequested(ctx context.Context, language string, limit int) ([]models.UnknownWord, error) {
	var words []models.UnknownWord
	err := r.db.SelectContext(ctx, &words, `
		SELECT * FROM unknown_words
		WHERE language = $1
		ORDER BY miss_count DESC, lemma
		LIMIT $2
	`, language, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list unknown words: %v", err)
	}
	return words, nil
}
