package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/example/wortschatz/pkg/models"
)

// ProgressRepository handles database operations for per-user progress
// records. All writes go through single-statement upserts so that two
// concurrent marks on the same (user, entry) pair serialize at the row
// instead of racing a read-modify-write in application code.
type ProgressRepository struct {
	db *sqlx.DB
}

// NewProgressRepository creates a new repository instance
func NewProgressRepository(db *sqlx.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// GetByUserAndEntry returns progress for a specific user and catalog entry
func (r *ProgressRepository) GetByUserAndEntry(ctx context.Context, ex sqlx.ExtContext, userID int64, entryID string) (*models.ProgressRecord, error) {
	if ex == nil {
		ex = r.db
	}
	var record models.ProgressRecord
	err := sqlx.GetContext(ctx, ex, &record,
		"SELECT * FROM user_progress WHERE user_id = $1 AND entry_id = $2", userID, entryID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user progress: %v", err)
	}
	return &record, nil
}

// MarkEncounter applies a single-word mark. A missing row is created with
// confidence 1 (known) or 0 (unknown); an existing row moves one confidence
// step up or down, clamped to [0, 5]. The review count always increments.
func (r *ProgressRepository) MarkEncounter(ctx context.Context, ex sqlx.ExtContext, userID int64, entryID string, known bool) error {
	if ex == nil {
		ex = r.db
	}

	initial := models.MinConfidence
	if known {
		initial = 1
	}

	// LEAST/GREATEST on postgres, scalar MIN/MAX on sqlite
	var query string
	if r.db.DriverName() == DriverPostgres {
		query = `
			INSERT INTO user_progress (user_id, entry_id, is_known, confidence_level, review_count)
			VALUES ($1, $2, $3, $4, 1)
			ON CONFLICT (user_id, entry_id) DO UPDATE SET
				is_known = excluded.is_known,
				confidence_level = CASE WHEN excluded.is_known
					THEN LEAST(user_progress.confidence_level + 1, 5)
					ELSE GREATEST(user_progress.confidence_level - 1, 0)
				END,
				review_count = user_progress.review_count + 1,
				updated_at = NOW()
		`
	} else {
		query = `
			INSERT INTO user_progress (user_id, entry_id, is_known, confidence_level, review_count)
			VALUES ($1, $2, $3, $4, 1)
			ON CONFLICT (user_id, entry_id) DO UPDATE SET
				is_known = excluded.is_known,
				confidence_level = CASE WHEN excluded.is_known
					THEN MIN(user_progress.confidence_level + 1, 5)
					ELSE MAX(user_progress.confidence_level - 1, 0)
				END,
				review_count = user_progress.review_count + 1,
				updated_at = CURRENT_TIMESTAMP
		`
	}

	if _, err := ex.ExecContext(ctx, query, userID, entryID, known, initial); err != nil {
		return fmt.Errorf("failed to mark progress for user %d entry %s: %v", userID, entryID, err)
	}
	return nil
}

// ApplyBulk applies a bulk-level mark. Bulk marks are an authoritative
// override: confidence is forced to 5 (known) or 0 (unknown) regardless of
// prior history, while the review count still increments on existing rows.
func (r *ProgressRepository) ApplyBulk(ctx context.Context, ex sqlx.ExtContext, userID int64, entryID string, known bool) error {
	if ex == nil {
		ex = r.db
	}

	confidence := models.MinConfidence
	if known {
		confidence = models.MaxConfidence
	}

	nowExpr := "CURRENT_TIMESTAMP"
	if r.db.DriverName() == DriverPostgres {
		nowExpr = "NOW()"
	}
	query := fmt.Sprintf(`
		INSERT INTO user_progress (user_id, entry_id, is_known, confidence_level, review_count)
		VALUES ($1, $2, $3, $4, 1)
		ON CONFLICT (user_id, entry_id) DO UPDATE SET
			is_known = excluded.is_known,
			confidence_level = excluded.confidence_level,
			review_count = user_progress.review_count + 1,
			updated_at = %s
	`, nowExpr)

	if _, err := ex.ExecContext(ctx, query, userID, entryID, known, confidence); err != nil {
		return fmt.Errorf("failed to bulk mark progress for user %d entry %s: %v", userID, entryID, err)
	}
	return nil
}

// CountKnownByUser returns how many entries the user currently has marked
// known for a language
func (r *ProgressRepository) CountKnownByUser(ctx context.Context, userID int64, language string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*)
		FROM user_progress p
		JOIN vocabulary_entries v ON v.id = p.entry_id
		WHERE p.user_id = $1 AND v.language = $2 AND p.is_known
	`, userID, language)
	if err != nil {
		return 0, fmt.Errorf("failed to count known words: %v", err)
	}
	return count, nil
}

// DistinctUsers returns every user that has at least one progress record
func (r *ProgressRepository) DistinctUsers(ctx context.Context) ([]int64, error) {
	var users []int64
	err := r.db.SelectContext(ctx, &users,
		"SELECT DISTINCT user_id FROM user_progress ORDER BY user_id")
	if err != nil {
		return nil, fmt.Errorf("failed to list users with progress: %v", err)
	}
	return users, nil
}
