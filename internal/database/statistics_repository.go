package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/example/wortschatz/pkg/models"
)

// StatisticsRepository handles read-only rollup queries over the catalog and
// the progress table
type StatisticsRepository struct {
	db *sqlx.DB
}

// NewStatisticsRepository creates a new repository instance
func NewStatisticsRepository(db *sqlx.DB) *StatisticsRepository {
	return &StatisticsRepository{db: db}
}

// levelCountRow is one GROUP BY row of the per-level rollup
type levelCountRow struct {
	Level models.Level `db:"level"`
	Total int          `db:"total"`
	Known int          `db:"known"`
}

// LevelCounts returns total catalog entries and known counts per CEFR level
// for one user and language. Levels without catalog words produce no row;
// the aggregator fills those in.
func (r *StatisticsRepository) LevelCounts(ctx context.Context, userID int64, language string) (map[models.Level]models.LevelStats, error) {
	query := `
		SELECT v.level AS level,
		       COUNT(*) AS total,
		       COALESCE(SUM(CASE WHEN p.is_known THEN 1 ELSE 0 END), 0) AS known
		FROM vocabulary_entries v
		LEFT JOIN user_progress p ON p.entry_id = v.id AND p.user_id = $1
		WHERE v.language = $2
		GROUP BY v.level
	`

	var rows []levelCountRow
	if err := r.db.SelectContext(ctx, &rows, query, userID, language); err != nil {
		return nil, fmt.Errorf("failed to get level statistics: %v", err)
	}

	counts := make(map[models.Level]models.LevelStats, len(rows))
	for _, row := range rows {
		counts[row.Level] = models.LevelStats{Total: row.Total, Known: row.Known}
	}
	return counts, nil
}
