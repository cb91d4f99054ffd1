package progress

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/example/wortschatz/internal/database"
	"github.com/example/wortschatz/pkg/models"
)

// StatsService derives read-only rollups from the progress ledger for display
type StatsService struct {
	stats *database.StatisticsRepository
	log   *zap.Logger
}

// NewStatsService creates a stats service with its dependencies injected
func NewStatsService(stats *database.StatisticsRepository, log *zap.Logger) *StatsService {
	if log == nil {
		log = zap.NewNop()
	}
	return &StatsService{stats: stats, log: log}
}

// Stats returns known/total counts and percentages per CEFR level plus the
// overall rollup. All six levels are always present; a level with no catalog
// words (and a user with no progress) reports zeros, never an error.
func (s *StatsService) Stats(ctx context.Context, userID int64, language string) (*models.UserStats, error) {
	if !ValidLanguage(language) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLanguage, language)
	}

	counts, err := s.stats.LevelCounts(ctx, userID, language)
	if err != nil {
		return nil, fmt.Errorf("stats for user %d (%s): %w", userID, language, err)
	}

	result := &models.UserStats{
		Levels: make(map[models.Level]models.LevelStats, len(models.AllLevels)),
	}
	for _, level := range models.AllLevels {
		ls := counts[level] // zero value when the level has no catalog words
		ls.Percentage = percentage(ls.Known, ls.Total)
		result.Levels[level] = ls
		result.TotalWords += ls.Total
		result.TotalKnown += ls.Known
	}
	result.PercentageKnown = percentage(result.TotalKnown, result.TotalWords)

	return result, nil
}

// percentage is known/total*100 rounded to one decimal place, defined as 0
// when total is 0 so empty levels and brand-new users need no special-casing
func percentage(known, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(known)/float64(total)*1000) / 10
}
