package scheduler

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/example/wortschatz/internal/database"
	"github.com/example/wortschatz/internal/progress"
	"github.com/example/wortschatz/pkg/models"
)

// Default window during which progress digests are delivered
const (
	DefaultDigestStartHour = 8
	DefaultDigestEndHour   = 22
)

// Notifier delivers a progress digest to one user
type Notifier interface {
	SendDigest(userID int64, stats *models.UserStats) error
}

// Scheduler periodically computes per-user progress digests and hands them to
// a Notifier. It only reads from the ledger; it never writes progress.
type Scheduler struct {
	scheduler *gocron.Scheduler
	stats     *progress.StatsService
	progress  *database.ProgressRepository
	notifier  Notifier
	language  string
	log       *zap.Logger
}

// New creates a new scheduler instance
func New(stats *progress.StatsService, progressRepo *database.ProgressRepository, notifier Notifier, language string, log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		stats:     stats,
		progress:  progressRepo,
		notifier:  notifier,
		language:  language,
		log:       log,
	}
}

// Start begins running all scheduled tasks
func (s *Scheduler) Start() {
	s.scheduler.Every(1).Hour().Do(s.checkAndSendDigests)
	s.scheduler.StartAsync()
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// checkAndSendDigests sends digests when the current hour falls inside the
// configured window
func (s *Scheduler) checkAndSendDigests() {
	currentHour := time.Now().Hour()

	startHour := hourFromEnv("DIGEST_START_HOUR", DefaultDigestStartHour)
	endHour := hourFromEnv("DIGEST_END_HOUR", DefaultDigestEndHour)

	if currentHour < startHour || currentHour > endHour {
		s.log.Debug("outside digest hours, skipping",
			zap.Int("current_hour", currentHour),
			zap.Int("start_hour", startHour),
			zap.Int("end_hour", endHour))
		return
	}

	if err := s.RunOnce(context.Background()); err != nil {
		s.log.Error("digest run failed", zap.Error(err))
	}
}

// RunOnce computes and delivers a digest for every user with progress
func (s *Scheduler) RunOnce(ctx context.Context) error {
	users, err := s.progress.DistinctUsers(ctx)
	if err != nil {
		return err
	}

	for _, userID := range users {
		stats, err := s.stats.Stats(ctx, userID, s.language)
		if err != nil {
			s.log.Error("failed to compute digest stats",
				zap.Int64("user_id", userID),
				zap.Error(err))
			continue
		}
		if err := s.notifier.SendDigest(userID, stats); err != nil {
			s.log.Error("failed to deliver digest",
				zap.Int64("user_id", userID),
				zap.Error(err))
		}
	}
	return nil
}

// hourFromEnv reads an hour override from the environment
func hourFromEnv(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if h, err := strconv.Atoi(v); err == nil && h >= 0 && h <= 23 {
			return h
		}
	}
	return fallback
}
