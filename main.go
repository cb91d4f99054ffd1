package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/example/wortschatz/internal/database"
	"github.com/example/wortschatz/internal/excel"
	"github.com/example/wortschatz/internal/lemma"
	"github.com/example/wortschatz/internal/progress"
	"github.com/example/wortschatz/internal/scheduler"
	"github.com/example/wortschatz/pkg/models"
)

const usage = `usage: wortschatz <command> [flags]

commands:
  import  load a vocabulary catalog from an .xlsx or .csv word list
  mark    mark a single word known or unknown for a user
  bulk    mark every word of a CEFR level known or unknown for a user
  stats   print a user's per-level progress
  digest  run the periodic progress digest until interrupted
`

func main() {
	// Optional .env for local development
	_ = godotenv.Load()

	logger, err := buildLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	db, err := database.Connect(database.ConfigFromEnv())
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	app := newApp(db, logger)

	switch os.Args[1] {
	case "import":
		err = app.runImport(os.Args[2:])
	case "mark":
		err = app.runMark(os.Args[2:])
	case "bulk":
		err = app.runBulk(os.Args[2:])
	case "stats":
		err = app.runStats(os.Args[2:])
	case "digest":
		err = app.runDigest(os.Args[2:])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		logger.Fatal("command failed", zap.String("command", os.Args[1]), zap.Error(err))
	}
}

// app bundles the wired services behind the CLI commands
type app struct {
	db       *sqlx.DB
	resolver *progress.Resolver
	ledger   *progress.Ledger
	stats    *progress.StatsService
	importer *excel.Importer
	progRepo *database.ProgressRepository
	log      *zap.Logger
}

func newApp(db *sqlx.DB, log *zap.Logger) *app {
	vocabRepo := database.NewVocabularyRepository(db)
	progRepo := database.NewProgressRepository(db)
	unknownRepo := database.NewUnknownWordRepository(db)
	statsRepo := database.NewStatisticsRepository(db)

	resolver := progress.NewResolver(vocabRepo, unknownRepo, buildLemmatizer(), log)
	ledger := progress.NewLedger(db, vocabRepo, progRepo, resolver, log)
	stats := progress.NewStatsService(statsRepo, log)
	importer := excel.NewImporter(vocabRepo, log)

	return &app{
		db:       db,
		resolver: resolver,
		ledger:   ledger,
		stats:    stats,
		importer: importer,
		progRepo: progRepo,
		log:      log,
	}
}

// buildLemmatizer wires the remote lemmatization service when configured,
// falling back to the offline rules, always behind a bounded cache
func buildLemmatizer() lemma.Lemmatizer {
	var inner lemma.Lemmatizer
	if url := os.Getenv("LEMMA_SERVICE_URL"); url != "" {
		inner = lemma.NewRemote(url, os.Getenv("LEMMA_SERVICE_TOKEN"), 5*time.Second)
	} else {
		inner = lemma.NewRules()
	}

	size := 0
	if v := os.Getenv("LEMMA_CACHE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			size = n
		}
	}
	return lemma.NewCache(inner, size)
}

func buildLogger() (*zap.Logger, error) {
	if os.Getenv("ENV") == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func (a *app) runImport(args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	file := fs.String("file", "", "path to the .xlsx or .csv word list")
	language := fs.String("language", "de", "two-letter language code")
	sheet := fs.String("sheet", "Sheet1", "sheet name for Excel files")
	startRow := fs.Int("start-row", 2, "first data row (1-based)")
	fs.Parse(args)

	if *file == "" {
		return fmt.Errorf("-file is required")
	}

	cfg := excel.DefaultImportConfig(*file, *language)
	cfg.SheetName = *sheet
	cfg.StartRow = *startRow

	result, err := a.importer.Import(context.Background(), cfg)
	if err != nil {
		return err
	}

	fmt.Printf("processed %d rows: %d created, %d updated, %d skipped\n",
		result.TotalProcessed, result.Created, result.Updated, result.Skipped)
	for _, e := range result.Errors {
		fmt.Printf("  %s\n", e)
	}
	return nil
}

func (a *app) runMark(args []string) error {
	fs := flag.NewFlagSet("mark", flag.ExitOnError)
	userID := fs.Int64("user", 0, "user ID")
	word := fs.String("word", "", "surface word to mark")
	language := fs.String("language", "de", "two-letter language code")
	unknown := fs.Bool("unknown", false, "mark the word unknown instead of known")
	fs.Parse(args)

	result, err := a.ledger.MarkWord(context.Background(), *userID, *word, *language, !*unknown)
	if err != nil {
		return err
	}
	if !result.Success {
		fmt.Printf("%s: %s\n", result.Lemma, result.Message)
		return nil
	}
	fmt.Printf("%s: known=%t confidence=%d reviews=%d\n",
		result.Lemma, result.IsKnown, result.Confidence, result.ReviewCount)
	return nil
}

func (a *app) runBulk(args []string) error {
	fs := flag.NewFlagSet("bulk", flag.ExitOnError)
	userID := fs.Int64("user", 0, "user ID")
	level := fs.String("level", "", "CEFR level (A1..C2)")
	language := fs.String("language", "de", "two-letter language code")
	unknown := fs.Bool("unknown", false, "mark the level unknown instead of known")
	fs.Parse(args)

	result, err := a.ledger.BulkMarkLevel(context.Background(), *userID, *language, *level, !*unknown)
	if err != nil {
		return err
	}
	fmt.Printf("level %s: marked %d words known=%t\n", result.Level, result.UpdatedCount, result.IsKnown)
	return nil
}

func (a *app) runStats(args []string) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	userID := fs.Int64("user", 0, "user ID")
	language := fs.String("language", "de", "two-letter language code")
	fs.Parse(args)

	stats, err := a.stats.Stats(context.Background(), *userID, *language)
	if err != nil {
		return err
	}

	for _, level := range models.AllLevels {
		ls := stats.Levels[level]
		fmt.Printf("%s: %d/%d (%.1f%%)\n", level, ls.Known, ls.Total, ls.Percentage)
	}
	fmt.Printf("total: %d/%d (%.1f%%)\n", stats.TotalKnown, stats.TotalWords, stats.PercentageKnown)
	return nil
}

func (a *app) runDigest(args []string) error {
	fs := flag.NewFlagSet("digest", flag.ExitOnError)
	language := fs.String("language", "de", "two-letter language code")
	fs.Parse(args)

	sched := scheduler.New(a.stats, a.progRepo, logNotifier{log: a.log}, *language, a.log)
	sched.Start()
	defer sched.Stop()

	a.log.Info("digest scheduler started, press Ctrl+C to stop")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	a.log.Info("received signal, shutting down", zap.String("signal", sig.String()))
	return nil
}

// logNotifier writes digests to the log; a delivery transport lives outside
// this subsystem
type logNotifier struct {
	log *zap.Logger
}

func (n logNotifier) SendDigest(userID int64, stats *models.UserStats) error {
	n.log.Info("progress digest",
		zap.Int64("user_id", userID),
		zap.Int("total_words", stats.TotalWords),
		zap.Int("total_known", stats.TotalKnown),
		zap.Float64("percentage_known", stats.PercentageKnown))
	return nil
}
