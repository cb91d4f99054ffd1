package progress

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/example/wortschatz/internal/database"
	"github.com/example/wortschatz/internal/lemma"
	"github.com/example/wortschatz/pkg/models"
)

// markRetries bounds the transparent retry on transient storage conflicts
const markRetries = 3

// Ledger is the single writer of progress records. Every mutation goes
// through the mark operations below; no other component writes progress rows.
type Ledger struct {
	db       *sqlx.DB
	vocab    *database.VocabularyRepository
	progress *database.ProgressRepository
	resolver *Resolver
	log      *zap.Logger
}

// NewLedger creates a ledger with its dependencies injected
func NewLedger(db *sqlx.DB, vocab *database.VocabularyRepository, progressRepo *database.ProgressRepository, resolver *Resolver, log *zap.Logger) *Ledger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Ledger{
		db:       db,
		vocab:    vocab,
		progress: progressRepo,
		resolver: resolver,
		log:      log,
	}
}

// MarkWord resolves the word and upserts the user's progress record for it.
// Words absent from the catalog are reported as Success=false without
// creating any record. Marking known repeatedly keeps raising the confidence
// up to the cap; the review count grows by one on every call.
func (l *Ledger) MarkWord(ctx context.Context, userID int64, word, language string, known bool) (*models.MarkResult, error) {
	res, err := l.resolver.Resolve(ctx, word, language)
	if err != nil {
		return nil, err
	}
	if !res.Found {
		return &models.MarkResult{
			Success: false,
			Lemma:   res.Lemma,
			Message: res.Message,
		}, nil
	}
	return l.markEntry(ctx, userID, res.EntryID, res.Lemma, known)
}

// MarkConcept marks progress against a concept identifier synthesized from
// live text. The identifier must be a canonical UUID; a catalog row is
// created under it on first use so the concept round-trips like any cataloged
// word thereafter.
func (l *Ledger) MarkConcept(ctx context.Context, userID int64, conceptID, word, lemmaForm, language, level string, known bool) (*models.MarkResult, error) {
	id, err := uuid.Parse(conceptID)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidConcept, conceptID)
	}
	lvl, err := models.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLevel, level)
	}
	if !ValidLanguage(language) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLanguage, language)
	}

	lem := lemma.Normalize(lemmaForm)
	if lem == "" {
		lem = lemma.Normalize(word)
	}
	if lem == "" {
		return nil, ErrEmptyWord
	}

	entry := &models.VocabularyEntry{
		ID:       id.String(),
		Lemma:    lem,
		Language: language,
		Level:    lvl,
	}
	if err := l.vocab.EnsureExists(ctx, nil, entry); err != nil {
		return nil, fmt.Errorf("mark concept %s for user %d: %w", conceptID, userID, err)
	}

	// The lemma may already be cataloged under a different identifier; the
	// catalog row wins so progress converges on one record per word.
	canonical, err := l.vocab.GetByLemmaAndLanguage(ctx, lem, language)
	if err != nil {
		return nil, fmt.Errorf("mark concept %s for user %d: %w", conceptID, userID, err)
	}

	return l.markEntry(ctx, userID, canonical.ID, canonical.Lemma, known)
}

// markEntry applies one encounter transition and reads back the record
func (l *Ledger) markEntry(ctx context.Context, userID int64, entryID, lemmaForm string, known bool) (*models.MarkResult, error) {
	var lastErr error
	for attempt := 0; attempt < markRetries; attempt++ {
		if lastErr = l.progress.MarkEncounter(ctx, nil, userID, entryID, known); lastErr == nil {
			break
		}
		if !retryable(lastErr) {
			return nil, fmt.Errorf("mark word %q for user %d: %w", lemmaForm, userID, lastErr)
		}
		l.log.Debug("retrying mark after storage conflict",
			zap.Int64("user_id", userID),
			zap.String("entry_id", entryID),
			zap.Error(lastErr))
		time.Sleep(time.Duration(attempt+1) * 10 * time.Millisecond)
	}
	if lastErr != nil {
		return nil, fmt.Errorf("mark word %q for user %d: %w", lemmaForm, userID, lastErr)
	}

	record, err := l.progress.GetByUserAndEntry(ctx, nil, userID, entryID)
	if err != nil {
		return nil, fmt.Errorf("mark word %q for user %d: %w", lemmaForm, userID, err)
	}

	return &models.MarkResult{
		Success:     true,
		Lemma:       lemmaForm,
		IsKnown:     record.IsKnown,
		Confidence:  record.Confidence,
		ReviewCount: record.ReviewCount,
	}, nil
}

// BulkMarkLevel marks every catalog word of one level at once, inside a
// single transaction: either the whole level ends in the requested state or
// nothing changes. Bulk marks override per-word history with full (5) or zero
// confidence. A level with no catalog entries is a successful no-op.
func (l *Ledger) BulkMarkLevel(ctx context.Context, userID int64, language, level string, known bool) (*models.BulkMarkResult, error) {
	lvl, err := models.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLevel, level)
	}
	if !ValidLanguage(language) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLanguage, language)
	}

	entries, err := l.vocab.GetByLevel(ctx, language, lvl)
	if err != nil {
		return nil, fmt.Errorf("bulk mark level %s for user %d: %w", lvl, userID, err)
	}
	if len(entries) == 0 {
		return &models.BulkMarkResult{Success: true, Level: lvl, IsKnown: known, UpdatedCount: 0}, nil
	}

	tx, err := l.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("bulk mark level %s for user %d: %v", lvl, userID, err)
	}
	defer tx.Rollback()

	for _, entry := range entries {
		if err := l.progress.ApplyBulk(ctx, tx, userID, entry.ID, known); err != nil {
			return nil, fmt.Errorf("bulk mark level %s for user %d: %w", lvl, userID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("bulk mark level %s for user %d: %v", lvl, userID, err)
	}

	l.log.Info("bulk marked level",
		zap.Int64("user_id", userID),
		zap.String("language", language),
		zap.String("level", string(lvl)),
		zap.Bool("is_known", known),
		zap.Int("updated_count", len(entries)))

	return &models.BulkMarkResult{
		Success:      true,
		Level:        lvl,
		IsKnown:      known,
		UpdatedCount: len(entries),
	}, nil
}

// retryable reports whether the storage error is a transient lock or
// serialization conflict worth retrying
func retryable(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked") ||
		strings.Contains(msg, "deadlock detected") ||
		strings.Contains(msg, "could not serialize access")
}
