// Package excel imports vocabulary catalogs from Excel or CSV word lists.
// The importer is the only writer of catalog levels; once a lemma is
// cataloged its level is frozen and re-imports only refresh metadata.
package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/example/wortschatz/internal/database"
	"github.com/example/wortschatz/internal/lemma"
	"github.com/example/wortschatz/internal/progress"
	"github.com/example/wortschatz/pkg/models"
)

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath           string // Path to the Excel or CSV file
	Language           string // Two-letter language code for all rows
	LemmaColumn        int    // 0-based column with the lemma
	LevelColumn        int    // 0-based column with the CEFR level
	PartOfSpeechColumn int    // 0-based column with the part of speech (-1 to skip)
	GenderColumn       int    // 0-based column with the noun gender (-1 to skip)
	TranslationColumn  int    // 0-based column with the translation (-1 to skip)
	SheetName          string // Name of the sheet to import
	StartRow           int    // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig(filePath, language string) ImportConfig {
	return ImportConfig{
		FilePath:           filePath,
		Language:           language,
		LemmaColumn:        0,
		LevelColumn:        1,
		PartOfSpeechColumn: 2,
		GenderColumn:       3,
		TranslationColumn:  4,
		SheetName:          "Sheet1",
		StartRow:           2, // By default, start from the second row (skip header)
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	Created        int
	Updated        int
	Skipped        int
	Errors         []string
}

// Importer loads catalog entries from word-list files
type Importer struct {
	vocab *database.VocabularyRepository
	log   *zap.Logger
}

// NewImporter creates an importer with its dependencies injected
func NewImporter(vocab *database.VocabularyRepository, log *zap.Logger) *Importer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Importer{vocab: vocab, log: log}
}

// Import loads vocabulary entries from an Excel or CSV file
func (im *Importer) Import(ctx context.Context, config ImportConfig) (*ImportResult, error) {
	if !progress.ValidLanguage(config.Language) {
		return nil, fmt.Errorf("invalid import language: %q", config.Language)
	}

	ext := strings.ToLower(filepath.Ext(config.FilePath))
	if ext == ".csv" {
		return im.importFromCSV(ctx, config)
	}
	return im.importFromExcel(ctx, config)
}

// importFromExcel imports entries from an Excel file
func (im *Importer) importFromExcel(ctx context.Context, config ImportConfig) (*ImportResult, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(config.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %v", err)
	}

	result := &ImportResult{Errors: make([]string, 0)}
	for i, row := range rows {
		// Skip header rows
		if i < config.StartRow-1 {
			continue
		}
		result.TotalProcessed++
		if err := im.processRow(ctx, row, config, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", i+1, err))
		}
	}

	im.logResult(config, result)
	return result, nil
}

// importFromCSV imports entries from a CSV file
func (im *Importer) importFromCSV(ctx context.Context, config ImportConfig) (*ImportResult, error) {
	file, err := os.Open(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	result := &ImportResult{Errors: make([]string, 0)}
	rowNum := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %v", err)
		}

		rowNum++
		if rowNum < config.StartRow {
			continue
		}

		result.TotalProcessed++
		if err := im.processRow(ctx, row, config, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
		}
	}

	im.logResult(config, result)
	return result, nil
}

// processRow validates one word-list row and upserts the catalog entry
func (im *Importer) processRow(ctx context.Context, row []string, config ImportConfig, result *ImportResult) error {
	lemmaForm := lemma.Normalize(cell(row, config.LemmaColumn))
	if lemmaForm == "" {
		result.Skipped++
		return nil
	}

	level, err := models.ParseLevel(cell(row, config.LevelColumn))
	if err != nil {
		result.Skipped++
		return err
	}

	entry := &models.VocabularyEntry{
		ID:           progress.EntryID(lemmaForm, config.Language).String(),
		Lemma:        lemmaForm,
		Language:     config.Language,
		Level:        level,
		PartOfSpeech: cell(row, config.PartOfSpeechColumn),
		Gender:       cell(row, config.GenderColumn),
		Translation:  cell(row, config.TranslationColumn),
	}

	created, err := im.vocab.Upsert(ctx, entry)
	if err != nil {
		result.Skipped++
		return err
	}
	if created {
		result.Created++
	} else {
		result.Updated++
	}
	return nil
}

func (im *Importer) logResult(config ImportConfig, result *ImportResult) {
	im.log.Info("catalog import finished",
		zap.String("file", config.FilePath),
		zap.String("language", config.Language),
		zap.Int("processed", result.TotalProcessed),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("skipped", result.Skipped),
		zap.Int("errors", len(result.Errors)))
}

// cell returns a trimmed column value, tolerating short rows and skipped
// columns
func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}
