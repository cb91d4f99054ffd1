package models

import "time"

// VocabularyEntry represents one canonical word (lemma) in one language.
// The (lemma, language) pair is unique and the level is immutable once set:
// re-importing a catalog must never silently change a word's difficulty.
type VocabularyEntry struct {
	ID           string    `json:"id" db:"id"` // canonical UUID string
	Lemma        string    `json:"lemma" db:"lemma"`
	Language     string    `json:"language" db:"language"` // two-letter ISO code
	Level        Level     `json:"level" db:"level"`
	PartOfSpeech string    `json:"part_of_speech" db:"part_of_speech"`
	Gender       string    `json:"gender" db:"gender"` // noun gender, empty otherwise
	Translation  string    `json:"translation" db:"translation"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// UnknownWord is a curation queue entry for a word that was looked up but is
// absent from the catalog. Misses are counted so the most frequently requested
// words can be imported first.
type UnknownWord struct {
	ID        int64     `json:"id" db:"id"`
	Word      string    `json:"word" db:"word"` // surface form as first seen
	Lemma     string    `json:"lemma" db:"lemma"`
	Language  string    `json:"language" db:"language"`
	MissCount int       `json:"miss_count" db:"miss_count"`
	FirstSeen time.Time `json:"first_seen" db:"first_seen"`
	LastSeen  time.Time `json:"last_seen" db:"last_seen"`
}
