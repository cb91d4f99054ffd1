package models

// ResolveResult is the outcome of resolving a surface word against the
// catalog. Found=false is an expected outcome for out-of-vocabulary words,
// not an error.
type ResolveResult struct {
	Found   bool   `json:"found"`
	Word    string `json:"word"`
	Lemma   string `json:"lemma"`
	Level   Level  `json:"level,omitempty"`
	EntryID string `json:"entry_id,omitempty"` // canonical UUID when Found
	Message string `json:"message,omitempty"`
}

// MarkResult is the outcome of a single-word mark operation
type MarkResult struct {
	Success     bool   `json:"success"`
	Lemma       string `json:"lemma"`
	IsKnown     bool   `json:"is_known"`
	Confidence  int    `json:"confidence_level"`
	ReviewCount int    `json:"review_count"`
	Message     string `json:"message,omitempty"`
}

// BulkMarkResult is the outcome of marking every word of a level at once.
// UpdatedCount is the number of catalog entries the operation covered,
// whether each was newly created or updated in place.
type BulkMarkResult struct {
	Success      bool  `json:"success"`
	Level        Level `json:"level"`
	IsKnown      bool  `json:"is_known"`
	UpdatedCount int   `json:"updated_count"`
}

// LevelStats holds known/total counts for one CEFR level
type LevelStats struct {
	Total      int     `json:"total"`
	Known      int     `json:"known"`
	Percentage float64 `json:"percentage"` // known/total*100 rounded to one decimal, 0 when total is 0
}

// UserStats is the full per-user rollup for one language. Levels always
// contains all six CEFR levels.
type UserStats struct {
	TotalWords      int                  `json:"total_words"`
	TotalKnown      int                  `json:"total_known"`
	PercentageKnown float64              `json:"percentage_known"`
	Levels          map[Level]LevelStats `json:"levels"`
}
