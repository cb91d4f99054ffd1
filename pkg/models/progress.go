package models

import "time"

// Confidence bounds for a progress record. Marking a word known raises the
// confidence by one up to MaxConfidence, marking it unknown lowers it by one
// down to MinConfidence.
const (
	MinConfidence = 0
	MaxConfidence = 5
)

// ProgressRecord tracks one user's mastery of one vocabulary entry. There is
// at most one record per (user, entry) pair; records are created lazily on the
// first mark operation and updated in place afterwards, never deleted.
type ProgressRecord struct {
	ID          int64     `json:"id" db:"id"`
	UserID      int64     `json:"user_id" db:"user_id"`
	EntryID     string    `json:"entry_id" db:"entry_id"`
	IsKnown     bool      `json:"is_known" db:"is_known"`
	Confidence  int       `json:"confidence_level" db:"confidence_level"` // always within [0, 5]
	ReviewCount int       `json:"review_count" db:"review_count"`         // +1 on every mark, never decreases
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
