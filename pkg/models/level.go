package models

import (
	"fmt"
	"strings"
)

// Level is a CEFR proficiency level assigned to a vocabulary entry
type Level string

const (
	// LevelA1 is the beginner level
	LevelA1 Level = "A1"
	// LevelA2 is the elementary level
	LevelA2 Level = "A2"
	// LevelB1 is the intermediate level
	LevelB1 Level = "B1"
	// LevelB2 is the upper intermediate level
	LevelB2 Level = "B2"
	// LevelC1 is the advanced level
	LevelC1 Level = "C1"
	// LevelC2 is the mastery level
	LevelC2 Level = "C2"
)

// AllLevels lists every CEFR level in ascending order of difficulty.
// Statistics always report all six, even when a level has no catalog words.
var AllLevels = []Level{LevelA1, LevelA2, LevelB1, LevelB2, LevelC1, LevelC2}

// ParseLevel normalizes and validates a level code
func ParseLevel(s string) (Level, error) {
	level := Level(strings.ToUpper(strings.TrimSpace(s)))
	for _, l := range AllLevels {
		if level == l {
			return level, nil
		}
	}
	return "", fmt.Errorf("invalid CEFR level: %q", s)
}

// Valid reports whether the level is one of the six CEFR codes
func (l Level) Valid() bool {
	_, err := ParseLevel(string(l))
	return err == nil
}
