package models

import "time"

// Puzzle categories.
const (
	CategoryMath   = "Math"
	CategoryLogic  = "Logic"
	CategoryVisual = "Visual"
)

// Puzzle difficulties.
const (
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"
)

// DefaultXPReward is awarded for puzzles created without an explicit reward.
const DefaultXPReward = 100

// Puzzle represents a single puzzle in the catalog.
type Puzzle struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`   // Math, Logic or Visual
	Difficulty  string    `json:"difficulty"` // Easy, Medium or Hard
	Question    string    `json:"question"`
	Answer      string    `json:"answer"`
	Hints       []string  `json:"hints"`
	TimeLimit   int       `json:"timeLimit"` // minutes
	SolvedCount int       `json:"solvedCount"`
	XPReward    int       `json:"xpReward"`
	Featured    bool      `json:"featured"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ValidCategory reports whether c is one of the known puzzle categories.
func ValidCategory(c string) bool {
	return c == CategoryMath || c == CategoryLogic || c == CategoryVisual
}

// ValidDifficulty reports whether d is one of the known difficulties.
func ValidDifficulty(d string) bool {
	return d == DifficultyEasy || d == DifficultyMedium || d == DifficultyHard
}
