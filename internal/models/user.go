package models

import "time"

// DifficultyBreakdown counts a user's credited solves per difficulty.
type DifficultyBreakdown struct {
	Easy   int `json:"easy"`
	Medium int `json:"medium"`
	Hard   int `json:"hard"`
}

// User represents a user account in the system.
type User struct {
	ID            string              `json:"id"`
	Email         string              `json:"email"` // stored case-folded
	PasswordHash  string              `json:"-"`     // Never expose this to the client
	IsAdmin       bool                `json:"isAdmin"`
	XP            int                 `json:"xp"`
	PuzzlesSolved int                 `json:"puzzlesSolved"`
	Breakdown     DifficultyBreakdown `json:"difficultyBreakdown"`

	// RecentlySolved is the credited set: puzzle ids this user has already
	// been rewarded for. Membership gates every aggregate mutation.
	RecentlySolved []string `json:"recentlySolved"`

	ResetToken   string     `json:"-"`
	ResetExpires *time.Time `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
}
