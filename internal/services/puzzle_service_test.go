package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/witslabs/wits-be/internal/models"
)

func TestSolve_FirstCorrectSubmissionAwards(t *testing.T) {
	env := newTestEnv(t, "")
	user := env.registerUser(t, "solver@example.com")
	puzzle := env.createPuzzle(t, models.Puzzle{Difficulty: models.DifficultyMedium, XPReward: 150})

	result, err := env.puzzles.Solve(user.ID, puzzle.ID, "Keyboard")
	require.NoError(t, err)

	require.False(t, result.AlreadyCredited)
	require.Equal(t, 150, result.User.XP)
	require.Equal(t, 1, result.User.PuzzlesSolved)
	require.Equal(t, 1, result.User.Breakdown.Medium)
	require.Equal(t, 0, result.User.Breakdown.Easy)
	require.Equal(t, 1, result.Puzzle.SolvedCount)
	require.Equal(t, []string{puzzle.ID}, result.User.RecentlySolved)
}

func TestSolve_SecondCorrectSubmissionIsIdempotent(t *testing.T) {
	env := newTestEnv(t, "")
	user := env.registerUser(t, "solver@example.com")
	puzzle := env.createPuzzle(t, models.Puzzle{})

	first, err := env.puzzles.Solve(user.ID, puzzle.ID, "Keyboard")
	require.NoError(t, err)
	require.False(t, first.AlreadyCredited)

	second, err := env.puzzles.Solve(user.ID, puzzle.ID, "Keyboard")
	require.NoError(t, err)

	require.True(t, second.AlreadyCredited)
	require.Equal(t, first.User.XP, second.User.XP)
	require.Equal(t, first.User.PuzzlesSolved, second.User.PuzzlesSolved)
	require.Equal(t, first.User.Breakdown, second.User.Breakdown)
	require.Equal(t, first.Puzzle.SolvedCount, second.Puzzle.SolvedCount)
}

func TestSolve_IncorrectSubmissionMutatesNothing(t *testing.T) {
	env := newTestEnv(t, "")
	user := env.registerUser(t, "solver@example.com")
	puzzle := env.createPuzzle(t, models.Puzzle{})

	_, err := env.puzzles.Solve(user.ID, puzzle.ID, "wrong guess")
	require.ErrorIs(t, err, ErrIncorrectAnswer)

	after, err := env.users.GetUserByID(user.ID)
	require.NoError(t, err)
	require.Equal(t, 0, after.XP)
	require.Equal(t, 0, after.PuzzlesSolved)
	require.Empty(t, after.RecentlySolved)

	p, err := env.puzzles.GetPuzzleByID(puzzle.ID)
	require.NoError(t, err)
	require.Equal(t, 0, p.SolvedCount)
}

func TestSolve_EmptyAnswerIsValidationError(t *testing.T) {
	env := newTestEnv(t, "")
	user := env.registerUser(t, "solver@example.com")
	puzzle := env.createPuzzle(t, models.Puzzle{})

	_, err := env.puzzles.Solve(user.ID, puzzle.ID, "   ")
	require.ErrorIs(t, err, ErrValidation)
}

func TestSolve_MissingPuzzleOrUser(t *testing.T) {
	env := newTestEnv(t, "")
	user := env.registerUser(t, "solver@example.com")
	puzzle := env.createPuzzle(t, models.Puzzle{})

	_, err := env.puzzles.Solve(user.ID, "no-such-puzzle", "Keyboard")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = env.puzzles.Solve("no-such-user", puzzle.ID, "Keyboard")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSolve_DefaultXPRewardApplies(t *testing.T) {
	env := newTestEnv(t, "")
	user := env.registerUser(t, "solver@example.com")
	// CreatePuzzle backfills a non-positive reward with the default.
	puzzle := env.createPuzzle(t, models.Puzzle{XPReward: -3})

	result, err := env.puzzles.Solve(user.ID, puzzle.ID, "Keyboard")
	require.NoError(t, err)
	require.Equal(t, models.DefaultXPReward, result.User.XP)
}

func TestSolve_EmitsOneEventPerFirstCredit(t *testing.T) {
	env := newTestEnv(t, "")
	user := env.registerUser(t, "solver@example.com")
	puzzle := env.createPuzzle(t, models.Puzzle{})

	_, err := env.puzzles.Solve(user.ID, puzzle.ID, "Keyboard")
	require.NoError(t, err)
	_, err = env.puzzles.Solve(user.ID, puzzle.ID, "Keyboard")
	require.NoError(t, err)

	events, err := env.events.GetRecentEvents(10)
	require.NoError(t, err)

	solveEvents := 0
	for _, e := range events {
		if e.Type == "puzzle.solved" {
			solveEvents++
			require.NotNil(t, e.UserID)
			require.Equal(t, user.ID, *e.UserID)
		}
	}
	require.Equal(t, 1, solveEvents)
}

func TestAnswersMatch(t *testing.T) {
	tests := []struct {
		name      string
		canonical string
		submitted string
		want      bool
	}{
		{"numeric equal", "42", "42", true},
		{"numeric with decimal", "42", "42.0", true},
		{"numeric padded", "42", " 42 ", true},
		{"numeric unequal", "42", "41", false},
		{"numeric vs words", "42", "forty-two", false},
		{"string case folded", "Paris", " paris ", true},
		{"string mismatch", "Paris", "London", false},
		{"mixed canonical falls back to string", "7a", "7a", true},
		{"mixed canonical rejects number", "7a", "7", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, answersMatch(tt.canonical, tt.submitted))
		})
	}
}

func TestCreatePuzzle_Validation(t *testing.T) {
	env := newTestEnv(t, "")

	base := models.Puzzle{
		Title:      "Riddle",
		Category:   models.CategoryMath,
		Difficulty: models.DifficultyHard,
		Question:   "2+2?",
		Answer:     "4",
		TimeLimit:  3,
	}

	for _, tt := range []struct {
		name   string
		mutate func(*models.Puzzle)
	}{
		{"missing title", func(p *models.Puzzle) { p.Title = "" }},
		{"missing answer", func(p *models.Puzzle) { p.Answer = "" }},
		{"bad category", func(p *models.Puzzle) { p.Category = "Trivia" }},
		{"bad difficulty", func(p *models.Puzzle) { p.Difficulty = "Impossible" }},
		{"zero time limit", func(p *models.Puzzle) { p.TimeLimit = 0 }},
	} {
		t.Run(tt.name, func(t *testing.T) {
			p := base
			tt.mutate(&p)
			_, err := env.puzzles.CreatePuzzle(p)
			require.ErrorIs(t, err, ErrValidation)
		})
	}

	created, err := env.puzzles.CreatePuzzle(base)
	require.NoError(t, err)
	require.Equal(t, models.DefaultXPReward, created.XPReward)
	require.NotEmpty(t, created.ID)
}

func TestDeletePuzzle(t *testing.T) {
	env := newTestEnv(t, "")
	puzzle := env.createPuzzle(t, models.Puzzle{})

	require.NoError(t, env.puzzles.DeletePuzzle(puzzle.ID))

	err := env.puzzles.DeletePuzzle(puzzle.ID)
	require.True(t, errors.Is(err, ErrNotFound))
}

func TestRotateFeatured_MovesFlagToExactlyOnePuzzle(t *testing.T) {
	env := newTestEnv(t, "")
	env.createPuzzle(t, models.Puzzle{Title: "A"})
	env.createPuzzle(t, models.Puzzle{Title: "B"})
	env.createPuzzle(t, models.Puzzle{Title: "C"})

	_, err := env.puzzles.GetFeaturedPuzzle()
	require.ErrorIs(t, err, ErrNotFound)

	rotated, err := env.puzzles.RotateFeatured()
	require.NoError(t, err)
	require.True(t, rotated.Featured)

	all, err := env.puzzles.GetAllPuzzles()
	require.NoError(t, err)
	featured := 0
	for _, p := range all {
		if p.Featured {
			featured++
		}
	}
	require.Equal(t, 1, featured)

	// Rotating again picks a different puzzle; still exactly one flagged.
	next, err := env.puzzles.RotateFeatured()
	require.NoError(t, err)
	require.NotEqual(t, rotated.ID, next.ID)

	current, err := env.puzzles.GetFeaturedPuzzle()
	require.NoError(t, err)
	require.Equal(t, next.ID, current.ID)
}

func TestRotateFeatured_EmptyCatalog(t *testing.T) {
	env := newTestEnv(t, "")

	_, err := env.puzzles.RotateFeatured()
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPuzzleHintsRoundTrip(t *testing.T) {
	env := newTestEnv(t, "")
	puzzle := env.createPuzzle(t, models.Puzzle{Hints: []string{"It types", "On your desk"}})

	got, err := env.puzzles.GetPuzzleByID(puzzle.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"It types", "On your desk"}, got.Hints)
}
