package services

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/witslabs/wits-be/internal/models"
	ws "github.com/witslabs/wits-be/internal/websocket"
)

// SolveResult is the outcome of a correct answer submission.
type SolveResult struct {
	User   models.User   `json:"user"`
	Puzzle models.Puzzle `json:"puzzle"`
	// AlreadyCredited is true when the user had solved this puzzle before;
	// aggregates are left untouched in that case.
	AlreadyCredited bool `json:"alreadySolved"`
}

// PuzzleServiceProvider defines the interface for puzzle services.
type PuzzleServiceProvider interface {
	GetAllPuzzles() ([]models.Puzzle, error)
	GetPuzzleByID(id string) (models.Puzzle, error)
	GetFeaturedPuzzle() (models.Puzzle, error)
	CreatePuzzle(puzzle models.Puzzle) (models.Puzzle, error)
	DeletePuzzle(id string) error
	Solve(userID, puzzleID, answer string) (SolveResult, error)
	RotateFeatured() (models.Puzzle, error)
}

// PuzzleService provides business logic for the puzzle catalog and the
// solve-and-reward transaction.
type PuzzleService struct {
	db       *sql.DB
	users    UserServiceProvider
	eventSvc EventServiceProvider
	hub      *ws.Hub
}

// NewPuzzleService creates a new PuzzleService.
func NewPuzzleService(db *sql.DB, users UserServiceProvider, eventSvc EventServiceProvider, hub *ws.Hub) *PuzzleService {
	return &PuzzleService{db: db, users: users, eventSvc: eventSvc, hub: hub}
}

// scanPuzzle is a helper to scan a puzzle from a row or rows object.
func scanPuzzle(scanner interface{ Scan(...interface{}) error }) (models.Puzzle, error) {
	var p models.Puzzle
	var hints sql.NullString

	err := scanner.Scan(&p.ID, &p.Title, &p.Category, &p.Difficulty, &p.Question,
		&p.Answer, &hints, &p.TimeLimit, &p.SolvedCount, &p.XPReward, &p.Featured, &p.CreatedAt)
	if err != nil {
		return p, err
	}

	p.Hints = []string{}
	if hints.Valid && hints.String != "" {
		if err := json.Unmarshal([]byte(hints.String), &p.Hints); err != nil {
			return p, fmt.Errorf("failed to decode hints for puzzle %s: %w", p.ID, err)
		}
	}
	return p, nil
}

const puzzleColumns = `id, title, category, difficulty, question, answer,
	hints_json, time_limit, solved_count, xp_reward, featured, created_at`

// GetAllPuzzles retrieves the whole catalog, newest first.
func (s *PuzzleService) GetAllPuzzles() ([]models.Puzzle, error) {
	rows, err := s.db.Query("SELECT " + puzzleColumns + " FROM puzzles ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	puzzles := []models.Puzzle{}
	for rows.Next() {
		p, err := scanPuzzle(rows)
		if err != nil {
			return nil, err
		}
		puzzles = append(puzzles, p)
	}
	return puzzles, rows.Err()
}

// GetPuzzleByID retrieves a single puzzle by its ID.
func (s *PuzzleService) GetPuzzleByID(id string) (models.Puzzle, error) {
	row := s.db.QueryRow("SELECT "+puzzleColumns+" FROM puzzles WHERE id = ?", id)
	p, err := scanPuzzle(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Puzzle{}, fmt.Errorf("%w: puzzle %s", ErrNotFound, id)
		}
		return models.Puzzle{}, err
	}
	return p, nil
}

// GetFeaturedPuzzle retrieves the current daily challenge.
func (s *PuzzleService) GetFeaturedPuzzle() (models.Puzzle, error) {
	row := s.db.QueryRow("SELECT " + puzzleColumns + " FROM puzzles WHERE featured = 1 LIMIT 1")
	p, err := scanPuzzle(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Puzzle{}, fmt.Errorf("%w: no featured puzzle", ErrNotFound)
		}
		return models.Puzzle{}, err
	}
	return p, nil
}

// CreatePuzzle validates and stores a new puzzle (admin operation).
func (s *PuzzleService) CreatePuzzle(puzzle models.Puzzle) (models.Puzzle, error) {
	if puzzle.Title == "" || puzzle.Question == "" || puzzle.Answer == "" {
		return models.Puzzle{}, fmt.Errorf("%w: title, question and answer are required", ErrValidation)
	}
	if !models.ValidCategory(puzzle.Category) {
		return models.Puzzle{}, fmt.Errorf("%w: unknown category %q", ErrValidation, puzzle.Category)
	}
	if !models.ValidDifficulty(puzzle.Difficulty) {
		return models.Puzzle{}, fmt.Errorf("%w: unknown difficulty %q", ErrValidation, puzzle.Difficulty)
	}
	if puzzle.TimeLimit <= 0 {
		return models.Puzzle{}, fmt.Errorf("%w: time limit must be positive", ErrValidation)
	}
	if puzzle.XPReward <= 0 {
		puzzle.XPReward = models.DefaultXPReward
	}

	puzzle.ID = uuid.New().String()
	puzzle.SolvedCount = 0
	if puzzle.Hints == nil {
		puzzle.Hints = []string{}
	}

	hints, err := json.Marshal(puzzle.Hints)
	if err != nil {
		return models.Puzzle{}, err
	}

	stmt, err := s.db.Prepare(`INSERT INTO puzzles(id, title, category, difficulty, question,
		answer, hints_json, time_limit, xp_reward, featured) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return models.Puzzle{}, err
	}
	defer stmt.Close()

	_, err = stmt.Exec(puzzle.ID, puzzle.Title, puzzle.Category, puzzle.Difficulty,
		puzzle.Question, puzzle.Answer, string(hints), puzzle.TimeLimit, puzzle.XPReward, puzzle.Featured)
	if err != nil {
		return models.Puzzle{}, err
	}

	return s.GetPuzzleByID(puzzle.ID)
}

// DeletePuzzle permanently removes a puzzle (admin operation). Credited-set
// rows are kept so past rewards stay accounted for.
func (s *PuzzleService) DeletePuzzle(id string) error {
	res, err := s.db.Exec("DELETE FROM puzzles WHERE id = ?", id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: puzzle %s", ErrNotFound, id)
	}
	return nil
}

// Solve checks a submitted answer and applies the at-most-once reward.
//
// Crediting hinges on a single conditional INSERT into the credited set:
// the aggregates (puzzle solved count, user XP, solved counters, difficulty
// counter) are touched only when that INSERT actually inserted a row, all
// inside one transaction. Two concurrent correct submissions therefore
// cannot double-award.
func (s *PuzzleService) Solve(userID, puzzleID, answer string) (SolveResult, error) {
	puzzle, err := s.GetPuzzleByID(puzzleID)
	if err != nil {
		return SolveResult{}, err
	}
	if _, err := s.users.GetUserByID(userID); err != nil {
		return SolveResult{}, err
	}

	if strings.TrimSpace(answer) == "" {
		return SolveResult{}, fmt.Errorf("%w: answer is required", ErrValidation)
	}

	if !answersMatch(puzzle.Answer, answer) {
		return SolveResult{}, ErrIncorrectAnswer
	}

	tx, err := s.db.Begin()
	if err != nil {
		return SolveResult{}, err
	}
	defer tx.Rollback()

	res, err := tx.Exec("INSERT OR IGNORE INTO solved_puzzles(user_id, puzzle_id) VALUES(?, ?)", userID, puzzleID)
	if err != nil {
		return SolveResult{}, err
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return SolveResult{}, err
	}

	alreadyCredited := inserted == 0
	if !alreadyCredited {
		if _, err := tx.Exec("UPDATE puzzles SET solved_count = solved_count + 1 WHERE id = ?", puzzleID); err != nil {
			return SolveResult{}, err
		}

		reward := puzzle.XPReward
		if reward <= 0 {
			reward = models.DefaultXPReward
		}
		column, err := difficultyColumn(puzzle.Difficulty)
		if err != nil {
			return SolveResult{}, err
		}
		query := fmt.Sprintf("UPDATE users SET xp = xp + ?, puzzles_solved = puzzles_solved + 1, %s = %s + 1 WHERE id = ?", column, column)
		if _, err := tx.Exec(query, reward, userID); err != nil {
			return SolveResult{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return SolveResult{}, err
	}

	user, err := s.users.GetUserByID(userID)
	if err != nil {
		return SolveResult{}, err
	}
	puzzle, err = s.GetPuzzleByID(puzzleID)
	if err != nil {
		return SolveResult{}, err
	}

	if !alreadyCredited {
		s.recordSolve(user, puzzle)
	}

	return SolveResult{User: user, Puzzle: puzzle, AlreadyCredited: alreadyCredited}, nil
}

// recordSolve logs a first-time solve to the activity feed and pushes it to
// connected dashboards. Failures here never fail the solve itself.
func (s *PuzzleService) recordSolve(user models.User, puzzle models.Puzzle) {
	msg := fmt.Sprintf("%s solved %q (%s)", user.Email, puzzle.Title, puzzle.Difficulty)
	if err := s.eventSvc.CreateEvent("puzzle.solved", "info", msg, &user.ID, &puzzle.ID); err != nil {
		log.Error().Err(err).Str("puzzle_id", puzzle.ID).Msg("Failed to record solve event")
	}

	payload, err := json.Marshal(ws.Message{
		Action: "puzzle_solved",
		Payload: map[string]interface{}{
			"userId":   user.ID,
			"puzzleId": puzzle.ID,
			"title":    puzzle.Title,
			"xpReward": puzzle.XPReward,
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to encode solve broadcast")
		return
	}
	s.hub.Broadcast <- payload
}

// RotateFeatured moves the daily-challenge flag to a random other puzzle.
func (s *PuzzleService) RotateFeatured() (models.Puzzle, error) {
	var id string
	err := s.db.QueryRow("SELECT id FROM puzzles WHERE featured = 0 ORDER BY RANDOM() LIMIT 1").Scan(&id)
	if err == sql.ErrNoRows {
		// Zero or one puzzle in the catalog; nothing to rotate to.
		err = s.db.QueryRow("SELECT id FROM puzzles LIMIT 1").Scan(&id)
	}
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Puzzle{}, fmt.Errorf("%w: catalog is empty", ErrNotFound)
		}
		return models.Puzzle{}, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return models.Puzzle{}, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("UPDATE puzzles SET featured = 0 WHERE featured = 1"); err != nil {
		return models.Puzzle{}, err
	}
	if _, err := tx.Exec("UPDATE puzzles SET featured = 1 WHERE id = ?", id); err != nil {
		return models.Puzzle{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.Puzzle{}, err
	}

	return s.GetPuzzleByID(id)
}

// answersMatch decides correctness for a submission. Numeric comparison wins
// when both sides parse as floats ("7" matches "7.0"); otherwise it falls
// back to trimmed, case-folded string equality.
func answersMatch(canonical, submitted string) bool {
	canonicalNum, cErr := strconv.ParseFloat(strings.TrimSpace(canonical), 64)
	submittedNum, sErr := strconv.ParseFloat(strings.TrimSpace(submitted), 64)
	if cErr == nil && sErr == nil {
		return canonicalNum == submittedNum
	}
	return normalizeAnswer(canonical) == normalizeAnswer(submitted)
}

func normalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// difficultyColumn maps a puzzle difficulty to the user counter column it
// increments. The difficulty is case-folded before matching.
func difficultyColumn(difficulty string) (string, error) {
	switch strings.ToLower(difficulty) {
	case "easy":
		return "solved_easy", nil
	case "medium":
		return "solved_medium", nil
	case "hard":
		return "solved_hard", nil
	default:
		return "", fmt.Errorf("unknown difficulty %q", difficulty)
	}
}
