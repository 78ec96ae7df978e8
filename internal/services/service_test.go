package services

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/witslabs/wits-be/internal/database"
	"github.com/witslabs/wits-be/internal/models"
	ws "github.com/witslabs/wits-be/internal/websocket"
)

// newTestDB opens a fresh in-memory database with the full schema applied.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.New(":memory:")
	require.NoError(t, err)
	// A second connection would see a different empty in-memory database.
	db.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() { db.Close() })
	return db
}

var errSMTPDown = errors.New("smtp relay unavailable")

// captureMailer records reset tokens instead of sending mail.
type captureMailer struct {
	to     []string
	tokens []string
	err    error
}

func (m *captureMailer) SendPasswordReset(to, token string) error {
	m.to = append(m.to, to)
	m.tokens = append(m.tokens, token)
	return m.err
}

type testEnv struct {
	db      *sql.DB
	users   *UserService
	puzzles *PuzzleService
	events  *EventService
	mail    *captureMailer
}

func newTestEnv(t *testing.T, adminEmail string) *testEnv {
	t.Helper()

	db := newTestDB(t)
	hub := ws.NewHub()
	go hub.Run()

	mail := &captureMailer{}
	users := NewUserService(db, mail, adminEmail)
	events := NewEventService(db)
	puzzles := NewPuzzleService(db, users, events, hub)

	return &testEnv{db: db, users: users, puzzles: puzzles, events: events, mail: mail}
}

func (e *testEnv) createPuzzle(t *testing.T, p models.Puzzle) models.Puzzle {
	t.Helper()

	if p.Title == "" {
		p.Title = "Test Puzzle"
	}
	if p.Category == "" {
		p.Category = models.CategoryLogic
	}
	if p.Difficulty == "" {
		p.Difficulty = models.DifficultyEasy
	}
	if p.Question == "" {
		p.Question = "What has keys but no locks?"
	}
	if p.Answer == "" {
		p.Answer = "Keyboard"
	}
	if p.TimeLimit == 0 {
		p.TimeLimit = 5
	}

	created, err := e.puzzles.CreatePuzzle(p)
	require.NoError(t, err)
	return created
}

func (e *testEnv) registerUser(t *testing.T, email string) models.User {
	t.Helper()

	user, err := e.users.Register(email, "hunter2!")
	require.NoError(t, err)
	return user
}
