package services

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/witslabs/wits-be/internal/mailer"
	"github.com/witslabs/wits-be/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is enforced at registration and password reset.
const MinPasswordLength = 6

const resetTokenTTL = time.Hour

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Register(email, password string) (models.User, error)
	Authenticate(email, password string) (models.User, error)
	GetUserByID(id string) (models.User, error)
	DeductXP(id string, amount int) (models.User, error)
	RequestPasswordReset(email string) error
	ResetPassword(token, newPassword string) error
}

// UserService provides business logic for accounts, XP and password recovery.
type UserService struct {
	db         *sql.DB
	mailer     mailer.Mailer
	adminEmail string // case-folded; empty means no admin account
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB, m mailer.Mailer, adminEmail string) *UserService {
	return &UserService{db: db, mailer: m, adminEmail: strings.ToLower(adminEmail)}
}

// Register creates a new account with a bcrypt-hashed password. The account
// becomes an admin iff the case-folded email matches the configured
// administrator address.
func (s *UserService) Register(email, password string) (models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return models.User{}, fmt.Errorf("%w: please include a valid email", ErrValidation)
	}
	if len(password) < MinPasswordLength {
		return models.User{}, fmt.Errorf("%w: password must be at least %d characters", ErrValidation, MinPasswordLength)
	}

	var exists int
	err := s.db.QueryRow("SELECT COUNT(1) FROM users WHERE email = ?", email).Scan(&exists)
	if err != nil {
		return models.User{}, err
	}
	if exists > 0 {
		return models.User{}, fmt.Errorf("%w: user already exists", ErrConflict)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:      uuid.New().String(),
		Email:   email,
		IsAdmin: s.adminEmail != "" && email == s.adminEmail,
	}

	stmt, err := s.db.Prepare("INSERT INTO users(id, email, password_hash, is_admin) VALUES(?, ?, ?, ?)")
	if err != nil {
		return models.User{}, err
	}
	defer stmt.Close()

	if _, err = stmt.Exec(user.ID, user.Email, string(hashedPassword), user.IsAdmin); err != nil {
		return models.User{}, err
	}

	return s.GetUserByID(user.ID)
}

// Authenticate verifies a user's credentials. Both an unknown email and a
// wrong password come back as ErrUnauthorized.
func (s *UserService) Authenticate(email, password string) (models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var id, passwordHash string
	row := s.db.QueryRow("SELECT id, password_hash FROM users WHERE email = ?", email)
	if err := row.Scan(&id, &passwordHash); err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, ErrUnauthorized
		}
		return models.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)); err != nil {
		return models.User{}, ErrUnauthorized
	}

	return s.GetUserByID(id)
}

// GetUserByID retrieves a single user by their ID, including the credited
// set. The password hash is never populated.
func (s *UserService) GetUserByID(id string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow(`SELECT id, email, is_admin, xp, puzzles_solved,
		solved_easy, solved_medium, solved_hard, created_at
		FROM users WHERE id = ?`, id)
	err := row.Scan(&user.ID, &user.Email, &user.IsAdmin, &user.XP, &user.PuzzlesSolved,
		&user.Breakdown.Easy, &user.Breakdown.Medium, &user.Breakdown.Hard, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, fmt.Errorf("%w: user %s", ErrNotFound, id)
		}
		return models.User{}, err
	}

	solved, err := s.recentlySolved(id)
	if err != nil {
		return models.User{}, err
	}
	user.RecentlySolved = solved
	return user, nil
}

// recentlySolved loads the credited set for a user, most recent first.
func (s *UserService) recentlySolved(userID string) ([]string, error) {
	rows, err := s.db.Query("SELECT puzzle_id FROM solved_puzzles WHERE user_id = ? ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	solved := []string{}
	for rows.Next() {
		var puzzleID string
		if err := rows.Scan(&puzzleID); err != nil {
			return nil, err
		}
		solved = append(solved, puzzleID)
	}
	return solved, rows.Err()
}

// DeductXP spends XP on a hint or solution reveal. The resulting balance is
// clamped at zero, never negative.
func (s *UserService) DeductXP(id string, amount int) (models.User, error) {
	if amount < 0 {
		return models.User{}, fmt.Errorf("%w: amount must not be negative", ErrValidation)
	}

	res, err := s.db.Exec("UPDATE users SET xp = MAX(0, xp - ?) WHERE id = ?", amount, id)
	if err != nil {
		return models.User{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.User{}, err
	}
	if affected == 0 {
		return models.User{}, fmt.Errorf("%w: user %s", ErrNotFound, id)
	}

	return s.GetUserByID(id)
}

// RequestPasswordReset stores a fresh single-active reset token with a one
// hour expiry and emails it to the account. It succeeds silently when the
// email is unknown, and when mail dispatch fails, so the response never
// reveals whether an account exists.
func (s *UserService) RequestPasswordReset(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	var id string
	row := s.db.QueryRow("SELECT id FROM users WHERE email = ?", email)
	if err := row.Scan(&id); err != nil {
		if err == sql.ErrNoRows {
			log.Info().Msg("Password reset requested for unknown email")
			return nil
		}
		return err
	}

	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}
	token := hex.EncodeToString(buf)
	expires := time.Now().Add(resetTokenTTL).Unix()

	_, err := s.db.Exec("UPDATE users SET reset_password_token = ?, reset_password_expires = ? WHERE id = ?",
		token, expires, id)
	if err != nil {
		return err
	}

	if err := s.mailer.SendPasswordReset(email, token); err != nil {
		log.Error().Err(err).Str("user_id", id).Msg("Failed to send password reset email")
	}
	return nil
}

// ResetPassword consumes a reset token. The new hash is written and both
// token fields are cleared in one conditional UPDATE, so a token is
// single-use and expiry is checked at the moment of use.
func (s *UserService) ResetPassword(token, newPassword string) error {
	if len(newPassword) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrValidation, MinPasswordLength)
	}
	if token == "" {
		return ErrInvalidResetToken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	res, err := s.db.Exec(`UPDATE users
		SET password_hash = ?, reset_password_token = NULL, reset_password_expires = NULL
		WHERE reset_password_token = ? AND reset_password_expires > ?`,
		string(hashedPassword), token, time.Now().Unix())
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrInvalidResetToken
	}
	return nil
}
