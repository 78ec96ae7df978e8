package database

import (
	"database/sql"

	_ "modernc.org/sqlite" // SQLite driver
)

// New creates a new database connection pool.
func New(dataSourceName string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dataSourceName+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate runs the SQL statements to set up the database schema.
func Migrate(db *sql.DB) error {
	const sqlStmt = `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT NOT NULL PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		is_admin INTEGER NOT NULL DEFAULT 0,
		xp INTEGER NOT NULL DEFAULT 0,
		puzzles_solved INTEGER NOT NULL DEFAULT 0,
		solved_easy INTEGER NOT NULL DEFAULT 0,
		solved_medium INTEGER NOT NULL DEFAULT 0,
		solved_hard INTEGER NOT NULL DEFAULT 0,
		reset_password_token TEXT,
		reset_password_expires INTEGER, -- unix seconds
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS puzzles (
		id TEXT NOT NULL PRIMARY KEY,
		title TEXT NOT NULL,
		category TEXT NOT NULL, -- Math, Logic, Visual
		difficulty TEXT NOT NULL, -- Easy, Medium, Hard
		question TEXT NOT NULL,
		answer TEXT NOT NULL,
		-- Store the hint list as JSON text
		hints_json TEXT,
		time_limit INTEGER NOT NULL,
		solved_count INTEGER NOT NULL DEFAULT 0,
		xp_reward INTEGER NOT NULL DEFAULT 100,
		featured INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- The credited set: one row per (user, puzzle) that has been rewarded.
	-- The composite primary key lets crediting be a single conditional INSERT.
	CREATE TABLE IF NOT EXISTS solved_puzzles (
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		puzzle_id TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (user_id, puzzle_id)
	);

	CREATE TABLE IF NOT EXISTS events (
		id TEXT NOT NULL PRIMARY KEY,
		type TEXT NOT NULL,
		level TEXT NOT NULL,
		message TEXT NOT NULL,
		user_id TEXT,
		puzzle_id TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := db.Exec(sqlStmt)
	return err
}
