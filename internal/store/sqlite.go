// internal/store/sqlite.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS exam_attempts (
    id TEXT PRIMARY KEY,
    level TEXT NOT NULL,
    total INTEGER NOT NULL,
    correct INTEGER NOT NULL,
    incorrect INTEGER NOT NULL,
    required INTEGER NOT NULL,
    passed INTEGER NOT NULL,
    started_at INTEGER NOT NULL,
    finished_at INTEGER NOT NULL,
    questions TEXT NOT NULL
);
`

// SQLiteStore keeps exam attempts in a local SQLite database. Timestamps
// are stored as Unix milliseconds; per-question detail is JSON-encoded
// into a TEXT column.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLite(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveAttempt writes an attempt, overwriting any existing record with the
// same ID.
func (s *SQLiteStore) SaveAttempt(ctx context.Context, attempt ExamAttempt) error {
	questions, err := json.Marshal(attempt.Questions)
	if err != nil {
		return fmt.Errorf("encode attempt questions: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO exam_attempts (id, level, total, correct, incorrect, required, passed, started_at, finished_at, questions)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			level = excluded.level,
			total = excluded.total,
			correct = excluded.correct,
			incorrect = excluded.incorrect,
			required = excluded.required,
			passed = excluded.passed,
			started_at = excluded.started_at,
			finished_at = excluded.finished_at,
			questions = excluded.questions`,
		attempt.ID, attempt.Level, attempt.Total, attempt.Correct, attempt.Incorrect,
		attempt.Required, attempt.Passed,
		attempt.StartedAt.UnixMilli(), attempt.FinishedAt.UnixMilli(), string(questions))
	return err
}

// GetAttempt fetches one attempt by ID.
func (s *SQLiteStore) GetAttempt(ctx context.Context, id string) (*ExamAttempt, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, level, total, correct, incorrect, required, passed, started_at, finished_at, questions
		FROM exam_attempts WHERE id = ?`, id)

	attempt, err := scanAttempt(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return attempt, nil
}

// ListAttempts returns every stored attempt, most recently finished first.
func (s *SQLiteStore) ListAttempts(ctx context.Context) ([]ExamAttempt, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, level, total, correct, incorrect, required, passed, started_at, finished_at, questions
		FROM exam_attempts ORDER BY finished_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []ExamAttempt
	for rows.Next() {
		attempt, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, *attempt)
	}
	return attempts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAttempt(row rowScanner) (*ExamAttempt, error) {
	var (
		attempt    ExamAttempt
		startedAt  int64
		finishedAt int64
		questions  string
	)
	err := row.Scan(&attempt.ID, &attempt.Level, &attempt.Total, &attempt.Correct,
		&attempt.Incorrect, &attempt.Required, &attempt.Passed,
		&startedAt, &finishedAt, &questions)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(questions), &attempt.Questions); err != nil {
		return nil, fmt.Errorf("decode attempt questions: %w", err)
	}
	attempt.StartedAt = time.UnixMilli(startedAt)
	attempt.FinishedAt = time.UnixMilli(finishedAt)
	return &attempt, nil
}
