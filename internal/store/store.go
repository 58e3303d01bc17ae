package store

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("not found")
)

// AttemptQuestion is the per-question detail frozen into an attempt.
type AttemptQuestion struct {
	ID           string `json:"id"`
	Prompt       string `json:"prompt"`
	Selected     int    `json:"selected_index"`
	Answered     bool   `json:"answered"`
	SelectedText string `json:"selected_text,omitempty"`
	CorrectIndex int    `json:"correct_index"`
	CorrectText  string `json:"correct_text,omitempty"`
	IsCorrect    bool   `json:"is_correct"`
}

// ExamAttempt is the write-once record of one completed exam, keyed by ID.
// Re-saving the same ID overwrites in place.
type ExamAttempt struct {
	ID         string
	Level      string
	Total      int
	Correct    int
	Incorrect  int
	Required   int
	Passed     bool
	StartedAt  time.Time
	FinishedAt time.Time
	Questions  []AttemptQuestion
}

// AttemptStore persists completed exam attempts. Implementations are
// best-effort collaborators: callers treat save failures as "not saved",
// never as fatal.
type AttemptStore interface {
	SaveAttempt(ctx context.Context, attempt ExamAttempt) error
	ListAttempts(ctx context.Context) ([]ExamAttempt, error)
}
