package store_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/raido/mockexam/internal/store"
)

func newTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	s, err := store.NewSQLite(filepath.Join(t.TempDir(), "attempts.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func makeAttempt(id string, finishedAt time.Time) store.ExamAttempt {
	return store.ExamAttempt{
		ID:         id,
		Level:      "1",
		Total:      50,
		Correct:    41,
		Incorrect:  9,
		Required:   40,
		Passed:     true,
		StartedAt:  finishedAt.Add(-30 * time.Minute),
		FinishedAt: finishedAt,
		Questions: []store.AttemptQuestion{
			{
				ID:           "q-1",
				Prompt:       "What?",
				Selected:     2,
				Answered:     true,
				SelectedText: "this",
				CorrectIndex: 2,
				CorrectText:  "this",
				IsCorrect:    true,
			},
		},
	}
}

func TestSaveAttempt_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	want := makeAttempt("a-1", time.Now().Truncate(time.Millisecond))
	if err := s.SaveAttempt(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.GetAttempt(ctx, "a-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Level != want.Level || got.Correct != want.Correct || !got.Passed {
		t.Errorf("unexpected attempt %+v", got)
	}
	if !got.FinishedAt.Equal(want.FinishedAt) {
		t.Errorf("expected finishedAt %v, got %v", want.FinishedAt, got.FinishedAt)
	}
	if len(got.Questions) != 1 || got.Questions[0].SelectedText != "this" {
		t.Errorf("unexpected question detail %+v", got.Questions)
	}
}

func TestSaveAttempt_IdempotentUpsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := makeAttempt("a-1", time.Now())
	if err := s.SaveAttempt(ctx, first); err != nil {
		t.Fatalf("save: %v", err)
	}

	second := first
	second.Correct = 30
	second.Passed = false
	if err := s.SaveAttempt(ctx, second); err != nil {
		t.Fatalf("re-save: %v", err)
	}

	attempts, err := s.ListAttempts(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(attempts) != 1 {
		t.Fatalf("expected exactly 1 record after re-save, got %d", len(attempts))
	}
	if attempts[0].Correct != 30 || attempts[0].Passed {
		t.Errorf("expected latest content, got %+v", attempts[0])
	}
}

func TestListAttempts_MostRecentFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Now()
	for _, attempt := range []store.ExamAttempt{
		makeAttempt("old", base.Add(-2*time.Hour)),
		makeAttempt("new", base),
		makeAttempt("mid", base.Add(-1*time.Hour)),
	} {
		if err := s.SaveAttempt(ctx, attempt); err != nil {
			t.Fatalf("save %s: %v", attempt.ID, err)
		}
	}

	attempts, err := s.ListAttempts(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"new", "mid", "old"}
	if len(attempts) != len(want) {
		t.Fatalf("expected %d attempts, got %d", len(want), len(attempts))
	}
	for i, id := range want {
		if attempts[i].ID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, attempts[i].ID)
		}
	}
}

func TestGetAttempt_NotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetAttempt(context.Background(), "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
