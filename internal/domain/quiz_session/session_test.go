package quizsession_test

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/raido/mockexam/internal/domain/questionbank"
	quizsession "github.com/raido/mockexam/internal/domain/quiz_session"
)

func makeBank(level questionbank.Level, n int) *questionbank.QuestionBank {
	questions := make([]questionbank.Question, n)
	for i := 0; i < n; i++ {
		questions[i] = questionbank.Question{
			ID:          fmt.Sprintf("%s-q%03d", level, i),
			Prompt:      fmt.Sprintf("Question %d", i),
			Level:       level,
			AnswerIndex: 1,
			Choices: []questionbank.Choice{
				{Index: 1, Text: "right"},
				{Index: 2, Text: "wrong"},
				{Index: 3, Text: "also wrong"},
			},
			Explanation: "because",
		}
	}
	return questionbank.New(questions)
}

func newTestSession(bank *questionbank.QuestionBank) *quizsession.Session {
	return quizsession.NewSession(bank, rand.New(rand.NewSource(1)))
}

func TestNewSession_StartsAtFirstLevel(t *testing.T) {
	bank := questionbank.New(append(makeBank("2", 3).Questions, makeBank("1", 3).Questions...))
	session := newTestSession(bank)

	if session.Level() != "1" {
		t.Errorf("expected first sorted level 1, got %q", session.Level())
	}
	if session.CurrentQuestion() != nil {
		t.Error("expected no question before Initialize")
	}
}

func TestInitialize_DrawsFirstQuestionOnce(t *testing.T) {
	session := newTestSession(makeBank("1", 3))

	session.Initialize()
	first := session.CurrentQuestion()
	if first == nil {
		t.Fatal("expected a question after Initialize")
	}

	session.Initialize()
	if session.CurrentQuestion().ID != first.ID {
		t.Error("repeated Initialize drew a new question")
	}
}

func TestSubmitAnswer_NoActiveQuestion(t *testing.T) {
	session := newTestSession(makeBank("1", 3))
	if session.SubmitAnswer(1) {
		t.Error("expected false with no active question")
	}
}

func TestSubmitAnswer_CorrectMarksAndReveals(t *testing.T) {
	session := newTestSession(makeBank("1", 3))
	session.Initialize()

	if !session.SubmitAnswer(1) {
		t.Fatal("expected correct answer to return true")
	}
	if !session.IsCorrect() || !session.RevealExplanation() {
		t.Error("expected correct flag and explanation reveal")
	}
	if got := session.Progress().Asked; got != 1 {
		t.Errorf("expected asked-set size 1, got %d", got)
	}
}

func TestSubmitAnswer_WrongChoicesRecordedOnce(t *testing.T) {
	session := newTestSession(makeBank("1", 3))
	session.Initialize()

	if session.SubmitAnswer(2) {
		t.Fatal("expected wrong answer to return false")
	}
	session.SubmitAnswer(2)
	session.SubmitAnswer(3)

	wrong := session.WrongChoices()
	if len(wrong) != 2 || wrong[0] != 2 || wrong[1] != 3 {
		t.Errorf("expected wrong choices [2 3], got %v", wrong)
	}
	if session.IsCorrect() {
		t.Error("session should not be marked correct")
	}
}

func TestPickNextQuestion_PrefersUnasked(t *testing.T) {
	session := newTestSession(makeBank("1", 3))
	session.Initialize()

	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		q := session.CurrentQuestion()
		if q == nil {
			t.Fatal("expected a question")
		}
		if seen[q.ID] {
			t.Fatalf("question %s drawn twice before pool exhausted", q.ID)
		}
		seen[q.ID] = true
		if !session.SubmitAnswer(q.AnswerIndex) {
			t.Fatal("expected correct answer")
		}
		session.PickNextQuestion()
	}
}

func TestPickNextQuestion_CycleRestartsAfterPoolExhausted(t *testing.T) {
	session := newTestSession(makeBank("1", 3))
	session.Initialize()

	for i := 0; i < 3; i++ {
		session.SubmitAnswer(session.CurrentQuestion().AnswerIndex)
		if i < 2 {
			session.PickNextQuestion()
		}
	}
	if got := session.Progress().Asked; got != 3 {
		t.Fatalf("expected full pool asked, got %d", got)
	}

	// Fourth draw: asked-set resets and a repeat becomes possible.
	session.PickNextQuestion()
	if session.CurrentQuestion() == nil {
		t.Fatal("expected a question after cycle restart")
	}
	if got := session.Progress().Asked; got != 0 {
		t.Errorf("expected asked-set reset, got %d", got)
	}
}

func TestHistory_RoundTripPreservesWrongChoices(t *testing.T) {
	session := newTestSession(makeBank("1", 5))
	session.Initialize()

	first := session.CurrentQuestion().ID
	session.SubmitAnswer(2)
	session.SubmitAnswer(3)
	// Answer correctly so the next draw must pick a different question.
	session.SubmitAnswer(1)

	session.PickNextQuestion()
	second := session.CurrentQuestion().ID
	if second == first {
		t.Fatal("expected a different question on the second draw")
	}

	session.GoToPreviousQuestion()
	if session.CurrentQuestion().ID != first {
		t.Fatal("expected to return to the first question")
	}
	wrong := session.WrongChoices()
	if len(wrong) != 2 || wrong[0] != 2 || wrong[1] != 3 {
		t.Errorf("expected restored wrong choices [2 3], got %v", wrong)
	}
	if !session.IsCorrect() || !session.RevealExplanation() {
		t.Error("expected restored correctness and reveal flags")
	}

	// Forward re-advances through history instead of drawing.
	session.PickNextQuestion()
	if session.CurrentQuestion().ID != second {
		t.Errorf("expected forward to restore %s, got %s", second, session.CurrentQuestion().ID)
	}
}

func TestHistory_ForwardDoesNotGrowHistory(t *testing.T) {
	session := newTestSession(makeBank("1", 5))
	session.Initialize()
	session.PickNextQuestion()
	second := session.CurrentQuestion().ID

	session.GoToPreviousQuestion()
	session.PickNextQuestion()
	if session.CurrentQuestion().ID != second {
		t.Error("forward replay drew a fresh question")
	}

	// At the head again: the next pick is a fresh draw.
	session.PickNextQuestion()
	if session.CurrentQuestion() == nil {
		t.Error("expected a fresh draw at the head of history")
	}
}

func TestGoToPreviousQuestion_NoOpAtStart(t *testing.T) {
	session := newTestSession(makeBank("1", 3))
	session.Initialize()
	first := session.CurrentQuestion().ID

	session.GoToPreviousQuestion()
	if session.CurrentQuestion().ID != first {
		t.Error("GoToPreviousQuestion at history start changed the question")
	}
}

func TestSetLevel_ClearsSessionState(t *testing.T) {
	bank := questionbank.New(append(makeBank("1", 3).Questions, makeBank("2", 4).Questions...))
	session := newTestSession(bank)
	session.Initialize()
	session.SubmitAnswer(session.CurrentQuestion().AnswerIndex)

	session.SetLevel("2")
	if session.Level() != "2" {
		t.Fatalf("expected level 2, got %q", session.Level())
	}
	q := session.CurrentQuestion()
	if q == nil {
		t.Fatal("expected an immediate first draw")
	}
	if q.Level != "2" {
		t.Errorf("expected a level 2 question, got %s", q.Level)
	}
	progress := session.Progress()
	if progress.Asked != 0 || progress.Total != 4 {
		t.Errorf("expected fresh progress 0/4, got %d/%d", progress.Asked, progress.Total)
	}
}

func TestSetLevel_EmptyPool(t *testing.T) {
	session := newTestSession(makeBank("1", 3))
	session.SetLevel("9")
	if session.CurrentQuestion() != nil {
		t.Error("expected no question for an empty pool")
	}
	progress := session.Progress()
	if progress.Total != 0 || progress.Completion != 0 {
		t.Errorf("expected zero progress, got %+v", progress)
	}
}

func TestProgress_Completion(t *testing.T) {
	session := newTestSession(makeBank("1", 3))
	session.Initialize()
	session.SubmitAnswer(1)

	progress := session.Progress()
	if progress.Asked != 1 || progress.Total != 3 {
		t.Fatalf("expected 1/3, got %d/%d", progress.Asked, progress.Total)
	}
	if progress.Completion != 33 {
		t.Errorf("expected completion 33, got %d", progress.Completion)
	}
}
