package examsession

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/raido/mockexam/internal/domain/questionbank"
	"github.com/raido/mockexam/internal/store"
)

// Status is the exam lifecycle state.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

var ErrNoQuestionsForLevel = errors.New("no questions available for the requested level")

// Response records the answer (if any) for one sampled question.
type Response struct {
	QuestionID string
	Selected   int
	Answered   bool
}

// Detail is the per-question scoring breakdown inside Results.
type Detail struct {
	ID           string
	Prompt       string
	Level        questionbank.Level
	Selected     int
	Answered     bool
	SelectedText string
	CorrectIndex int
	CorrectText  string
	IsCorrect    bool
}

// Results is the immutable outcome of a submitted exam. Saved reports
// whether the attempt record reached durable storage; scoring stands
// either way.
type Results struct {
	Level      questionbank.Level
	Total      int
	Correct    int
	Incorrect  int
	Required   int
	Passed     bool
	Details    []Detail
	StartedAt  time.Time
	FinishedAt time.Time
	Saved      bool
}

// Session is a timed, graded exam over a fixed question sample. It is an
// explicit state object owned by whoever starts it; callers must
// serialize access, there is no internal locking.
type Session struct {
	bank     *questionbank.QuestionBank
	attempts store.AttemptStore
	rng      *rand.Rand
	logger   *slog.Logger

	status       Status
	level        questionbank.Level
	config       Config
	questions    []questionbank.Question
	responses    []Response
	currentIndex int
	startedAt    time.Time
	finishedAt   time.Time
	results      *Results
}

// NewSession creates an idle exam session over the given bank. attempts
// may be nil, in which case submitted exams are scored but never
// persisted. rng may be nil for a time-seeded source.
func NewSession(bank *questionbank.QuestionBank, attempts store.AttemptStore, rng *rand.Rand, logger *slog.Logger) *Session {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		bank:     bank,
		attempts: attempts,
		rng:      rng,
		logger:   logger,
		status:   StatusIdle,
	}
}

func (s *Session) Status() Status { return s.status }

func (s *Session) Level() questionbank.Level { return s.level }

func (s *Session) Config() Config { return s.config }

func (s *Session) Questions() []questionbank.Question { return s.questions }

func (s *Session) CurrentIndex() int { return s.currentIndex }

func (s *Session) TotalQuestions() int { return len(s.questions) }

func (s *Session) Results() *Results { return s.results }

// CurrentQuestion returns the question at the cursor, or nil.
func (s *Session) CurrentQuestion() *questionbank.Question {
	if s.currentIndex < 0 || s.currentIndex >= len(s.questions) {
		return nil
	}
	return &s.questions[s.currentIndex]
}

// CurrentResponse returns the response at the cursor, or nil.
func (s *Session) CurrentResponse() *Response {
	if s.currentIndex < 0 || s.currentIndex >= len(s.responses) {
		return nil
	}
	return &s.responses[s.currentIndex]
}

// AnsweredCount reports how many questions have a recorded selection.
func (s *Session) AnsweredCount() int {
	count := 0
	for _, r := range s.responses {
		if r.Answered {
			count++
		}
	}
	return count
}

// Reset returns the session to idle, discarding all exam state.
func (s *Session) Reset() {
	s.status = StatusIdle
	s.level = ""
	s.config = Config{}
	s.questions = nil
	s.responses = nil
	s.currentIndex = 0
	s.startedAt = time.Time{}
	s.finishedAt = time.Time{}
	s.results = nil
}

// Start samples the exam questions for a level and moves the session to
// in-progress. Fails when the bank holds no questions at that level.
func (s *Session) Start(level questionbank.Level) error {
	pool := s.bank.PoolForLevel(level)
	if len(pool) == 0 {
		return ErrNoQuestionsForLevel
	}

	cfg := ResolveRule(level, len(pool))
	questions := sample(pool, cfg.Total, s.rng)

	responses := make([]Response, len(questions))
	for i, q := range questions {
		responses[i] = Response{QuestionID: q.ID}
	}

	s.level = level
	s.config = cfg
	s.questions = questions
	s.responses = responses
	s.currentIndex = 0
	s.startedAt = time.Now()
	s.finishedAt = time.Time{}
	s.results = nil
	s.status = StatusInProgress
	return nil
}

// sample takes n questions without replacement via a Fisher–Yates
// shuffle over a copy of the pool.
func sample(pool []questionbank.Question, n int, rng *rand.Rand) []questionbank.Question {
	shuffled := make([]questionbank.Question, len(pool))
	copy(shuffled, pool)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled[:n]
}

// GoTo moves the cursor; out-of-range requests are no-ops.
func (s *Session) GoTo(index int) {
	if index < 0 || index >= len(s.questions) {
		return
	}
	s.currentIndex = index
}

func (s *Session) GoNext() { s.GoTo(s.currentIndex + 1) }

func (s *Session) GoPrevious() { s.GoTo(s.currentIndex - 1) }

// SelectAnswer replaces the response at the cursor. Ignored unless the
// exam is in progress with a question under the cursor.
func (s *Session) SelectAnswer(choiceIndex int) {
	if s.status != StatusInProgress {
		return
	}
	question := s.CurrentQuestion()
	if question == nil {
		return
	}
	s.responses[s.currentIndex] = Response{
		QuestionID: question.ID,
		Selected:   choiceIndex,
		Answered:   true,
	}
}

// Submit scores the exam, publishes immutable Results, moves the session
// to completed, and then persists the attempt. A persistence failure is
// logged and reflected as Results.Saved == false; it never reverts the
// completed state. Calling Submit on a non-active session returns the
// previously published results, if any.
func (s *Session) Submit(ctx context.Context) *Results {
	if s.status != StatusInProgress {
		return s.results
	}

	total := len(s.questions)
	correct := 0
	details := make([]Detail, total)
	for i, question := range s.questions {
		response := s.responses[i]
		detail := Detail{
			ID:           question.ID,
			Prompt:       question.Prompt,
			Level:        question.Level,
			Selected:     response.Selected,
			Answered:     response.Answered,
			CorrectIndex: question.AnswerIndex,
		}
		if response.Answered {
			if choice, ok := question.ChoiceAt(response.Selected); ok {
				detail.SelectedText = choice.Text
			}
		}
		if choice, ok := question.CorrectChoice(); ok {
			detail.CorrectText = choice.Text
		}
		if response.Answered && response.Selected == question.AnswerIndex {
			detail.IsCorrect = true
			correct++
		}
		details[i] = detail
	}

	s.finishedAt = time.Now()
	s.results = &Results{
		Level:      s.level,
		Total:      total,
		Correct:    correct,
		Incorrect:  total - correct,
		Required:   s.config.Required,
		Passed:     correct >= s.config.Required,
		Details:    details,
		StartedAt:  s.startedAt,
		FinishedAt: s.finishedAt,
	}
	s.status = StatusCompleted

	s.persistAttempt(ctx)
	return s.results
}

func (s *Session) persistAttempt(ctx context.Context) {
	if s.attempts == nil {
		return
	}

	attempt := store.ExamAttempt{
		ID:         uuid.NewString(),
		Level:      string(s.results.Level),
		Total:      s.results.Total,
		Correct:    s.results.Correct,
		Incorrect:  s.results.Incorrect,
		Required:   s.results.Required,
		Passed:     s.results.Passed,
		StartedAt:  s.results.StartedAt,
		FinishedAt: s.results.FinishedAt,
	}
	for _, detail := range s.results.Details {
		attempt.Questions = append(attempt.Questions, store.AttemptQuestion{
			ID:           detail.ID,
			Prompt:       detail.Prompt,
			Selected:     detail.Selected,
			Answered:     detail.Answered,
			SelectedText: detail.SelectedText,
			CorrectIndex: detail.CorrectIndex,
			CorrectText:  detail.CorrectText,
			IsCorrect:    detail.IsCorrect,
		})
	}

	if err := s.attempts.SaveAttempt(ctx, attempt); err != nil {
		s.logger.Warn("exam attempt not saved", "attempt", attempt.ID, "error", err)
		return
	}
	s.results.Saved = true
}
