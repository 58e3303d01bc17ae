package quizsession

import (
	"math"
	"math/rand"
	"time"

	"github.com/raido/mockexam/internal/domain/questionbank"
)

// entry is one snapshot in the session history. Snapshots are replaced
// wholesale when the state at the cursor changes; they are never mutated
// through shared references.
type entry struct {
	question          questionbank.Question
	wrongChoices      []int
	isCorrect         bool
	revealExplanation bool
}

// Progress summarizes how much of the current level's pool has been
// answered correctly this session.
type Progress struct {
	Asked      int
	Total      int
	Completion int
}

// Session is a continuous practice loop over one level's pool: draw a
// question, retry wrong choices, and walk back and forward through the
// session history. Not safe for concurrent callers.
type Session struct {
	bank *questionbank.QuestionBank
	rng  *rand.Rand

	level        questionbank.Level
	askedIDs     map[string]struct{}
	history      []entry
	historyIndex int
}

// NewSession creates a practice session starting at the bank's first
// level (if any). No question is drawn until Initialize or
// PickNextQuestion. rng may be nil for a time-seeded source.
func NewSession(bank *questionbank.QuestionBank, rng *rand.Rand) *Session {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	s := &Session{
		bank: bank,
		rng:  rng,
	}
	if len(bank.Levels) > 0 {
		s.level = bank.Levels[0]
	}
	s.resetSession()
	return s
}

func (s *Session) Level() questionbank.Level { return s.level }

// Pool returns the question pool for the active level; with no level set
// the whole bank is in play.
func (s *Session) Pool() []questionbank.Question {
	if s.level == "" {
		return s.bank.Questions
	}
	return s.bank.PoolForLevel(s.level)
}

// SetLevel switches the active level, clears all session state, and
// draws a first question from the new pool.
func (s *Session) SetLevel(level questionbank.Level) {
	s.level = level
	s.resetSession()
	s.PickNextQuestion()
}

func (s *Session) resetSession() {
	s.askedIDs = make(map[string]struct{})
	s.history = nil
	s.historyIndex = -1
}

// Initialize draws a first question when none is active and the pool has
// questions. Safe to call repeatedly.
func (s *Session) Initialize() {
	if s.current() == nil && len(s.Pool()) > 0 {
		s.PickNextQuestion()
	}
}

// current returns the snapshot at the cursor, or nil.
func (s *Session) current() *entry {
	if s.historyIndex < 0 || s.historyIndex >= len(s.history) {
		return nil
	}
	return &s.history[s.historyIndex]
}

// CurrentQuestion returns the question at the history cursor, or nil.
func (s *Session) CurrentQuestion() *questionbank.Question {
	cur := s.current()
	if cur == nil {
		return nil
	}
	q := cur.question
	return &q
}

// WrongChoices lists the wrong choice indices tried for the current
// question, in the order they were tried.
func (s *Session) WrongChoices() []int {
	cur := s.current()
	if cur == nil {
		return nil
	}
	out := make([]int, len(cur.wrongChoices))
	copy(out, cur.wrongChoices)
	return out
}

// IsCorrect reports whether the current question has been answered
// correctly.
func (s *Session) IsCorrect() bool {
	cur := s.current()
	return cur != nil && cur.isCorrect
}

// RevealExplanation reports whether the current question's explanation
// should be shown.
func (s *Session) RevealExplanation() bool {
	cur := s.current()
	return cur != nil && cur.revealExplanation
}

// PickNextQuestion advances the practice loop. When the cursor sits
// behind the head of history it replays the recorded entry instead of
// drawing. A fresh draw prefers questions not yet answered correctly;
// once the whole pool has been answered, the asked-set clears and the
// cycle restarts over the full pool.
func (s *Session) PickNextQuestion() {
	if s.historyIndex >= 0 && s.historyIndex < len(s.history)-1 {
		s.historyIndex++
		return
	}

	pool := s.Pool()
	if len(pool) == 0 {
		return
	}

	var unasked []questionbank.Question
	for _, q := range pool {
		if _, done := s.askedIDs[q.ID]; !done {
			unasked = append(unasked, q)
		}
	}

	source := unasked
	if len(source) == 0 {
		s.askedIDs = make(map[string]struct{})
		source = pool
	}

	next := source[s.rng.Intn(len(source))]
	s.history = append(s.history, entry{question: next})
	s.historyIndex = len(s.history) - 1
}

// SubmitAnswer grades a choice against the current question. A correct
// answer reveals the explanation and adds the question to the asked-set.
// A wrong choice is recorded once; retrying an already-tried wrong
// choice changes nothing. Returns whether the choice was correct; with
// no active question it returns false without effect.
func (s *Session) SubmitAnswer(choiceIndex int) bool {
	cur := s.current()
	if cur == nil {
		return false
	}

	if choiceIndex == cur.question.AnswerIndex {
		updated := *cur
		updated.isCorrect = true
		updated.revealExplanation = true
		s.history[s.historyIndex] = updated
		s.askedIDs[cur.question.ID] = struct{}{}
		return true
	}

	for _, tried := range cur.wrongChoices {
		if tried == choiceIndex {
			return false
		}
	}
	updated := *cur
	updated.wrongChoices = append(append([]int(nil), cur.wrongChoices...), choiceIndex)
	s.history[s.historyIndex] = updated
	return false
}

// GoToPreviousQuestion steps the cursor back one entry, restoring that
// snapshot verbatim. No-op at the start of history.
func (s *Session) GoToPreviousQuestion() {
	if s.historyIndex <= 0 {
		return
	}
	s.historyIndex--
}

// Progress reports the asked-set size against the pool size.
func (s *Session) Progress() Progress {
	poolSize := len(s.Pool())
	asked := len(s.askedIDs)
	completion := 0
	if poolSize > 0 {
		completion = int(math.Round(float64(asked) / float64(poolSize) * 100))
	}
	return Progress{
		Asked:      asked,
		Total:      poolSize,
		Completion: completion,
	}
}
