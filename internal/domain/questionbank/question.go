package questionbank

import "strconv"

// Choice is one labeled answer option, identified by a small integer
// index unique within its question.
type Choice struct {
	Index int
	Text  string
}

// Question is a fully normalized question record. Instances are built by
// the row normalizer and never mutated afterwards.
type Question struct {
	ID          string
	Prompt      string
	Level       Level
	Category    string
	AnswerIndex int
	Choices     []Choice
	Explanation string
}

// CorrectChoice returns the choice matching AnswerIndex, if any.
func (q *Question) CorrectChoice() (Choice, bool) {
	return q.ChoiceAt(q.AnswerIndex)
}

// ChoiceAt returns the choice with the given declared index, if any.
func (q *Question) ChoiceAt(index int) (Choice, bool) {
	for _, c := range q.Choices {
		if c.Index == index {
			return c, true
		}
	}
	return Choice{}, false
}

// Level is a difficulty tag. Source data mixes numeric levels ("1", "2")
// with free-text ones, so the tag stays a string and callers that need
// ordering or rule lookup go through Numeric.
type Level string

// NormalizeLevel prefers a numeric reading of the raw level field,
// formatted canonically; non-numeric values keep their sanitized text.
func NormalizeLevel(raw string) Level {
	text := sanitizeText(raw)
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return Level(strconv.FormatFloat(f, 'f', -1, 64))
	}
	return Level(text)
}

// Numeric reports the level's numeric value when it has one.
func (l Level) Numeric() (float64, bool) {
	f, err := strconv.ParseFloat(string(l), 64)
	return f, err == nil
}
