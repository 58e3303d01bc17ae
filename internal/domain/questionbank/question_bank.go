package questionbank

import "sort"

// QuestionBank is the immutable in-memory collection of normalized
// questions plus the derived sorted set of distinct levels. Built once at
// load time; read-only thereafter.
type QuestionBank struct {
	Questions []Question
	Levels    []Level
}

// New builds a bank from already-normalized questions.
func New(questions []Question) *QuestionBank {
	qs := make([]Question, len(questions))
	copy(qs, questions)
	return &QuestionBank{
		Questions: qs,
		Levels:    distinctLevels(qs),
	}
}

// NewFromRows normalizes raw export rows and builds a bank from the
// surviving questions.
func NewFromRows(rows []Row) *QuestionBank {
	return New(NormalizeRows(rows))
}

// PoolForLevel returns the questions tagged with the given level, in bank
// order.
func (qb *QuestionBank) PoolForLevel(level Level) []Question {
	var pool []Question
	for _, q := range qb.Questions {
		if q.Level == level {
			pool = append(pool, q)
		}
	}
	return pool
}

// distinctLevels collects the distinct level tags, sorted numerically
// when every tag is numeric and lexicographically otherwise.
func distinctLevels(questions []Question) []Level {
	seen := make(map[Level]struct{})
	var levels []Level
	for _, q := range questions {
		if _, ok := seen[q.Level]; ok {
			continue
		}
		seen[q.Level] = struct{}{}
		levels = append(levels, q.Level)
	}

	allNumeric := true
	for _, l := range levels {
		if _, ok := l.Numeric(); !ok {
			allNumeric = false
			break
		}
	}

	sort.Slice(levels, func(i, j int) bool {
		if allNumeric {
			a, _ := levels[i].Numeric()
			b, _ := levels[j].Numeric()
			return a < b
		}
		return levels[i] < levels[j]
	})
	return levels
}
