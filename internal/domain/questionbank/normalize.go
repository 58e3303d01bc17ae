package questionbank

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/raido/mockexam/internal/id"
)

// Row is one raw record from a tabular bank export, keyed by column label.
// Labels vary between export variants, so each logical field is resolved
// through a fixed alias priority list.
type Row map[string]string

// Option markers look like "(2) text", with ASCII or full-width parens.
var optionPattern = regexp.MustCompile(`^\s*[(（](\d)[)）]\s*(.*)$`)

// The answer column sometimes wraps the digit in stray text.
var answerDigitPattern = regexp.MustCompile(`\d`)

// Alias priority lists per logical field, highest priority first. The CJK
// labels (some with a trailing newline baked into the header cell) come
// from the spreadsheet exports this bank originates from.
var (
	questionNumberAliases = []string{"題號", "题号", "question_number", "no"}
	answerAliases         = []string{"答案", "answer"}
	levelAliases          = []string{"等級\n", "等級", "level"}
	categoryAliases       = []string{"分類\n", "分類", "category"}
	promptAliases         = []string{"題目", "question", "prompt"}
	optionLabelAliases    = []string{"Column6", "option_label", "option"}
	groupKeyAliases       = []string{"索引3", "索引號1", "索引", "Column9", "group_key"}
)

// The source format pads some explanation cells with a lone "o".
const explanationSentinel = "o"

// firstField resolves a logical field: the first alias with a non-empty
// raw value wins.
func firstField(row Row, aliases []string) string {
	for _, alias := range aliases {
		if v := row[alias]; v != "" {
			return v
		}
	}
	return ""
}

// sanitizeText normalizes line endings to "\n", replaces non-breaking
// spaces, trims every line, and drops blank lines.
func sanitizeText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.ReplaceAll(s, " ", " ")

	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// pending accumulates one question group while its rows stream past.
type pending struct {
	id          string
	prompt      string
	level       Level
	category    string
	answerIndex int
	hasAnswer   bool
	choices     []Choice
	explanation []string
}

// NormalizeRows reconstructs question records from a flat row sequence in
// a single forward pass. A row carrying both a question number and an
// answer starts a new group; option-marker rows add choices; anything
// else while a group is open contributes explanation text. Groups that
// fail validation are dropped silently — malformed rows are expected
// noise in these exports.
func NormalizeRows(rows []Row) []Question {
	var questions []Question
	var current *pending

	for _, row := range rows {
		number := sanitizeText(firstField(row, questionNumberAliases))
		answer := sanitizeText(firstField(row, answerAliases))

		if number != "" && answer != "" {
			if q, ok := current.finalize(); ok {
				questions = append(questions, q)
			}
			current = newPending(row, answer)
			continue
		}

		if current == nil {
			continue
		}

		if choice, ok := parseChoice(row); ok {
			current.choices = append(current.choices, choice)
			continue
		}

		if line := sanitizeText(firstField(row, promptAliases)); line != "" && line != explanationSentinel {
			current.explanation = append(current.explanation, line)
		}
	}

	if q, ok := current.finalize(); ok {
		questions = append(questions, q)
	}
	return questions
}

func newPending(row Row, answer string) *pending {
	p := &pending{
		id:       deriveGroupKey(row),
		prompt:   sanitizeText(firstField(row, promptAliases)),
		level:    NormalizeLevel(firstField(row, levelAliases)),
		category: sanitizeText(firstField(row, categoryAliases)),
	}
	if digit := answerDigitPattern.FindString(answer); digit != "" {
		p.answerIndex, _ = strconv.Atoi(digit)
		p.hasAnswer = true
	}
	return p
}

// deriveGroupKey tries the aliased index columns in priority order, falls
// back to a question-number/category composite, and as a last resort
// synthesizes a random key. The random path only occurs on malformed
// input and does not guarantee uniqueness.
func deriveGroupKey(row Row) string {
	if key := sanitizeText(firstField(row, groupKeyAliases)); key != "" {
		return key
	}
	number := sanitizeText(firstField(row, questionNumberAliases))
	category := sanitizeText(firstField(row, categoryAliases))
	if number != "" || category != "" {
		return number + "-" + category
	}
	return id.FallbackKey("row")
}

// parseChoice detects an option row. The option-label column is preferred
// for the index; when the prompt column itself matches the marker pattern
// it supplies the option text, otherwise the raw prompt text is used.
func parseChoice(row Row) (Choice, bool) {
	prompt := sanitizeText(firstField(row, promptAliases))
	label := sanitizeText(firstField(row, optionLabelAliases))

	promptMatch := optionPattern.FindStringSubmatch(prompt)
	indexMatch := optionPattern.FindStringSubmatch(label)
	if indexMatch == nil {
		indexMatch = promptMatch
	}
	if indexMatch == nil {
		return Choice{}, false
	}

	index, err := strconv.Atoi(indexMatch[1])
	if err != nil {
		return Choice{}, false
	}

	text := prompt
	if promptMatch != nil {
		text = sanitizeText(promptMatch[2])
	}
	if text == "" {
		return Choice{}, false
	}

	return Choice{Index: index, Text: text}, true
}

// finalize validates and seals the accumulated group. Valid questions
// have a non-empty prompt, a parsed answer index, and at least one
// choice; choices come out sorted ascending by index.
func (p *pending) finalize() (Question, bool) {
	if p == nil || p.prompt == "" || !p.hasAnswer || len(p.choices) == 0 {
		return Question{}, false
	}

	choices := make([]Choice, len(p.choices))
	copy(choices, p.choices)
	sort.Slice(choices, func(i, j int) bool { return choices[i].Index < choices[j].Index })

	return Question{
		ID:          p.id,
		Prompt:      p.prompt,
		Level:       p.level,
		Category:    p.category,
		AnswerIndex: p.answerIndex,
		Choices:     choices,
		Explanation: strings.Join(p.explanation, "\n"),
	}, true
}
