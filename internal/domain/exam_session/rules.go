package examsession

import (
	"math"

	"github.com/raido/mockexam/internal/domain/questionbank"
)

// Rule fixes the question count and passing count for one exam level.
type Rule struct {
	Total int
	Pass  int
}

// Level rules mirror the official exam format. Levels without an entry
// fall back to min(30, pool) questions with a 70% passing bar.
var examRules = map[int]Rule{
	1: {Total: 50, Pass: 40},
	2: {Total: 40, Pass: 32},
	3: {Total: 35, Pass: 25},
}

// Config is the resolved exam shape for one level and pool.
type Config struct {
	Total     int
	Required  int
	Available int
}

// ResolveRule derives the exam configuration for a level, bounded by the
// available pool size. The rule table is keyed numerically, so textual
// levels always take the fallback path. Guarantees Required <= Total <=
// Available.
func ResolveRule(level questionbank.Level, poolSize int) Config {
	var rule *Rule
	if f, ok := level.Numeric(); ok && f == math.Trunc(f) {
		if r, found := examRules[int(f)]; found {
			rule = &r
		}
	}

	desired := min(poolSize, 30)
	if rule != nil {
		desired = rule.Total
	}
	total := min(desired, poolSize)

	pass := int(math.Ceil(float64(total) * 0.7))
	if rule != nil {
		pass = rule.Pass
	}

	return Config{
		Total:     total,
		Required:  min(pass, total),
		Available: poolSize,
	}
}
