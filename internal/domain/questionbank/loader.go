package questionbank

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/raido/mockexam/internal/worker"
)

// LoadFile reads one bank export: a JSON array of row objects. Cell
// values may be strings, numbers, or null depending on how the
// spreadsheet was exported; everything coerces to a string before
// normalization.
func LoadFile(path string) ([]Row, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bank file: %w", err)
	}

	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse bank file %s: %w", path, err)
	}

	rows := make([]Row, 0, len(raw))
	for _, cells := range raw {
		row := make(Row, len(cells))
		for label, value := range cells {
			row[label] = coerceCell(value)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func coerceCell(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

type loadResult struct {
	rows []Row
	err  error
}

// LoadFiles parses several bank exports concurrently and merges their
// rows in the given path order, so grouping state never leaks across
// files out of order.
func LoadFiles(paths []string, workers int) ([]Row, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	if workers < 1 {
		workers = 1
	}
	if workers > len(paths) {
		workers = len(paths)
	}

	pool := worker.NewPool[loadResult](workers, len(paths))
	for i, path := range paths {
		path := path // per-iteration copy: required under go <1.22 loop semantics
		pool.Submit(strconv.Itoa(i), func() loadResult {
			rows, err := LoadFile(path)
			return loadResult{rows: rows, err: err}
		})
	}
	pool.Close()

	byIndex := make([][]Row, len(paths))
	for result := range pool.Results() {
		if result.Output.err != nil {
			return nil, result.Output.err
		}
		i, err := strconv.Atoi(result.JobID)
		if err != nil {
			return nil, fmt.Errorf("load pool returned unknown job %q", result.JobID)
		}
		byIndex[i] = result.Output.rows
	}

	var merged []Row
	for _, rows := range byIndex {
		merged = append(merged, rows...)
	}
	return merged, nil
}
