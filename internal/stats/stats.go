// Package stats aggregates per-document classifications into corpus-wide
// statistics.
package stats

import (
	"errors"

	"docarch/internal/types"
)

// ErrNoData is returned when there is nothing to aggregate.
var ErrNoData = errors.New("stats: no classified documents to aggregate")

// Aggregate counts documents and sums confidence per pattern in one pass.
// Patterns keep the order in which they were first seen, and the
// predominant pattern is the most frequent one, earliest seen on ties.
func Aggregate(results []types.DocumentResult) (types.CorpusStatistics, error) {
	if len(results) == 0 {
		return types.CorpusStatistics{}, ErrNoData
	}

	var (
		order = make([]string, 0, 11)
		count = map[string]int{}
		sum   = map[string]float64{}
	)
	for _, r := range results {
		if _, seen := count[r.Pattern]; !seen {
			order = append(order, r.Pattern)
		}
		count[r.Pattern]++
		sum[r.Pattern] += r.Confidence
	}

	out := types.CorpusStatistics{Total: len(results), Patterns: make([]types.PatternStat, 0, len(order))}
	for i, name := range order {
		ps := types.PatternStat{Name: name, Count: count[name], MeanConfidence: sum[name] / float64(count[name])}
		out.Patterns = append(out.Patterns, ps)
		// strict > keeps the first-seen pattern on ties
		if i == 0 || ps.Count > out.Predominant.Count {
			out.Predominant = ps
		}
	}
	return out, nil
}

// FromRecords aggregates persisted records.
func FromRecords(records []types.Record) (types.CorpusStatistics, error) {
	results := make([]types.DocumentResult, len(records))
	for i, r := range records {
		results[i] = r.Result()
	}
	return Aggregate(results)
}
