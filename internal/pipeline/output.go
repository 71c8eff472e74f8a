package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"docarch/internal/config"
	"docarch/internal/logger"
	"docarch/internal/report"
	"docarch/internal/stats"
	"docarch/internal/types"
)

// processedLog appends every normalized document to a running text file so
// the cleaning step can be inspected after a run. Entries accumulate across
// runs.
type processedLog struct {
	mu sync.Mutex
	f  *os.File
}

func openProcessedLog(path string) (*processedLog, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open processed log: %w", err)
	}
	return &processedLog{f: f}, nil
}

func (l *processedLog) Append(path, text string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, err := fmt.Fprintf(l.f, "\n\n===== %s =====\n%s\n", path, text)
	return err
}

func (l *processedLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.f.Close()
}

func logOutcome(log logger.Logger, o Outcome, r types.DocumentResult) {
	for _, f := range o.ChunkFailures {
		log.Warn("chunk summary failed", "path", o.Path, "chunk", f.Index+1, "err", f.Err)
	}
	switch o.Status {
	case StatusClassified:
		log.Info("classified", "path", o.Path, "pattern", r.Pattern, "confidence", fmt.Sprintf("%.1f%%", r.Confidence*100))
	case StatusEmptyInput:
		log.Info("skipped, no relevant content", "path", o.Path)
	case StatusEmptySummary:
		log.Warn("no summary produced", "path", o.Path, "chunks", o.Chunks)
	case StatusReadFailed:
		log.Warn("read failed", "path", o.Path, "err", o.Err)
	case StatusClassifyFailed:
		log.Warn("classification failed", "path", o.Path, "err", o.Err)
	}
}

// finish writes results.json (always, possibly as an empty array), renders the
// report from it when there is data, and publishes both.
func finish(ctx context.Context, cfg *config.Config, deps Deps, log logger.Logger, run *RunResult) error {
	records := make([]types.Record, len(run.Results))
	for i, r := range run.Results {
		records[i] = r.ToRecord()
	}
	if err := report.WriteRecords(cfg.ResultsPath(), records); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	outputs := []string{cfg.ResultsPath()}

	err := report.Generate(cfg.ResultsPath(), cfg.ReportPath())
	switch {
	case errors.Is(err, stats.ErrNoData):
		log.Warn("nothing to aggregate, report not written", "documents", len(run.Outcomes))
		// a report from an earlier run would no longer match results.json
		if err := os.Remove(cfg.ReportPath()); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove stale report: %w", err)
		}
	case err != nil:
		return fmt.Errorf("write report: %w", err)
	default:
		cs, err := stats.FromRecords(records)
		if err != nil {
			return err
		}
		run.Stats = &cs
		outputs = append(outputs, cfg.ReportPath())
		log.Info("predominant pattern", "pattern", cs.Predominant.Name, "occurrences", cs.Predominant.Count, "documents", cs.Total)
	}

	if deps.Publisher == nil {
		return nil
	}
	for _, path := range outputs {
		b, err := os.ReadFile(path)
		if err == nil {
			err = deps.Publisher.Publish(ctx, run.ID, filepath.Base(path), b)
		}
		if err != nil {
			log.Warn("publish failed", "file", filepath.Base(path), "err", err)
			continue
		}
		log.Info("published", "run", run.ID, "file", filepath.Base(path))
	}
	return nil
}
