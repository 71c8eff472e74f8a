// Package pipeline runs the first analysis stage: it reads every markdown
// document of a repository, summarizes and classifies it, and writes the
// per-document records and the corpus report.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sourcegraph/conc/stream"

	"docarch/internal/artifact"
	"docarch/internal/classify"
	"docarch/internal/config"
	"docarch/internal/logger"
	"docarch/internal/scan"
	"docarch/internal/summarize"
	"docarch/internal/textprep"
	"docarch/internal/types"
)

// Deps are the collaborators of a run. Summarizer and Classifier are
// required; the rest are optional.
type Deps struct {
	Summarizer summarize.Summarizer
	Classifier classify.Classifier
	// Publisher, when set, receives the output files after the run.
	Publisher artifact.Publisher
	Logger    logger.Logger
	// Labels defaults to the full pattern taxonomy.
	Labels []types.PatternLabel
	// Template defaults to types.DefaultHypothesisTemplate.
	Template string
	// RunID names the published objects; defaults to a UTC timestamp.
	RunID string
}

// RunResult is everything a completed run produced.
type RunResult struct {
	ID       string
	Results  []types.DocumentResult
	Outcomes []Outcome
	// Stats is nil when no document was classified.
	Stats *types.CorpusStatistics
}

// processed is one document after the worker is done with it.
type processed struct {
	outcome    Outcome
	normalized string
	logged     bool
	result     types.DocumentResult
}

// Run processes the documents under cfg.Root in traversal order. Per-document
// failures are recorded in the returned Outcomes and never stop the run; the
// error is reserved for setup failures such as a bad root or an unwritable
// output directory.
func Run(ctx context.Context, cfg *config.Config, deps Deps) (*RunResult, error) {
	if deps.Summarizer == nil || deps.Classifier == nil {
		return nil, errors.New("pipeline: summarizer and classifier are required")
	}
	log := deps.Logger
	if log == nil {
		log = logger.FromContext(ctx)
	}
	labels := deps.Labels
	if len(labels) == 0 {
		labels = types.Patterns()
	}
	run := &RunResult{ID: deps.RunID}
	if run.ID == "" {
		run.ID = time.Now().UTC().Format("20060102T150405Z")
	}

	docs, err := scan.Documents(cfg.Root, scan.Options{
		Exclude:     cfg.Exclude,
		IgnoreDirs:  cfg.IgnoreDirs,
		NoGitignore: cfg.NoGitignore,
		MaxFileSize: cfg.MaxFileSize,
		OnSkip: func(path, reason string) {
			log.Debug("skipping document", "path", path, "reason", reason)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", cfg.Root, err)
	}
	log.Info("documents found", "root", cfg.Root, "count", len(docs))

	reader, err := scan.OpenReader(cfg.Root)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	procLog, err := openProcessedLog(cfg.ProcessedLogPath())
	if err != nil {
		return nil, err
	}
	defer procLog.Close()

	workers := max(1, cfg.Workers)
	s := stream.New().WithMaxGoroutines(workers)
	for _, d := range docs {
		s.Go(func() stream.Callback {
			p := processDocument(ctx, reader, d.Path, cfg.Limit, labels, deps)
			// callbacks run one at a time in submission order
			return func() {
				if p.logged {
					if err := procLog.Append(p.outcome.Path, p.normalized); err != nil {
						log.Warn("processed log write failed", "path", p.outcome.Path, "err", err)
					}
				}
				logOutcome(log, p.outcome, p.result)
				run.Outcomes = append(run.Outcomes, p.outcome)
				if p.outcome.Status == StatusClassified {
					run.Results = append(run.Results, p.result)
				}
			}
		})
	}
	s.Wait()

	return run, finish(ctx, cfg, deps, log, run)
}

func processDocument(ctx context.Context, reader *scan.Reader, path string, limit int, labels []types.PatternLabel, deps Deps) processed {
	p := processed{outcome: Outcome{Path: path}}
	raw, err := reader.Read(path)
	if err != nil {
		p.outcome.Status, p.outcome.Err = StatusReadFailed, err
		return p
	}
	p.normalized = textprep.Normalize(raw.Text)
	p.logged = true
	if p.normalized == "" {
		p.outcome.Status = StatusEmptyInput
		return p
	}

	sum := summarize.Document(ctx, textprep.Chunk(p.normalized, limit), deps.Summarizer)
	p.outcome.Chunks, p.outcome.ChunkFailures = sum.Chunks, sum.Failures
	if sum.Failed() {
		p.outcome.Status = StatusEmptySummary
		return p
	}

	pred, err := classify.Top(ctx, sum.Text, labels, deps.Template, deps.Classifier)
	if err != nil {
		p.outcome.Status, p.outcome.Err = StatusClassifyFailed, err
		return p
	}
	p.outcome.Status = StatusClassified
	p.result = types.DocumentResult{
		File:       path,
		Summary:    sum.Text,
		Pattern:    pred.Pattern.Name,
		Confidence: pred.Confidence,
	}
	return p
}
