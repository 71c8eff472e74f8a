// Package classify picks the architecture pattern of a document summary
// using a zero-shot classifier.
package classify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"docarch/internal/types"
)

var (
	ErrEmptySummary  = errors.New("classify: empty summary")
	ErrEmptyRanking  = errors.New("classify: classifier returned no labels")
	ErrRankingShape  = errors.New("classify: labels and scores differ in length")
	ErrUnknownLabel  = errors.New("classify: label outside the taxonomy")
	ErrScoreOutRange = errors.New("classify: score outside [0,1]")
)

// Ranking is a zero-shot classifier response; Scores[i] belongs to Labels[i].
type Ranking struct {
	Labels []string  `json:"labels"`
	Scores []float64 `json:"scores"`
}

// Classifier scores text against candidate labels, each phrased through
// template ("{}" stands for the label).
type Classifier interface {
	Classify(ctx context.Context, text string, labels []string, template string) (Ranking, error)
}

// ClassifierFunc adapts a plain function to Classifier.
type ClassifierFunc func(ctx context.Context, text string, labels []string, template string) (Ranking, error)

func (f ClassifierFunc) Classify(ctx context.Context, text string, labels []string, template string) (Ranking, error) {
	return f(ctx, text, labels, template)
}

// Prediction is the winning pattern for one summary.
type Prediction struct {
	Pattern    types.PatternLabel
	Confidence float64
}

// Top classifies summary once and returns the highest-scoring pattern. The
// response order is not trusted: the maximum score is searched explicitly,
// and on equal scores the label listed first wins.
func Top(ctx context.Context, summary string, labels []types.PatternLabel, template string, c Classifier) (Prediction, error) {
	if strings.TrimSpace(summary) == "" {
		return Prediction{}, ErrEmptySummary
	}
	if template == "" {
		template = types.DefaultHypothesisTemplate
	}

	candidates := make([]string, len(labels))
	lookup := make(map[string]types.PatternLabel, 2*len(labels))
	for i, l := range labels {
		candidates[i] = l.Candidate()
		lookup[l.Candidate()] = l
		lookup[l.Name] = l
	}

	r, err := c.Classify(ctx, summary, candidates, template)
	if err != nil {
		return Prediction{}, fmt.Errorf("classify: %w", err)
	}
	if len(r.Labels) == 0 {
		return Prediction{}, ErrEmptyRanking
	}
	if len(r.Labels) != len(r.Scores) {
		return Prediction{}, fmt.Errorf("%w: %d labels, %d scores", ErrRankingShape, len(r.Labels), len(r.Scores))
	}

	best := 0
	for i, s := range r.Scores {
		if s < 0 || s > 1 {
			return Prediction{}, fmt.Errorf("%w: %q scored %v", ErrScoreOutRange, r.Labels[i], s)
		}
		if s > r.Scores[best] {
			best = i
		}
	}

	label, ok := lookup[strings.TrimSpace(r.Labels[best])]
	if !ok {
		return Prediction{}, fmt.Errorf("%w: %q", ErrUnknownLabel, r.Labels[best])
	}
	return Prediction{Pattern: label, Confidence: r.Scores[best]}, nil
}
