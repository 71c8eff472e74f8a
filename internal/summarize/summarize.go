// Package summarize builds one document summary from per-chunk summaries.
package summarize

import (
	"context"
	"math"
	"strings"
)

// Summarizer produces one summary for text whose length, in model tokens,
// should fall between minLen and maxLen.
type Summarizer interface {
	Summarize(ctx context.Context, text string, minLen, maxLen int) (string, error)
}

// SummarizerFunc adapts a plain function to Summarizer.
type SummarizerFunc func(ctx context.Context, text string, minLen, maxLen int) (string, error)

func (f SummarizerFunc) Summarize(ctx context.Context, text string, minLen, maxLen int) (string, error) {
	return f(ctx, text, minLen, maxLen)
}

const (
	minFloor = 20
	maxFloor = 40
	minRatio = 0.3
	maxRatio = 0.8
)

// Bounds derives the summary length bounds for a chunk from its word count.
func Bounds(chunk string) (minLen, maxLen int) {
	w := float64(len(strings.Fields(chunk)))
	minLen = max(minFloor, int(math.Round(minRatio*w)))
	maxLen = max(maxFloor, int(math.Round(maxRatio*w)))
	return minLen, maxLen
}

// ChunkFailure records a chunk whose summary could not be produced.
type ChunkFailure struct {
	Index int
	Err   error
}

// Result is the document-level summary plus what happened to each chunk.
type Result struct {
	// Text joins the successful chunk summaries with single spaces, in chunk
	// order. Empty when no chunk succeeded.
	Text string
	// Chunks is the number of non-blank chunks sent to the summarizer.
	Chunks   int
	Failures []ChunkFailure
}

// Failed reports whether no chunk produced a summary.
func (r Result) Failed() bool { return r.Text == "" }

// Document summarizes each chunk and concatenates the partial summaries. A
// failing chunk is recorded in Failures and skipped; Document itself never
// fails. Blank chunks are ignored.
func Document(ctx context.Context, chunks []string, s Summarizer) Result {
	var (
		res   Result
		parts []string
	)
	for i, chunk := range chunks {
		if strings.TrimSpace(chunk) == "" {
			continue
		}
		res.Chunks++
		minLen, maxLen := Bounds(chunk)
		out, err := s.Summarize(ctx, chunk, minLen, maxLen)
		if err != nil {
			res.Failures = append(res.Failures, ChunkFailure{Index: i, Err: err})
			continue
		}
		if out = strings.TrimSpace(out); out != "" {
			parts = append(parts, out)
		}
	}
	res.Text = strings.Join(parts, " ")
	return res
}
