package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// FakeClient returns deterministic JSON payloads per phase for offline runs
// and tests. Summaries keep the leading words of the text; classification
// scores candidate labels by how often their name appears in the text.
type FakeClient struct{}

func NewFakeClient() *FakeClient { return &FakeClient{} }

func (f *FakeClient) Name() string { return "FakeLLM" }
func (f *FakeClient) Close() error { return nil }

func (f *FakeClient) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	switch in := input.(type) {
	case SummarizeInput:
		return json.Marshal(summaryOutput{Summary: fakeSummary(in)})
	case ClassifyInput:
		return json.Marshal(fakeRanking(in))
	}
	return nil, fmt.Errorf("fake llm: unsupported input %T for phase %q", input, PhaseFrom(ctx))
}

func fakeSummary(in SummarizeInput) string {
	words := strings.Fields(in.Text)
	if in.MaxWords > 0 && len(words) > in.MaxWords {
		words = words[:in.MaxWords]
	}
	return strings.Join(words, " ")
}

type fakeRankingOut struct {
	Labels []string  `json:"labels"`
	Scores []float64 `json:"scores"`
}

func fakeRanking(in ClassifyInput) fakeRankingOut {
	text := strings.ToLower(in.Text)
	hits := make([]float64, len(in.CandidateLabels))
	var total float64
	for i, label := range in.CandidateLabels {
		name := label
		if j := strings.Index(name, " ("); j > 0 {
			name = name[:j]
		}
		// one pseudo-hit keeps every score positive
		hits[i] = float64(strings.Count(text, strings.ToLower(name))) + 1
		total += hits[i]
	}
	out := fakeRankingOut{Labels: make([]string, len(hits)), Scores: make([]float64, len(hits))}
	for i := range hits {
		out.Labels[i] = in.CandidateLabels[i]
		out.Scores[i] = hits[i] / total
	}
	return out
}
