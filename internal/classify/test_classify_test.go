package classify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docarch/internal/types"
)

func fixed(r Ranking, err error) ClassifierFunc {
	return func(context.Context, string, []string, string) (Ranking, error) { return r, err }
}

var abc = []types.PatternLabel{{Name: "A"}, {Name: "B"}, {Name: "C"}}

func TestTop_SelectsMaximumRegardlessOfOrder(t *testing.T) {
	c := fixed(Ranking{Labels: []string{"B", "A", "C"}, Scores: []float64{0.9, 0.95, 0.1}}, nil)

	got, err := Top(context.Background(), "summary", abc, "", c)
	require.NoError(t, err)
	assert.Equal(t, "A", got.Pattern.Name)
	assert.Equal(t, 0.95, got.Confidence)
}

func TestTop_EqualScoresKeepFirstListed(t *testing.T) {
	c := fixed(Ranking{Labels: []string{"C", "A"}, Scores: []float64{0.5, 0.5}}, nil)

	got, err := Top(context.Background(), "summary", abc, "", c)
	require.NoError(t, err)
	assert.Equal(t, "C", got.Pattern.Name)
}

func TestTop_PassesCandidatesAndTemplate(t *testing.T) {
	var gotText, gotTemplate string
	var gotLabels []string
	c := ClassifierFunc(func(_ context.Context, text string, labels []string, template string) (Ranking, error) {
		gotText, gotLabels, gotTemplate = text, labels, template
		return Ranking{Labels: []string{labels[8]}, Scores: []float64{0.7}}, nil
	})

	got, err := Top(context.Background(), "a layered web app", types.Patterns(), "", c)
	require.NoError(t, err)
	assert.Equal(t, "a layered web app", gotText)
	assert.Equal(t, types.DefaultHypothesisTemplate, gotTemplate)
	require.Len(t, gotLabels, 11)
	assert.Equal(t, "Layers (system organized into hierarchical layers like presentation, logic, and data access)", gotLabels[8])
	assert.Equal(t, "Layers", got.Pattern.Name)
	assert.Equal(t, 0.7, got.Confidence)
}

func TestTop_AcceptsBareNames(t *testing.T) {
	c := fixed(Ranking{Labels: []string{"Layers", "Pipe-Filter"}, Scores: []float64{0.8, 0.2}}, nil)

	got, err := Top(context.Background(), "X", types.Patterns(), "", c)
	require.NoError(t, err)
	assert.Equal(t, "Layers", got.Pattern.Name)
	assert.Equal(t, 0.8, got.Confidence)
}

func TestTop_Errors(t *testing.T) {
	boom := errors.New("boom")
	cases := []struct {
		name    string
		summary string
		c       Classifier
		want    error
	}{
		{"empty summary", "  ", fixed(Ranking{}, nil), ErrEmptySummary},
		{"classifier failure", "s", fixed(Ranking{}, boom), boom},
		{"no labels", "s", fixed(Ranking{}, nil), ErrEmptyRanking},
		{"shape", "s", fixed(Ranking{Labels: []string{"A", "B"}, Scores: []float64{0.1}}, nil), ErrRankingShape},
		{"unknown", "s", fixed(Ranking{Labels: []string{"Z"}, Scores: []float64{0.9}}, nil), ErrUnknownLabel},
		{"score range", "s", fixed(Ranking{Labels: []string{"A"}, Scores: []float64{1.5}}, nil), ErrScoreOutRange},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Top(context.Background(), tc.summary, abc, "", tc.c)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}
