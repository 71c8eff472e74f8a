package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docarch/internal/stats"
	"docarch/internal/types"
)

func sample() []types.Record {
	return []types.Record{
		{File: "docs/a.md", Summary: "Layered\nservice.", Pattern: "Layers", Confidence: 0.875},
		{File: "docs/b.md", Summary: "Events fan out.", Pattern: "Publish-Subscribe", Confidence: 0.6},
		{File: "docs/c.md", Summary: "Another layer.", Pattern: "Layers", Confidence: 0.75},
	}
}

func TestRecords_RoundTripKeepsUnicode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "results.json")
	in := []types.Record{{File: "docs/café.md", Summary: "a <b> & c", Pattern: "Layers", Confidence: 0.8}}
	require.NoError(t, WriteRecords(path, in))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "café")
	assert.Contains(t, string(raw), "a <b> & c")
	assert.Contains(t, string(raw), "\n  {\n    \"file\"")

	out, err := ReadRecords(path)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestWriteRecords_NilIsEmptyArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")
	require.NoError(t, WriteRecords(path, nil))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(raw))
}

func TestRender_Layout(t *testing.T) {
	records := sample()
	cs, err := stats.FromRecords(records)
	require.NoError(t, err)

	var sb strings.Builder
	require.NoError(t, Render(&sb, records, cs))
	got := sb.String()

	assert.Contains(t, got, "File: docs/a.md\nPattern: Layers\nConfidence: 87.50%\nSummary: Layered service.\n"+rule+"\n")
	assert.Contains(t, got, "Total documents analysed: 3\n")
	assert.Contains(t, got, " - Layers: 2 occurrences (mean 81.2%)\n - Publish-Subscribe: 1 occurrences (mean 60.0%)\n")
	assert.Contains(t, got, "=== PREDOMINANT PATTERN ===\nPredominant pattern: Layers\nOccurrences: 2\nMean confidence: 81.2%\n")
	assert.Less(t, strings.Index(got, "docs/a.md"), strings.Index(got, "docs/b.md"))
	assert.Less(t, strings.Index(got, "=== CORPUS STATISTICS ==="), strings.Index(got, "=== PREDOMINANT PATTERN ==="))
}

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "results.json")
	out := filepath.Join(dir, "report.txt")
	require.NoError(t, WriteRecords(in, sample()))

	require.NoError(t, Generate(in, out))
	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Predominant pattern: Layers")
}

func TestGenerate_Failures(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "report.txt")

	err := Generate(filepath.Join(dir, "missing.json"), out)
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o644))
	assert.Error(t, Generate(bad, out))

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, WriteRecords(empty, []types.Record{}))
	assert.ErrorIs(t, Generate(empty, out), stats.ErrNoData)

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr), "no report is written on failure")
}
