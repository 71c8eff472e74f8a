package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docarch/internal/report"
	"docarch/internal/types"
)

func TestRun_WritesReport(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "results.json")
	out := filepath.Join(dir, "report.txt")
	require.NoError(t, report.WriteRecords(in, []types.Record{
		{File: "README.md", Summary: "Nodes gossip.", Pattern: "Peer-to-Peer", Confidence: 0.7},
	}))

	var stdout, stderr bytes.Buffer
	require.Equal(t, 0, run([]string{"-in", in, "-out", out}, &stdout, &stderr), stderr.String())
	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Predominant pattern: Peer-to-Peer")
	assert.Contains(t, stdout.String(), out)
}

func TestRun_FailsWithoutWritingReport(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "report.txt")
	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, report.WriteRecords(empty, nil))

	for _, in := range []string{filepath.Join(dir, "missing.json"), empty} {
		var stdout, stderr bytes.Buffer
		assert.Equal(t, 1, run([]string{"-in", in, "-out", out}, &stdout, &stderr))
	}
	_, err := os.Stat(out)
	assert.True(t, os.IsNotExist(err))

	var stdout, stderr bytes.Buffer
	assert.Equal(t, 2, run([]string{"-bogus"}, &stdout, &stderr))
}
