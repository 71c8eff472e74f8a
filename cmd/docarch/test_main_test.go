package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docarch/internal/report"
)

func TestRun_FakeProviderEndToEnd(t *testing.T) {
	t.Setenv("ARTIFACT_S3_ENDPOINT", "")
	t.Setenv("LLM_RETRY_ATTEMPTS", "")
	repo := t.TempDir()
	out := filepath.Join(t.TempDir(), "out")
	require.NoError(t, os.WriteFile(filepath.Join(repo, "README.md"),
		[]byte("# Service\n\nThe system is split into microservices. Each of the microservices owns its data."), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(repo, "docs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(repo, "docs", "layers.md"),
		[]byte("The presentation layers sit on top of the domain layers. Layers only call downward."), 0o644))

	var stdout, stderr bytes.Buffer
	code := run([]string{"-provider", "fake", "-out", out, "-workers", "2", repo}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	records, err := report.ReadRecords(filepath.Join(out, "results.json"))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "README.md", records[0].File)
	assert.Equal(t, "Microservices", records[0].Pattern)
	assert.Equal(t, "docs/layers.md", records[1].File)
	assert.Equal(t, "Layers", records[1].Pattern)

	assert.Contains(t, stdout.String(), filepath.Join(out, "report.txt"))
	_, err = os.Stat(filepath.Join(out, "processed_inputs.txt"))
	assert.NoError(t, err)
}

func TestRun_DiskCacheIsReused(t *testing.T) {
	t.Setenv("ARTIFACT_S3_ENDPOINT", "")
	repo := t.TempDir()
	cache := filepath.Join(t.TempDir(), "cache")
	require.NoError(t, os.WriteFile(filepath.Join(repo, "README.md"), []byte("Peer-to-peer nodes gossip."), 0o644))

	for i := 0; i < 2; i++ {
		var stdout, stderr bytes.Buffer
		code := run([]string{"-provider", "fake", "-cache-dir", cache, "-out", filepath.Join(t.TempDir(), "out"), repo}, &stdout, &stderr)
		require.Equal(t, 0, code, stderr.String())
	}
	entries, err := os.ReadDir(filepath.Join(cache, "blobs"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRun_UsageErrors(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 2, run([]string{"-provider", "fake"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "repository path")

	stderr.Reset()
	assert.Equal(t, 1, run([]string{"-provider", "fake", filepath.Join(t.TempDir(), "missing")}, &stdout, &stderr))
}

func TestRun_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 0, run([]string{"-version"}, &stdout, &stderr))
	assert.True(t, strings.HasPrefix(stdout.String(), "docarch "))
}
