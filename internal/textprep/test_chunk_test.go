package textprep

import (
	"math/rand"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunk_ShortInputSingleChunk(t *testing.T) {
	text := strings.Repeat("a", 500)
	got := Chunk("  "+text+"\n", DefaultLimit)
	require.Len(t, got, 1)
	assert.Equal(t, text, got[0])
}

func TestChunk_BlankInput(t *testing.T) {
	assert.Empty(t, Chunk("", 10))
	assert.Empty(t, Chunk(" \n\t ", 10))
	assert.Empty(t, Chunk(strings.Repeat(" ", 50), 10))
}

func TestChunk_CutsBeforeLastPeriod(t *testing.T) {
	got := Chunk("aaaa. bbbb. cccc", 8)
	assert.Equal(t, []string{"aaaa", ". bbbb", ". cccc"}, got)
	assert.Equal(t, "aaaa. bbbb. cccc", strings.Join(got, ""))
}

func TestChunk_HardCutWithoutPeriod(t *testing.T) {
	assert.Equal(t, []string{"abcd", "efgh", "ij"}, Chunk("abcdefghij", 4))
}

func TestChunk_PeriodAtStartDoesNotStall(t *testing.T) {
	assert.Equal(t, []string{".abc", "defg", "h"}, Chunk(".abcdefgh", 4))
}

func TestChunk_CountsRunes(t *testing.T) {
	assert.Equal(t, []string{"日本語", "テキス", "ト"}, Chunk("日本語テキスト", 3))
}

func TestChunk_NoLimit(t *testing.T) {
	assert.Equal(t, []string{"x. y. z"}, Chunk(" x. y. z ", 0))
}

func TestChunk_ReconstructsAndRespectsLimit(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	words := []string{"layer", "service", "event", "queue", "client", "node", "filter", "schema"}

	for round := 0; round < 50; round++ {
		var b strings.Builder
		sentences := 1 + rng.Intn(80)
		for s := 0; s < sentences; s++ {
			if s > 0 {
				b.WriteByte(' ')
			}
			n := 1 + rng.Intn(30)
			for w := 0; w < n; w++ {
				if w > 0 {
					b.WriteByte(' ')
				}
				b.WriteString(words[rng.Intn(len(words))])
			}
			b.WriteByte('.')
		}
		text := b.String()
		limit := 20 + rng.Intn(400)

		chunks := Chunk(text, limit)
		require.NotEmpty(t, chunks)
		for _, c := range chunks {
			assert.LessOrEqual(t, utf8.RuneCountInString(c), limit)
			assert.NotEmpty(t, strings.TrimSpace(c))
		}
		assert.Equal(t, squash(text), squash(strings.Join(chunks, "")), "round %d", round)
	}
}

func squash(s string) string {
	return strings.Join(strings.Fields(s), "")
}
