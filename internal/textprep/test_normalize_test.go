package textprep

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_RemovesMarkup(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"code fence", "Intro\n```go\nfunc main() {}\n```\nOutro", "Intro\nOutro"},
		{"unterminated fence", "Text\n```\ncode never closed", "Text"},
		{"image", "See ![logo](img/logo.png) here", "See here"},
		{"html image", `Before <img src="a.png" alt="x"> after`, "Before after"},
		{"html comment", "keep <!-- drop\nthis --> this", "keep this"},
		{"link keeps text", "Read [the docs](https://x.io/docs) now", "Read the docs now"},
		{"bare url", "Visit https://example.com/a?b=c today", "Visit today"},
		{"www and ftp urls", "Mirror at www.example.com or ftp://files.example.com/pub now", "Mirror at or now"},
		{"reference definition", "Read the [guide][g].\n[g]: https://example.com/guide \"Guide\"\nDone", "Read the guide.\nDone"},
		{"badge link", "[![build](https://img.shields.io/x.svg)](https://ci.example.com) Docs here.", "Docs here."},
		{"relative badge link", "[![logo](docs/logo.png)](docs/index.md) Intro.", "Intro."},
		{"empty link text", "before [](docs/x.md) after", "before after"},
		{"headings and lists", "# Title\n\nBody text\n- item one\n* item two\n+ item three\n> quote", "Title\nBody text\nitem one\nitem two\nitem three\nquote"},
		{"stacked markers", "- - nested\n> - quoted item", "nested\nquoted item"},
		{"blank lines", "a\n\n\n   \n\nb", "a\nb"},
		{"spaces", "a    b  c", "a b c"},
		{"trim", "   padded   ", "padded"},
		{"empty", "", ""},
		{"only markup", "```\nx\n```\n![i](u)", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Normalize(tc.in))
		})
	}
}

func TestNormalize_DecomposesUnicode(t *testing.T) {
	assert.Equal(t, "cafe\u0301", Normalize("caf\u00e9"))
	// compatibility decomposition expands ligatures
	assert.Equal(t, "file", Normalize("ﬁle"))
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"# Heading\n\n- - double bullet\n\n\n> > nested quote",
		"[a](b) [c](d)![e](f)http://x.y",
		"text ```open fence\n- item",
		"##   spaced   heading  \n\n\n*  * star",
		"line one.\n   \n  - item\n+ plus\n1. numbered stays",
		"[![badge](https://img.shields.io/x.svg)](https://ci.example.com)",
		"-\n-\n-text",
		"Mixed\t tabs \t and   spaces\n\n\n",
		"café ﬁ ①",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestNormalize_NoForbiddenConstructs(t *testing.T) {
	in := strings.Join([]string{
		"# Project",
		"![diagram](docs/arch.png)",
		"[![build](https://img.shields.io/b.svg)](https://ci.example.com) [![logo](docs/logo.png)](docs/index.md)",
		"Mirror: www.example.com/pkg",
		"See [guide](https://example.com/guide) and https://example.com/raw.",
		"```bash",
		"make build",
		"```",
		"",
		"",
		"- first    item",
		"* second item",
		"> note",
	}, "\n")

	out := Normalize(in)
	require.NotEmpty(t, out)
	assert.NotContains(t, out, "```")
	assert.NotContains(t, out, "![")
	assert.NotContains(t, out, "](")
	assert.NotContains(t, out, "http")
	assert.NotContains(t, out, "www.")
	assert.NotContains(t, out, "[]")
	assert.NotContains(t, out, "\n\n")
	assert.NotContains(t, out, "  ")
	for _, line := range strings.Split(out, "\n") {
		require.NotEmpty(t, line)
		assert.NotContains(t, "#>-*+", line[:1], "line %q starts with a marker", line)
	}
}
