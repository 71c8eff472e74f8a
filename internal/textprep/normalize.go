// Package textprep turns raw markdown into plain prose and cuts it into
// model-sized chunks.
package textprep

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	// reFence matches a complete fenced code block.
	reFence = regexp.MustCompile("(?s)```.*?```")
	// reOpenFence matches a fence that is never closed; it runs to the end.
	reOpenFence = regexp.MustCompile("(?s)```.*$")
	// reImageMD matches markdown images: ![alt](url)
	reImageMD = regexp.MustCompile(`!\[.*?\]\(.*?\)`)
	// reImageHTML matches HTML image tags: <img ...>
	reImageHTML = regexp.MustCompile(`(?is)<img[^>]*>`)
	// reComment matches HTML comments: <!-- ... -->
	reComment = regexp.MustCompile(`(?s)<!--.*?-->`)
	// reLink matches [text](url) and keeps the text. The text may be empty,
	// which is what a badge [![alt](img)](url) leaves once the image is gone.
	reLink = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	// reRefLink matches reference-style uses, [text][id], and keeps the text.
	reRefLink = regexp.MustCompile(`\[([^\]]+)\]\[[^\]]*\]`)
	// reRefDef matches reference-style link definitions: [id]: url "title"
	reRefDef = regexp.MustCompile(`(^|\n)[ \t]*\[[^\]]+\]:[ \t]*\S+[^\n]*`)
	reURL    = regexp.MustCompile(`(?i)(?:https?|ftp)://\S+|\bwww\.\S+`)
	// reMarker matches heading, quote and list markers at the start of a line,
	// including stacked ones such as "> - ".
	reMarker     = regexp.MustCompile(`(^|\n)[ \t]*(?:[#>*+-]+[ \t]*)+`)
	reBlankLines = regexp.MustCompile(`\n\s*\n+`)
	reSpaces     = regexp.MustCompile(` {2,}`)
)

// Normalize strips non-semantic markdown from raw and returns plain prose.
// It is total and pure: Normalize(Normalize(x)) == Normalize(x).
func Normalize(raw string) string {
	out := clean(raw)
	// Removing one construct can expose another (for example "- - item"), so
	// run until nothing changes. Every effective pass shortens the text.
	for {
		next := clean(out)
		if next == out {
			return out
		}
		out = next
	}
}

func clean(text string) string {
	text = norm.NFKD.String(text)

	text = reFence.ReplaceAllString(text, "")
	text = reOpenFence.ReplaceAllString(text, "")

	text = reImageMD.ReplaceAllString(text, "")
	text = reImageHTML.ReplaceAllString(text, "")
	text = reComment.ReplaceAllString(text, "")

	text = reRefDef.ReplaceAllString(text, "\n")
	text = reLink.ReplaceAllString(text, "$1")
	text = reRefLink.ReplaceAllString(text, "$1")
	text = reURL.ReplaceAllString(text, "")

	text = reMarker.ReplaceAllString(text, "\n")
	text = reBlankLines.ReplaceAllString(text, "\n")
	text = reSpaces.ReplaceAllString(text, " ")

	return strings.TrimSpace(text)
}
