package textprep

import "strings"

// DefaultLimit is the default chunk budget in characters.
const DefaultLimit = 3000

// Chunk splits text into pieces of at most limit characters (runes), cutting
// just before the last period that fits so sentences stay whole. When no
// period fits, the piece is cut hard at limit. Only the final piece is
// trimmed, so joining the result reproduces the input up to surrounding
// whitespace. Blank input yields no chunks; limit <= 0 disables splitting.
func Chunk(text string, limit int) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if limit <= 0 {
		return []string{strings.TrimSpace(text)}
	}

	rest := []rune(text)
	var chunks []string
	for len(rest) > limit {
		cut := lastPeriod(rest[:limit])
		// A period at 0 would emit an empty chunk and never advance.
		if cut <= 0 {
			cut = limit
		}
		chunks = append(chunks, string(rest[:cut]))
		rest = rest[cut:]
	}
	if tail := strings.TrimSpace(string(rest)); tail != "" {
		chunks = append(chunks, tail)
	}
	return chunks
}

func lastPeriod(rs []rune) int {
	for i := len(rs) - 1; i >= 0; i-- {
		if rs[i] == '.' {
			return i
		}
	}
	return -1
}
