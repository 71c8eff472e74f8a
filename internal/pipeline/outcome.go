package pipeline

import "docarch/internal/summarize"

// Status is what happened to one document.
type Status string

const (
	StatusClassified     Status = "classified"
	StatusEmptyInput     Status = "empty-input"
	StatusEmptySummary   Status = "empty-summary"
	StatusReadFailed     Status = "read-failed"
	StatusClassifyFailed Status = "classify-failed"
)

// Outcome records the fate of one document, successful or not.
type Outcome struct {
	Path          string
	Status        Status
	Chunks        int
	ChunkFailures []summarize.ChunkFailure
	Err           error
}

// Counts tallies outcomes by status.
func Counts(outcomes []Outcome) map[Status]int {
	out := map[Status]int{}
	for _, o := range outcomes {
		out[o.Status]++
	}
	return out
}
