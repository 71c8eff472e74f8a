package types

import (
	"math"
	"sort"
)

// Taxonomy ------------------------------------------------------------------------

// PatternLabel is one architecture pattern of the closed taxonomy. The
// description is shown to the classifier as context next to the name.
type PatternLabel struct {
	Name        string
	Description string
}

// Candidate renders the label the way it is offered to a zero-shot classifier.
func (p PatternLabel) Candidate() string {
	if p.Description == "" {
		return p.Name
	}
	return p.Name + " (" + p.Description + ")"
}

var patterns = []PatternLabel{
	{"Client-Server", "a centralized server provides resources or services to multiple clients over a network"},
	{"Blackboard", "components work cooperatively by reading and writing shared data on a common knowledge base"},
	{"Shared-Data", "components communicate indirectly through shared data repositories or databases"},
	{"Data-Model", "the architecture centers around structured data schemas and access layers"},
	{"Publish-Subscribe", "components communicate asynchronously through message topics or events"},
	{"Service-Oriented Architecture", "system organized into reusable services communicating via standardized interfaces"},
	{"Peer-to-Peer", "decentralized network where each node can act as both client and server"},
	{"Pipe-Filter", "data flows through a sequence of processing steps, each transforming the input into output"},
	{"Layers", "system organized into hierarchical layers like presentation, logic, and data access"},
	{"Microservices", "independently deployable small services communicating via APIs or messaging"},
	{"Blockchain", "distributed ledger storing transactions in cryptographically linked blocks"},
}

// Patterns returns the architecture taxonomy in its canonical order.
// The slice is a copy; callers may not alter the process-wide set.
func Patterns() []PatternLabel {
	out := make([]PatternLabel, len(patterns))
	copy(out, patterns)
	return out
}

// DefaultHypothesisTemplate frames each candidate label as a claim; "{}" is
// replaced by the label.
const DefaultHypothesisTemplate = "This project follows the following software architecture pattern: {}."

// Documents -----------------------------------------------------------------------

// RawDocument is the unprocessed content of one markdown file.
type RawDocument struct {
	Path string
	Text string
}

// DocumentResult is the classification outcome of one document.
type DocumentResult struct {
	File       string
	Summary    string
	Pattern    string
	Confidence float64
}

// Record is the on-disk form of a DocumentResult shared by both stages.
type Record struct {
	File       string  `json:"file"`
	Summary    string  `json:"summary"`
	Pattern    string  `json:"pattern"`
	Confidence float64 `json:"confidence"`
}

// ToRecord converts a result to its persisted form, rounding confidence to
// three decimals.
func (r DocumentResult) ToRecord() Record {
	return Record{
		File:       r.File,
		Summary:    r.Summary,
		Pattern:    r.Pattern,
		Confidence: math.Round(r.Confidence*1000) / 1000,
	}
}

// Result converts a persisted record back to a DocumentResult.
func (r Record) Result() DocumentResult {
	return DocumentResult{File: r.File, Summary: r.Summary, Pattern: r.Pattern, Confidence: r.Confidence}
}

// Corpus --------------------------------------------------------------------------

// PatternStat aggregates every document classified with one pattern.
type PatternStat struct {
	Name           string  `json:"name"`
	Count          int     `json:"count"`
	MeanConfidence float64 `json:"mean_confidence"`
}

// CorpusStatistics is a read-only view over all results of a run.
type CorpusStatistics struct {
	Total int `json:"total"`
	// Patterns in first-seen order.
	Patterns    []PatternStat `json:"patterns"`
	Predominant PatternStat   `json:"predominant"`
}

// ByOccurrence returns the pattern stats sorted by descending count. Equal
// counts keep first-seen order.
func (s CorpusStatistics) ByOccurrence() []PatternStat {
	out := make([]PatternStat, len(s.Patterns))
	copy(out, s.Patterns)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}
