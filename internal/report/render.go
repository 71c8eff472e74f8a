package report

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"docarch/internal/stats"
	"docarch/internal/types"
)

const rule = "------------------------------------------------------------"

// Render writes the report: one block per record in record order, then the
// corpus distribution (most frequent first) and the predominant pattern.
func Render(w io.Writer, records []types.Record, cs types.CorpusStatistics) error {
	bw := bufio.NewWriter(w)

	fmt.Fprint(bw, "=== ARCHITECTURE PATTERN CLASSIFICATION RESULTS ===\n\n")
	for _, r := range records {
		fmt.Fprintf(bw, "File: %s\n", r.File)
		fmt.Fprintf(bw, "Pattern: %s\n", r.Pattern)
		fmt.Fprintf(bw, "Confidence: %s\n", percent(r.Confidence, 2))
		fmt.Fprintf(bw, "Summary: %s\n", flatten(r.Summary))
		fmt.Fprintln(bw, rule)
	}

	fmt.Fprint(bw, "\n=== CORPUS STATISTICS ===\n")
	fmt.Fprintf(bw, "Total documents analysed: %d\n\n", cs.Total)
	fmt.Fprintln(bw, "Pattern distribution:")
	for _, p := range cs.ByOccurrence() {
		fmt.Fprintf(bw, " - %s: %d occurrences (mean %s)\n", p.Name, p.Count, percent(p.MeanConfidence, 1))
	}

	fmt.Fprint(bw, "\n=== PREDOMINANT PATTERN ===\n")
	fmt.Fprintf(bw, "Predominant pattern: %s\n", cs.Predominant.Name)
	fmt.Fprintf(bw, "Occurrences: %d\n", cs.Predominant.Count)
	fmt.Fprintf(bw, "Mean confidence: %s\n", percent(cs.Predominant.MeanConfidence, 1))

	return bw.Flush()
}

// Generate reads the records at in, aggregates them and writes the report to
// out. Nothing is written when the input is missing, malformed or empty; an
// empty array yields stats.ErrNoData.
func Generate(in, out string) error {
	records, err := ReadRecords(in)
	if err != nil {
		return err
	}
	cs, err := stats.FromRecords(records)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := Render(&buf, records, cs); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return err
	}
	return os.WriteFile(out, buf.Bytes(), 0o644)
}

func percent(v float64, decimals int) string {
	return fmt.Sprintf("%.*f%%", decimals, v*100)
}

func flatten(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), "\n", " ")
}
