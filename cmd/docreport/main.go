// Command docreport renders the text report from a results.json written by
// docarch. It can be re-run on its own after editing or merging records.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"

	"docarch/internal/logger"
	"docarch/internal/report"
	"docarch/internal/stats"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	_ = godotenv.Load()

	fs := flag.NewFlagSet("docreport", flag.ContinueOnError)
	fs.SetOutput(stderr)
	in := fs.String("in", "artifacts/results.json", "records written by docarch")
	out := fs.String("out", "artifacts/report.txt", "report destination")
	level := fs.String("log-level", firstNonEmpty(os.Getenv("LOG_LEVEL"), "info"), "debug|info|warn|error")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	log := logger.New(logger.Config{Level: *level, Output: stderr})

	err := report.Generate(*in, *out)
	switch {
	case errors.Is(err, stats.ErrNoData):
		log.Warn("no records to report", "in", *in)
		return 1
	case err != nil:
		log.Error("report failed", "in", *in, "err", err)
		return 1
	}
	log.Info("report written", "out", *out)
	fmt.Fprintln(stdout, *out)
	return 0
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
