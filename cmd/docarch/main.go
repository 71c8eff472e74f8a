// Command docarch classifies the architecture pattern described by each
// markdown document of a repository and reports the corpus-wide result.
//
//	docarch [flags] <repo>
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"docarch/internal/config"
	"docarch/internal/logger"
	"docarch/internal/pipeline"
)

var version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintln(stderr, "docarch:", err)
		return 2
	}
	if cfg.ShowVersion {
		fmt.Fprintln(stdout, "docarch", version)
		return 0
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Output: stderr, JSON: cfg.LogJSON})
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithContext(ctx, log)

	deps, cleanup, err := buildDeps(ctx, cfg, log)
	if err != nil {
		cleanup()
		log.Error("setup failed", "err", err)
		return 1
	}
	defer cleanup()

	res, err := pipeline.Run(ctx, cfg, deps)
	if err != nil {
		log.Error("analysis failed", "err", err)
		return 1
	}

	counts := pipeline.Counts(res.Outcomes)
	log.Info("analysis completed",
		"out", cfg.OutDir,
		"documents", len(res.Outcomes),
		"classified", counts[pipeline.StatusClassified],
		"failed", counts[pipeline.StatusReadFailed]+counts[pipeline.StatusClassifyFailed]+counts[pipeline.StatusEmptySummary],
	)
	fmt.Fprintln(stdout, cfg.ResultsPath())
	if res.Stats != nil {
		fmt.Fprintln(stdout, cfg.ReportPath())
	}
	return 0
}
