// Command testrename renames the test files of one tests/<folder> directory
// (underscores to hyphens, "lox" to "lax") and prints a CTest set_property
// directive for each file it handled.
//
// Directives go to stdout; logs, the banner and the --check report go to
// stderr, so stdout can be redirected straight into a CMake include file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/backmassage/testrename/internal/check"
	"github.com/backmassage/testrename/internal/config"
	"github.com/backmassage/testrename/internal/display"
	"github.com/backmassage/testrename/internal/journal"
	"github.com/backmassage/testrename/internal/logging"
	"github.com/backmassage/testrename/internal/pipeline"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	// Phase 1: Bootstrap. No logger yet, errors go straight to stderr.
	cfg, err := config.Load(args)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "testrename: %v\n", err)
		return 1
	}
	if cfg.ShowVersion {
		fmt.Println("testrename " + config.Version)
		return 0
	}

	log, err := logging.NewLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "testrename: %v\n", err)
		return 1
	}
	defer log.Close()

	// Phase 2: Logger available.
	display.PrintBanner(os.Stderr, config.Version)

	dir, err := cfg.TargetDir()
	if err != nil {
		log.Error().Err(err).Msg("Cannot resolve target directory")
		return 1
	}

	if cfg.CheckOnly {
		if !check.RunCheck(cfg, dir, log, os.Stderr) {
			return 1
		}
		return 0
	}

	// Phase 3: Signal handling. Cancelling stops tasks that have not started
	// yet; renames already issued complete and are reported.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			log.Warn().Msg("Received interrupt, skipping files not yet started…")
			cancel()
		case <-ctx.Done():
		}
	}()

	runner := pipeline.NewRunner(cfg, log, os.Stdout)

	if cfg.JournalPath != "" {
		j, err := journal.Open(ctx, cfg.JournalPath, cfg.Folder, dir, log)
		if err != nil {
			// Journal failures never block the batch.
			log.Warn().Err(err).Msg("Journal disabled")
		} else {
			defer j.Close()
			runner.Recorder = j
			runLog := log.WithFields(func(c zerolog.Context) zerolog.Context {
				return c.Str("run_id", j.RunID().String())
			})
			runner.Log = runLog
			defer logJournalCounts(ctx, j, runLog)
		}
	}

	// Phase 4: discover → plan → rename → report.
	stats, err := runner.Run(ctx, dir)
	if err != nil {
		return 1
	}
	if stats.Failed > 0 || stats.Skipped > 0 {
		return 1
	}
	return 0
}

func logJournalCounts(ctx context.Context, j *journal.Journal, log *logging.Logger) {
	counts, err := j.Counts(context.WithoutCancel(ctx))
	if err != nil {
		log.Warn().Err(err).Msg("Journal read failed")
		return
	}
	ev := log.Debug()
	for status, n := range counts {
		ev = ev.Int(string(status), n)
	}
	ev.Msg("Journal written")
}
