package pipeline

import (
	"context"
	"fmt"
	"io"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/backmassage/testrename/internal/config"
	"github.com/backmassage/testrename/internal/display"
	"github.com/backmassage/testrename/internal/fsops"
	"github.com/backmassage/testrename/internal/logging"
	"github.com/backmassage/testrename/internal/naming"
)

//go:generate mockgen -source=runner.go -destination=../mock/recorder_mock.go -package=mock

// Status is the outcome of one op.
type Status string

const (
	StatusRenamed   Status = "renamed"
	StatusUnchanged Status = "unchanged"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
)

// Result is the outcome of one rename attempt.
type Result struct {
	Op     Op
	Status Status
	DryRun bool
	Err    error
}

// OK reports whether the result produces a directive line.
func (r Result) OK() bool {
	return r.Status == StatusRenamed || r.Status == StatusUnchanged
}

// Recorder receives every result after the batch has been joined. The
// journal implements it. Record errors are logged and otherwise ignored.
type Recorder interface {
	Record(ctx context.Context, r Result) error
}

// Runner renames the test files of one directory.
type Runner struct {
	Config *config.Config
	Log    *logging.Logger
	FS     fsops.Filesystem
	Out    io.Writer // receives directive lines only
	Rules  naming.Rules
	// Recorder is optional.
	Recorder Recorder
}

// NewRunner returns a Runner over the real filesystem with the default rules.
func NewRunner(cfg *config.Config, log *logging.Logger, out io.Writer) *Runner {
	return &Runner{
		Config: cfg,
		Log:    log,
		FS:     fsops.OS{},
		Out:    out,
		Rules:  naming.DefaultRules,
	}
}

// Run is the batch entry point: discover, plan, execute every op as its own
// task, join, then report in directory order. The only returned error is a
// wrapped [ErrDirectoryRead]; per-file failures are in the stats.
func (r *Runner) Run(ctx context.Context, dir string) (RunStats, error) {
	var stats RunStats

	entries, err := Discover(r.FS, dir)
	if err != nil {
		r.Log.Error().Err(err).Str("dir", dir).Msg("Error reading directory")
		return stats, fmt.Errorf("%w %s: %w", ErrDirectoryRead, dir, err)
	}

	for _, e := range entries {
		if e.Kind != KindFile && e.Kind != KindUnknown {
			r.Log.Debug().Str("entry", e.Name).Stringer("kind", e.Kind).Msg("Skip (not a regular file)")
		}
	}

	ops := Plan(dir, entries, r.Rules)
	stats.Total = len(ops)
	stats.NonFiles = NonFiles(entries)

	r.logBatchHeader(dir, &stats)

	results := r.execute(ctx, ops)

	for _, res := range results {
		stats.add(res)
		r.report(res)
		r.record(ctx, res)
	}

	r.logSummary(&stats)
	return stats, nil
}

// execute runs each op on its own errgroup task, at most Config.Workers at
// a time, and waits for all of them. Tasks never return an error, so one
// failure cannot cancel its siblings; only ctx can.
func (r *Runner) execute(ctx context.Context, ops []Op) []Result {
	results := make([]Result, len(ops))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers())
	for i, op := range ops {
		i, op := i, op
		g.Go(func() error {
			results[i] = r.apply(gctx, op)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// apply performs a single op.
func (r *Runner) apply(ctx context.Context, op Op) Result {
	res := Result{Op: op, DryRun: r.Config.DryRun}

	if op.Refused != nil {
		res.Status = StatusFailed
		res.Err = fmt.Errorf("%w: %w", ErrRename, op.Refused)
		return res
	}
	if err := ctx.Err(); err != nil {
		res.Status = StatusSkipped
		res.Err = err
		return res
	}

	status := StatusRenamed
	if !op.Changed() {
		status = StatusUnchanged
	}

	if !r.Config.DryRun {
		var err error
		if op.Changed() {
			err = r.FS.RenameNoReplace(op.Entry.Path, op.NewPath)
		} else {
			// Same path: a plain rename is a no-op on POSIX systems, and the
			// no-replace variant would refuse it.
			err = r.FS.Rename(op.Entry.Path, op.NewPath)
		}
		if err != nil {
			res.Status = StatusFailed
			res.Err = fmt.Errorf("%w: %w", ErrRename, err)
			return res
		}
	}

	res.Status = status
	return res
}

// report writes the directive for a successful result, or logs the failure.
func (r *Runner) report(res Result) {
	op := res.Op
	switch res.Status {
	case StatusRenamed, StatusUnchanged:
		if res.DryRun {
			r.Log.Info().Str("from", op.Entry.Name).Str("to", op.NewName).Msg("[DRY] Would rename")
		} else {
			r.Log.Debug().
				Str("from", op.Entry.Name).
				Str("to", op.NewName).
				Str("rules", strings.Join(r.Rules.Matched(op.Entry.Name), ",")).
				Bool("link", op.Entry.Link).
				Msg("Renamed")
		}
		_, _ = fmt.Fprintln(r.Out, display.Directive(r.Config.Folder, op.NewName))
	case StatusFailed:
		ev := r.Log.Error().Err(res.Err).Str("file", op.Entry.Name)
		if fsops.IsTargetExists(res.Err) {
			ev = ev.Str("kept", op.NewName)
		}
		ev.Msg("Error renaming file")
	case StatusSkipped:
		r.Log.Warn().Str("file", op.Entry.Name).Msg("Skip (interrupted)")
	}
}

func (r *Runner) record(ctx context.Context, res Result) {
	if r.Recorder == nil {
		return
	}
	// The journal should still see results of an interrupted run.
	if err := r.Recorder.Record(context.WithoutCancel(ctx), res); err != nil {
		r.Log.Warn().Err(err).Str("file", res.Op.Entry.Name).Msg("Journal write failed")
	}
}

func (r *Runner) workers() int {
	if r.Config.Workers < 1 {
		return 1
	}
	return r.Config.Workers
}

// --- Logging helpers ---

func (r *Runner) logBatchHeader(dir string, stats *RunStats) {
	r.Log.Info().
		Str("dir", dir).
		Str("folder", r.Config.Folder).
		Int("workers", r.workers()).
		Msgf("Found %s", display.Plural(stats.Total, "file", "files"))
	if stats.NonFiles > 0 {
		r.Log.Info().Msgf("Ignoring %s that are not regular files",
			display.Plural(stats.NonFiles, "entry", "entries"))
	}
	if r.Config.DryRun {
		r.Log.Warn().Msg("DRY RUN — no files will be renamed")
	}
}

func (r *Runner) logSummary(stats *RunStats) {
	ev := r.Log.Info()
	if stats.Failed > 0 {
		ev = r.Log.Warn()
	}
	ev.Int("renamed", stats.Renamed).
		Int("unchanged", stats.Unchanged).
		Int("failed", stats.Failed).
		Int("skipped", stats.Skipped).
		Msgf("Done: %s emitted", display.Plural(stats.Emitted(), "directive", "directives"))
}
