// Package check provides the --check diagnostics: it verifies that the
// target directory can be listed and written, and previews what a run would
// do without renaming anything.
package check

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"

	"github.com/backmassage/testrename/internal/config"
	"github.com/backmassage/testrename/internal/display"
	"github.com/backmassage/testrename/internal/fsops"
	"github.com/backmassage/testrename/internal/logging"
	"github.com/backmassage/testrename/internal/naming"
	"github.com/backmassage/testrename/internal/pipeline"
)

// Sentinel errors returned by Preflight.
var (
	ErrNotFound    = errors.New("target directory not found")
	ErrNotDir      = errors.New("target path is not a directory")
	ErrNotReadable = errors.New("target directory is not readable")
	ErrNotWritable = errors.New("target directory is not writable")
)

// Preflight verifies that dir exists, is a directory, can be listed, and
// accepts new entries. The write probe creates and removes a temp file.
func Preflight(dir string) error {
	info, err := os.Stat(dir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %s", ErrNotFound, dir)
	case err != nil:
		return fmt.Errorf("%w: %s: %w", ErrNotReadable, dir, err)
	case !info.IsDir():
		return fmt.Errorf("%w: %s", ErrNotDir, dir)
	}

	if _, err := os.ReadDir(dir); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrNotReadable, dir, err)
	}

	probe, err := os.CreateTemp(dir, ".testrename-check-*")
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrNotWritable, dir, err)
	}
	name := probe.Name()
	_ = probe.Close()
	if err := os.Remove(name); err != nil {
		return fmt.Errorf("%w: cannot remove probe %s: %w", ErrNotWritable, name, err)
	}
	return nil
}

// Preview summarizes what a run over dir would do.
type Preview struct {
	Files     int // regular files
	Pending   int // files whose name would change
	Refused   int // files that would fail (collision or stat error)
	NonFiles  int
	Conflicts []string
}

// BuildPreview plans a run over dir without executing it.
func BuildPreview(fsys fsops.Filesystem, dir string) (Preview, error) {
	entries, err := pipeline.Discover(fsys, dir)
	if err != nil {
		return Preview{}, err
	}

	var p Preview
	p.NonFiles = pipeline.NonFiles(entries)
	for _, op := range pipeline.Plan(dir, entries, naming.DefaultRules) {
		p.Files++
		switch {
		case op.Refused != nil:
			p.Refused++
			p.Conflicts = append(p.Conflicts, op.Refused.Error())
		case op.Changed():
			p.Pending++
		}
	}
	return p, nil
}

// RunCheck runs the --check flow: it prints the resolved target and a
// preview table to w and logs problems. It returns false when the target
// is unusable or a run would refuse some files.
func RunCheck(cfg *config.Config, dir string, log *logging.Logger, w io.Writer) bool {
	log.Info().Msg("=== Target Check ===")

	rows := [][2]string{
		{"Folder", cfg.Folder},
		{"Directory", dir},
	}

	if err := Preflight(dir); err != nil {
		display.KeyValues(w, rows)
		log.Error().Err(err).Msg("Target directory unusable")
		return false
	}

	p, err := BuildPreview(fsops.OS{}, dir)
	if err != nil {
		display.KeyValues(w, rows)
		log.Error().Err(err).Msg("Error reading directory")
		return false
	}

	rows = append(rows,
		[2]string{"Regular files", strconv.Itoa(p.Files)},
		[2]string{"Would rename", strconv.Itoa(p.Pending)},
		[2]string{"Would refuse", strconv.Itoa(p.Refused)},
		[2]string{"Ignored entries", strconv.Itoa(p.NonFiles)},
	)
	display.KeyValues(w, rows)

	for _, c := range p.Conflicts {
		log.Warn().Msg(c)
	}
	if p.Refused > 0 {
		log.Warn().Msgf("%s would fail", display.Plural(p.Refused, "file", "files"))
		return false
	}
	log.Info().Msg("Target directory OK")
	return true
}
