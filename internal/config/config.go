// Package config holds runtime configuration: defaults, environment and CLI
// flag parsing, merging, and validation. With no overrides the target is
// <executable dir>/tests/operator.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ColorMode controls ANSI color output on stderr.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stderr is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

const (
	// DefaultFolder is the directory label used both in the target path and
	// in every emitted set_property line.
	DefaultFolder = "operator"
	// TestsDir is the fixed segment between the base directory and the folder.
	TestsDir = "tests"
	// DefaultWorkers bounds the number of concurrent rename tasks.
	DefaultWorkers = 8
)

// Config holds all runtime settings. It is produced by [Load], which layers
// [DefaultConfig], environment variables and CLI flags in that order.
type Config struct {
	// Target selection.
	Folder  string `env:"FOLDER"`   // Default: "operator".
	BaseDir string `env:"BASE_DIR"` // Default: directory of the executable.

	// Behavior.
	DryRun  bool `env:"DRY_RUN"`
	Workers int  `env:"WORKERS"` // Default: 8.

	// Display and logging.
	Verbose   bool      `env:"VERBOSE"`
	ColorMode ColorMode `env:"COLOR"`    // Default: "auto".
	LogFile   string    `env:"LOG_FILE"` // Optional log file path.

	// JournalPath enables the SQLite rename journal when non-empty.
	JournalPath string `env:"JOURNAL"`

	// Utility modes, flag-only.
	CheckOnly   bool `env:"-"`
	ShowVersion bool `env:"-"`
}

// DefaultConfig returns the zero-argument configuration.
func DefaultConfig() Config {
	return Config{
		Folder:    DefaultFolder,
		Workers:   DefaultWorkers,
		ColorMode: ColorAuto,
	}
}

// Validate checks enum fields and that Folder is a single path segment.
func (c *Config) Validate() error {
	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return fmt.Errorf("%w: color %q (use 'auto', 'always' or 'never')", ErrInvalidConfig, c.ColorMode)
	}

	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1 (got %d)", ErrInvalidConfig, c.Workers)
	}
	return ValidateFolder(c.Folder)
}

// ValidateFolder checks that name is usable both as one directory segment and
// as the label in a set_property line.
func ValidateFolder(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: folder must not be empty", ErrInvalidConfig)
	case name == "." || name == "..":
		return fmt.Errorf("%w: folder %q is not allowed", ErrInvalidConfig, name)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("%w: folder %q must not contain path separators", ErrInvalidConfig, name)
	case strings.ContainsAny(name, " \t\n\"()"):
		return fmt.Errorf("%w: folder %q contains characters that break the set_property line", ErrInvalidConfig, name)
	}
	return nil
}

// TargetDir returns <BaseDir>/tests/<Folder>. An empty BaseDir resolves to
// the directory holding the running executable, symlinks resolved.
func (c *Config) TargetDir() (string, error) {
	base := c.BaseDir
	if base == "" {
		exe, err := executableDir()
		if err != nil {
			return "", err
		}
		base = exe
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return "", fmt.Errorf("resolve base directory %q: %w", base, err)
	}
	return filepath.Join(abs, TestsDir, c.Folder), nil
}

var errNoExecutable = errors.New("cannot locate executable")

func executableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("%w: %v", errNoExecutable, err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}
