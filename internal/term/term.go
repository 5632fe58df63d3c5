// Package term resolves the color mode and detects terminals.
//
// Color state is package-level because both logging and display need it.
// [Configure] sets it once during startup; diagnostics go to stderr, so the
// auto mode looks at stderr rather than stdout, which carries directive lines.
package term

import (
	"os"
	"strings"
	"sync/atomic"

	"github.com/backmassage/testrename/internal/config"
)

var enabled atomic.Bool

// Configure resolves mode against the environment and stores the result.
// Call once during startup (from [logging.NewLogger]).
func Configure(mode config.ColorMode) {
	enabled.Store(resolve(mode, os.Stderr))
}

// Enabled reports whether ANSI colors are currently active.
func Enabled() bool { return enabled.Load() }

// resolve determines whether colors should be enabled based on the configured
// mode, TTY detection, and the NO_COLOR env var (https://no-color.org).
func resolve(mode config.ColorMode, out *os.File) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	default: // ColorAuto
		return IsTerminal(out) &&
			os.Getenv("NO_COLOR") == "" &&
			strings.ToLower(os.Getenv("TERM")) != "dumb"
	}
}

// IsTerminal reports whether f is attached to a TTY (character device).
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
