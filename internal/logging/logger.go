// Package logging provides the leveled logger used across testrename.
//
// Logger embeds zerolog.Logger, so the full zerolog API (Info, Warn, Error,
// Debug, With, ...) is available directly. Human-readable output goes to
// stderr through a console writer; stdout is reserved for directive lines.
// When a log file is configured, the same events are appended to it as JSON.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/backmassage/testrename/internal/config"
	"github.com/backmassage/testrename/internal/term"
)

const timeFormat = "2006-01-02 15:04:05"

// Logger is a thin wrapper around zerolog.Logger with an optional file sink.
type Logger struct {
	zerolog.Logger

	mu   sync.Mutex
	file *os.File
}

// NewLogger resolves colors from cfg, sets the level (debug when verbose) and
// optionally opens cfg.LogFile for appending. Call Close when done.
func NewLogger(cfg *config.Config) (*Logger, error) {
	term.Configure(cfg.ColorMode)

	console := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		NoColor:    !term.Enabled(),
		TimeFormat: timeFormat,
	}

	writers := []io.Writer{console}
	var file *os.File
	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		file = f
		writers = append(writers, f)
	}

	l := New(zerolog.MultiLevelWriter(writers...), levelFor(cfg.Verbose))
	l.file = file
	return l, nil
}

// New returns a Logger writing to w at the given level. Used by NewLogger and
// by tests that need to inspect output.
func New(w io.Writer, level zerolog.Level) *Logger {
	zl := zerolog.New(w).Level(level).With().Timestamp().Logger()
	return &Logger{Logger: zl}
}

// Nop returns a Logger that discards all output.
func Nop() *Logger {
	return &Logger{Logger: zerolog.Nop()}
}

// WithFields returns a child Logger carrying the extra fields added by fn. The
// child shares the parent's writers; only the parent should be closed.
func (l *Logger) WithFields(fn func(zerolog.Context) zerolog.Context) *Logger {
	return &Logger{Logger: fn(l.Logger.With()).Logger()}
}

// Close closes the log file if one was opened.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

func levelFor(verbose bool) zerolog.Level {
	if verbose {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}
