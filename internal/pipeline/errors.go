package pipeline

import "errors"

var (
	// ErrDirectoryRead is fatal: nothing is renamed when listing fails.
	ErrDirectoryRead = errors.New("error reading directory")
	// ErrRename wraps every per-file failure. Other files are unaffected.
	ErrRename = errors.New("error renaming file")
	// ErrStat marks a per-file failure to classify an entry.
	ErrStat = errors.New("error reading file info")
)
