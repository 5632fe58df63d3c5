// Package fsops is the filesystem port used by the rename pipeline. The OS
// implementation talks to the real filesystem; tests substitute the gomock
// double in internal/mock.
package fsops

//go:generate mockgen -source=fs.go -destination=../mock/fs_mock.go -package=mock

import (
	"errors"
	"io/fs"
	"os"
)

// ErrTargetExists is returned by [Filesystem.RenameNoReplace] when something
// already occupies the new path.
var ErrTargetExists = errors.New("target already exists")

// Filesystem is the set of filesystem operations the pipeline needs.
type Filesystem interface {
	// ReadDir lists the immediate entries of dir.
	ReadDir(dir string) ([]fs.DirEntry, error)
	// Lstat describes path without following a final symlink.
	Lstat(path string) (fs.FileInfo, error)
	// Stat describes path, following symlinks.
	Stat(path string) (fs.FileInfo, error)
	// Rename moves oldPath to newPath, replacing newPath if it exists.
	Rename(oldPath, newPath string) error
	// RenameNoReplace moves oldPath to newPath and fails with
	// ErrTargetExists instead of replacing an existing newPath.
	RenameNoReplace(oldPath, newPath string) error
}

// OS implements Filesystem on top of package os.
type OS struct{}

var _ Filesystem = OS{}

func (OS) ReadDir(dir string) ([]fs.DirEntry, error) { return os.ReadDir(dir) }

func (OS) Lstat(path string) (fs.FileInfo, error) { return os.Lstat(path) }

func (OS) Stat(path string) (fs.FileInfo, error) { return os.Stat(path) }

func (OS) Rename(oldPath, newPath string) error { return os.Rename(oldPath, newPath) }

func (OS) RenameNoReplace(oldPath, newPath string) error {
	return renameNoReplace(oldPath, newPath)
}

// checkedRename is the portable no-replace rename: Lstat the target, then
// rename. There is a window between the two calls, so platforms with an
// atomic primitive use that instead.
func checkedRename(oldPath, newPath string) error {
	_, err := os.Lstat(newPath)
	switch {
	case err == nil:
		return existsError(oldPath, newPath)
	case !errors.Is(err, fs.ErrNotExist):
		return err
	}
	return os.Rename(oldPath, newPath)
}

func existsError(oldPath, newPath string) error {
	return &os.LinkError{Op: "rename", Old: oldPath, New: newPath, Err: ErrTargetExists}
}

// IsTargetExists reports whether err came from a refused overwrite.
func IsTargetExists(err error) bool {
	return errors.Is(err, ErrTargetExists)
}
