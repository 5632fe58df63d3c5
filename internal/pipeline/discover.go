package pipeline

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/backmassage/testrename/internal/fsops"
)

// EntryKind classifies a directory entry.
type EntryKind int

const (
	KindFile EntryKind = iota
	KindDir
	KindSymlink // link to a directory or special file, or dangling
	KindOther
	KindUnknown // Lstat failed; see Entry.Err
)

func (k EntryKind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDir:
		return "directory"
	case KindSymlink:
		return "symlink"
	case KindOther:
		return "special"
	default:
		return "unknown"
	}
}

// Entry is one item of the target directory listing.
type Entry struct {
	Name string
	Path string
	Kind EntryKind
	Link bool  // symlink to a regular file; the link itself is renamed
	Err  error // set when Kind is KindUnknown
}

// Discover lists the immediate entries of dir (no recursion) and classifies
// each one with Lstat. A symlink whose target is a regular file counts as a
// file; links to anything else and dangling links do not. Entries are
// returned sorted by name for deterministic processing. A failed listing is
// returned as an error; a failed Lstat is recorded on the entry.
func Discover(fsys fsops.Filesystem, dir string) ([]Entry, error) {
	dirEntries, err := fsys.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, d := range dirEntries {
		e := Entry{Name: d.Name(), Path: filepath.Join(dir, d.Name())}
		info, err := fsys.Lstat(e.Path)
		if err != nil {
			e.Kind = KindUnknown
			e.Err = fmt.Errorf("%w: %s: %w", ErrStat, e.Name, err)
		} else {
			e.Kind = kindOf(info.Mode())
		}
		if e.Kind == KindSymlink {
			if target, err := fsys.Stat(e.Path); err == nil && target.Mode().IsRegular() {
				e.Kind = KindFile
				e.Link = true
			}
		}
		entries = append(entries, e)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

func kindOf(mode fs.FileMode) EntryKind {
	switch {
	case mode.IsRegular():
		return KindFile
	case mode.IsDir():
		return KindDir
	case mode&fs.ModeSymlink != 0:
		return KindSymlink
	default:
		return KindOther
	}
}
