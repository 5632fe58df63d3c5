package pipeline

import (
	"fmt"

	"github.com/backmassage/testrename/internal/fsops"
	"github.com/backmassage/testrename/internal/naming"
)

// Op is one planned rename.
type Op struct {
	Entry   Entry
	NewName string
	NewPath string
	// Refused is set when the rename must not be attempted: the entry could
	// not be classified, or its target is already taken.
	Refused error
}

// Changed reports whether the rename moves the file to a different name.
func (o Op) Changed() bool {
	return o.NewName != o.Entry.Name
}

// Plan builds the ops for entries, in entry order. Only regular files and
// entries that failed Lstat become ops; everything else is left alone.
//
// Targets are checked against every name in the listing (files, directories
// and links alike) and against targets already claimed earlier in the batch.
// A colliding op is refused instead of overwriting or picking another name.
func Plan(dir string, entries []Entry, rules naming.Rules) []Op {
	existing := make(map[string]bool, len(entries))
	for _, e := range entries {
		existing[e.Name] = true
	}

	tracker := naming.NewCollisionTracker()
	var ops []Op
	for _, e := range entries {
		switch e.Kind {
		case KindFile:
		case KindUnknown:
			ops = append(ops, Op{Entry: e, NewName: e.Name, NewPath: e.Path, Refused: e.Err})
			continue
		default:
			continue
		}

		newName := rules.Apply(e.Name)
		op := Op{Entry: e, NewName: newName, NewPath: naming.TargetPath(dir, newName)}

		if op.Changed() {
			if existing[newName] {
				op.Refused = fmt.Errorf("%s -> %s: %w", e.Name, newName, fsops.ErrTargetExists)
			} else if err := tracker.Claim(e.Name, newName); err != nil {
				op.Refused = err
			}
		}
		ops = append(ops, op)
	}
	return ops
}

// NonFiles counts entries Plan leaves alone.
func NonFiles(entries []Entry) int {
	n := 0
	for _, e := range entries {
		if e.Kind != KindFile && e.Kind != KindUnknown {
			n++
		}
	}
	return n
}
