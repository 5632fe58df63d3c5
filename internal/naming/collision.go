package naming

import (
	"errors"
	"fmt"
	"sync"
)

// ErrTargetClaimed is returned when a target name is already claimed by
// another source in the same batch.
var ErrTargetClaimed = errors.New("target already claimed in this batch")

// CollisionTracker records which source name owns each target name during a
// single run. Unlike a resolver it never invents an alternative name; the
// second claimant gets an error and is left untouched on disk. All methods
// are goroutine-safe.
type CollisionTracker struct {
	mu     sync.Mutex
	owners map[string]string // target name → source name that owns it
}

// NewCollisionTracker creates a ready-to-use tracker.
func NewCollisionTracker() *CollisionTracker {
	return &CollisionTracker{owners: make(map[string]string)}
}

// Claim reserves target for source. Claiming the same pair twice is allowed.
func (ct *CollisionTracker) Claim(source, target string) error {
	ct.mu.Lock()
	defer ct.mu.Unlock()

	owner, exists := ct.owners[target]
	if exists && owner != source {
		return fmt.Errorf("%w: %s -> %s (owned by %s)", ErrTargetClaimed, source, target, owner)
	}
	ct.owners[target] = source
	return nil
}
