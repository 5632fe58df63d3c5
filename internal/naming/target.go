package naming

import "path/filepath"

// TargetPath joins dir and the rewritten name. newName must be a single
// path segment, which holds for every name read from a directory listing.
func TargetPath(dir, newName string) string {
	return filepath.Join(dir, newName)
}
