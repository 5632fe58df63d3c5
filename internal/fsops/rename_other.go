//go:build !linux

package fsops

func renameNoReplace(oldPath, newPath string) error {
	return checkedRename(oldPath, newPath)
}
