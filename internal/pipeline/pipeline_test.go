package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/testrename/internal/fsops"
	"github.com/backmassage/testrename/internal/naming"
)

// --- Discover tests ---

func TestDiscover_ClassifiesEntries(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "test_lox.lox")
	touch(t, dir, "plain.txt")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested_dir"), 0o755))
	touch(t, filepath.Join(dir, "nested_dir"), "deep_lox.lox")
	require.NoError(t, os.Symlink(filepath.Join(dir, "plain.txt"), filepath.Join(dir, "link_lox")))
	require.NoError(t, os.Symlink(filepath.Join(dir, "nested_dir"), filepath.Join(dir, "dir_link_lox")))
	require.NoError(t, os.Symlink(filepath.Join(dir, "missing"), filepath.Join(dir, "dangling_lox")))

	entries, err := Discover(fsops.OS{}, dir)
	require.NoError(t, err)

	got := map[string]EntryKind{}
	links := map[string]bool{}
	for _, e := range entries {
		got[e.Name] = e.Kind
		links[e.Name] = e.Link
		assert.Equal(t, filepath.Join(dir, e.Name), e.Path)
	}
	assert.Equal(t, map[string]EntryKind{
		"test_lox.lox": KindFile,
		"plain.txt":    KindFile,
		"nested_dir":   KindDir,
		"link_lox":     KindFile,
		"dir_link_lox": KindSymlink,
		"dangling_lox": KindSymlink,
	}, got, "must not recurse into nested_dir")
	assert.True(t, links["link_lox"])
	assert.False(t, links["plain.txt"])
}

func TestDiscover_Sorted(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"c_lox", "a_lox", "b-lox", "b_lox"} {
		touch(t, dir, name)
	}

	entries, err := Discover(fsops.OS{}, dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"a_lox", "b-lox", "b_lox", "c_lox"}, names(entries))
}

func TestDiscover_MissingDir(t *testing.T) {
	_, err := Discover(fsops.OS{}, filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDiscover_EmptyDir(t *testing.T) {
	entries, err := Discover(fsops.OS{}, t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

// --- Plan tests ---

func TestPlan_NewNamesAndPaths(t *testing.T) {
	dir := "/src/tests/operator"
	entries := []Entry{
		file(dir, "plain.txt"),
		file(dir, "test_lox_case.txt"),
	}

	ops := Plan(dir, entries, naming.DefaultRules)
	require.Len(t, ops, 2)

	assert.Equal(t, "plain.txt", ops[0].NewName)
	assert.False(t, ops[0].Changed())
	assert.Equal(t, filepath.Join(dir, "plain.txt"), ops[0].NewPath)

	assert.Equal(t, "test-lax-case.txt", ops[1].NewName)
	assert.True(t, ops[1].Changed())
	assert.Equal(t, filepath.Join(dir, "test-lax-case.txt"), ops[1].NewPath)
	assert.NoError(t, ops[1].Refused)
}

func TestPlan_SkipsNonFiles(t *testing.T) {
	dir := "/d"
	entries := []Entry{
		{Name: "sub_dir", Path: "/d/sub_dir", Kind: KindDir},
		{Name: "link_lox", Path: "/d/link_lox", Kind: KindSymlink},
		{Name: "fifo_lox", Path: "/d/fifo_lox", Kind: KindOther},
		file(dir, "a_lox"),
	}

	ops := Plan(dir, entries, naming.DefaultRules)
	require.Len(t, ops, 1)
	assert.Equal(t, "a_lox", ops[0].Entry.Name)
	assert.Equal(t, 3, NonFiles(entries))
}

func TestPlan_RefusesExistingTarget(t *testing.T) {
	dir := "/d"
	entries := []Entry{file(dir, "a-b"), file(dir, "a_b")}

	ops := Plan(dir, entries, naming.DefaultRules)
	require.Len(t, ops, 2)
	assert.NoError(t, ops[0].Refused, "unchanged name is never refused")
	assert.ErrorIs(t, ops[1].Refused, fsops.ErrTargetExists)
}

func TestPlan_RefusesTargetOfDirectory(t *testing.T) {
	dir := "/d"
	entries := []Entry{
		{Name: "x-lax", Path: "/d/x-lax", Kind: KindDir},
		file(dir, "x_lox"),
	}

	ops := Plan(dir, entries, naming.DefaultRules)
	require.Len(t, ops, 1)
	assert.ErrorIs(t, ops[0].Refused, fsops.ErrTargetExists)
}

func TestPlan_FirstClaimWins(t *testing.T) {
	dir := "/d"
	entries := []Entry{file(dir, "x-lox"), file(dir, "x_lox")}

	ops := Plan(dir, entries, naming.DefaultRules)
	require.Len(t, ops, 2)
	assert.Equal(t, "x-lax", ops[0].NewName)
	assert.Equal(t, "x-lax", ops[1].NewName)
	assert.NoError(t, ops[0].Refused)
	assert.ErrorIs(t, ops[1].Refused, naming.ErrTargetClaimed)
}

func TestPlan_StatFailureBecomesRefusedOp(t *testing.T) {
	statErr := errors.New("permission denied")
	entries := []Entry{{Name: "bad_lox", Path: "/d/bad_lox", Kind: KindUnknown, Err: statErr}}

	ops := Plan("/d", entries, naming.DefaultRules)
	require.Len(t, ops, 1)
	assert.ErrorIs(t, ops[0].Refused, statErr)
}

// --- RunStats tests ---

func TestRunStats_Add(t *testing.T) {
	var s RunStats
	for _, st := range []Status{StatusRenamed, StatusRenamed, StatusUnchanged, StatusFailed, StatusSkipped} {
		s.add(Result{Status: st})
	}
	assert.Equal(t, RunStats{Renamed: 2, Unchanged: 1, Failed: 1, Skipped: 1}, s)
	assert.Equal(t, 3, s.Emitted())
}

func TestEntryKind_String(t *testing.T) {
	assert.Equal(t, "file", KindFile.String())
	assert.Equal(t, "directory", KindDir.String())
	assert.Equal(t, "symlink", KindSymlink.String())
	assert.Equal(t, "special", KindOther.String())
	assert.Equal(t, "unknown", KindUnknown.String())
}

// --- Helpers ---

func touch(t *testing.T, dir, name string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte{}, 0o644); err != nil {
		t.Fatalf("touch %s: %v", path, err)
	}
}

func file(dir, name string) Entry {
	return Entry{Name: name, Path: filepath.Join(dir, name), Kind: KindFile}
}

func names(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}
