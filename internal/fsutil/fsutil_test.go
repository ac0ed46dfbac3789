package fsutil

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// writeTree creates files with the given contents below root; a trailing slash creates an empty directory.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()

	for name, contents := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if name[len(name)-1] == '/' {
			require.NoError(t, os.MkdirAll(path, DirMode))
			continue
		}

		require.NoError(t, os.MkdirAll(filepath.Dir(path), DirMode))
		require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	}
}

func paths(t *testing.T, root string) []string {
	t.Helper()

	entries, err := RelativePaths(root)
	require.NoError(t, err)

	result := make([]string, 0, len(entries))
	for _, entry := range entries {
		result = append(result, entry.Path)
	}

	return result
}

// TestCopyTree_Mirrors checks that the destination has the same relative paths and contents as the source.
func TestCopyTree_Mirrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "Plugins")
	dst := filepath.Join(dir, "out", "nested", "UE Plugin")

	writeTree(t, src, map[string]string{
		"Teslasuit/Teslasuit.uplugin":          `{"FileVersion": 3}`,
		"Teslasuit/Source/Teslasuit/Module.cs": "using UnrealBuildTool;",
		"Teslasuit/Binaries/Win64/x.dll":       "MZ",
		"Teslasuit/Resources/":                 "",
	})

	require.NoError(t, CopyTree(src, dst))
	require.Equal(t, paths(t, src), paths(t, dst))

	got, err := os.ReadFile(filepath.Join(dst, "Teslasuit", "Source", "Teslasuit", "Module.cs"))
	require.NoError(t, err)
	require.Equal(t, "using UnrealBuildTool;", string(got))
}

// TestCopyTree_PreservesModeAndTime verifies file metadata survives the copy.
func TestCopyTree_PreservesModeAndTime(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("unix permissions")
	}

	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	writeTree(t, src, map[string]string{"run.sh": "#!/bin/sh"})

	script := filepath.Join(src, "run.sh")
	stamp := time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC)

	require.NoError(t, os.Chmod(script, 0o750))
	require.NoError(t, os.Chtimes(script, stamp, stamp))

	dst := filepath.Join(dir, "dst")
	require.NoError(t, CopyTree(src, dst))

	info, err := os.Stat(filepath.Join(dst, "run.sh"))
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o750), info.Mode().Perm())
	require.True(t, stamp.Equal(info.ModTime()))
}

// TestCopyTree_FollowsSymlinks ensures linked files and directories are materialized in the copy.
func TestCopyTree_FollowsSymlinks(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}

	dir := t.TempDir()
	shared := filepath.Join(dir, "shared")
	writeTree(t, shared, map[string]string{"icon.png": "png"})

	src := filepath.Join(dir, "src")
	writeTree(t, src, map[string]string{"Resources/": ""})
	require.NoError(t, os.Symlink(shared, filepath.Join(src, "Resources", "Shared")))

	dst := filepath.Join(dir, "dst")
	require.NoError(t, CopyTree(src, dst))

	info, err := os.Lstat(filepath.Join(dst, "Resources", "Shared"))
	require.NoError(t, err)
	require.True(t, info.IsDir())

	got, err := os.ReadFile(filepath.Join(dst, "Resources", "Shared", "icon.png"))
	require.NoError(t, err)
	require.Equal(t, "png", string(got))
}

// TestCopyTree_Errors covers missing sources, existing destinations and file sources.
func TestCopyTree_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"src/a.txt":     "a",
		"taken/":        "",
		"file.uproject": "{}",
	})

	err := CopyTree(filepath.Join(dir, "missing"), filepath.Join(dir, "out"))
	require.ErrorIs(t, err, ErrSourceMissing)

	var pathErr *fs.PathError

	require.ErrorAs(t, err, &pathErr)
	require.Equal(t, filepath.Join(dir, "missing"), pathErr.Path)

	err = CopyTree(filepath.Join(dir, "src"), filepath.Join(dir, "taken"))
	require.ErrorIs(t, err, ErrDestinationExists)

	entries, err := os.ReadDir(filepath.Join(dir, "taken"))
	require.NoError(t, err)
	require.Empty(t, entries, "existing destination must not be merged into")

	err = CopyTree(filepath.Join(dir, "file.uproject"), filepath.Join(dir, "out"))
	require.ErrorIs(t, err, ErrNotDirectory)
}

// TestCopyFile copies bytes exactly and refuses to overwrite.
func TestCopyFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	contents := bytes.Repeat([]byte{0x00, 0xff, 'u'}, 4096)
	src := filepath.Join(dir, "TeslasuitPlugin.uproject")
	require.NoError(t, os.WriteFile(src, contents, 0o644))

	dst := filepath.Join(dir, "release", "TeslasuitPlugin.uproject")
	require.NoError(t, CopyFile(src, dst))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Equal(t, contents, got)

	require.ErrorIs(t, CopyFile(src, dst), ErrDestinationExists)
	require.ErrorIs(t, CopyFile(filepath.Join(dir, "nope"), filepath.Join(dir, "x")), ErrSourceMissing)
	require.ErrorIs(t, CopyFile(dir, filepath.Join(dir, "y")), ErrNotRegularFile)
}

// TestResetDir_Idempotent checks that reset always ends with an empty directory.
func TestResetDir_Idempotent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	release := filepath.Join(dir, "Unreal Engine Release")

	// Absent target.
	require.NoError(t, ResetDir(release))
	require.Empty(t, paths(t, release))

	// Populated target.
	writeTree(t, release, map[string]string{
		"UE Plugin/Teslasuit/a.txt": "a",
		"stale.txt":                 "old",
	})
	require.NoError(t, ResetDir(release))
	require.Empty(t, paths(t, release))

	// Twice in a row.
	require.NoError(t, ResetDir(release))
	require.Empty(t, paths(t, release))
}

// TestResetDir_RejectsFile ensures a file at the release path is reported and kept.
func TestResetDir_RejectsFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "Unreal Engine Release")
	require.NoError(t, os.WriteFile(path, []byte("not a dir"), 0o644))

	require.ErrorIs(t, ResetDir(path), ErrNotDirectory)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "not a dir", string(got))
}

// TestRemoveTree covers tolerant and strict pruning.
func TestRemoveTree(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"Teslasuit/Binaries/Win64/x.dll": "MZ"})

	target := filepath.Join(dir, "Teslasuit", "Binaries")

	removed, err := RemoveTree(target, true)
	require.NoError(t, err)
	require.True(t, removed)
	require.NoDirExists(t, target)

	removed, err = RemoveTree(target, false)
	require.NoError(t, err)
	require.False(t, removed)

	_, err = RemoveTree(target, true)
	require.ErrorIs(t, err, ErrPruneTargetMissing)
}

// TestFileChecksum distinguishes different contents and matches identical ones.
func TestFileChecksum(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"a": "same",
		"b": "same",
		"c": "other",
	})

	a, err := FileChecksum(filepath.Join(dir, "a"))
	require.NoError(t, err)
	require.Len(t, a, ChecksumFunction.Size())

	b, err := FileChecksum(filepath.Join(dir, "b"))
	require.NoError(t, err)
	require.Equal(t, a, b)

	c, err := FileChecksum(filepath.Join(dir, "c"))
	require.NoError(t, err)
	require.NotEqual(t, a, c)

	_, err = FileChecksum(filepath.Join(dir, "missing"))
	require.ErrorIs(t, err, fs.ErrNotExist)
}
