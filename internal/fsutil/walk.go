package fsutil

import (
	"io/fs"
	"path/filepath"
	"sort"
)

// Entry is a path found below a walked root.
type Entry struct {
	// Path is slash-separated and relative to the root.
	Path string
	// IsDir reports whether the entry is a directory.
	IsDir bool
}

// RelativePaths lists every entry below root in lexical order, root itself excluded.
func RelativePaths(root string) ([]Entry, error) {
	var entries []Entry

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if path == root {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		entries = append(entries, Entry{
			Path:  filepath.ToSlash(rel),
			IsDir: d.IsDir(),
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Path < entries[j].Path
	})

	return entries, nil
}
