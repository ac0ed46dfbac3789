package fsutil

import (
	"errors"
	"io/fs"
	"os"
)

// ErrPruneTargetMissing is returned by strict RemoveTree when the path is absent.
var ErrPruneTargetMissing = errors.New("prune target does not exist")

// ResetDir leaves an empty directory at path, removing a previous one with all of its contents.
// A non-directory at path is an error and is left untouched.
func ResetDir(path string) error {
	info, err := os.Lstat(path)

	switch {
	case err == nil && !info.IsDir():
		return &fs.PathError{Op: "reset", Path: path, Err: ErrNotDirectory}
	case err == nil:
		if err = os.RemoveAll(path); err != nil {
			return &fs.PathError{Op: "reset", Path: path, Err: unwrapPathError(err)}
		}
	case !errors.Is(err, fs.ErrNotExist):
		return &fs.PathError{Op: "reset", Path: path, Err: unwrapPathError(err)}
	}

	if err = os.Mkdir(path, DirMode); err != nil {
		return &fs.PathError{Op: "reset", Path: path, Err: unwrapPathError(err)}
	}

	return nil
}

// RemoveTree deletes path and everything below it and reports whether anything was removed.
// An absent path is a no-op unless strict is set, in which case ErrPruneTargetMissing is returned.
func RemoveTree(path string, strict bool) (bool, error) {
	_, err := os.Lstat(path)
	if errors.Is(err, fs.ErrNotExist) {
		if strict {
			return false, &fs.PathError{Op: "prune", Path: path, Err: ErrPruneTargetMissing}
		}

		return false, nil
	}

	if err != nil {
		return false, &fs.PathError{Op: "prune", Path: path, Err: unwrapPathError(err)}
	}

	if err = os.RemoveAll(path); err != nil {
		return false, &fs.PathError{Op: "prune", Path: path, Err: unwrapPathError(err)}
	}

	return true, nil
}
