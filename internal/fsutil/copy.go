package fsutil

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	// DirMode is used for directories created without a source counterpart.
	DirMode os.FileMode = 0o755
)

var (
	// ErrSourceMissing is returned when a copy source does not exist.
	ErrSourceMissing = errors.New("source does not exist")
	// ErrDestinationExists is returned when a copy target is already present.
	ErrDestinationExists = errors.New("destination already exists")
	// ErrNotDirectory is returned when a directory was expected.
	ErrNotDirectory = errors.New("not a directory")
	// ErrNotRegularFile is returned when a file copy source is not a regular file.
	ErrNotRegularFile = errors.New("not a regular file")
)

// CopyTree recursively copies the directory src to dst.
// The destination must not exist; its parents are created as needed.
// Symlinks are followed and their targets copied. File modes and
// modification times are preserved.
func CopyTree(src, dst string) error {
	info, err := statSource("copytree", src)
	if err != nil {
		return err
	}

	if !info.IsDir() {
		return &fs.PathError{Op: "copytree", Path: src, Err: ErrNotDirectory}
	}

	if err = ensureAbsent("copytree", dst); err != nil {
		return err
	}

	if err = os.MkdirAll(filepath.Dir(dst), DirMode); err != nil {
		return &fs.PathError{Op: "copytree", Path: filepath.Dir(dst), Err: err}
	}

	return copyDir(src, dst, info)
}

// CopyFile copies the regular file src to dst, which must not exist.
func CopyFile(src, dst string) error {
	info, err := statSource("copyfile", src)
	if err != nil {
		return err
	}

	if !info.Mode().IsRegular() {
		return &fs.PathError{Op: "copyfile", Path: src, Err: ErrNotRegularFile}
	}

	if err = ensureAbsent("copyfile", dst); err != nil {
		return err
	}

	if err = os.MkdirAll(filepath.Dir(dst), DirMode); err != nil {
		return &fs.PathError{Op: "copyfile", Path: filepath.Dir(dst), Err: err}
	}

	return copyFile(src, dst, info)
}

// copyDir creates dst with the mode of src and copies every entry.
func copyDir(src, dst string, info os.FileInfo) error {
	// Owner access is granted until every entry is written; the source mode is applied last.
	if err := os.Mkdir(dst, info.Mode().Perm()|0o700); err != nil {
		return &fs.PathError{Op: "mkdir", Path: dst, Err: unwrapPathError(err)}
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return &fs.PathError{Op: "readdir", Path: src, Err: unwrapPathError(err)}
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		// Stat follows symlinks, so linked directories are copied as directories.
		entryInfo, err := os.Stat(srcPath)
		if err != nil {
			return &fs.PathError{Op: "stat", Path: srcPath, Err: unwrapPathError(err)}
		}

		switch {
		case entryInfo.IsDir():
			err = copyDir(srcPath, dstPath, entryInfo)
		case entryInfo.Mode().IsRegular():
			err = copyFile(srcPath, dstPath, entryInfo)
		default:
			err = &fs.PathError{Op: "copy", Path: srcPath, Err: ErrNotRegularFile}
		}

		if err != nil {
			return err
		}
	}

	if err = os.Chmod(dst, info.Mode().Perm()); err != nil {
		return &fs.PathError{Op: "chmod", Path: dst, Err: unwrapPathError(err)}
	}

	if err = os.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		return &fs.PathError{Op: "chtimes", Path: dst, Err: unwrapPathError(err)}
	}

	return nil
}

// copyFile streams src into a freshly created dst.
func copyFile(src, dst string, info os.FileInfo) (err error) {
	in, err := os.Open(filepath.Clean(src))
	if err != nil {
		return &fs.PathError{Op: "open", Path: src, Err: unwrapPathError(err)}
	}

	defer func() {
		_ = in.Close()
	}()

	out, err := os.OpenFile(filepath.Clean(dst), os.O_CREATE|os.O_EXCL|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return &fs.PathError{Op: "create", Path: dst, Err: ErrDestinationExists}
		}

		return &fs.PathError{Op: "create", Path: dst, Err: unwrapPathError(err)}
	}

	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = &fs.PathError{Op: "close", Path: dst, Err: unwrapPathError(closeErr)}
		}
	}()

	if _, err = io.Copy(out, in); err != nil {
		return &fs.PathError{Op: "write", Path: dst, Err: unwrapPathError(err)}
	}

	if err = out.Chmod(info.Mode().Perm()); err != nil {
		return &fs.PathError{Op: "chmod", Path: dst, Err: unwrapPathError(err)}
	}

	if err = os.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		return &fs.PathError{Op: "chtimes", Path: dst, Err: unwrapPathError(err)}
	}

	return nil
}

// statSource stats a copy source, following symlinks.
func statSource(op, src string) (os.FileInfo, error) {
	info, err := os.Stat(src)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &fs.PathError{Op: op, Path: src, Err: ErrSourceMissing}
	}

	if err != nil {
		return nil, &fs.PathError{Op: op, Path: src, Err: unwrapPathError(err)}
	}

	return info, nil
}

// ensureAbsent fails unless nothing, not even a dangling symlink, exists at dst.
func ensureAbsent(op, dst string) error {
	_, err := os.Lstat(dst)
	if err == nil {
		return &fs.PathError{Op: op, Path: dst, Err: ErrDestinationExists}
	}

	if !errors.Is(err, fs.ErrNotExist) {
		return &fs.PathError{Op: op, Path: dst, Err: unwrapPathError(err)}
	}

	return nil
}

// unwrapPathError strips the os-level *fs.PathError so the path is reported once.
func unwrapPathError(err error) error {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Err
	}

	return err
}
