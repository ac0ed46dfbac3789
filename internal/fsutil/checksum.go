package fsutil

import (
	"crypto"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	// Ensure SHA512 is linked for checksum calculation.
	_ "crypto/sha512"
)

// ChecksumFunction is used to compare staged files with their sources.
const ChecksumFunction crypto.Hash = crypto.SHA512

var errHashUnavailable = errors.New("hash function unavailable")

// FileChecksum returns the checksum of the file at path.
func FileChecksum(path string) ([]byte, error) {
	if !ChecksumFunction.Available() {
		return nil, &fs.PathError{Op: "checksum", Path: path, Err: errHashUnavailable}
	}

	file, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, &fs.PathError{Op: "checksum", Path: path, Err: unwrapPathError(err)}
	}

	defer func() {
		_ = file.Close()
	}()

	hasher := ChecksumFunction.New()
	if _, err = io.Copy(hasher, file); err != nil {
		return nil, &fs.PathError{Op: "checksum", Path: path, Err: unwrapPathError(err)}
	}

	return hasher.Sum(nil), nil
}
