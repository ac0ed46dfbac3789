// Package fsutil implements the filesystem primitives behind release staging:
// resetting a directory, copying trees and files without ever merging into an
// existing destination, pruning subtrees and hashing staged files.
//
// Every failure is returned as *fs.PathError naming the operation and the
// offending path, so the CLI diagnostic always points at the exact location.
package fsutil
