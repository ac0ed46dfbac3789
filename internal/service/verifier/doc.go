// Package verifier checks a staged release against the project it was built from.
//
// It never modifies the filesystem. Findings cover the top-level shape of the
// release root, leftover build artifacts, paths missing from or added to the
// copies, and files whose contents differ from their sources.
package verifier
