// Package version exposes build metadata for ue-release.
//
// Version, Commit and BuildTime are injected with -ldflags at release time.
package version
