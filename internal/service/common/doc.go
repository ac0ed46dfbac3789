// Package common holds helpers shared by several services.
//
// It inspects the process table to detect editors that keep rewriting the
// build-artifact directories while a release is being staged.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
