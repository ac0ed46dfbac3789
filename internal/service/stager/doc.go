// Package stager builds the Unreal Engine release folder.
//
// A run resets the release root, mirrors the plugin tree into it and copies
// the demo project next to it, pruning the plugin build artifacts from both
// copies. Steps run in a fixed order and the first failure aborts the run,
// leaving the release root as it is; the next run starts from a fresh reset.
package stager
