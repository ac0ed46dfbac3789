// Package config describes the release layout: which project folders are
// staged, where they land inside the release root and which build-artifact
// directories are pruned from the plugin copies.
//
// The layout is fixed. It ships inside the binary as layout.yaml and is
// decoded with yaml.v3; only Root, the project directory, is set at runtime.
package config
