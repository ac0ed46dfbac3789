package verifier

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/oshokin/ue-release/internal/config"
	"github.com/oshokin/ue-release/internal/fsutil"
	"github.com/oshokin/ue-release/internal/logger"
)

// Kind classifies a verification finding.
type Kind string

const (
	// KindUnexpectedEntry is a path present in the release but not expected there.
	KindUnexpectedEntry Kind = "unexpected"
	// KindMissingEntry is an expected path absent from the release.
	KindMissingEntry Kind = "missing"
	// KindBuildArtifact is a build-artifact directory left in a plugin copy.
	KindBuildArtifact Kind = "build-artifact"
	// KindTypeMismatch is a path that is a file on one side and a directory on the other.
	KindTypeMismatch Kind = "type-mismatch"
	// KindContentMismatch is a file whose checksum differs from its source.
	KindContentMismatch Kind = "content-mismatch"
)

// Finding is a single problem found in the release.
type Finding struct {
	// Kind classifies the problem.
	Kind Kind
	// Path is slash-separated and relative to the release root.
	Path string
}

// Report is the outcome of a verification run.
type Report struct {
	// ReleaseRoot is the verified directory.
	ReleaseRoot string
	// FilesCompared counts files whose checksums were compared with their sources.
	FilesCompared int
	// Findings lists every problem in discovery order.
	Findings []Finding
}

// Options contains inputs for the verifier entry point.
type Options struct {
	// Layout overrides the embedded release layout. Nil means config.Default.
	Layout *config.Layout
}

// ErrReleaseMissing is returned when there is no release root to verify.
var ErrReleaseMissing = errors.New("release root does not exist")

// OK reports whether the release has no findings.
func (r *Report) OK() bool {
	return len(r.Findings) == 0
}

// Run verifies the release described by opts.
func Run(ctx context.Context, opts *Options) (*Report, error) {
	ctx = logger.WithName(ctx, "ue-release-verify")

	var layout *config.Layout
	if opts != nil {
		layout = opts.Layout
	}

	if layout == nil {
		var err error

		if layout, err = config.Default(); err != nil {
			return nil, fmt.Errorf("resolve layout: %w", err)
		}
	} else if err := config.Validate(layout); err != nil {
		return nil, fmt.Errorf("resolve layout: %w", err)
	}

	return Verify(ctx, layout)
}

// Verify compares the release root of layout with the project sources.
func Verify(ctx context.Context, layout *config.Layout) (*Report, error) {
	root := layout.ReleaseRoot()

	info, err := os.Stat(root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &fs.PathError{Op: "verify", Path: root, Err: ErrReleaseMissing}
	}

	if err != nil {
		return nil, fmt.Errorf("verify: %w", err)
	}

	if !info.IsDir() {
		return nil, &fs.PathError{Op: "verify", Path: root, Err: fsutil.ErrNotDirectory}
	}

	v := &verification{
		layout: layout,
		report: &Report{ReleaseRoot: root},
	}

	logger.InfoKV(ctx, "Verifying release", "release_root", root)

	checks := []func() error{
		v.checkTopLevel,
		v.checkBuildArtifacts,
		v.checkPlugin,
		v.checkDemoProject,
	}

	for _, check := range checks {
		if err = ctx.Err(); err != nil {
			return nil, err
		}

		if err = check(); err != nil {
			return nil, err
		}
	}

	logger.InfoKV(ctx, "Release verified",
		"files_compared", v.report.FilesCompared, "findings", len(v.report.Findings))

	return v.report, nil
}

// verification holds the state of one Verify call.
type verification struct {
	layout *config.Layout
	report *Report
}

func (v *verification) add(kind Kind, parts ...string) {
	v.report.Findings = append(v.report.Findings, Finding{Kind: kind, Path: path.Join(parts...)})
}

// checkTopLevel expects exactly the plugin and demo project directories.
func (v *verification) checkTopLevel() error {
	expected := []string{v.layout.Plugin.Destination, v.layout.DemoProject.Destination}

	return v.checkEntries(v.report.ReleaseRoot, "", expected)
}

// checkEntries compares the direct children of dir with the expected names.
func (v *verification) checkEntries(dir, prefix string, expected []string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read %s: %w", dir, err)
	}

	present := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		present[entry.Name()] = struct{}{}
	}

	wanted := make(map[string]struct{}, len(expected))
	for _, name := range expected {
		wanted[name] = struct{}{}

		if _, ok := present[name]; !ok {
			v.add(KindMissingEntry, prefix, name)
		}
	}

	for _, entry := range entries {
		if _, ok := wanted[entry.Name()]; !ok {
			v.add(KindUnexpectedEntry, prefix, entry.Name())
		}
	}

	return nil
}

// checkBuildArtifacts reports every plugin build-artifact directory anywhere below the release root.
func (v *verification) checkBuildArtifacts() error {
	entries, err := fsutil.RelativePaths(v.report.ReleaseRoot)
	if err != nil {
		return fmt.Errorf("walk release: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir || !v.layout.IsPruned(entry.Path) {
			continue
		}

		// Only the artifact directory itself is reported, not its contents.
		if v.layout.IsPruned(path.Dir(entry.Path)) {
			continue
		}

		v.add(KindBuildArtifact, entry.Path)
	}

	return nil
}

// checkPlugin compares the plugin mirror with the plugin source.
func (v *verification) checkPlugin() error {
	dst := v.layout.PluginRelease()
	if _, err := os.Stat(dst); err != nil {
		// Already reported by checkTopLevel.
		return nil //nolint:nilerr // Missing copies are findings, not failures.
	}

	return v.compareTrees(v.layout.PluginSource(), dst, v.layout.Plugin.Destination, true)
}

// checkDemoProject compares the demo project copy with the selected project paths.
func (v *verification) checkDemoProject() error {
	demo := v.layout.DemoProject
	dst := v.layout.DemoRelease()

	if _, err := os.Stat(dst); err != nil {
		return nil //nolint:nilerr // Missing copies are findings, not failures.
	}

	expected := append(append([]string(nil), demo.Folders...), demo.ProjectFile)
	if err := v.checkEntries(dst, demo.Destination, expected); err != nil {
		return err
	}

	for _, folder := range demo.Folders {
		staged := filepath.Join(dst, folder)
		if _, err := os.Stat(staged); err != nil {
			continue
		}

		err := v.compareTrees(
			filepath.Join(v.layout.Root, folder),
			staged,
			path.Join(demo.Destination, folder),
			folder == demo.PluginsFolder,
		)
		if err != nil {
			return err
		}
	}

	staged := filepath.Join(dst, demo.ProjectFile)
	if _, err := os.Stat(staged); err != nil {
		return nil //nolint:nilerr // Reported by checkEntries.
	}

	return v.compareFiles(filepath.Join(v.layout.Root, demo.ProjectFile), staged, path.Join(demo.Destination, demo.ProjectFile))
}

// compareTrees reports paths missing from or added to staged relative to src.
// With pruned set, the build-artifact directories of the plugin are expected to be absent.
func (v *verification) compareTrees(src, staged, prefix string, pruned bool) error {
	srcEntries, err := fsutil.RelativePaths(src)
	if err != nil {
		return fmt.Errorf("walk source: %w", err)
	}

	stagedEntries, err := fsutil.RelativePaths(staged)
	if err != nil {
		return fmt.Errorf("walk release: %w", err)
	}

	stagedByPath := make(map[string]fsutil.Entry, len(stagedEntries))
	for _, entry := range stagedEntries {
		stagedByPath[entry.Path] = entry
	}

	expected := make(map[string]struct{}, len(srcEntries))

	for _, entry := range srcEntries {
		if pruned && v.isPrunedTarget(entry.Path) {
			continue
		}

		expected[entry.Path] = struct{}{}

		stagedEntry, ok := stagedByPath[entry.Path]
		switch {
		case !ok:
			v.add(KindMissingEntry, prefix, entry.Path)
		case stagedEntry.IsDir != entry.IsDir:
			v.add(KindTypeMismatch, prefix, entry.Path)
		case !entry.IsDir:
			err = v.compareFiles(
				filepath.Join(src, filepath.FromSlash(entry.Path)),
				filepath.Join(staged, filepath.FromSlash(entry.Path)),
				path.Join(prefix, entry.Path),
			)
			if err != nil {
				return err
			}
		}
	}

	for _, entry := range stagedEntries {
		if _, ok := expected[entry.Path]; ok {
			continue
		}

		// Leftover artifacts are reported by checkBuildArtifacts.
		if pruned && v.isPrunedTarget(entry.Path) {
			continue
		}

		v.add(KindUnexpectedEntry, prefix, entry.Path)
	}

	return nil
}

// compareFiles reports a content mismatch between two files.
func (v *verification) compareFiles(src, staged, rel string) error {
	want, err := fsutil.FileChecksum(src)
	if errors.Is(err, fs.ErrNotExist) {
		v.add(KindUnexpectedEntry, rel)
		return nil
	}

	if err != nil {
		return err
	}

	got, err := fsutil.FileChecksum(staged)
	if err != nil {
		return err
	}

	v.report.FilesCompared++

	if !bytes.Equal(want, got) {
		v.add(KindContentMismatch, rel)
	}

	return nil
}

// isPrunedTarget reports whether rel, relative to a plugins folder, lies in a directory the stager prunes.
func (v *verification) isPrunedTarget(rel string) bool {
	for _, artifact := range v.layout.BuildArtifacts {
		target := v.layout.Plugin.Name + "/" + artifact
		if rel == target || strings.HasPrefix(rel, target+"/") {
			return true
		}
	}

	return false
}
