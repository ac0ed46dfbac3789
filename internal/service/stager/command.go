package stager

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/oshokin/ue-release/internal/config"
	"github.com/oshokin/ue-release/internal/fsutil"
	"github.com/oshokin/ue-release/internal/logger"
	"github.com/oshokin/ue-release/internal/service/common"
)

// Options contains inputs for the stager entry point.
type Options struct {
	// Layout overrides the embedded release layout. Nil means config.Default.
	Layout *config.Layout
}

// Stager performs the staging steps for one layout.
type Stager struct {
	layout *config.Layout
}

// step is a single staging step.
type step struct {
	name string
	run  func(context.Context) error
}

// Run resets the release root and stages the plugin and the demo project into it.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "ue-release")

	layout, err := resolveLayout(opts)
	if err != nil {
		return fmt.Errorf("resolve layout: %w", err)
	}

	st := New(layout)

	warnAboutRunningEditors(ctx, layout)

	if err = st.Run(ctx); err != nil {
		return err
	}

	logger.InfoKV(ctx, "Release staged", "release_root", layout.ReleaseRoot())

	return nil
}

// New creates a Stager for the layout, which must already be validated.
func New(layout *config.Layout) *Stager {
	return &Stager{layout: layout}
}

// Run executes every step in order and stops at the first error.
func (s *Stager) Run(ctx context.Context) error {
	steps := []step{
		{name: "reset output", run: s.ResetOutput},
		{name: "stage plugin", run: s.StagePlugin},
		{name: "stage demo project", run: s.StageDemoProject},
	}

	for _, st := range steps {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%s: %w", st.name, err)
		}

		if err := st.run(logger.WithKV(ctx, "step", st.name)); err != nil {
			return fmt.Errorf("%s: %w", st.name, err)
		}
	}

	return nil
}

// ResetOutput deletes the release root with all of its contents and recreates it empty.
func (s *Stager) ResetOutput(ctx context.Context) error {
	root := s.layout.ReleaseRoot()

	logger.InfoKV(ctx, "Resetting release root", "path", root)

	return fsutil.ResetDir(root)
}

// StagePlugin mirrors the plugin tree into the release root and prunes its build artifacts.
// The destination must not exist yet.
func (s *Stager) StagePlugin(ctx context.Context) error {
	src, dst := s.layout.PluginSource(), s.layout.PluginRelease()

	logger.InfoKV(ctx, "Copying plugin", "from", src, "to", dst)

	if err := fsutil.CopyTree(src, dst); err != nil {
		return err
	}

	return s.prune(ctx, dst)
}

// StageDemoProject copies the demo project folders and the project file into the release root
// and prunes the build artifacts of the plugin embedded in it.
func (s *Stager) StageDemoProject(ctx context.Context) error {
	demo := s.layout.DemoProject
	dst := s.layout.DemoRelease()

	for _, folder := range demo.Folders {
		src := filepath.Join(s.layout.Root, folder)

		logger.InfoKV(ctx, "Copying demo project folder", "from", src, "to", filepath.Join(dst, folder))

		if err := fsutil.CopyTree(src, filepath.Join(dst, folder)); err != nil {
			return err
		}
	}

	src := filepath.Join(s.layout.Root, demo.ProjectFile)

	logger.InfoKV(ctx, "Copying project file", "from", src, "to", filepath.Join(dst, demo.ProjectFile))

	if err := fsutil.CopyFile(src, filepath.Join(dst, demo.ProjectFile)); err != nil {
		return err
	}

	return s.prune(ctx, s.layout.DemoPluginRelease())
}

// prune removes the build-artifact directories of the plugin copy below base.
func (s *Stager) prune(ctx context.Context, base string) error {
	for _, dir := range s.layout.PrunedDirs(base) {
		removed, err := fsutil.RemoveTree(dir, s.layout.StrictPrune)
		if err != nil {
			return err
		}

		if removed {
			logger.DebugKV(ctx, "Pruned build artifacts", "path", dir)
		} else {
			logger.WarnKV(ctx, "Build artifacts not found, nothing to prune", "path", dir)
		}
	}

	return nil
}

// resolveLayout returns the layout from opts or the embedded default.
func resolveLayout(opts *Options) (*config.Layout, error) {
	if opts == nil || opts.Layout == nil {
		return config.Default()
	}

	if err := config.Validate(opts.Layout); err != nil {
		return nil, err
	}

	return opts.Layout, nil
}

// warnAboutRunningEditors logs a warning when an editor that writes build artifacts is open.
// Failures to inspect the process table are only logged.
func warnAboutRunningEditors(ctx context.Context, layout *config.Layout) {
	processes, err := common.RunningProcesses(layout.EditorProcesses...)
	if err != nil {
		logger.DebugKV(ctx, "Unable to inspect running processes", "error", err)
		return
	}

	for _, process := range processes {
		logger.WarnKV(ctx, "Editor is running and may rewrite build artifacts while staging",
			"executable", process.Executable, "pid", process.PID)
	}
}
