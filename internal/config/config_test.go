package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestDefault checks that the embedded layout matches the shipped release structure.
func TestDefault(t *testing.T) {
	t.Parallel()

	layout, err := Default()
	require.NoError(t, err)

	require.Equal(t, ".", layout.Root)
	require.Equal(t, "Unreal Engine Release", layout.ReleaseDir)
	require.Equal(t, "Plugins", layout.Plugin.Source)
	require.Equal(t, "UE Plugin", layout.Plugin.Destination)
	require.Equal(t, "Teslasuit", layout.Plugin.Name)
	require.Equal(t, "UE Demo Project", layout.DemoProject.Destination)
	require.Equal(t, []string{"Config", "Content", "Plugins", "Source"}, layout.DemoProject.Folders)
	require.Equal(t, "TeslasuitPlugin.uproject", layout.DemoProject.ProjectFile)
	require.Equal(t, "Plugins", layout.DemoProject.PluginsFolder)
	require.Equal(t, []string{"Binaries", "Intermediate"}, layout.BuildArtifacts)
	require.False(t, layout.StrictPrune)
	require.Contains(t, layout.EditorProcesses, "UnrealEditor")
}

// TestValidate covers the name and list checks.
func TestValidate(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, Validate(nil), ErrLayoutIsNotSet)

	tests := []struct {
		name    string
		mutate  func(l *Layout)
		wantErr error
	}{
		{
			name:    "empty release dir",
			mutate:  func(l *Layout) { l.ReleaseDir = "" },
			wantErr: ErrInvalidName,
		},
		{
			name:    "separator in plugin name",
			mutate:  func(l *Layout) { l.Plugin.Name = "Tesla/suit" },
			wantErr: ErrInvalidName,
		},
		{
			name:    "parent reference",
			mutate:  func(l *Layout) { l.Plugin.Source = ".." },
			wantErr: ErrInvalidName,
		},
		{
			name:    "no build artifacts",
			mutate:  func(l *Layout) { l.BuildArtifacts = nil },
			wantErr: ErrEmptyList,
		},
		{
			name:    "bad demo folder",
			mutate:  func(l *Layout) { l.DemoProject.Folders = []string{"Config", `Content\Maps`} },
			wantErr: ErrInvalidName,
		},
		{
			name:    "same destinations",
			mutate:  func(l *Layout) { l.DemoProject.Destination = l.Plugin.Destination },
			wantErr: ErrInvalidName,
		},
		{
			name:    "plugins folder not staged",
			mutate:  func(l *Layout) { l.DemoProject.PluginsFolder = "Extras" },
			wantErr: ErrPluginsFolderNotStaged,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			layout, err := Default()
			require.NoError(t, err)

			tt.mutate(layout)
			require.ErrorIs(t, Validate(layout), tt.wantErr)
		})
	}
}

// TestParse_RejectsMalformedYAML ensures decoding errors surface.
func TestParse_RejectsMalformedYAML(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte("release_dir: [unterminated"))
	require.Error(t, err)
}

// TestLayoutPaths checks the derived release paths.
func TestLayoutPaths(t *testing.T) {
	t.Parallel()

	layout, err := Default()
	require.NoError(t, err)

	layout.Root = filepath.Join("work", "project")
	release := filepath.Join("work", "project", "Unreal Engine Release")

	require.Equal(t, release, layout.ReleaseRoot())
	require.Equal(t, filepath.Join("work", "project", "Plugins"), layout.PluginSource())
	require.Equal(t, filepath.Join(release, "UE Plugin"), layout.PluginRelease())
	require.Equal(t, filepath.Join(release, "UE Demo Project"), layout.DemoRelease())
	require.Equal(t, filepath.Join(release, "UE Demo Project", "Plugins"), layout.DemoPluginRelease())
	require.Equal(t, []string{
		filepath.Join("base", "Teslasuit", "Binaries"),
		filepath.Join("base", "Teslasuit", "Intermediate"),
	}, layout.PrunedDirs("base"))
}

// TestIsPruned matches build-artifact directories at any depth.
func TestIsPruned(t *testing.T) {
	t.Parallel()

	layout, err := Default()
	require.NoError(t, err)

	require.True(t, layout.IsPruned("Teslasuit/Binaries"))
	require.True(t, layout.IsPruned("UE Demo Project/Plugins/Teslasuit/Intermediate/Build/x.obj"))
	require.False(t, layout.IsPruned("Teslasuit/Source/Binaries"))
	require.False(t, layout.IsPruned("Teslasuit"))
	require.False(t, layout.IsPruned("Other/Binaries"))
}
