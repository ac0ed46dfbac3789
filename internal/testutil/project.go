// Package testutil builds Unreal Engine project fixtures for tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/ue-release/internal/config"
)

// ProjectFileContents is written to the fixture project descriptor.
const ProjectFileContents = `{
	"FileVersion": 3,
	"EngineAssociation": "5.3",
	"Plugins": [{"Name": "Teslasuit", "Enabled": true}]
}
`

// ProjectFiles is the fixture tree created by WriteProject, keyed by slash-separated path.
// Keys ending in a slash are empty directories.
//
//nolint:gochecknoglobals // Read-only fixture shared by tests.
var ProjectFiles = map[string]string{
	"Plugins/Teslasuit/Teslasuit.uplugin":                         `{"FriendlyName": "Teslasuit"}`,
	"Plugins/Teslasuit/Source/Teslasuit/Teslasuit.Build.cs":       "public class Teslasuit : ModuleRules {}",
	"Plugins/Teslasuit/Source/Teslasuit/Private/Teslasuit.cpp":    "#include \"Teslasuit.h\"",
	"Plugins/Teslasuit/Binaries/Win64/UnrealEditor-Teslasuit.dll": "MZ",
	"Plugins/Teslasuit/Intermediate/Build/Win64/Teslasuit.obj":    "obj",
	"Plugins/Teslasuit/Resources/Icon128.png":                     "png",
	"Config/DefaultEngine.ini":                                    "[/Script/EngineSettings.GameMapsSettings]",
	"Content/Maps/Demo.umap":                                      "umap",
	"Content/Empty/":                                              "",
	"Source/TeslasuitPlugin.Target.cs":                            "public class TeslasuitPluginTarget : TargetRules {}",
	"Source/TeslasuitPlugin/TeslasuitPlugin.cpp":                  "IMPLEMENT_PRIMARY_GAME_MODULE",
	"Binaries/Win64/TeslasuitPlugin.exe":                          "MZ",
	"Saved/Logs/TeslasuitPlugin.log":                              "log",
	"TeslasuitPlugin.uproject":                                    ProjectFileContents,
}

// WriteProject creates the fixture project in a temporary directory and returns
// the default layout rooted there.
func WriteProject(t *testing.T) *config.Layout {
	t.Helper()

	root := t.TempDir()
	WriteFiles(t, root, ProjectFiles)

	layout, err := config.Default()
	require.NoError(t, err)

	layout.Root = root

	return layout
}

// WriteFiles creates files below root; keys ending in a slash create empty directories.
func WriteFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()

	for name, contents := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if name[len(name)-1] == '/' {
			require.NoError(t, os.MkdirAll(path, 0o755))
			continue
		}

		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	}
}
