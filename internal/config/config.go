package config

import (
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Layout holds every fixed name used while staging a release.
type Layout struct {
	// Root is the project directory all sources are resolved against.
	// It is set at runtime and never read from YAML.
	Root string `yaml:"-"`
	// ReleaseDir is the release root directory created under Root.
	ReleaseDir string `yaml:"release_dir"`
	// Plugin describes the plugin mirror.
	Plugin Plugin `yaml:"plugin"`
	// DemoProject describes the demo project copy.
	DemoProject DemoProject `yaml:"demo_project"`
	// BuildArtifacts lists directories pruned from every plugin copy.
	BuildArtifacts []string `yaml:"build_artifacts"`
	// StrictPrune makes a missing build-artifact directory a fatal error.
	StrictPrune bool `yaml:"strict_prune"`
	// EditorProcesses are executable names of editors that rewrite build artifacts while open.
	EditorProcesses []string `yaml:"editor_processes"`
}

// Plugin describes where the plugin tree comes from and where it is staged.
type Plugin struct {
	// Source is the plugin folder under Root.
	Source string `yaml:"source"`
	// Destination is the plugin mirror folder under the release root.
	Destination string `yaml:"destination"`
	// Name is the plugin directory holding the build artifacts.
	Name string `yaml:"name"`
}

// DemoProject describes the subset of the project copied into the release.
type DemoProject struct {
	// Destination is the demo project folder under the release root.
	Destination string `yaml:"destination"`
	// Folders are copied recursively from Root.
	Folders []string `yaml:"folders"`
	// ProjectFile is the project descriptor copied next to the folders.
	ProjectFile string `yaml:"project_file"`
	// PluginsFolder is the folder among Folders that embeds the plugin.
	PluginsFolder string `yaml:"plugins_folder"`
}

//go:embed layout.yaml
var embeddedLayout []byte

var (
	// ErrLayoutIsNotSet is returned when a nil layout is provided.
	ErrLayoutIsNotSet = errors.New("layout is not set")
	// ErrInvalidName is returned when a layout name is not a single path element.
	ErrInvalidName = errors.New("invalid name")
	// ErrEmptyList is returned when a required list is empty.
	ErrEmptyList = errors.New("list must not be empty")
	// ErrPluginsFolderNotStaged is returned when the demo plugins folder is not among the staged folders.
	ErrPluginsFolderNotStaged = errors.New("plugins folder is not staged")
)

// Default returns the release layout shipped with the binary, rooted at the working directory.
func Default() (*Layout, error) {
	return Parse(embeddedLayout)
}

// Parse decodes a YAML layout and validates it.
func Parse(data []byte) (*Layout, error) {
	var layout Layout
	if err := yaml.Unmarshal(data, &layout); err != nil {
		return nil, fmt.Errorf("unmarshal layout: %w", err)
	}

	if err := Validate(&layout); err != nil {
		return nil, err
	}

	return &layout, nil
}

// Validate checks that every name is usable as a single path element.
// An empty Root is replaced with the working directory.
func Validate(layout *Layout) error {
	if layout == nil {
		return ErrLayoutIsNotSet
	}

	if layout.Root == "" {
		layout.Root = "."
	}

	names := map[string]string{
		"release_dir":                 layout.ReleaseDir,
		"plugin.source":               layout.Plugin.Source,
		"plugin.destination":          layout.Plugin.Destination,
		"plugin.name":                 layout.Plugin.Name,
		"demo_project.destination":    layout.DemoProject.Destination,
		"demo_project.project_file":   layout.DemoProject.ProjectFile,
		"demo_project.plugins_folder": layout.DemoProject.PluginsFolder,
	}

	for field, name := range names {
		if err := validateName(name); err != nil {
			return fmt.Errorf("%s: %w", field, err)
		}
	}

	if err := validateList("demo_project.folders", layout.DemoProject.Folders); err != nil {
		return err
	}

	if err := validateList("build_artifacts", layout.BuildArtifacts); err != nil {
		return err
	}

	if layout.Plugin.Destination == layout.DemoProject.Destination {
		return fmt.Errorf("demo_project.destination %q clashes with plugin.destination: %w",
			layout.DemoProject.Destination, ErrInvalidName)
	}

	if !slices.Contains(layout.DemoProject.Folders, layout.DemoProject.PluginsFolder) {
		return fmt.Errorf("%q: %w", layout.DemoProject.PluginsFolder, ErrPluginsFolderNotStaged)
	}

	return nil
}

// ReleaseRoot returns the release root path.
func (l *Layout) ReleaseRoot() string {
	return filepath.Join(l.Root, l.ReleaseDir)
}

// PluginSource returns the plugin source tree path.
func (l *Layout) PluginSource() string {
	return filepath.Join(l.Root, l.Plugin.Source)
}

// PluginRelease returns the plugin mirror path inside the release root.
func (l *Layout) PluginRelease() string {
	return filepath.Join(l.ReleaseRoot(), l.Plugin.Destination)
}

// DemoRelease returns the demo project path inside the release root.
func (l *Layout) DemoRelease() string {
	return filepath.Join(l.ReleaseRoot(), l.DemoProject.Destination)
}

// DemoPluginRelease returns the plugins folder embedded in the demo project copy.
func (l *Layout) DemoPluginRelease() string {
	return filepath.Join(l.DemoRelease(), l.DemoProject.PluginsFolder)
}

// PrunedDirs returns the build-artifact directories under the plugin directory of base.
func (l *Layout) PrunedDirs(base string) []string {
	dirs := make([]string, 0, len(l.BuildArtifacts))
	for _, artifact := range l.BuildArtifacts {
		dirs = append(dirs, filepath.Join(base, l.Plugin.Name, artifact))
	}

	return dirs
}

// IsPruned reports whether a slash-separated relative path lies inside a build-artifact directory
// of a plugin copy, that is, it contains "<plugin name>/<artifact>" as consecutive elements.
func (l *Layout) IsPruned(rel string) bool {
	parts := strings.Split(filepath.ToSlash(rel), "/")
	for i := 0; i+1 < len(parts); i++ {
		if parts[i] == l.Plugin.Name && slices.Contains(l.BuildArtifacts, parts[i+1]) {
			return true
		}
	}

	return false
}

func validateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("empty: %w", ErrInvalidName)
	case name == "." || name == "..":
		return fmt.Errorf("%q is a relative reference: %w", name, ErrInvalidName)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("%q contains a path separator: %w", name, ErrInvalidName)
	default:
		return nil
	}
}

func validateList(field string, names []string) error {
	if len(names) == 0 {
		return fmt.Errorf("%s: %w", field, ErrEmptyList)
	}

	for _, name := range names {
		if err := validateName(name); err != nil {
			return fmt.Errorf("%s: %w", field, err)
		}
	}

	return nil
}
