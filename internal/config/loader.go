package config

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/nao1215/solhydra/internal/model"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".solhydra"

// DefaultFragmentToken is the leading token of every navigation fragment.
const DefaultFragmentToken = "contract"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// DefaultToolContentTypes returns the content type of every tool solhydra
// knows out of the box. The map is a fresh copy on every call.
func DefaultToolContentTypes() map[string]model.ContentType {
	return map[string]model.ContentType{
		"mythril":           model.ContentTypeMarkdown,
		"oyente":            model.ContentTypeText,
		"solgraph":          model.ContentTypeImage,
		"solhint":           model.ContentTypeText,
		"solidity-coverage": model.ContentTypeHTML,
		"solidity-analyzer": model.ContentTypeText,
		"solium":            model.ContentTypeText,
	}
}

// DefaultSentinelUnits returns the units excluded from every report.
// Migrations.sol is truffle bookkeeping, not user code.
func DefaultSentinelUnits() []string {
	return []string{"Migrations.sol"}
}

// File represents the structure of the .solhydra configuration file.
//
// Example:
//
//	title: "MyToken audit"
//	defaultPane: flatten
//	fragmentToken: contract
//	excludeUnits:
//	  - Migrations.sol
//	tools:
//	  slither: markdown
//	  solgraph: image
type File struct {
	// Title is shown in the report header. Empty uses the writer default.
	Title string `yaml:"title,omitempty"`

	// DefaultPane is the representation shown when a unit is opened.
	DefaultPane model.RepresentationKind `yaml:"defaultPane,omitempty"`

	// FragmentToken is the leading token of navigation fragments.
	FragmentToken string `yaml:"fragmentToken,omitempty"`

	// ExcludeUnits are unit file names left out of the report.
	ExcludeUnits []string `yaml:"excludeUnits,omitempty"`

	// Tools maps tool name to content type. Entries are merged over
	// the built-in table, so only new or changed tools need listing.
	Tools map[string]model.ContentType `yaml:"tools,omitempty"`
}

// DefaultFile returns the configuration used when no file is found.
func DefaultFile() *File {
	return &File{
		DefaultPane:   model.KindFlatten,
		FragmentToken: DefaultFragmentToken,
		ExcludeUnits:  DefaultSentinelUnits(),
		Tools:         DefaultToolContentTypes(),
	}
}

// Merge returns a copy of f with every non-empty field of override applied.
// Tool entries are merged key by key; ExcludeUnits replaces the list.
func (f *File) Merge(override *File) *File {
	merged := &File{
		Title:         f.Title,
		DefaultPane:   f.DefaultPane,
		FragmentToken: f.FragmentToken,
		ExcludeUnits:  slices.Clone(f.ExcludeUnits),
		Tools:         maps.Clone(f.Tools),
	}
	if merged.Tools == nil {
		merged.Tools = make(map[string]model.ContentType)
	}
	if override == nil {
		return merged
	}

	if override.Title != "" {
		merged.Title = override.Title
	}
	if override.DefaultPane != "" {
		merged.DefaultPane = override.DefaultPane
	}
	if override.FragmentToken != "" {
		merged.FragmentToken = override.FragmentToken
	}
	if override.ExcludeUnits != nil {
		merged.ExcludeUnits = slices.Clone(override.ExcludeUnits)
	}
	maps.Copy(merged.Tools, override.Tools)
	return merged
}

// Validate checks the file values.
func (f *File) Validate() error {
	if !model.IsRepresentationKind(string(f.DefaultPane)) {
		return fmt.Errorf("%w: %q", ErrInvalidDefaultPane, f.DefaultPane)
	}
	if !validToken(f.FragmentToken) {
		return fmt.Errorf("%w: %q", ErrInvalidFragmentToken, f.FragmentToken)
	}
	return nil
}

// ContentTypes returns the tool table.
func (f *File) ContentTypes() map[string]model.ContentType {
	return maps.Clone(f.Tools)
}

// ToolNames returns the known tool names sorted.
func (f *File) ToolNames() []string {
	return slices.Sorted(maps.Keys(f.Tools))
}

func validToken(token string) bool {
	if token == "" {
		return false
	}
	for _, r := range token {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

// LoadConfigFile loads a configuration file and merges it over the defaults.
// If the file does not exist, it returns ErrConfigNotFound.
// Callers should handle this error appropriately based on whether
// the config file path was explicitly specified by the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	merged := DefaultFile().Merge(&cf)
	if err := merged.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return merged, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .solhydra in the current directory
// 3. Look for .solhydra in the user's home directory
// 4. Look for config.yaml in the XDG config directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	xdgConfig := filepath.Join(XDGConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig
	}

	return ""
}
