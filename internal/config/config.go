package config

import (
	"fmt"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/agnivade/levenshtein"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "solhydra"

	// ReportBaseName is the file name of the report without extension.
	ReportBaseName = "solhydra_report"

	// DefaultConcurrency is the number of units whose files are read at once.
	// Reads are small local files, so a handful of goroutines is plenty.
	DefaultConcurrency = 8

	// DefaultHistoryLimit is how many runs `solhydra history` lists.
	DefaultHistoryLimit = 20
)

// Config holds all options of one report run.
// It is populated from CLI flags and the configuration file and passed
// down explicitly rather than kept in global state.
type Config struct {
	// WorkspaceDir is the directory the analysis run wrote into.
	// It must contain input/ and output/.
	WorkspaceDir string

	// DestDir is the directory the report is written to.
	// It is created if it does not exist.
	DestDir string

	// Tools restricts the report to these tool columns.
	// Empty means every tool that produced output.
	Tools []string

	// Verbose enables debug logging.
	Verbose bool

	// LogJSON writes log records as JSON instead of text.
	LogJSON bool

	// Concurrency is the number of units read concurrently.
	Concurrency int

	// ConfigFilePath is the configuration file given with --config.
	ConfigFilePath string

	// File is the loaded configuration file merged over the defaults.
	File *File

	// JSONReport writes the document model as JSON instead of HTML.
	JSONReport bool

	// MarkdownReport writes a Markdown summary instead of HTML.
	MarkdownReport bool

	// PrintReport also writes the report to standard output, ahead of
	// the summary.
	PrintReport bool

	// SaveHistory records the run in the history database.
	SaveHistory bool

	// DBDir is the directory of the history database.
	DBDir string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Concurrency: DefaultConcurrency,
		File:        DefaultFile(),
		SaveHistory: true,
		DBDir:       XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for solhydra.
// On Linux: ~/.local/share/solhydra
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for solhydra.
// On Linux: ~/.config/solhydra
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found.
func (c *Config) Validate() error {
	if c.WorkspaceDir == "" {
		return ErrNoWorkspace
	}
	if c.DestDir == "" {
		return ErrNoDestDir
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	file := c.File
	if file == nil {
		file = DefaultFile()
	}
	if err := file.Validate(); err != nil {
		return err
	}

	known := file.ContentTypes()
	for _, tool := range c.Tools {
		if _, ok := known[tool]; ok {
			continue
		}
		if guess := closestTool(tool, file.ToolNames()); guess != "" {
			return fmt.Errorf("%w: %q (did you mean %q?)", ErrUnknownTool, tool, guess)
		}
		return fmt.Errorf("%w: %q (known tools: %v)", ErrUnknownTool, tool, file.ToolNames())
	}
	return nil
}

// maxSuggestDistance is the largest edit distance still offered as a
// suggestion for a mistyped tool name.
const maxSuggestDistance = 2

// closestTool returns the known tool nearest to name, or "" when none is
// within maxSuggestDistance. Ties go to the first name in sorted order.
func closestTool(name string, known []string) string {
	best, bestDist := "", maxSuggestDistance+1
	for _, k := range known {
		if d := levenshtein.ComputeDistance(name, k); d < bestDist {
			best, bestDist = k, d
		}
	}
	return best
}

// ReportFileName returns the report file name for the selected format.
func (c *Config) ReportFileName() string {
	switch {
	case c.JSONReport:
		return ReportBaseName + ".json"
	case c.MarkdownReport:
		return ReportBaseName + ".md"
	default:
		return ReportBaseName + ".html"
	}
}

// ReportPath returns the full path of the report file.
func (c *Config) ReportPath() string {
	return filepath.Join(c.DestDir, c.ReportFileName())
}
