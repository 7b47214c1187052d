package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and File.Validate() and
// can be checked with errors.Is().
var (
	// ErrNoWorkspace is returned when no workspace directory is specified.
	ErrNoWorkspace = errors.New("no workspace specified: use --workspace")

	// ErrNoDestDir is returned when no destination directory is specified.
	ErrNoDestDir = errors.New("no destination directory specified: use --dest-dir")

	// ErrInvalidConcurrency is returned when the read concurrency is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrUnknownTool is returned when a requested tool is not in the tool table.
	ErrUnknownTool = errors.New("unknown tool")

	// ErrInvalidDefaultPane is returned when the default pane is not a representation kind.
	ErrInvalidDefaultPane = errors.New("invalid default pane: must be flatten, combine or original")

	// ErrInvalidFragmentToken is returned when the fragment token is empty or
	// contains anything but lowercase letters and digits.
	ErrInvalidFragmentToken = errors.New("invalid fragment token: use lowercase letters and digits only")
)
