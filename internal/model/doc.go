// Package model defines the core data structures used throughout solhydra.
//
// This package contains the following main types:
//   - Unit: One analyzed contract with its source representations and tool outputs
//   - Content: A value that is either present or explicitly absent
//   - ContentType: How a tool's output is displayed
//   - Document: The assembled report, units in order and tool columns sorted
//
// Models live in their own package because the aggregator, the navigator
// and every report writer share them.
//
// The models are designed to be serializable to JSON for report output.
package model
