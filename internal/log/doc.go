// Package log provides the loggers used across solhydra, built on top of
// the standard slog package.
//
// This package extends slog to provide:
//   - Clipping of long string values, so file contents never flood the log
//   - Configurable log levels with verbose mode support
//   - Consistent log formatting across the application
//
// # Clipping
//
// Tool outputs and contract sources can be megabytes long. The ClipHandler
// cuts every string attribute at a fixed number of runes and appends how
// much was dropped:
//
//	logger.Debug("read output", "content", hugeString)
//	// content="pragma solidity ^0.4.24; ... [clipped 18342 bytes]"
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, true) // verbose=true
//	slog.SetDefault(logger)
package log
