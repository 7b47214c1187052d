// Package report provides report generation and output functionality.
//
// This package contains writers for different output formats:
//   - HTMLWriter: the self-contained, tabbed report opened in a browser
//   - JSONWriter: the document model as JSON for tool integration
//   - MarkdownWriter: a unit x tool summary for sharing
//   - SummaryWriter: a short human-readable summary for the terminal
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed for multi-format output. WriteFile puts a
// rendered report on disk without ever leaving a partial file behind.
package report
