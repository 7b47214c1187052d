// Package aggregate assembles the report document from the raw material
// the analysis run left behind.
//
// Assemble takes the ordered unit names, the per-unit representations
// and the per-unit, per-tool output blobs and produces one
// model.Document. It does no I/O: reading the workspace is the job of
// the workspace package, writing the result is the job of report.
//
// Design decision: markdown tool output is converted to HTML here, once,
// rather than in the HTML writer. The document then carries markup that
// every writer can use as-is, and the conversion stays testable without
// templates.
package aggregate
