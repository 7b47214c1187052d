// Package workspace reads the directory tree an analysis run leaves behind.
//
// The layout is fixed:
//
//	<workspace>/input/contracts/          original sources
//	<workspace>/input/contracts_flatten/  flattened sources (the unit listing)
//	<workspace>/input/contracts_combine/  combined sources
//	<workspace>/output/<tool>/<unit>      tool outputs
//
// The package only reads files. It does not interpret tool output; that
// is the aggregator's job.
package workspace
