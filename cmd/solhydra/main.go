// Package main provides the entry point for the solhydra CLI.
//
// solhydra collects the outputs that Solidity analysis tools wrote into a
// workspace and combines them into a single self-contained report.
//
// Usage:
//
//	solhydra report --workspace <dir> --dest-dir <dir> [tool ...]
//	solhydra history
//
// See --help for all available options.
package main

// main is the entry point for solhydra.
func main() {
	Execute()
}
