// Package pipeline provides a framework for executing report steps in sequence.
//
// A report is produced in stages: discover the units, discover the tools,
// load the source representations, load the tool outputs, assemble the
// document, render it to disk and record the run. Each stage is a Step
// that receives the shared Run and fills in its part.
//
// The pipeline checks for cancellation between steps and stops at the
// first failing step, so a failed run never writes a report.
package pipeline
