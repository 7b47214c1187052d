package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/solhydra/internal/model"
)

// SummaryWriter outputs a short human-readable summary for the terminal.
// It is printed after the report file has been written.
type SummaryWriter struct {
	baseWriter

	// path is the location of the written report, shown in the footer.
	path string

	// verbose lists every unit with its tools.
	verbose bool
}

// SummaryWriterOption configures a SummaryWriter.
type SummaryWriterOption func(*SummaryWriter)

// WithReportPath sets the report location shown in the summary.
func WithReportPath(path string) SummaryWriterOption {
	return func(w *SummaryWriter) {
		w.path = path
	}
}

// WithVerbose enables the per-unit listing.
func WithVerbose(verbose bool) SummaryWriterOption {
	return func(w *SummaryWriter) {
		w.verbose = verbose
	}
}

// NewSummaryWriter creates a SummaryWriter that outputs to the given writer.
func NewSummaryWriter(output io.Writer, opts ...SummaryWriterOption) *SummaryWriter {
	w := &SummaryWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the summary.
func (w *SummaryWriter) Write(doc *model.Document) (int, error) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Units: %d\n", len(doc.Units))
	fmt.Fprintf(&sb, "Tools: %d\n", len(doc.Tools))

	for _, tool := range doc.Tools {
		fmt.Fprintf(&sb, "  %-20s %-8s %d/%d units\n",
			tool.Name, tool.ContentType, doc.OutputCount(tool.Name), len(doc.Units))
	}

	if w.verbose {
		sb.WriteString("\n")
		for i := range doc.Units {
			u := &doc.Units[i]
			tools := make([]string, 0, len(u.Outputs))
			for _, out := range u.Outputs {
				tools = append(tools, out.Tool)
			}
			if len(tools) == 0 {
				tools = append(tools, "(no tool output)")
			}
			fmt.Fprintf(&sb, "%s: %s\n", u.Name, strings.Join(tools, ", "))
		}
	}

	if w.path != "" {
		fmt.Fprintf(&sb, "\nReport written to %s\n", w.path)
	}

	return w.output.Write([]byte(sb.String()))
}
