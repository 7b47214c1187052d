package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/solhydra/internal/model"
)

// JSONWriter outputs the document model in JSON format.
// This format is designed for tool integration and programmatic processing.
// Absent representations are written as null.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	// When false, output is compact (no extra whitespace).
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
// This is a convenience wrapper for WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the document in JSON format.
func (w *JSONWriter) Write(doc *model.Document) (int, error) {
	return w.writeJSON(doc)
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return 0, err
	}

	// Add trailing newline for better terminal output
	data = append(data, '\n')

	return w.output.Write(data)
}

// JSONReport wraps the document with metadata about the run that made it.
type JSONReport struct {
	// Version is the solhydra version that generated this report.
	Version string `json:"version"`

	// Summary holds the counts shown in the report header.
	Summary JSONSummary `json:"summary"`

	// Document is the assembled document.
	Document *model.Document `json:"document"`
}

// JSONSummary holds counts of a document.
type JSONSummary struct {
	Units   int            `json:"units"`
	Tools   int            `json:"tools"`
	Outputs map[string]int `json:"outputs"`
}

// NewJSONReport creates a JSONReport wrapper with version information.
func NewJSONReport(doc *model.Document, version string) *JSONReport {
	outputs := make(map[string]int, len(doc.Tools))
	for _, tool := range doc.Tools {
		outputs[tool.Name] = doc.OutputCount(tool.Name)
	}
	return &JSONReport{
		Version: version,
		Summary: JSONSummary{
			Units:   len(doc.Units),
			Tools:   len(doc.Tools),
			Outputs: outputs,
		},
		Document: doc,
	}
}

// FullJSONWriter outputs documents with the metadata wrapper.
type FullJSONWriter struct {
	*JSONWriter

	// version is the solhydra version string.
	version string
}

// NewFullJSONWriter creates a writer for documents with metadata.
func NewFullJSONWriter(output io.Writer, version string, opts ...JSONWriterOption) *FullJSONWriter {
	return &FullJSONWriter{
		JSONWriter: NewJSONWriter(output, opts...),
		version:    version,
	}
}

// Write outputs the document wrapped with metadata.
func (w *FullJSONWriter) Write(doc *model.Document) (int, error) {
	return w.writeJSON(NewJSONReport(doc, w.version))
}
