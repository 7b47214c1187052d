package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/nao1215/solhydra/internal/model"
)

// MarkdownWriter outputs a summary of the document in Markdown format.
// It does not carry tool output bodies; those live in the HTML report.
// The summary is a unit x tool matrix plus a chart of outputs per tool.
type MarkdownWriter struct {
	baseWriter

	title string
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer, title string) *MarkdownWriter {
	if title == "" {
		title = DefaultTitle
	}
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
		title:      title,
	}
}

// Write outputs the summary in Markdown format.
func (w *MarkdownWriter) Write(doc *model.Document) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1(w.title)
	md.PlainText("")

	w.writeOverview(md, doc)
	w.writeMatrix(md, doc)
	w.writeRepresentations(md, doc)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeOverview writes the counts and the per-tool chart.
func (w *MarkdownWriter) writeOverview(md *markdown.Markdown, doc *model.Document) {
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Units", strconv.Itoa(len(doc.Units))},
			{"Tools", strconv.Itoa(len(doc.Tools))},
		},
	})
	md.PlainText("")

	if len(doc.Units) == 0 {
		md.Note("No units were analyzed.")
		md.PlainText("")
		return
	}

	silent := w.unitsWithoutOutput(doc)
	switch {
	case len(doc.Tools) == 0:
		md.Warningf("No tool produced any output.")
		md.PlainText("")
	case len(silent) > 0:
		md.Importantf("%d unit(s) have no tool output at all.", len(silent))
		md.PlainText("")
		md.BulletList(silent...)
		md.PlainText("")
	}

	if len(doc.Tools) > 0 {
		w.writePieChart(md, doc)
	}
}

// writePieChart writes a mermaid pie chart of outputs per tool.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, doc *model.Document) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Outputs per Tool"),
		piechart.WithShowData(true),
	)

	for _, tool := range doc.Tools {
		if n := doc.OutputCount(tool.Name); n > 0 {
			chart.LabelAndIntValue(tool.Name, uint64(n))
		}
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeMatrix writes which tool produced output for which unit.
func (w *MarkdownWriter) writeMatrix(md *markdown.Markdown, doc *model.Document) {
	if len(doc.Units) == 0 || len(doc.Tools) == 0 {
		return
	}

	md.H2("Tool Outputs")
	md.PlainText("")

	header := append([]string{"Unit"}, doc.ToolNames()...)
	rows := make([][]string, 0, len(doc.Units))
	for i := range doc.Units {
		u := &doc.Units[i]
		row := make([]string, 0, len(header))
		row = append(row, "`"+u.Name+"`")
		for _, tool := range doc.Tools {
			if _, ok := u.Output(tool.Name); ok {
				row = append(row, "✅ "+tool.ContentType.String())
			} else {
				row = append(row, "-")
			}
		}
		rows = append(rows, row)
	}

	md.Table(markdown.TableSet{Header: header, Rows: rows})
	md.PlainText("")
}

// writeRepresentations writes which source forms exist per unit.
func (w *MarkdownWriter) writeRepresentations(md *markdown.Markdown, doc *model.Document) {
	if len(doc.Units) == 0 {
		return
	}

	md.H2("Sources")
	md.PlainText("")

	header := []string{"Unit", "Slug"}
	for _, kind := range model.RepresentationKinds() {
		header = append(header, string(kind))
	}

	rows := make([][]string, 0, len(doc.Units))
	for i := range doc.Units {
		u := &doc.Units[i]
		row := []string{"`" + u.Name + "`", "`" + u.Slug + "`"}
		for _, kind := range model.RepresentationKinds() {
			if c := u.Representation(kind); c.Valid {
				row = append(row, strconv.Itoa(lineCount(c.Value))+" lines")
			} else {
				row = append(row, "-")
			}
		}
		rows = append(rows, row)
	}

	md.Table(markdown.TableSet{Header: header, Rows: rows})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [solhydra](https://github.com/nao1215/solhydra)*")
}

// unitsWithoutOutput returns the names of units no tool reported on.
func (w *MarkdownWriter) unitsWithoutOutput(doc *model.Document) []string {
	var names []string
	for i := range doc.Units {
		if len(doc.Units[i].Outputs) == 0 {
			names = append(names, doc.Units[i].Name)
		}
	}
	return names
}

// lineCount counts lines the way an editor shows them.
func lineCount(s string) int {
	if s == "" {
		return 0
	}
	n := 1
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' && i != len(s)-1 {
			n++
		}
	}
	return n
}
