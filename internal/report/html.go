package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/nao1215/solhydra/internal/model"
	"github.com/nao1215/solhydra/internal/navigator"
)

//go:embed assets/report.html.tmpl assets/report.css assets/navigator.js
var assets embed.FS

var reportTemplate = template.Must(
	template.New("report.html.tmpl").
		Funcs(template.FuncMap{"join": strings.Join}).
		ParseFS(assets, "assets/report.html.tmpl"),
)

// Pane kinds as used in the markup (class "pane-<kind>").
const (
	paneSource   = "source"
	paneText     = "text"
	paneMarkdown = "markdown"
	paneHTML     = "html"
	paneImage    = "image"
)

// DefaultTitle is the report title when none is configured.
const DefaultTitle = "solhydra report"

// HTMLWriter outputs the single-file, tabbed HTML report.
// Stylesheet and navigation script are inlined, so the file can be opened
// or mailed without anything next to it.
type HTMLWriter struct {
	baseWriter

	title     string
	version   string
	grammar   navigator.Grammar
	preferred model.RepresentationKind
}

// HTMLWriterOption configures an HTMLWriter.
type HTMLWriterOption func(*HTMLWriter)

// WithTitle sets the report title.
func WithTitle(title string) HTMLWriterOption {
	return func(w *HTMLWriter) {
		if title != "" {
			w.title = title
		}
	}
}

// WithVersion records the generating solhydra version in the markup.
func WithVersion(version string) HTMLWriterOption {
	return func(w *HTMLWriter) {
		w.version = version
	}
}

// WithFragmentToken sets the leading token of element ids and fragments.
func WithFragmentToken(token string) HTMLWriterOption {
	return func(w *HTMLWriter) {
		w.grammar = navigator.NewGrammar(token)
	}
}

// WithDefaultPane sets the representation opened when a unit is selected.
func WithDefaultPane(kind model.RepresentationKind) HTMLWriterOption {
	return func(w *HTMLWriter) {
		if kind != "" {
			w.preferred = kind
		}
	}
}

// NewHTMLWriter creates an HTMLWriter that outputs to the given writer.
func NewHTMLWriter(output io.Writer, opts ...HTMLWriterOption) *HTMLWriter {
	w := &HTMLWriter{
		baseWriter: newBaseWriter(output),
		title:      DefaultTitle,
		version:    "dev",
		grammar:    navigator.NewGrammar(""),
		preferred:  model.KindFlatten,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// htmlPage is the template data of the whole report.
type htmlPage struct {
	Title   string
	Version string
	Token   string
	Tools   []string
	Units   []htmlUnit
	CSS     template.CSS
	Script  template.JS
}

type htmlUnit struct {
	Name        string
	Slug        string
	TabID       string
	NavButtonID string
	Href        string
	DefaultPane string
	Current     bool
	Panes       []htmlPane
}

type htmlPane struct {
	Key       string
	ID        string
	Href      string
	Kind      string
	Current   bool
	Available bool
	Text      string
	Markup    template.HTML
	ImageURI  template.URL
}

// Write renders doc. The first unit and its default pane are already
// marked current in the markup, which is the state the navigation script
// starts from, so the page is consistent before any script runs.
func (w *HTMLWriter) Write(doc *model.Document) (int, error) {
	page, err := w.page(doc)
	if err != nil {
		return 0, err
	}

	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, page); err != nil {
		return 0, fmt.Errorf("failed to render HTML report: %w", err)
	}
	return w.output.Write(buf.Bytes())
}

func (w *HTMLWriter) page(doc *model.Document) (*htmlPage, error) {
	css, err := assets.ReadFile("assets/report.css")
	if err != nil {
		return nil, err
	}
	script, err := assets.ReadFile("assets/navigator.js")
	if err != nil {
		return nil, err
	}

	idx := navigator.IndexDocument(doc, w.preferred)
	nav := navigator.New(idx, navigator.WithGrammar(w.grammar))
	nav.Init()
	view := nav.View()

	page := &htmlPage{
		Title:   w.title,
		Version: w.version,
		Token:   w.grammar.Token(),
		Tools:   doc.ToolNames(),
		Units:   make([]htmlUnit, 0, len(doc.Units)),
		CSS:     template.CSS(css),
		Script:  template.JS(script),
	}

	for i := range doc.Units {
		unit := &doc.Units[i]
		ov, ok := view.Outer(unit.Slug)
		if !ok {
			continue
		}
		entry, _ := idx.Lookup(unit.Slug)

		hu := htmlUnit{
			Name:        unit.Name,
			Slug:        unit.Slug,
			TabID:       ov.TabID,
			NavButtonID: ov.NavButtonID,
			Href:        navigator.Href(ov.TabID),
			DefaultPane: entry.Default,
			Current:     ov.Current,
			Panes:       make([]htmlPane, 0, len(ov.Panes)),
		}
		for _, pv := range ov.Panes {
			hu.Panes = append(hu.Panes, paneOf(unit, pv))
		}
		page.Units = append(page.Units, hu)
	}

	return page, nil
}

// paneOf fills one pane from the unit's representation or tool output.
func paneOf(unit *model.Unit, pv navigator.PaneView) htmlPane {
	p := htmlPane{
		Key:     pv.Key,
		ID:      pv.ID,
		Href:    navigator.Href(pv.ID),
		Current: pv.Current,
	}

	if model.IsRepresentationKind(pv.Key) {
		content := unit.Representation(model.RepresentationKind(pv.Key))
		p.Kind = paneSource
		p.Available = content.Valid
		p.Text = content.Value
		return p
	}

	out, ok := unit.Output(pv.Key)
	if !ok {
		p.Kind = paneText
		return p
	}
	p.Available = true

	switch out.ContentType {
	case model.ContentTypeMarkdown:
		p.Kind = paneMarkdown
		p.Markup = template.HTML(out.Content) //nolint:gosec // Converted by goldmark with raw HTML disabled
	case model.ContentTypeHTML:
		p.Kind = paneHTML
		p.Text = out.Content
	case model.ContentTypeImage:
		p.Kind = paneImage
		p.ImageURI = template.URL(dataURI([]byte(out.Content))) //nolint:gosec // data: URI built from the output bytes
	default:
		p.Kind = paneText
		p.Text = out.Content
	}
	return p
}
