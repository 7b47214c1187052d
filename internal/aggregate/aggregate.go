package aggregate

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/nao1215/solhydra/internal/model"
)

// Assembly errors. All of them abort the run.
var (
	// ErrEmptyUnitName is returned when a unit name is empty.
	ErrEmptyUnitName = errors.New("empty unit name")

	// ErrDuplicateUnit is returned when a unit name is listed twice.
	ErrDuplicateUnit = errors.New("duplicate unit")

	// ErrEmptySlug is returned when a unit name has no character left after slugging.
	ErrEmptySlug = errors.New("unit name produces an empty slug")

	// ErrSlugCollision is returned when two unit names normalize to the same slug.
	// Panes are addressed by slug, so the run is rejected rather than letting
	// one unit shadow the other.
	ErrSlugCollision = errors.New("slug collision")

	// ErrReservedToolName is returned when a tool is named like a representation kind.
	ErrReservedToolName = errors.New("tool name is reserved")

	// ErrConversion is returned when a markdown output cannot be converted.
	ErrConversion = errors.New("markdown conversion failed")
)

// Input is everything the aggregator needs for one report.
type Input struct {
	// Units is the full, ordered list of unit names. Bookkeeping units
	// must already be filtered out.
	Units []string

	// Representations maps unit name -> kind -> text. A missing key means
	// the representation does not exist for that unit.
	Representations map[string]map[model.RepresentationKind]string

	// Outputs maps unit name -> tool name -> raw output. A missing key
	// means the tool produced nothing for that unit.
	Outputs map[string]map[string][]byte

	// ContentTypes maps tool name -> declared content type.
	ContentTypes map[string]model.ContentType
}

// Assembler builds documents.
type Assembler struct {
	logger    *slog.Logger
	converter Converter
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithLogger sets the logger used to report fallbacks.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Assembler) {
		a.logger = logger
	}
}

// WithMarkdownConverter replaces the CommonMark converter.
func WithMarkdownConverter(c Converter) Option {
	return func(a *Assembler) {
		a.converter = c
	}
}

// New creates an Assembler.
func New(opts ...Option) *Assembler {
	a := &Assembler{}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	if a.converter == nil {
		a.converter = NewMarkdownConverter()
	}
	return a
}

// Assemble is a convenience wrapper around New(opts...).Assemble(in).
func Assemble(in Input, opts ...Option) (*model.Document, error) {
	return New(opts...).Assemble(in)
}

// Assemble builds the document for in.
//
// Units keep the order of in.Units. Tool columns are the sorted set of
// tools with at least one output for a listed unit. Outputs of listed
// units only are considered; anything else in in.Outputs is ignored.
func (a *Assembler) Assemble(in Input) (*model.Document, error) {
	if err := validateUnits(in.Units); err != nil {
		return nil, err
	}

	tools, err := a.collectTools(in)
	if err != nil {
		return nil, err
	}

	doc := &model.Document{
		Units: make([]model.Unit, 0, len(in.Units)),
		Tools: tools,
	}

	for _, name := range in.Units {
		unit, err := a.assembleUnit(name, in, tools)
		if err != nil {
			return nil, err
		}
		doc.Units = append(doc.Units, unit)
	}

	a.logger.Debug("document assembled",
		"units", len(doc.Units),
		"tools", doc.ToolNames(),
	)

	return doc, nil
}

// validateUnits rejects empty names, duplicates and slug collisions.
func validateUnits(units []string) error {
	seenNames := make(map[string]struct{}, len(units))
	seenSlugs := make(map[string]string, len(units))

	for _, name := range units {
		if name == "" {
			return ErrEmptyUnitName
		}
		if _, dup := seenNames[name]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateUnit, name)
		}
		seenNames[name] = struct{}{}

		slug := model.Slugify(name)
		if slug == "" {
			return fmt.Errorf("%w: %s", ErrEmptySlug, name)
		}
		if other, ok := seenSlugs[slug]; ok {
			return fmt.Errorf("%w: %q and %q both map to %q", ErrSlugCollision, other, name, slug)
		}
		seenSlugs[slug] = name
	}
	return nil
}

// collectTools derives the sorted tool columns from the outputs of listed units.
func (a *Assembler) collectTools(in Input) ([]model.Tool, error) {
	names := make(map[string]struct{})
	for _, unit := range in.Units {
		for tool := range in.Outputs[unit] {
			names[tool] = struct{}{}
		}
	}

	sorted := make([]string, 0, len(names))
	for name := range names {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)

	tools := make([]model.Tool, 0, len(sorted))
	for _, name := range sorted {
		if model.IsRepresentationKind(name) {
			return nil, fmt.Errorf("%w: %s", ErrReservedToolName, name)
		}
		ct, ok := in.ContentTypes[name]
		if !ok {
			a.logger.Warn("no content type declared for tool, treating output as text", "tool", name)
			ct = model.ContentTypeText
		}
		tools = append(tools, model.Tool{Name: name, ContentType: ct})
	}
	return tools, nil
}

// assembleUnit builds one unit. Units are independent of each other.
func (a *Assembler) assembleUnit(name string, in Input, tools []model.Tool) (model.Unit, error) {
	unit := model.Unit{
		Name:            name,
		Slug:            model.Slugify(name),
		Representations: make([]model.Representation, 0, len(model.RepresentationKinds())),
		Outputs:         make([]model.ToolOutput, 0, len(tools)),
	}

	reps := in.Representations[name]
	for _, kind := range model.RepresentationKinds() {
		content := model.Absent()
		if text, ok := reps[kind]; ok {
			content = model.Present(text)
		}
		unit.Representations = append(unit.Representations, model.Representation{
			Kind:    kind,
			Content: content,
		})
	}

	outputs := in.Outputs[name]
	for _, tool := range tools {
		raw, ok := outputs[tool.Name]
		if !ok {
			continue
		}
		content, err := a.render(tool.ContentType, raw)
		if err != nil {
			return model.Unit{}, fmt.Errorf("%w: %s/%s: %w", ErrConversion, tool.Name, name, err)
		}
		unit.Outputs = append(unit.Outputs, model.ToolOutput{
			Tool:        tool.Name,
			ContentType: tool.ContentType,
			Content:     content,
		})
	}

	return unit, nil
}

// render converts markdown and passes every other content type through.
func (a *Assembler) render(ct model.ContentType, raw []byte) (string, error) {
	if ct != model.ContentTypeMarkdown {
		return string(raw), nil
	}
	html, err := a.converter.Convert(raw)
	if err != nil {
		return "", err
	}
	return string(html), nil
}
