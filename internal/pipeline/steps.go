package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/nao1215/solhydra/internal/aggregate"
	"github.com/nao1215/solhydra/internal/database"
	"github.com/nao1215/solhydra/internal/model"
	"github.com/nao1215/solhydra/internal/report"
)

// Step names, in the order a report run executes them.
const (
	StepDiscoverUnits       = "discover-units"
	StepDiscoverTools       = "discover-tools"
	StepLoadRepresentations = "load-representations"
	StepLoadToolOutputs     = "load-tool-outputs"
	StepAssemble            = "assemble"
	StepRender              = "render"
	StepRecordHistory       = "record-history"
)

// ErrNoWorkspace is returned by steps that need a workspace when the run has none.
var ErrNoWorkspace = errors.New("run has no workspace")

// DiscoverUnitsStep lists the units of the workspace.
type DiscoverUnitsStep struct {
	logger *slog.Logger
}

// NewDiscoverUnitsStep creates the unit discovery step.
func NewDiscoverUnitsStep(logger *slog.Logger) *DiscoverUnitsStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &DiscoverUnitsStep{logger: logger}
}

// Name returns the step name.
func (s *DiscoverUnitsStep) Name() string {
	return StepDiscoverUnits
}

// Do executes the step.
func (s *DiscoverUnitsStep) Do(ctx context.Context, run *Run) error {
	if run.Workspace == nil {
		return ErrNoWorkspace
	}
	units, err := run.Workspace.UnitNames(ctx)
	if err != nil {
		return err
	}
	if len(units) == 0 {
		s.logger.Warn("workspace has no units", "workspace", run.WorkspaceDir())
	}
	run.Units = units
	return nil
}

// DiscoverToolsStep lists the tools that produced output, optionally
// restricted to a selection.
type DiscoverToolsStep struct {
	selected []string
	logger   *slog.Logger
}

// NewDiscoverToolsStep creates the tool discovery step. An empty selection
// keeps every tool with output.
func NewDiscoverToolsStep(selected []string, logger *slog.Logger) *DiscoverToolsStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &DiscoverToolsStep{selected: slices.Clone(selected), logger: logger}
}

// Name returns the step name.
func (s *DiscoverToolsStep) Name() string {
	return StepDiscoverTools
}

// Do executes the step.
func (s *DiscoverToolsStep) Do(ctx context.Context, run *Run) error {
	if run.Workspace == nil {
		return ErrNoWorkspace
	}
	tools, err := run.Workspace.ToolNames(ctx)
	if err != nil {
		return err
	}

	if len(s.selected) > 0 {
		for _, want := range s.selected {
			if !slices.Contains(tools, want) {
				s.logger.Warn("selected tool produced no output", "tool", want)
			}
		}
		tools = slices.DeleteFunc(tools, func(tool string) bool {
			return !slices.Contains(s.selected, tool)
		})
	}

	run.Tools = tools
	return nil
}

// LoadRepresentationsStep reads the source representations of every unit.
type LoadRepresentationsStep struct{}

// Name returns the step name.
func (LoadRepresentationsStep) Name() string {
	return StepLoadRepresentations
}

// Do executes the step.
func (LoadRepresentationsStep) Do(ctx context.Context, run *Run) error {
	if run.Workspace == nil {
		return ErrNoWorkspace
	}
	reps, err := run.Workspace.LoadRepresentations(ctx, run.Units)
	if err != nil {
		return err
	}
	run.Representations = reps
	return nil
}

// LoadToolOutputsStep reads the output of every discovered tool for every unit.
type LoadToolOutputsStep struct{}

// Name returns the step name.
func (LoadToolOutputsStep) Name() string {
	return StepLoadToolOutputs
}

// Do executes the step.
func (LoadToolOutputsStep) Do(ctx context.Context, run *Run) error {
	if run.Workspace == nil {
		return ErrNoWorkspace
	}
	outputs, err := run.Workspace.LoadToolOutputs(ctx, run.Units, run.Tools)
	if err != nil {
		return err
	}
	run.Outputs = outputs
	return nil
}

// AssembleStep builds the document from what the load steps read.
type AssembleStep struct {
	assembler    *aggregate.Assembler
	contentTypes map[string]model.ContentType
}

// NewAssembleStep creates the assembly step.
func NewAssembleStep(contentTypes map[string]model.ContentType, opts ...aggregate.Option) *AssembleStep {
	return &AssembleStep{
		assembler:    aggregate.New(opts...),
		contentTypes: contentTypes,
	}
}

// Name returns the step name.
func (s *AssembleStep) Name() string {
	return StepAssemble
}

// Do executes the step.
func (s *AssembleStep) Do(_ context.Context, run *Run) error {
	doc, err := s.assembler.Assemble(aggregate.Input{
		Units:           run.Units,
		Representations: run.Representations,
		Outputs:         run.Outputs,
		ContentTypes:    s.contentTypes,
	})
	if err != nil {
		return err
	}
	run.Document = doc
	return nil
}

// RenderStep renders the document and writes it to path.
// The file is replaced atomically, so a failed render leaves any
// previous report in place.
type RenderStep struct {
	path      string
	newWriter report.WriterFactory
	logger    *slog.Logger
}

// NewRenderStep creates the render step.
func NewRenderStep(path string, newWriter report.WriterFactory, logger *slog.Logger) *RenderStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &RenderStep{path: path, newWriter: newWriter, logger: logger}
}

// Name returns the step name.
func (s *RenderStep) Name() string {
	return StepRender
}

// Do executes the step.
func (s *RenderStep) Do(_ context.Context, run *Run) error {
	if run.Document == nil {
		return errors.New("nothing to render: document was not assembled")
	}

	data, err := report.Render(run.Document, s.newWriter)
	if err != nil {
		return err
	}
	if err := report.WriteFile(s.path, data); err != nil {
		return err
	}

	run.ReportPath = s.path
	run.ReportSize = len(data)
	run.Digest = database.Digest(data)

	s.logger.Debug("report written", "path", s.path, "bytes", len(data), "digest", run.Digest)
	return nil
}

// RunSaver stores run records.
type RunSaver interface {
	SaveRun(ctx context.Context, rec *database.RunRecord) (int64, error)
}

// RecordHistoryStep records the finished run in the history database.
// A failure is logged and never fails the run: the report is already
// on disk at this point.
type RecordHistoryStep struct {
	saver  RunSaver
	format string
	now    func() time.Time
	logger *slog.Logger
}

// NewRecordHistoryStep creates the history step.
func NewRecordHistoryStep(saver RunSaver, format string, logger *slog.Logger) *RecordHistoryStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecordHistoryStep{saver: saver, format: format, now: time.Now, logger: logger}
}

// Name returns the step name.
func (s *RecordHistoryStep) Name() string {
	return StepRecordHistory
}

// Do executes the step.
func (s *RecordHistoryStep) Do(ctx context.Context, run *Run) error {
	rec := &database.RunRecord{
		Timestamp:  s.now(),
		Workspace:  run.WorkspaceDir(),
		ReportPath: run.ReportPath,
		Format:     s.format,
		Units:      run.Units,
		Size:       run.ReportSize,
		Digest:     run.Digest,
	}
	if run.Document != nil {
		rec.Tools = run.Document.ToolNames()
	}

	id, err := s.saver.SaveRun(ctx, rec)
	if err != nil {
		s.logger.Warn("failed to record run in history", "error", err)
		return nil
	}
	run.HistoryID = id
	return nil
}

// DefaultPipelineConfig holds configuration for the default pipeline.
type DefaultPipelineConfig struct {
	// Tools restricts the tool columns. Empty keeps every tool with output.
	Tools []string

	// ContentTypes maps tool name to content type.
	ContentTypes map[string]model.ContentType

	// Format names the report format recorded in history.
	Format string

	// NewWriter creates the report writer. Defaults to the HTML writer.
	NewWriter report.WriterFactory

	// History records the run when set.
	History RunSaver

	// MarkdownConverter replaces the CommonMark converter when set.
	MarkdownConverter aggregate.Converter
}

// DefaultPipelineOption configures a DefaultPipelineConfig.
type DefaultPipelineOption func(*DefaultPipelineConfig)

// WithPipelineTools restricts the report to the given tools.
func WithPipelineTools(tools []string) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Tools = tools
	}
}

// WithPipelineContentTypes sets the tool content type table.
func WithPipelineContentTypes(contentTypes map[string]model.ContentType) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.ContentTypes = contentTypes
	}
}

// WithPipelineWriter sets the report format and the writer producing it.
func WithPipelineWriter(format string, newWriter report.WriterFactory) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Format = format
		c.NewWriter = newWriter
	}
}

// WithPipelineHistory records every successful run with saver.
func WithPipelineHistory(saver RunSaver) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.History = saver
	}
}

// WithPipelineMarkdownConverter replaces the CommonMark converter.
func WithPipelineMarkdownConverter(conv aggregate.Converter) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.MarkdownConverter = conv
	}
}

// DefaultPipeline creates a pipeline with all report steps configured,
// writing the report to reportPath.
//
// The first variadic parameter accepts pipeline options (WithLogger, etc).
// The second accepts pipeline config options (WithPipelineTools, etc).
func DefaultPipeline(reportPath string, pipelineOpts []Option, configOpts ...DefaultPipelineOption) *Pipeline {
	p := New(pipelineOpts...)

	cfg := &DefaultPipelineConfig{
		Format: "html",
		NewWriter: func(w io.Writer) report.Writer {
			return report.NewHTMLWriter(w)
		},
	}
	for _, opt := range configOpts {
		opt(cfg)
	}

	assembleOpts := []aggregate.Option{aggregate.WithLogger(p.logger)}
	if cfg.MarkdownConverter != nil {
		assembleOpts = append(assembleOpts, aggregate.WithMarkdownConverter(cfg.MarkdownConverter))
	}

	p.AddSteps(
		NewDiscoverUnitsStep(p.logger),
		NewDiscoverToolsStep(cfg.Tools, p.logger),
		LoadRepresentationsStep{},
		LoadToolOutputsStep{},
		NewAssembleStep(cfg.ContentTypes, assembleOpts...),
		NewRenderStep(reportPath, cfg.NewWriter, p.logger),
	)
	if cfg.History != nil {
		p.AddStep(NewRecordHistoryStep(cfg.History, cfg.Format, p.logger))
	}

	return p
}
