package pipeline

import (
	"github.com/nao1215/solhydra/internal/model"
	"github.com/nao1215/solhydra/internal/workspace"
)

// Run is the state shared by the steps of one report run.
// Each step reads what earlier steps filled in and adds its own part.
type Run struct {
	// Workspace is the analysis workspace the report is built from.
	Workspace *workspace.Workspace

	// Units are the unit names, sorted, bookkeeping units excluded.
	Units []string

	// Tools are the tool directories with output, sorted.
	Tools []string

	// Representations maps unit name -> kind -> source text.
	Representations map[string]map[model.RepresentationKind]string

	// Outputs maps unit name -> tool name -> raw output.
	Outputs map[string]map[string][]byte

	// Document is the assembled document.
	Document *model.Document

	// ReportPath, ReportSize and Digest describe the written report.
	ReportPath string
	ReportSize int
	Digest     string

	// HistoryID is the id of the recorded run, 0 when not recorded.
	HistoryID int64

	// CompletedSteps lists the steps that finished, in order.
	CompletedSteps []string

	// Err is the error that ended the run, if any.
	Err error
}

// NewRun creates a run over ws.
func NewRun(ws *workspace.Workspace) *Run {
	return &Run{Workspace: ws}
}

// WorkspaceDir returns the workspace root, or "" when none is set.
func (r *Run) WorkspaceDir() string {
	if r.Workspace == nil {
		return ""
	}
	return r.Workspace.Dir()
}
