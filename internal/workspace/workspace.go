package workspace

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/nao1215/solhydra/internal/model"
	"golang.org/x/sync/errgroup"
)

// Directory names inside a workspace.
const (
	InputDir  = "input"
	OutputDir = "output"
)

// defaultConcurrency matches config.DefaultConcurrency.
const defaultConcurrency = 8

var (
	// ErrNotWorkspace is returned by Open when the directory lacks the
	// flattened source listing.
	ErrNotWorkspace = errors.New("not a solhydra workspace")

	// ErrListingUnreadable is returned when the unit listing cannot be read.
	ErrListingUnreadable = errors.New("unit listing is unreadable")

	// ErrMissingFlatten is returned when a listed unit has no flattened source.
	ErrMissingFlatten = errors.New("flattened source is missing")

	// ErrReadFailed is returned when an existing file cannot be read.
	ErrReadFailed = errors.New("failed to read workspace file")
)

// Workspace is an analysis workspace on disk.
type Workspace struct {
	dir         string
	excluded    []string
	concurrency int
	logger      *slog.Logger
}

// Option configures a Workspace.
type Option func(*Workspace)

// WithExcludedUnits sets the unit names left out of UnitNames.
// Without this option no unit is excluded.
func WithExcludedUnits(names ...string) Option {
	return func(w *Workspace) {
		w.excluded = slices.Clone(names)
	}
}

// WithConcurrency sets how many units are read at once.
func WithConcurrency(n int) Option {
	return func(w *Workspace) {
		if n > 0 {
			w.concurrency = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Workspace) {
		w.logger = logger
	}
}

// Open checks that dir looks like a workspace and returns it.
func Open(dir string, opts ...Option) (*Workspace, error) {
	w := &Workspace{
		dir:         dir,
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = slog.Default()
	}

	info, err := os.Stat(w.representationDir(model.KindFlatten))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrNotWorkspace, dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrNotWorkspace, w.representationDir(model.KindFlatten))
	}
	return w, nil
}

// Dir returns the workspace root.
func (w *Workspace) Dir() string {
	return w.dir
}

func (w *Workspace) representationDir(kind model.RepresentationKind) string {
	switch kind {
	case model.KindFlatten:
		return filepath.Join(w.dir, InputDir, "contracts_flatten")
	case model.KindCombine:
		return filepath.Join(w.dir, InputDir, "contracts_combine")
	default:
		return filepath.Join(w.dir, InputDir, "contracts")
	}
}

func (w *Workspace) toolDir(tool string) string {
	return filepath.Join(w.dir, OutputDir, tool)
}

// UnitNames lists the flattened sources, sorted by name.
// Directories and excluded units are skipped.
func (w *Workspace) UnitNames(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(w.representationDir(model.KindFlatten))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrListingUnreadable, err)
	}

	units := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if slices.Contains(w.excluded, e.Name()) {
			w.logger.Debug("skipping excluded unit", "unit", e.Name())
			continue
		}
		units = append(units, e.Name())
	}
	slices.Sort(units)
	return units, nil
}

// ToolNames lists the tool directories under output/ that hold at least
// one file, sorted by name. A missing output/ directory yields no tools.
func (w *Workspace) ToolNames(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(filepath.Join(w.dir, OutputDir))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadFailed, err)
	}

	var tools []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		files, err := os.ReadDir(w.toolDir(e.Name()))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrReadFailed, err)
		}
		if slices.ContainsFunc(files, func(f fs.DirEntry) bool { return !f.IsDir() }) {
			tools = append(tools, e.Name())
		}
	}
	slices.Sort(tools)
	return tools, nil
}

// LoadRepresentations reads every representation of every unit.
// The flattened source must exist; the other kinds are optional and
// simply left out of the unit's map when missing.
func (w *Workspace) LoadRepresentations(ctx context.Context, units []string) (map[string]map[model.RepresentationKind]string, error) {
	results := make([]map[model.RepresentationKind]string, len(units))

	err := w.forEachUnit(ctx, units, func(i int, unit string) error {
		reps := make(map[model.RepresentationKind]string, len(model.RepresentationKinds()))
		for _, kind := range model.RepresentationKinds() {
			data, ok, err := readOptional(filepath.Join(w.representationDir(kind), unit))
			if err != nil {
				return err
			}
			if !ok {
				if kind == model.KindFlatten {
					return fmt.Errorf("%w: %s", ErrMissingFlatten, unit)
				}
				continue
			}
			reps[kind] = string(data)
		}
		results[i] = reps
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make(map[string]map[model.RepresentationKind]string, len(units))
	for i, unit := range units {
		out[unit] = results[i]
	}
	return out, nil
}

// LoadToolOutputs reads output/<tool>/<unit> for every pair.
// The result is sparse: a pair without a file has no entry.
func (w *Workspace) LoadToolOutputs(ctx context.Context, units, tools []string) (map[string]map[string][]byte, error) {
	results := make([]map[string][]byte, len(units))

	err := w.forEachUnit(ctx, units, func(i int, unit string) error {
		outputs := make(map[string][]byte)
		for _, tool := range tools {
			data, ok, err := readOptional(filepath.Join(w.toolDir(tool), unit))
			if err != nil {
				return err
			}
			if ok {
				outputs[tool] = data
			}
		}
		results[i] = outputs
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make(map[string]map[string][]byte, len(units))
	for i, unit := range units {
		if len(results[i]) > 0 {
			out[unit] = results[i]
		}
	}
	return out, nil
}

// forEachUnit runs fn for every unit with at most w.concurrency goroutines.
// fn writes its result by index so the outcome never depends on scheduling.
func (w *Workspace) forEachUnit(ctx context.Context, units []string, fn func(i int, unit string) error) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(w.concurrency)

	for i, unit := range units {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			return fn(i, unit)
		})
	}
	return g.Wait()
}

// readOptional reads path. A missing file is reported through ok, not err.
func readOptional(path string) (data []byte, ok bool, err error) {
	data, err = os.ReadFile(path) //nolint:gosec // Paths are built from the workspace listing
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: %s: %w", ErrReadFailed, path, err)
	}
	return data, true, nil
}
