package model

// Document is the fully assembled report: every unit with its
// representations and tool outputs, plus the tool columns.
// It is built once by the aggregator and never mutated afterwards.
type Document struct {
	// Units are in discovery order (alphabetical by file name).
	Units []Unit `json:"units"`

	// Tools are the tools with at least one output, sorted by name.
	Tools []Tool `json:"tools"`
}

// Unit returns the unit with the given slug.
func (d *Document) Unit(slug string) (*Unit, bool) {
	for i := range d.Units {
		if d.Units[i].Slug == slug {
			return &d.Units[i], true
		}
	}
	return nil, false
}

// UnitByName returns the unit with the given name.
func (d *Document) UnitByName(name string) (*Unit, bool) {
	for i := range d.Units {
		if d.Units[i].Name == name {
			return &d.Units[i], true
		}
	}
	return nil, false
}

// Cell returns the output of tool for the named unit.
// The second result is false when the unit is unknown or the tool
// produced nothing for it.
func (d *Document) Cell(unitName, tool string) (ToolOutput, bool) {
	u, ok := d.UnitByName(unitName)
	if !ok {
		return ToolOutput{}, false
	}
	return u.Output(tool)
}

// ToolNames returns the names of the tool columns.
func (d *Document) ToolNames() []string {
	names := make([]string, len(d.Tools))
	for i, t := range d.Tools {
		names[i] = t.Name
	}
	return names
}

// UnitNames returns the names of the units in document order.
func (d *Document) UnitNames() []string {
	names := make([]string, len(d.Units))
	for i, u := range d.Units {
		names[i] = u.Name
	}
	return names
}

// PaneKeys returns the content keys of every pane of u: one per
// representation kind followed by one per document tool column.
// Panes exist for absent content too; they are rendered disabled.
func (d *Document) PaneKeys(u *Unit) []string {
	keys := make([]string, 0, len(u.Representations)+len(d.Tools))
	for _, r := range u.Representations {
		keys = append(keys, string(r.Kind))
	}
	for _, t := range d.Tools {
		keys = append(keys, t.Name)
	}
	return keys
}

// OutputCount returns how many units have output from tool.
func (d *Document) OutputCount(tool string) int {
	n := 0
	for i := range d.Units {
		if _, ok := d.Units[i].Output(tool); ok {
			n++
		}
	}
	return n
}
