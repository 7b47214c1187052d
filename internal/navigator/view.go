package navigator

// PaneView is one inner pane as rendered.
type PaneView struct {
	Key     string
	ID      string
	Current bool
}

// OuterView is one unit tab as rendered.
type OuterView struct {
	Slug        string
	TabID       string
	NavButtonID string
	Current     bool
	Panes       []PaneView
}

// View is the whole tab tree with its "current" markers.
type View struct {
	Outers []OuterView
}

// Project computes the view of state s. The view never depends on
// anything but the index and the state.
func Project(idx *Index, g Grammar, s State) View {
	entries := idx.Entries()
	v := View{Outers: make([]OuterView, 0, len(entries))}
	for _, e := range entries {
		selected, hasPane := s.Pane(e.Slug)
		ov := OuterView{
			Slug:        e.Slug,
			TabID:       g.TabID(e.Slug),
			NavButtonID: g.NavButtonID(e.Slug),
			Current:     e.Slug == s.Unit(),
			Panes:       make([]PaneView, 0, len(e.Panes)),
		}
		for _, key := range e.Panes {
			ov.Panes = append(ov.Panes, PaneView{
				Key:     key,
				ID:      g.ContentID(e.Slug, key),
				Current: hasPane && key == selected,
			})
		}
		v.Outers = append(v.Outers, ov)
	}
	return v
}

// Outer returns the view of unit slug.
func (v View) Outer(slug string) (OuterView, bool) {
	for _, o := range v.Outers {
		if o.Slug == slug {
			return o, true
		}
	}
	return OuterView{}, false
}

// Current returns the current unit and pane as rendered.
func (v View) Current() (slug, key string, ok bool) {
	for _, o := range v.Outers {
		if !o.Current {
			continue
		}
		for _, p := range o.Panes {
			if p.Current {
				return o.Slug, p.Key, true
			}
		}
		return o.Slug, "", false
	}
	return "", "", false
}
