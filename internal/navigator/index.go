package navigator

import "github.com/nao1215/solhydra/internal/model"

// Entry describes one unit as far as navigation is concerned.
type Entry struct {
	Slug    string
	Panes   []string
	Default string
}

// Index is the static shape of the tab tree: which units exist, in which
// order, which panes each has and which pane opens by default.
type Index struct {
	entries []Entry
	bySlug  map[string]int
}

// NewIndex builds an index from entries, keeping their order.
// A later entry with an already seen slug is ignored.
func NewIndex(entries ...Entry) *Index {
	idx := &Index{
		entries: make([]Entry, 0, len(entries)),
		bySlug:  make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		if _, dup := idx.bySlug[e.Slug]; dup {
			continue
		}
		idx.bySlug[e.Slug] = len(idx.entries)
		idx.entries = append(idx.entries, e)
	}
	return idx
}

// IndexDocument builds the index of doc. preferred is the representation
// kind opened by default when a unit has it.
func IndexDocument(doc *model.Document, preferred model.RepresentationKind) *Index {
	entries := make([]Entry, 0, len(doc.Units))
	for i := range doc.Units {
		u := &doc.Units[i]
		entries = append(entries, Entry{
			Slug:    u.Slug,
			Panes:   doc.PaneKeys(u),
			Default: u.DefaultPane(preferred),
		})
	}
	return NewIndex(entries...)
}

// Entries returns the units in document order.
func (idx *Index) Entries() []Entry {
	return idx.entries
}

// Lookup returns the entry for slug.
func (idx *Index) Lookup(slug string) (Entry, bool) {
	i, ok := idx.bySlug[slug]
	if !ok {
		return Entry{}, false
	}
	return idx.entries[i], true
}

// HasPane reports whether the unit slug has a pane key.
func (idx *Index) HasPane(slug, key string) bool {
	e, ok := idx.Lookup(slug)
	if !ok {
		return false
	}
	for _, p := range e.Panes {
		if p == key {
			return true
		}
	}
	return false
}

// resolve maps an InnerSelect onto a known (slug, key) pair, trying every
// split of the fragment when the leftmost one names an unknown unit.
func (idx *Index) resolve(e InnerSelect) (InnerSelect, bool) {
	if idx.HasPane(e.Slug, e.Key) {
		return e, true
	}
	if e.rest == "" {
		return InnerSelect{}, false
	}
	for _, cand := range splitInner(e.rest) {
		if idx.HasPane(cand.Slug, cand.Key) {
			return cand, true
		}
	}
	return InnerSelect{}, false
}
