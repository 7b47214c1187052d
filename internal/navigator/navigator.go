package navigator

import "log/slog"

// Navigator drives the tab state from fragments.
// It is not safe for concurrent use; the host delivers events one at a time.
type Navigator struct {
	grammar Grammar
	index   *Index
	state   State
	logger  *slog.Logger
}

// Option configures a Navigator.
type Option func(*Navigator)

// WithGrammar sets the fragment grammar. The default uses DefaultToken.
func WithGrammar(g Grammar) Option {
	return func(n *Navigator) {
		n.grammar = g
	}
}

// WithLogger sets the logger used for ignored fragments.
func WithLogger(logger *slog.Logger) Option {
	return func(n *Navigator) {
		n.logger = logger
	}
}

// New creates an idle Navigator over idx.
func New(idx *Index, opts ...Option) *Navigator {
	n := &Navigator{
		grammar: NewGrammar(""),
		index:   idx,
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.logger == nil {
		n.logger = slog.Default()
	}
	return n
}

// State returns the current state.
func (n *Navigator) State() State {
	return n.state
}

// Transition computes the state that follows s on event e. It does not
// touch the navigator's own state.
func (n *Navigator) Transition(s State, e Event) (State, Effect) {
	switch ev := e.(type) {
	case OuterSelect:
		return n.selectOuter(s, ev.Slug)
	case InnerSelect:
		resolved, ok := n.index.resolve(ev)
		if !ok {
			return s, Effect{}
		}
		next, _ := n.selectOuter(s, resolved.Slug)
		return next.withPane(resolved.Slug, resolved.Key), Effect{}
	default:
		return s, Effect{}
	}
}

// selectOuter makes slug current. When the unit has no selected pane yet
// its default pane is selected and the address is replaced with that
// pane's fragment, so every activated unit shows exactly one pane.
func (n *Navigator) selectOuter(s State, slug string) (State, Effect) {
	entry, ok := n.index.Lookup(slug)
	if !ok {
		return s, Effect{}
	}

	next := s.withUnit(slug)
	if _, ok := next.Pane(slug); ok {
		return next, Effect{}
	}
	if entry.Default == "" {
		return next, Effect{}
	}

	next = next.withPane(slug, entry.Default)
	return next, Effect{Replace: Href(n.grammar.ContentID(slug, entry.Default))}
}

// Dispatch parses fragment and applies the resulting transition.
func (n *Navigator) Dispatch(fragment string) Effect {
	ev := n.grammar.Parse(fragment)
	next, eff := n.Transition(n.state, ev)
	if next.Equal(n.state) && eff.None() {
		n.logger.Debug("fragment changed nothing", "fragment", fragment)
	}
	n.state = next
	return eff
}

// Init selects the first unit the way a click on its tab link would.
// It does nothing when there are no units.
func (n *Navigator) Init() Effect {
	entries := n.index.Entries()
	if len(entries) == 0 {
		return Effect{}
	}
	return n.Dispatch(Href(n.grammar.TabID(entries[0].Slug)))
}

// Start initializes the navigator and then applies the fragment the
// document was opened with, if any. A shared link therefore lands on the
// pane it names, and an unusable one leaves the first unit selected.
func (n *Navigator) Start(fragment string) Effect {
	eff := n.Init()
	if fragment == "" || fragment == "#" {
		return eff
	}
	before := n.state
	next := n.Dispatch(fragment)
	if n.state.Equal(before) {
		return eff
	}
	return next
}

// View projects the current state.
func (n *Navigator) View() View {
	return Project(n.index, n.grammar, n.state)
}
