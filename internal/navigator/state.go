package navigator

// State is the navigation state: the selected unit and, per unit, the
// selected pane. It is a value; transitions return a new State.
type State struct {
	unit  string
	inner map[string]string
}

// Unit returns the selected unit slug, or "" when idle.
func (s State) Unit() string {
	return s.unit
}

// Idle reports whether no unit is selected yet.
func (s State) Idle() bool {
	return s.unit == ""
}

// Pane returns the selected pane of unit slug.
func (s State) Pane(slug string) (string, bool) {
	key, ok := s.inner[slug]
	return key, ok
}

// Current returns the selected unit and its selected pane.
func (s State) Current() (slug, key string, ok bool) {
	if s.Idle() {
		return "", "", false
	}
	key, ok = s.inner[s.unit]
	return s.unit, key, ok
}

// Equal reports whether two states select the same tabs.
func (s State) Equal(o State) bool {
	if s.unit != o.unit || len(s.inner) != len(o.inner) {
		return false
	}
	for k, v := range s.inner {
		if ov, ok := o.inner[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

func (s State) withUnit(slug string) State {
	return State{unit: slug, inner: s.inner}
}

func (s State) withPane(slug, key string) State {
	inner := make(map[string]string, len(s.inner)+1)
	for k, v := range s.inner {
		inner[k] = v
	}
	inner[slug] = key
	return State{unit: s.unit, inner: inner}
}

// Effect is what the host must do to the address bar after a transition.
// The zero Effect means nothing.
type Effect struct {
	// Replace, when set, is the fragment that replaces the current history
	// entry (no new entry is pushed).
	Replace string
}

// None reports whether the effect asks for nothing.
func (e Effect) None() bool {
	return e.Replace == ""
}
