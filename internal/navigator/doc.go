// Package navigator models the two-level tab navigation of the report.
//
// The report shows one outer tab per analyzed unit and, inside it, one
// inner pane per representation or tool output. Which pair is visible is
// encoded in the address fragment:
//
//	#contract-tab-<slug>                  select a unit
//	#contract-content-<slug>-output-<key> select a pane of a unit
//
// Fragments are parsed once, at the boundary, into an Event
// (OuterSelect, InnerSelect or Unrecognized). Transition is a pure
// function from (State, Event) to (State, Effect), and View projects a
// State onto the tab tree. The HTML writer uses this package to emit ids
// and hrefs and to pre-render the initial selection; the embedded
// browser script implements the same grammar and transitions.
//
// Unrecognized fragments never change the state: fragments can be typed
// by hand, so the navigator must not fail on them.
package navigator
