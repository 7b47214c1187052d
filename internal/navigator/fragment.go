package navigator

import "strings"

// DefaultToken is the leading token of every fragment.
const DefaultToken = "contract"

const (
	tabMarker     = "tab"
	contentMarker = "content"
	navMarker     = "nav-button"
	outputMarker  = "-output-"
)

// Event is a parsed fragment.
type Event interface {
	event()
}

// OuterSelect selects the unit with the given slug.
type OuterSelect struct {
	Slug string
}

// InnerSelect selects pane Key of the unit with the given slug.
type InnerSelect struct {
	Slug string
	Key  string

	// rest is "<slug>-output-<key>" as it appeared in the fragment. Slugs may
	// themselves contain "-output-", so the index can re-split it.
	rest string
}

// Unrecognized is any fragment matching neither shape.
type Unrecognized struct {
	Fragment string
}

func (OuterSelect) event()  {}
func (InnerSelect) event()  {}
func (Unrecognized) event() {}

// Grammar builds and parses fragments for one leading token.
type Grammar struct {
	token string
}

// NewGrammar returns the grammar for token. An empty token means DefaultToken.
// The token must not contain '-'.
func NewGrammar(token string) Grammar {
	if token == "" {
		token = DefaultToken
	}
	return Grammar{token: token}
}

// Token returns the leading token.
func (g Grammar) Token() string {
	return g.token
}

// TabID is the element id of a unit's outer tab container.
func (g Grammar) TabID(slug string) string {
	return g.token + "-" + tabMarker + "-" + slug
}

// NavButtonID is the element id of a unit's outer nav indicator.
func (g Grammar) NavButtonID(slug string) string {
	return g.token + "-" + navMarker + "-" + slug
}

// ContentID is the element id of one pane of a unit.
func (g Grammar) ContentID(slug, key string) string {
	return g.token + "-" + contentMarker + "-" + slug + outputMarker + key
}

// Href turns an element id into a fragment.
func Href(id string) string {
	return "#" + id
}

// Parse turns a fragment into an Event. The leading '#' is optional.
//
// The fragment is split on '-' and the second token decides the shape,
// the same rule the browser script applies, so click and history
// navigation always agree.
func (g Grammar) Parse(fragment string) Event {
	frag := strings.TrimPrefix(fragment, "#")
	tokens := strings.Split(frag, "-")
	if len(tokens) < 3 || tokens[0] != g.token {
		return Unrecognized{Fragment: fragment}
	}

	switch tokens[1] {
	case tabMarker:
		slug := strings.TrimPrefix(frag, g.token+"-"+tabMarker+"-")
		if slug == "" {
			return Unrecognized{Fragment: fragment}
		}
		return OuterSelect{Slug: slug}
	case contentMarker:
		rest := strings.TrimPrefix(frag, g.token+"-"+contentMarker+"-")
		splits := splitInner(rest)
		if len(splits) == 0 {
			return Unrecognized{Fragment: fragment}
		}
		first := splits[0]
		first.rest = rest
		return first
	default:
		return Unrecognized{Fragment: fragment}
	}
}

// splitInner returns every way to cut rest into a non-empty slug and key
// at an "-output-" marker, leftmost first.
func splitInner(rest string) []InnerSelect {
	var out []InnerSelect
	for offset := 0; ; {
		i := strings.Index(rest[offset:], outputMarker)
		if i < 0 {
			return out
		}
		at := offset + i
		slug, key := rest[:at], rest[at+len(outputMarker):]
		if slug != "" && key != "" {
			out = append(out, InnerSelect{Slug: slug, Key: key, rest: rest})
		}
		offset = at + 1
	}
}
