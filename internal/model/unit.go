package model

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// SourceExtension is the file extension stripped from unit names when slugging.
const SourceExtension = ".sol"

// RepresentationKind names one textual form of a unit's source.
type RepresentationKind string

const (
	// KindFlatten is the unit with all imports inlined. Every listed unit has it.
	KindFlatten RepresentationKind = "flatten"

	// KindCombine is the unit merged with its dependencies into one artifact.
	KindCombine RepresentationKind = "combine"

	// KindOriginal is the file as the user wrote it. Units pulled in from
	// dependency directories have no original.
	KindOriginal RepresentationKind = "original"
)

// RepresentationKinds returns every representation kind in display order.
func RepresentationKinds() []RepresentationKind {
	return []RepresentationKind{KindFlatten, KindCombine, KindOriginal}
}

// IsRepresentationKind reports whether key names a representation rather than a tool.
func IsRepresentationKind(key string) bool {
	for _, k := range RepresentationKinds() {
		if string(k) == key {
			return true
		}
	}
	return false
}

// Content is an optional blob of text.
// Valid is false when the content does not exist at all, which is
// different from an existing but empty file.
type Content struct {
	Value string
	Valid bool
}

// Present returns a Content holding s.
func Present(s string) Content {
	return Content{Value: s, Valid: true}
}

// Absent returns the absent marker.
func Absent() Content {
	return Content{}
}

// MarshalJSON encodes absent content as null.
func (c Content) MarshalJSON() ([]byte, error) {
	if !c.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(c.Value)
}

// UnmarshalJSON decodes null as absent content.
func (c *Content) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*c = Absent()
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*c = Present(s)
	return nil
}

// Representation is one kind of source text for a unit.
type Representation struct {
	Kind    RepresentationKind `json:"kind"`
	Content Content            `json:"content"`
}

// Tool is an analysis tool that produced output for at least one unit.
type Tool struct {
	Name        string      `json:"name"`
	ContentType ContentType `json:"content_type"`
}

// ToolOutput is what one tool produced for one unit.
// For markdown tools Content already holds the converted HTML.
type ToolOutput struct {
	Tool        string      `json:"tool"`
	ContentType ContentType `json:"content_type"`
	Content     string      `json:"content"`
}

// EncodingBase64 marks JSON content that is base64 encoded.
const EncodingBase64 = "base64"

// toolOutputJSON is the wire form of ToolOutput.
type toolOutputJSON struct {
	Tool        string      `json:"tool"`
	ContentType ContentType `json:"content_type"`
	Encoding    string      `json:"encoding,omitempty"`
	Content     string      `json:"content"`
}

// MarshalJSON encodes image content as base64. Image bytes are not
// UTF-8 and would otherwise be mangled by the JSON encoder.
func (o ToolOutput) MarshalJSON() ([]byte, error) {
	w := toolOutputJSON{
		Tool:        o.Tool,
		ContentType: o.ContentType,
		Content:     o.Content,
	}
	if o.ContentType == ContentTypeImage {
		w.Encoding = EncodingBase64
		w.Content = base64.StdEncoding.EncodeToString([]byte(o.Content))
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes content written by MarshalJSON.
func (o *ToolOutput) UnmarshalJSON(data []byte) error {
	var w toolOutputJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	content := w.Content
	switch w.Encoding {
	case "":
	case EncodingBase64:
		raw, err := base64.StdEncoding.DecodeString(w.Content)
		if err != nil {
			return fmt.Errorf("tool output %s: %w", w.Tool, err)
		}
		content = string(raw)
	default:
		return fmt.Errorf("tool output %s: unknown encoding %q", w.Tool, w.Encoding)
	}
	*o = ToolOutput{Tool: w.Tool, ContentType: w.ContentType, Content: content}
	return nil
}

// Unit is one analyzed source file.
type Unit struct {
	// Name is the source file name, e.g. "Token.sol".
	Name string `json:"name"`

	// Slug is the fragment-safe identifier derived from Name.
	Slug string `json:"slug"`

	// Representations has one entry per RepresentationKinds, in that order.
	Representations []Representation `json:"representations"`

	// Outputs holds only the tools that produced something for this unit,
	// sorted by tool name.
	Outputs []ToolOutput `json:"outputs"`
}

// Representation returns the content of the given kind.
// It returns the absent marker when the kind is unknown or missing.
func (u *Unit) Representation(kind RepresentationKind) Content {
	for _, r := range u.Representations {
		if r.Kind == kind {
			return r.Content
		}
	}
	return Absent()
}

// Output returns the output of the named tool, if any.
func (u *Unit) Output(tool string) (ToolOutput, bool) {
	for _, o := range u.Outputs {
		if o.Tool == tool {
			return o, true
		}
	}
	return ToolOutput{}, false
}

// DefaultPane returns the pane key selected when the unit is opened
// without an explicit pane: preferred if that representation exists,
// otherwise the first present representation, otherwise the first tool output.
func (u *Unit) DefaultPane(preferred RepresentationKind) string {
	if u.Representation(preferred).Valid {
		return string(preferred)
	}
	for _, r := range u.Representations {
		if r.Content.Valid {
			return string(r.Kind)
		}
	}
	if len(u.Outputs) > 0 {
		return u.Outputs[0].Tool
	}
	return string(preferred)
}

// Slugify turns a unit name into its fragment-safe slug.
// The result only contains [a-z0-9_-] and is a pure function of name.
//
//	"Token.sol"    -> "token"
//	"My.Token.sol" -> "my-token"
//	"Ünïcode.sol"  -> "unicode"
func Slugify(name string) string {
	base := name
	if strings.EqualFold(filepath.Ext(base), SourceExtension) {
		base = base[:len(base)-len(SourceExtension)]
	}

	// Transformers and casers carry state, so build them per call.
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, base)
	if err != nil {
		folded = base
	}
	lower := cases.Lower(language.Und).String(folded)

	var sb strings.Builder
	pendingHyphen := false
	for _, r := range lower {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			if pendingHyphen && sb.Len() > 0 {
				sb.WriteByte('-')
			}
			pendingHyphen = false
			sb.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return sb.String()
}
