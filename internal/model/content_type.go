package model

import (
	"errors"
	"fmt"
	"strings"
)

// ContentType declares what kind of artifact a tool emits.
// It is fixed per tool: a tool always produces the same kind of output,
// whichever unit it ran against.
//
// Design decision: We keep this a closed enumeration. A tool whose output
// needs more structure than these four kinds gets a new constant rather
// than overloading an existing one.
type ContentType int

const (
	// ContentTypeText is plain text, shown preformatted.
	ContentTypeText ContentType = iota

	// ContentTypeMarkdown is CommonMark converted to HTML at assembly time.
	ContentTypeMarkdown

	// ContentTypeHTML is markup the tool already rendered (e.g. a coverage report).
	ContentTypeHTML

	// ContentTypeImage is a binary or SVG image.
	ContentTypeImage
)

// ErrUnknownContentType is returned when a content type name is not recognized.
var ErrUnknownContentType = errors.New("unknown content type")

// String returns the configuration name of the content type.
func (c ContentType) String() string {
	switch c {
	case ContentTypeText:
		return "text"
	case ContentTypeMarkdown:
		return "markdown"
	case ContentTypeHTML:
		return "html"
	case ContentTypeImage:
		return "image"
	default:
		return "unknown"
	}
}

// ParseContentType converts a configuration name into a ContentType.
// Matching is case-insensitive and ignores surrounding whitespace.
func ParseContentType(s string) (ContentType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "plain", "plain-text":
		return ContentTypeText, nil
	case "markdown", "md":
		return ContentTypeMarkdown, nil
	case "html", "rendered-markup":
		return ContentTypeHTML, nil
	case "image":
		return ContentTypeImage, nil
	default:
		return ContentTypeText, fmt.Errorf("%w: %q", ErrUnknownContentType, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c ContentType) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
// yaml.v3 and encoding/json both pick this up.
func (c *ContentType) UnmarshalText(text []byte) error {
	parsed, err := ParseContentType(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
