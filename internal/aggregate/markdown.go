package aggregate

import (
	"bytes"

	"github.com/yuin/goldmark"
)

// Converter turns markdown source into HTML.
type Converter interface {
	Convert(source []byte) ([]byte, error)
}

// goldmarkConverter is the default CommonMark converter.
type goldmarkConverter struct {
	md goldmark.Markdown
}

// NewMarkdownConverter returns a CommonMark converter backed by goldmark.
// Raw HTML inside the markdown is dropped, which is goldmark's default.
func NewMarkdownConverter() Converter {
	return &goldmarkConverter{md: goldmark.New()}
}

// Convert implements Converter.
func (g *goldmarkConverter) Convert(source []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := g.md.Convert(source, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
