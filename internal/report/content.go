package report

import (
	"bytes"
	"encoding/base64"
	"net/http"
	"strings"

	"golang.org/x/net/html"
)

// mimeSVG is the media type of SVG images.
const mimeSVG = "image/svg+xml"

// sniffImage returns the media type of an image output.
// SVG is recognized by its root element because content sniffing
// reports it as XML or plain text.
func sniffImage(data []byte) string {
	if isSVG(data) {
		return mimeSVG
	}
	mime := http.DetectContentType(data)
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	if !strings.HasPrefix(mime, "image/") {
		return "application/octet-stream"
	}
	return mime
}

// isSVG reports whether the first element of data is <svg>.
// Leading XML declarations, doctypes and comments are skipped.
func isSVG(data []byte) bool {
	z := html.NewTokenizer(bytes.NewReader(data))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return false
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			return string(name) == "svg"
		case html.TextToken:
			if len(bytes.TrimSpace(z.Text())) > 0 {
				return false
			}
		case html.EndTagToken:
			return false
		default:
			// comments, doctypes and <?xml ...?> (tokenized as a comment)
		}
	}
}

// dataURI embeds data as a base64 data: URI.
func dataURI(data []byte) string {
	mime := sniffImage(data)
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}
