package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/nao1215/solhydra/internal/model"
	"golang.org/x/net/html"
)

func renderHTML(t *testing.T, doc *model.Document, opts ...HTMLWriterOption) (*html.Node, string) {
	t.Helper()
	var buf bytes.Buffer
	n, err := NewHTMLWriter(&buf, opts...).Write(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != buf.Len() {
		t.Errorf("expected %d bytes reported, got %d", buf.Len(), n)
	}
	root, err := html.Parse(strings.NewReader(buf.String()))
	if err != nil {
		t.Fatalf("failed to parse report: %v", err)
	}
	return root, buf.String()
}

// TestHTMLWriterStructure tests the tab tree of the report.
func TestHTMLWriterStructure(t *testing.T) {
	t.Parallel()

	root, _ := renderHTML(t, createTestDocument())

	t.Run("one outer tab and nav button per unit", func(t *testing.T) {
		t.Parallel()
		for _, slug := range []string{"crowdsale", "mytoken", "vault"} {
			tab := findByID(root, "contract-tab-"+slug)
			if tab == nil || !hasClass(tab, "outer-tab") {
				t.Errorf("expected outer tab for %s", slug)
			}
			button := findByID(root, "contract-nav-button-"+slug)
			if button == nil || attr(button, "href") != "#contract-tab-"+slug {
				t.Errorf("expected nav button linking to the %s tab", slug)
			}
		}
	})

	t.Run("every unit has a pane per representation and tool", func(t *testing.T) {
		t.Parallel()
		keys := []string{"flatten", "combine", "original", "mythril", "solgraph", "solidity-coverage", "solium"}
		for _, slug := range []string{"crowdsale", "mytoken", "vault"} {
			for _, key := range keys {
				if findByID(root, "contract-content-"+slug+"-output-"+key) == nil {
					t.Errorf("expected pane %s/%s", slug, key)
				}
			}
		}
	})

	t.Run("first unit and its default pane are current", func(t *testing.T) {
		t.Parallel()
		tabs := findAll(root, func(n *html.Node) bool { return hasClass(n, "outer-tab") && hasClass(n, "current") })
		if len(tabs) != 1 || attr(tabs[0], "data-unit") != "crowdsale" {
			t.Fatalf("expected crowdsale as the only current tab, got %d tabs", len(tabs))
		}
		panes := findAll(root, func(n *html.Node) bool { return hasClass(n, "pane") && hasClass(n, "current") })
		if len(panes) != 1 || attr(panes[0], "id") != "contract-content-crowdsale-output-flatten" {
			t.Fatalf("expected the crowdsale flatten pane as the only current pane, got %d", len(panes))
		}
		buttons := findAll(root, func(n *html.Node) bool { return hasClass(n, "outer-nav-button") && hasClass(n, "current") })
		if len(buttons) != 1 || attr(buttons[0], "id") != "contract-nav-button-crowdsale" {
			t.Error("expected the crowdsale nav button to be current")
		}
	})

	t.Run("pane links use the content grammar", func(t *testing.T) {
		t.Parallel()
		tab := findByID(root, "contract-tab-mytoken")
		links := findAll(tab, withClass("pane-nav-button"))
		if len(links) != 7 {
			t.Fatalf("expected 7 pane links, got %d", len(links))
		}
		for _, a := range links {
			want := "#contract-content-mytoken-output-" + attr(a, "data-pane")
			if attr(a, "href") != want {
				t.Errorf("expected href %q, got %q", want, attr(a, "href"))
			}
		}
		if attr(tab, "data-default-pane") != "flatten" {
			t.Errorf("expected flatten as default pane, got %q", attr(tab, "data-default-pane"))
		}
	})

	t.Run("navigation script is inlined", func(t *testing.T) {
		t.Parallel()
		scripts := findAll(root, func(n *html.Node) bool { return n.Data == "script" })
		if len(scripts) != 1 {
			t.Fatalf("expected one script, got %d", len(scripts))
		}
		if !strings.Contains(textOf(scripts[0]), "hashchange") {
			t.Error("expected the script to listen for hashchange")
		}
		if attr(scripts[0], "src") != "" {
			t.Error("expected no external script")
		}
	})
}

// TestHTMLWriterContent tests how each content type is rendered.
func TestHTMLWriterContent(t *testing.T) {
	t.Parallel()

	root, _ := renderHTML(t, createTestDocument())
	pane := func(slug, key string) *html.Node {
		t.Helper()
		p := findByID(root, "contract-content-"+slug+"-output-"+key)
		if p == nil {
			t.Fatalf("missing pane %s/%s", slug, key)
		}
		return p
	}

	t.Run("source is preformatted", func(t *testing.T) {
		t.Parallel()
		pres := findAll(pane("mytoken", "flatten"), func(n *html.Node) bool { return n.Data == "pre" })
		if len(pres) != 1 || !strings.Contains(textOf(pres[0]), "contract MyToken {}") {
			t.Error("expected the flattened source in a pre element")
		}
	})

	t.Run("text output is escaped", func(t *testing.T) {
		t.Parallel()
		p := pane("crowdsale", "solium")
		if scripts := findAll(p, func(n *html.Node) bool { return n.Data == "script" }); len(scripts) != 0 {
			t.Error("expected text output not to create elements")
		}
		if !strings.Contains(textOf(p), "<script>alert(1)</script>") {
			t.Errorf("expected the literal text, got %q", textOf(p))
		}
	})

	t.Run("markdown output is inserted as markup", func(t *testing.T) {
		t.Parallel()
		p := pane("mytoken", "mythril")
		h1 := findAll(p, func(n *html.Node) bool { return n.Data == "h1" })
		if len(h1) != 1 || textOf(h1[0]) != "Analysis results" {
			t.Error("expected the converted heading")
		}
	})

	t.Run("html output is sandboxed", func(t *testing.T) {
		t.Parallel()
		frames := findAll(pane("mytoken", "solidity-coverage"), func(n *html.Node) bool { return n.Data == "iframe" })
		if len(frames) != 1 {
			t.Fatalf("expected one iframe, got %d", len(frames))
		}
		if attr(frames[0], "srcdoc") != "<html><body><p>97%</p></body></html>" {
			t.Errorf("unexpected srcdoc %q", attr(frames[0], "srcdoc"))
		}
		hasSandbox := false
		for _, a := range frames[0].Attr {
			if a.Key == "sandbox" {
				hasSandbox = true
			}
		}
		if !hasSandbox {
			t.Error("expected a sandbox attribute")
		}
	})

	t.Run("image output is a data URI", func(t *testing.T) {
		t.Parallel()
		imgs := findAll(pane("mytoken", "solgraph"), func(n *html.Node) bool { return n.Data == "img" })
		if len(imgs) != 1 || !strings.HasPrefix(attr(imgs[0], "src"), "data:image/png;base64,") {
			t.Error("expected a PNG data URI")
		}
	})

	t.Run("absent representation is disabled", func(t *testing.T) {
		t.Parallel()
		p := pane("crowdsale", "combine")
		if !hasClass(p, "disabled") {
			t.Error("expected the pane to be disabled")
		}
		if !strings.Contains(textOf(p), "not available") {
			t.Errorf("expected a not available note, got %q", textOf(p))
		}
	})

	t.Run("missing tool output is disabled", func(t *testing.T) {
		t.Parallel()
		p := pane("vault", "solium")
		if !hasClass(p, "disabled") || !strings.Contains(textOf(p), "not available") {
			t.Error("expected a disabled solium pane for vault")
		}
	})
}

// TestHTMLWriterOptions tests the writer options.
func TestHTMLWriterOptions(t *testing.T) {
	t.Parallel()

	t.Run("custom token and title", func(t *testing.T) {
		t.Parallel()
		root, _ := renderHTML(t, createTestDocument(), WithFragmentToken("unit"), WithTitle("MyToken audit"))

		if findByID(root, "unit-tab-mytoken") == nil {
			t.Error("expected ids to use the custom token")
		}
		if app := findByID(root, "solhydra"); app == nil || attr(app, "data-token") != "unit" {
			t.Error("expected the token to be passed to the script")
		}
		titles := findAll(root, func(n *html.Node) bool { return n.Data == "title" })
		if len(titles) != 1 || textOf(titles[0]) != "MyToken audit" {
			t.Error("expected the custom title")
		}
	})

	t.Run("default pane preference", func(t *testing.T) {
		t.Parallel()
		root, _ := renderHTML(t, createTestDocument(), WithDefaultPane(model.KindOriginal))

		if attr(findByID(root, "contract-tab-mytoken"), "data-default-pane") != "original" {
			t.Error("expected original as mytoken's default pane")
		}
		// crowdsale has no original source and falls back to flatten.
		if !hasClass(findByID(root, "contract-content-crowdsale-output-flatten"), "current") {
			t.Error("expected crowdsale to fall back to flatten")
		}
	})

	t.Run("empty document", func(t *testing.T) {
		t.Parallel()
		_, out := renderHTML(t, &model.Document{})
		if !strings.Contains(out, "No units were analyzed.") {
			t.Error("expected an empty report notice")
		}
	})

	t.Run("output is deterministic", func(t *testing.T) {
		t.Parallel()
		_, a := renderHTML(t, createTestDocument())
		_, b := renderHTML(t, createTestDocument())
		if a != b {
			t.Error("expected identical output for identical documents")
		}
	})
}
