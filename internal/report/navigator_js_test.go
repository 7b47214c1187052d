package report

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"slices"
	"strings"
	"testing"

	"github.com/dop251/goja"
	"github.com/nao1215/solhydra/internal/model"
	"github.com/nao1215/solhydra/internal/navigator"
	"golang.org/x/net/html"
)

// domPrelude is the small slice of the browser the navigation script
// touches: element lookup by id, class queries, classList and attributes,
// the hashchange listener, location.hash and history.replaceState.
// replaceState rewrites the hash without firing hashchange, as browsers do.
const domPrelude = `
var location = { hash: initialHash };
var listeners = {};
var window = {
  addEventListener: function (type, fn) {
    (listeners[type] = listeners[type] || []).push(fn);
  }
};
var history = {
  replaceState: function (state, title, url) {
    location.hash = url;
  }
};

function Element(n, index) {
  var self = this;
  this.index = index;
  this.parent = n.parent;
  this.id = n.id;
  this.label = n.label;
  this.attrs = n.attrs || {};
  this.classes = n.classes || [];
  this.classList = {
    contains: function (cls) {
      return self.classes.indexOf(cls) >= 0;
    },
    toggle: function (cls, on) {
      var at = self.classes.indexOf(cls);
      if (on === undefined) {
        on = at < 0;
      }
      if (on && at < 0) {
        self.classes.push(cls);
      }
      if (!on && at >= 0) {
        self.classes.splice(at, 1);
      }
      return on;
    }
  };
}

Element.prototype.getAttribute = function (name) {
  return Object.prototype.hasOwnProperty.call(this.attrs, name) ? this.attrs[name] : null;
};

Element.prototype.contains = function (other) {
  for (var p = other.parent; p >= 0; p = nodes[p].parent) {
    if (p === this.index) {
      return true;
    }
  }
  return false;
};

Element.prototype.querySelectorAll = function (selector) {
  if (!/^\.[\w-]+$/.test(selector)) {
    throw new Error('unsupported selector ' + selector);
  }
  var cls = selector.slice(1);
  var self = this;
  return nodes.filter(function (n) {
    return self.contains(n) && n.classList.contains(cls);
  });
};

var nodes = JSON.parse(domJSON).map(function (n, i) {
  return new Element(n, i);
});

var document = {
  getElementById: function (id) {
    for (var i = 0; i < nodes.length; i++) {
      if (nodes[i].id === id) {
        return nodes[i];
      }
    }
    return null;
  }
};

function snapshot() {
  var current = nodes.filter(function (n) {
    return n.label && n.classList.contains('current');
  }).map(function (n) {
    return n.label;
  });
  return JSON.stringify({ hash: location.hash, current: current });
}

function navigate(hash) {
  location.hash = hash;
  (listeners.hashchange || []).forEach(function (fn) {
    fn();
  });
  return snapshot();
}
`

// domNode is one element of the rendered report as the prelude sees it.
// Label names the element in snapshots: its id, or for pane buttons,
// which carry no id, "btn:<tab id>:<pane key>".
type domNode struct {
	Parent  int               `json:"parent"`
	ID      string            `json:"id"`
	Label   string            `json:"label"`
	Classes []string          `json:"classes"`
	Attrs   map[string]string `json:"attrs"`
}

type pageSnapshot struct {
	Hash    string   `json:"hash"`
	Current []string `json:"current"`
}

// jsPage is a rendered report with the navigation script running in it.
type jsPage struct {
	vm *goja.Runtime
	// rendered is the markup's own state, before the script ran.
	rendered pageSnapshot
	// started is the state once the script has started.
	started pageSnapshot
}

func describeDOM(root *html.Node) []domNode {
	var nodes []domNode
	var walk func(n *html.Node, parent int, tabID string)
	walk = func(n *html.Node, parent int, tabID string) {
		if n.Type == html.ElementNode {
			node := domNode{
				Parent:  parent,
				ID:      attr(n, "id"),
				Classes: strings.Fields(attr(n, "class")),
				Attrs:   make(map[string]string, len(n.Attr)),
			}
			for _, a := range n.Attr {
				node.Attrs[a.Key] = a.Val
			}
			if hasClass(n, "outer-tab") {
				tabID = node.ID
			}
			node.Label = node.ID
			if hasClass(n, "pane-nav-button") {
				node.Label = "btn:" + tabID + ":" + attr(n, "data-pane")
			}
			nodes = append(nodes, node)
			parent = len(nodes) - 1
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, parent, tabID)
		}
	}
	walk(root, -1, "")
	return nodes
}

// openPage renders doc, loads it into a JS runtime with location.hash set
// to hash and runs the embedded navigation script.
func openPage(t *testing.T, doc *model.Document, hash string) *jsPage {
	t.Helper()

	var buf bytes.Buffer
	if _, err := NewHTMLWriter(&buf).Write(doc); err != nil {
		t.Fatalf("failed to render report: %v", err)
	}
	root, err := html.Parse(&buf)
	if err != nil {
		t.Fatalf("failed to parse report: %v", err)
	}
	dom, err := json.Marshal(describeDOM(root))
	if err != nil {
		t.Fatalf("failed to describe report: %v", err)
	}
	script, err := assets.ReadFile("assets/navigator.js")
	if err != nil {
		t.Fatalf("failed to read script: %v", err)
	}

	p := &jsPage{vm: goja.New()}
	if err := p.vm.Set("domJSON", string(dom)); err != nil {
		t.Fatal(err)
	}
	if err := p.vm.Set("initialHash", hash); err != nil {
		t.Fatal(err)
	}
	if _, err := p.vm.RunScript("prelude.js", domPrelude); err != nil {
		t.Fatalf("failed to load the page: %v", err)
	}
	p.rendered = p.call(t, "snapshot")
	if _, err := p.vm.RunScript("navigator.js", string(script)); err != nil {
		t.Fatalf("navigation script failed to start: %v", err)
	}
	p.started = p.call(t, "snapshot")
	return p
}

// navigate sets location.hash to fragment and fires hashchange.
func (p *jsPage) navigate(t *testing.T, fragment string) pageSnapshot {
	t.Helper()
	return p.call(t, "navigate", fragment)
}

func (p *jsPage) call(t *testing.T, name string, args ...string) pageSnapshot {
	t.Helper()
	fn, ok := goja.AssertFunction(p.vm.Get(name))
	if !ok {
		t.Fatalf("%s is not a function", name)
	}
	values := make([]goja.Value, 0, len(args))
	for _, a := range args {
		values = append(values, p.vm.ToValue(a))
	}
	res, err := fn(goja.Undefined(), values...)
	if err != nil {
		t.Fatalf("%s(%q) threw: %v", name, args, err)
	}
	var snap pageSnapshot
	if err := json.Unmarshal([]byte(res.String()), &snap); err != nil {
		t.Fatalf("bad snapshot %q: %v", res.String(), err)
	}
	slices.Sort(snap.Current)
	return snap
}

// expectedCurrent lists what the page should mark current for view v,
// labelled the way describeDOM labels elements.
func expectedCurrent(v navigator.View) []string {
	out := []string{}
	for _, o := range v.Outers {
		if o.Current {
			out = append(out, o.TabID, o.NavButtonID)
		}
		for _, pv := range o.Panes {
			if pv.Current {
				out = append(out, pv.ID, "btn:"+o.TabID+":"+pv.Key)
			}
		}
	}
	slices.Sort(out)
	return out
}

// expectedHash is the address after fragment was navigated to.
func expectedHash(fragment string, eff navigator.Effect) string {
	if eff.Replace != "" {
		return eff.Replace
	}
	return fragment
}

func newGoNavigator(doc *model.Document) *navigator.Navigator {
	return navigator.New(
		navigator.IndexDocument(doc, model.KindFlatten),
		navigator.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
}

// oddTool has a name no CSS selector could hold unescaped.
const oddTool = `we"ird\tool`

// navigationDocument extends the test document with a unit whose slug
// contains the "-output-" marker and a tool with quote and backslash in
// its name.
func navigationDocument() *model.Document {
	doc := createTestDocument()
	doc.Tools = append(doc.Tools, model.Tool{Name: oddTool, ContentType: model.ContentTypeText})
	doc.Units[1].Outputs = append(doc.Units[1].Outputs,
		model.ToolOutput{Tool: oddTool, ContentType: model.ContentTypeText, Content: "odd"})
	doc.Units = append(doc.Units, model.Unit{
		Name: "a-output-b.sol",
		Slug: "a-output-b",
		Representations: []model.Representation{
			{Kind: model.KindFlatten, Content: model.Present("contract B {}")},
			{Kind: model.KindCombine, Content: model.Absent()},
			{Kind: model.KindOriginal, Content: model.Absent()},
		},
	})
	return doc
}

// TestNavigatorScriptMatchesModel drives the embedded navigation script
// and the Go navigator with the same fragments and compares what each
// marks current and where each leaves the address.
func TestNavigatorScriptMatchesModel(t *testing.T) {
	t.Parallel()

	t.Run("hashchange sequence", func(t *testing.T) {
		t.Parallel()

		doc := navigationDocument()
		page := openPage(t, doc, "")
		nav := newGoNavigator(doc)
		eff := nav.Start("")

		if want := expectedCurrent(nav.View()); !slices.Equal(page.started.Current, want) {
			t.Fatalf("start: script marks %v, model marks %v", page.started.Current, want)
		}
		if want := expectedHash("", eff); page.started.Hash != want {
			t.Errorf("start: script hash %q, model hash %q", page.started.Hash, want)
		}

		fragments := []struct {
			name     string
			fragment string
		}{
			{"tab select", "#contract-tab-mytoken"},
			{"inner select", "#contract-content-mytoken-output-solium"},
			{"other tab", "#contract-tab-crowdsale"},
			{"remembered pane", "#contract-tab-mytoken"},
			{"hyphenated key", "#contract-content-crowdsale-output-solidity-coverage"},
			{"random fragment", "#random"},
			{"empty fragment", ""},
			{"nav button id", "#contract-nav-button-vault"},
			{"unknown pane", "#contract-content-vault-output-nosuchtool"},
			{"unknown unit", "#contract-tab-nosuchunit"},
			{"empty slug", "#contract-tab-"},
			{"marker in slug", "#contract-content-a-output-b-output-flatten"},
			{"quote and backslash in key", "#contract-content-mytoken-output-" + oddTool},
			{"tab after odd pane", "#contract-tab-vault"},
			{"back to odd pane", "#contract-tab-mytoken"},
		}

		for _, f := range fragments {
			got := page.navigate(t, f.fragment)
			eff := nav.Dispatch(f.fragment)

			if want := expectedCurrent(nav.View()); !slices.Equal(got.Current, want) {
				t.Errorf("%s: script marks %v, model marks %v", f.name, got.Current, want)
			}
			if want := expectedHash(f.fragment, eff); got.Hash != want {
				t.Errorf("%s: script hash %q, model hash %q", f.name, got.Hash, want)
			}
		}

		slug, key, ok := nav.View().Current()
		if !ok || slug != "mytoken" || key != oddTool {
			t.Errorf("expected mytoken/%s to end current, got %s/%s", oddTool, slug, key)
		}
	})

	t.Run("opening a link", func(t *testing.T) {
		t.Parallel()

		for _, hash := range []string{
			"",
			"#",
			"#random",
			"#contract-tab-crowdsale",
			"#contract-tab-vault",
			"#contract-content-vault-output-solium",
			"#contract-content-mytoken-output-" + oddTool,
		} {
			doc := navigationDocument()
			page := openPage(t, doc, hash)
			nav := newGoNavigator(doc)
			eff := nav.Start(hash)

			if want := expectedCurrent(nav.View()); !slices.Equal(page.started.Current, want) {
				t.Errorf("%q: script marks %v, model marks %v", hash, page.started.Current, want)
			}
			if want := expectedHash(hash, eff); page.started.Hash != want {
				t.Errorf("%q: script hash %q, model hash %q", hash, page.started.Hash, want)
			}
		}
	})

	t.Run("markup starts where the script starts", func(t *testing.T) {
		t.Parallel()

		doc := navigationDocument()
		page := openPage(t, doc, "")
		nav := newGoNavigator(doc)
		nav.Init()

		want := expectedCurrent(nav.View())
		if !slices.Equal(page.rendered.Current, want) {
			t.Errorf("markup marks %v, model marks %v", page.rendered.Current, want)
		}
		if !slices.Equal(page.started.Current, page.rendered.Current) {
			t.Errorf("script changed the initial markers from %v to %v", page.rendered.Current, page.started.Current)
		}
	})
}
