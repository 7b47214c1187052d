package report

import (
	"strings"

	"github.com/nao1215/solhydra/internal/model"
	"golang.org/x/net/html"
)

var pngHeader = "\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"

// createTestDocument creates a document with one unit per interesting case:
// a fully populated unit, a unit without combine/original and no mythril
// output, and a unit no tool reported on.
func createTestDocument() *model.Document {
	return &model.Document{
		Tools: []model.Tool{
			{Name: "mythril", ContentType: model.ContentTypeMarkdown},
			{Name: "solgraph", ContentType: model.ContentTypeImage},
			{Name: "solidity-coverage", ContentType: model.ContentTypeHTML},
			{Name: "solium", ContentType: model.ContentTypeText},
		},
		Units: []model.Unit{
			{
				Name: "CrowdSale.sol",
				Slug: "crowdsale",
				Representations: []model.Representation{
					{Kind: model.KindFlatten, Content: model.Present("contract CrowdSale {}\n")},
					{Kind: model.KindCombine, Content: model.Absent()},
					{Kind: model.KindOriginal, Content: model.Absent()},
				},
				Outputs: []model.ToolOutput{
					{Tool: "solium", ContentType: model.ContentTypeText, Content: "<script>alert(1)</script>"},
				},
			},
			{
				Name: "MyToken.sol",
				Slug: "mytoken",
				Representations: []model.Representation{
					{Kind: model.KindFlatten, Content: model.Present("pragma solidity ^0.4.24;\ncontract MyToken {}\n")},
					{Kind: model.KindCombine, Content: model.Present("// combined")},
					{Kind: model.KindOriginal, Content: model.Present("import './SafeMath.sol';")},
				},
				Outputs: []model.ToolOutput{
					{Tool: "mythril", ContentType: model.ContentTypeMarkdown, Content: "<h1>Analysis results</h1>\n"},
					{Tool: "solgraph", ContentType: model.ContentTypeImage, Content: pngHeader},
					{Tool: "solidity-coverage", ContentType: model.ContentTypeHTML, Content: "<html><body><p>97%</p></body></html>"},
					{Tool: "solium", ContentType: model.ContentTypeText, Content: "no issues"},
				},
			},
			{
				Name: "Vault.sol",
				Slug: "vault",
				Representations: []model.Representation{
					{Kind: model.KindFlatten, Content: model.Present("contract Vault {}")},
					{Kind: model.KindCombine, Content: model.Absent()},
					{Kind: model.KindOriginal, Content: model.Absent()},
				},
			},
		},
	}
}

func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode && attr(n, "id") == id {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

func findAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && match(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, cls string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == cls {
			return true
		}
	}
	return false
}

func withClass(cls string) func(*html.Node) bool {
	return func(n *html.Node) bool { return hasClass(n, cls) }
}

func textOf(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
