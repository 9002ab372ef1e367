package extract

import (
	"bytes"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// Page is the styling-relevant skeleton of a fetched HTML document.
type Page struct {
	Title string
	// StylesheetURLs are <link rel="stylesheet"> targets resolved against
	// the page URL, in document order.
	StylesheetURLs []string
	// EmbeddedCSS holds the text of <style> blocks.
	EmbeddedCSS []string
	// InlineStyles holds the style attribute values of interactive
	// elements (button, a, input), in document order.
	InlineStyles []string
}

// interactiveTags are the elements whose inline styles feed the button
// palette.
var interactiveTags = map[string]bool{
	"button": true,
	"a":      true,
	"input":  true,
}

// FromHTML parses an HTML document and collects its title, stylesheet
// links, embedded style blocks, and the inline styles of interactive
// elements. base resolves relative stylesheet hrefs; a nil base keeps them
// as written. Malformed input degrades to an empty Page.
func FromHTML(input []byte, base *url.URL) Page {
	node, err := html.Parse(bytes.NewReader(input))
	if err != nil || node == nil {
		return Page{}
	}

	var p Page
	p.Title = strings.TrimSpace(findTitle(node))

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			name := strings.ToLower(n.Data)
			switch {
			case name == "link" && isStylesheetLink(n):
				if href := attrVal(n, "href"); href != "" {
					p.StylesheetURLs = append(p.StylesheetURLs, resolveRef(base, href))
				}
			case name == "style":
				if css := textContent(n); strings.TrimSpace(css) != "" {
					p.EmbeddedCSS = append(p.EmbeddedCSS, css)
				}
			case interactiveTags[name]:
				if style := attrVal(n, "style"); style != "" {
					p.InlineStyles = append(p.InlineStyles, style)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(node)
	return p
}

func findTitle(n *html.Node) string {
	head := findFirst(n, "head")
	if head == nil {
		return ""
	}
	t := findFirst(head, "title")
	if t == nil || t.FirstChild == nil {
		return ""
	}
	return t.FirstChild.Data
}

func findFirst(n *html.Node, tag string) *html.Node {
	var res *html.Node
	var dfs func(*html.Node)
	dfs = func(cur *html.Node) {
		if res != nil {
			return
		}
		if cur.Type == html.ElementNode && strings.EqualFold(cur.Data, tag) {
			res = cur
			return
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			dfs(c)
			if res != nil {
				return
			}
		}
	}
	dfs(n)
	return res
}

// isStylesheetLink accepts rel attributes that contain the stylesheet
// token, so rel="stylesheet" and rel="alternate stylesheet" both match.
func isStylesheetLink(n *html.Node) bool {
	rel := attrVal(n, "rel")
	for _, tok := range strings.Fields(rel) {
		if strings.EqualFold(tok, "stylesheet") {
			return true
		}
	}
	return false
}

func attrVal(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

func resolveRef(base *url.URL, href string) string {
	if base == nil {
		return href
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var dfs func(*html.Node)
	dfs = func(cur *html.Node) {
		if cur.Type == html.TextNode {
			b.WriteString(cur.Data)
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			dfs(c)
		}
	}
	dfs(n)
	return b.String()
}
