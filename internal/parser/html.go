package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/corepassmd/internal/mdtree"
	"golang.org/x/net/html"
)

// HTMLParser handles HTML files. Elements become TagElement nodes, anchors
// become links and text nodes become text leaves.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*mdtree.Node, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	root := mdtree.NewRoot()
	root.SetAttr("title", strings.TrimSuffix(strings.TrimSuffix(filename, ".html"), ".htm"))
	root.SetAttr("source", "html")

	// Extract title from <title> tag if present.
	if title := findTitle(doc); title != "" {
		root.SetAttr("title", title)
	}

	// Find <body> or use whole document.
	start := doc
	if body := findBody(doc); body != nil {
		start = body
	}
	for c := start.FirstChild; c != nil; c = c.NextSibling {
		if n := convertHTML(c); n != nil {
			root.Append(n)
		}
	}
	return root, nil
}

func convertHTML(n *html.Node) *mdtree.Node {
	switch n.Type {
	case html.TextNode:
		return mdtree.NewText(n.Data)
	case html.CommentNode:
		out := mdtree.NewOther(mdtree.TagHTML)
		out.Literal = "<!--" + n.Data + "-->"
		return out
	case html.ElementNode:
	default:
		return nil
	}

	switch n.Data {
	case "a":
		if href, ok := attr(n, "href"); ok {
			out := &mdtree.Node{Kind: mdtree.KindLink, URL: href}
			out.Title, _ = attr(n, "title")
			appendHTMLChildren(out, n)
			return out
		}
	case "script", "style", "code", "pre", "textarea":
		// Opaque: the text inside is kept verbatim and never rewritten.
		out := mdtree.NewOther(mdtree.TagElement)
		out.Name = n.Data
		copyAttrs(out, n)
		out.Literal = rawHTML(n)
		return out
	}

	out := mdtree.NewOther(mdtree.TagElement)
	out.Name = n.Data
	copyAttrs(out, n)
	appendHTMLChildren(out, n)
	return out
}

func appendHTMLChildren(dst *mdtree.Node, n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if conv := convertHTML(c); conv != nil {
			dst.Append(conv)
		}
	}
}

func copyAttrs(dst *mdtree.Node, n *html.Node) {
	for _, a := range n.Attr {
		dst.SetAttr(a.Key, a.Val)
	}
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// rawHTML renders the children of n back to markup.
func rawHTML(n *html.Node) string {
	var buf strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return textContent(n)
		}
	}
	return buf.String()
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
