package render

import (
	"bytes"
	"io"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dgallion1/corepassmd/internal/mdtree"
)

// HTML writes root as an HTML fragment. Top-level blocks are separated by
// newlines.
func HTML(w io.Writer, root *mdtree.Node) error {
	if root == nil {
		return nil
	}
	nodes := htmlNodes(root, false)
	for _, n := range nodes {
		if err := html.Render(w, n); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

// HTMLString returns root as an HTML fragment.
func HTMLString(root *mdtree.Node) (string, error) {
	var buf bytes.Buffer
	if err := HTML(&buf, root); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func element(name string, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     name,
		DataAtom: atom.Lookup([]byte(name)),
		Attr:     attrs,
	}
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func rawNode(s string) *html.Node {
	return &html.Node{Type: html.RawNode, Data: s}
}

func appendAll(parent *html.Node, children []*html.Node) *html.Node {
	for _, c := range children {
		parent.AppendChild(c)
	}
	return parent
}

func childNodes(n *mdtree.Node, tight bool) []*html.Node {
	var out []*html.Node
	for _, c := range n.Children {
		out = append(out, htmlNodes(c, tight)...)
	}
	return out
}

// htmlNodes converts one tree node. tight is set for items of a tight list,
// whose paragraphs are rendered without <p>.
func htmlNodes(n *mdtree.Node, tight bool) []*html.Node {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case mdtree.KindText:
		return []*html.Node{textNode(n.Value)}
	case mdtree.KindLink:
		a := element("a", html.Attribute{Key: "href", Val: n.URL})
		if n.Title != "" {
			a.Attr = append(a.Attr, html.Attribute{Key: "title", Val: n.Title})
		}
		return []*html.Node{appendAll(a, childNodes(n, false))}
	}

	switch n.Tag {
	case mdtree.TagRoot:
		return childNodes(n, false)

	case mdtree.TagParagraph:
		if tight {
			return childNodes(n, false)
		}
		return []*html.Node{appendAll(element("p"), childNodes(n, false))}

	case mdtree.TagHeading:
		name := "h" + strconv.Itoa(headingLevel(n))
		return []*html.Node{appendAll(element(name), childNodes(n, false))}

	case mdtree.TagThematicBreak:
		return []*html.Node{element("hr")}

	case mdtree.TagCodeBlock:
		code := element("code")
		if lang, _, _ := strings.Cut(n.Attr("info"), " "); lang != "" {
			code.Attr = append(code.Attr, html.Attribute{Key: "class", Val: "language-" + lang})
		}
		code.AppendChild(textNode(n.Literal))
		pre := element("pre")
		pre.AppendChild(code)
		return []*html.Node{pre}

	case mdtree.TagBlockquote:
		return []*html.Node{appendAll(element("blockquote"), childNodes(n, false))}

	case mdtree.TagList:
		return []*html.Node{listNode(n)}

	case mdtree.TagListItem:
		return []*html.Node{appendAll(element("li"), childNodes(n, tight))}

	case mdtree.TagHTML:
		return []*html.Node{rawNode(n.Literal)}

	case mdtree.TagTable:
		return []*html.Node{tableNode(n)}

	case mdtree.TagTableRow:
		return []*html.Node{rowNode(n, n.Attr("header") == "true", nil)}

	case mdtree.TagTableCell:
		return []*html.Node{appendAll(element("td"), childNodes(n, false))}

	case mdtree.TagEmphasis:
		return []*html.Node{appendAll(element("em"), childNodes(n, false))}

	case mdtree.TagStrong:
		return []*html.Node{appendAll(element("strong"), childNodes(n, false))}

	case mdtree.TagDelete:
		return []*html.Node{appendAll(element("del"), childNodes(n, false))}

	case mdtree.TagInlineCode:
		code := element("code")
		code.AppendChild(textNode(n.Literal))
		return []*html.Node{code}

	case mdtree.TagImage:
		img := element("img",
			html.Attribute{Key: "src", Val: n.URL},
			html.Attribute{Key: "alt", Val: n.Literal},
		)
		if n.Title != "" {
			img.Attr = append(img.Attr, html.Attribute{Key: "title", Val: n.Title})
		}
		return []*html.Node{img}

	case mdtree.TagAutoLink:
		href := n.URL
		if n.Attr("email") == "true" && !strings.HasPrefix(href, "mailto:") {
			href = "mailto:" + href
		}
		a := element("a", html.Attribute{Key: "href", Val: href})
		label := n.Literal
		if label == "" {
			label = n.URL
		}
		a.AppendChild(textNode(label))
		return []*html.Node{a}

	case mdtree.TagBreak:
		return []*html.Node{element("br")}

	case mdtree.TagElement:
		return []*html.Node{foreignElement(n)}
	}
	return childNodes(n, false)
}

func listNode(n *mdtree.Node) *html.Node {
	tight := n.Attr("tight") == "true"
	var list *html.Node
	if n.Attr("ordered") == "true" {
		list = element("ol")
		if start := n.Attr("start"); start != "" && start != "1" {
			list.Attr = append(list.Attr, html.Attribute{Key: "start", Val: start})
		}
	} else {
		list = element("ul")
	}
	for _, item := range n.Children {
		for _, h := range htmlNodes(item, tight) {
			list.AppendChild(h)
		}
	}
	return list
}

func tableNode(n *mdtree.Node) *html.Node {
	aligns := strings.Split(n.Attr("align"), ",")
	table := element("table")
	var thead, tbody *html.Node
	for _, row := range n.Children {
		if row == nil {
			continue
		}
		if row.Attr("header") == "true" {
			if thead == nil {
				thead = element("thead")
				table.AppendChild(thead)
			}
			thead.AppendChild(rowNode(row, true, aligns))
			continue
		}
		if tbody == nil {
			tbody = element("tbody")
			table.AppendChild(tbody)
		}
		tbody.AppendChild(rowNode(row, false, aligns))
	}
	return table
}

func rowNode(row *mdtree.Node, header bool, aligns []string) *html.Node {
	cellName := "td"
	if header {
		cellName = "th"
	}
	tr := element("tr")
	i := 0
	for _, cell := range row.Children {
		if cell == nil {
			continue
		}
		c := element(cellName)
		if i < len(aligns) && aligns[i] != "" && aligns[i] != "none" {
			c.Attr = append(c.Attr, html.Attribute{Key: "style", Val: "text-align:" + aligns[i]})
		}
		tr.AppendChild(appendAll(c, childNodes(cell, false)))
		i++
	}
	return tr
}

// foreignElement re-creates an element carried over from HTML input.
// Opaque elements keep their original markup in Literal.
func foreignElement(n *mdtree.Node) *html.Node {
	if n.Name == "page" {
		// PDF page break-out.
		section := element("section",
			html.Attribute{Key: "class", Val: "page"},
			html.Attribute{Key: "data-page", Val: n.Attr("page")},
		)
		return appendAll(section, childNodes(n, false))
	}

	keys := make([]string, 0, len(n.Attrs))
	for k := range n.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	el := element(n.Name)
	for _, k := range keys {
		el.Attr = append(el.Attr, html.Attribute{Key: k, Val: n.Attrs[k]})
	}
	if n.Literal != "" {
		el.AppendChild(rawNode(n.Literal))
		return el
	}
	return appendAll(el, childNodes(n, false))
}
