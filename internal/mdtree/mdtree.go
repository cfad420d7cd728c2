package mdtree

import (
	"errors"
	"strings"
)

// Kind discriminates the node variants the rewriter understands.
type Kind int

const (
	KindOther Kind = iota // Anything the rewriter does not interpret.
	KindText              // Leaf holding Value.
	KindLink              // URL/Title with one text child as label.
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindLink:
		return "link"
	default:
		return "other"
	}
}

// Tag names the structural role of a KindOther node.
type Tag string

const (
	TagRoot          Tag = "root"
	TagParagraph     Tag = "paragraph"
	TagHeading       Tag = "heading"
	TagThematicBreak Tag = "thematicBreak"
	TagCodeBlock     Tag = "code"
	TagBlockquote    Tag = "blockquote"
	TagList          Tag = "list"
	TagListItem      Tag = "listItem"
	TagHTML          Tag = "html"
	TagTable         Tag = "table"
	TagTableRow      Tag = "tableRow"
	TagTableCell     Tag = "tableCell"
	TagEmphasis      Tag = "emphasis"
	TagStrong        Tag = "strong"
	TagDelete        Tag = "delete"
	TagInlineCode    Tag = "inlineCode"
	TagImage         Tag = "image"
	TagAutoLink      Tag = "autolink"
	TagBreak         Tag = "break"
	TagElement       Tag = "element" // Foreign HTML element, Name holds the tag name.
)

// Node is one entry of a document tree. Children are owned by their parent
// and mutated by index; nodes carry no back-pointers.
type Node struct {
	Kind Kind
	Tag  Tag    // KindOther only.
	Name string // Element name for TagElement.

	Value string // KindText value.
	URL   string // KindLink destination, image source, autolink target.
	Title string // KindLink / image title; empty when absent.

	Literal string            // Raw content of opaque nodes (code, html, image alt).
	Attrs   map[string]string // Tag-specific attributes (heading level, list start, ...).

	Children []*Node
}

// ErrIndexOutOfRange is returned by Splice when the index does not address a child.
var ErrIndexOutOfRange = errors.New("mdtree: child index out of range")

// NewRoot creates an empty root container.
func NewRoot() *Node {
	return &Node{Kind: KindOther, Tag: TagRoot}
}

// NewText creates a text leaf.
func NewText(value string) *Node {
	return &Node{Kind: KindText, Value: value}
}

// NewLink creates a link whose single text child is label.
func NewLink(url, label, title string) *Node {
	return &Node{
		Kind:     KindLink,
		URL:      url,
		Title:    title,
		Children: []*Node{NewText(label)},
	}
}

// NewOther creates a container or opaque node with the given tag.
func NewOther(tag Tag, children ...*Node) *Node {
	return &Node{Kind: KindOther, Tag: tag, Children: children}
}

// Is reports whether n is a KindOther node with the given tag.
func (n *Node) Is(tag Tag) bool {
	return n != nil && n.Kind == KindOther && n.Tag == tag
}

// Attr returns an attribute value or "".
func (n *Node) Attr(key string) string {
	if n.Attrs == nil {
		return ""
	}
	return n.Attrs[key]
}

// SetAttr sets an attribute, allocating the map on first use.
func (n *Node) SetAttr(key, value string) {
	if n.Attrs == nil {
		n.Attrs = make(map[string]string)
	}
	n.Attrs[key] = value
}

// Append adds children at the end.
func (n *Node) Append(children ...*Node) {
	n.Children = append(n.Children, children...)
}

// Splice replaces the child at index with repl, keeping every other child
// in its relative order.
func (n *Node) Splice(index int, repl ...*Node) error {
	if index < 0 || index >= len(n.Children) {
		return ErrIndexOutOfRange
	}
	out := make([]*Node, 0, len(n.Children)-1+len(repl))
	out = append(out, n.Children[:index]...)
	out = append(out, repl...)
	out = append(out, n.Children[index+1:]...)
	n.Children = out
	return nil
}

// TextContent concatenates every text value below n in document order.
func (n *Node) TextContent() string {
	var sb strings.Builder
	var collect func(*Node)
	collect = func(n *Node) {
		if n == nil {
			return
		}
		if n.Kind == KindText {
			sb.WriteString(n.Value)
		}
		for _, c := range n.Children {
			collect(c)
		}
	}
	collect(n)
	return sb.String()
}
