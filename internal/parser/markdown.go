package parser

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	"github.com/dgallion1/corepassmd/internal/mdtree"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// MarkdownParser handles Markdown files using goldmark.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*mdtree.Node, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New(goldmark.WithExtensions(extension.Table, extension.Strikethrough))
	reader := text.NewReader(src)
	doc := md.Parser().Parse(reader)

	root := mdtree.NewRoot()
	root.SetAttr("title", strings.TrimSuffix(strings.TrimSuffix(filename, ".md"), ".markdown"))

	b := &mdBuilder{src: src}
	b.appendChildren(root, doc)
	return root, nil
}

type mdBuilder struct {
	src []byte
}

// appendChildren converts the children of n onto dst. goldmark splits text
// at delimiter characters such as '[' and ']', so consecutive text segments
// are merged back into one leaf.
func (b *mdBuilder) appendChildren(dst *mdtree.Node, n ast.Node) {
	var pending *mdtree.Node
	appendText := func(v string) {
		if pending == nil {
			pending = mdtree.NewText("")
			dst.Append(pending)
		}
		pending.Value += v
	}

	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Text:
			appendText(b.textValue(node))
			if node.HardLineBreak() {
				dst.Append(mdtree.NewOther(mdtree.TagBreak))
				pending = nil
			} else if node.SoftLineBreak() {
				appendText("\n")
			}
		case *ast.String:
			appendText(string(node.Value))
		default:
			pending = nil
			if converted := b.convert(c); converted != nil {
				dst.Append(converted)
			}
		}
	}
}

func (b *mdBuilder) textValue(t *ast.Text) string {
	v := t.Segment.Value(b.src)
	if t.IsRaw() {
		return string(v)
	}
	return unescapeText(v)
}

// unescapeText drops backslash escapes and resolves character references in
// a single pass, so an escaped "&" never starts a reference.
func unescapeText(v []byte) string {
	var buf bytes.Buffer
	limit := len(v)
	for i := 0; i < limit; i++ {
		c := v[i]
		if c == '\\' && i+1 < limit && util.IsPunct(v[i+1]) {
			buf.WriteByte(v[i+1])
			i++
			continue
		}
		if c == '&' {
			if r, end, ok := readReference(v, i); ok {
				buf.Write(r)
				i = end
				continue
			}
		}
		buf.WriteByte(c)
	}
	return buf.String()
}

// readReference decodes the character reference starting at v[pos] ('&') and
// returns its text and the index of the closing ';'.
func readReference(v []byte, pos int) ([]byte, int, bool) {
	limit := len(v)
	next := pos + 1
	if next < limit && v[next] == '#' {
		start, base, pred, maxLen := next+1, 10, util.IsNumeric, 7
		if start < limit && (v[start] == 'x' || v[start] == 'X') {
			start, base, pred, maxLen = start+1, 16, util.IsHexDecimal, 6
		}
		end, ok := util.ReadWhile(v, [2]int{start, limit}, pred)
		if !ok || end >= limit || v[end] != ';' || end-start > maxLen {
			return nil, 0, false
		}
		n, err := strconv.ParseUint(string(v[start:end]), base, 32)
		if err != nil {
			return nil, 0, false
		}
		return []byte(string(util.ToValidRune(rune(n)))), end, true
	}
	end, ok := util.ReadWhile(v, [2]int{next, limit}, util.IsAlphaNumeric)
	if !ok || end >= limit || v[end] != ';' {
		return nil, 0, false
	}
	entity, found := util.LookUpHTML5EntityByName(string(v[next:end]))
	if !found {
		return nil, 0, false
	}
	return entity.Characters, end, true
}

func (b *mdBuilder) convert(n ast.Node) *mdtree.Node {
	switch node := n.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		return b.container(mdtree.TagParagraph, n)

	case *ast.Heading:
		out := b.container(mdtree.TagHeading, n)
		out.SetAttr("level", strconv.Itoa(node.Level))
		return out

	case *ast.ThematicBreak:
		return mdtree.NewOther(mdtree.TagThematicBreak)

	case *ast.CodeBlock:
		out := mdtree.NewOther(mdtree.TagCodeBlock)
		out.Literal = b.lines(n)
		return out

	case *ast.FencedCodeBlock:
		out := mdtree.NewOther(mdtree.TagCodeBlock)
		out.Literal = b.lines(n)
		if node.Info != nil {
			out.SetAttr("info", string(node.Info.Segment.Value(b.src)))
		}
		return out

	case *ast.Blockquote:
		return b.container(mdtree.TagBlockquote, n)

	case *ast.List:
		out := b.container(mdtree.TagList, n)
		if node.IsOrdered() {
			out.SetAttr("ordered", "true")
			out.SetAttr("start", strconv.Itoa(node.Start))
		}
		out.SetAttr("marker", string(node.Marker))
		out.SetAttr("tight", strconv.FormatBool(node.IsTight))
		return out

	case *ast.ListItem:
		return b.container(mdtree.TagListItem, n)

	case *ast.HTMLBlock:
		out := mdtree.NewOther(mdtree.TagHTML)
		lit := b.lines(n)
		if node.HasClosure() {
			lit += string(node.ClosureLine.Value(b.src))
		}
		out.Literal = lit
		return out

	case *ast.Emphasis:
		if node.Level >= 2 {
			return b.container(mdtree.TagStrong, n)
		}
		return b.container(mdtree.TagEmphasis, n)

	case *ast.CodeSpan:
		out := mdtree.NewOther(mdtree.TagInlineCode)
		out.Literal = b.rawText(n)
		return out

	case *ast.Link:
		out := &mdtree.Node{
			Kind:  mdtree.KindLink,
			URL:   string(node.Destination),
			Title: string(node.Title),
		}
		b.appendChildren(out, n)
		return out

	case *ast.Image:
		out := mdtree.NewOther(mdtree.TagImage)
		out.URL = string(node.Destination)
		out.Title = string(node.Title)
		out.Literal = b.plainText(n)
		return out

	case *ast.AutoLink:
		out := mdtree.NewOther(mdtree.TagAutoLink)
		out.URL = string(node.URL(b.src))
		out.Literal = string(node.Label(b.src))
		if node.AutoLinkType == ast.AutoLinkEmail {
			out.SetAttr("email", "true")
		}
		return out

	case *ast.RawHTML:
		out := mdtree.NewOther(mdtree.TagHTML)
		var buf bytes.Buffer
		for i := 0; i < node.Segments.Len(); i++ {
			seg := node.Segments.At(i)
			buf.Write(seg.Value(b.src))
		}
		out.Literal = buf.String()
		out.SetAttr("inline", "true")
		return out

	case *east.Strikethrough:
		return b.container(mdtree.TagDelete, n)

	case *east.Table:
		out := b.container(mdtree.TagTable, n)
		aligns := make([]string, len(node.Alignments))
		for i, a := range node.Alignments {
			aligns[i] = a.String()
		}
		out.SetAttr("align", strings.Join(aligns, ","))
		return out

	case *east.TableHeader:
		out := b.container(mdtree.TagTableRow, n)
		out.SetAttr("header", "true")
		return out

	case *east.TableRow:
		return b.container(mdtree.TagTableRow, n)

	case *east.TableCell:
		return b.container(mdtree.TagTableCell, n)
	}

	out := b.container(mdtree.TagElement, n)
	out.Name = n.Kind().String()
	return out
}

func (b *mdBuilder) container(tag mdtree.Tag, n ast.Node) *mdtree.Node {
	out := mdtree.NewOther(tag)
	b.appendChildren(out, n)
	return out
}

// lines joins the raw source lines of a block node.
func (b *mdBuilder) lines(n ast.Node) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(b.src))
	}
	return buf.String()
}

// rawText collects text below n without resolving escapes.
func (b *mdBuilder) rawText(n ast.Node) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(b.src))
		case *ast.String:
			buf.Write(t.Value)
		default:
			buf.WriteString(b.rawText(c))
		}
	}
	return buf.String()
}

// plainText collects resolved text below n, as used for image alt text.
func (b *mdBuilder) plainText(n ast.Node) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			buf.WriteString(b.textValue(t))
		case *ast.String:
			buf.Write(t.Value)
		default:
			buf.WriteString(b.plainText(c))
		}
	}
	return buf.String()
}
