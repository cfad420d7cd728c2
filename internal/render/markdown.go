// Package render serializes document trees as Markdown or HTML.
package render

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/dgallion1/corepassmd/internal/mdtree"
)

// Markdown writes root as Markdown. Links come out as [label](url "title").
func Markdown(w io.Writer, root *mdtree.Node) error {
	_, err := io.WriteString(w, MarkdownString(root))
	return err
}

// MarkdownString returns root as Markdown text.
func MarkdownString(root *mdtree.Node) string {
	if root == nil {
		return ""
	}
	var m mdWriter
	var out string
	if isBlock(root) {
		out = strings.Join(m.blocks(root.Children), "\n\n")
	} else {
		out = m.inline(root)
	}
	if out == "" {
		return ""
	}
	return out + "\n"
}

type mdWriter struct {
	inTable bool
	// lineStart is set while the next text written opens a line of a
	// paragraph, where a leading marker would start a new block.
	lineStart bool
}

// blocks renders block children. Runs of inline nodes sitting directly in a
// block container (common in HTML input) are grouped into one paragraph.
func (m *mdWriter) blocks(nodes []*mdtree.Node) []string {
	var out []string
	var run []*mdtree.Node
	flush := func() {
		if len(run) == 0 {
			return
		}
		m.lineStart = true
		if s := strings.TrimSpace(m.inlines(run)); s != "" {
			out = append(out, s)
		}
		run = nil
	}
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if !isBlock(n) {
			run = append(run, n)
			continue
		}
		flush()
		if s := m.block(n); s != "" {
			out = append(out, s)
		}
	}
	flush()
	return out
}

func (m *mdWriter) block(n *mdtree.Node) string {
	switch effectiveTag(n) {
	case mdtree.TagParagraph:
		m.lineStart = true
		return m.inlines(n.Children)

	case mdtree.TagHeading:
		m.lineStart = false
		return strings.Repeat("#", headingLevel(n)) + " " + m.inlines(n.Children)

	case mdtree.TagThematicBreak:
		return "***"

	case mdtree.TagCodeBlock:
		return codeFence(n.Literal, n.Attr("info"))

	case mdtree.TagBlockquote:
		inner := strings.Join(m.blocks(n.Children), "\n\n")
		return prefixLines(inner, "> ", ">")

	case mdtree.TagList:
		return m.list(n)

	case mdtree.TagListItem:
		return m.item(n, "-", true)

	case mdtree.TagHTML:
		return strings.TrimRight(n.Literal, "\n")

	case mdtree.TagTable:
		return m.table(n)
	}
	return strings.Join(m.blocks(n.Children), "\n\n")
}

func (m *mdWriter) list(n *mdtree.Node) string {
	ordered := n.Attr("ordered") == "true" || n.Name == "ol"
	tight := n.Attr("tight") != "false"
	start := 1
	if s, err := strconv.Atoi(n.Attr("start")); err == nil {
		start = s
	}
	bullet := n.Attr("marker")
	if bullet == "" || ordered {
		bullet = "-"
	}

	var items []string
	i := 0
	for _, c := range n.Children {
		if c == nil || effectiveTag(c) != mdtree.TagListItem {
			continue
		}
		marker := bullet
		if ordered {
			marker = strconv.Itoa(start+i) + "."
		}
		items = append(items, m.item(c, marker, tight))
		i++
	}
	if tight {
		return strings.Join(items, "\n")
	}
	return strings.Join(items, "\n\n")
}

func (m *mdWriter) item(n *mdtree.Node, marker string, tight bool) string {
	sep := "\n\n"
	if tight {
		sep = "\n"
	}
	body := strings.Join(m.blocks(n.Children), sep)
	indent := strings.Repeat(" ", len(marker)+1)
	lines := strings.Split(body, "\n")
	for i := range lines {
		switch {
		case i == 0:
			lines[i] = marker + " " + lines[i]
		case lines[i] != "":
			lines[i] = indent + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}

func (m *mdWriter) table(n *mdtree.Node) string {
	var rows [][]string
	headerIdx := -1
	width := 0
	m.inTable = true
	for _, row := range n.Children {
		if row == nil {
			continue
		}
		if effectiveTag(row) != mdtree.TagTableRow {
			// thead / tbody wrappers from HTML input.
			for _, r := range row.Children {
				if r != nil && effectiveTag(r) == mdtree.TagTableRow {
					if headerIdx < 0 && row.Name == "thead" {
						headerIdx = len(rows)
					}
					rows = append(rows, m.cells(r))
				}
			}
			continue
		}
		if headerIdx < 0 && row.Attr("header") == "true" {
			headerIdx = len(rows)
		}
		rows = append(rows, m.cells(row))
	}
	m.inTable = false
	if len(rows) == 0 {
		return ""
	}
	for _, r := range rows {
		width = max(width, len(r))
	}
	if headerIdx < 0 {
		headerIdx = 0
	}
	header := rows[headerIdx]
	body := append(append([][]string{}, rows[:headerIdx]...), rows[headerIdx+1:]...)

	aligns := strings.Split(n.Attr("align"), ",")
	delim := make([]string, width)
	for i := range delim {
		a := ""
		if i < len(aligns) {
			a = aligns[i]
		}
		switch a {
		case "left":
			delim[i] = ":---"
		case "right":
			delim[i] = "---:"
		case "center":
			delim[i] = ":---:"
		default:
			delim[i] = "---"
		}
	}

	var sb strings.Builder
	writeRow := func(cells []string) {
		sb.WriteString("|")
		for i := 0; i < width; i++ {
			c := ""
			if i < len(cells) {
				c = cells[i]
			}
			sb.WriteString(" " + c + " |")
		}
	}
	writeRow(header)
	sb.WriteString("\n")
	writeRow(delim)
	for _, r := range body {
		sb.WriteString("\n")
		writeRow(r)
	}
	return sb.String()
}

func (m *mdWriter) cells(row *mdtree.Node) []string {
	var out []string
	for _, c := range row.Children {
		if c == nil || c.Kind == mdtree.KindText {
			continue
		}
		text := strings.TrimSpace(m.inlines(c.Children))
		out = append(out, strings.ReplaceAll(text, "\n", " "))
	}
	return out
}

func (m *mdWriter) inlines(nodes []*mdtree.Node) string {
	var sb strings.Builder
	for _, n := range nodes {
		sb.WriteString(m.inline(n))
	}
	return sb.String()
}

func (m *mdWriter) inline(n *mdtree.Node) string {
	if n == nil {
		return ""
	}
	switch n.Kind {
	case mdtree.KindText:
		return m.text(n.Value)
	case mdtree.KindLink:
		m.lineStart = false
		return "[" + m.inlines(n.Children) + "](" + destination(n.URL, n.Title) + ")"
	}

	switch effectiveTag(n) {
	case mdtree.TagEmphasis:
		m.lineStart = false
		return "*" + m.inlines(n.Children) + "*"
	case mdtree.TagStrong:
		m.lineStart = false
		return "**" + m.inlines(n.Children) + "**"
	case mdtree.TagDelete:
		m.lineStart = false
		return "~~" + m.inlines(n.Children) + "~~"
	case mdtree.TagInlineCode:
		m.lineStart = false
		return codeSpan(n.Literal)
	case mdtree.TagImage:
		m.lineStart = false
		return "![" + m.escape(n.Literal) + "](" + destination(n.URL, n.Title) + ")"
	case mdtree.TagAutoLink:
		m.lineStart = false
		if n.Attr("email") == "true" {
			return "<" + n.Literal + ">"
		}
		return "<" + n.URL + ">"
	case mdtree.TagBreak:
		m.lineStart = true
		return "\\\n"
	case mdtree.TagHTML:
		m.lineStart = strings.HasSuffix(n.Literal, "\n")
		return n.Literal
	case mdtree.TagElement:
		if n.Name == "script" || n.Name == "style" {
			return ""
		}
	}
	return m.inlines(n.Children)
}

var (
	textEscaper  = strings.NewReplacer(`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "[", `\[`, "]", `\]`, "<", `\<`)
	tableEscaper = strings.NewReplacer(`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "[", `\[`, "]", `\]`, "<", `\<`, "|", `\|`)

	// referenceRe finds an "&" that would be read back as a character
	// reference.
	referenceRe = regexp.MustCompile(`&(?:#[0-9]{1,7}|#[xX][0-9a-fA-F]{1,6}|[A-Za-z][A-Za-z0-9]*);`)
)

// escape backslash-escapes the characters that would turn s into inline
// markup.
func (m *mdWriter) escape(s string) string {
	r := textEscaper
	if m.inTable {
		r = tableEscaper
	}
	return referenceRe.ReplaceAllString(r.Replace(s), `\$0`)
}

// text escapes a text leaf. Lines it opens are also guarded against reading
// back as block markers.
func (m *mdWriter) text(s string) string {
	if s == "" {
		return ""
	}
	out := m.escape(s)
	if m.inTable {
		return out
	}
	lines := strings.Split(out, "\n")
	for i, line := range lines {
		if i > 0 || m.lineStart {
			lines[i] = escapeLineStart(line)
		}
	}
	last := lines[len(lines)-1]
	m.lineStart = (len(lines) > 1 || m.lineStart) && strings.TrimLeft(last, " \t") == ""
	return strings.Join(lines, "\n")
}

// escapeLineStart escapes a leading heading, quote, list, setext or fence
// marker in line.
func escapeLineStart(line string) string {
	body := strings.TrimLeft(line, " \t")
	if body == "" {
		return line
	}
	indent := line[:len(line)-len(body)]
	blank := func(i int) bool {
		return i >= len(body) || body[i] == ' ' || body[i] == '\t'
	}

	switch body[0] {
	case '#', '>':
		return indent + `\` + body
	case '-', '+':
		if blank(1) || strings.Trim(body, string(body[0])+" \t") == "" {
			return indent + `\` + body
		}
	case '=':
		if strings.Trim(body, "= \t") == "" {
			return indent + `\` + body
		}
	case '~':
		if strings.HasPrefix(body, "~~~") {
			return indent + `\` + body
		}
	}

	digits := 0
	for digits < len(body) && body[digits] >= '0' && body[digits] <= '9' {
		digits++
	}
	if digits > 0 && digits <= 9 && digits < len(body) &&
		(body[digits] == '.' || body[digits] == ')') && blank(digits+1) {
		return indent + body[:digits] + `\` + body[digits:]
	}
	return line
}

func destination(url, title string) string {
	if strings.ContainsAny(url, " ()<>") {
		url = "<" + strings.NewReplacer("<", "%3C", ">", "%3E").Replace(url) + ">"
	}
	if title == "" {
		return url
	}
	return url + ` "` + strings.ReplaceAll(title, `"`, `\"`) + `"`
}

// codeFence picks a backtick fence longer than any run inside literal.
func codeFence(literal, info string) string {
	fence := strings.Repeat("`", max(3, longestRun(literal, '`')+1))
	if literal != "" && !strings.HasSuffix(literal, "\n") {
		literal += "\n"
	}
	return fence + info + "\n" + literal + fence
}

func codeSpan(literal string) string {
	ticks := strings.Repeat("`", longestRun(literal, '`')+1)
	if strings.HasPrefix(literal, "`") || strings.HasSuffix(literal, "`") {
		return ticks + " " + literal + " " + ticks
	}
	return ticks + literal + ticks
}

func longestRun(s string, c byte) int {
	best, cur := 0, 0
	for i := 0; i < len(s); i++ {
		if s[i] == c {
			cur++
			best = max(best, cur)
		} else {
			cur = 0
		}
	}
	return best
}

func prefixLines(s, prefix, emptyPrefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l == "" {
			lines[i] = emptyPrefix
		} else {
			lines[i] = prefix + l
		}
	}
	return strings.Join(lines, "\n")
}

func headingLevel(n *mdtree.Node) int {
	if lvl, err := strconv.Atoi(n.Attr("level")); err == nil && lvl >= 1 && lvl <= 6 {
		return lvl
	}
	if len(n.Name) == 2 && n.Name[0] == 'h' {
		if lvl, err := strconv.Atoi(n.Name[1:]); err == nil && lvl >= 1 && lvl <= 6 {
			return lvl
		}
	}
	return 1
}

// elementTags maps HTML element names onto the equivalent Markdown tags.
var elementTags = map[string]mdtree.Tag{
	"p":          mdtree.TagParagraph,
	"h1":         mdtree.TagHeading,
	"h2":         mdtree.TagHeading,
	"h3":         mdtree.TagHeading,
	"h4":         mdtree.TagHeading,
	"h5":         mdtree.TagHeading,
	"h6":         mdtree.TagHeading,
	"hr":         mdtree.TagThematicBreak,
	"pre":        mdtree.TagCodeBlock,
	"blockquote": mdtree.TagBlockquote,
	"ul":         mdtree.TagList,
	"ol":         mdtree.TagList,
	"li":         mdtree.TagListItem,
	"table":      mdtree.TagTable,
	"tr":         mdtree.TagTableRow,
	"td":         mdtree.TagTableCell,
	"th":         mdtree.TagTableCell,
	"em":         mdtree.TagEmphasis,
	"i":          mdtree.TagEmphasis,
	"strong":     mdtree.TagStrong,
	"b":          mdtree.TagStrong,
	"del":        mdtree.TagDelete,
	"s":          mdtree.TagDelete,
	"code":       mdtree.TagInlineCode,
	"br":         mdtree.TagBreak,
}

// blockElements are containers rendered as block sequences.
var blockElements = map[string]bool{
	"div": true, "section": true, "article": true, "main": true, "aside": true,
	"header": true, "footer": true, "nav": true, "page": true, "body": true,
	"thead": true, "tbody": true, "tfoot": true, "figure": true, "dl": true,
}

func effectiveTag(n *mdtree.Node) mdtree.Tag {
	if n.Kind != mdtree.KindOther {
		return ""
	}
	if n.Tag == mdtree.TagElement {
		if tag, ok := elementTags[n.Name]; ok {
			return tag
		}
	}
	return n.Tag
}

func isBlock(n *mdtree.Node) bool {
	if n.Kind != mdtree.KindOther {
		return false
	}
	switch effectiveTag(n) {
	case mdtree.TagRoot, mdtree.TagParagraph, mdtree.TagHeading, mdtree.TagThematicBreak,
		mdtree.TagCodeBlock, mdtree.TagBlockquote, mdtree.TagList, mdtree.TagListItem,
		mdtree.TagTable, mdtree.TagTableRow, mdtree.TagTableCell:
		return true
	case mdtree.TagHTML:
		return n.Attr("inline") != "true"
	case mdtree.TagElement:
		return blockElements[n.Name]
	}
	return false
}

// Dump returns an indented outline of the tree, one node per line.
func Dump(root *mdtree.Node) string {
	var sb strings.Builder
	var dump func(n *mdtree.Node, depth int)
	dump = func(n *mdtree.Node, depth int) {
		if n == nil {
			return
		}
		sb.WriteString(strings.Repeat("  ", depth))
		switch n.Kind {
		case mdtree.KindText:
			fmt.Fprintf(&sb, "text %q\n", n.Value)
		case mdtree.KindLink:
			fmt.Fprintf(&sb, "link %q %q\n", n.URL, n.Title)
		default:
			if n.Name != "" {
				fmt.Fprintf(&sb, "%s <%s>\n", n.Tag, n.Name)
			} else {
				fmt.Fprintf(&sb, "%s\n", n.Tag)
			}
		}
		for _, c := range n.Children {
			dump(c, depth+1)
		}
	}
	dump(root, 0)
	return sb.String()
}
