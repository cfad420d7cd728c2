package parser

import (
	"strings"
	"testing"

	"github.com/dgallion1/corepassmd/internal/mdtree"
)

const sampleID = "cb7147879011ea207df5b35a24ca6f0859dcfb145999"

func parseMarkdown(t *testing.T, input string) *mdtree.Node {
	t.Helper()
	p := &MarkdownParser{}
	root, err := p.Parse(strings.NewReader(input), "doc.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return root
}

func TestMarkdownParser_TokenStaysInOneLeaf(t *testing.T) {
	input := "Send to [" + sampleID + "@coreid] or [sub.domain.cc@coreid] today."
	root := parseMarkdown(t, input)

	if len(root.Children) != 1 || !root.Children[0].Is(mdtree.TagParagraph) {
		t.Fatalf("expected a single paragraph, got %d children", len(root.Children))
	}
	para := root.Children[0]
	if len(para.Children) != 1 {
		t.Fatalf("expected 1 merged text leaf, got %d", len(para.Children))
	}
	leaf := para.Children[0]
	if leaf.Kind != mdtree.KindText {
		t.Fatalf("expected text leaf, got %s", leaf.Kind)
	}
	if leaf.Value != input {
		t.Errorf("expected %q, got %q", input, leaf.Value)
	}
}

func TestMarkdownParser_HeadingAndBlocks(t *testing.T) {
	input := `# Title

Intro text.

## Section A

> quoted [x.cc@coreid]

- one
- two
`
	root := parseMarkdown(t, input)

	if root.Attr("title") != "doc" {
		t.Errorf("expected title %q, got %q", "doc", root.Attr("title"))
	}

	wantTags := []mdtree.Tag{
		mdtree.TagHeading,
		mdtree.TagParagraph,
		mdtree.TagHeading,
		mdtree.TagBlockquote,
		mdtree.TagList,
	}
	if len(root.Children) != len(wantTags) {
		t.Fatalf("expected %d blocks, got %d", len(wantTags), len(root.Children))
	}
	for i, tag := range wantTags {
		if !root.Children[i].Is(tag) {
			t.Errorf("block %d: expected %s, got %s", i, tag, root.Children[i].Tag)
		}
	}

	if lvl := root.Children[2].Attr("level"); lvl != "2" {
		t.Errorf("expected level 2, got %q", lvl)
	}
	if got := root.Children[0].TextContent(); got != "Title" {
		t.Errorf("expected heading text %q, got %q", "Title", got)
	}
	if got := root.Children[3].TextContent(); got != "quoted [x.cc@coreid]" {
		t.Errorf("unexpected blockquote text %q", got)
	}

	list := root.Children[4]
	if len(list.Children) != 2 || !list.Children[0].Is(mdtree.TagListItem) {
		t.Fatalf("expected 2 list items, got %d", len(list.Children))
	}
	if list.Attr("tight") != "true" {
		t.Errorf("expected tight list")
	}
	if list.Attr("ordered") != "" {
		t.Errorf("expected bullet list")
	}
}

func TestMarkdownParser_CodeIsOpaque(t *testing.T) {
	input := "Use `[x.cc@coreid]` inline.\n\n```md\n[y.cc@coreid]\n```\n"
	root := parseMarkdown(t, input)

	if len(root.Children) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(root.Children))
	}

	para := root.Children[0]
	var code *mdtree.Node
	for _, c := range para.Children {
		if c.Is(mdtree.TagInlineCode) {
			code = c
		}
	}
	if code == nil {
		t.Fatal("expected inline code node")
	}
	if code.Literal != "[x.cc@coreid]" || len(code.Children) != 0 {
		t.Errorf("unexpected inline code %q with %d children", code.Literal, len(code.Children))
	}

	block := root.Children[1]
	if !block.Is(mdtree.TagCodeBlock) {
		t.Fatalf("expected code block, got %s", block.Tag)
	}
	if block.Literal != "[y.cc@coreid]\n" {
		t.Errorf("unexpected code literal %q", block.Literal)
	}
	if block.Attr("info") != "md" {
		t.Errorf("expected info %q, got %q", "md", block.Attr("info"))
	}
	if len(block.Children) != 0 {
		t.Errorf("code block must not expose text children")
	}
}

func TestMarkdownParser_ExistingLink(t *testing.T) {
	root := parseMarkdown(t, `See [docs](https://example.com "Docs").`)
	para := root.Children[0]

	var link *mdtree.Node
	for _, c := range para.Children {
		if c.Kind == mdtree.KindLink {
			link = c
		}
	}
	if link == nil {
		t.Fatal("expected a link")
	}
	if link.URL != "https://example.com" || link.Title != "Docs" {
		t.Errorf("unexpected link %q %q", link.URL, link.Title)
	}
	if link.TextContent() != "docs" {
		t.Errorf("unexpected label %q", link.TextContent())
	}
}

func TestMarkdownParser_SoftBreakAndEscapes(t *testing.T) {
	root := parseMarkdown(t, "line one\nline \\*two\\*")
	para := root.Children[0]
	if len(para.Children) != 1 {
		t.Fatalf("expected 1 text leaf, got %d", len(para.Children))
	}
	if got := para.Children[0].Value; got != "line one\nline *two*" {
		t.Errorf("unexpected value %q", got)
	}
}

func TestMarkdownParser_HardBreak(t *testing.T) {
	root := parseMarkdown(t, "first\\\nsecond")
	para := root.Children[0]
	if len(para.Children) != 3 {
		t.Fatalf("expected text, break, text; got %d nodes", len(para.Children))
	}
	if !para.Children[1].Is(mdtree.TagBreak) {
		t.Errorf("expected break node, got %s", para.Children[1].Tag)
	}
}

func TestMarkdownParser_StrikethroughAndEmphasis(t *testing.T) {
	root := parseMarkdown(t, "~~gone~~ *em* **strong**")
	para := root.Children[0]

	var tags []mdtree.Tag
	for _, c := range para.Children {
		if c.Kind == mdtree.KindOther {
			tags = append(tags, c.Tag)
		}
	}
	want := []mdtree.Tag{mdtree.TagDelete, mdtree.TagEmphasis, mdtree.TagStrong}
	if len(tags) != len(want) {
		t.Fatalf("expected %v, got %v", want, tags)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Errorf("inline %d: expected %s, got %s", i, want[i], tags[i])
		}
	}
}

func TestMarkdownParser_Table(t *testing.T) {
	input := "| name | id |\n| :--- | ---: |\n| alice | [a.cc@coreid] |\n"
	root := parseMarkdown(t, input)

	if len(root.Children) != 1 || !root.Children[0].Is(mdtree.TagTable) {
		t.Fatalf("expected a table")
	}
	table := root.Children[0]
	if table.Attr("align") != "left,right" {
		t.Errorf("unexpected alignments %q", table.Attr("align"))
	}
	if len(table.Children) != 2 {
		t.Fatalf("expected header and one row, got %d", len(table.Children))
	}
	if table.Children[0].Attr("header") != "true" {
		t.Errorf("first row should be the header")
	}
	if got := table.Children[1].Children[1].TextContent(); got != "[a.cc@coreid]" {
		t.Errorf("unexpected cell text %q", got)
	}
}

func TestMarkdownParser_EmptyInput(t *testing.T) {
	root := parseMarkdown(t, "")
	if len(root.Children) != 0 {
		t.Errorf("expected 0 children for empty input, got %d", len(root.Children))
	}
}

func TestMarkdownParser_TitleStripping(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"readme.md", "readme"},
		{"notes.markdown", "notes"},
		{"plain.md", "plain"},
	}
	p := &MarkdownParser{}
	for _, tt := range tests {
		root, err := p.Parse(strings.NewReader("text"), tt.filename)
		if err != nil {
			t.Fatalf("unexpected error for %s: %v", tt.filename, err)
		}
		if root.Attr("title") != tt.want {
			t.Errorf("filename=%q: expected title %q, got %q", tt.filename, tt.want, root.Attr("title"))
		}
	}
}

func TestMarkdownParser_EscapedReferencesStayLiteral(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`\&copy; literal`, "&copy; literal"},
		{`&copy; sign`, "© sign"},
		{`&#35; and &#x41;`, "# and A"},
		{`\&#35; kept`, "&#35; kept"},
		{`&nosuch; kept`, "&nosuch; kept"},
		{`a \\&amp; b`, `a \& b`},
	}
	for _, tt := range tests {
		root := parseMarkdown(t, tt.input)
		if got := root.TextContent(); got != tt.want {
			t.Errorf("%q: got %q, want %q", tt.input, got, tt.want)
		}
	}
}
