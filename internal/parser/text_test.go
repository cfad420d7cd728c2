package parser

import (
	"strings"
	"testing"

	"github.com/dgallion1/corepassmd/internal/mdtree"
)

func paragraphTexts(root *mdtree.Node) []string {
	var out []string
	for _, c := range root.Children {
		if c.Is(mdtree.TagParagraph) {
			out = append(out, c.TextContent())
		}
	}
	return out
}

func TestTextParser_BasicParagraphSplitting(t *testing.T) {
	input := "First paragraph line one.\nFirst paragraph line two.\n\nSecond paragraph.\n\nThird paragraph."
	p := &TextParser{}
	root, err := p.Parse(strings.NewReader(input), "notes.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if root.Attr("title") != "notes" {
		t.Errorf("expected title %q, got %q", "notes", root.Attr("title"))
	}

	got := paragraphTexts(root)
	want := []string{
		"First paragraph line one.\nFirst paragraph line two.",
		"Second paragraph.",
		"Third paragraph.",
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d paragraphs, got %d", len(want), len(got))
	}
	for i, w := range want {
		if got[i] != w {
			t.Errorf("paragraph[%d]: expected %q, got %q", i, w, got[i])
		}
	}
}

func TestTextParser_EmptyInput(t *testing.T) {
	p := &TextParser{}
	root, err := p.Parse(strings.NewReader(""), "empty.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if root.Attr("title") != "empty" {
		t.Errorf("expected title %q, got %q", "empty", root.Attr("title"))
	}
	if len(root.Children) != 0 {
		t.Errorf("expected 0 children for empty input, got %d", len(root.Children))
	}
}

func TestTextParser_TokensAreNotInterpreted(t *testing.T) {
	// Plain text has no markup, so brackets and stars stay literal.
	input := "*pay* [sub.domain.cc@coreid]"
	p := &TextParser{}
	root, err := p.Parse(strings.NewReader(input), "pay.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := paragraphTexts(root); len(got) != 1 || got[0] != input {
		t.Errorf("expected %q, got %q", input, got)
	}
}

func TestTextParser_MultipleBlankLines(t *testing.T) {
	// Multiple consecutive blank lines should not produce empty paragraphs.
	input := "Para one.\n\n\n\nPara two."
	p := &TextParser{}
	root, err := p.Parse(strings.NewReader(input), "gaps.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(root.Children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(root.Children))
	}
}

func TestTextParser_WhitespaceOnlyLines(t *testing.T) {
	// Lines with only whitespace should be treated as blank.
	input := "Para one.\n   \nPara two."
	p := &TextParser{}
	root, err := p.Parse(strings.NewReader(input), "ws.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(root.Children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(root.Children))
	}
}
