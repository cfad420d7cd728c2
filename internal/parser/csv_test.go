package parser

import (
	"strings"
	"testing"

	"github.com/dgallion1/corepassmd/internal/mdtree"
)

func TestCSVParser_Table(t *testing.T) {
	input := "name,wallet\nalice,[a.cc@coreid]\nbob\n"
	p := &CSVParser{}
	root, err := p.Parse(strings.NewReader(input), "people.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if root.Attr("title") != "people" {
		t.Errorf("expected title %q, got %q", "people", root.Attr("title"))
	}
	if len(root.Children) != 1 || !root.Children[0].Is(mdtree.TagTable) {
		t.Fatalf("expected one table")
	}

	rows := root.Children[0].Children
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0].Attr("header") != "true" {
		t.Errorf("expected header row")
	}
	for i, row := range rows {
		if len(row.Children) != 2 {
			t.Errorf("row %d: expected 2 cells, got %d", i, len(row.Children))
		}
	}
	if got := rows[1].Children[1].TextContent(); got != "[a.cc@coreid]" {
		t.Errorf("unexpected cell %q", got)
	}
	if len(rows[2].Children[1].Children) != 0 {
		t.Errorf("padded cell should be empty")
	}
}

func TestCSVParser_Empty(t *testing.T) {
	p := &CSVParser{}
	root, err := p.Parse(strings.NewReader(""), "empty.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(root.Children) != 0 {
		t.Errorf("expected no children, got %d", len(root.Children))
	}
}

func TestForFile(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"a.md", false},
		{"a.MARKDOWN", false},
		{"a.htm", false},
		{"a.csv", false},
		{"a.txt", false},
		{"a.pdf", false},
		{"a.docx", false},
		{"a.exe", true},
	}
	for _, tt := range tests {
		_, err := ForFile(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("ForFile(%q): err=%v, wantErr=%v", tt.name, err, tt.wantErr)
		}
	}

	p, err := Config{PDFFallbackPdftotext: true}.ForFormat("pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pdf, ok := p.(*PDFParser); !ok || !pdf.FallbackPdftotext {
		t.Errorf("expected PDF parser with fallback, got %#v", p)
	}
	if _, err := (Config{}).ForFormat(""); err != nil {
		t.Errorf("empty format should default to markdown: %v", err)
	}
}
