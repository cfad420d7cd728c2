package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/corepassmd/internal/mdtree"
)

// CSVParser handles CSV files. The first record is the table header.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) (*mdtree.Node, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	root := mdtree.NewRoot()
	root.SetAttr("title", strings.TrimSuffix(filename, ".csv"))

	if len(records) == 0 {
		return root, nil
	}

	width := 0
	for _, rec := range records {
		width = max(width, len(rec))
	}

	table := mdtree.NewOther(mdtree.TagTable)
	for i, rec := range records {
		row := mdtree.NewOther(mdtree.TagTableRow)
		if i == 0 {
			row.SetAttr("header", "true")
		}
		for j := 0; j < width; j++ {
			cell := mdtree.NewOther(mdtree.TagTableCell)
			if j < len(rec) && rec[j] != "" {
				cell.Append(mdtree.NewText(rec[j]))
			}
			row.Append(cell)
		}
		table.Append(row)
	}
	root.Append(table)

	return root, nil
}
