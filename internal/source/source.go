package source

import (
	"context"
	"strings"
)

//go:generate mockgen -source=source.go -destination=source_mock.go -package=source

// Source produces raw tabular records from a remote workbook.
type Source interface {
	Fetch(ctx context.Context, workbook, tab string) (Table, error)
}

// Row maps a raw column name to the raw cell value. Absent cells are
// simply missing from the map.
type Row map[string]string

// Table is a raw record set: the column names in source order plus one
// Row per data row. Cell values carry no semantic interpretation.
type Table struct {
	Columns []string
	Rows    []Row
}

// Empty reports whether the table has no data rows.
func (t Table) Empty() bool {
	return len(t.Rows) == 0
}

// HasColumn reports whether name is one of the table's columns.
func (t Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}

	return false
}

// FromRecords builds a Table from raw CSV-style records. The first
// record is the header; blank header cells are skipped. Data cells
// beyond the header width are ignored, missing trailing cells are left
// absent from the row.
func FromRecords(records [][]string) Table {
	if len(records) == 0 {
		return Table{}
	}

	var t Table

	colIdx := make(map[int]string)

	for i, name := range records[0] {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		t.Columns = append(t.Columns, name)
		colIdx[i] = name
	}

	for _, rec := range records[1:] {
		row := make(Row, len(t.Columns))

		for i, cell := range rec {
			name, ok := colIdx[i]
			if !ok {
				continue
			}

			row[name] = cell
		}

		t.Rows = append(t.Rows, row)
	}

	return t
}
