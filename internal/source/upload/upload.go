// Package upload parses uploaded delimited files of unknown encoding
// and delimiter into a raw table.
package upload

import (
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/gcouto/patrimonio/internal/encoding"
	"github.com/gcouto/patrimonio/internal/source"
)

// Candidate delimiters, in preference order. Brazilian exports use
// either comma or semicolon; tab shows up in pasted spreadsheet data.
var delimiters = []rune{',', ';', '\t'}

// Parse decodes the buffer (UTF-8 first, Latin-1 fallback) and parses
// it as delimited text, inferring the delimiter. Column names come
// from the first row. When no delimiter yields a non-empty table the
// whole upload fails with source.ErrUnparseable.
func Parse(data []byte) (source.Table, error) {
	text, err := encoding.DecodeString(data)
	if err != nil {
		return source.Table{}, fmt.Errorf("%w: %v", source.ErrUnparseable, err)
	}

	var best source.Table

	for _, delim := range delimiters {
		t, ok := tryDelimiter(text, delim)
		if !ok {
			continue
		}

		// The right delimiter splits the header into the most columns.
		if len(t.Columns) > len(best.Columns) {
			best = t
		}
	}

	if len(best.Columns) == 0 {
		return source.Table{}, fmt.Errorf("%w: no delimiter produced a table", source.ErrUnparseable)
	}

	return best, nil
}

func tryDelimiter(text string, delim rune) (source.Table, bool) {
	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = delim
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return source.Table{}, false
	}

	t := source.FromRecords(records)

	// A single header column means the candidate delimiter never
	// actually split anything, so it tells us nothing about the file.
	if len(t.Columns) < 2 || t.Empty() {
		return source.Table{}, false
	}

	return t, true
}
