// Package tabular turns downloaded data files into row/column structures
// the solver's numeric heuristics can scan. Readers are tolerant: a file
// that cannot be parsed yields an error, a page or sheet that cannot be
// parsed is skipped without aborting the rest of the document.
package tabular

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
)

// Table is a header row plus string cells. Ragged rows are allowed; a
// missing cell reads as the empty string.
type Table struct {
	Headers []string
	Rows    [][]string
}

func (t Table) Empty() bool {
	return len(t.Rows) == 0 && len(t.Headers) == 0
}

// Column returns the cells of column i across all rows.
func (t Table) Column(i int) []string {
	cells := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		if i < len(row) {
			cells = append(cells, row[i])
		} else {
			cells = append(cells, "")
		}
	}
	return cells
}

func (t Table) ColumnCount() int {
	n := len(t.Headers)
	for _, row := range t.Rows {
		if len(row) > n {
			n = len(row)
		}
	}
	return n
}

// Numeric coerces a cell to a number. Whitespace is trimmed and thousands
// separators are dropped, mirroring how loosely the quiz files format
// their values.
func Numeric(cell string) (float64, bool) {
	cell = strings.ReplaceAll(strings.TrimSpace(cell), ",", "")
	if cell == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ReadCSV parses delimited data with the first record as the header row.
// Records may have varying field counts.
func ReadCSV(r io.Reader) (Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return Table{}, err
	}
	if len(records) == 0 {
		return Table{}, nil
	}
	return Table{
		Headers: records[0],
		Rows:    records[1:],
	}, nil
}
