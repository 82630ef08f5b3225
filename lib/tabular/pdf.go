package tabular

import (
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ReadPDF extracts row-grouped text tables page by page and, separately,
// the concatenated plain text of the whole document. The two extractions
// are independent: a page whose rows cannot be read is skipped, and a
// failed plain-text pass still leaves any tables intact. The underlying
// reader panics on some malformed files, so the whole pass is fenced.
func ReadPDF(path string) (tables []Table, text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			tables = nil
			text = ""
			err = fmt.Errorf("pdf parse panic: %v", r)
		}
	}()

	file, reader, err := pdf.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer file.Close()

	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		table, ok := pageTable(page)
		if ok {
			tables = append(tables, table)
		}
	}

	if plain, terr := reader.GetPlainText(); terr == nil {
		if data, rerr := io.ReadAll(plain); rerr == nil {
			text = string(data)
		}
	}

	return tables, text, nil
}

func pageTable(page pdf.Page) (table Table, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
	}()

	rows, err := page.GetTextByRow()
	if err != nil || len(rows) == 0 {
		return Table{}, false
	}

	cells := make([][]string, 0, len(rows))
	for _, row := range rows {
		var line []string
		for _, word := range row.Content {
			s := strings.TrimSpace(word.S)
			if s != "" {
				line = append(line, s)
			}
		}
		if len(line) > 0 {
			cells = append(cells, line)
		}
	}
	if len(cells) == 0 {
		return Table{}, false
	}
	return Table{Headers: cells[0], Rows: cells[1:]}, true
}
