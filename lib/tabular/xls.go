package tabular

import (
	"fmt"

	"github.com/shakinm/xlsReader/xls"
)

// ReadLegacyWorkbook parses a BIFF .xls file into one Table per sheet,
// in sheet order, first row as headers. Sheets and rows that fail to
// read are skipped. The OLE container parser can panic on malformed
// input, so the whole pass is fenced.
func ReadLegacyWorkbook(path string) (tables []Table, err error) {
	defer func() {
		if r := recover(); r != nil {
			tables = nil
			err = fmt.Errorf("xls parse panic: %v", r)
		}
	}()

	book, err := xls.OpenFile(path)
	if err != nil {
		return nil, err
	}

	for i := 0; i < book.GetNumberSheets(); i++ {
		sheet, err := book.GetSheet(i)
		if err != nil {
			continue
		}
		var rows [][]string
		for j := 0; j < sheet.GetNumberRows(); j++ {
			row, err := sheet.GetRow(j)
			if err != nil {
				continue
			}
			var cells []string
			for _, cell := range row.GetCols() {
				cells = append(cells, cell.GetString())
			}
			if len(cells) > 0 {
				rows = append(rows, cells)
			}
		}
		if len(rows) == 0 {
			continue
		}
		tables = append(tables, Table{Headers: rows[0], Rows: rows[1:]})
	}
	return tables, nil
}
