package tabular

import (
	"github.com/xuri/excelize/v2"
)

// ReadWorkbook parses an xlsx spreadsheet into one Table per sheet, in
// sheet order, first row as headers. Sheets that fail to read are
// skipped. Legacy .xls files go through ReadLegacyWorkbook instead.
func ReadWorkbook(path string) ([]Table, error) {
	book, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer book.Close()

	var tables []Table
	for _, sheet := range book.GetSheetList() {
		rows, err := book.GetRows(sheet)
		if err != nil || len(rows) == 0 {
			continue
		}
		tables = append(tables, Table{
			Headers: rows[0],
			Rows:    rows[1:],
		})
	}
	return tables, nil
}
