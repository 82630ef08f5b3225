package tabular

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReadCSV(t *testing.T) {
	table, err := ReadCSV(strings.NewReader("name,value\na,10\nb,20\nc,x\nd,30\n"))
	require.NoError(t, err)
	require.Equal(t, []string{"name", "value"}, table.Headers)
	require.Len(t, table.Rows, 4)
	require.Equal(t, []string{"10", "20", "x", "30"}, table.Column(1))
}

func TestReadCSVRagged(t *testing.T) {
	table, err := ReadCSV(strings.NewReader("a,b\n1\n2,3,4\n"))
	require.NoError(t, err)
	require.Equal(t, 3, table.ColumnCount())
	require.Equal(t, []string{"1", "2"}, table.Column(0))
	require.Equal(t, []string{"", "3"}, table.Column(1))
}

func TestReadCSVEmpty(t *testing.T) {
	table, err := ReadCSV(strings.NewReader(""))
	require.NoError(t, err)
	require.True(t, table.Empty())
}

func TestNumeric(t *testing.T) {
	cases := []struct {
		cell   string
		expect float64
		ok     bool
	}{
		{"10", 10, true},
		{" 2.5 ", 2.5, true},
		{"4,582", 4582, true},
		{"-3", -3, true},
		{"x", 0, false},
		{"", 0, false},
	}
	for _, test := range cases {
		got, ok := Numeric(test.cell)
		require.Equal(t, test.ok, ok, "cell %q", test.cell)
		if ok {
			require.Equal(t, test.expect, got, "cell %q", test.cell)
		}
	}
}

func TestReadWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.xlsx")

	book := excelize.NewFile()
	require.NoError(t, book.SetSheetRow("Sheet1", "A1", &[]any{"name", "value"}))
	require.NoError(t, book.SetSheetRow("Sheet1", "A2", &[]any{"a", 10}))
	require.NoError(t, book.SetSheetRow("Sheet1", "A3", &[]any{"b", 20}))
	require.NoError(t, book.SaveAs(path))
	require.NoError(t, book.Close())

	tables, err := ReadWorkbook(path)
	require.NoError(t, err)
	require.Len(t, tables, 1)
	require.Equal(t, []string{"name", "value"}, tables[0].Headers)
	require.Equal(t, []string{"10", "20"}, tables[0].Column(1))
}

func writeGarbage(path string) error {
	return os.WriteFile(path, []byte("definitely not a real document"), 0o644)
}

func TestReadWorkbookRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.xlsx")
	require.NoError(t, writeGarbage(path))

	_, err := ReadWorkbook(path)
	require.Error(t, err)
}

func TestReadLegacyWorkbookRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.xls")
	require.NoError(t, writeGarbage(path))

	_, err := ReadLegacyWorkbook(path)
	require.Error(t, err)
}

func TestReadLegacyWorkbookRejectsXlsx(t *testing.T) {
	// a zip container is not an OLE compound file; the BIFF reader must
	// refuse it rather than misparse
	path := filepath.Join(t.TempDir(), "data.xls")
	xlsxPath := filepath.Join(t.TempDir(), "data.xlsx")

	book := excelize.NewFile()
	require.NoError(t, book.SaveAs(xlsxPath))
	require.NoError(t, book.Close())
	require.NoError(t, os.Rename(xlsxPath, path))

	_, err := ReadLegacyWorkbook(path)
	require.Error(t, err)
}

func TestReadPDFRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.pdf")
	require.NoError(t, writeGarbage(path))

	_, _, err := ReadPDF(path)
	require.Error(t, err)
}
