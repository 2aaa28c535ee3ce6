package fetcher

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func writeTestXLSX(t *testing.T, sheets map[string][][]string) string {
	t.Helper()
	f := xlsx.NewFile()
	for name, rows := range sheets {
		sheet, err := f.AddSheet(name)
		require.NoError(t, err)
		for _, rowData := range rows {
			row := sheet.AddRow()
			for _, v := range rowData {
				row.AddCell().SetString(v)
			}
		}
	}
	path := filepath.Join(t.TempDir(), "listings.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func TestReadXLSX_FirstSheet(t *testing.T) {
	path := writeTestXLSX(t, map[string][][]string{
		"listings": {
			{"latitude", "longitude", "room_type", "price"},
			{"40.42", "-3.70", "Entire home/apt", "75"},
		},
	})

	rows, err := ReadXLSX(path, XLSXOptions{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"latitude", "longitude", "room_type", "price"}, rows[0])
	assert.Equal(t, []string{"40.42", "-3.70", "Entire home/apt", "75"}, rows[1])
}

func TestReadXLSX_SheetName(t *testing.T) {
	path := writeTestXLSX(t, map[string][][]string{
		"notes":    {{"x"}},
		"listings": {{"price"}, {"12"}},
	})

	rows, err := ReadXLSX(path, XLSXOptions{SheetName: "listings"})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"price"}, {"12"}}, rows)
}

func TestReadXLSX_Errors(t *testing.T) {
	path := writeTestXLSX(t, map[string][][]string{"only": {{"a"}}})

	_, err := ReadXLSX(path, XLSXOptions{SheetName: "missing"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	_, err = ReadXLSX(path, XLSXOptions{SheetIndex: 3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")

	_, err = ReadXLSX(filepath.Join(t.TempDir(), "nope.xlsx"), XLSXOptions{})
	require.Error(t, err)
}
