package tabular

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestDetectFileType(t *testing.T) {
	tests := []struct {
		name    string
		want    FileType
		wantErr bool
	}{
		{name: "reviews.csv", want: FileTypeCSV},
		{name: "Reviews.XLSX", want: FileTypeXLSX},
		{name: "old.xls", want: FileTypeXLS},
		{name: "notes.txt", wantErr: true},
		{name: "csv", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectFileType(tt.name)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedFileType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
	assert.False(t, FileTypeCSV.IsSpreadsheet())
	assert.True(t, FileTypeXLS.IsSpreadsheet())
}

func TestReadCSV(t *testing.T) {
	data := "\ufeffid,Review\n1,great stuff\n2,\n3,\"quoted, with comma\",extra\n"

	tbl, fileType, err := Read("upload.csv", strings.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, FileTypeCSV, fileType)

	assert.Equal(t, []string{"id", "Review"}, tbl.Columns)
	require.Equal(t, 3, tbl.Len())
	assert.Equal(t, []any{1.0, "great stuff"}, tbl.Rows[0])
	assert.Equal(t, []any{2.0, nil}, tbl.Rows[1])
	assert.Equal(t, "quoted, with comma", tbl.Cell(2, 1))
}

func TestReadCSVEmpty(t *testing.T) {
	_, _, err := Read("empty.csv", strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestReadUnsupported(t *testing.T) {
	_, _, err := Read("notes.txt", strings.NewReader("review\nhello\n"))
	assert.ErrorIs(t, err, ErrUnsupportedFileType)
}

func TestReadXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"ID", "Review"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{1, "love it"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]any{2, "hate it"}))
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	tbl, fileType, err := Read("reviews.xlsx", &buf)
	require.NoError(t, err)
	assert.Equal(t, FileTypeXLSX, fileType)
	assert.Equal(t, []string{"ID", "Review"}, tbl.Columns)
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, []any{1.0, "love it"}, tbl.Rows[0])
	assert.Equal(t, "hate it", tbl.Cell(1, 1))
}

func TestReadXLS(t *testing.T) {
	f, err := os.Open(filepath.Join("testdata", "reviews.xls"))
	require.NoError(t, err)
	defer f.Close()

	tbl, fileType, err := Read("Reviews.XLS", f)
	require.NoError(t, err)
	assert.Equal(t, FileTypeXLS, fileType)
	assert.Equal(t, []string{"id", "Review"}, tbl.Columns)

	// Row 2 has no record in the sheet; the blank rows after row 3 are dropped.
	require.Equal(t, 3, tbl.Len())
	assert.Equal(t, []any{1.0, "love it"}, tbl.Rows[0])
	assert.Empty(t, tbl.Rows[1])
	assert.Equal(t, []any{2.0, "awful product"}, tbl.Rows[2])
	assert.Equal(t, []string{"love it", "", "awful product"}, tbl.ColumnStrings(1))
}

func TestCellValue(t *testing.T) {
	assert.Nil(t, cellValue(""))
	assert.Equal(t, 3.0, cellValue("3"))
	assert.Equal(t, -0.25, cellValue("-0.25"))
	assert.Equal(t, "NaN", cellValue("NaN"))
	assert.Equal(t, "Inf", cellValue("Inf"))
	assert.Equal(t, "1,000", cellValue("1,000"))
	assert.Equal(t, "great", cellValue("great"))
}

func TestReadCorruptWorkbooks(t *testing.T) {
	_, _, err := Read("broken.xlsx", strings.NewReader("not a zip"))
	assert.Error(t, err)

	_, _, err = Read("broken.xls", strings.NewReader("not a compound file"))
	assert.Error(t, err)
}
