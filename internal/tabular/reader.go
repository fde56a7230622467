package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrEmptyFile           = errors.New("no columns to parse from file")
)

// FileType is the recorded kind of an uploaded table.
type FileType string

const (
	FileTypeCSV  FileType = "csv"
	FileTypeXLSX FileType = "xlsx"
	FileTypeXLS  FileType = "xls"
)

// IsSpreadsheet reports whether the file is an Excel workbook.
func (f FileType) IsSpreadsheet() bool {
	return f == FileTypeXLSX || f == FileTypeXLS
}

// DetectFileType maps a filename to its FileType using the lower-cased
// extension.
func DetectFileType(filename string) (FileType, error) {
	name := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(name, ".csv"):
		return FileTypeCSV, nil
	case strings.HasSuffix(name, ".xlsx"):
		return FileTypeXLSX, nil
	case strings.HasSuffix(name, ".xls"):
		return FileTypeXLS, nil
	}
	return "", ErrUnsupportedFileType
}

// Read loads the whole upload into memory and parses it according to its
// extension.
func Read(filename string, r io.Reader) (*Table, FileType, error) {
	fileType, err := DetectFileType(filename)
	if err != nil {
		return nil, "", err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fileType, fmt.Errorf("failed to read upload %s: %w", filename, err)
	}

	var t *Table
	switch fileType {
	case FileTypeCSV:
		t, err = ReadCSV(bytes.NewReader(data))
	case FileTypeXLSX:
		t, err = ReadXLSX(bytes.NewReader(data))
	case FileTypeXLS:
		t, err = ReadXLS(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fileType, err
	}
	return t, fileType, nil
}

// ReadCSV parses a comma-separated file whose first record is the header.
// Empty cells are treated as missing and numeric cells become float64.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	var rows [][]any
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse csv: %w", err)
		}
		rows = append(rows, stringCells(rec))
	}
	return New(header, rows), nil
}

// ReadXLSX parses the first sheet of an Office Open XML workbook.
func ReadXLSX(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}
	raw, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return fromStringRows(raw)
}

// ReadXLS parses the first sheet of a legacy BIFF workbook.
func ReadXLS(r io.ReadSeeker) (t *Table, err error) {
	// The BIFF parser panics on some malformed workbooks.
	defer func() {
		if p := recover(); p != nil {
			t, err = nil, fmt.Errorf("failed to parse xls workbook: %v", p)
		}
	}()

	wb, err := xls.OpenReader(r, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("failed to open xls workbook: %w", err)
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, ErrEmptyFile
	}

	var raw [][]string
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheetRow(sheet, i)
		if row == nil {
			raw = append(raw, nil)
			continue
		}
		cells := make([]string, 0, row.LastCol())
		for j := 0; j < row.LastCol(); j++ {
			cells = append(cells, row.Col(j))
		}
		raw = append(raw, cells)
	}
	// Trailing blank rows are not data.
	for len(raw) > 0 && isBlankRow(raw[len(raw)-1]) {
		raw = raw[:len(raw)-1]
	}
	return fromStringRows(raw)
}

// sheetRow returns row i, or nil when the sheet has no record for it.
// WorkSheet.Row dereferences missing rows without checking.
func sheetRow(sheet *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return sheet.Row(i)
}

func isBlankRow(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}

func fromStringRows(raw [][]string) (*Table, error) {
	if len(raw) == 0 || len(raw[0]) == 0 {
		return nil, ErrEmptyFile
	}
	header := append([]string(nil), raw[0]...)
	rows := make([][]any, 0, len(raw)-1)
	for _, rec := range raw[1:] {
		rows = append(rows, stringCells(rec))
	}
	return New(header, rows), nil
}

func stringCells(rec []string) []any {
	cells := make([]any, len(rec))
	for i, v := range rec {
		cells[i] = cellValue(v)
	}
	return cells
}

// cellValue maps "" to missing and finite numbers to float64.
func cellValue(v string) any {
	if v == "" {
		return nil
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return f
	}
	return v
}
