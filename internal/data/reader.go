// Package data implements the tabular collaborators: file readers for
// spreadsheet formats and the statistics engine the research phase runs
// over them.
package data

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFormat is returned for file extensions no reader
// handles.
var ErrUnsupportedFormat = errors.New("unsupported data file format")

// Table is one sheet (or one CSV file) of tabular data. The first file
// row is the header row.
type Table struct {
	// Name is the sheet name, or the file stem for CSV.
	Name string `json:"name"`
	// Headers are the column names.
	Headers []string `json:"headers"`
	// Rows hold the data cells as read, row-major.
	Rows [][]string `json:"rows"`
}

// SampleRows returns up to n data rows for result payloads.
func (t *Table) SampleRows(n int) [][]string {
	if len(t.Rows) < n {
		n = len(t.Rows)
	}
	out := make([][]string, n)
	copy(out, t.Rows[:n])
	return out
}

// ReadFile reads every sheet of a spreadsheet file. The format is
// inferred from the extension: .csv and .tsv produce a single table
// named after the file, .xlsx/.xlsm one table per sheet. A missing path
// is an error; so is an extension no reader handles.
func ReadFile(path string) ([]*Table, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("data file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return readSeparated(path, ',')
	case ".tsv":
		return readSeparated(path, '\t')
	case ".xlsx", ".xlsm":
		return readWorkbook(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

func readSeparated(path string, comma rune) ([]*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open data file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = comma
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}

	t := &Table{Name: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))}
	if len(records) > 0 {
		t.Headers = records[0]
		t.Rows = records[1:]
	}
	return []*Table{t}, nil
}

func readWorkbook(path string) ([]*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	var tables []*Table
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
		}
		t := &Table{Name: sheet}
		if len(rows) > 0 {
			t.Headers = rows[0]
			t.Rows = rows[1:]
		}
		tables = append(tables, t)
	}
	return tables, nil
}
