package data

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "metrics.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadFile_CSV(t *testing.T) {
	path := writeCSV(t, "quarter,revenue,region\nQ1,100,East\nQ2,150,West\nQ3,125,North\n")

	tables, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(tables) != 1 {
		t.Fatalf("table count = %d, want 1", len(tables))
	}

	table := tables[0]
	if table.Name != "metrics" {
		t.Errorf("table name = %q, want metrics", table.Name)
	}
	if len(table.Headers) != 3 || table.Headers[1] != "revenue" {
		t.Errorf("headers = %v, want [quarter revenue region]", table.Headers)
	}
	if len(table.Rows) != 3 {
		t.Errorf("row count = %d, want 3", len(table.Rows))
	}
	if got := table.SampleRows(2); len(got) != 2 || got[0][0] != "Q1" {
		t.Errorf("SampleRows(2) = %v", got)
	}
}

func TestReadFile_MissingPath(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "absent.csv"))
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want wrapped os.ErrNotExist", err)
	}
}

func TestReadFile_UnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("hello"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := ReadFile(path)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestReadFile_EmptyCSV(t *testing.T) {
	path := writeCSV(t, "")
	tables, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(tables[0].Headers) != 0 || len(tables[0].Rows) != 0 {
		t.Errorf("empty file should yield an empty table, got %+v", tables[0])
	}
}

func TestAnalyze_MixedColumns(t *testing.T) {
	table := &Table{
		Name:    "metrics",
		Headers: []string{"quarter", "revenue", "units"},
		Rows: [][]string{
			{"Q1", "100", "10"},
			{"Q2", "150", ""},
			{"Q3", "125", "30"},
			{"Q4", "145", "20"},
		},
	}

	a := Analyze(table)

	if a.Rows != 4 || a.Columns != 3 {
		t.Errorf("shape = %dx%d, want 4x3", a.Rows, a.Columns)
	}
	if a.Types["quarter"] != TypeText {
		t.Errorf("quarter type = %q, want text", a.Types["quarter"])
	}
	if a.Types["revenue"] != TypeNumeric {
		t.Errorf("revenue type = %q, want numeric", a.Types["revenue"])
	}
	if a.Missing["units"] != 1 {
		t.Errorf("units missing = %d, want 1", a.Missing["units"])
	}

	rev := a.Stats["revenue"]
	if rev.Count != 4 {
		t.Errorf("revenue count = %d, want 4", rev.Count)
	}
	if rev.Min != 100 || rev.Max != 150 {
		t.Errorf("revenue min/max = %v/%v, want 100/150", rev.Min, rev.Max)
	}
	if math.Abs(rev.Mean-130) > 1e-9 {
		t.Errorf("revenue mean = %v, want 130", rev.Mean)
	}
	if rev.StdDev <= 0 {
		t.Errorf("revenue stddev = %v, want > 0", rev.StdDev)
	}

	if _, ok := a.Stats["quarter"]; ok {
		t.Error("text column should have no statistics entry")
	}

	numeric := a.NumericColumns()
	if len(numeric) != 2 || numeric[0] != "revenue" || numeric[1] != "units" {
		t.Errorf("NumericColumns = %v, want [revenue units]", numeric)
	}
}

func TestAnalyze_NonNumericValueMakesColumnText(t *testing.T) {
	table := &Table{
		Headers: []string{"v"},
		Rows:    [][]string{{"1"}, {"two"}, {"3"}},
	}
	a := Analyze(table)
	if a.Types["v"] != TypeText {
		t.Errorf("column with unparsable cell type = %q, want text", a.Types["v"])
	}
}

func TestAnalyze_SingleValueColumn(t *testing.T) {
	table := &Table{
		Headers: []string{"v"},
		Rows:    [][]string{{"42"}},
	}
	a := Analyze(table)
	s := a.Stats["v"]
	if s.Mean != 42 || s.Median != 42 || s.Min != 42 || s.Max != 42 {
		t.Errorf("single-value stats = %+v, want all 42", s)
	}
	if s.StdDev != 0 {
		t.Errorf("single-value stddev = %v, want 0", s.StdDev)
	}
}

func TestAnalyze_EmptyTable(t *testing.T) {
	a := Analyze(&Table{Headers: []string{"a"}, Rows: nil})
	if a.Rows != 0 {
		t.Errorf("rows = %d, want 0", a.Rows)
	}
	if a.Types["a"] != TypeText {
		t.Errorf("empty column type = %q, want text", a.Types["a"])
	}
}
