package data

import (
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// Column type labels reported by Analyze.
const (
	TypeNumeric = "numeric"
	TypeText    = "text"
)

// ColumnStats are the summary statistics for one numeric column.
type ColumnStats struct {
	// Mean is the arithmetic mean.
	Mean float64 `json:"mean"`
	// Median is the 50th percentile.
	Median float64 `json:"median"`
	// Min is the smallest value.
	Min float64 `json:"min"`
	// Max is the largest value.
	Max float64 `json:"max"`
	// StdDev is the sample standard deviation, 0 for a single value.
	StdDev float64 `json:"std"`
	// Count is the number of non-empty values.
	Count int `json:"count"`
}

// Analysis summarizes one table: its shape, per-column types, summary
// statistics for the numeric columns, and missing-value counts.
type Analysis struct {
	// Rows is the data row count.
	Rows int `json:"rows"`
	// Columns is the column count.
	Columns int `json:"columns"`
	// ColumnNames preserves header order.
	ColumnNames []string `json:"column_names"`
	// Types maps column name to "numeric" or "text".
	Types map[string]string `json:"types"`
	// Stats maps numeric column name to its statistics.
	Stats map[string]ColumnStats `json:"statistics"`
	// Missing maps column name to its empty-cell count.
	Missing map[string]int `json:"missing_values"`
}

// Analyze computes summary statistics for a table. A column is numeric
// when every non-empty cell parses as a float and at least one cell is
// non-empty.
func Analyze(t *Table) *Analysis {
	a := &Analysis{
		Rows:        len(t.Rows),
		Columns:     len(t.Headers),
		ColumnNames: append([]string(nil), t.Headers...),
		Types:       make(map[string]string, len(t.Headers)),
		Stats:       make(map[string]ColumnStats),
		Missing:     make(map[string]int, len(t.Headers)),
	}

	for col, name := range t.Headers {
		values, missing, numeric := columnValues(t, col)
		a.Missing[name] = missing
		if numeric && len(values) > 0 {
			a.Types[name] = TypeNumeric
			a.Stats[name] = summarize(values)
		} else {
			a.Types[name] = TypeText
		}
	}
	return a
}

// columnValues extracts a column's parsed numeric values, counting empty
// cells as missing. The numeric flag is false as soon as any non-empty
// cell fails to parse.
func columnValues(t *Table, col int) (values []float64, missing int, numeric bool) {
	numeric = true
	for _, row := range t.Rows {
		if col >= len(row) || strings.TrimSpace(row[col]) == "" {
			missing++
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(row[col]), 64)
		if err != nil {
			numeric = false
			continue
		}
		values = append(values, v)
	}
	return values, missing, numeric
}

func summarize(values []float64) ColumnStats {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	s := ColumnStats{
		Mean:   stat.Mean(values, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Count:  len(values),
	}
	if len(values) > 1 {
		s.StdDev = stat.StdDev(values, nil)
	}
	return s
}

// NumericColumns returns the numeric column names in header order.
func (a *Analysis) NumericColumns() []string {
	var out []string
	for _, name := range a.ColumnNames {
		if a.Types[name] == TypeNumeric {
			out = append(out, name)
		}
	}
	return out
}
