package research

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/deckhand-io/deckhand/internal/data"
	"github.com/deckhand-io/deckhand/pkg/models"
)

func runTask(t *testing.T, a *Agent, input map[string]any) map[string]any {
	t.Helper()
	task := models.NewTask("research step", "", 1, input)
	if !a.ReceiveTask(task) {
		t.Fatal("ReceiveTask() = false, want true")
	}
	out, err := a.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return out
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sales.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadDataCachesSheets(t *testing.T) {
	a := New(nil, nil)
	path := writeCSV(t, "month,revenue\nJan,100\nFeb,150\n")

	out := runTask(t, a, map[string]any{"kind": KindReadData, "file_path": path})

	summary := out["summary"].(map[string]any)
	if summary["total_sheets"] != 1 {
		t.Errorf("total_sheets = %v, want 1", summary["total_sheets"])
	}
	sheets := out["sheets"].(map[string]any)
	sheet := sheets["sales"].(map[string]any)
	if sheet["rows"] != 2 {
		t.Errorf("rows = %v, want 2", sheet["rows"])
	}
	if cached := a.CachedTable(path + ":sales"); cached == nil {
		t.Error("table was not cached under path:sheet")
	}
}

func TestReadDataMissingPath(t *testing.T) {
	a := New(nil, nil)
	task := models.NewTask("read", "", 1, map[string]any{"kind": KindReadData})
	a.ReceiveTask(task)
	if _, err := a.Run(context.Background()); err == nil {
		t.Error("Run() with no file_path should fail")
	}
}

func TestAnalyzeDataFromTable(t *testing.T) {
	a := New(nil, nil)
	table := &data.Table{
		Name:    "sales",
		Headers: []string{"region", "revenue"},
		Rows:    [][]string{{"east", "100"}, {"west", "150"}},
	}

	out := runTask(t, a, map[string]any{"kind": KindAnalyzeData, "table": table})

	shape := out["shape"].(map[string]any)
	if shape["rows"] != 2 || shape["columns"] != 2 {
		t.Errorf("shape = %v, want rows=2 columns=2", shape)
	}
	types := out["types"].(map[string]string)
	if types["revenue"] != data.TypeNumeric {
		t.Errorf("revenue type = %q, want %q", types["revenue"], data.TypeNumeric)
	}
}

func TestAnalyzeDataFromCache(t *testing.T) {
	a := New(nil, nil)
	path := writeCSV(t, "q,amount\nQ1,10\nQ2,20\n")
	runTask(t, a, map[string]any{"kind": KindReadData, "file_path": path})

	out := runTask(t, a, map[string]any{"kind": KindAnalyzeData, "cache_key": path + ":sales"})
	if out["analysis"].(*data.Analysis).Rows != 2 {
		t.Errorf("cached analysis rows = %d, want 2", out["analysis"].(*data.Analysis).Rows)
	}
}

func TestAnalyzeDataWithoutData(t *testing.T) {
	a := New(nil, nil)
	task := models.NewTask("analyze", "", 1, map[string]any{"kind": KindAnalyzeData})
	a.ReceiveTask(task)
	if _, err := a.Run(context.Background()); !errors.Is(err, ErrNoData) {
		t.Errorf("Run() error = %v, want ErrNoData", err)
	}
}

func TestGenerateInsightsRanked(t *testing.T) {
	a := New(nil, nil)
	table := &data.Table{
		Name:    "metrics",
		Headers: []string{"small", "large"},
		Rows:    [][]string{{"1", "1000"}, {"2", "2000"}},
	}
	analysis := data.Analyze(table)

	out := runTask(t, a, map[string]any{
		"kind":     KindGenerateInsights,
		"analysis": analysis,
		"context":  "annual report",
	})

	insights := out["insights"].([]Insight)
	if len(insights) != 4 {
		t.Fatalf("len(insights) = %d, want 4", len(insights))
	}
	for i := 1; i < len(insights); i++ {
		if insights[i].Value > insights[i-1].Value {
			t.Errorf("insights not ranked: %v before %v", insights[i-1].Value, insights[i].Value)
		}
	}
	if insights[0].Column != "large" {
		t.Errorf("top insight column = %q, want %q", insights[0].Column, "large")
	}
}

func TestCompareData(t *testing.T) {
	a := New(nil, nil)
	tables := map[string]*data.Table{
		"2023": {Name: "2023", Headers: []string{"revenue"}, Rows: [][]string{{"100"}, {"200"}}},
		"2024": {Name: "2024", Headers: []string{"revenue"}, Rows: [][]string{{"300"}, {"400"}}},
	}

	out := runTask(t, a, map[string]any{"kind": KindCompareData, "tables": tables})

	cols := out["columns"].(map[string]map[string]float64)
	if cols["revenue"]["2023"] != 150 {
		t.Errorf("2023 revenue mean = %v, want 150", cols["revenue"]["2023"])
	}
	if cols["revenue"]["2024"] != 350 {
		t.Errorf("2024 revenue mean = %v, want 350", cols["revenue"]["2024"])
	}
}

func TestCompareDataRequiresTwoTables(t *testing.T) {
	a := New(nil, nil)
	task := models.NewTask("compare", "", 1, map[string]any{
		"kind":   KindCompareData,
		"tables": map[string]*data.Table{"only": {Name: "only"}},
	})
	a.ReceiveTask(task)
	if _, err := a.Run(context.Background()); err == nil {
		t.Error("Run() with one table should fail")
	}
}

func TestSearchWebUnavailable(t *testing.T) {
	a := New(nil, nil)
	out := runTask(t, a, map[string]any{"kind": KindSearchWeb, "query": "market size"})
	if out["available"] != false {
		t.Errorf("available = %v, want false", out["available"])
	}
	if out["query"] != "market size" {
		t.Errorf("query = %v, want echoed back", out["query"])
	}
}

func TestSearchWebWithCollaborator(t *testing.T) {
	search := func(ctx context.Context, query string) ([]string, error) {
		return []string{"result for " + query}, nil
	}
	a := New(search, nil)

	out := runTask(t, a, map[string]any{"kind": KindSearchWeb, "query": "trends"})
	if out["available"] != true {
		t.Fatalf("available = %v, want true", out["available"])
	}
	results := out["results"].([]string)
	if len(results) != 1 || results[0] != "result for trends" {
		t.Errorf("results = %v", results)
	}
}

func TestSearchWebErrorPropagates(t *testing.T) {
	search := func(ctx context.Context, query string) ([]string, error) {
		return nil, errors.New("network down")
	}
	a := New(search, nil)
	task := models.NewTask("search", "", 1, map[string]any{"kind": KindSearchWeb, "query": "x"})
	a.ReceiveTask(task)
	if _, err := a.Run(context.Background()); err == nil {
		t.Error("Run() should propagate search failure")
	}
}

func TestAggregateMergesParts(t *testing.T) {
	a := New(nil, nil)
	out := runTask(t, a, map[string]any{
		"kind": KindAggregate,
		"parts": []map[string]any{
			{"insights": 3, "topic": "sales"},
			{"charts": 2, "topic": "revenue"},
		},
	})

	if out["sources"] != 2 {
		t.Errorf("sources = %v, want 2", out["sources"])
	}
	if out["topic"] != "revenue" {
		t.Errorf("topic = %v, want later part to win", out["topic"])
	}
	if out["insights"] != 3 || out["charts"] != 2 {
		t.Errorf("merged payload incomplete: %v", out)
	}
}

func TestUnknownKindFallsBack(t *testing.T) {
	a := New(nil, nil)
	out := runTask(t, a, map[string]any{"kind": "summon_dragons", "topic": "myths"})
	if out["topic"] != "myths" {
		t.Errorf("topic = %v, want %q", out["topic"], "myths")
	}
	if _, ok := out["findings"]; !ok {
		t.Error("fallback payload missing findings")
	}
}
