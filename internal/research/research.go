// Package research implements the data-ingestion specialist: it reads
// spreadsheet files, computes summary statistics, derives ranked textual
// insights, compares tables, and optionally queries a search
// collaborator. Ingested tables are cached per source so sequential
// steps in one phase can refer back to them by key.
package research

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/deckhand-io/deckhand/internal/agent"
	"github.com/deckhand-io/deckhand/internal/data"
	"github.com/deckhand-io/deckhand/pkg/models"
)

// Task kinds the research agent dispatches on.
const (
	KindReadData         = "read_data"
	KindAnalyzeData      = "analyze_data"
	KindGenerateInsights = "generate_insights"
	KindCompareData      = "compare_data"
	KindSearchWeb        = "search_web"
	KindAggregate        = "aggregate"
)

// ErrNoData is returned when an analysis task carries neither a table
// nor a cache key that resolves to one.
var ErrNoData = errors.New("no data provided for analysis")

// SearchFunc is the optional search collaborator. A nil SearchFunc
// degrades search tasks to an explicit unavailable payload.
type SearchFunc func(ctx context.Context, query string) ([]string, error)

// Insight is one ranked finding derived from table statistics.
type Insight struct {
	// Type labels the finding, e.g. "range" or "average".
	Type string `json:"type"`
	// Column names the source column.
	Column string `json:"column"`
	// Description is the human-readable finding.
	Description string `json:"description"`
	// Value orders insights; larger values rank first.
	Value float64 `json:"value"`
}

// Agent is the research specialist.
type Agent struct {
	*agent.Core
	search SearchFunc

	mu    sync.RWMutex
	cache map[string]*data.Table
}

// New creates the research agent. The search collaborator may be nil.
func New(search SearchFunc, log agent.Logger) *Agent {
	a := &Agent{
		search: search,
		cache:  make(map[string]*data.Table),
	}
	a.Core = agent.NewCore("researcher", "research and data analysis", a.execute, log)
	return a
}

func (a *Agent) execute(ctx context.Context, task *models.Task) (map[string]any, error) {
	switch task.Kind() {
	case KindReadData:
		return a.readData(task.Input)
	case KindAnalyzeData:
		return a.analyzeData(task.Input)
	case KindGenerateInsights:
		return a.generateInsights(task.Input)
	case KindCompareData:
		return a.compareData(task.Input)
	case KindSearchWeb:
		return a.searchWeb(ctx, task.Input)
	case KindAggregate:
		return a.aggregate(task.Input)
	default:
		return a.generalResearch(task.Input)
	}
}

// readData loads every sheet of the file named by input["file_path"]
// and caches each table under "path:sheet".
func (a *Agent) readData(input map[string]any) (map[string]any, error) {
	path, _ := input["file_path"].(string)
	if path == "" {
		return nil, errors.New("file_path is required")
	}

	tables, err := data.ReadFile(path)
	if err != nil {
		return nil, err
	}

	sheets := make(map[string]any, len(tables))
	names := make([]string, 0, len(tables))
	a.mu.Lock()
	for _, t := range tables {
		a.cache[path+":"+t.Name] = t
		names = append(names, t.Name)
		sheets[t.Name] = map[string]any{
			"rows":    len(t.Rows),
			"columns": t.Headers,
			"sample":  t.SampleRows(5),
		}
	}
	a.mu.Unlock()

	return map[string]any{
		"file_path": path,
		"sheets":    sheets,
		"summary": map[string]any{
			"total_sheets": len(tables),
			"sheet_names":  names,
		},
	}, nil
}

// analyzeData runs the statistics engine over input["table"] or the
// cached table named by input["cache_key"].
func (a *Agent) analyzeData(input map[string]any) (map[string]any, error) {
	table, _ := input["table"].(*data.Table)
	if table == nil {
		if key, ok := input["cache_key"].(string); ok {
			a.mu.RLock()
			table = a.cache[key]
			a.mu.RUnlock()
		}
	}
	if table == nil {
		return nil, ErrNoData
	}

	analysis := data.Analyze(table)
	return map[string]any{
		"shape":          map[string]any{"rows": analysis.Rows, "columns": analysis.Columns},
		"columns":        analysis.ColumnNames,
		"types":          analysis.Types,
		"statistics":     analysis.Stats,
		"missing_values": analysis.Missing,
		"analysis":       analysis,
	}, nil
}

// generateInsights derives ranked findings from a prior analysis, using
// input["context"] as the topic framing. Insights are sorted by value
// descending.
func (a *Agent) generateInsights(input map[string]any) (map[string]any, error) {
	analysis, _ := input["analysis"].(*data.Analysis)
	if analysis == nil {
		return nil, errors.New("analysis is required")
	}
	topic, _ := input["context"].(string)

	var insights []Insight
	for _, col := range analysis.NumericColumns() {
		s := analysis.Stats[col]
		insights = append(insights,
			Insight{
				Type:        "range",
				Column:      col,
				Description: fmt.Sprintf("%s ranges from %.2f to %.2f", col, s.Min, s.Max),
				Value:       s.Max - s.Min,
			},
			Insight{
				Type:        "average",
				Column:      col,
				Description: fmt.Sprintf("%s averages %.2f", col, s.Mean),
				Value:       s.Mean,
			},
		)
	}
	sort.SliceStable(insights, func(i, j int) bool { return insights[i].Value > insights[j].Value })

	return map[string]any{
		"context":  topic,
		"insights": insights,
	}, nil
}

// compareData compares shared numeric columns across the named tables
// by mean value.
func (a *Agent) compareData(input map[string]any) (map[string]any, error) {
	tables, _ := input["tables"].(map[string]*data.Table)
	if len(tables) < 2 {
		return nil, errors.New("at least two tables are required for comparison")
	}

	analyses := make(map[string]*data.Analysis, len(tables))
	for name, t := range tables {
		analyses[name] = data.Analyze(t)
	}

	comparison := make(map[string]map[string]float64)
	for name, an := range analyses {
		for _, col := range an.NumericColumns() {
			if comparison[col] == nil {
				comparison[col] = make(map[string]float64)
			}
			comparison[col][name] = an.Stats[col].Mean
		}
	}

	return map[string]any{
		"tables":   len(tables),
		"columns":  comparison,
		"analyses": analyses,
	}, nil
}

// searchWeb queries the search collaborator when one is configured, and
// reports unavailability otherwise.
func (a *Agent) searchWeb(ctx context.Context, input map[string]any) (map[string]any, error) {
	query, _ := input["query"].(string)
	if a.search == nil {
		return map[string]any{
			"available": false,
			"query":     query,
			"message":   "search collaborator not configured",
		}, nil
	}

	results, err := a.search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return map[string]any{
		"available": true,
		"query":     query,
		"results":   results,
	}, nil
}

// aggregate shallow-merges partial research payloads in order; later
// parts win key conflicts.
func (a *Agent) aggregate(input map[string]any) (map[string]any, error) {
	parts, _ := input["parts"].([]map[string]any)
	merged := make(map[string]any)
	for _, p := range parts {
		for k, v := range p {
			merged[k] = v
		}
	}
	merged["sources"] = len(parts)
	return merged, nil
}

// generalResearch is the default for unknown kinds.
func (a *Agent) generalResearch(input map[string]any) (map[string]any, error) {
	topic, _ := input["topic"].(string)
	sources, _ := input["sources"].([]string)
	return map[string]any{
		"topic":           topic,
		"sources_checked": len(sources),
		"findings":        []string{},
		"recommendations": []string{},
	}, nil
}

// CachedTable returns the table cached under key, or nil.
func (a *Agent) CachedTable(key string) *data.Table {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.cache[key]
}
