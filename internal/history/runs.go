package history

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/deckhand-io/deckhand/pkg/models"
)

// Status marks how a recorded run ended.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Run is one recorded generation run.
type Run struct {
	ID          string     `json:"id"`
	Topic       string     `json:"topic"`
	Theme       string     `json:"theme"`
	DataFile    string     `json:"data_file,omitempty"`
	OutputPath  string     `json:"output_path,omitempty"`
	SlideCount  int        `json:"slide_count"`
	ChartCount  int        `json:"chart_count"`
	Mode        string     `json:"mode,omitempty"`
	Status      Status     `json:"status"`
	Error       string     `json:"error,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Duration returns the run's wall time, zero when it never completed.
func (r *Run) Duration() time.Duration {
	if r.CompletedAt == nil {
		return 0
	}
	return r.CompletedAt.Sub(r.StartedAt)
}

// FromResult maps a request and its result envelope onto a Run record.
func FromResult(req models.Request, res *models.Result, mode string, startedAt, completedAt time.Time) *Run {
	run := &Run{
		Topic:       req.Topic,
		Theme:       req.Theme,
		DataFile:    req.DataFile,
		Mode:        mode,
		StartedAt:   startedAt,
		CompletedAt: &completedAt,
	}
	if res == nil {
		run.Status = StatusFailed
		return run
	}
	if res.Success {
		run.Status = StatusSuccess
		run.OutputPath = res.OutputPath
		run.SlideCount = res.SlideCount
		run.ChartCount = res.ChartsGenerated
	} else {
		run.Status = StatusFailed
		run.Error = res.Error
	}
	return run
}

// RecordRun inserts a run. A missing ID gets generated and a zero
// StartedAt becomes now.
func (s *Store) RecordRun(r *Run) error {
	if r.ID == "" {
		r.ID = uuid.New().String()[:8]
	}
	if r.StartedAt.IsZero() {
		r.StartedAt = time.Now()
	}

	var completedAt *string
	if r.CompletedAt != nil {
		v := formatTime(*r.CompletedAt)
		completedAt = &v
	}

	_, err := s.exec(`
		INSERT INTO runs (id, topic, theme, data_file, output_path, slide_count, chart_count, mode, status, error, started_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.ID, r.Topic, r.Theme, r.DataFile, r.OutputPath, r.SlideCount, r.ChartCount, r.Mode, string(r.Status), r.Error, formatTime(r.StartedAt), completedAt)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// GetRun retrieves a run by ID, nil when unknown.
func (s *Store) GetRun(id string) (*Run, error) {
	row := s.queryRow(`
		SELECT id, topic, theme, data_file, output_path, slide_count, chart_count, mode, status, error, started_at, completed_at
		FROM runs WHERE id = ?
	`, id)

	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// ListRuns returns runs newest first. A limit of 0 or less means all.
func (s *Store) ListRuns(limit int) ([]Run, error) {
	q := `
		SELECT id, topic, theme, data_file, output_path, slide_count, chart_count, mode, status, error, started_at, completed_at
		FROM runs ORDER BY started_at DESC
	`
	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = s.query(q+" LIMIT ?", limit)
	} else {
		rows, err = s.query(q)
	}
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// DeleteRun deletes a run by ID.
func (s *Store) DeleteRun(id string) error {
	if _, err := s.exec("DELETE FROM runs WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	return nil
}

// Purge deletes runs that started before the cutoff and returns how
// many were removed.
func (s *Store) Purge(olderThan time.Duration) (int64, error) {
	cutoff := formatTime(time.Now().Add(-olderThan))

	result, err := s.exec("DELETE FROM runs WHERE started_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge runs: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected: %w", err)
	}
	return count, nil
}

// Summary holds aggregate counters over the whole history.
type Summary struct {
	Total       int
	Succeeded   int
	Failed      int
	TotalSlides int
	TotalCharts int
}

// Summarize computes aggregate counters over all recorded runs.
func (s *Store) Summarize() (Summary, error) {
	row := s.queryRow(`
		SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN status = 'success' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'failed' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(slide_count), 0),
			COALESCE(SUM(chart_count), 0)
		FROM runs
	`)

	var sum Summary
	if err := row.Scan(&sum.Total, &sum.Succeeded, &sum.Failed, &sum.TotalSlides, &sum.TotalCharts); err != nil {
		return Summary{}, fmt.Errorf("summarize runs: %w", err)
	}
	return sum, nil
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var r Run
	var dataFile, outputPath, mode, errMsg sql.NullString
	var startedAt string
	var completedAt sql.NullString
	err := row.Scan(&r.ID, &r.Topic, &r.Theme, &dataFile, &outputPath, &r.SlideCount, &r.ChartCount, &mode, &r.Status, &errMsg, &startedAt, &completedAt)
	if err != nil {
		return nil, err
	}

	if dataFile.Valid {
		r.DataFile = dataFile.String
	}
	if outputPath.Valid {
		r.OutputPath = outputPath.String
	}
	if mode.Valid {
		r.Mode = mode.String
	}
	if errMsg.Valid {
		r.Error = errMsg.String
	}
	r.StartedAt, _ = parseTime(startedAt)
	r.CompletedAt = parseNullableTime(completedAt)
	return &r, nil
}
