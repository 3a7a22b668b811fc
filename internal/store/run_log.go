package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Arjunreddypulugu/excel-with-formula/internal/model"
)

// RunLog 运行日志记录
type RunLog struct {
	RunID         string        `json:"runId"`
	Filename      string        `json:"filename"`
	TotalRows     int           `json:"totalRows"`
	EnrichedRows  int           `json:"enrichedRows"`
	UnmatchedRows int           `json:"unmatchedRows"`
	PlanCount     int           `json:"planCount"`
	Duration      time.Duration `json:"duration"`
	CreatedAt     time.Time     `json:"createdAt"`
}

// SaveRunLog 记录一次处理运行
func (s *Store) SaveRunLog(report *model.RunReport, planCount int) error {
	_, err := s.db.Exec(`
		INSERT INTO run_logs (run_id, filename, total_rows, enriched_rows, unmatched_rows, plan_count, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, report.RunID, report.Filename, report.TotalRows, report.EnrichedRows,
		report.UnmatchedRows, planCount, report.Duration.Milliseconds())
	if err != nil {
		return fmt.Errorf("failed to save run log: %w", err)
	}
	return nil
}

// GetLastRunLog 获取最近一次运行日志，没有时返回 nil
func (s *Store) GetLastRunLog() (*RunLog, error) {
	var log RunLog
	var durationMs int64

	err := s.db.QueryRow(`
		SELECT run_id, filename, total_rows, enriched_rows, unmatched_rows, plan_count, duration_ms, created_at
		FROM run_logs
		ORDER BY id DESC
		LIMIT 1
	`).Scan(&log.RunID, &log.Filename, &log.TotalRows, &log.EnrichedRows,
		&log.UnmatchedRows, &log.PlanCount, &durationMs, &log.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run log: %w", err)
	}

	log.Duration = time.Duration(durationMs) * time.Millisecond
	return &log, nil
}
