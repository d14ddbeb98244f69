package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/ledgerlens/internal/analysis"
	"github.com/Veraticus/ledgerlens/internal/common"
	"github.com/Veraticus/ledgerlens/internal/model"
)

// DefaultListLimit is used when ListReports is called with a non-positive limit.
const DefaultListLimit = 20

// Ensure SQLiteStorage implements analysis.ReportStore.
var _ analysis.ReportStore = (*SQLiteStorage)(nil)

// RunSummary is the listing view of a stored report.
type RunSummary struct {
	GeneratedAt     time.Time  `json:"generated_at"`
	ID              string     `json:"id"`
	Vertical        string     `json:"vertical"`
	Mode            model.Mode `json:"mode"`
	Months          int        `json:"months"`
	Recommendations int        `json:"recommendations"`
	ImpactLow       float64    `json:"impact_low"`
	ImpactMid       float64    `json:"impact_mid"`
	ImpactHigh      float64    `json:"impact_high"`
}

// SaveReport stores a report, replacing any report with the same id.
func (s *SQLiteStorage) SaveReport(ctx context.Context, report *analysis.Report) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateReport(report); err != nil {
		return err
	}

	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	low, mid, high := report.TotalImpact()

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO runs (
			id, generated_at, vertical, mode, months, recommendation_count,
			report_json, impact_low, impact_mid, impact_high
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		report.ID,
		report.GeneratedAt.UTC(),
		report.Vertical,
		string(report.Mode.Mode),
		report.TimeCoverage.Months,
		len(report.Recommendations),
		string(data),
		low, mid, high,
	)
	if err != nil {
		return fmt.Errorf("failed to save report %s: %w", report.ID, err)
	}
	return nil
}

// GetReport loads a stored report by id.
func (s *SQLiteStorage) GetReport(ctx context.Context, reportID string) (*analysis.Report, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(reportID, "reportID"); err != nil {
		return nil, err
	}

	var data string
	err := s.db.QueryRowContext(ctx, `SELECT report_json FROM runs WHERE id = ?`, reportID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("report %s: %w", reportID, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load report %s: %w", reportID, err)
	}

	var report analysis.Report
	if err := json.Unmarshal([]byte(data), &report); err != nil {
		return nil, fmt.Errorf("failed to decode report %s: %w", reportID, err)
	}
	return &report, nil
}

// ListReports returns the most recent runs first.
func (s *SQLiteStorage) ListReports(ctx context.Context, limit int) ([]RunSummary, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, generated_at, vertical, mode, months, recommendation_count,
			impact_low, impact_mid, impact_high
		FROM runs
		ORDER BY generated_at DESC, id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer func() { _ = rows.Close() }()

	summaries := []RunSummary{}
	for rows.Next() {
		var (
			rs   RunSummary
			mode string
		)
		if err := rows.Scan(&rs.ID, &rs.GeneratedAt, &rs.Vertical, &mode, &rs.Months,
			&rs.Recommendations, &rs.ImpactLow, &rs.ImpactMid, &rs.ImpactHigh); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		rs.Mode = model.Mode(mode)
		summaries = append(summaries, rs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	return summaries, nil
}

// DeleteReport removes a stored report.
func (s *SQLiteStorage) DeleteReport(ctx context.Context, reportID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(reportID, "reportID"); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, reportID)
	if err != nil {
		return fmt.Errorf("failed to delete report %s: %w", reportID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete report %s: %w", reportID, err)
	}
	if n == 0 {
		return fmt.Errorf("report %s: %w", reportID, common.ErrNotFound)
	}
	return nil
}
