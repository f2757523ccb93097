// Package store keeps a history of lint runs in a SQLite database.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	tt "github.com/gnolang/sift/internal/types"
)

// Run summarizes one invocation of the linter.
type Run struct {
	ID        int64
	StartedAt time.Time
	Duration  time.Duration
	Files     int
	Issues    []tt.Issue
}

type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates or opens a SQLite database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at INTEGER,
			duration_ms INTEGER,
			files INTEGER,
			issues INTEGER
		);`,
		`CREATE TABLE IF NOT EXISTS issues (
			run_id INTEGER REFERENCES runs(id) ON DELETE CASCADE,
			seq INTEGER,
			filename TEXT,
			rule TEXT,
			rule_id INTEGER,
			category TEXT,
			severity TEXT,
			start_line INTEGER,
			start_column INTEGER,
			end_line INTEGER,
			end_column INTEGER,
			message TEXT,
			note TEXT,
			PRIMARY KEY (run_id, seq)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_issues_file ON issues(filename);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// SaveRun stores a run with its issues and returns the run ID.
func (s *SQLiteStore) SaveRun(ctx context.Context, run Run) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (started_at, duration_ms, files, issues) VALUES (?, ?, ?, ?)`,
		run.StartedAt.UnixMilli(), run.Duration.Milliseconds(), run.Files, len(run.Issues))
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO issues (run_id, seq, filename, rule, rule_id, category, severity,
			start_line, start_column, end_line, end_column, message, note)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for i, issue := range run.Issues {
		if _, err := stmt.ExecContext(ctx, id, i, issue.Filename, issue.Rule, issue.RuleID, issue.Category,
			issue.Severity.String(), issue.Start.Line, issue.Start.Column, issue.End.Line, issue.End.Column,
			issue.Message, issue.Note); err != nil {
			return 0, fmt.Errorf("failed to insert issue: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// Runs returns up to limit runs, most recent first, without their issues.
func (s *SQLiteStore) Runs(ctx context.Context, limit int) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, duration_ms, files, issues FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var r RunSummary
		var startedAt, durationMs int64
		if err := rows.Scan(&r.ID, &startedAt, &durationMs, &r.Files, &r.Issues); err != nil {
			return nil, err
		}
		r.StartedAt = time.UnixMilli(startedAt)
		r.Duration = time.Duration(durationMs) * time.Millisecond
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// RunSummary is a row of the run history.
type RunSummary struct {
	ID        int64
	StartedAt time.Time
	Duration  time.Duration
	Files     int
	Issues    int
}

// Issues loads the issues recorded for a run in report order.
func (s *SQLiteStore) Issues(ctx context.Context, runID int64) ([]tt.Issue, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT filename, rule, rule_id, category, severity,
			start_line, start_column, end_line, end_column, message, note
		FROM issues WHERE run_id = ? ORDER BY seq
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var issues []tt.Issue
	for rows.Next() {
		var issue tt.Issue
		var severity string
		if err := rows.Scan(&issue.Filename, &issue.Rule, &issue.RuleID, &issue.Category, &severity,
			&issue.Start.Line, &issue.Start.Column, &issue.End.Line, &issue.End.Column,
			&issue.Message, &issue.Note); err != nil {
			return nil, err
		}
		if issue.Severity, err = tt.ParseSeverity(severity); err != nil {
			return nil, err
		}
		issue.Start.Filename = issue.Filename
		issue.End.Filename = issue.Filename
		issues = append(issues, issue)
	}
	return issues, rows.Err()
}
