package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/geochron-tools/snac-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS fit_runs (
	id         TEXT PRIMARY KEY,
	diamond    TEXT NOT NULL,
	options    TEXT NOT NULL,
	status     TEXT NOT NULL DEFAULT 'fitting',
	summary    TEXT,
	created_at DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_fit_runs_status ON fit_runs(status);
CREATE INDEX IF NOT EXISTS idx_fit_runs_created_at ON fit_runs(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateFitRun(ctx context.Context, d model.Diamond, opts model.FitOptions) (*model.FitRun, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	diamondJSON, err := json.Marshal(d)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal diamond")
	}
	optionsJSON, err := json.Marshal(opts)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal options")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO fit_runs (id, diamond, options, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, string(diamondJSON), string(optionsJSON), string(model.FitRunStatusFitting), now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert fit run")
	}

	return &model.FitRun{
		ID:        id,
		Diamond:   d,
		Options:   opts,
		Status:    model.FitRunStatusFitting,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *SQLiteStore) CompleteFitRun(ctx context.Context, runID string, summary *model.FitSummary) error {
	return s.finishFitRun(ctx, runID, model.FitRunStatusFitted, summary)
}

func (s *SQLiteStore) FailFitRun(ctx context.Context, runID string, summary *model.FitSummary) error {
	return s.finishFitRun(ctx, runID, model.FitRunStatusFailed, summary)
}

func (s *SQLiteStore) finishFitRun(ctx context.Context, runID string, status model.FitRunStatus, summary *model.FitSummary) error {
	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal summary")
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE fit_runs SET status = ?, summary = ?, updated_at = ? WHERE id = ?`,
		string(status), string(summaryJSON), time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update fit run %s", runID)
	}
	return checkRowsAffected(res, runID)
}

func (s *SQLiteStore) GetFitRun(ctx context.Context, runID string) (*model.FitRun, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, diamond, options, status, summary, created_at, updated_at FROM fit_runs WHERE id = ?`,
		runID,
	)
	return scanFitRun(row)
}

func (s *SQLiteStore) ListFitRuns(ctx context.Context, filter FitRunFilter) ([]model.FitRun, error) {
	query := `SELECT id, diamond, options, status, summary, created_at, updated_at FROM fit_runs WHERE 1=1`
	var args []any

	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list fit runs")
	}
	defer rows.Close()

	var runs []model.FitRun
	for rows.Next() {
		r, err := scanFitRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: list fit runs iterate")
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanFitRun(row scanner) (*model.FitRun, error) {
	var r model.FitRun
	var diamondJSON, optionsJSON string
	var summaryJSON sql.NullString

	err := row.Scan(&r.ID, &diamondJSON, &optionsJSON, &r.Status, &summaryJSON, &r.CreatedAt, &r.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, eris.Wrap(err, "sqlite: fit run not found")
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan fit run")
	}

	if err := json.Unmarshal([]byte(diamondJSON), &r.Diamond); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal diamond")
	}
	if err := json.Unmarshal([]byte(optionsJSON), &r.Options); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal options")
	}
	if summaryJSON.Valid && summaryJSON.String != "null" {
		var sum model.FitSummary
		if err := json.Unmarshal([]byte(summaryJSON.String), &sum); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal summary")
		}
		r.Summary = &sum
	}
	return &r, nil
}

func checkRowsAffected(res sql.Result, runID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return eris.Errorf("sqlite: fit run %s not found", runID)
	}
	return nil
}
