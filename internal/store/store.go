// Package store keeps the history of repurposing runs in sqlite. History is
// write-once: nothing here is consulted to skip generation.
package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
	_ "modernc.org/sqlite"

	"github.com/valpere/recast/internal"
)

var ErrNotFound = errors.New("run not found")

type Store struct {
	db *sql.DB
}

// New opens (and creates, if needed) the history database at dbPath.
func New(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		source_text TEXT NOT NULL,
		source_hash TEXT NOT NULL,
		platforms TEXT NOT NULL,
		audience TEXT,
		ab_testing BOOLEAN DEFAULT FALSE,
		topic TEXT,
		thesis TEXT,
		duration_ms INTEGER,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	-- drafts holds every variation; a failed platform has one row with error set
	CREATE TABLE IF NOT EXISTS drafts (
		run_id TEXT NOT NULL,
		platform TEXT NOT NULL,
		variant INTEGER NOT NULL,
		raw_text TEXT,
		humanized_text TEXT,
		selected BOOLEAN DEFAULT FALSE,
		metadata TEXT,
		error TEXT,
		PRIMARY KEY (run_id, platform, variant),
		FOREIGN KEY (run_id) REFERENCES runs(id)
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
	CREATE INDEX IF NOT EXISTS idx_runs_source ON runs(source_hash);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveRun stores a run and its drafts in one transaction.
func (s *Store) SaveRun(ctx context.Context, run internal.RunRecord, drafts []internal.DraftRecord) error {
	platforms, err := json.Marshal(run.Platforms)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, source_text, source_hash, platforms, audience, ab_testing, topic, thesis, duration_ms, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.SourceText, SourceHash(run.SourceText), string(platforms), run.Audience, run.ABTesting,
		run.Topic, run.Thesis, run.Duration.Milliseconds(), run.Timestamp.UTC())
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	for _, d := range drafts {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO drafts (run_id, platform, variant, raw_text, humanized_text, selected, metadata, error) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID, d.Platform, d.Variant, d.Raw, d.Humanized, d.Selected, d.Metadata, d.Error)
		if err != nil {
			return fmt.Errorf("failed to save %s draft %d: %w", d.Platform, d.Variant, err)
		}
	}

	return tx.Commit()
}

// ListRuns returns the most recent runs first. limit <= 0 returns all.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]internal.RunRecord, error) {
	query := `SELECT id, source_text, platforms, audience, ab_testing, topic, thesis, duration_ms, created_at FROM runs ORDER BY created_at DESC, rowid DESC`
	var args []interface{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []internal.RunRecord
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner) (internal.RunRecord, error) {
	var (
		run       internal.RunRecord
		platforms string
		audience  sql.NullString
		topic     sql.NullString
		thesis    sql.NullString
		duration  int64
	)
	if err := row.Scan(&run.ID, &run.SourceText, &platforms, &audience, &run.ABTesting, &topic, &thesis, &duration, &run.Timestamp); err != nil {
		return run, err
	}
	if err := json.Unmarshal([]byte(platforms), &run.Platforms); err != nil {
		return run, fmt.Errorf("run %s has malformed platforms: %w", run.ID, err)
	}
	run.Audience = audience.String
	run.Topic = topic.String
	run.Thesis = thesis.String
	run.Duration = time.Duration(duration) * time.Millisecond
	return run, nil
}

// GetRun loads a run by ID or by an unambiguous ID prefix.
func (s *Store) GetRun(ctx context.Context, id string) (internal.RunRecord, []internal.DraftRecord, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return internal.RunRecord{}, nil, ErrNotFound
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source_text, platforms, audience, ab_testing, topic, thesis, duration_ms, created_at FROM runs WHERE id = ? OR id LIKE ? ORDER BY (id = ?) DESC LIMIT 2`,
		id, stripWildcards(id)+"%", id)
	if err != nil {
		return internal.RunRecord{}, nil, err
	}

	var matches []internal.RunRecord
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			rows.Close()
			return internal.RunRecord{}, nil, err
		}
		matches = append(matches, run)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return internal.RunRecord{}, nil, err
	}

	if len(matches) == 0 {
		return internal.RunRecord{}, nil, ErrNotFound
	}
	run := matches[0]
	if len(matches) > 1 && run.ID != id {
		return internal.RunRecord{}, nil, fmt.Errorf("run id prefix %q is ambiguous", id)
	}

	drafts, err := s.drafts(ctx, run.ID)
	if err != nil {
		return run, nil, err
	}
	return run, drafts, nil
}

func stripWildcards(s string) string {
	return strings.NewReplacer("%", "", "_", "").Replace(s)
}

func (s *Store) drafts(ctx context.Context, runID string) ([]internal.DraftRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT platform, variant, raw_text, humanized_text, selected, metadata, error FROM drafts WHERE run_id = ? ORDER BY rowid`,
		runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drafts []internal.DraftRecord
	for rows.Next() {
		d := internal.DraftRecord{RunID: runID}
		var raw, humanized, meta, errMsg sql.NullString
		if err := rows.Scan(&d.Platform, &d.Variant, &raw, &humanized, &d.Selected, &meta, &errMsg); err != nil {
			return nil, err
		}
		d.Raw, d.Humanized, d.Metadata, d.Error = raw.String, humanized.String, meta.String, errMsg.String
		drafts = append(drafts, d)
	}
	return drafts, rows.Err()
}

// DeleteRun removes a run and its drafts.
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM drafts WHERE run_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

// Clear removes all history and returns the number of runs deleted.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM drafts`); err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM runs`)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, tx.Commit()
}

// Stats summarises the history.
type Stats struct {
	Runs            int
	DistinctSources int
	Drafts          int
	FailedPlatforms int
	Compliant       int
	ByPlatform      map[string]int
}

func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{ByPlatform: map[string]int{}}

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COUNT(DISTINCT source_hash) FROM runs`).Scan(&stats.Runs, &stats.DistinctSources)
	if err != nil {
		return nil, err
	}

	err = s.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN error IS NULL OR error = '' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN error <> '' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN selected AND json_valid(metadata) THEN
				CASE WHEN json_extract(metadata, '$.platform_compliant') THEN 1 ELSE 0 END
			ELSE 0 END), 0)
		FROM drafts`).Scan(&stats.Drafts, &stats.FailedPlatforms, &stats.Compliant)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT platform, COUNT(DISTINCT run_id) FROM drafts GROUP BY platform ORDER BY platform`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		var n int
		if err := rows.Scan(&name, &n); err != nil {
			return nil, err
		}
		stats.ByPlatform[name] = n
	}
	return stats, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SourceHash fingerprints a source text after trimming and Unicode NFC
// normalization, so the same article pasted twice hashes the same.
func SourceHash(text string) string {
	sum := sha256.Sum256([]byte(norm.NFC.String(strings.TrimSpace(text))))
	return hex.EncodeToString(sum[:])
}
