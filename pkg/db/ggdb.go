package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

var ErrRunNotFound = errors.New("run not found")

const schema = `
	CREATE TABLE IF NOT EXISTS runs (
		run_id     TEXT PRIMARY KEY,
		kind       TEXT NOT NULL,
		source     TEXT NOT NULL,
		items      INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS blocks (
		run_id      TEXT NOT NULL,
		block_index INTEGER NOT NULL,
		header      TEXT NOT NULL DEFAULT '',
		locale      TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (run_id, block_index)
	);
	CREATE TABLE IF NOT EXISTS block_rows (
		run_id      TEXT NOT NULL,
		block_index INTEGER NOT NULL,
		row_index   INTEGER NOT NULL,
		fields      TEXT NOT NULL,
		PRIMARY KEY (run_id, block_index, row_index)
	);
	CREATE TABLE IF NOT EXISTS gene_locations (
		run_id   TEXT NOT NULL,
		gene_id  TEXT NOT NULL,
		location REAL NOT NULL,
		PRIMARY KEY (run_id, gene_id)
	);
`

// Fixed width so that created_at sorts chronologically as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Run kinds stored in runs.kind. Block runs use the dialect name.
const KindGeneLocation = "gene_location"

type Run struct {
	RunID     string    `json:"run_id"`
	Kind      string    `json:"kind"`
	Source    string    `json:"source"`
	Items     int       `json:"items"`
	CreatedAt time.Time `json:"created_at"`
}

// SyntenyDB stores parsed block files and gene projections in sqlite.
type SyntenyDB struct {
	db *sql.DB
}

// sqlitePragmas make a writer wait for a lock held by another process
// instead of failing with SQLITE_BUSY.
const sqlitePragmas = "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

// Open opens (or creates) the sqlite database at path.
func Open(path string) (*SyntenyDB, error) {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	db, err := sql.Open("sqlite", path+sep+sqlitePragmas)
	if err != nil {
		return nil, err
	}
	sdb, err := NewSyntenyDB(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return sdb, nil
}

// NewSyntenyDB wraps an open connection and creates the schema if needed.
// The pool is limited to one connection: sqlite allows a single writer, and
// requests served in parallel queue on the pool rather than on the file lock.
func NewSyntenyDB(db *sql.DB) (*SyntenyDB, error) {
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SyntenyDB{db: db}, nil
}

func (s *SyntenyDB) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SyntenyDB) Close() error {
	return s.db.Close()
}

// withRun runs fill inside a transaction after inserting a fresh run row.
func (s *SyntenyDB) withRun(ctx context.Context, kind, source string, items int, fill func(tx *sql.Tx, runID string) error) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("fail to begin tx %w", err)
	}
	defer tx.Rollback()

	runID := uuid.New().String()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, kind, source, items, created_at) VALUES (?, ?, ?, ?, ?)`,
		runID, kind, source, items, time.Now().UTC().Format(timeLayout)); err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	if err := fill(tx, runID); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit run %s: %w", runID, err)
	}
	return runID, nil
}

func scanRun(scan func(dest ...any) error) (*Run, error) {
	var r Run
	var created string
	if err := scan(&r.RunID, &r.Kind, &r.Source, &r.Items, &created); err != nil {
		return nil, err
	}
	t, err := time.Parse(timeLayout, created)
	if err != nil {
		return nil, fmt.Errorf("run %s: bad created_at %q: %w", r.RunID, created, err)
	}
	r.CreatedAt = t
	return &r, nil
}

func (s *SyntenyDB) GetRun(ctx context.Context, runID string) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT run_id, kind, source, items, created_at FROM runs WHERE run_id = ?`, runID)

	r, err := scanRun(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// ListRuns returns every run, newest first.
func (s *SyntenyDB) ListRuns(ctx context.Context) ([]*Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, kind, source, items, created_at FROM runs ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]*Run, 0)
	for rows.Next() {
		r, err := scanRun(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}

// requireRun checks that runID exists and has the expected kind.
func (s *SyntenyDB) requireRun(ctx context.Context, runID, kind string) error {
	r, err := s.GetRun(ctx, runID)
	if err != nil {
		return err
	}
	if r.Kind != kind {
		return fmt.Errorf("%w: %s is a %s run, not %s", ErrRunNotFound, runID, r.Kind, kind)
	}
	return nil
}
