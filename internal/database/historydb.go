package database

import (
	"context"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"golang.org/x/crypto/sha3"
)

// FileName is the name of the database file inside the database directory.
const FileName = "solhydra.db"

// ErrRunNotFound is returned when no run has the requested id.
var ErrRunNotFound = errors.New("run not found")

// HistoryDB provides SQLite-based storage for report runs.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HistoryDB in dbDir.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file, mode=rwc creates it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// Path returns the database file path.
func (hdb *HistoryDB) Path() string {
	return hdb.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HistoryDB) createTables() error {
	schema := `
	-- One row per generated report
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME NOT NULL,
		workspace TEXT NOT NULL,
		report_path TEXT NOT NULL,
		format TEXT NOT NULL,
		units TEXT NOT NULL,
		tools TEXT NOT NULL,
		size INTEGER NOT NULL DEFAULT 0,
		digest TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp);
	CREATE INDEX IF NOT EXISTS idx_runs_workspace ON runs(workspace);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// RunRecord represents one stored report run.
type RunRecord struct {
	// ID is assigned by SaveRun.
	ID int64 `json:"id"`

	// Timestamp is when the report was generated. Zero means now.
	Timestamp time.Time `json:"timestamp"`

	// Workspace is the analysis workspace the report was built from.
	Workspace string `json:"workspace"`

	// ReportPath is where the report was written.
	ReportPath string `json:"reportPath"`

	// Format is "html", "json" or "markdown".
	Format string `json:"format"`

	// Units and Tools are the rows and columns of the report.
	Units []string `json:"units"`
	Tools []string `json:"tools"`

	// Size is the report size in bytes.
	Size int `json:"size"`

	// Digest is the hex SHA3-256 digest of the report bytes.
	Digest string `json:"digest"`
}

// Digest returns the hex SHA3-256 digest of data.
func Digest(data []byte) string {
	sum := sha3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// SaveRun stores rec and returns its id.
func (hdb *HistoryDB) SaveRun(ctx context.Context, rec *RunRecord) (int64, error) {
	unitsJSON, err := json.Marshal(nonNil(rec.Units))
	if err != nil {
		return 0, fmt.Errorf("failed to serialize units: %w", err)
	}
	toolsJSON, err := json.Marshal(nonNil(rec.Tools))
	if err != nil {
		return 0, fmt.Errorf("failed to serialize tools: %w", err)
	}

	ts := rec.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	query := `
	INSERT INTO runs (timestamp, workspace, report_path, format, units, tools, size, digest)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := hdb.db.ExecContext(ctx, query,
		ts.UTC().Format(timestampLayout),
		rec.Workspace,
		rec.ReportPath,
		rec.Format,
		string(unitsJSON),
		string(toolsJSON),
		rec.Size,
		rec.Digest,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run id: %w", err)
	}
	rec.ID = id
	return id, nil
}

const selectRun = `
	SELECT id, timestamp, workspace, report_path, format, units, tools, size, digest
	FROM runs
	`

// ListRuns returns the most recent runs, newest first.
// A limit <= 0 returns every run.
func (hdb *HistoryDB) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	query := selectRun + `ORDER BY timestamp DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := hdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *rec)
	}

	return runs, rows.Err()
}

// GetRun returns the run with the given id.
// It returns ErrRunNotFound if there is none.
func (hdb *HistoryDB) GetRun(ctx context.Context, id int64) (*RunRecord, error) {
	rec, err := scanRun(hdb.db.QueryRowContext(ctx, selectRun+`WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*RunRecord, error) {
	var rec RunRecord
	var timestamp, unitsJSON, toolsJSON string

	err := s.Scan(&rec.ID, &timestamp, &rec.Workspace, &rec.ReportPath, &rec.Format,
		&unitsJSON, &toolsJSON, &rec.Size, &rec.Digest)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	rec.Timestamp = parseTimestamp(timestamp)
	if err := json.Unmarshal([]byte(unitsJSON), &rec.Units); err != nil {
		return nil, fmt.Errorf("failed to parse units of run %d: %w", rec.ID, err)
	}
	if err := json.Unmarshal([]byte(toolsJSON), &rec.Tools); err != nil {
		return nil, fmt.Errorf("failed to parse tools of run %d: %w", rec.ID, err)
	}
	return &rec, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// timestampLayout is the fixed-width form written by SaveRun. Timestamps
// are compared as text, so the fraction keeps its trailing zeros.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	timestampLayout,           // Format written by SaveRun
	time.RFC3339Nano,          // Variable-width fraction
	time.RFC3339,              // Full RFC3339 format
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
