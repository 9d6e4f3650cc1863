package filterbox

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Export outcomes recorded in the log.
const (
	ExportOK     = "ok"
	ExportFailed = "failed"
)

// ExportRecord is one row of the export log. Pixels are never stored.
type ExportRecord struct {
	ID        int64  `json:"id"`
	Workspace string `json:"-"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Filter    string `json:"filter"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	CreatedAt string `json:"created_at"`
}

// Store wraps a SQLite database holding the export log.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets the log be read while an export is being recorded; the busy
	// timeout makes writers wait instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS exports (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    workspace TEXT NOT NULL,
    width INTEGER NOT NULL DEFAULT 0,
    height INTEGER NOT NULL DEFAULT 0,
    filter TEXT NOT NULL,
    status TEXT NOT NULL,
    error TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS exports_created_at ON exports (created_at);
`)
	return err
}

// RecordExport appends r to the log. CreatedAt defaults to now.
func (s *Store) RecordExport(r ExportRecord) error {
	if r.CreatedAt == "" {
		r.CreatedAt = time.Now().UTC().Format(time.RFC3339Nano)
	}
	_, err := s.db.Exec(`INSERT INTO exports (workspace, width, height, filter, status, error, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.Workspace, r.Width, r.Height, r.Filter, r.Status, r.Error, r.CreatedAt)
	return err
}

// ListExports returns up to limit records, newest first.
func (s *Store) ListExports(limit int) ([]ExportRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`SELECT id, workspace, width, height, filter, status, error, created_at FROM exports ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ExportRecord
	for rows.Next() {
		var r ExportRecord
		if err := rows.Scan(&r.ID, &r.Workspace, &r.Width, &r.Height, &r.Filter, &r.Status, &r.Error, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// CountExports returns how many records have the given status, or all
// records when status is empty.
func (s *Store) CountExports(status string) (int, error) {
	var n int
	var err error
	if status == "" {
		err = s.db.QueryRow(`SELECT COUNT(*) FROM exports`).Scan(&n)
	} else {
		err = s.db.QueryRow(`SELECT COUNT(*) FROM exports WHERE status = ?`, status).Scan(&n)
	}
	return n, err
}
