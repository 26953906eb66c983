// Package history keeps a local SQLite journal of confirmed reports and
// download events. It backs the offline listing shown when the backend is
// unreachable. Optimistic records are never written here - only state the
// backend has confirmed.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"plantops/internal/logging"
	"plantops/internal/report"
)

// Store manages the plantops history database.
type Store struct {
	db     *sql.DB
	dbPath string
	mu     sync.Mutex
}

// NewStore creates or opens the history store under the config directory.
func NewStore(configDir string) (*Store, error) {
	dbPath := filepath.Join(configDir, "history.db")

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db, dbPath: dbPath}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

// initSchema creates the database schema.
func (s *Store) initSchema() error {
	schema := `
	-- Confirmed report snapshots, keyed by the backend identity
	CREATE TABLE IF NOT EXISTS reports (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		type TEXT NOT NULL,
		format TEXT NOT NULL,
		generated_date DATETIME NOT NULL,
		size_label TEXT,
		file_path TEXT,
		recorded_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_reports_recorded ON reports(recorded_at);

	-- Download events
	CREATE TABLE IF NOT EXISTS downloads (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		report_id INTEGER NOT NULL,
		path TEXT NOT NULL,
		downloaded_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_downloads_report ON downloads(report_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// RecordConfirmed upserts a confirmed report snapshot. Records without a
// durable identity are ignored.
func (s *Store) RecordConfirmed(rec report.Record) error {
	id, ok := rec.ID.Durable()
	if !ok {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO reports (id, name, type, format, generated_date, size_label, file_path, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			size_label = excluded.size_label,
			file_path = excluded.file_path,
			recorded_at = excluded.recorded_at`,
		id, rec.Name, rec.Type, rec.Format, rec.GeneratedDate,
		rec.SizeLabel, rec.FilePath, time.Now())
	if err != nil {
		logging.HistoryError("record report %d: %v", id, err)
		return fmt.Errorf("record report: %w", err)
	}
	return nil
}

// Forget removes a report snapshot after the user deletes it.
func (s *Store) Forget(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`DELETE FROM reports WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("forget report: %w", err)
	}
	return nil
}

// RecordDownload journals one completed download.
func (s *Store) RecordDownload(reportID int64, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`
		INSERT INTO downloads (report_id, path, downloaded_at) VALUES (?, ?, ?)`,
		reportID, path, time.Now())
	if err != nil {
		return fmt.Errorf("record download: %w", err)
	}
	logging.History("download journaled: report %d -> %s", reportID, path)
	return nil
}

// ListConfirmed returns the journaled report snapshots, newest first. Used
// as the offline listing fallback.
func (s *Store) ListConfirmed() ([]report.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`
		SELECT id, name, type, format, generated_date, size_label, file_path, recorded_at
		FROM reports ORDER BY recorded_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var out []report.Record
	for rows.Next() {
		var (
			id                        int64
			name, typ, format         string
			sizeLabel, filePath       sql.NullString
			generatedDate, recordedAt time.Time
		)
		if err := rows.Scan(&id, &name, &typ, &format, &generatedDate, &sizeLabel, &filePath, &recordedAt); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		out = append(out, report.Record{
			ID:            report.DurableID(id),
			Name:          name,
			Type:          typ,
			Format:        format,
			GeneratedDate: generatedDate,
			SizeLabel:     sizeLabel.String,
			FilePath:      filePath.String,
			Status:        report.StatusReady,
			Origin:        report.OriginConfirmed,
			SortKey:       recordedAt,
		})
	}
	return out, rows.Err()
}
