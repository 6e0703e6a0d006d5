package db

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// Buckets used by the SQLite backend, one row per record type
const (
	VolunteersBucket = "volunteers"
	EventsBucket     = "events"
)

// SQLiteDB is a single-file SQLite database holding one JSON snapshot per bucket
type SQLiteDB struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens (creating if needed) the SQLite database at path
func OpenSQLite(path string) (*SQLiteDB, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS snapshots (
		bucket TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create snapshots table: %w", err)
	}

	return &SQLiteDB{db: db, path: path}, nil
}

// Path returns the database file path
func (s *SQLiteDB) Path() string {
	return s.path
}

// Close closes the underlying database
func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

// sqliteStore keeps a collection as a JSON array in one bucket row
type sqliteStore[T Record, R any] struct {
	db      *SQLiteDB
	bucket  string
	toRow   func(T) R
	fromRow func(R) (T, error)
	logger  *zap.Logger
}

func newSQLiteStore[T Record, R any](db *SQLiteDB, bucket string, toRow func(T) R, fromRow func(R) (T, error), logger *zap.Logger) *sqliteStore[T, R] {
	return &sqliteStore[T, R]{
		db:      db,
		bucket:  bucket,
		toRow:   toRow,
		fromRow: fromRow,
		logger:  logger.With(zap.String("bucket", bucket)),
	}
}

func (s *sqliteStore[T, R]) Location() string {
	return fmt.Sprintf("sqlite:%s#%s", s.db.path, s.bucket)
}

// Load reads the bucket's snapshot; a missing bucket is an empty collection
func (s *sqliteStore[T, R]) Load() ([]T, error) {
	var payload []byte
	err := s.db.db.QueryRow(`SELECT payload FROM snapshots WHERE bucket = ?`, s.bucket).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select bucket %s: %w", s.bucket, err)
	}

	items, err := decodeJSONRecords(payload, s.fromRow, s.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to decode bucket %s: %w", s.bucket, err)
	}
	return items, nil
}

// Save replaces the bucket's snapshot
func (s *sqliteStore[T, R]) Save(items []T) error {
	data, err := encodeJSONRecords(items, s.toRow, "")
	if err != nil {
		return err
	}

	if _, err := s.db.db.Exec(
		`INSERT INTO snapshots(bucket, payload) VALUES(?, ?) ON CONFLICT(bucket) DO UPDATE SET payload = excluded.payload`,
		s.bucket, data,
	); err != nil {
		return fmt.Errorf("failed to upsert bucket %s: %w", s.bucket, err)
	}

	s.logger.Debug("Saved SQLite snapshot", zap.Int("count", len(items)))
	return nil
}
