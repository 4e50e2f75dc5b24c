// Package sqlite implements the record store on an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"classroom-quiz-service/internal/infra/kv"

	_ "modernc.org/sqlite"
)

// RecordStore keeps every collection in a single records table with a version column.
type RecordStore struct {
	db *sql.DB
}

// NewRecordStore opens (or creates) the database at path. ":memory:" is accepted for tests.
func NewRecordStore(path string) (*RecordStore, error) {
	dsn := path
	if path != ":memory:" {
		dsn = "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// SQLite has a single writer; one connection also keeps :memory: databases shared.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &RecordStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *RecordStore) migrate() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS records (
		collection TEXT NOT NULL,
		record_key TEXT NOT NULL,
		value TEXT NOT NULL,
		version INTEGER NOT NULL,
		PRIMARY KEY (collection, record_key)
	);`)
	return err
}

func (s *RecordStore) Get(ctx context.Context, collection, key string) (kv.Entry, error) {
	entry := kv.Entry{Key: key}
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value, version FROM records WHERE collection = ? AND record_key = ?`,
		collection, key,
	).Scan(&value, &entry.Version)
	if errors.Is(err, sql.ErrNoRows) {
		return kv.Entry{}, kv.ErrNotFound
	}
	if err != nil {
		return kv.Entry{}, fmt.Errorf("sqlite get %s/%s: %w", collection, key, err)
	}
	entry.Value = []byte(value)
	return entry, nil
}

func (s *RecordStore) List(ctx context.Context, collection string) ([]kv.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT record_key, value, version FROM records WHERE collection = ? ORDER BY record_key`,
		collection,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite list %s: %w", collection, err)
	}
	defer rows.Close()

	var entries []kv.Entry
	for rows.Next() {
		var (
			entry kv.Entry
			value string
		)
		if err := rows.Scan(&entry.Key, &value, &entry.Version); err != nil {
			return nil, fmt.Errorf("sqlite list %s: %w", collection, err)
		}
		entry.Value = []byte(value)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite list %s: %w", collection, err)
	}
	if len(entries) == 0 {
		return nil, kv.ErrNotInitialized
	}
	return entries, nil
}

func (s *RecordStore) Insert(ctx context.Context, collection, key string, value []byte) (kv.Entry, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO records (collection, record_key, value, version) VALUES (?, ?, ?, 1)
		 ON CONFLICT (collection, record_key) DO NOTHING`,
		collection, key, string(value),
	)
	if err != nil {
		return kv.Entry{}, fmt.Errorf("sqlite insert %s/%s: %w", collection, key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return kv.Entry{}, err
	}
	if n == 0 {
		return kv.Entry{}, kv.ErrExists
	}
	return kv.Entry{Key: key, Value: value, Version: 1}, nil
}

func (s *RecordStore) Swap(ctx context.Context, collection, key string, version int64, value []byte) (kv.Entry, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE records SET value = ?, version = version + 1
		 WHERE collection = ? AND record_key = ? AND version = ?`,
		string(value), collection, key, version,
	)
	if err != nil {
		return kv.Entry{}, fmt.Errorf("sqlite swap %s/%s: %w", collection, key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return kv.Entry{}, err
	}
	if n == 1 {
		return kv.Entry{Key: key, Value: value, Version: version + 1}, nil
	}
	if _, err := s.Get(ctx, collection, key); err != nil {
		return kv.Entry{}, err
	}
	return kv.Entry{}, kv.ErrConflict
}

func (s *RecordStore) Close() error {
	return s.db.Close()
}
