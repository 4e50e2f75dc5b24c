// Package file stores records as one JSON document per collection under a data directory.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"classroom-quiz-service/internal/infra/kv"
)

// RecordStore implements kv.Store on top of <dir>/<collection>.json files.
// Writers are serialised by a mutex and every write replaces the file atomically.
type RecordStore struct {
	dir string
	mu  sync.Mutex
}

func NewRecordStore(dir string) (*RecordStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &RecordStore{dir: dir}, nil
}

func (s *RecordStore) Get(_ context.Context, collection, key string) (kv.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	records, err := s.read(collection)
	if errors.Is(err, kv.ErrNotInitialized) {
		return kv.Entry{}, kv.ErrNotFound
	}
	if err != nil {
		return kv.Entry{}, err
	}
	raw, ok := records[key]
	if !ok {
		return kv.Entry{}, kv.ErrNotFound
	}
	return kv.Decode(key, raw)
}

func (s *RecordStore) List(_ context.Context, collection string) ([]kv.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	records, err := s.read(collection)
	if err != nil {
		return nil, err
	}
	entries := make([]kv.Entry, 0, len(records))
	for key, raw := range records {
		entry, err := kv.Decode(key, raw)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return entries, nil
}

func (s *RecordStore) Insert(_ context.Context, collection, key string, value []byte) (kv.Entry, error) {
	raw, err := kv.Encode(1, value)
	if err != nil {
		return kv.Entry{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	records, err := s.read(collection)
	if errors.Is(err, kv.ErrNotInitialized) {
		records = make(map[string]json.RawMessage)
	} else if err != nil {
		return kv.Entry{}, err
	}
	if _, exists := records[key]; exists {
		return kv.Entry{}, kv.ErrExists
	}
	records[key] = raw
	if err := s.write(collection, records); err != nil {
		return kv.Entry{}, err
	}
	return kv.Entry{Key: key, Value: value, Version: 1}, nil
}

func (s *RecordStore) Swap(_ context.Context, collection, key string, version int64, value []byte) (kv.Entry, error) {
	raw, err := kv.Encode(version+1, value)
	if err != nil {
		return kv.Entry{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	records, err := s.read(collection)
	if errors.Is(err, kv.ErrNotInitialized) {
		return kv.Entry{}, kv.ErrNotFound
	}
	if err != nil {
		return kv.Entry{}, err
	}
	current, ok := records[key]
	if !ok {
		return kv.Entry{}, kv.ErrNotFound
	}
	entry, err := kv.Decode(key, current)
	if err != nil {
		return kv.Entry{}, err
	}
	if entry.Version != version {
		return kv.Entry{}, kv.ErrConflict
	}
	records[key] = raw
	if err := s.write(collection, records); err != nil {
		return kv.Entry{}, err
	}
	return kv.Entry{Key: key, Value: value, Version: version + 1}, nil
}

func (s *RecordStore) Close() error { return nil }

func (s *RecordStore) path(collection string) string {
	return filepath.Join(s.dir, collection+".json")
}

func (s *RecordStore) read(collection string) (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(s.path(collection))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, kv.ErrNotInitialized
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", collection, err)
	}
	records := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse %s: %w", collection, err)
	}
	return records, nil
}

func (s *RecordStore) write(collection string, records map[string]json.RawMessage) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", collection, err)
	}

	tmp, err := os.CreateTemp(s.dir, collection+".*.tmp")
	if err != nil {
		return fmt.Errorf("write %s: %w", collection, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", collection, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync %s: %w", collection, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", collection, err)
	}
	return os.Rename(tmpName, s.path(collection))
}
