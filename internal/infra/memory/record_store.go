package memory

import (
	"context"
	"sort"
	"sync"

	"classroom-quiz-service/internal/infra/kv"
)

// RecordStore is an in-memory implementation of kv.Store.
type RecordStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]kv.Entry
}

func NewRecordStore() *RecordStore {
	return &RecordStore{
		collections: make(map[string]map[string]kv.Entry),
	}
}

func (s *RecordStore) Get(_ context.Context, collection, key string) (kv.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.collections[collection][key]
	if !ok {
		return kv.Entry{}, kv.ErrNotFound
	}
	return copyEntry(entry), nil
}

func (s *RecordStore) List(_ context.Context, collection string) ([]kv.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records, ok := s.collections[collection]
	if !ok {
		return nil, kv.ErrNotInitialized
	}
	entries := make([]kv.Entry, 0, len(records))
	for _, entry := range records {
		entries = append(entries, copyEntry(entry))
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return entries, nil
}

func (s *RecordStore) Insert(_ context.Context, collection, key string, value []byte) (kv.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	records, ok := s.collections[collection]
	if !ok {
		records = make(map[string]kv.Entry)
		s.collections[collection] = records
	}
	if _, exists := records[key]; exists {
		return kv.Entry{}, kv.ErrExists
	}
	entry := kv.Entry{Key: key, Value: append([]byte(nil), value...), Version: 1}
	records[key] = entry
	return copyEntry(entry), nil
}

func (s *RecordStore) Swap(_ context.Context, collection, key string, version int64, value []byte) (kv.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.collections[collection][key]
	if !ok {
		return kv.Entry{}, kv.ErrNotFound
	}
	if current.Version != version {
		return kv.Entry{}, kv.ErrConflict
	}
	entry := kv.Entry{Key: key, Value: append([]byte(nil), value...), Version: version + 1}
	s.collections[collection][key] = entry
	return copyEntry(entry), nil
}

func (s *RecordStore) Close() error { return nil }

func copyEntry(e kv.Entry) kv.Entry {
	e.Value = append([]byte(nil), e.Value...)
	return e
}
