package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"classroom-quiz-service/internal/infra/kv"
	"classroom-quiz-service/internal/infra/kv/kvtest"
)

func newTestStore(t *testing.T) *RecordStore {
	t.Helper()
	s, err := NewRecordStore(":memory:")
	if err != nil {
		t.Fatalf("newTestStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordStore(t *testing.T) {
	kvtest.Run(t, func(t *testing.T) kv.Store {
		return newTestStore(t)
	})
}

func TestRecordStoreOnDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quiz.db")
	ctx := context.Background()

	s, err := NewRecordStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := s.Insert(ctx, "sessions", "s1", []byte(`{"startTime":1}`)); err != nil {
		t.Fatalf("insert: %v", err)
	}
	s.Close()

	reopened, err := NewRecordStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	entries, err := reopened.List(ctx, "sessions")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 1 || entries[0].Key != "s1" {
		t.Fatalf("unexpected entries %+v", entries)
	}
}
