// Package kvtest holds the behaviour every kv.Store backend must share.
package kvtest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"classroom-quiz-service/internal/infra/kv"
)

// Run exercises a fresh store returned by newStore for each subtest.
func Run(t *testing.T, newStore func(t *testing.T) kv.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("get missing", func(t *testing.T) {
		s := newStore(t)
		if _, err := s.Get(ctx, "users", "nobody"); !errors.Is(err, kv.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("list uninitialized", func(t *testing.T) {
		s := newStore(t)
		entries, err := s.List(ctx, "users")
		if !errors.Is(err, kv.ErrNotInitialized) {
			t.Fatalf("expected ErrNotInitialized, got %v", err)
		}
		if len(entries) != 0 {
			t.Fatalf("expected no entries, got %d", len(entries))
		}
	})

	t.Run("insert then get", func(t *testing.T) {
		s := newStore(t)
		entry, err := s.Insert(ctx, "users", "ada", []byte(`{"name":"Ada"}`))
		if err != nil {
			t.Fatalf("insert: %v", err)
		}
		if entry.Version != 1 {
			t.Fatalf("expected version 1, got %d", entry.Version)
		}
		got, err := s.Get(ctx, "users", "ada")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if string(got.Value) != `{"name":"Ada"}` || got.Version != 1 || got.Key != "ada" {
			t.Fatalf("unexpected entry %+v", got)
		}
	})

	t.Run("insert is exclusive", func(t *testing.T) {
		s := newStore(t)
		if _, err := s.Insert(ctx, "users", "ada", []byte(`1`)); err != nil {
			t.Fatalf("insert: %v", err)
		}
		if _, err := s.Insert(ctx, "users", "ada", []byte(`2`)); !errors.Is(err, kv.ErrExists) {
			t.Fatalf("expected ErrExists, got %v", err)
		}
		got, _ := s.Get(ctx, "users", "ada")
		if string(got.Value) != `1` {
			t.Fatalf("expected first value kept, got %s", got.Value)
		}
	})

	t.Run("collections are separate", func(t *testing.T) {
		s := newStore(t)
		if _, err := s.Insert(ctx, "users", "k", []byte(`1`)); err != nil {
			t.Fatalf("insert: %v", err)
		}
		if _, err := s.Insert(ctx, "tokens", "k", []byte(`2`)); err != nil {
			t.Fatalf("insert into second collection: %v", err)
		}
	})

	t.Run("list sorted by key", func(t *testing.T) {
		s := newStore(t)
		for _, key := range []string{"c", "a", "b"} {
			if _, err := s.Insert(ctx, "sessions", key, []byte(fmt.Sprintf("%q", key))); err != nil {
				t.Fatalf("insert %s: %v", key, err)
			}
		}
		entries, err := s.List(ctx, "sessions")
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(entries) != 3 || entries[0].Key != "a" || entries[1].Key != "b" || entries[2].Key != "c" {
			t.Fatalf("unexpected order %+v", entries)
		}
	})

	t.Run("swap", func(t *testing.T) {
		s := newStore(t)
		if _, err := s.Insert(ctx, "submissions", "t1", []byte(`{"score":0}`)); err != nil {
			t.Fatalf("insert: %v", err)
		}
		updated, err := s.Swap(ctx, "submissions", "t1", 1, []byte(`{"score":1}`))
		if err != nil {
			t.Fatalf("swap: %v", err)
		}
		if updated.Version != 2 {
			t.Fatalf("expected version 2, got %d", updated.Version)
		}
		if _, err := s.Swap(ctx, "submissions", "t1", 1, []byte(`{"score":5}`)); !errors.Is(err, kv.ErrConflict) {
			t.Fatalf("expected ErrConflict on stale version, got %v", err)
		}
		got, _ := s.Get(ctx, "submissions", "t1")
		if string(got.Value) != `{"score":1}` {
			t.Fatalf("stale swap overwrote value: %s", got.Value)
		}
	})

	t.Run("swap missing", func(t *testing.T) {
		s := newStore(t)
		if _, err := s.Swap(ctx, "submissions", "ghost", 1, []byte(`{}`)); !errors.Is(err, kv.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("concurrent inserts have one winner", func(t *testing.T) {
		s := newStore(t)
		const workers = 8
		var (
			wg   sync.WaitGroup
			mu   sync.Mutex
			wins int
		)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, err := s.Insert(ctx, "submissions", "same", []byte(fmt.Sprintf("%d", i)))
				if err == nil {
					mu.Lock()
					wins++
					mu.Unlock()
				} else if !errors.Is(err, kv.ErrExists) {
					t.Errorf("unexpected insert error: %v", err)
				}
			}(i)
		}
		wg.Wait()
		if wins != 1 {
			t.Fatalf("expected exactly one insert to win, got %d", wins)
		}
	})
}
