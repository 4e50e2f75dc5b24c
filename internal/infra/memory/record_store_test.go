package memory

import (
	"context"
	"testing"

	"classroom-quiz-service/internal/infra/kv"
	"classroom-quiz-service/internal/infra/kv/kvtest"
)

func TestRecordStore(t *testing.T) {
	kvtest.Run(t, func(t *testing.T) kv.Store {
		return NewRecordStore()
	})
}

func TestRecordStoreReturnsCopies(t *testing.T) {
	store := NewRecordStore()
	ctx := context.Background()
	if _, err := store.Insert(ctx, "users", "ada", []byte(`"x"`)); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, _ := store.Get(ctx, "users", "ada")
	got.Value[1] = 'y'

	again, _ := store.Get(ctx, "users", "ada")
	if string(again.Value) != `"x"` {
		t.Fatalf("caller mutation leaked into store: %s", again.Value)
	}
}
