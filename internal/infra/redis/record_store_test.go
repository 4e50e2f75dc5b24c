package redis

import (
	"context"
	"testing"

	"classroom-quiz-service/internal/infra/kv"
	"classroom-quiz-service/internal/infra/kv/kvtest"
	miniredis "github.com/alicebob/miniredis/v2"
)

func TestRecordStore(t *testing.T) {
	kvtest.Run(t, func(t *testing.T) kv.Store {
		mr, err := miniredis.Run()
		if err != nil {
			t.Fatalf("run miniredis: %v", err)
		}
		t.Cleanup(mr.Close)
		return NewRecordStore(newClient(mr))
	})
}

func TestRecordStoreKeyLayout(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewRecordStore(newClient(mr))
	if _, err := store.Insert(context.Background(), "users", "ada", []byte(`{}`)); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if !mr.Exists("quiz:store:users:ada") {
		t.Fatalf("expected record key to be set")
	}
	members, err := mr.Members("quiz:store:users")
	if err != nil {
		t.Fatalf("members: %v", err)
	}
	if len(members) != 1 || members[0] != "ada" {
		t.Fatalf("unexpected index members %v", members)
	}
}
