// Package records maps the domain onto the kv record store.
package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"classroom-quiz-service/internal/infra/kv"
)

const (
	collectionUsers          = "users"
	collectionTokens         = "tokens"
	collectionSessions       = "sessions"
	collectionSessionPointer = "session_pointer"
	collectionSubmissions    = "submissions"

	// maxSwapAttempts bounds compare-and-swap retries before giving up with a conflict.
	maxSwapAttempts = 5
)

// listCollection treats a never-written collection as empty and propagates real read failures.
func listCollection(ctx context.Context, store kv.Store, collection string) ([]kv.Entry, error) {
	entries, err := store.List(ctx, collection)
	if errors.Is(err, kv.ErrNotInitialized) {
		slog.Debug("collection not initialized", "collection", collection)
		return nil, nil
	}
	if err != nil {
		slog.Warn("collection read failed", "collection", collection, "error", err)
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	return entries, nil
}

func decode[T any](entry kv.Entry) (T, error) {
	var v T
	if err := json.Unmarshal(entry.Value, &v); err != nil {
		return v, fmt.Errorf("decode %s: %w", entry.Key, err)
	}
	return v, nil
}
