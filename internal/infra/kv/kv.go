// Package kv defines the record store boundary shared by every backend.
// Records are opaque JSON documents grouped into named collections. Each
// record carries a version that increases on every write so callers can
// apply read-modify-write cycles with compare-and-swap.
package kv

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a key is absent.
	ErrNotFound = errors.New("kv: record not found")
	// ErrExists is returned by Insert when the key is already taken.
	ErrExists = errors.New("kv: record already exists")
	// ErrConflict is returned by Swap when the stored version moved on.
	ErrConflict = errors.New("kv: version conflict")
	// ErrNotInitialized is returned by List for a collection that has never been written.
	ErrNotInitialized = errors.New("kv: collection not initialized")
)

// Entry is a stored record.
type Entry struct {
	Key     string
	Value   []byte
	Version int64
}

// Store is implemented by the memory, file, redis and sqlite backends.
type Store interface {
	Get(ctx context.Context, collection, key string) (Entry, error)
	// List returns every record of a collection ordered by key.
	List(ctx context.Context, collection string) ([]Entry, error)
	// Insert writes a record only if the key is absent. The new record has version 1.
	Insert(ctx context.Context, collection, key string, value []byte) (Entry, error)
	// Swap replaces a record only if its stored version equals version.
	Swap(ctx context.Context, collection, key string, version int64, value []byte) (Entry, error)
	Close() error
}

// envelope is the on-disk form used by backends that have no native version column.
type envelope struct {
	Version int64           `json:"version"`
	Value   json.RawMessage `json:"value"`
}

// Encode wraps a value with its version.
func Encode(version int64, value []byte) ([]byte, error) {
	if !json.Valid(value) {
		return nil, fmt.Errorf("kv: value is not valid json")
	}
	return json.Marshal(envelope{Version: version, Value: value})
}

// Decode unwraps a value written by Encode. The value comes back compacted.
func Decode(key string, raw []byte) (Entry, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Entry{}, fmt.Errorf("kv: decode %q: %w", key, err)
	}
	var value bytes.Buffer
	if err := json.Compact(&value, env.Value); err != nil {
		return Entry{}, fmt.Errorf("kv: decode %q: %w", key, err)
	}
	return Entry{Key: key, Value: value.Bytes(), Version: env.Version}, nil
}
