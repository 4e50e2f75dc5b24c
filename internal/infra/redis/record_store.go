package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"classroom-quiz-service/internal/infra/kv"
	"github.com/redis/go-redis/v9"
)

// RecordStore is a Redis implementation of kv.Store.
// Each record lives in its own string key so WATCH only guards that record:
//
//	quiz:store:{collection}:{key}  -> {"version":n,"value":...}
//	quiz:store:{collection}        -> SET of keys, used for listing
type RecordStore struct {
	client *redis.Client
	prefix string
}

func NewRecordStore(client *redis.Client) *RecordStore {
	return &RecordStore{client: client, prefix: "quiz:store:"}
}

func (s *RecordStore) Get(ctx context.Context, collection, key string) (kv.Entry, error) {
	raw, err := s.client.Get(ctx, s.recordKey(collection, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return kv.Entry{}, kv.ErrNotFound
	}
	if err != nil {
		return kv.Entry{}, fmt.Errorf("redis get %s/%s: %w", collection, key, err)
	}
	return kv.Decode(key, raw)
}

func (s *RecordStore) List(ctx context.Context, collection string) ([]kv.Entry, error) {
	keys, err := s.client.SMembers(ctx, s.indexKey(collection)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list %s: %w", collection, err)
	}
	if len(keys) == 0 {
		return nil, kv.ErrNotInitialized
	}
	sort.Strings(keys)

	recordKeys := make([]string, len(keys))
	for i, key := range keys {
		recordKeys[i] = s.recordKey(collection, key)
	}
	values, err := s.client.MGet(ctx, recordKeys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list %s: %w", collection, err)
	}

	entries := make([]kv.Entry, 0, len(keys))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		entry, err := kv.Decode(keys[i], []byte(raw))
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *RecordStore) Insert(ctx context.Context, collection, key string, value []byte) (kv.Entry, error) {
	raw, err := kv.Encode(1, value)
	if err != nil {
		return kv.Entry{}, err
	}

	var setNX *redis.BoolCmd
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		setNX = pipe.SetNX(ctx, s.recordKey(collection, key), raw, 0)
		pipe.SAdd(ctx, s.indexKey(collection), key)
		return nil
	})
	if err != nil {
		return kv.Entry{}, fmt.Errorf("redis insert %s/%s: %w", collection, key, err)
	}
	if !setNX.Val() {
		return kv.Entry{}, kv.ErrExists
	}
	return kv.Entry{Key: key, Value: value, Version: 1}, nil
}

func (s *RecordStore) Swap(ctx context.Context, collection, key string, version int64, value []byte) (kv.Entry, error) {
	recordKey := s.recordKey(collection, key)
	raw, err := kv.Encode(version+1, value)
	if err != nil {
		return kv.Entry{}, err
	}

	err = s.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, recordKey).Bytes()
		if errors.Is(err, redis.Nil) {
			return kv.ErrNotFound
		}
		if err != nil {
			return err
		}
		entry, err := kv.Decode(key, current)
		if err != nil {
			return err
		}
		if entry.Version != version {
			return kv.ErrConflict
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, recordKey, raw, 0)
			return nil
		})
		return err
	}, recordKey)

	switch {
	case err == nil:
		return kv.Entry{Key: key, Value: value, Version: version + 1}, nil
	case errors.Is(err, redis.TxFailedErr):
		return kv.Entry{}, kv.ErrConflict
	case errors.Is(err, kv.ErrNotFound), errors.Is(err, kv.ErrConflict):
		return kv.Entry{}, err
	default:
		return kv.Entry{}, fmt.Errorf("redis swap %s/%s: %w", collection, key, err)
	}
}

// Close is a no-op; the client is owned by the caller.
func (s *RecordStore) Close() error { return nil }

func (s *RecordStore) recordKey(collection, key string) string {
	return s.prefix + collection + ":" + key
}

func (s *RecordStore) indexKey(collection string) string {
	return s.prefix + collection
}
