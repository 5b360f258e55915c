package cache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/go-redis/redis/v9"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Store holds encoded replays keyed by the hash of the file they were
// decoded from.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte) error
}

var Missing = fmt.Errorf("replay not cached")

// Key identifies a replay by the contents of the raw file.
func Key(raw []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(raw))
}

type FSStore string

func (f FSStore) getPath(key string) string {
	return filepath.Join(string(f), key)
}

func (f FSStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(f.getPath(key))
	if os.IsNotExist(err) {
		return nil, Missing
	}
	return data, err
}

func (f FSStore) Set(ctx context.Context, key string, data []byte) error {
	if err := os.MkdirAll(string(f), 0755); err != nil {
		return err
	}
	return os.WriteFile(f.getPath(key), data, 0644)
}

const (
	REPLAY_KEY = "replay-%s"
)

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore keeps entries for ttl, or forever when ttl is zero.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
	}
}

func (r *RedisStore) Get(ctx context.Context, id string) ([]byte, error) {
	key := fmt.Sprintf(REPLAY_KEY, id)
	data, err := r.client.Get(ctx, key).Bytes()

	if err == redis.Nil {
		return nil, Missing
	}

	if err != nil {
		return nil, err
	}

	return data, nil
}

func (r *RedisStore) Set(ctx context.Context, id string, data []byte) error {
	key := fmt.Sprintf(REPLAY_KEY, id)
	return r.client.Set(ctx, key, data, r.ttl).Err()
}

type MemoryStore struct {
	entries *lru.Cache[string, []byte]
}

func NewMemoryStore(size int) (*MemoryStore, error) {
	entries, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, err
	}

	return &MemoryStore{entries: entries}, nil
}

func (m *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, ok := m.entries.Get(key)
	if !ok {
		return nil, Missing
	}
	return data, nil
}

func (m *MemoryStore) Set(ctx context.Context, key string, data []byte) error {
	m.entries.Add(key, data)
	return nil
}

func (m *MemoryStore) Len() int {
	return m.entries.Len()
}

// Layered checks each store in order. A hit in a later store is copied into
// the stores in front of it.
type Layered []Store

func (l Layered) Get(ctx context.Context, key string) ([]byte, error) {
	for i, store := range l {
		data, err := store.Get(ctx, key)
		if err == Missing {
			continue
		}

		if err != nil {
			return nil, err
		}

		for _, front := range l[:i] {
			if err := front.Set(ctx, key, data); err != nil {
				return nil, err
			}
		}

		return data, nil
	}

	return nil, Missing
}

func (l Layered) Set(ctx context.Context, key string, data []byte) error {
	for _, store := range l {
		if err := store.Set(ctx, key, data); err != nil {
			return err
		}
	}
	return nil
}

var _ Store = (*FSStore)(nil)
var _ Store = (*RedisStore)(nil)
var _ Store = (*MemoryStore)(nil)
var _ Store = (Layered)(nil)
