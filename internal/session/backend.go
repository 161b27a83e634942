// Package session guarda carrinho e lista de desejos por sessão anônima.
// Em produção fica no Redis com TTL; sem REDIS_URL usa memória.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

var errMiss = errors.New("session: key not found")

type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type RedisBackend struct {
	Client *redis.Client
}

func NewRedis(url string) (*RedisBackend, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		// Aceita também só "host:porta", como no .env antigo
		opts = &redis.Options{Addr: url}
	}
	return &RedisBackend{Client: redis.NewClient(opts)}, nil
}

func (b *RedisBackend) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := b.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, errMiss
	}
	return val, err
}

func (b *RedisBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return b.Client.Set(ctx, key, value, ttl).Err()
}

func (b *RedisBackend) Delete(ctx context.Context, key string) error {
	return b.Client.Del(ctx, key).Err()
}

func (b *RedisBackend) Ping(ctx context.Context) error {
	return b.Client.Ping(ctx).Err()
}

func (b *RedisBackend) Close() error {
	return b.Client.Close()
}

type memoryEntry struct {
	value   []byte
	expires time.Time
}

type MemoryBackend struct {
	mu   sync.Mutex
	data map[string]memoryEntry
	now  func() time.Time
}

func NewMemory() *MemoryBackend {
	return &MemoryBackend{data: map[string]memoryEntry{}, now: time.Now}
}

func (b *MemoryBackend) Get(_ context.Context, key string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.data[key]
	if !ok {
		return nil, errMiss
	}
	if !e.expires.IsZero() && b.now().After(e.expires) {
		delete(b.data, key)
		return nil, errMiss
	}
	return append([]byte(nil), e.value...), nil
}

func (b *MemoryBackend) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	e := memoryEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expires = b.now().Add(ttl)
	}
	b.data[key] = e
	return nil
}

func (b *MemoryBackend) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.data, key)
	return nil
}
