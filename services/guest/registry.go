package guest

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// Registry remembers issued guest sessions and the phone each was issued for.
type Registry interface {
	Register(ctx context.Context, sessionID, phone string, ttl time.Duration) error
	// Lookup reports the phone of a live session; found is false once it expired or was revoked.
	Lookup(ctx context.Context, sessionID string) (phone string, found bool, err error)
	Revoke(ctx context.Context, sessionID string) error
}

const sessionKeyPrefix = "guestSession:"

// RedisRegistry stores sessions as keys with the session TTL.
type RedisRegistry struct {
	Client *redis.Client
}

func NewRedisRegistry(client *redis.Client) *RedisRegistry {
	return &RedisRegistry{Client: client}
}

func (r *RedisRegistry) Register(ctx context.Context, sessionID, phone string, ttl time.Duration) error {
	return r.Client.Set(ctx, sessionKeyPrefix+sessionID, phone, ttl).Err()
}

func (r *RedisRegistry) Lookup(ctx context.Context, sessionID string) (string, bool, error) {
	phone, err := r.Client.Get(ctx, sessionKeyPrefix+sessionID).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return phone, true, nil
}

func (r *RedisRegistry) Revoke(ctx context.Context, sessionID string) error {
	return r.Client.Del(ctx, sessionKeyPrefix+sessionID).Err()
}

type memoryEntry struct {
	phone     string
	expiresAt time.Time
}

// MemoryRegistry is an in-process Registry.
type MemoryRegistry struct {
	mu       sync.Mutex
	sessions map[string]memoryEntry
	now      func() time.Time
}

func NewMemoryRegistry(now func() time.Time) *MemoryRegistry {
	if now == nil {
		now = time.Now
	}
	return &MemoryRegistry{sessions: make(map[string]memoryEntry), now: now}
}

func (r *MemoryRegistry) Register(_ context.Context, sessionID, phone string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sessionID] = memoryEntry{phone: phone, expiresAt: r.now().Add(ttl)}
	return nil
}

func (r *MemoryRegistry) Lookup(_ context.Context, sessionID string) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.sessions[sessionID]
	if !ok || !r.now().Before(entry.expiresAt) {
		return "", false, nil
	}
	return entry.phone, true, nil
}

func (r *MemoryRegistry) Revoke(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionID)
	return nil
}
