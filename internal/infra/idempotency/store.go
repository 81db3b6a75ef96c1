package idempotency

import (
	"context"
	"net/http"
	"strings"
	"time"

	"order-desk/internal/infra"

	"github.com/redis/go-redis/v9"
)

const Header = "Idempotency-Key"

// Key returns the trimmed Idempotency-Key header, or "" when absent.
func Key(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(Header))
}

type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

var _ infra.IdempotencyStore = (*Store)(nil)

func storeKey(scope, key string) string {
	return "idem:" + scope + ":" + key
}

// Reserve claims key within scope. It returns false when the key was
// already claimed and has not expired.
func (s *Store) Reserve(ctx context.Context, scope, key string) (bool, error) {
	return s.rdb.SetNX(ctx, storeKey(scope, key), time.Now().UTC().Format(time.RFC3339), s.ttl).Result()
}

// Release frees a key so the request can be retried after a failure.
func (s *Store) Release(ctx context.Context, scope, key string) error {
	return s.rdb.Del(ctx, storeKey(scope, key)).Err()
}
