package repository

import "context"

// CacheRepository stores serialized values by key. Misses and backend
// failures both report ok=false; callers recompute instead of failing.
type CacheRepository interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key string, value string) error
}
