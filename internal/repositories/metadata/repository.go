// Package metadata is a small persistent key/value store for client state
// that must survive restarts, such as the last signed-in user and the
// discover import cooldown.
package metadata

import "context"

type Repository interface {
	// Get returns (nil, nil) when the key does not exist.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
