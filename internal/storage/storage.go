// AngelaMos | 2026
// storage.go

// Package storage is the durable key/value layer behind each profile's
// saved session and favorites. It plays the part a browser's local storage
// plays for a single-page app: small JSON values under fixed keys.
package storage

import (
	"context"
	"errors"

	"github.com/carterperez-dev/silvershift/internal/core"
)

// KV is a string-keyed byte store. Get on a missing key returns an error
// wrapping core.ErrNotFound. Delete on a missing key is not an error.
// Implementations must be safe for concurrent use.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}

func IsNotFound(err error) bool {
	return errors.Is(err, core.ErrNotFound)
}

type scoped struct {
	kv     KV
	prefix string
}

// Scoped namespaces every key of kv under prefix.
func Scoped(kv KV, prefix string) KV {
	if s, ok := kv.(*scoped); ok {
		return &scoped{kv: s.kv, prefix: s.prefix + prefix}
	}
	return &scoped{kv: kv, prefix: prefix}
}

func (s *scoped) Get(ctx context.Context, key string) ([]byte, error) {
	return s.kv.Get(ctx, s.prefix+key)
}

func (s *scoped) Set(ctx context.Context, key string, value []byte) error {
	return s.kv.Set(ctx, s.prefix+key, value)
}

func (s *scoped) Delete(ctx context.Context, key string) error {
	return s.kv.Delete(ctx, s.prefix+key)
}

func (s *scoped) Ping(ctx context.Context) error {
	return s.kv.Ping(ctx)
}
