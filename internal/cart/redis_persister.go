package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/storefront/pkg/redis"
)

// RedisPersister stores snapshots as redis strings with a sliding TTL.
type RedisPersister struct {
	store redis.KeyValueStore
	ttl   time.Duration
}

func NewRedisPersister(store redis.KeyValueStore, ttl time.Duration) (*RedisPersister, error) {
	if store == nil {
		return nil, fmt.Errorf("redis store required")
	}
	return &RedisPersister{store: store, ttl: ttl}, nil
}

func (p *RedisPersister) Load(ctx context.Context, namespace string) ([]byte, error) {
	raw, err := p.store.Get(ctx, p.store.CartSnapshotKey(namespace))
	if err != nil {
		if errors.Is(err, redis.ErrNil) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("load cart snapshot: %w", err)
	}
	return []byte(raw), nil
}

func (p *RedisPersister) Save(ctx context.Context, namespace string, payload []byte) error {
	if err := p.store.Set(ctx, p.store.CartSnapshotKey(namespace), string(payload), p.ttl); err != nil {
		return fmt.Errorf("save cart snapshot: %w", err)
	}
	return nil
}

func (p *RedisPersister) Name() string {
	return "redis"
}
