package cart

import (
	"context"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru"
)

// DefaultMaxStores bounds the sessions a Registry keeps open.
const DefaultMaxStores = 10000

// RegistryOption tunes a Registry.
type RegistryOption func(*Registry)

// WithMaxStores bounds the open stores. The least recently used store is
// dropped first; its snapshot stays in the persister and is restored on the
// next Get.
func WithMaxStores(n int) RegistryOption {
	return func(r *Registry) {
		if n > 0 {
			r.maxStores = n
		}
	}
}

// WithRefresh restores a cached store from its snapshot on every Get. Use it
// when several processes share the persister so each request starts from the
// latest saved cart.
func WithRefresh() RegistryOption {
	return func(r *Registry) {
		r.refresh = true
	}
}

// Registry hands out one Store per cart session. Stores are opened lazily
// under the namespace "<base>:<session>" and kept in an LRU cache.
type Registry struct {
	mu        sync.Mutex
	opts      Options
	maxStores int
	refresh   bool
	stores    *lru.Cache
}

func NewRegistry(opts Options, options ...RegistryOption) *Registry {
	if opts.Namespace == "" {
		opts.Namespace = DefaultNamespace
	}
	r := &Registry{opts: opts, maxStores: DefaultMaxStores}
	for _, opt := range options {
		opt(r)
	}
	// lru.New only fails on a non-positive size, which WithMaxStores rules out.
	r.stores, _ = lru.New(r.maxStores)
	return r
}

// Get returns the store for the session, restoring it on first use and, with
// WithRefresh, on every later use.
func (r *Registry) Get(ctx context.Context, session string) *Store {
	session = strings.TrimSpace(session)

	r.mu.Lock()
	defer r.mu.Unlock()

	if cached, ok := r.stores.Get(session); ok {
		store := cached.(*Store)
		if r.refresh {
			store.Restore(ctx)
		}
		return store
	}
	opts := r.opts
	opts.Namespace = r.NamespaceFor(session)
	store := Open(ctx, opts)
	if r.stores.Add(session, store) {
		r.opts.Metrics.IncStoreEvicted()
	}
	return store
}

// Detached returns an empty memory-only store for a session that has no cart
// yet. It is not cached and never touches the persister.
func (r *Registry) Detached(session string) *Store {
	return NewStore(Options{
		Namespace:       r.NamespaceFor(strings.TrimSpace(session)),
		Logger:          r.opts.Logger,
		DefaultCurrency: r.opts.DefaultCurrency,
	})
}

// NamespaceFor returns the storage namespace of a session.
func (r *Registry) NamespaceFor(session string) string {
	if session == "" {
		return r.opts.Namespace
	}
	return r.opts.Namespace + ":" + session
}

// Len returns the number of open stores.
func (r *Registry) Len() int {
	return r.stores.Len()
}
