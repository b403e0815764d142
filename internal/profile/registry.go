// AngelaMos | 2026
// registry.go

// Package profile ties a client profile to its own pair of stores. A
// profile is the server-side stand-in for one browser's local storage:
// its entries live under a private key prefix and its stores are built
// on first use and kept in memory while the profile stays active.
package profile

import (
	"container/list"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/carterperez-dev/silvershift/internal/auth"
	"github.com/carterperez-dev/silvershift/internal/core"
	"github.com/carterperez-dev/silvershift/internal/listing"
	"github.com/carterperez-dev/silvershift/internal/storage"
)

const (
	evictCapacity = "capacity"
	evictIdle     = "idle"
)

type Workspace struct {
	ID      string
	Session *auth.Store
	Catalog *listing.Store
}

// RegistryConfig bounds the in-memory set with MaxOpen and IdleTTL. Zero
// disables the bound. A dropped workspace is rebuilt from the KV on its
// next Open.
type RegistryConfig struct {
	KV        storage.KV
	Directory auth.Directory
	Listings  listing.Source
	Session   auth.Options
	Catalog   listing.Options
	MaxOpen   int
	IdleTTL   time.Duration
	Metrics   *core.Metrics
	Logger    *slog.Logger
}

type entry struct {
	ws       *Workspace
	lastUsed time.Time
}

type Registry struct {
	cfg   RegistryConfig
	group singleflight.Group
	now   func() time.Time

	mu         sync.Mutex
	recent     *list.List
	workspaces map[string]*list.Element
}

func NewRegistry(cfg RegistryConfig) *Registry {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Registry{
		cfg:        cfg,
		now:        time.Now,
		recent:     list.New(),
		workspaces: make(map[string]*list.Element),
	}
}

func KeyPrefix(id string) string {
	return "profile:" + id + ":"
}

// Open returns the workspace of id, building it on first use. Concurrent
// first calls share a single build, which outlives any one caller's
// cancellation.
func (r *Registry) Open(ctx context.Context, id string) (*Workspace, error) {
	if id == "" {
		return nil, fmt.Errorf("open profile: %w", core.ErrInvalidInput)
	}

	if ws, ok := r.lookup(id); ok {
		return ws, nil
	}

	buildCtx := context.WithoutCancel(ctx)
	v, err, _ := r.group.Do(id, func() (any, error) {
		if ws, ok := r.lookup(id); ok {
			return ws, nil
		}

		ws, err := r.build(buildCtx, id)
		if err != nil {
			return nil, err
		}

		r.insert(id, ws)
		r.cfg.Metrics.ObserveProfileOpened()
		r.cfg.Logger.Debug("profile opened", "profile_id", id)
		return ws, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*Workspace), nil //nolint:forcetypeassert // group only returns *Workspace
}

func (r *Registry) lookup(id string) (*Workspace, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	el, ok := r.workspaces[id]
	if !ok {
		return nil, false
	}
	e := el.Value.(*entry) //nolint:forcetypeassert // list only holds *entry
	e.lastUsed = r.now()
	r.recent.MoveToFront(el)
	return e.ws, true
}

func (r *Registry) insert(id string, ws *Workspace) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.workspaces[id] = r.recent.PushFront(&entry{ws: ws, lastUsed: r.now()})

	for r.cfg.MaxOpen > 0 && r.recent.Len() > r.cfg.MaxOpen {
		r.evict(r.recent.Back(), evictCapacity)
	}
}

// evict drops el. Callers hold r.mu.
func (r *Registry) evict(el *list.Element, reason string) {
	e := r.recent.Remove(el).(*entry) //nolint:forcetypeassert // list only holds *entry
	delete(r.workspaces, e.ws.ID)

	r.cfg.Metrics.ObserveProfileEvicted(reason)
	r.cfg.Logger.Debug("profile evicted", "profile_id", e.ws.ID, "reason", reason)
}

// Sweep drops every workspace unused for IdleTTL and reports how many
// went.
func (r *Registry) Sweep() int {
	if r.cfg.IdleTTL <= 0 {
		return 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.cfg.IdleTTL)
	n := 0
	for el := r.recent.Back(); el != nil; el = r.recent.Back() {
		if el.Value.(*entry).lastUsed.After(cutoff) { //nolint:forcetypeassert // list only holds *entry
			break
		}
		r.evict(el, evictIdle)
		n++
	}
	return n
}

// Run sweeps idle workspaces until ctx is done. It returns at once when
// IdleTTL is zero.
func (r *Registry) Run(ctx context.Context) {
	if r.cfg.IdleTTL <= 0 {
		return
	}

	interval := max(r.cfg.IdleTTL/2, time.Second)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.cfg.Logger.Debug("idle profiles swept", "count", n, "open", r.Len())
			}
		}
	}
}

func (r *Registry) build(ctx context.Context, id string) (*Workspace, error) {
	kv := storage.Scoped(r.cfg.KV, KeyPrefix(id))
	logger := r.cfg.Logger.With("profile_id", id)

	sessionOpts := r.cfg.Session
	sessionOpts.Logger = logger
	sessionOpts.Metrics = r.cfg.Metrics

	session, err := auth.NewStore(ctx, kv, r.cfg.Directory, sessionOpts)
	if err != nil {
		return nil, fmt.Errorf("open profile %s: %w", id, err)
	}

	catalogOpts := r.cfg.Catalog
	catalogOpts.Logger = logger
	catalogOpts.Metrics = r.cfg.Metrics

	catalog, err := listing.NewStore(ctx, kv, r.cfg.Listings, catalogOpts)
	if err != nil {
		return nil, fmt.Errorf("open profile %s: %w", id, err)
	}

	return &Workspace{ID: id, Session: session, Catalog: catalog}, nil
}

// Len reports how many profiles are open.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.recent.Len()
}
