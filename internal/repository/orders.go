// Package repository keeps an in-memory, continuously refreshed view of
// each owner's orders.
package repository

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/diewo77/lens-console/internal/models"
	"github.com/diewo77/lens-console/internal/store"
)

// Snapshot is an immutable copy of an owner's orders at one point in time.
type Snapshot struct {
	Orders   []models.Order
	Version  uint64
	LoadedAt time.Time
}

// Source is the slice of the store the repository reads from.
type Source interface {
	ListOrders(ctx context.Context, owner string) ([]models.Order, error)
	Watch(fn store.WatchFunc) (cancel func())
}

// Listener receives every new snapshot.
type Listener func(Snapshot)

// OrderRepository holds the latest snapshot of one owner's orders.
type OrderRepository struct {
	owner string
	src   Source
	now   func() time.Time

	// reloadMu is held across list and swap so a slow load never
	// replaces a snapshot read after it.
	reloadMu sync.Mutex

	mu        sync.RWMutex
	snap      Snapshot
	listeners map[int]Listener
	nextID    int
}

// Current returns the latest snapshot. Callers must not modify Orders.
func (r *OrderRepository) Current() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snap
}

// OnChange registers l and returns a func that unregisters it.
func (r *OrderRepository) OnChange(l Listener) (cancel func()) {
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.listeners[id] = l
	r.mu.Unlock()
	return func() {
		r.mu.Lock()
		delete(r.listeners, id)
		r.mu.Unlock()
	}
}

// Reload replaces the snapshot with the full collection from the store.
// Concurrent reloads run one after the other.
func (r *OrderRepository) Reload(ctx context.Context) error {
	r.reloadMu.Lock()
	orders, err := r.src.ListOrders(ctx, r.owner)
	if err != nil {
		r.reloadMu.Unlock()
		return err
	}
	r.mu.Lock()
	r.snap = Snapshot{Orders: orders, Version: r.snap.Version + 1, LoadedAt: r.now()}
	snap := r.snap
	ls := make([]Listener, 0, len(r.listeners))
	for _, l := range r.listeners {
		ls = append(ls, l)
	}
	r.mu.Unlock()
	r.reloadMu.Unlock()

	for _, l := range ls {
		l(snap)
	}
	return nil
}

// Registry hands out one OrderRepository per owner, loading it on first use
// and reloading it whenever the store reports an orders change.
type Registry struct {
	src Source
	log *zap.Logger
	now func() time.Time

	mu     sync.Mutex
	repos  map[string]*OrderRepository
	cancel func()
}

// NewRegistry subscribes to src. Close releases the subscription.
func NewRegistry(src Source, log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	reg := &Registry{src: src, log: log, now: time.Now, repos: map[string]*OrderRepository{}}
	reg.cancel = src.Watch(reg.onStoreChange)
	return reg
}

// For returns the repository of owner, loading it if needed.
func (g *Registry) For(ctx context.Context, owner string) (*OrderRepository, error) {
	g.mu.Lock()
	repo, ok := g.repos[owner]
	g.mu.Unlock()
	if ok {
		return repo, nil
	}

	repo = &OrderRepository{owner: owner, src: g.src, now: g.now, listeners: map[int]Listener{}}
	if err := repo.Reload(ctx); err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	// Another request may have loaded it meanwhile; keep the first one.
	if existing, ok := g.repos[owner]; ok {
		return existing, nil
	}
	g.repos[owner] = repo
	return repo, nil
}

// Snapshot is shorthand for For(ctx, owner).Current().
func (g *Registry) Snapshot(ctx context.Context, owner string) (Snapshot, error) {
	repo, err := g.For(ctx, owner)
	if err != nil {
		return Snapshot{}, err
	}
	return repo.Current(), nil
}

func (g *Registry) onStoreChange(owner, collection string) {
	if collection != store.CollectionOrders {
		return
	}
	g.mu.Lock()
	repo, ok := g.repos[owner]
	g.mu.Unlock()
	if !ok {
		return
	}
	if err := repo.Reload(context.Background()); err != nil {
		g.log.Error("order snapshot reload failed", zap.String("owner", owner), zap.Error(err))
	}
}

// Close stops listening to the store.
func (g *Registry) Close() {
	if g.cancel != nil {
		g.cancel()
	}
}
