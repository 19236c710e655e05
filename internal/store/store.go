// Package store persists every collection of an owner through gorm and
// notifies watchers after each committed write.
package store

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/diewo77/lens-console/internal/domain"
)

// Collection names as they appear in backups.
const (
	CollectionOrders         = "orders"
	CollectionSellers        = "sellers"
	CollectionContacts       = "notification-contacts"
	CollectionMonthlyMetrics = "monthly-metrics"
)

// KnownCollections lists the collections backed by typed tables.
var KnownCollections = []string{CollectionOrders, CollectionSellers, CollectionContacts, CollectionMonthlyMetrics}

// WatchFunc is called after a write to collection of owner has committed.
type WatchFunc func(owner, collection string)

// Store is the gorm-backed persistence adapter.
type Store struct {
	db  *gorm.DB
	log *zap.Logger

	mu       sync.RWMutex
	watchers map[int]WatchFunc
	nextID   int
}

// New wraps an open connection. The schema must already be migrated.
func New(db *gorm.DB, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{db: db, log: log, watchers: map[int]WatchFunc{}}
}

// Watch registers fn for change notifications and returns its cancel func.
func (s *Store) Watch(fn WatchFunc) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.watchers[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.watchers, id)
			s.mu.Unlock()
		})
	}
}

func (s *Store) notify(owner string, collections ...string) {
	s.mu.RLock()
	fns := make([]WatchFunc, 0, len(s.watchers))
	for _, fn := range s.watchers {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	for _, c := range collections {
		for _, fn := range fns {
			fn(owner, c)
		}
	}
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Exec("SELECT 1").Error; err != nil {
		return &domain.StoreError{Op: "ping", Err: err}
	}
	return nil
}

func (s *Store) owned(ctx context.Context, owner string) *gorm.DB {
	return s.db.WithContext(ctx).Where("owner_id = ?", owner)
}

// fail converts a gorm error into the domain taxonomy and logs store faults.
func (s *Store) fail(op string, err error, dup *domain.DuplicateError, miss *domain.NotFoundError) error {
	switch {
	case dup != nil && errors.Is(err, gorm.ErrDuplicatedKey):
		return dup
	case miss != nil && errors.Is(err, gorm.ErrRecordNotFound):
		return miss
	}
	if errors.Is(err, domain.ErrValidation) || errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrDuplicate) || errors.Is(err, domain.ErrStore) {
		return err
	}
	s.log.Error("store operation failed", zap.String("op", op), zap.Error(err))
	return &domain.StoreError{Op: op, Err: err}
}
