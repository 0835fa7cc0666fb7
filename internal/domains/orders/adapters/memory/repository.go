package memory

import (
	"context"
	"errors"
	"sort"

	"github.com/Apurer/backoffice-api/internal/domains/orders/domain"
	"github.com/Apurer/backoffice-api/internal/domains/orders/ports"
	"github.com/Apurer/backoffice-api/internal/shared/memtable"
	"github.com/Apurer/backoffice-api/internal/shared/repository"
)

// Store holds order rows for the in-memory unit of work.
type Store struct {
	orders      *memtable.Table[domain.Order]
	itemIDs     *memtable.Counter
	idempotency map[idempotencyKey]ports.IdempotencyRecord
}

type idempotencyKey struct {
	userID int64
	key    string
}

func NewStore() *Store {
	return &Store{
		orders:      memtable.New(cloneOrder),
		itemIDs:     &memtable.Counter{},
		idempotency: map[idempotencyKey]ports.IdempotencyRecord{},
	}
}

// Snapshot copies the store so a transaction can discard its changes.
func (s *Store) Snapshot() *Store {
	records := make(map[idempotencyKey]ports.IdempotencyRecord, len(s.idempotency))
	for k, v := range s.idempotency {
		records[k] = v
	}
	return &Store{orders: s.orders.Snapshot(), itemIDs: s.itemIDs.Snapshot(), idempotency: records}
}

var _ ports.Repository = (*Repository)(nil)

// Repository keeps orders in memory.
type Repository struct {
	store *Store
}

func NewRepository(store *Store) *Repository {
	return &Repository{store: store}
}

func (r *Repository) Get(_ context.Context, id int64) (*domain.Order, error) {
	order, ok := r.store.orders.Get(id)
	if !ok {
		return nil, ports.ErrNotFound
	}
	return order, nil
}

func (r *Repository) List(_ context.Context, page repository.Page) ([]*domain.Order, error) {
	return repository.Slice(r.store.orders.All(), page), nil
}

func (r *Repository) ListForUser(_ context.Context, userID int64, page repository.Page) ([]*domain.Order, error) {
	var out []*domain.Order
	for _, order := range r.store.orders.All() {
		if order.UserID == userID {
			out = append(out, order)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return repository.Slice(out, page), nil
}

func (r *Repository) Create(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	clone := cloneOrder(order)
	clone.ID = r.store.orders.NextID()
	for i := range clone.Items {
		clone.Items[i].ID = r.store.itemIDs.Next()
		clone.Items[i].OrderID = clone.ID
	}
	r.store.orders.Put(clone.ID, clone)
	return cloneOrder(clone), nil
}

// Update replaces the order header. Items are immutable once created.
func (r *Repository) Update(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	existing, ok := r.store.orders.Get(order.ID)
	if !ok {
		return nil, ports.ErrNotFound
	}
	existing.Status = order.Status
	r.store.orders.Put(existing.ID, existing)
	return existing, nil
}

func (r *Repository) Delete(_ context.Context, id int64) error {
	if !r.store.orders.Delete(id) {
		return ports.ErrNotFound
	}
	return nil
}

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

// IdempotencyStore keeps checkout keys in memory.
type IdempotencyStore struct {
	store *Store
}

func NewIdempotencyStore(store *Store) *IdempotencyStore {
	return &IdempotencyStore{store: store}
}

// Get returns the stored record for the key, or nil when absent.
func (s *IdempotencyStore) Get(_ context.Context, userID int64, key string) (*ports.IdempotencyRecord, error) {
	record, ok := s.store.idempotency[idempotencyKey{userID: userID, key: key}]
	if !ok {
		return nil, nil
	}
	copy := record
	return &copy, nil
}

// Save persists the record or returns the existing record if it matches.
func (s *IdempotencyStore) Save(_ context.Context, record ports.IdempotencyRecord) (*ports.IdempotencyRecord, error) {
	k := idempotencyKey{userID: record.UserID, key: record.Key}
	if existing, ok := s.store.idempotency[k]; ok {
		copy := existing
		if existing.RequestHash != record.RequestHash || existing.OrderID != record.OrderID {
			return &copy, ports.ErrIdempotencyConflict
		}
		return &copy, nil
	}
	s.store.idempotency[k] = record
	saved := record
	return &saved, nil
}

func cloneOrder(o *domain.Order) *domain.Order {
	clone := *o
	clone.Items = append([]domain.OrderItem(nil), o.Items...)
	return &clone
}
