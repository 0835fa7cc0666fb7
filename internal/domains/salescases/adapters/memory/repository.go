package memory

import (
	"context"
	"errors"
	"time"

	"github.com/Apurer/backoffice-api/internal/domains/salescases/domain"
	"github.com/Apurer/backoffice-api/internal/domains/salescases/ports"
	"github.com/Apurer/backoffice-api/internal/shared/memtable"
	"github.com/Apurer/backoffice-api/internal/shared/repository"
)

// Store holds sales case rows for the in-memory unit of work.
type Store struct {
	cases   *memtable.Table[domain.SalesCase]
	itemIDs *memtable.Counter
}

func NewStore() *Store {
	return &Store{cases: memtable.New(cloneCase), itemIDs: &memtable.Counter{}}
}

// Snapshot copies the store so a transaction can discard its changes.
func (s *Store) Snapshot() *Store {
	return &Store{cases: s.cases.Snapshot(), itemIDs: s.itemIDs.Snapshot()}
}

var _ ports.Repository = (*Repository)(nil)

// Repository keeps sales cases in memory.
type Repository struct {
	store *Store
}

func NewRepository(store *Store) *Repository {
	return &Repository{store: store}
}

func (r *Repository) Get(_ context.Context, id int64) (*domain.SalesCase, error) {
	salesCase, ok := r.store.cases.Get(id)
	if !ok {
		return nil, ports.ErrNotFound
	}
	return salesCase, nil
}

func (r *Repository) GetForUpdate(ctx context.Context, id int64) (*domain.SalesCase, error) {
	return r.Get(ctx, id)
}

func (r *Repository) List(_ context.Context, page repository.Page) ([]*domain.SalesCase, error) {
	return repository.Slice(r.store.cases.All(), page), nil
}

func (r *Repository) ListFiltered(_ context.Context, filter domain.Filter, page repository.Page) ([]*domain.SalesCase, error) {
	var out []*domain.SalesCase
	for _, c := range r.store.cases.All() {
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if filter.SalesRepID != 0 && c.SalesRepID != filter.SalesRepID {
			continue
		}
		out = append(out, c)
	}
	return repository.Slice(out, page), nil
}

func (r *Repository) ListOnLoanDueBefore(_ context.Context, asOf time.Time) ([]*domain.SalesCase, error) {
	var out []*domain.SalesCase
	for _, c := range r.store.cases.All() {
		if c.Status == domain.StatusOnLoan && c.ReturnByDate.Before(asOf) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *Repository) Create(_ context.Context, salesCase *domain.SalesCase) (*domain.SalesCase, error) {
	if salesCase == nil {
		return nil, errors.New("sales case is nil")
	}
	clone := cloneCase(salesCase)
	clone.ID = r.store.cases.NextID()
	for i := range clone.Items {
		clone.Items[i].ID = r.store.itemIDs.Next()
		clone.Items[i].CaseID = clone.ID
	}
	r.store.cases.Put(clone.ID, clone)
	return cloneCase(clone), nil
}

// Update persists the case header. Items are fixed once the case is opened.
func (r *Repository) Update(_ context.Context, salesCase *domain.SalesCase) (*domain.SalesCase, error) {
	if salesCase == nil {
		return nil, errors.New("sales case is nil")
	}
	existing, ok := r.store.cases.Get(salesCase.ID)
	if !ok {
		return nil, ports.ErrNotFound
	}
	existing.Status = salesCase.Status
	existing.ReturnByDate = salesCase.ReturnByDate
	existing.ReturnedAt = salesCase.ReturnedAt
	r.store.cases.Put(existing.ID, existing)
	return cloneCase(existing), nil
}

func (r *Repository) Delete(_ context.Context, id int64) error {
	if !r.store.cases.Delete(id) {
		return ports.ErrNotFound
	}
	return nil
}

func cloneCase(c *domain.SalesCase) *domain.SalesCase {
	clone := *c
	clone.Items = append([]domain.SalesCaseItem(nil), c.Items...)
	if c.ReturnedAt != nil {
		at := *c.ReturnedAt
		clone.ReturnedAt = &at
	}
	return &clone
}
