package memory

import (
	"context"
	"errors"
	"strings"

	"github.com/Apurer/backoffice-api/internal/domains/users/domain"
	"github.com/Apurer/backoffice-api/internal/domains/users/ports"
	"github.com/Apurer/backoffice-api/internal/shared/memtable"
	"github.com/Apurer/backoffice-api/internal/shared/repository"
)

// Store holds user rows for the in-memory unit of work.
type Store struct {
	users *memtable.Table[domain.User]
}

func NewStore() *Store {
	return &Store{users: memtable.New(cloneUser)}
}

// Snapshot copies the store so a transaction can discard its changes.
func (s *Store) Snapshot() *Store {
	return &Store{users: s.users.Snapshot()}
}

var _ ports.Repository = (*Repository)(nil)

// Repository is a user repository over a Store. It is not safe for concurrent
// use; the unit of work serializes access.
type Repository struct {
	store *Store
}

func NewRepository(store *Store) *Repository {
	return &Repository{store: store}
}

func (r *Repository) Get(_ context.Context, id int64) (*domain.User, error) {
	user, ok := r.store.users.Get(id)
	if !ok {
		return nil, ports.ErrNotFound
	}
	return user, nil
}

func (r *Repository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, user := range r.store.users.All() {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, ports.ErrNotFound
}

func (r *Repository) List(_ context.Context, page repository.Page) ([]*domain.User, error) {
	return repository.Slice(r.store.users.All(), page), nil
}

func (r *Repository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, errors.New("user is nil")
	}
	if _, err := r.GetByEmail(ctx, user.Email); err == nil {
		return nil, ports.ErrDuplicateEmail
	}
	clone := cloneUser(user)
	clone.ID = r.store.users.NextID()
	r.store.users.Put(clone.ID, clone)
	return cloneUser(clone), nil
}

func (r *Repository) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, errors.New("user is nil")
	}
	if !r.store.users.Has(user.ID) {
		return nil, ports.ErrNotFound
	}
	if existing, err := r.GetByEmail(ctx, user.Email); err == nil && existing.ID != user.ID {
		return nil, ports.ErrDuplicateEmail
	}
	r.store.users.Put(user.ID, user)
	return cloneUser(user), nil
}

func (r *Repository) Delete(_ context.Context, id int64) error {
	if !r.store.users.Delete(id) {
		return ports.ErrNotFound
	}
	return nil
}

func cloneUser(user *domain.User) *domain.User {
	clone := *user
	return &clone
}
