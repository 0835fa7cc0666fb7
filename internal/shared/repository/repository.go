// Package repository holds the generic persistence contract implemented per entity.
package repository

import "context"

const (
	DefaultLimit = 100
	MaxLimit     = 500
)

// Page bounds list queries.
type Page struct {
	Skip  int
	Limit int
}

// Normalize clamps the page to sane bounds, substituting defaultLimit for a missing limit.
func (p Page) Normalize(defaultLimit int) Page {
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	if p.Skip < 0 {
		p.Skip = 0
	}
	if p.Limit <= 0 {
		p.Limit = defaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// Repository is the CRUD contract every entity store implements. Implementations
// bound to a transaction never commit on their own.
type Repository[T any] interface {
	Get(ctx context.Context, id int64) (*T, error)
	List(ctx context.Context, page Page) ([]*T, error)
	Create(ctx context.Context, entity *T) (*T, error)
	Update(ctx context.Context, entity *T) (*T, error)
	Delete(ctx context.Context, id int64) error
}

// Slice applies page to an already ordered in-memory result.
func Slice[T any](rows []T, page Page) []T {
	if page.Skip >= len(rows) {
		return []T{}
	}
	end := page.Skip + page.Limit
	if page.Limit <= 0 || end > len(rows) {
		end = len(rows)
	}
	return rows[page.Skip:end]
}
