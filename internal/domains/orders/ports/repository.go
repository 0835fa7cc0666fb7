package ports

import (
	"context"
	"fmt"
	"time"

	"github.com/Apurer/backoffice-api/internal/domains/orders/domain"
	"github.com/Apurer/backoffice-api/internal/shared/apperr"
	"github.com/Apurer/backoffice-api/internal/shared/repository"
)

var ErrNotFound = fmt.Errorf("order %w", apperr.ErrNotFound)

// Repository persists orders together with their items.
type Repository interface {
	repository.Repository[domain.Order]
	// ListForUser returns the user's orders newest first.
	ListForUser(ctx context.Context, userID int64, page repository.Page) ([]*domain.Order, error)
}

// ErrIdempotencyConflict indicates the same key was used with a different request.
var ErrIdempotencyConflict = fmt.Errorf("%w: idempotency key reused with a different request", apperr.ErrConflict)

// IdempotencyRecord associates a client-supplied checkout key with the order it produced.
type IdempotencyRecord struct {
	Key         string
	UserID      int64
	RequestHash string
	OrderID     int64
	CreatedAt   time.Time
}

// IdempotencyStore persists checkout keys inside the checkout transaction. Keys are scoped per user.
type IdempotencyStore interface {
	// Get returns the stored record, or nil when unknown.
	Get(ctx context.Context, userID int64, key string) (*IdempotencyRecord, error)
	// Save persists the record. A key already bound to a different request or order
	// returns ErrIdempotencyConflict with the stored record.
	Save(ctx context.Context, record IdempotencyRecord) (*IdempotencyRecord, error)
}
