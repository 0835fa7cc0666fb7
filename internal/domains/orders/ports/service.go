package ports

import (
	"context"

	"github.com/Apurer/backoffice-api/internal/domains/orders/domain"
	userdomain "github.com/Apurer/backoffice-api/internal/domains/users/domain"
	"github.com/Apurer/backoffice-api/internal/shared/repository"
)

// MaxIdempotencyKeyLength bounds a checkout key in bytes, matching the stored column.
const MaxIdempotencyKeyLength = 255

// CheckoutInput is the request of a customer checkout.
type CheckoutInput struct {
	Lines []domain.Line
	// IdempotencyKey, when set, makes retries of the same request return the original order.
	IdempotencyKey string
}

// Service exposes order use cases to adapters.
type Service interface {
	Checkout(ctx context.Context, caller userdomain.Caller, input CheckoutInput) (*domain.Order, error)
	GetOrder(ctx context.Context, caller userdomain.Caller, id int64) (*domain.Order, error)
	ListOrders(ctx context.Context, caller userdomain.Caller, page repository.Page) ([]*domain.Order, error)
}
