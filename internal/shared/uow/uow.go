// Package uow defines the transactional boundary shared by every bounded context.
package uow

import (
	"context"

	catalogports "github.com/Apurer/backoffice-api/internal/domains/catalog/ports"
	orderports "github.com/Apurer/backoffice-api/internal/domains/orders/ports"
	caseports "github.com/Apurer/backoffice-api/internal/domains/salescases/ports"
	userports "github.com/Apurer/backoffice-api/internal/domains/users/ports"
)

// Tx hands out repositories bound to one open transaction.
type Tx interface {
	Products() catalogports.ProductRepository
	Discounts() catalogports.DiscountRepository
	Orders() orderports.Repository
	OrderIdempotency() orderports.IdempotencyStore
	SalesCases() caseports.Repository
	Users() userports.Repository
}

// UnitOfWork runs fn inside a transaction. The transaction commits when fn
// returns nil and rolls back when fn returns an error or panics.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}
