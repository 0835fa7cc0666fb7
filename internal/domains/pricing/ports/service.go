package ports

import (
	"context"

	"github.com/Apurer/backoffice-api/internal/domains/pricing/domain"
)

// Service exposes price lookups to adapters. Reads only.
type Service interface {
	ResolvePrice(ctx context.Context, productID int64) (domain.Quote, error)
	ResolvePrices(ctx context.Context, productIDs []int64) (map[int64]domain.Quote, error)
}
