package application

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	catalogdomain "github.com/Apurer/backoffice-api/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/backoffice-api/internal/domains/catalog/ports"
	"github.com/Apurer/backoffice-api/internal/domains/pricing/domain"
)

// Resolver computes effective prices through a transaction-bound discount repository.
type Resolver struct {
	discounts catalogports.DiscountRepository
}

func NewResolver(discounts catalogports.DiscountRepository) *Resolver {
	return &Resolver{discounts: discounts}
}

// CurrentPrice returns the effective unit price of product at asOf.
func (r *Resolver) CurrentPrice(ctx context.Context, product *catalogdomain.Product, asOf time.Time) (decimal.Decimal, error) {
	quote, err := r.Quote(ctx, product, asOf)
	if err != nil {
		return decimal.Zero, err
	}
	return quote.Price, nil
}

// Quote is CurrentPrice with the list price and winning discount attached.
func (r *Resolver) Quote(ctx context.Context, product *catalogdomain.Product, asOf time.Time) (domain.Quote, error) {
	discounts, err := r.discounts.ActiveFor(ctx, product.ID, asOf)
	if err != nil {
		return domain.Quote{}, err
	}
	return domain.Resolve(product, discounts, asOf), nil
}

// CurrentPrices resolves many products with one discount query. The result
// equals calling CurrentPrice for each product.
func (r *Resolver) CurrentPrices(ctx context.Context, products []*catalogdomain.Product, asOf time.Time) (map[int64]decimal.Decimal, error) {
	quotes, err := r.Quotes(ctx, products, asOf)
	if err != nil {
		return nil, err
	}
	prices := make(map[int64]decimal.Decimal, len(quotes))
	for id, quote := range quotes {
		prices[id] = quote.Price
	}
	return prices, nil
}

// Quotes is the batch form of Quote.
func (r *Resolver) Quotes(ctx context.Context, products []*catalogdomain.Product, asOf time.Time) (map[int64]domain.Quote, error) {
	quotes := make(map[int64]domain.Quote, len(products))
	if len(products) == 0 {
		return quotes, nil
	}
	ids := make([]int64, 0, len(products))
	for _, product := range products {
		ids = append(ids, product.ID)
	}
	discounts, err := r.discounts.ActiveForProducts(ctx, ids, asOf)
	if err != nil {
		return nil, err
	}
	for _, product := range products {
		quotes[product.ID] = domain.Resolve(product, discounts, asOf)
	}
	return quotes, nil
}
