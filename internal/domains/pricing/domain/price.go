package domain

import (
	"time"

	"github.com/shopspring/decimal"

	catalogdomain "github.com/Apurer/backoffice-api/internal/domains/catalog/domain"
)

// Quote is the effective unit price of a product at a point in time.
type Quote struct {
	ProductID  int64
	ListPrice  decimal.Decimal
	Price      decimal.Decimal
	DiscountID *int64
	AsOf       time.Time
}

// Discounted reports whether an active discount set the price.
func (q Quote) Discounted() bool { return q.DiscountID != nil }

// Resolve picks the lowest active discount price, falling back to the selling
// price. Discounts for other products or outside their window are ignored.
func Resolve(product *catalogdomain.Product, discounts []*catalogdomain.Discount, asOf time.Time) Quote {
	quote := Quote{ProductID: product.ID, ListPrice: product.SellingPrice, Price: product.SellingPrice, AsOf: asOf}
	for _, discount := range discounts {
		if discount.ProductID != product.ID || !discount.ActiveAt(asOf) {
			continue
		}
		if quote.DiscountID == nil || discount.DiscountPrice.LessThan(quote.Price) {
			id := discount.ID
			quote.DiscountID = &id
			quote.Price = discount.DiscountPrice
		}
	}
	return quote
}
