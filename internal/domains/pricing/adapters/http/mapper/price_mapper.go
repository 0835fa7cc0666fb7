package mapper

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	pricedomain "github.com/Apurer/backoffice-api/internal/domains/pricing/domain"
)

// Price is the transport form of a resolved price.
type Price struct {
	ProductID  int64
	ListPrice  decimal.Decimal
	Price      decimal.Decimal
	Discounted bool
	DiscountID *int64
	AsOf       time.Time
}

func FromDomainQuote(quote pricedomain.Quote) Price {
	return Price{
		ProductID:  quote.ProductID,
		ListPrice:  quote.ListPrice,
		Price:      quote.Price,
		Discounted: quote.Discounted(),
		DiscountID: quote.DiscountID,
		AsOf:       quote.AsOf,
	}
}

// FromDomainQuotes flattens a batch lookup ordered by product ID.
func FromDomainQuotes(quotes map[int64]pricedomain.Quote) []Price {
	result := make([]Price, 0, len(quotes))
	for _, quote := range quotes {
		result = append(result, FromDomainQuote(quote))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ProductID < result[j].ProductID })
	return result
}
