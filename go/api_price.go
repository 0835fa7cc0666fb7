package backofficeserver

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	pricinghttpmapper "github.com/Apurer/backoffice-api/internal/domains/pricing/adapters/http/mapper"
	pricingports "github.com/Apurer/backoffice-api/internal/domains/pricing/ports"
)

// PriceAPI exposes the effective price of products.
type PriceAPI struct {
	service pricingports.Service
}

func NewPriceAPI(service pricingports.Service) PriceAPI {
	return PriceAPI{service: service}
}

func fromTransportPrice(price pricinghttpmapper.Price) Price {
	return Price{
		ProductId:  price.ProductID,
		ListPrice:  price.ListPrice,
		Price:      price.Price,
		Discounted: price.Discounted,
		DiscountId: price.DiscountID,
		AsOf:       price.AsOf,
	}
}

// Get /api/v1/prices/:productId
func (api *PriceAPI) ResolvePrice(c *gin.Context) {
	id, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	quote, err := api.service.ResolvePrice(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromTransportPrice(pricinghttpmapper.FromDomainQuote(quote)))
}

// Get /api/v1/prices?productId=1&productId=2
func (api *PriceAPI) ResolvePrices(c *gin.Context) {
	raw := c.QueryArray("productId")
	if len(raw) == 0 {
		respondBadRequest(c, fmt.Errorf("at least one productId is required"))
		return
	}
	ids := make([]int64, 0, len(raw))
	for _, value := range raw {
		id, err := strconv.ParseInt(value, 10, 64)
		if err != nil || id <= 0 {
			respondBadRequest(c, fmt.Errorf("productId %q must be a positive integer", value))
			return
		}
		ids = append(ids, id)
	}
	quotes, err := api.service.ResolvePrices(c.Request.Context(), ids)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	prices := pricinghttpmapper.FromDomainQuotes(quotes)
	result := make([]Price, 0, len(prices))
	for _, price := range prices {
		result = append(result, fromTransportPrice(price))
	}
	c.JSON(http.StatusOK, result)
}
