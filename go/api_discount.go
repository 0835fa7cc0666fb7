package backofficeserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	cataloghttpmapper "github.com/Apurer/backoffice-api/internal/domains/catalog/adapters/http/mapper"
	catalogports "github.com/Apurer/backoffice-api/internal/domains/catalog/ports"
)

// DiscountAPI serves time-bounded discounts.
type DiscountAPI struct {
	service catalogports.Service
}

func NewDiscountAPI(service catalogports.Service) DiscountAPI {
	return DiscountAPI{service: service}
}

func fromTransportDiscount(discount cataloghttpmapper.Discount) Discount {
	return Discount{
		Id:            discount.ID,
		ProductId:     discount.ProductID,
		DiscountPrice: discount.DiscountPrice,
		StartTime:     discount.StartTime,
		EndTime:       discount.EndTime,
	}
}

// Post /api/v1/discounts
// Create a discount; the price may not go below the product's cost
func (api *DiscountAPI) CreateDiscount(c *gin.Context) {
	var payload Discount
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	discount, err := cataloghttpmapper.ToDomainDiscount(cataloghttpmapper.Discount{
		ProductID:     payload.ProductId,
		DiscountPrice: payload.DiscountPrice,
		StartTime:     payload.StartTime,
		EndTime:       payload.EndTime,
	})
	if err != nil {
		respondValidation(c, err)
		return
	}
	saved, err := api.service.CreateDiscount(c.Request.Context(), discount)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, fromTransportDiscount(cataloghttpmapper.FromDomainDiscount(saved)))
}

// Get /api/v1/discounts
func (api *DiscountAPI) ListDiscounts(c *gin.Context) {
	page, ok := parsePage(c)
	if !ok {
		return
	}
	discounts, err := api.service.ListDiscounts(c.Request.Context(), page)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	result := make([]Discount, 0, len(discounts))
	for _, discount := range cataloghttpmapper.FromDomainDiscounts(discounts) {
		result = append(result, fromTransportDiscount(discount))
	}
	c.JSON(http.StatusOK, result)
}

// Get /api/v1/discounts/:discountId
func (api *DiscountAPI) GetDiscount(c *gin.Context) {
	id, ok := parseIDParam(c, "discountId")
	if !ok {
		return
	}
	discount, err := api.service.GetDiscount(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromTransportDiscount(cataloghttpmapper.FromDomainDiscount(discount)))
}

// Patch /api/v1/discounts/:discountId
func (api *DiscountAPI) UpdateDiscount(c *gin.Context) {
	id, ok := parseIDParam(c, "discountId")
	if !ok {
		return
	}
	var payload DiscountPatch
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	patch := cataloghttpmapper.ToDomainDiscountPatch(cataloghttpmapper.DiscountPatch{
		DiscountPrice: payload.DiscountPrice,
		StartTime:     payload.StartTime,
		EndTime:       payload.EndTime,
	})
	updated, err := api.service.UpdateDiscount(c.Request.Context(), id, patch)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromTransportDiscount(cataloghttpmapper.FromDomainDiscount(updated)))
}

// Delete /api/v1/discounts/:discountId
func (api *DiscountAPI) DeleteDiscount(c *gin.Context) {
	id, ok := parseIDParam(c, "discountId")
	if !ok {
		return
	}
	if err := api.service.DeleteDiscount(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
