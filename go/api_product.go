package backofficeserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	cataloghttpmapper "github.com/Apurer/backoffice-api/internal/domains/catalog/adapters/http/mapper"
	catalogports "github.com/Apurer/backoffice-api/internal/domains/catalog/ports"
)

// ProductAPI serves the product catalog.
type ProductAPI struct {
	service catalogports.Service
}

func NewProductAPI(service catalogports.Service) ProductAPI {
	return ProductAPI{service: service}
}

func toTransportProduct(model Product) cataloghttpmapper.Product {
	return cataloghttpmapper.Product{
		Name:          model.Name,
		Description:   model.Description,
		Barcode:       model.Barcode,
		ImageURL:      model.ImageUrl,
		CostPrice:     model.CostPrice,
		SellingPrice:  model.SellingPrice,
		StockQuantity: model.StockQuantity,
	}
}

func fromTransportProduct(product cataloghttpmapper.Product) Product {
	return Product{
		Id:             product.ID,
		Name:           product.Name,
		Description:    product.Description,
		Barcode:        product.Barcode,
		ImageUrl:       product.ImageURL,
		CostPrice:      product.CostPrice,
		SellingPrice:   product.SellingPrice,
		StockQuantity:  product.StockQuantity,
		OnLoanQuantity: product.OnLoanQuantity,
		Available:      product.Available,
	}
}

func fromTransportProducts(products []cataloghttpmapper.Product) []Product {
	result := make([]Product, 0, len(products))
	for _, product := range products {
		result = append(result, fromTransportProduct(product))
	}
	return result
}

// Post /api/v1/products
// Create a product
func (api *ProductAPI) CreateProduct(c *gin.Context) {
	var payload Product
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	product, err := cataloghttpmapper.ToDomainProduct(toTransportProduct(payload))
	if err != nil {
		respondValidation(c, err)
		return
	}
	saved, err := api.service.CreateProduct(c.Request.Context(), product)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, fromTransportProduct(cataloghttpmapper.FromDomainProduct(saved)))
}

// Get /api/v1/products
// List products, or look one up by ?barcode=
func (api *ProductAPI) ListProducts(c *gin.Context) {
	if barcode := strings.TrimSpace(c.Query("barcode")); barcode != "" {
		product, err := api.service.GetProductByBarcode(c.Request.Context(), barcode)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, []Product{fromTransportProduct(cataloghttpmapper.FromDomainProduct(product))})
		return
	}
	page, ok := parsePage(c)
	if !ok {
		return
	}
	products, err := api.service.ListProducts(c.Request.Context(), page)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromTransportProducts(cataloghttpmapper.FromDomainProducts(products)))
}

// Get /api/v1/products/:productId
func (api *ProductAPI) GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	product, err := api.service.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromTransportProduct(cataloghttpmapper.FromDomainProduct(product)))
}

// Patch /api/v1/products/:productId
// Partially update a product; absent fields are left unchanged
func (api *ProductAPI) UpdateProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	var payload ProductPatch
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	patch := cataloghttpmapper.ToDomainProductPatch(cataloghttpmapper.ProductPatch{
		Name:          payload.Name,
		Description:   payload.Description,
		Barcode:       payload.Barcode,
		ImageURL:      payload.ImageUrl,
		CostPrice:     payload.CostPrice,
		SellingPrice:  payload.SellingPrice,
		StockQuantity: payload.StockQuantity,
	})
	updated, err := api.service.UpdateProduct(c.Request.Context(), id, patch)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromTransportProduct(cataloghttpmapper.FromDomainProduct(updated)))
}

// Delete /api/v1/products/:productId
func (api *ProductAPI) DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	if err := api.service.DeleteProduct(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
