package mapper

import (
	"time"

	"github.com/shopspring/decimal"

	catalogdomain "github.com/Apurer/backoffice-api/internal/domains/catalog/domain"
)

// Product represents the transport-level product payload.
type Product struct {
	ID             int64
	Name           string
	Description    string
	Barcode        string
	ImageURL       string
	CostPrice      decimal.Decimal
	SellingPrice   decimal.Decimal
	StockQuantity  int
	OnLoanQuantity int
	Available      int
}

// ProductPatch is the transport form of a partial product update.
type ProductPatch struct {
	Name          *string
	Description   *string
	Barcode       *string
	ImageURL      *string
	CostPrice     *decimal.Decimal
	SellingPrice  *decimal.Decimal
	StockQuantity *int
}

// Discount represents the transport-level discount payload.
type Discount struct {
	ID            int64
	ProductID     int64
	DiscountPrice decimal.Decimal
	StartTime     time.Time
	EndTime       time.Time
}

// DiscountPatch is the transport form of a partial discount update.
type DiscountPatch struct {
	DiscountPrice *decimal.Decimal
	StartTime     *time.Time
	EndTime       *time.Time
}

// ToDomainProduct validates and converts a transport product.
func ToDomainProduct(model Product) (*catalogdomain.Product, error) {
	product, err := catalogdomain.NewProduct(model.Name, model.CostPrice, model.SellingPrice, model.StockQuantity)
	if err != nil {
		return nil, err
	}
	product.Description = model.Description
	product.Barcode = model.Barcode
	product.ImageURL = model.ImageURL
	return product, nil
}

// FromDomainProduct converts a domain product into a transport representation.
func FromDomainProduct(product *catalogdomain.Product) Product {
	if product == nil {
		return Product{}
	}
	return Product{
		ID:             product.ID,
		Name:           product.Name,
		Description:    product.Description,
		Barcode:        product.Barcode,
		ImageURL:       product.ImageURL,
		CostPrice:      product.CostPrice,
		SellingPrice:   product.SellingPrice,
		StockQuantity:  product.StockQuantity,
		OnLoanQuantity: product.OnLoanQuantity,
		Available:      product.Available(),
	}
}

func FromDomainProducts(products []*catalogdomain.Product) []Product {
	result := make([]Product, 0, len(products))
	for _, product := range products {
		result = append(result, FromDomainProduct(product))
	}
	return result
}

func ToDomainProductPatch(patch ProductPatch) catalogdomain.ProductPatch {
	return catalogdomain.ProductPatch{
		Name:          patch.Name,
		Description:   patch.Description,
		Barcode:       patch.Barcode,
		ImageURL:      patch.ImageURL,
		CostPrice:     patch.CostPrice,
		SellingPrice:  patch.SellingPrice,
		StockQuantity: patch.StockQuantity,
	}
}

// ToDomainDiscount validates and converts a transport discount.
func ToDomainDiscount(model Discount) (*catalogdomain.Discount, error) {
	return catalogdomain.NewDiscount(model.ProductID, model.DiscountPrice, model.StartTime, model.EndTime)
}

func FromDomainDiscount(discount *catalogdomain.Discount) Discount {
	if discount == nil {
		return Discount{}
	}
	return Discount{
		ID:            discount.ID,
		ProductID:     discount.ProductID,
		DiscountPrice: discount.DiscountPrice,
		StartTime:     discount.StartTime,
		EndTime:       discount.EndTime,
	}
}

func FromDomainDiscounts(discounts []*catalogdomain.Discount) []Discount {
	result := make([]Discount, 0, len(discounts))
	for _, discount := range discounts {
		result = append(result, FromDomainDiscount(discount))
	}
	return result
}

func ToDomainDiscountPatch(patch DiscountPatch) catalogdomain.DiscountPatch {
	return catalogdomain.DiscountPatch{
		DiscountPrice: patch.DiscountPrice,
		StartTime:     patch.StartTime,
		EndTime:       patch.EndTime,
	}
}
