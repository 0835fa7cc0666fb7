package backofficeserver

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	Id             int64           `json:"id,omitempty"`
	Name           string          `json:"name"`
	Description    string          `json:"description,omitempty"`
	Barcode        string          `json:"barcode,omitempty"`
	ImageUrl       string          `json:"imageUrl,omitempty"`
	CostPrice      decimal.Decimal `json:"costPrice"`
	SellingPrice   decimal.Decimal `json:"sellingPrice"`
	StockQuantity  int             `json:"stockQuantity"`
	OnLoanQuantity int             `json:"onLoanQuantity"`
	Available      int             `json:"available"`
}

// ProductPatch carries only the fields present in the request body.
type ProductPatch struct {
	Name          *string          `json:"name,omitempty"`
	Description   *string          `json:"description,omitempty"`
	Barcode       *string          `json:"barcode,omitempty"`
	ImageUrl      *string          `json:"imageUrl,omitempty"`
	CostPrice     *decimal.Decimal `json:"costPrice,omitempty"`
	SellingPrice  *decimal.Decimal `json:"sellingPrice,omitempty"`
	StockQuantity *int             `json:"stockQuantity,omitempty"`
}

type Discount struct {
	Id            int64           `json:"id,omitempty"`
	ProductId     int64           `json:"productId"`
	DiscountPrice decimal.Decimal `json:"discountPrice"`
	StartTime     time.Time       `json:"startTime"`
	EndTime       time.Time       `json:"endTime"`
}

type DiscountPatch struct {
	DiscountPrice *decimal.Decimal `json:"discountPrice,omitempty"`
	StartTime     *time.Time       `json:"startTime,omitempty"`
	EndTime       *time.Time       `json:"endTime,omitempty"`
}

type Price struct {
	ProductId  int64           `json:"productId"`
	ListPrice  decimal.Decimal `json:"listPrice"`
	Price      decimal.Decimal `json:"price"`
	Discounted bool            `json:"discounted"`
	DiscountId *int64          `json:"discountId,omitempty"`
	AsOf       time.Time       `json:"asOf"`
}
