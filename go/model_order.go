package backofficeserver

import (
	"time"

	"github.com/shopspring/decimal"
)

type CheckoutLine struct {
	ProductId int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

type CheckoutRequest struct {
	Items []CheckoutLine `json:"items"`
}

type OrderItem struct {
	Id              int64           `json:"id"`
	ProductId       int64           `json:"productId"`
	Quantity        int             `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"priceAtPurchase"`
	Subtotal        decimal.Decimal `json:"subtotal"`
}

type Order struct {
	Id        int64           `json:"id"`
	UserId    int64           `json:"userId"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
	Total     decimal.Decimal `json:"total"`
	Items     []OrderItem     `json:"items"`
}
