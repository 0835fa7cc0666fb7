package mapper

import (
	"time"

	"github.com/shopspring/decimal"

	orderdomain "github.com/Apurer/backoffice-api/internal/domains/orders/domain"
)

// Line is one requested checkout line.
type Line struct {
	ProductID int64
	Quantity  int
}

// OrderItem represents a transport-level order line.
type OrderItem struct {
	ID              int64
	ProductID       int64
	Quantity        int
	PriceAtPurchase decimal.Decimal
	Subtotal        decimal.Decimal
}

// Order represents the transport-level order payload.
type Order struct {
	ID        int64
	UserID    int64
	Status    string
	CreatedAt time.Time
	Total     decimal.Decimal
	Items     []OrderItem
}

// ToDomainLines converts transport checkout lines.
func ToDomainLines(lines []Line) []orderdomain.Line {
	out := make([]orderdomain.Line, 0, len(lines))
	for _, line := range lines {
		out = append(out, orderdomain.Line{ProductID: line.ProductID, Quantity: line.Quantity})
	}
	return out
}

// FromDomainOrder converts a domain order into a transport representation.
func FromDomainOrder(order *orderdomain.Order) Order {
	if order == nil {
		return Order{}
	}
	items := make([]OrderItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItem{
			ID:              item.ID,
			ProductID:       item.ProductID,
			Quantity:        item.Quantity,
			PriceAtPurchase: item.PriceAtPurchase,
			Subtotal:        item.Subtotal(),
		})
	}
	return Order{
		ID:        order.ID,
		UserID:    order.UserID,
		Status:    string(order.Status),
		CreatedAt: order.CreatedAt,
		Total:     order.Total(),
		Items:     items,
	}
}

// FromDomainOrders converts a slice of domain orders.
func FromDomainOrders(orders []*orderdomain.Order) []Order {
	result := make([]Order, 0, len(orders))
	for _, order := range orders {
		result = append(result, FromDomainOrder(order))
	}
	return result
}
