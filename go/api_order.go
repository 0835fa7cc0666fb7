package backofficeserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	orderhttpmapper "github.com/Apurer/backoffice-api/internal/domains/orders/adapters/http/mapper"
	orderports "github.com/Apurer/backoffice-api/internal/domains/orders/ports"
)

// HeaderIdempotencyKey lets clients retry a checkout without buying twice.
const HeaderIdempotencyKey = "Idempotency-Key"

// OrderAPI serves customer checkout and order history.
type OrderAPI struct {
	service orderports.Service
}

func NewOrderAPI(service orderports.Service) OrderAPI {
	return OrderAPI{service: service}
}

func fromTransportOrder(order orderhttpmapper.Order) Order {
	items := make([]OrderItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItem{
			Id:              item.ID,
			ProductId:       item.ProductID,
			Quantity:        item.Quantity,
			PriceAtPurchase: item.PriceAtPurchase,
			Subtotal:        item.Subtotal,
		})
	}
	return Order{
		Id:        order.ID,
		UserId:    order.UserID,
		Status:    order.Status,
		CreatedAt: order.CreatedAt,
		Total:     order.Total,
		Items:     items,
	}
}

// Post /api/v1/orders
// Check out a cart as the calling customer
func (api *OrderAPI) Checkout(c *gin.Context) {
	var payload CheckoutRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	lines := make([]orderhttpmapper.Line, 0, len(payload.Items))
	for _, item := range payload.Items {
		lines = append(lines, orderhttpmapper.Line{ProductID: item.ProductId, Quantity: item.Quantity})
	}
	input := orderports.CheckoutInput{
		Lines:          orderhttpmapper.ToDomainLines(lines),
		IdempotencyKey: strings.TrimSpace(c.GetHeader(HeaderIdempotencyKey)),
	}
	order, err := api.service.Checkout(c.Request.Context(), callerFrom(c), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, fromTransportOrder(orderhttpmapper.FromDomainOrder(order)))
}

// Get /api/v1/orders
// Order history of the caller, newest first
func (api *OrderAPI) ListOrders(c *gin.Context) {
	page, ok := parsePage(c)
	if !ok {
		return
	}
	orders, err := api.service.ListOrders(c.Request.Context(), callerFrom(c), page)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	result := make([]Order, 0, len(orders))
	for _, order := range orderhttpmapper.FromDomainOrders(orders) {
		result = append(result, fromTransportOrder(order))
	}
	c.JSON(http.StatusOK, result)
}

// Get /api/v1/orders/:orderId
func (api *OrderAPI) GetOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	order, err := api.service.GetOrder(c.Request.Context(), callerFrom(c), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromTransportOrder(orderhttpmapper.FromDomainOrder(order)))
}
