package backofficeserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	userdomain "github.com/Apurer/backoffice-api/internal/domains/users/domain"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
	// Public routes skip caller identification.
	Public bool
	// Roles, when set, restricts the route to callers holding one of them.
	Roles []userdomain.Role
}

// ApiHandleFunctions holds every API group plus the identity seam.
type ApiHandleFunctions struct {
	Identity IdentityResolver

	ProductAPI   ProductAPI
	DiscountAPI  DiscountAPI
	PriceAPI     PriceAPI
	OrderAPI     OrderAPI
	SalesCaseAPI SalesCaseAPI
	UserAPI      UserAPI
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions)
}

// NewRouterWithGinEngine adds routes to an existing gin engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	identify := Identity(handleFunctions.Identity)
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		chain := make([]gin.HandlerFunc, 0, 3)
		if !route.Public {
			chain = append(chain, identify)
		}
		if len(route.Roles) > 0 {
			chain = append(chain, RequireRole(route.Roles...))
		}
		chain = append(chain, route.HandlerFunc)
		router.Handle(route.Method, route.Pattern, chain...)
	}
	return router
}

// DefaultHandleFunc is the default handler for routes that are not implemented.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

func getRoutes(h ApiHandleFunctions) []Route {
	admin := []userdomain.Role{userdomain.RoleAdmin}
	return []Route{
		{Name: "Health", Method: http.MethodGet, Pattern: "/healthz", HandlerFunc: health, Public: true},

		{Name: "ListProducts", Method: http.MethodGet, Pattern: "/api/v1/products", HandlerFunc: h.ProductAPI.ListProducts},
		{Name: "CreateProduct", Method: http.MethodPost, Pattern: "/api/v1/products", HandlerFunc: h.ProductAPI.CreateProduct, Roles: admin},
		{Name: "GetProduct", Method: http.MethodGet, Pattern: "/api/v1/products/:productId", HandlerFunc: h.ProductAPI.GetProduct},
		{Name: "UpdateProduct", Method: http.MethodPatch, Pattern: "/api/v1/products/:productId", HandlerFunc: h.ProductAPI.UpdateProduct, Roles: admin},
		{Name: "DeleteProduct", Method: http.MethodDelete, Pattern: "/api/v1/products/:productId", HandlerFunc: h.ProductAPI.DeleteProduct, Roles: admin},

		{Name: "ListDiscounts", Method: http.MethodGet, Pattern: "/api/v1/discounts", HandlerFunc: h.DiscountAPI.ListDiscounts},
		{Name: "CreateDiscount", Method: http.MethodPost, Pattern: "/api/v1/discounts", HandlerFunc: h.DiscountAPI.CreateDiscount, Roles: admin},
		{Name: "GetDiscount", Method: http.MethodGet, Pattern: "/api/v1/discounts/:discountId", HandlerFunc: h.DiscountAPI.GetDiscount},
		{Name: "UpdateDiscount", Method: http.MethodPatch, Pattern: "/api/v1/discounts/:discountId", HandlerFunc: h.DiscountAPI.UpdateDiscount, Roles: admin},
		{Name: "DeleteDiscount", Method: http.MethodDelete, Pattern: "/api/v1/discounts/:discountId", HandlerFunc: h.DiscountAPI.DeleteDiscount, Roles: admin},

		{Name: "ResolvePrices", Method: http.MethodGet, Pattern: "/api/v1/prices", HandlerFunc: h.PriceAPI.ResolvePrices},
		{Name: "ResolvePrice", Method: http.MethodGet, Pattern: "/api/v1/prices/:productId", HandlerFunc: h.PriceAPI.ResolvePrice},

		{Name: "Checkout", Method: http.MethodPost, Pattern: "/api/v1/orders", HandlerFunc: h.OrderAPI.Checkout},
		{Name: "ListOrders", Method: http.MethodGet, Pattern: "/api/v1/orders", HandlerFunc: h.OrderAPI.ListOrders},
		{Name: "GetOrder", Method: http.MethodGet, Pattern: "/api/v1/orders/:orderId", HandlerFunc: h.OrderAPI.GetOrder},

		{Name: "CreateSalesCase", Method: http.MethodPost, Pattern: "/api/v1/sales-cases", HandlerFunc: h.SalesCaseAPI.CreateSalesCase},
		{Name: "ListSalesCases", Method: http.MethodGet, Pattern: "/api/v1/sales-cases", HandlerFunc: h.SalesCaseAPI.ListSalesCases},
		{Name: "GetSalesCase", Method: http.MethodGet, Pattern: "/api/v1/sales-cases/:caseId", HandlerFunc: h.SalesCaseAPI.GetSalesCase},
		{Name: "ReturnSalesCase", Method: http.MethodPost, Pattern: "/api/v1/sales-cases/:caseId/return", HandlerFunc: h.SalesCaseAPI.ReturnSalesCase},
		{Name: "OverdueSalesCases", Method: http.MethodGet, Pattern: "/api/v1/reports/overdue-cases", HandlerFunc: h.SalesCaseAPI.OverdueSalesCases, Roles: admin},

		{Name: "Me", Method: http.MethodGet, Pattern: "/api/v1/me", HandlerFunc: h.UserAPI.Me},
		{Name: "CreateUser", Method: http.MethodPost, Pattern: "/api/v1/users", HandlerFunc: h.UserAPI.CreateUser, Roles: admin},
		{Name: "CreateUsers", Method: http.MethodPost, Pattern: "/api/v1/users/batch", HandlerFunc: h.UserAPI.CreateUsers, Roles: admin},
		{Name: "ListUsers", Method: http.MethodGet, Pattern: "/api/v1/users", HandlerFunc: h.UserAPI.ListUsers, Roles: admin},
		{Name: "GetUser", Method: http.MethodGet, Pattern: "/api/v1/users/:userId", HandlerFunc: h.UserAPI.GetUser, Roles: admin},
		{Name: "DeleteUser", Method: http.MethodDelete, Pattern: "/api/v1/users/:userId", HandlerFunc: h.UserAPI.DeleteUser, Roles: admin},
	}
}

func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
