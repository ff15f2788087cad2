package courierserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	orderhttpmapper "github.com/Apurer/courier-api/internal/domains/orders/adapters/http/mapper"
	orderdomain "github.com/Apurer/courier-api/internal/domains/orders/domain"
	orderports "github.com/Apurer/courier-api/internal/domains/orders/ports"
)

// OrderAPI implements order booking and tracking.
type OrderAPI struct {
	service orderports.Service
}

func NewOrderAPI(service orderports.Service) OrderAPI {
	return OrderAPI{service: service}
}

// Post /api/orders
func (api *OrderAPI) CreateOrder(c *gin.Context) {
	var payload orderhttpmapper.CreateOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	order, err := api.service.Create(c.Request.Context(), orderhttpmapper.ToDraft(payload))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Order created successfully",
		"order":   orderhttpmapper.FromDomainOrder(order),
	})
}

// Get /api/orders
func (api *OrderAPI) ListOrders(c *gin.Context) {
	list, err := api.service.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromDomainOrders(list))
}

// Get /api/orders/tracking
func (api *OrderAPI) TrackOrders(c *gin.Context) {
	list, err := api.service.ListWithTracking(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromTracking(list))
}

// Get /api/orders/by-phone/:phone
func (api *OrderAPI) ListOrdersByPhone(c *gin.Context) {
	list, err := api.service.ListByPhone(c.Request.Context(), c.Param("phone"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromDomainOrders(list))
}

// Get /api/orders/:orderId
func (api *OrderAPI) GetOrder(c *gin.Context) {
	order, err := api.service.Get(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromDomainOrder(order))
}

// Patch /api/orders/:orderId/status
func (api *OrderAPI) UpdateOrderStatus(c *gin.Context) {
	var payload orderhttpmapper.StatusRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	order, err := api.service.UpdateStatus(c.Request.Context(), c.Param("orderId"), orderdomain.Status(payload.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromDomainOrder(order))
}

// Delete /api/orders/:orderId
func (api *OrderAPI) DeleteOrder(c *gin.Context) {
	if err := api.service.Delete(c.Request.Context(), c.Param("orderId")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order deleted successfully"})
}
