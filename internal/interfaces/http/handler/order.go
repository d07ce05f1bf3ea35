package handler

import (
	orderapp "github.com/coffeehouse/backend/internal/application/order"
	"github.com/gin-gonic/gin"
)

// OrderHandler handles order history for customers and the admin board
type OrderHandler struct {
	BaseHandler
	orderService *orderapp.OrderService
	requireAuth  gin.HandlerFunc
	requireAdmin gin.HandlerFunc
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *orderapp.OrderService, requireAuth, requireAdmin gin.HandlerFunc) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		requireAuth:  requireAuth,
		requireAdmin: requireAdmin,
	}
}

// ListMine returns the customer's own orders, newest first
func (h *OrderHandler) ListMine(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var filter orderapp.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid filter parameters")
		return
	}

	orders, total, err := h.orderService.ListMine(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, orders, total, pageOf(filter), pageSizeOf(filter))
}

// GetMine returns one of the customer's own orders
func (h *OrderHandler) GetMine(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	orderID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	result, err := h.orderService.GetMine(c.Request.Context(), userID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// GetMineByNumber returns one of the customer's orders by its number
func (h *OrderHandler) GetMineByNumber(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	result, err := h.orderService.GetMineByNumber(c.Request.Context(), userID, c.Param("number"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// CancelMine lets the customer cancel a still-pending order
func (h *OrderHandler) CancelMine(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	orderID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req orderapp.CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.orderService.CancelMine(c.Request.Context(), userID, orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// List returns orders for the admin board
func (h *OrderHandler) List(c *gin.Context) {
	var filter orderapp.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid filter parameters")
		return
	}

	orders, total, err := h.orderService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, orders, total, pageOf(filter), pageSizeOf(filter))
}

// Get returns any order for the admin detail view
func (h *OrderHandler) Get(c *gin.Context) {
	orderID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	result, err := h.orderService.Get(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// CountByStatus returns the totals shown above the admin board
func (h *OrderHandler) CountByStatus(c *gin.Context) {
	counts, err := h.orderService.CountByStatus(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, counts)
}

// UpdateStatus moves an order along its lifecycle
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	orderID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req orderapp.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.orderService.UpdateStatus(c.Request.Context(), orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Cancel cancels an order with a reason
func (h *OrderHandler) Cancel(c *gin.Context) {
	orderID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req orderapp.CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.orderService.Cancel(c.Request.Context(), orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Stats returns the dashboard aggregates
func (h *OrderHandler) Stats(c *gin.Context) {
	var filter orderapp.StatsFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid filter parameters")
		return
	}

	result, err := h.orderService.Stats(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// RegisterRoutes registers order routes for both audiences
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders", h.requireAuth)
	{
		orders.GET("", h.ListMine)
		orders.GET("/number/:number", h.GetMineByNumber)
		orders.GET("/:id", h.GetMine)
		orders.POST("/:id/cancel", h.CancelMine)
	}

	admin := rg.Group("/admin/orders", h.requireAuth, h.requireAdmin)
	{
		admin.GET("", h.List)
		admin.GET("/counts", h.CountByStatus)
		admin.GET("/stats", h.Stats)
		admin.GET("/:id", h.Get)
		admin.PUT("/:id/status", h.UpdateStatus)
		admin.POST("/:id/cancel", h.Cancel)
	}
}

func pageOf(filter orderapp.OrderListFilter) int {
	if filter.Page < 1 {
		return 1
	}
	return filter.Page
}

func pageSizeOf(filter orderapp.OrderListFilter) int {
	if filter.PageSize < 1 {
		return 20
	}
	return filter.PageSize
}
