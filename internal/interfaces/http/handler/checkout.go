package handler

import (
	checkoutapp "github.com/coffeehouse/backend/internal/application/checkout"
	"github.com/coffeehouse/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// CheckoutHandler handles checkout and the follow-up payment steps
type CheckoutHandler struct {
	BaseHandler
	checkoutService *checkoutapp.CheckoutService
	requireAuth     gin.HandlerFunc
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(checkoutService *checkoutapp.CheckoutService, requireAuth gin.HandlerFunc) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		requireAuth:     requireAuth,
	}
}

// Checkout turns the cart into a pending order.
// The response's next_step tells the storefront which screen follows.
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	claims := middleware.GetClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req checkoutapp.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.checkoutService.Checkout(c.Request.Context(), userID, claims.Email, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// ConfirmTransfer records that the customer reported a bank transfer
func (h *CheckoutHandler) ConfirmTransfer(c *gin.Context) {
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

	var req checkoutapp.ConfirmTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.checkoutService.ConfirmTransfer(c.Request.Context(), userID, orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// CheckPayment polls the QR gateway for the order's payment
func (h *CheckoutHandler) CheckPayment(c *gin.Context) {
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

	result, err := h.checkoutService.CheckPayment(c.Request.Context(), userID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// RegisterRoutes registers checkout and payment routes
func (h *CheckoutHandler) RegisterRoutes(rg *gin.RouterGroup) {
	checkout := rg.Group("", h.requireAuth)
	{
		checkout.POST("/checkout", h.Checkout)
		checkout.POST("/orders/:id/confirm-transfer", h.ConfirmTransfer)
		checkout.POST("/orders/:id/check-payment", h.CheckPayment)
	}
}
