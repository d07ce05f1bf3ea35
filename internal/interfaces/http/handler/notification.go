package handler

import (
	notificationapp "github.com/coffeehouse/backend/internal/application/notification"
	"github.com/gin-gonic/gin"
)

// NotificationHandler handles the customer and staff notification feeds
type NotificationHandler struct {
	BaseHandler
	notificationService *notificationapp.NotificationService
	requireAuth         gin.HandlerFunc
	requireAdmin        gin.HandlerFunc
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notificationService *notificationapp.NotificationService, requireAuth, requireAdmin gin.HandlerFunc) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		requireAuth:         requireAuth,
		requireAdmin:        requireAdmin,
	}
}

// List returns the customer's feed
func (h *NotificationHandler) List(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var filter notificationapp.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid filter parameters")
		return
	}

	items, err := h.notificationService.ListForCustomer(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, items)
}

// UnreadCount returns the badge count for the feed icon
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	count, err := h.notificationService.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, count)
}

// MarkRead marks one notification read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid notification ID")
		return
	}

	result, err := h.notificationService.MarkRead(c.Request.Context(), userID, currentUserIsAdmin(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// MarkAllRead marks the whole feed read
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	if err := h.notificationService.MarkAllRead(c.Request.Context(), userID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Delete removes a notification from the feed
func (h *NotificationHandler) Delete(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid notification ID")
		return
	}

	if err := h.notificationService.Delete(c.Request.Context(), userID, currentUserIsAdmin(c), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// ListAdmin returns the shared staff feed
func (h *NotificationHandler) ListAdmin(c *gin.Context) {
	var filter notificationapp.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid filter parameters")
		return
	}

	items, err := h.notificationService.ListForAdmins(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, items)
}

// RegisterRoutes registers notification routes
func (h *NotificationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	feed := rg.Group("/notifications", h.requireAuth)
	{
		feed.GET("", h.List)
		feed.GET("/unread-count", h.UnreadCount)
		feed.PUT("/read-all", h.MarkAllRead)
		feed.PUT("/:id/read", h.MarkRead)
		feed.DELETE("/:id", h.Delete)
	}

	admin := rg.Group("/admin/notifications", h.requireAuth, h.requireAdmin)
	{
		admin.GET("", h.ListAdmin)
	}
}
