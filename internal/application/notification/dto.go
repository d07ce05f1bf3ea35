package notification

import (
	"time"

	"github.com/coffeehouse/backend/internal/domain/notification"
	"github.com/google/uuid"
)

// ListFilter represents filter options for the notification feed
type ListFilter struct {
	UnreadOnly bool `form:"unread_only"`
	Page       int  `form:"page"`
	PageSize   int  `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// NotificationResponse represents a notification in API responses
type NotificationResponse struct {
	ID        uuid.UUID  `json:"id"`
	Audience  string     `json:"audience"`
	Type      string     `json:"type"`
	Title     string     `json:"title"`
	Body      string     `json:"body,omitempty"`
	OrderID   *uuid.UUID `json:"order_id,omitempty"`
	Read      bool       `json:"read"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// UnreadCountResponse carries the badge count for the feed icon
type UnreadCountResponse struct {
	Unread int64 `json:"unread"`
}

// ToNotificationResponse converts a domain notification to a response DTO
func ToNotificationResponse(n *notification.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Audience:  string(n.Audience),
		Type:      string(n.Type),
		Title:     n.Title,
		Body:      n.Body,
		OrderID:   n.OrderID,
		Read:      n.IsRead(),
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}

// ToNotificationResponses converts a slice of domain notifications
func ToNotificationResponses(ns []notification.Notification) []NotificationResponse {
	responses := make([]NotificationResponse, len(ns))
	for i := range ns {
		responses[i] = ToNotificationResponse(&ns[i])
	}
	return responses
}
