package notification

import (
	"context"

	"github.com/coffeehouse/backend/internal/domain/notification"
	"github.com/coffeehouse/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// NotificationService handles the in-app notification feeds.
// Customers see their own feed; staff share a single admin feed.
type NotificationService struct {
	repo notification.Repository
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(repo notification.Repository) *NotificationService {
	return &NotificationService{repo: repo}
}

// ListForCustomer returns the customer's feed, newest first
func (s *NotificationService) ListForCustomer(ctx context.Context, customerID uuid.UUID, filter ListFilter) ([]NotificationResponse, error) {
	ns, err := s.repo.FindForCustomer(ctx, customerID, buildFilter(filter))
	if err != nil {
		return nil, err
	}
	return ToNotificationResponses(ns), nil
}

// ListForAdmins returns the shared staff feed, newest first
func (s *NotificationService) ListForAdmins(ctx context.Context, filter ListFilter) ([]NotificationResponse, error) {
	ns, err := s.repo.FindForAdmins(ctx, buildFilter(filter))
	if err != nil {
		return nil, err
	}
	return ToNotificationResponses(ns), nil
}

// UnreadCount returns the badge count for the customer's feed icon
func (s *NotificationService) UnreadCount(ctx context.Context, customerID uuid.UUID) (*UnreadCountResponse, error) {
	count, err := s.repo.CountUnreadForCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return &UnreadCountResponse{Unread: count}, nil
}

// MarkRead marks one notification read.
// Customers can only touch their own; the admin feed needs the admin role.
func (s *NotificationService) MarkRead(ctx context.Context, userID uuid.UUID, isAdmin bool, id uuid.UUID) (*NotificationResponse, error) {
	n, err := s.authorized(ctx, userID, isAdmin, id)
	if err != nil {
		return nil, err
	}

	n.MarkRead()
	if err := s.repo.Update(ctx, n); err != nil {
		return nil, err
	}

	response := ToNotificationResponse(n)
	return &response, nil
}

// MarkAllRead marks every unread notification in the customer's feed
func (s *NotificationService) MarkAllRead(ctx context.Context, customerID uuid.UUID) error {
	return s.repo.MarkAllReadForCustomer(ctx, customerID)
}

// Delete removes a notification from the feed
func (s *NotificationService) Delete(ctx context.Context, userID uuid.UUID, isAdmin bool, id uuid.UUID) error {
	if _, err := s.authorized(ctx, userID, isAdmin, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *NotificationService) authorized(ctx context.Context, userID uuid.UUID, isAdmin bool, id uuid.UUID) (*notification.Notification, error) {
	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch n.Audience {
	case notification.AudienceAdmin:
		if !isAdmin {
			return nil, shared.ErrForbidden
		}
	case notification.AudienceCustomer:
		if n.RecipientID == nil || *n.RecipientID != userID {
			return nil, shared.ErrForbidden
		}
	default:
		return nil, shared.ErrForbidden
	}

	return n, nil
}

func buildFilter(filter ListFilter) shared.Filter {
	f := shared.DefaultFilter()
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	if filter.UnreadOnly {
		f.Filters["unread"] = true
	}
	return f
}
