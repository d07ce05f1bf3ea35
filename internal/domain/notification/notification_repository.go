package notification

import (
	"context"

	"github.com/coffeehouse/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository defines the interface for notification persistence
type Repository interface {
	// Save persists a notification
	Save(ctx context.Context, n *Notification) error

	// SaveBatch persists multiple notifications in one transaction
	SaveBatch(ctx context.Context, ns []*Notification) error

	// FindByID finds a notification by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Notification, error)

	// FindForCustomer finds a customer's notifications, newest first
	FindForCustomer(ctx context.Context, recipientID uuid.UUID, filter shared.Filter) ([]Notification, error)

	// FindForAdmins finds the staff feed, newest first
	FindForAdmins(ctx context.Context, filter shared.Filter) ([]Notification, error)

	// CountUnreadForCustomer counts a customer's unread notifications
	CountUnreadForCustomer(ctx context.Context, recipientID uuid.UUID) (int64, error)

	// MarkAllReadForCustomer marks all of a customer's notifications read
	MarkAllReadForCustomer(ctx context.Context, recipientID uuid.UUID) error

	// Update persists read-state changes
	Update(ctx context.Context, n *Notification) error

	// Delete soft-deletes a notification
	Delete(ctx context.Context, id uuid.UUID) error
}
