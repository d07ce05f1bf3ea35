package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/coffeehouse/backend/internal/domain/notification"
	"github.com/coffeehouse/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormNotificationRepository implements notification.Repository using GORM
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GormNotificationRepository
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// Save persists a notification
func (r *GormNotificationRepository) Save(ctx context.Context, n *notification.Notification) error {
	return r.db.WithContext(ctx).Save(n).Error
}

// SaveBatch persists multiple notifications in one transaction
func (r *GormNotificationRepository) SaveBatch(ctx context.Context, ns []*notification.Notification) error {
	if len(ns) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(ns).Error
}

// FindByID finds a notification by ID
func (r *GormNotificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*notification.Notification, error) {
	var n notification.Notification
	if err := r.db.WithContext(ctx).First(&n, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &n, nil
}

// FindForCustomer finds a customer's notifications, newest first
func (r *GormNotificationRepository) FindForCustomer(ctx context.Context, recipientID uuid.UUID, filter shared.Filter) ([]notification.Notification, error) {
	var ns []notification.Notification
	query := r.db.WithContext(ctx).
		Where("audience = ? AND recipient_id = ?", notification.AudienceCustomer, recipientID).
		Order("created_at DESC")
	query = r.applyUnread(query, filter)
	query = r.paginate(query, filter)

	if err := query.Find(&ns).Error; err != nil {
		return nil, err
	}
	return ns, nil
}

// FindForAdmins finds the staff feed, newest first
func (r *GormNotificationRepository) FindForAdmins(ctx context.Context, filter shared.Filter) ([]notification.Notification, error) {
	var ns []notification.Notification
	query := r.db.WithContext(ctx).
		Where("audience = ?", notification.AudienceAdmin).
		Order("created_at DESC")
	query = r.applyUnread(query, filter)
	query = r.paginate(query, filter)

	if err := query.Find(&ns).Error; err != nil {
		return nil, err
	}
	return ns, nil
}

// CountUnreadForCustomer counts a customer's unread notifications
func (r *GormNotificationRepository) CountUnreadForCustomer(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&notification.Notification{}).
		Where("audience = ? AND recipient_id = ? AND read_at IS NULL",
			notification.AudienceCustomer, recipientID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// MarkAllReadForCustomer marks all of a customer's notifications read
func (r *GormNotificationRepository) MarkAllReadForCustomer(ctx context.Context, recipientID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&notification.Notification{}).
		Where("audience = ? AND recipient_id = ? AND read_at IS NULL",
			notification.AudienceCustomer, recipientID).
		Update("read_at", time.Now()).Error
}

// Update persists read-state changes
func (r *GormNotificationRepository) Update(ctx context.Context, n *notification.Notification) error {
	return r.db.WithContext(ctx).Save(n).Error
}

// Delete soft-deletes a notification
func (r *GormNotificationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&notification.Notification{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormNotificationRepository) applyUnread(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if unread, ok := filter.Filters["unread"].(bool); ok && unread {
		query = query.Where("read_at IS NULL")
	}
	return query
}

func (r *GormNotificationRepository) paginate(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	return query
}

var _ notification.Repository = (*GormNotificationRepository)(nil)
