package notification

import (
	"strings"
	"time"

	"github.com/coffeehouse/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Type classifies a notification for display
type Type string

const (
	TypeOrderPlaced        = Type("order_placed")
	TypeOrderStatusChanged = Type("order_status_changed")
	TypePaymentConfirmed   = Type("payment_confirmed")
)

// Audience is who the notification is for
type Audience string

const (
	// AudienceCustomer targets a single customer account
	AudienceCustomer Audience = "customer"
	// AudienceAdmin targets all staff accounts
	AudienceAdmin Audience = "admin"
)

// Notification is an in-app message shown in the notification feed
type Notification struct {
	shared.BaseEntity
	RecipientID *uuid.UUID `gorm:"type:uuid;index"`
	Audience    Audience   `gorm:"type:varchar(20);not null;index"`
	Type        Type       `gorm:"type:varchar(40);not null"`
	Title       string     `gorm:"type:varchar(200);not null"`
	Body        string     `gorm:"type:varchar(1000)"`
	OrderID     *uuid.UUID `gorm:"type:uuid;index"`
	ReadAt      *time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for GORM
func (Notification) TableName() string {
	return "notifications"
}

// NewCustomerNotification creates a notification for one customer
func NewCustomerNotification(recipientID uuid.UUID, typ Type, title, body string, orderID *uuid.UUID) (*Notification, error) {
	if recipientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_RECIPIENT", "Recipient is required")
	}
	if err := validateTitle(title); err != nil {
		return nil, err
	}

	return &Notification{
		BaseEntity:  shared.NewBaseEntity(),
		RecipientID: &recipientID,
		Audience:    AudienceCustomer,
		Type:        typ,
		Title:       title,
		Body:        body,
		OrderID:     orderID,
	}, nil
}

// NewAdminNotification creates a notification for the staff feed
func NewAdminNotification(typ Type, title, body string, orderID *uuid.UUID) (*Notification, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}

	return &Notification{
		BaseEntity: shared.NewBaseEntity(),
		Audience:   AudienceAdmin,
		Type:       typ,
		Title:      title,
		Body:       body,
		OrderID:    orderID,
	}, nil
}

// MarkRead stamps the notification as read
// Marking twice keeps the first timestamp
func (n *Notification) MarkRead() {
	if n.ReadAt != nil {
		return
	}
	now := time.Now()
	n.ReadAt = &now
}

// IsRead reports whether the notification has been read
func (n *Notification) IsRead() bool {
	return n.ReadAt != nil
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return shared.NewDomainError("INVALID_TITLE", "Notification title is required")
	}
	if len(title) > 200 {
		return shared.NewDomainError("INVALID_TITLE", "Notification title cannot exceed 200 characters")
	}
	return nil
}
