package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/coffeehouse/backend/internal/domain/shared"
	"github.com/coffeehouse/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// OrderStatus represents where an order is in its lifecycle
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipping  OrderStatus = "shipping"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// IsValid checks if the status is one of the known values
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipping,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanTransitionTo checks if the status can move to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return target == OrderStatusConfirmed || target == OrderStatusCancelled
	case OrderStatusConfirmed:
		return target == OrderStatusShipping || target == OrderStatusCancelled
	case OrderStatusShipping:
		return target == OrderStatusDelivered || target == OrderStatusCancelled
	}
	return false
}

// PaymentMethod is how the customer chose to pay
type PaymentMethod string

const (
	PaymentMethodCOD     PaymentMethod = "cod"
	PaymentMethodBanking PaymentMethod = "banking"
	PaymentMethodQR      PaymentMethod = "qr"
)

// IsValid checks if the payment method is one of the known values
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCOD, PaymentMethodBanking, PaymentMethodQR:
		return true
	}
	return false
}

// PaymentStatus tracks whether the order has been paid
type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "unpaid"
	PaymentStatusPaid   PaymentStatus = "paid"
)

// ShippingInfo is the delivery address captured at checkout
type ShippingInfo struct {
	RecipientName string `gorm:"type:varchar(100);not null" json:"recipient_name"`
	Phone         string `gorm:"type:varchar(20);not null" json:"phone"`
	Address       string `gorm:"type:varchar(500);not null" json:"address"`
	City          string `gorm:"type:varchar(100)" json:"city,omitempty"`
	District      string `gorm:"type:varchar(100)" json:"district,omitempty"`
	Ward          string `gorm:"type:varchar(100)" json:"ward,omitempty"`
	Note          string `gorm:"type:varchar(500)" json:"note,omitempty"`
}

// Validate checks the shipping information is complete
func (s ShippingInfo) Validate() error {
	if strings.TrimSpace(s.RecipientName) == "" {
		return shared.NewDomainError("INVALID_SHIPPING_INFO", "Recipient name is required")
	}
	if strings.TrimSpace(s.Phone) == "" {
		return shared.NewDomainError("INVALID_SHIPPING_INFO", "Phone number is required")
	}
	if strings.TrimSpace(s.Address) == "" {
		return shared.NewDomainError("INVALID_SHIPPING_INFO", "Delivery address is required")
	}
	return nil
}

// OrderItem is a line item snapshot taken at checkout
// Price changes in the catalog never affect placed orders
type OrderItem struct {
	shared.BaseEntity
	OrderID     uuid.UUID         `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID         `gorm:"type:uuid;not null"`
	ProductName string            `gorm:"type:varchar(200);not null"`
	UnitPrice   valueobject.Money `gorm:"type:decimal(18,0);not null"`
	Quantity    int               `gorm:"not null"`
	LineTotal   valueobject.Money `gorm:"type:decimal(18,0);not null"`
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// Order is the aggregate root for a customer order
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber   string            `gorm:"type:varchar(40);not null;uniqueIndex"`
	CustomerID    uuid.UUID         `gorm:"type:uuid;not null;index"`
	CustomerEmail string            `gorm:"type:varchar(200);not null"`
	Status        OrderStatus       `gorm:"type:varchar(20);not null;default:'pending';index"`
	PaymentMethod PaymentMethod     `gorm:"type:varchar(20);not null"`
	PaymentStatus PaymentStatus     `gorm:"type:varchar(20);not null;default:'unpaid'"`
	Shipping      ShippingInfo      `gorm:"embedded;embeddedPrefix:shipping_"`
	Items         []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Subtotal      valueobject.Money `gorm:"type:decimal(18,0);not null"`
	ShippingFee   valueobject.Money `gorm:"type:decimal(18,0);not null"`
	Total         valueobject.Money `gorm:"type:decimal(18,0);not null"`

	ConfirmedAt  *time.Time `gorm:"index"`
	ShippedAt    *time.Time
	DeliveredAt  *time.Time
	CancelledAt  *time.Time
	PaidAt       *time.Time
	CancelReason string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrderItem builds a line item snapshot from catalog data
func NewOrderItem(productID uuid.UUID, productName string, unitPrice valueobject.Money, quantity int) (OrderItem, error) {
	if quantity <= 0 {
		return OrderItem{}, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return OrderItem{}, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	return OrderItem{
		BaseEntity:  shared.NewBaseEntity(),
		ProductID:   productID,
		ProductName: productName,
		UnitPrice:   unitPrice,
		Quantity:    quantity,
		LineTotal:   unitPrice.MulInt(int64(quantity)),
	}, nil
}

// NewOrder creates a pending order from checkout data
// Totals are computed here and never recomputed afterwards
func NewOrder(
	orderNumber string,
	customerID uuid.UUID,
	customerEmail string,
	method PaymentMethod,
	shipping ShippingInfo,
	items []OrderItem,
	shippingFee valueobject.Money,
) (*Order, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number is required")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer is required")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unknown payment method")
	}
	if err := shipping.Validate(); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, shared.ErrEmptyCart
	}
	if shippingFee.IsNegative() {
		return nil, shared.NewDomainError("INVALID_SHIPPING_FEE", "Shipping fee cannot be negative")
	}

	subtotal := valueobject.ZeroVND()
	for _, item := range items {
		subtotal = subtotal.MustAdd(item.LineTotal)
	}

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		CustomerID:        customerID,
		CustomerEmail:     customerEmail,
		Status:            OrderStatusPending,
		PaymentMethod:     method,
		PaymentStatus:     PaymentStatusUnpaid,
		Shipping:          shipping,
		Items:             items,
		Subtotal:          subtotal,
		ShippingFee:       shippingFee,
		Total:             subtotal.MustAdd(shippingFee),
	}

	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}

	order.AddDomainEvent(NewOrderPlacedEvent(order))

	return order, nil
}

// Confirm moves a pending order to confirmed
func (o *Order) Confirm() error {
	if err := o.transitionTo(OrderStatusConfirmed); err != nil {
		return err
	}

	now := time.Now()
	o.ConfirmedAt = &now

	return nil
}

// StartShipping moves a confirmed order to shipping
func (o *Order) StartShipping() error {
	if err := o.transitionTo(OrderStatusShipping); err != nil {
		return err
	}

	now := time.Now()
	o.ShippedAt = &now

	return nil
}

// MarkDelivered completes the order
// Cash-on-delivery orders are considered paid on delivery
func (o *Order) MarkDelivered() error {
	if err := o.transitionTo(OrderStatusDelivered); err != nil {
		return err
	}

	now := time.Now()
	o.DeliveredAt = &now

	if o.PaymentMethod == PaymentMethodCOD && o.PaymentStatus == PaymentStatusUnpaid {
		o.PaymentStatus = PaymentStatusPaid
		o.PaidAt = &now
	}

	return nil
}

// Cancel cancels the order with a reason
func (o *Order) Cancel(reason string) error {
	if err := o.transitionTo(OrderStatusCancelled); err != nil {
		return err
	}

	now := time.Now()
	o.CancelledAt = &now
	o.CancelReason = reason

	o.AddDomainEvent(NewOrderCancelledEvent(o, reason))

	return nil
}

// TransitionTo moves the order to the target status via the proper operation
func (o *Order) TransitionTo(target OrderStatus) error {
	switch target {
	case OrderStatusConfirmed:
		return o.Confirm()
	case OrderStatusShipping:
		return o.StartShipping()
	case OrderStatusDelivered:
		return o.MarkDelivered()
	case OrderStatusCancelled:
		return o.Cancel("")
	default:
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown order status: %s", target))
	}
}

func (o *Order) transitionTo(target OrderStatus) error {
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION",
			fmt.Sprintf("Cannot transition order from %s to %s", o.Status, target))
	}

	oldStatus := o.Status
	o.Status = target
	o.UpdatedAt = time.Now()

	o.AddDomainEvent(NewOrderStatusChangedEvent(o, oldStatus))

	return nil
}

// MarkPaid records a successful payment
func (o *Order) MarkPaid() error {
	if o.PaymentStatus == PaymentStatusPaid {
		return shared.NewDomainError("ALREADY_PAID", "Order has already been paid")
	}
	if o.Status == OrderStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Cannot pay a cancelled order")
	}

	now := time.Now()
	o.PaymentStatus = PaymentStatusPaid
	o.PaidAt = &now
	o.UpdatedAt = now

	o.AddDomainEvent(NewOrderPaidEvent(o))

	return nil
}

// ItemCount returns the total quantity across all line items
func (o *Order) ItemCount() int {
	count := 0
	for _, item := range o.Items {
		count += item.Quantity
	}
	return count
}
