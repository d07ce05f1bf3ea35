package notification

import (
	"context"
	"fmt"

	"github.com/coffeehouse/backend/internal/domain/notification"
	"github.com/coffeehouse/backend/internal/domain/order"
	"github.com/coffeehouse/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// OrderEventHandler turns order lifecycle events into feed notifications.
// It runs behind the outbox processor, so a returned error means the event
// is retried rather than lost.
type OrderEventHandler struct {
	repo   notification.Repository
	logger *zap.Logger
}

// NewOrderEventHandler creates a new OrderEventHandler
func NewOrderEventHandler(repo notification.Repository, logger *zap.Logger) *OrderEventHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderEventHandler{repo: repo, logger: logger}
}

// EventTypes returns the order events this handler consumes
func (h *OrderEventHandler) EventTypes() []string {
	return []string{
		order.EventTypeOrderPlaced,
		order.EventTypeOrderStatusChanged,
		order.EventTypeOrderCancelled,
		order.EventTypeOrderPaid,
	}
}

// Handle fans an order event out to the affected feeds
func (h *OrderEventHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *order.OrderPlacedEvent:
		return h.handlePlaced(ctx, e)
	case *order.OrderStatusChangedEvent:
		return h.handleStatusChanged(ctx, e)
	case *order.OrderCancelledEvent:
		return h.handleCancelled(ctx, e)
	case *order.OrderPaidEvent:
		return h.handlePaid(ctx, e)
	default:
		h.logger.Warn("unexpected event type in order handler",
			zap.String("event_type", event.EventType()))
		return nil
	}
}

func (h *OrderEventHandler) handlePlaced(ctx context.Context, e *order.OrderPlacedEvent) error {
	customer, err := notification.NewCustomerNotification(
		e.CustomerID,
		notification.TypeOrderPlaced,
		fmt.Sprintf("Order %s placed", e.OrderNumber),
		fmt.Sprintf("We received your order of %d item(s), total %s VND.", len(e.Items), e.Total.Amount()),
		&e.OrderID,
	)
	if err != nil {
		return err
	}

	admin, err := notification.NewAdminNotification(
		notification.TypeOrderPlaced,
		fmt.Sprintf("New order %s", e.OrderNumber),
		fmt.Sprintf("%s placed an order for %s VND (%s).", e.CustomerEmail, e.Total.Amount(), e.PaymentMethod),
		&e.OrderID,
	)
	if err != nil {
		return err
	}

	return h.repo.SaveBatch(ctx, []*notification.Notification{customer, admin})
}

func (h *OrderEventHandler) handleStatusChanged(ctx context.Context, e *order.OrderStatusChangedEvent) error {
	// Cancellation carries its own event with the reason attached
	if e.NewStatus == order.OrderStatusCancelled {
		return nil
	}

	n, err := notification.NewCustomerNotification(
		e.CustomerID,
		notification.TypeOrderStatusChanged,
		fmt.Sprintf("Order %s %s", e.OrderNumber, statusLabel(e.NewStatus)),
		fmt.Sprintf("Your order moved from %s to %s.", e.OldStatus, e.NewStatus),
		&e.OrderID,
	)
	if err != nil {
		return err
	}

	return h.repo.Save(ctx, n)
}

func (h *OrderEventHandler) handleCancelled(ctx context.Context, e *order.OrderCancelledEvent) error {
	body := "Your order has been cancelled."
	if e.Reason != "" {
		body = fmt.Sprintf("Your order has been cancelled: %s", e.Reason)
	}

	customer, err := notification.NewCustomerNotification(
		e.CustomerID,
		notification.TypeOrderStatusChanged,
		fmt.Sprintf("Order %s cancelled", e.OrderNumber),
		body,
		&e.OrderID,
	)
	if err != nil {
		return err
	}

	admin, err := notification.NewAdminNotification(
		notification.TypeOrderStatusChanged,
		fmt.Sprintf("Order %s cancelled", e.OrderNumber),
		body,
		&e.OrderID,
	)
	if err != nil {
		return err
	}

	return h.repo.SaveBatch(ctx, []*notification.Notification{customer, admin})
}

func (h *OrderEventHandler) handlePaid(ctx context.Context, e *order.OrderPaidEvent) error {
	customer, err := notification.NewCustomerNotification(
		e.CustomerID,
		notification.TypePaymentConfirmed,
		fmt.Sprintf("Payment received for %s", e.OrderNumber),
		fmt.Sprintf("We confirmed your %s payment of %s VND.", e.PaymentMethod, e.Total.Amount()),
		&e.OrderID,
	)
	if err != nil {
		return err
	}

	admin, err := notification.NewAdminNotification(
		notification.TypePaymentConfirmed,
		fmt.Sprintf("Order %s paid", e.OrderNumber),
		fmt.Sprintf("Payment of %s VND confirmed via %s.", e.Total.Amount(), e.PaymentMethod),
		&e.OrderID,
	)
	if err != nil {
		return err
	}

	return h.repo.SaveBatch(ctx, []*notification.Notification{customer, admin})
}

func statusLabel(status order.OrderStatus) string {
	switch status {
	case order.OrderStatusConfirmed:
		return "confirmed"
	case order.OrderStatusShipping:
		return "is on its way"
	case order.OrderStatusDelivered:
		return "delivered"
	default:
		return string(status)
	}
}

var _ shared.EventHandler = (*OrderEventHandler)(nil)
