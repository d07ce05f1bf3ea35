package event

import (
	"github.com/coffeehouse/backend/internal/domain/cart"
	"github.com/coffeehouse/backend/internal/domain/catalog"
	"github.com/coffeehouse/backend/internal/domain/identity"
	"github.com/coffeehouse/backend/internal/domain/order"
)

// RegisterDomainEvents registers every event type the application emits
// so the outbox processor can deserialize stored payloads
func RegisterDomainEvents(serializer *EventSerializer) {
	// catalog
	serializer.Register(catalog.EventTypeProductCreated, &catalog.ProductCreatedEvent{})
	serializer.Register(catalog.EventTypeProductUpdated, &catalog.ProductUpdatedEvent{})
	serializer.Register(catalog.EventTypeProductPriceChanged, &catalog.ProductPriceChangedEvent{})
	serializer.Register(catalog.EventTypeProductStatusChanged, &catalog.ProductStatusChangedEvent{})
	serializer.Register(catalog.EventTypeProductDeleted, &catalog.ProductDeletedEvent{})

	// orders
	serializer.Register(order.EventTypeOrderPlaced, &order.OrderPlacedEvent{})
	serializer.Register(order.EventTypeOrderStatusChanged, &order.OrderStatusChangedEvent{})
	serializer.Register(order.EventTypeOrderCancelled, &order.OrderCancelledEvent{})
	serializer.Register(order.EventTypeOrderPaid, &order.OrderPaidEvent{})

	// cart
	serializer.Register(cart.EventTypeCartChanged, &cart.ChangedEvent{})

	// identity
	serializer.Register(identity.EventTypeUserRegistered, &identity.UserRegisteredEvent{})
	serializer.Register(identity.EventTypeUserRoleChanged, &identity.UserRoleChangedEvent{})
}
