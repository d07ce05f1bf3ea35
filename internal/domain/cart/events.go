package cart

import (
	"github.com/coffeehouse/backend/internal/domain/shared"
	"github.com/coffeehouse/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// Aggregate type constant
const AggregateTypeCart = "Cart"

// Event type constants
const EventTypeCartChanged = "CartChanged"

// ChangedEvent is published once per cart mutation so other components
// (badges, session views) can refresh without polling
type ChangedEvent struct {
	shared.BaseDomainEvent
	OwnerID   string            `json:"owner_id"`
	ItemCount int               `json:"item_count"`
	Subtotal  valueobject.Money `json:"subtotal"`
}

// NewChangedEvent creates a ChangedEvent snapshot of the cart
// The aggregate ID is derived from the owner so events for one cart correlate
func NewChangedEvent(c *Cart) *ChangedEvent {
	aggregateID := uuid.NewSHA1(uuid.NameSpaceOID, []byte(c.OwnerID))
	return &ChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCartChanged, AggregateTypeCart, aggregateID),
		OwnerID:         c.OwnerID,
		ItemCount:       c.ItemCount(),
		Subtotal:        c.Subtotal(),
	}
}
