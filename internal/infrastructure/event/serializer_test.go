package event

import (
	"testing"

	"github.com/coffeehouse/backend/internal/domain/cart"
	"github.com/coffeehouse/backend/internal/domain/order"
	"github.com/coffeehouse/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventSerializer_RoundTrip(t *testing.T) {
	serializer := NewEventSerializer()
	RegisterDomainEvents(serializer)

	item, err := order.NewOrderItem(uuid.New(), "Cà Phê Sữa Đá", valueobject.NewMoneyVNDFromInt(50000), 2)
	require.NoError(t, err)

	o, err := order.NewOrder("CF-20260829-101500-001", uuid.New(), "a@example.com",
		order.PaymentMethodCOD, order.ShippingInfo{
			RecipientName: "An",
			Phone:         "0901234567",
			Address:       "12 Lý Thường Kiệt",
		}, []order.OrderItem{item}, valueobject.NewMoneyVNDFromInt(20000))
	require.NoError(t, err)

	placed := o.GetDomainEvents()[0]

	payload, err := serializer.Serialize(placed)
	require.NoError(t, err)

	restored, err := serializer.Deserialize(order.EventTypeOrderPlaced, payload)
	require.NoError(t, err)

	restoredPlaced, ok := restored.(*order.OrderPlacedEvent)
	require.True(t, ok)
	assert.Equal(t, "CF-20260829-101500-001", restoredPlaced.OrderNumber)
	assert.Equal(t, placed.EventID(), restoredPlaced.EventID())
	assert.Equal(t, int64(120000), restoredPlaced.Total.IntPart())
	require.Len(t, restoredPlaced.Items, 1)
	assert.Equal(t, 2, restoredPlaced.Items[0].Quantity)
}

func TestEventSerializer_UnknownType(t *testing.T) {
	serializer := NewEventSerializer()

	_, err := serializer.Deserialize("Nope", []byte(`{}`))
	assert.Error(t, err)
}

func TestRegisterDomainEvents(t *testing.T) {
	serializer := NewEventSerializer()
	RegisterDomainEvents(serializer)

	for _, eventType := range []string{
		order.EventTypeOrderPlaced,
		order.EventTypeOrderStatusChanged,
		order.EventTypeOrderCancelled,
		order.EventTypeOrderPaid,
		cart.EventTypeCartChanged,
	} {
		assert.True(t, serializer.IsRegistered(eventType), eventType)
	}
}
