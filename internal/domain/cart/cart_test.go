package cart

import (
	"testing"

	"github.com/coffeehouse/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCart_AddItem(t *testing.T) {
	c := NewCart("user-1")
	productID := uuid.New()
	price := valueobject.NewMoneyVNDFromInt(50000)

	require.NoError(t, c.AddItem(productID, "Cà Phê Sữa Đá", price, "", 1))
	assert.Equal(t, 1, c.ItemCount())

	// same product merges into one line
	require.NoError(t, c.AddItem(productID, "Cà Phê Sữa Đá", price, "", 2))
	require.Len(t, c.Items, 1)
	assert.Equal(t, 3, c.Items[0].Quantity)

	// different product gets its own line
	require.NoError(t, c.AddItem(uuid.New(), "Trà Đào", valueobject.NewMoneyVNDFromInt(35000), "", 1))
	assert.Len(t, c.Items, 2)
	assert.Equal(t, 4, c.ItemCount())

	assert.Error(t, c.AddItem(uuid.New(), "Espresso", price, "", 0))
	assert.Error(t, c.AddItem(uuid.New(), "Espresso", price, "", -2))
}

func TestCart_AddItemQuantityCap(t *testing.T) {
	c := NewCart("user-1")
	productID := uuid.New()
	price := valueobject.NewMoneyVNDFromInt(50000)

	require.NoError(t, c.AddItem(productID, "Espresso", price, "", 98))
	require.NoError(t, c.AddItem(productID, "Espresso", price, "", 10))
	assert.Equal(t, MaxQuantityPerItem, c.Items[0].Quantity)

	c2 := NewCart("user-2")
	require.NoError(t, c2.AddItem(productID, "Espresso", price, "", 500))
	assert.Equal(t, MaxQuantityPerItem, c2.Items[0].Quantity)
}

func TestCart_UpdateQuantity(t *testing.T) {
	c := NewCart("user-1")
	productID := uuid.New()
	require.NoError(t, c.AddItem(productID, "Espresso", valueobject.NewMoneyVNDFromInt(40000), "", 2))

	require.NoError(t, c.UpdateQuantity(productID, 5))
	assert.Equal(t, 5, c.Items[0].Quantity)

	// below one floors at one, never removes
	require.NoError(t, c.UpdateQuantity(productID, 0))
	assert.Equal(t, 1, c.Items[0].Quantity)

	assert.Error(t, c.UpdateQuantity(uuid.New(), 3))
}

func TestCart_RemoveItem(t *testing.T) {
	c := NewCart("user-1")
	first := uuid.New()
	second := uuid.New()
	price := valueobject.NewMoneyVNDFromInt(40000)
	require.NoError(t, c.AddItem(first, "Espresso", price, "", 1))
	require.NoError(t, c.AddItem(second, "Latte", price, "", 1))

	require.NoError(t, c.RemoveItem(first))
	require.Len(t, c.Items, 1)
	assert.Equal(t, second, c.Items[0].ProductID)

	assert.Error(t, c.RemoveItem(first))
}

func TestCart_Subtotal(t *testing.T) {
	c := NewCart("user-1")
	assert.Equal(t, int64(0), c.Subtotal().IntPart())

	require.NoError(t, c.AddItem(uuid.New(), "Cà Phê Sữa Đá", valueobject.NewMoneyVNDFromInt(50000), "", 2))
	require.NoError(t, c.AddItem(uuid.New(), "Croissant", valueobject.NewMoneyVNDFromInt(30000), "", 1))

	assert.Equal(t, int64(130000), c.Subtotal().IntPart())
}

func TestCart_Clear(t *testing.T) {
	c := NewCart("user-1")
	require.NoError(t, c.AddItem(uuid.New(), "Espresso", valueobject.NewMoneyVNDFromInt(40000), "", 2))

	c.Clear()
	assert.True(t, c.IsEmpty())
	assert.Equal(t, 0, c.ItemCount())
	assert.NotNil(t, c.Items)
}

func TestNewChangedEvent(t *testing.T) {
	c := NewCart("user-1")
	require.NoError(t, c.AddItem(uuid.New(), "Espresso", valueobject.NewMoneyVNDFromInt(40000), "", 2))

	event := NewChangedEvent(c)
	assert.Equal(t, EventTypeCartChanged, event.EventType())
	assert.Equal(t, "user-1", event.OwnerID)
	assert.Equal(t, 2, event.ItemCount)
	assert.Equal(t, int64(80000), event.Subtotal.IntPart())

	// same owner yields the same aggregate ID across events
	assert.Equal(t, event.AggregateID(), NewChangedEvent(c).AggregateID())
}
