package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coffeehouse/backend/internal/domain/cart"
	"github.com/coffeehouse/backend/internal/domain/shared/valueobject"
)

func TestInMemoryCartStore_GetReturnsEmptyCartWhenMissing(t *testing.T) {
	store := NewInMemoryCartStore(time.Hour)
	defer store.Close()

	c, err := store.Get(context.Background(), "guest-123")

	require.NoError(t, err)
	assert.Equal(t, "guest-123", c.OwnerID)
	assert.True(t, c.IsEmpty())
}

func TestInMemoryCartStore_SaveAndGet(t *testing.T) {
	store := NewInMemoryCartStore(time.Hour)
	defer store.Close()

	c := cart.NewCart("guest-123")
	err := c.AddItem(uuid.New(), "Cà Phê Sữa Đá", valueobject.NewMoneyVNDFromInt(50000), "", 2)
	require.NoError(t, err)
	require.NoError(t, store.Save(context.Background(), c))

	loaded, err := store.Get(context.Background(), "guest-123")
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.ItemCount())
	assert.Equal(t, int64(100000), loaded.Subtotal().IntPart())
}

func TestInMemoryCartStore_GetReturnsCopy(t *testing.T) {
	store := NewInMemoryCartStore(time.Hour)
	defer store.Close()

	c := cart.NewCart("guest-123")
	require.NoError(t, c.AddItem(uuid.New(), "Trà Đào", valueobject.NewMoneyVNDFromInt(35000), "", 1))
	require.NoError(t, store.Save(context.Background(), c))

	first, err := store.Get(context.Background(), "guest-123")
	require.NoError(t, err)
	first.Clear()

	second, err := store.Get(context.Background(), "guest-123")
	require.NoError(t, err)
	assert.Equal(t, 1, second.ItemCount())
}

func TestInMemoryCartStore_Delete(t *testing.T) {
	store := NewInMemoryCartStore(time.Hour)
	defer store.Close()

	c := cart.NewCart("guest-123")
	require.NoError(t, c.AddItem(uuid.New(), "Bạc Xỉu", valueobject.NewMoneyVNDFromInt(45000), "", 1))
	require.NoError(t, store.Save(context.Background(), c))
	require.NoError(t, store.Delete(context.Background(), "guest-123"))

	loaded, err := store.Get(context.Background(), "guest-123")
	require.NoError(t, err)
	assert.True(t, loaded.IsEmpty())
	assert.Equal(t, 0, store.Size())

	// Deleting again is not an error
	assert.NoError(t, store.Delete(context.Background(), "guest-123"))
}

func TestInMemoryCartStore_ExpiredCartTreatedAsEmpty(t *testing.T) {
	store := NewInMemoryCartStore(10 * time.Millisecond)
	defer store.Close()

	c := cart.NewCart("guest-123")
	require.NoError(t, c.AddItem(uuid.New(), "Cold Brew", valueobject.NewMoneyVNDFromInt(55000), "", 1))
	require.NoError(t, store.Save(context.Background(), c))

	time.Sleep(20 * time.Millisecond)

	loaded, err := store.Get(context.Background(), "guest-123")
	require.NoError(t, err)
	assert.True(t, loaded.IsEmpty())
}
