package notification

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCustomerNotification(t *testing.T) {
	recipientID := uuid.New()
	orderID := uuid.New()

	n, err := NewCustomerNotification(recipientID, TypeOrderPlaced, "Order placed", "Your order CF-1 was received", &orderID)
	require.NoError(t, err)
	assert.Equal(t, AudienceCustomer, n.Audience)
	require.NotNil(t, n.RecipientID)
	assert.Equal(t, recipientID, *n.RecipientID)
	assert.False(t, n.IsRead())

	_, err = NewCustomerNotification(uuid.Nil, TypeOrderPlaced, "Order placed", "", nil)
	assert.Error(t, err)

	_, err = NewCustomerNotification(recipientID, TypeOrderPlaced, "  ", "", nil)
	assert.Error(t, err)
}

func TestNewAdminNotification(t *testing.T) {
	n, err := NewAdminNotification(TypeOrderPlaced, "New order", "Order CF-1 needs confirmation", nil)
	require.NoError(t, err)
	assert.Equal(t, AudienceAdmin, n.Audience)
	assert.Nil(t, n.RecipientID)
}

func TestNotification_MarkRead(t *testing.T) {
	n, err := NewAdminNotification(TypeOrderPlaced, "New order", "", nil)
	require.NoError(t, err)

	n.MarkRead()
	require.True(t, n.IsRead())
	first := *n.ReadAt

	n.MarkRead()
	assert.Equal(t, first, *n.ReadAt)
}
