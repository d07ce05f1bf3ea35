package notification

import (
	"context"
	"testing"

	"github.com/coffeehouse/backend/internal/domain/notification"
	"github.com/coffeehouse/backend/internal/domain/order"
	"github.com/coffeehouse/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func placedTestOrder(t *testing.T) *order.Order {
	t.Helper()

	item, err := order.NewOrderItem(uuid.New(), "Bạc Xỉu", valueobject.NewMoneyVNDFromInt(45000), 1)
	require.NoError(t, err)

	o, err := order.NewOrder(
		"CF-20260829-110000-002",
		uuid.New(),
		"minh@example.com",
		order.PaymentMethodQR,
		order.ShippingInfo{
			RecipientName: "Lê Văn Minh",
			Phone:         "0912345678",
			Address:       "45 Lê Lợi, Quận 1, TP.HCM",
		},
		[]order.OrderItem{item},
		valueobject.ZeroVND(),
	)
	require.NoError(t, err)
	return o
}

func TestOrderEventHandler_EventTypes(t *testing.T) {
	handler := NewOrderEventHandler(new(MockRepository), nil)

	types := handler.EventTypes()

	assert.Contains(t, types, order.EventTypeOrderPlaced)
	assert.Contains(t, types, order.EventTypeOrderStatusChanged)
	assert.Contains(t, types, order.EventTypeOrderCancelled)
	assert.Contains(t, types, order.EventTypeOrderPaid)
}

func TestOrderEventHandler_OrderPlaced(t *testing.T) {
	t.Run("should notify the customer and the staff feed", func(t *testing.T) {
		repo := new(MockRepository)
		handler := NewOrderEventHandler(repo, nil)

		o := placedTestOrder(t)
		event := order.NewOrderPlacedEvent(o)

		repo.On("SaveBatch", mock.Anything, mock.MatchedBy(func(ns []*notification.Notification) bool {
			if len(ns) != 2 {
				return false
			}
			customer, admin := ns[0], ns[1]
			return customer.Audience == notification.AudienceCustomer &&
				customer.RecipientID != nil && *customer.RecipientID == o.CustomerID &&
				customer.OrderID != nil && *customer.OrderID == o.ID &&
				admin.Audience == notification.AudienceAdmin &&
				admin.RecipientID == nil
		})).Return(nil)

		err := handler.Handle(context.Background(), event)

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("should surface repository errors for retry", func(t *testing.T) {
		repo := new(MockRepository)
		handler := NewOrderEventHandler(repo, nil)

		repo.On("SaveBatch", mock.Anything, mock.Anything).Return(assert.AnError)

		err := handler.Handle(context.Background(), order.NewOrderPlacedEvent(placedTestOrder(t)))

		assert.Error(t, err)
	})
}

func TestOrderEventHandler_StatusChanged(t *testing.T) {
	t.Run("should notify the customer on confirmation", func(t *testing.T) {
		repo := new(MockRepository)
		handler := NewOrderEventHandler(repo, nil)

		o := placedTestOrder(t)
		require.NoError(t, o.Confirm())
		event := order.NewOrderStatusChangedEvent(o, order.OrderStatusPending)

		repo.On("Save", mock.Anything, mock.MatchedBy(func(n *notification.Notification) bool {
			return n.Audience == notification.AudienceCustomer &&
				n.Type == notification.TypeOrderStatusChanged
		})).Return(nil)

		require.NoError(t, handler.Handle(context.Background(), event))
		repo.AssertExpectations(t)
	})

	t.Run("should skip cancellation since the cancelled event covers it", func(t *testing.T) {
		repo := new(MockRepository)
		handler := NewOrderEventHandler(repo, nil)

		o := placedTestOrder(t)
		require.NoError(t, o.Cancel("out of stock"))
		event := order.NewOrderStatusChangedEvent(o, order.OrderStatusPending)

		require.NoError(t, handler.Handle(context.Background(), event))
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "SaveBatch", mock.Anything, mock.Anything)
	})
}

func TestOrderEventHandler_Cancelled(t *testing.T) {
	repo := new(MockRepository)
	handler := NewOrderEventHandler(repo, nil)

	o := placedTestOrder(t)
	require.NoError(t, o.Cancel("Hết hàng"))
	event := order.NewOrderCancelledEvent(o, "Hết hàng")

	repo.On("SaveBatch", mock.Anything, mock.MatchedBy(func(ns []*notification.Notification) bool {
		return len(ns) == 2 &&
			ns[0].Audience == notification.AudienceCustomer &&
			ns[1].Audience == notification.AudienceAdmin &&
			assert.ObjectsAreEqual("Your order has been cancelled: Hết hàng", ns[0].Body)
	})).Return(nil)

	require.NoError(t, handler.Handle(context.Background(), event))
	repo.AssertExpectations(t)
}

func TestOrderEventHandler_Paid(t *testing.T) {
	repo := new(MockRepository)
	handler := NewOrderEventHandler(repo, nil)

	o := placedTestOrder(t)
	require.NoError(t, o.MarkPaid())
	event := order.NewOrderPaidEvent(o)

	repo.On("SaveBatch", mock.Anything, mock.MatchedBy(func(ns []*notification.Notification) bool {
		return len(ns) == 2 &&
			ns[0].Type == notification.TypePaymentConfirmed &&
			ns[1].Type == notification.TypePaymentConfirmed
	})).Return(nil)

	require.NoError(t, handler.Handle(context.Background(), event))
	repo.AssertExpectations(t)
}
