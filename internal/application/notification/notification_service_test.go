package notification

import (
	"context"
	"testing"

	"github.com/coffeehouse/backend/internal/domain/notification"
	"github.com/coffeehouse/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRepository is a mock implementation of notification.Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Save(ctx context.Context, n *notification.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockRepository) SaveBatch(ctx context.Context, ns []*notification.Notification) error {
	args := m.Called(ctx, ns)
	return args.Error(0)
}

func (m *MockRepository) FindByID(ctx context.Context, id uuid.UUID) (*notification.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notification.Notification), args.Error(1)
}

func (m *MockRepository) FindForCustomer(ctx context.Context, recipientID uuid.UUID, filter shared.Filter) ([]notification.Notification, error) {
	args := m.Called(ctx, recipientID, filter)
	return args.Get(0).([]notification.Notification), args.Error(1)
}

func (m *MockRepository) FindForAdmins(ctx context.Context, filter shared.Filter) ([]notification.Notification, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]notification.Notification), args.Error(1)
}

func (m *MockRepository) CountUnreadForCustomer(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	args := m.Called(ctx, recipientID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) MarkAllReadForCustomer(ctx context.Context, recipientID uuid.UUID) error {
	args := m.Called(ctx, recipientID)
	return args.Error(0)
}

func (m *MockRepository) Update(ctx context.Context, n *notification.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newCustomerNotification(t *testing.T, recipientID uuid.UUID) *notification.Notification {
	t.Helper()
	orderID := uuid.New()
	n, err := notification.NewCustomerNotification(
		recipientID,
		notification.TypeOrderPlaced,
		"Order CF-20260829-100000-001 placed",
		"We received your order.",
		&orderID,
	)
	require.NoError(t, err)
	return n
}

func TestNotificationService_ListForCustomer(t *testing.T) {
	t.Run("should forward the unread filter", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewNotificationService(repo)

		customerID := uuid.New()
		n := newCustomerNotification(t, customerID)
		repo.On("FindForCustomer", mock.Anything, customerID, mock.MatchedBy(func(f shared.Filter) bool {
			unread, _ := f.Filters["unread"].(bool)
			return unread && f.Page == 1 && f.PageSize == 20
		})).Return([]notification.Notification{*n}, nil)

		items, err := svc.ListForCustomer(context.Background(), customerID, ListFilter{UnreadOnly: true})

		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "customer", items[0].Audience)
		assert.False(t, items[0].Read)
	})
}

func TestNotificationService_UnreadCount(t *testing.T) {
	repo := new(MockRepository)
	svc := NewNotificationService(repo)

	customerID := uuid.New()
	repo.On("CountUnreadForCustomer", mock.Anything, customerID).Return(int64(4), nil)

	resp, err := svc.UnreadCount(context.Background(), customerID)

	require.NoError(t, err)
	assert.Equal(t, int64(4), resp.Unread)
}

func TestNotificationService_MarkRead(t *testing.T) {
	t.Run("should mark own notification read", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewNotificationService(repo)

		customerID := uuid.New()
		n := newCustomerNotification(t, customerID)
		repo.On("FindByID", mock.Anything, n.ID).Return(n, nil)
		repo.On("Update", mock.Anything, n).Return(nil)

		resp, err := svc.MarkRead(context.Background(), customerID, false, n.ID)

		require.NoError(t, err)
		assert.True(t, resp.Read)
		assert.NotNil(t, resp.ReadAt)
	})

	t.Run("should reject another customer's notification", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewNotificationService(repo)

		n := newCustomerNotification(t, uuid.New())
		repo.On("FindByID", mock.Anything, n.ID).Return(n, nil)

		_, err := svc.MarkRead(context.Background(), uuid.New(), false, n.ID)

		assert.ErrorIs(t, err, shared.ErrForbidden)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("should keep the admin feed away from customers", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewNotificationService(repo)

		n, err := notification.NewAdminNotification(notification.TypeOrderPlaced, "New order", "", nil)
		require.NoError(t, err)
		repo.On("FindByID", mock.Anything, n.ID).Return(n, nil)

		_, err = svc.MarkRead(context.Background(), uuid.New(), false, n.ID)

		assert.ErrorIs(t, err, shared.ErrForbidden)
	})

	t.Run("should let an admin mark the staff feed", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewNotificationService(repo)

		n, err := notification.NewAdminNotification(notification.TypeOrderPlaced, "New order", "", nil)
		require.NoError(t, err)
		repo.On("FindByID", mock.Anything, n.ID).Return(n, nil)
		repo.On("Update", mock.Anything, n).Return(nil)

		resp, err := svc.MarkRead(context.Background(), uuid.New(), true, n.ID)

		require.NoError(t, err)
		assert.True(t, resp.Read)
	})
}

func TestNotificationService_Delete(t *testing.T) {
	t.Run("should delete own notification", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewNotificationService(repo)

		customerID := uuid.New()
		n := newCustomerNotification(t, customerID)
		repo.On("FindByID", mock.Anything, n.ID).Return(n, nil)
		repo.On("Delete", mock.Anything, n.ID).Return(nil)

		err := svc.Delete(context.Background(), customerID, false, n.ID)

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("should reject a foreign delete", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewNotificationService(repo)

		n := newCustomerNotification(t, uuid.New())
		repo.On("FindByID", mock.Anything, n.ID).Return(n, nil)

		err := svc.Delete(context.Background(), uuid.New(), false, n.ID)

		assert.ErrorIs(t, err, shared.ErrForbidden)
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestNotificationService_MarkAllRead(t *testing.T) {
	repo := new(MockRepository)
	svc := NewNotificationService(repo)

	customerID := uuid.New()
	repo.On("MarkAllReadForCustomer", mock.Anything, customerID).Return(nil)

	require.NoError(t, svc.MarkAllRead(context.Background(), customerID))
	repo.AssertExpectations(t)
}
