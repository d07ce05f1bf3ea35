package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/coffeehouse/backend/internal/domain/order"
	"github.com/coffeehouse/backend/internal/domain/shared"
	"github.com/coffeehouse/backend/internal/domain/shared/valueobject"
	"github.com/coffeehouse/backend/internal/infrastructure/event"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockOrderRepository(t *testing.T) (*GormOrderRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormOrderRepository(gormDB), mock, mockDB
}

func TestGormOrderRepository_FindByID(t *testing.T) {
	t.Run("finds order with items", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		orderID := uuid.New()
		customerID := uuid.New()

		orderRows := sqlmock.NewRows([]string{
			"id", "order_number", "customer_id", "customer_email",
			"status", "payment_method", "payment_status", "total",
		}).AddRow(
			orderID, "CF-20260829-103000-001", customerID, "an.nguyen@example.com",
			"pending", "cod", "unpaid", decimal.NewFromInt(120000),
		)

		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(orderID, 1).
			WillReturnRows(orderRows)

		itemRows := sqlmock.NewRows([]string{
			"id", "order_id", "product_id", "product_name", "unit_price", "quantity", "line_total",
		}).AddRow(
			uuid.New(), orderID, uuid.New(), "Cà Phê Sữa Đá",
			decimal.NewFromInt(50000), 2, decimal.NewFromInt(100000),
		)

		mock.ExpectQuery(`SELECT \* FROM "order_items" WHERE "order_items"\."order_id" = \$1`).
			WithArgs(orderID).
			WillReturnRows(itemRows)

		o, err := repo.FindByID(context.Background(), orderID)

		require.NoError(t, err)
		require.NotNil(t, o)
		assert.Equal(t, "CF-20260829-103000-001", o.OrderNumber)
		assert.Equal(t, order.OrderStatusPending, o.Status)
		require.Len(t, o.Items, 1)
		assert.Equal(t, 2, o.Items[0].Quantity)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for missing order", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		orderID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(orderID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		o, err := repo.FindByID(context.Background(), orderID)

		assert.Nil(t, o)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormOrderRepository_FindByOrderNumber(t *testing.T) {
	repo, mock, mockDB := newMockOrderRepository(t)
	defer mockDB.Close()

	orderID := uuid.New()
	orderRows := sqlmock.NewRows([]string{"id", "order_number", "status", "payment_method"}).
		AddRow(orderID, "CF-20260829-103000-002", "confirmed", "banking")

	mock.ExpectQuery(`SELECT \* FROM "orders" WHERE order_number = \$1 ORDER BY .* LIMIT .*`).
		WithArgs("CF-20260829-103000-002", 1).
		WillReturnRows(orderRows)

	mock.ExpectQuery(`SELECT \* FROM "order_items" WHERE "order_items"\."order_id" = \$1`).
		WithArgs(orderID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id"}))

	o, err := repo.FindByOrderNumber(context.Background(), "CF-20260829-103000-002")

	require.NoError(t, err)
	assert.Equal(t, orderID, o.ID)
	assert.Equal(t, order.OrderStatusConfirmed, o.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormOrderRepository_CountByStatus(t *testing.T) {
	repo, mock, mockDB := newMockOrderRepository(t)
	defer mockDB.Close()

	rows := sqlmock.NewRows([]string{"status", "count"}).
		AddRow("pending", 3).
		AddRow("delivered", 12).
		AddRow("cancelled", 1)

	mock.ExpectQuery(`SELECT status, count\(\*\) as count FROM "orders" GROUP BY "status"`).
		WillReturnRows(rows)

	counts, err := repo.CountByStatus(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(3), counts[order.OrderStatusPending])
	assert.Equal(t, int64(12), counts[order.OrderStatusDelivered])
	assert.Equal(t, int64(1), counts[order.OrderStatusCancelled])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormOrderRepository_CountOrdersSince(t *testing.T) {
	repo, mock, mockDB := newMockOrderRepository(t)
	defer mockDB.Close()

	since := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "orders" WHERE created_at >= \$1`).
		WithArgs(since).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	count, err := repo.CountOrdersSince(context.Background(), since)

	require.NoError(t, err)
	assert.Equal(t, int64(7), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormOrderRepository_Save(t *testing.T) {
	newPlacedOrder := func(t *testing.T) *order.Order {
		item, err := order.NewOrderItem(uuid.New(), "Cà Phê Sữa Đá", valueobject.NewMoneyVNDFromInt(29000), 2)
		require.NoError(t, err)

		o, err := order.NewOrder(
			"CF-20260829-110000-001",
			uuid.New(),
			"an.nguyen@example.com",
			order.PaymentMethodCOD,
			order.ShippingInfo{
				RecipientName: "Nguyễn Văn An",
				Phone:         "0901234567",
				Address:       "12 Lý Tự Trọng",
				City:          "TP.HCM",
			},
			[]order.OrderItem{item},
			valueobject.NewMoneyVNDFromInt(20000),
		)
		require.NoError(t, err)
		return o
	}

	expectOrderWrites := func(mock sqlmock.Sqlmock) {
		mock.ExpectExec(`UPDATE "orders" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`DELETE FROM "order_items" WHERE order_id = \$1 AND id NOT IN \(\$2\)`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`INSERT INTO "order_items"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}

	t.Run("writes one outbox entry in the order transaction", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		serializer := event.NewEventSerializer()
		event.RegisterDomainEvents(serializer)
		repo.SetOutboxEventSaver(event.NewOutboxPublisher(serializer))

		o := newPlacedOrder(t)
		require.Len(t, o.GetDomainEvents(), 1)

		mock.ExpectBegin()
		expectOrderWrites(mock)
		mock.ExpectExec(`INSERT INTO "outbox_entries"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.Save(context.Background(), o)

		require.NoError(t, err)
		assert.Empty(t, o.GetDomainEvents())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back the order when the outbox write fails", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		serializer := event.NewEventSerializer()
		event.RegisterDomainEvents(serializer)
		repo.SetOutboxEventSaver(event.NewOutboxPublisher(serializer))

		o := newPlacedOrder(t)

		mock.ExpectBegin()
		expectOrderWrites(mock)
		mock.ExpectExec(`INSERT INTO "outbox_entries"`).
			WillReturnError(sql.ErrConnDone)
		mock.ExpectRollback()

		err := repo.Save(context.Background(), o)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to save events to outbox")
		assert.Len(t, o.GetDomainEvents(), 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("skips the outbox when no saver is configured", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		o := newPlacedOrder(t)

		mock.ExpectBegin()
		expectOrderWrites(mock)
		mock.ExpectCommit()

		err := repo.Save(context.Background(), o)

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
