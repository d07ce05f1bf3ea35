package order

import (
	"context"
	"time"

	"github.com/coffeehouse/backend/internal/domain/shared"
	"github.com/coffeehouse/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order by its ID, items included
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByOrderNumber finds an order by its human-readable number
	FindByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)

	// FindAll finds all orders matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)

	// FindByStatus finds orders in a given status, newest first
	FindByStatus(ctx context.Context, status OrderStatus, filter shared.Filter) ([]Order, error)

	// Save creates or updates an order and its items
	Save(ctx context.Context, order *Order) error

	// Count counts orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountByStatus counts orders per status for the admin board
	CountByStatus(ctx context.Context) (map[OrderStatus]int64, error)

	// CountOrdersSince counts orders created at or after the given time
	// Used to build sequence suffixes for order numbers
	CountOrdersSince(ctx context.Context, since time.Time) (int64, error)
}

// TopProduct is one row of the best-seller ranking
type TopProduct struct {
	ProductID   uuid.UUID         `json:"product_id"`
	ProductName string            `json:"product_name"`
	Quantity    int64             `json:"quantity"`
	Revenue     valueobject.Money `json:"revenue"`
}

// Stats is the aggregate snapshot shown on the admin dashboard
// Revenue counts delivered orders only
type Stats struct {
	TotalOrders     int64                 `json:"total_orders"`
	PendingOrders   int64                 `json:"pending_orders"`
	DeliveredOrders int64                 `json:"delivered_orders"`
	CancelledOrders int64                 `json:"cancelled_orders"`
	TotalCustomers  int64                 `json:"total_customers"`
	Revenue         valueobject.Money     `json:"revenue"`
	OrdersByStatus  map[OrderStatus]int64 `json:"orders_by_status"`
	TopProducts     []TopProduct          `json:"top_products"`
}

// StatsRepository computes dashboard aggregates
// Implementations may scan the full order table; acceptable at shop scale
type StatsRepository interface {
	// Collect computes stats over the given time window
	// Zero times mean an unbounded window on that side
	Collect(ctx context.Context, from, to time.Time, topN int) (*Stats, error)
}
