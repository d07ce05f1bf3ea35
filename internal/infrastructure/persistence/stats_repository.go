package persistence

import (
	"context"
	"time"

	"github.com/coffeehouse/backend/internal/domain/order"
	"github.com/coffeehouse/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormStatsRepository computes dashboard aggregates with SQL
// Every query scans the window's orders; fine at shop scale
type GormStatsRepository struct {
	db *gorm.DB
}

// NewGormStatsRepository creates a new GormStatsRepository
func NewGormStatsRepository(db *gorm.DB) *GormStatsRepository {
	return &GormStatsRepository{db: db}
}

// Collect computes stats over the given time window
// Zero times mean an unbounded window on that side
func (r *GormStatsRepository) Collect(ctx context.Context, from, to time.Time, topN int) (*order.Stats, error) {
	stats := &order.Stats{
		Revenue:        valueobject.ZeroVND(),
		OrdersByStatus: make(map[order.OrderStatus]int64),
		TopProducts:    make([]order.TopProduct, 0, topN),
	}

	type statusCount struct {
		Status order.OrderStatus
		Count  int64
	}

	var statusCounts []statusCount
	if err := r.window(r.db.WithContext(ctx).Model(&order.Order{}), "orders.created_at", from, to).
		Select("status, count(*) as count").
		Group("status").
		Scan(&statusCounts).Error; err != nil {
		return nil, err
	}

	for _, row := range statusCounts {
		stats.OrdersByStatus[row.Status] = row.Count
		stats.TotalOrders += row.Count
		switch row.Status {
		case order.OrderStatusPending:
			stats.PendingOrders = row.Count
		case order.OrderStatusDelivered:
			stats.DeliveredOrders = row.Count
		case order.OrderStatusCancelled:
			stats.CancelledOrders = row.Count
		}
	}

	if err := r.window(r.db.WithContext(ctx).Model(&order.Order{}), "orders.created_at", from, to).
		Distinct("customer_id").
		Count(&stats.TotalCustomers).Error; err != nil {
		return nil, err
	}

	// Revenue counts every order in the window regardless of status
	var revenue decimal.NullDecimal
	if err := r.window(r.db.WithContext(ctx).Model(&order.Order{}), "orders.created_at", from, to).
		Select("sum(total)").
		Scan(&revenue).Error; err != nil {
		return nil, err
	}
	if revenue.Valid {
		stats.Revenue = valueobject.NewMoneyVND(revenue.Decimal)
	}

	if topN > 0 {
		type topRow struct {
			ProductID   uuid.UUID
			ProductName string
			Quantity    int64
			Revenue     decimal.Decimal
		}

		var rows []topRow
		query := r.db.WithContext(ctx).
			Table("order_items").
			Select("order_items.product_id, order_items.product_name, sum(order_items.quantity) as quantity, sum(order_items.line_total) as revenue").
			Joins("JOIN orders ON orders.id = order_items.order_id").
			Where("orders.status = ?", order.OrderStatusDelivered)
		query = r.window(query, "orders.created_at", from, to).
			Group("order_items.product_id, order_items.product_name").
			Order("quantity DESC").
			Limit(topN)

		if err := query.Scan(&rows).Error; err != nil {
			return nil, err
		}

		for _, row := range rows {
			stats.TopProducts = append(stats.TopProducts, order.TopProduct{
				ProductID:   row.ProductID,
				ProductName: row.ProductName,
				Quantity:    row.Quantity,
				Revenue:     valueobject.NewMoneyVND(row.Revenue),
			})
		}
	}

	return stats, nil
}

func (r *GormStatsRepository) window(query *gorm.DB, column string, from, to time.Time) *gorm.DB {
	if !from.IsZero() {
		query = query.Where(column+" >= ?", from)
	}
	if !to.IsZero() {
		query = query.Where(column+" <= ?", to)
	}
	return query
}

var _ order.StatsRepository = (*GormStatsRepository)(nil)
